// Package ports defines the contracts between the core and its adapters:
// repositories bound to a unit of work, configuration stores, the payment
// gateway and the notification transports.
package ports
