// Package order implements the Order aggregate and its fulfillment state
// machine.
//
// An order is placed as Pending together with its Delivery leg and Items.
// Collectors move it to InProgress and Ready, couriers take delivery orders to
// Delivery and complete them; pickup orders are completed straight from Ready
// by staff. The owner or an admin may cancel any order that is not final.
//
// Ledger effects (stock and bonus) are not applied here. The command handlers
// apply them in the unit of work that persists the order.
package order
