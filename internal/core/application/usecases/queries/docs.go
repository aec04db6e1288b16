// Package queries contains read-only operations. Handlers read the database
// directly with raw SQL and return flat response structs; they never load
// aggregates or open a unit of work.
package queries
