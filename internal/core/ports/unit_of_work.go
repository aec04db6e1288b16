package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
// This ensures proper isolation between concurrent operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
// Client code must explicitly manage transaction lifecycle. Events raised by
// aggregates saved through its repositories are dispatched after Commit.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction and dispatches tracked events.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction and drops tracked events.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository
	CatalogRepository() CatalogRepository
	CustomerRepository() CustomerRepository
	RestaurantRepository() RestaurantRepository
	PromoRepository() PromoRepository
	AddressDirectory() AddressDirectory
}
