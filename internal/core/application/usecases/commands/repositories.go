// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/settings"
	"fulfillment/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// Each handler asks for the narrowest one it needs.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	CatalogRepoFactory interface {
		CatalogRepository() ports.CatalogRepository
	}

	CustomerRepoFactory interface {
		CustomerRepository() ports.CustomerRepository
	}

	RestaurantRepoFactory interface {
		RestaurantRepository() ports.RestaurantRepository
	}

	PromoRepoFactory interface {
		PromoRepository() ports.PromoRepository
	}

	AddressDirectoryFactory interface {
		AddressDirectory() ports.AddressDirectory
	}

	// OrderUoW manages transactions that touch only the order, such as
	// payment status updates.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// LedgerUoW covers transitions with stock and bonus side effects.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   o, err := uow.OrderRepository().GetForUpdate(ctx, id)
	//   // ... transition, restore stock via uow.CatalogRepository()
	//
	//   err = uow.Commit(ctx)
	LedgerUoW interface {
		TxManager
		OrderRepoFactory
		CatalogRepoFactory
		CustomerRepoFactory
	}

	LedgerUoWFactory interface {
		Create() LedgerUoW
	}

	// PlacementUoW is everything order placement reads and writes.
	PlacementUoW interface {
		LedgerUoW
		RestaurantRepoFactory
		PromoRepoFactory
		AddressDirectoryFactory
	}

	PlacementUoWFactory interface {
		Create() PlacementUoW
	}

	// SettingsProvider serves the configuration snapshot in effect.
	SettingsProvider interface {
		Snapshot() settings.Snapshot
	}
)
