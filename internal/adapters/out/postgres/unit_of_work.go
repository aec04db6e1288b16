// Package postgres provides the GORM-based Unit of Work. One unit of work is
// one database transaction shared by every repository it hands out.
//
// Orders added or updated through the unit of work are tracked; after a
// successful Commit their pending status events are handed to the event
// dispatcher. Rollback drops them.
//
// Usage:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	if err := uow.CatalogRepository().DeductStock(ctx, productID, amount); err != nil {
//	    return err
//	}
//	if err := uow.OrderRepository().Add(ctx, o); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Concurrency Considerations:
//   - Each UnitOfWork instance owns one transaction; goroutines must not share it
//   - GetForUpdate serializes transitions of one order
//   - Stock and bonus are changed with conditional single-statement updates
package postgres

import (
	"context"
	"slices"

	"fulfillment/internal/adapters/out/postgres/catalogrepo"
	"fulfillment/internal/adapters/out/postgres/customerrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/restaurantrepo"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"

	"gorm.io/gorm"
)

// EventDispatcher receives the status events of committed orders.
type EventDispatcher interface {
	Dispatch(ctx context.Context, events []order.StatusChanged)
}

// GormUnitOfWorkFactory creates UnitOfWork instances using GORM database connections.
type GormUnitOfWorkFactory struct {
	db         *gorm.DB
	dispatcher EventDispatcher
}

// NewGormUnitOfWorkFactory creates a factory. dispatcher may be nil, in which
// case events are dropped after commit.
//
// Example:
//
//	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
//	if err != nil {
//	    log.Fatal("failed to connect database")
//	}
//	factory := NewGormUnitOfWorkFactory(db, hooks.NewDispatcher(logger, 0, notifier))
func NewGormUnitOfWorkFactory(db *gorm.DB, dispatcher EventDispatcher) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db, dispatcher: dispatcher}
}

// Create produces a fresh unit of work with its own transaction state and
// tracked aggregates.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return f.New()
}

// New is Create with the concrete type.
func (f *GormUnitOfWorkFactory) New() *GormUnitOfWork {
	return &GormUnitOfWork{
		db:         f.db,
		dispatcher: f.dispatcher,
	}
}

// GormUnitOfWork coordinates one database transaction and tracks the orders
// modified in it.
type GormUnitOfWork struct {
	db         *gorm.DB
	tx         *gorm.DB
	dispatcher EventDispatcher
	tracked    []*order.Order
}

// Begin starts a transaction. Calling Begin on an active unit of work is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit finalizes the transaction, then dispatches the status events of the
// tracked orders. Dispatch failures never surface here.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		uow.tracked = nil
		return err
	}

	uow.dispatchTracked(ctx)
	return nil
}

// Rollback discards the transaction and the tracked events. It returns
// gorm.ErrInvalidTransaction when no transaction is active, which is the
// normal case for the deferred rollback after a Commit.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	uow.tracked = nil
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) CatalogRepository() ports.CatalogRepository {
	return catalogrepo.NewGormCatalogRepository(uow.conn())
}

func (uow *GormUnitOfWork) CustomerRepository() ports.CustomerRepository {
	return customerrepo.NewGormCustomerRepository(uow.conn())
}

func (uow *GormUnitOfWork) RestaurantRepository() ports.RestaurantRepository {
	return restaurantrepo.NewGormRestaurantRepository(uow.conn())
}

func (uow *GormUnitOfWork) PromoRepository() ports.PromoRepository {
	return restaurantrepo.NewGormPromoRepository(uow.conn())
}

func (uow *GormUnitOfWork) AddressDirectory() ports.AddressDirectory {
	return customerrepo.NewGormAddressDirectory(uow.conn())
}

// TrackAggregate registers an order written in this unit of work. Writing the
// same order twice tracks it once.
func (uow *GormUnitOfWork) TrackAggregate(aggregate *order.Order) {
	if slices.Contains(uow.tracked, aggregate) {
		return
	}
	uow.tracked = append(uow.tracked, aggregate)
}

func (uow *GormUnitOfWork) dispatchTracked(ctx context.Context) {
	tracked := uow.tracked
	uow.tracked = nil

	var events []order.StatusChanged
	for _, aggregate := range tracked {
		events = append(events, aggregate.PullEvents()...)
	}
	if uow.dispatcher == nil || len(events) == 0 {
		return
	}
	uow.dispatcher.Dispatch(ctx, events)
}
