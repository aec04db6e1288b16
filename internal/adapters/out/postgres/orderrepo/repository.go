package orderrepo

import (
	"context"
	"errors"

	"fulfillment/internal/adapters/out/postgres/pgerr"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(aggregate *order.Order)
}

func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts the order with its delivery leg, items and topping snapshots.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerr.IsUniqueViolation(err) {
			return errs.NewVersionIsInvalidError("order_id", err)
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate)
	return nil
}

// Update rewrites the mutable order columns and the delivery timestamp.
// Items are never rewritten.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	var dto OrderDTO
	applyMutable(&dto, aggregate)

	db := r.db.WithContext(ctx)
	result := db.Model(&OrderDTO{}).
		Where("id = ?", aggregate.ID().Bytes()).
		Select("*").
		Omit("id", "user_id", "delivery_id", "created_at", clause.Associations).
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", aggregate.ID().String())
	}

	if err := db.Model(&DeliveryDTO{}).
		Where("id = ?", aggregate.Delivery().ID().Bytes()).
		Update("delivered_at", aggregate.Delivery().DeliveredAt()).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate)
	return nil
}

func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.load(r.db.WithContext(ctx), id)
}

// GetForUpdate takes a FOR UPDATE lock on the orders row; it only serializes
// when called inside a transaction.
func (r *GormOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.load(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}), id)
}

func (r *GormOrderRepository) load(db *gorm.DB, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := db.
		Preload("Delivery").
		Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("position") }).
		Preload("Items.Toppings", func(tx *gorm.DB) *gorm.DB { return tx.Order("id") }).
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
