package restaurantrepo

import (
	"context"
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/promo"
	"fulfillment/internal/core/domain/model/restaurant"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

type GormRestaurantRepository struct {
	db *gorm.DB
}

func NewGormRestaurantRepository(db *gorm.DB) *GormRestaurantRepository {
	return &GormRestaurantRepository{db: db}
}

func (r *GormRestaurantRepository) Get(ctx context.Context, id kernel.UUID) (*restaurant.Restaurant, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto RestaurantDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("restaurant", id.String())
		}
		return nil, err
	}
	return restaurantToDomain(dto)
}

// List returns every restaurant ordered by name, then id.
func (r *GormRestaurantRepository) List(ctx context.Context) ([]*restaurant.Restaurant, error) {
	var dtos []RestaurantDTO
	if err := r.db.WithContext(ctx).Order("name").Order("id").Find(&dtos).Error; err != nil {
		return nil, err
	}

	restaurants := make([]*restaurant.Restaurant, 0, len(dtos))
	for _, dto := range dtos {
		rs, err := restaurantToDomain(dto)
		if err != nil {
			return nil, err
		}
		restaurants = append(restaurants, rs)
	}
	return restaurants, nil
}

type GormPromoRepository struct {
	db *gorm.DB
}

func NewGormPromoRepository(db *gorm.DB) *GormPromoRepository {
	return &GormPromoRepository{db: db}
}

// GetByCode matches the code exactly after trimming surrounding spaces.
func (r *GormPromoRepository) GetByCode(ctx context.Context, code string) (*promo.Code, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, errs.NewValueIsRequiredError("promo_code")
	}

	var dto PromoCodeDTO
	if err := r.db.WithContext(ctx).First(&dto, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("promo_code", code)
		}
		return nil, err
	}
	return promoToDomain(dto)
}
