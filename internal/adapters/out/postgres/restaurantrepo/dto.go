// Package restaurantrepo stores restaurants and promo codes.
package restaurantrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/promo"
	"fulfillment/internal/core/domain/model/restaurant"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RestaurantDTO struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name                string    `gorm:"not null"`
	Address             string
	Latitude            *float64
	Longitude           *float64
	OpeningHours        *string `gorm:"type:varchar(8)"`
	ClosingHours        *string `gorm:"type:varchar(8)"`
	SelfPickupAvailable bool    `gorm:"not null;default:false"`
}

func (RestaurantDTO) TableName() string {
	return "restaurants"
}

type PromoCodeDTO struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Code      string          `gorm:"uniqueIndex;not null"`
	ValidFrom time.Time       `gorm:"not null"`
	ValidTo   time.Time       `gorm:"not null"`
	Discount  decimal.Decimal `gorm:"type:numeric(5,2);not null"`
	Active    bool            `gorm:"not null;default:true"`
}

func (PromoCodeDTO) TableName() string {
	return "promo_codes"
}

func restaurantToDomain(dto RestaurantDTO) (*restaurant.Restaurant, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	location, err := kernel.NewOptionalLocation(dto.Latitude, dto.Longitude)
	if err != nil {
		return nil, err
	}
	hours, err := restaurant.ParseHours(dto.OpeningHours, dto.ClosingHours)
	if err != nil {
		return nil, err
	}
	return restaurant.NewRestaurant(id, dto.Name, dto.Address, location, hours, dto.SelfPickupAvailable)
}

func promoToDomain(dto PromoCodeDTO) (*promo.Code, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	return promo.NewCode(id, dto.Code, dto.ValidFrom, dto.ValidTo, dto.Discount, dto.Active)
}
