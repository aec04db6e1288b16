// Package customerrepo stores users with their bonus balance and push token,
// and the user address book.
package customerrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/customer"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type UserDTO struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Role        string          `gorm:"type:varchar(16);index;not null"`
	Bonus       decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0;check:bonus >= 0"`
	PushToken   string
	LastOrderAt *time.Time
}

func (UserDTO) TableName() string {
	return "users"
}

type AddressDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null"`
	City      string
	Line      string
	Latitude  *float64
	Longitude *float64
}

func (AddressDTO) TableName() string {
	return "addresses"
}

func userToDomain(dto UserDTO) (*customer.Customer, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	role, err := customer.ParseRole(dto.Role)
	if err != nil {
		return nil, err
	}
	return customer.Restore(id, role, dto.Bonus, dto.PushToken, dto.LastOrderAt)
}

func addressToDomain(dto AddressDTO) (customer.Address, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return customer.Address{}, err
	}
	userID, err := kernel.UUIDFromBytes(dto.UserID[:])
	if err != nil {
		return customer.Address{}, err
	}
	location, err := kernel.NewOptionalLocation(dto.Latitude, dto.Longitude)
	if err != nil {
		return customer.Address{}, err
	}
	return customer.NewAddress(id, userID, dto.City, dto.Line, location)
}
