// Package catalogrepo stores products with their stock, product sizes and
// toppings.
package catalogrepo

import (
	"fulfillment/internal/core/domain/model/catalog"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductDTO carries the stock in the product's canonical unit.
type ProductDTO struct {
	ID       uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name     string          `gorm:"not null"`
	Quantity decimal.Decimal `gorm:"type:numeric(18,6);not null;check:quantity >= 0"`
}

func (ProductDTO) TableName() string {
	return "products"
}

type ProductSizeDTO struct {
	ID              uuid.UUID        `gorm:"type:uuid;primaryKey"`
	ProductID       uuid.UUID        `gorm:"type:uuid;index;not null"`
	Name            string           `gorm:"not null"`
	Price           decimal.Decimal  `gorm:"type:numeric(12,2);not null"`
	DiscountedPrice *decimal.Decimal `gorm:"type:numeric(12,2)"`
	BonusPrice      *decimal.Decimal `gorm:"type:numeric(12,2)"`
	Amount          decimal.Decimal  `gorm:"type:numeric(12,3);not null"`
	Unit            string           `gorm:"type:varchar(8);not null"`
}

func (ProductSizeDTO) TableName() string {
	return "product_sizes"
}

type ToppingDTO struct {
	ID    uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name  string          `gorm:"not null"`
	Price decimal.Decimal `gorm:"type:numeric(12,2);not null"`
}

func (ToppingDTO) TableName() string {
	return "toppings"
}

func sizeToDomain(dto ProductSizeDTO) (*catalog.ProductSize, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	productID, err := kernel.UUIDFromBytes(dto.ProductID[:])
	if err != nil {
		return nil, err
	}
	unit, err := catalog.ParseUnit(dto.Unit)
	if err != nil {
		return nil, err
	}

	return catalog.NewProductSize(id, productID, dto.Name, catalog.Prices{
		Regular:    dto.Price,
		Discounted: dto.DiscountedPrice,
		Bonus:      dto.BonusPrice,
	}, dto.Amount, unit)
}

func toppingToDomain(dto ToppingDTO) (catalog.Topping, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return catalog.Topping{}, err
	}
	return catalog.NewTopping(id, dto.Name, dto.Price)
}
