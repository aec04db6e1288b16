package postgres

import (
	"fulfillment/internal/adapters/out/postgres/catalogrepo"
	"fulfillment/internal/adapters/out/postgres/customerrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/restaurantrepo"
	"fulfillment/internal/adapters/out/postgres/settingsrepo"

	"gorm.io/gorm"
)

// Models lists every persisted DTO, referenced tables first.
func Models() []any {
	return []any{
		&customerrepo.UserDTO{},
		&customerrepo.AddressDTO{},
		&restaurantrepo.RestaurantDTO{},
		&restaurantrepo.PromoCodeDTO{},
		&catalogrepo.ProductDTO{},
		&catalogrepo.ProductSizeDTO{},
		&catalogrepo.ToppingDTO{},
		&orderrepo.DeliveryDTO{},
		&orderrepo.OrderDTO{},
		&orderrepo.ItemDTO{},
		&orderrepo.ItemToppingDTO{},
		&settingsrepo.PercentCashbackDTO{},
		&settingsrepo.DistancePricingDTO{},
		&settingsrepo.PaymentSettingsDTO{},
	}
}

// AutoMigrate creates or extends the schema of every table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
