// Package settingsrepo reads the business configuration tables:
// percent_cashback, distance_pricing and payment_settings.
package settingsrepo

import (
	"github.com/shopspring/decimal"
)

// PercentCashbackDTO is a singleton row.
type PercentCashbackDTO struct {
	ID                 uint            `gorm:"primaryKey"`
	MobilePercent      decimal.Decimal `gorm:"type:numeric(5,2);not null"`
	WebPercent         decimal.Decimal `gorm:"type:numeric(5,2);not null"`
	MinOrderPrice      decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	MaxCoveragePercent decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0"`
}

func (PercentCashbackDTO) TableName() string {
	return "percent_cashback"
}

type DistancePricingDTO struct {
	ID       uint            `gorm:"primaryKey"`
	Distance int             `gorm:"not null"`
	Price    decimal.Decimal `gorm:"type:numeric(12,2);not null"`
}

func (DistancePricingDTO) TableName() string {
	return "distance_pricing"
}

// PaymentSettingsDTO is a singleton row.
type PaymentSettingsDTO struct {
	ID         uint   `gorm:"primaryKey"`
	PayboxURL  string `gorm:"not null"`
	MerchantID string `gorm:"not null"`
	SecretKey  string `gorm:"not null"`
	Currency   string `gorm:"type:varchar(3);not null;default:KZT"`
	ResultURL  string
	SuccessURL string
}

func (PaymentSettingsDTO) TableName() string {
	return "payment_settings"
}
