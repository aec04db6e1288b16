package settingsrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/settings"

	"github.com/samber/lo"
	"gorm.io/gorm"
)

// GormSettingsStore implements SettingsStore. A missing singleton row is
// reported as nil so the caller can apply its defaults.
type GormSettingsStore struct {
	db *gorm.DB
}

func NewGormSettingsStore(db *gorm.DB) *GormSettingsStore {
	return &GormSettingsStore{db: db}
}

func (s *GormSettingsStore) LoadCashback(ctx context.Context) (*settings.Cashback, error) {
	var dto PercentCashbackDTO
	if err := s.db.WithContext(ctx).Order("id").First(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil //nolint:nilnil // not configured
		}
		return nil, err
	}

	return &settings.Cashback{
		MobilePercent:      dto.MobilePercent,
		WebPercent:         dto.WebPercent,
		MinOrderPrice:      dto.MinOrderPrice,
		MaxCoveragePercent: dto.MaxCoveragePercent,
	}, nil
}

func (s *GormSettingsStore) LoadTariffs(ctx context.Context) ([]settings.DistanceTariff, error) {
	var dtos []DistancePricingDTO
	if err := s.db.WithContext(ctx).Order("distance").Find(&dtos).Error; err != nil {
		return nil, err
	}

	return lo.Map(dtos, func(dto DistancePricingDTO, _ int) settings.DistanceTariff {
		return settings.DistanceTariff{ThresholdMeters: dto.Distance, Fee: dto.Price}
	}), nil
}

func (s *GormSettingsStore) LoadPayment(ctx context.Context) (*settings.Payment, error) {
	var dto PaymentSettingsDTO
	if err := s.db.WithContext(ctx).Order("id").First(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil //nolint:nilnil // not configured
		}
		return nil, err
	}

	return &settings.Payment{
		BaseURL:    dto.PayboxURL,
		MerchantID: dto.MerchantID,
		Secret:     dto.SecretKey,
		Currency:   dto.Currency,
		ResultURL:  dto.ResultURL,
		SuccessURL: dto.SuccessURL,
	}, nil
}
