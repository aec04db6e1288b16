package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/settings"
)

// SettingsStore reads the business configuration singletons. A nil result
// means the singleton has not been configured.
type SettingsStore interface {
	LoadCashback(ctx context.Context) (*settings.Cashback, error)
	LoadTariffs(ctx context.Context) ([]settings.DistanceTariff, error)
	LoadPayment(ctx context.Context) (*settings.Payment, error)
}
