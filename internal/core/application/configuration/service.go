// Package configuration serves the business settings to the use cases. The
// settings are read once at start and replaced as a whole on Reload, so a
// request never observes a half-updated configuration.
package configuration

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"fulfillment/internal/core/domain/model/settings"
	"fulfillment/internal/core/ports"
)

const defaultCurrency = "KZT"

type Service struct {
	store   ports.SettingsStore
	logger  *slog.Logger
	current atomic.Pointer[settings.Snapshot]
}

func NewService(store ports.SettingsStore, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger.With("component", "settings")}
}

// Load is Reload for the first read at start up.
func (s *Service) Load(ctx context.Context) error {
	_, err := s.Reload(ctx)
	return err
}

// Reload reads every singleton, fills in defaults for the missing ones and
// swaps the snapshot. On error the previous snapshot stays in effect.
func (s *Service) Reload(ctx context.Context) (settings.Snapshot, error) {
	cashback, err := s.store.LoadCashback(ctx)
	if err != nil {
		return settings.Snapshot{}, fmt.Errorf("load cashback: %w", err)
	}
	tariffs, err := s.store.LoadTariffs(ctx)
	if err != nil {
		return settings.Snapshot{}, fmt.Errorf("load distance tariffs: %w", err)
	}
	payment, err := s.store.LoadPayment(ctx)
	if err != nil {
		return settings.Snapshot{}, fmt.Errorf("load payment settings: %w", err)
	}

	snapshot := settings.Snapshot{
		Cashback: settings.DefaultCashback(),
		Tariffs:  settings.NewDistanceTariffs(tariffs),
		Payment:  settings.Payment{Currency: defaultCurrency},
	}
	if cashback != nil {
		snapshot.Cashback = *cashback
	} else {
		s.logger.WarnContext(ctx, "cashback is not configured, using defaults")
	}
	if payment != nil {
		snapshot.Payment = *payment
		if snapshot.Payment.Currency == "" {
			snapshot.Payment.Currency = defaultCurrency
		}
	}
	if err = snapshot.Payment.Validate(); err != nil {
		return settings.Snapshot{}, err
	}

	s.current.Store(&snapshot)
	s.logger.InfoContext(ctx, "settings loaded",
		"tariffs", len(snapshot.Tariffs),
		"payment_configured", snapshot.Payment.Configured())
	return snapshot, nil
}

// Snapshot returns the settings in effect, defaults before the first Load.
func (s *Service) Snapshot() settings.Snapshot {
	if current := s.current.Load(); current != nil {
		return *current
	}
	return settings.Snapshot{
		Cashback: settings.DefaultCashback(),
		Tariffs:  settings.DefaultDistanceTariffs(),
		Payment:  settings.Payment{Currency: defaultCurrency},
	}
}
