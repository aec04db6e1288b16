package settings

import (
	"sort"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// DistanceTariff maps a distance threshold in meters to a delivery fee.
type DistanceTariff struct {
	ThresholdMeters int
	Fee             decimal.Decimal
}

// DistanceTariffs is a delivery fee table sorted by threshold.
type DistanceTariffs []DistanceTariff

// DefaultDistanceTariffs is used when no tariff is configured.
func DefaultDistanceTariffs() DistanceTariffs {
	return DistanceTariffs{{ThresholdMeters: 650, Fee: decimal.NewFromInt(15)}}
}

// NewDistanceTariffs sorts the rows and falls back to the default table when empty.
func NewDistanceTariffs(rows []DistanceTariff) DistanceTariffs {
	if len(rows) == 0 {
		return DefaultDistanceTariffs()
	}
	sorted := make(DistanceTariffs, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ThresholdMeters < sorted[j].ThresholdMeters
	})
	return sorted
}

// Fee looks up the fee for a whole number of kilometers: the fee
// of the largest threshold not above km*1000 meters, or the highest fee when
// every threshold is larger.
func (t DistanceTariffs) Fee(km int) decimal.Decimal {
	if len(t) == 0 {
		t = DefaultDistanceTariffs()
	}
	meters := km * 1000

	var (
		best  *DistanceTariff
		found bool
	)
	for i := range t {
		if t[i].ThresholdMeters <= meters && (!found || t[i].ThresholdMeters > best.ThresholdMeters) {
			best = &t[i]
			found = true
		}
	}
	if found {
		return best.Fee
	}

	return lo.MaxBy(t, func(a, b DistanceTariff) bool {
		return a.Fee.GreaterThan(b.Fee)
	}).Fee
}
