package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want errs.Kind
	}{
		{name: "nil", err: nil, want: ""},
		{name: "required", err: errs.NewValueIsRequiredError("items"), want: errs.KindValidation},
		{name: "invalid", err: errs.NewValueIsInvalidError("promo_code"), want: errs.KindValidation},
		{name: "out of range", err: errs.NewValueIsOutOfRangeError("quantity", 0, 1, 100), want: errs.KindValidation},
		{name: "not found", err: errs.NewObjectNotFoundError("order", "42"), want: errs.KindNotFound},
		{
			name: "insufficient stock",
			err:  errs.NewInsufficientStockError("p-1", decimal.NewFromInt(2)),
			want: errs.KindInsufficientStock,
		},
		{
			name: "insufficient bonus",
			err:  errs.NewInsufficientBonusError("u-1", decimal.NewFromInt(30), decimal.NewFromInt(10)),
			want: errs.KindInsufficientBonus,
		},
		{name: "no restaurant", err: errs.NewNoAvailableRestaurantError(), want: errs.KindNoAvailableRestaurant},
		{name: "closed", err: errs.NewRestaurantClosedError("r-1"), want: errs.KindRestaurantClosed},
		{name: "coordinates", err: errs.NewMissingCoordinatesError(), want: errs.KindMissingCoordinates},
		{name: "forbidden", err: errs.NewForbiddenError("cancel", "not the owner"), want: errs.KindForbidden},
		{
			name: "payment provider",
			err:  errs.NewPaymentProviderError("initiate", errors.New("timeout")),
			want: errs.KindPaymentProvider,
		},
		{
			name: "payment incomplete",
			err:  errs.NewPaymentIncompleteError("o-1", errors.New("connection reset")),
			want: errs.KindPaymentIncomplete,
		},
		{name: "wrapped", err: fmt.Errorf("create order: %w", errs.NewNoAvailableRestaurantError()), want: errs.KindNoAvailableRestaurant},
		{name: "plain", err: errors.New("boom"), want: errs.KindInternal},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, errs.KindOf(tc.err))
		})
	}
}

func TestKindOf_JoinedErrorsPreferBusinessKind(t *testing.T) {
	err := errors.Join(
		errs.NewValueIsRequiredError("comment"),
		errs.NewInsufficientStockError("p-1", decimal.NewFromInt(1)),
	)

	assert.Equal(t, errs.KindInsufficientStock, errs.KindOf(err))
}

func TestKindOf_IncompletePaymentOutranksItsCause(t *testing.T) {
	err := errs.NewPaymentIncompleteError("o-1", errors.Join(
		errs.NewPaymentProviderError("initiate", errors.New("timeout")),
		errs.NewVersionIsInvalidError("order", errors.New("no rows updated")),
	))

	assert.Equal(t, errs.KindPaymentIncomplete, errs.KindOf(err))
}
