package order_test

import (
	"fmt"
	"testing"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Strings(t *testing.T) {
	t.Run("should round trip through ParseStatus", func(t *testing.T) {
		for _, s := range []order.Status{
			order.Pending, order.InProgress, order.Ready, order.InDelivery, order.Completed, order.Cancelled,
		} {
			parsed, err := order.ParseStatus(s.String())

			require.NoError(t, err)
			assert.Equal(t, s, parsed)
		}
	})

	t.Run("should reject unknown names", func(t *testing.T) {
		for _, s := range []string{"", "unknown", "Created", "PENDING"} {
			_, err := order.ParseStatus(s)

			require.ErrorIs(t, err, errs.ErrValueIsInvalid, s)
		}
	})

	t.Run("should use wire names", func(t *testing.T) {
		assert.Equal(t, "in_progress", order.InProgress.String())
		assert.Equal(t, "unknown", order.Status(42).String())
	})
}

func TestStatus_Validate(t *testing.T) {
	for _, s := range []order.Status{order.Unknown, order.Status(-1), order.Status(7)} {
		t.Run(fmt.Sprintf("should reject %d", int(s)), func(t *testing.T) {
			require.ErrorIs(t, s.Validate(), errs.ErrValueIsInvalid)
		})
	}
}

func TestStatus_Transitions(t *testing.T) {
	type step func(order.Status) (order.Status, error)

	tests := []struct {
		name string
		from order.Status
		step step
		want order.Status
		ok   bool
	}{
		{"start pending", order.Pending, order.Status.Start, order.InProgress, true},
		{"start in progress", order.InProgress, order.Status.Start, 0, false},
		{"ready from pending", order.Pending, order.Status.MarkReady, order.Ready, true},
		{"ready from in progress", order.InProgress, order.Status.MarkReady, order.Ready, true},
		{"ready from delivery", order.InDelivery, order.Status.MarkReady, 0, false},
		{"dispatch ready", order.Ready, func(s order.Status) (order.Status, error) { return s.Dispatch(false) }, order.InDelivery, true},
		{"dispatch pickup", order.Ready, func(s order.Status) (order.Status, error) { return s.Dispatch(true) }, 0, false},
		{"dispatch pending", order.Pending, func(s order.Status) (order.Status, error) { return s.Dispatch(false) }, 0, false},
		{"complete delivery", order.InDelivery, func(s order.Status) (order.Status, error) { return s.Complete(false) }, order.Completed, true},
		{"complete delivery from ready", order.Ready, func(s order.Status) (order.Status, error) { return s.Complete(false) }, 0, false},
		{"complete pickup from ready", order.Ready, func(s order.Status) (order.Status, error) { return s.Complete(true) }, order.Completed, true},
		{"cancel pending", order.Pending, order.Status.Cancel, order.Cancelled, true},
		{"cancel delivery", order.InDelivery, order.Status.Cancel, order.Cancelled, true},
		{"cancel completed", order.Completed, order.Status.Cancel, 0, false},
		{"cancel cancelled", order.Cancelled, order.Status.Cancel, 0, false},
		{"cancel unknown", order.Unknown, order.Status.Cancel, 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.step(tc.from)

			if !tc.ok {
				require.ErrorIs(t, err, errs.ErrInvalidStateTransition)
				assert.Equal(t, errs.KindInvalidStateTransition, errs.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestPaymentEnums(t *testing.T) {
	m, err := order.ParsePaymentMethod("card")
	require.NoError(t, err)
	assert.True(t, m.RequiresSettlement())
	assert.False(t, order.PaymentCash.RequiresSettlement())

	_, err = order.ParsePaymentMethod("barter")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	assert.Equal(t, order.SourceMobile, order.ParseSource("mobile"))
	assert.Equal(t, order.SourceUnknown, order.ParseSource("tv"))
}
