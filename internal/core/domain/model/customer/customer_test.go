package customer_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/customer"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomer_EnsureCanRedeem(t *testing.T) {
	c, err := customer.Restore(kernel.NewUUID(), customer.RoleUser, decimal.NewFromInt(50), "", nil)
	require.NoError(t, err)

	t.Run("should allow redemption within balance", func(t *testing.T) {
		require.NoError(t, c.EnsureCanRedeem(decimal.NewFromInt(30)))
		require.NoError(t, c.EnsureCanRedeem(decimal.NewFromInt(50)))
	})

	t.Run("should reject redemption above balance", func(t *testing.T) {
		err := c.EnsureCanRedeem(decimal.RequireFromString("50.01"))

		require.ErrorIs(t, err, errs.ErrInsufficientBonus)
		assert.Contains(t, err.Error(), "balance 50")
	})

	t.Run("should reject negative redemption", func(t *testing.T) {
		require.ErrorIs(t, c.EnsureCanRedeem(decimal.NewFromInt(-1)), errs.ErrValueIsInvalid)
	})
}

func TestParseRole(t *testing.T) {
	role, err := customer.ParseRole("delivery")
	require.NoError(t, err)
	assert.Equal(t, customer.RoleCourier, role)
	assert.True(t, role.IsStaff())

	admin, err := customer.ParseRole("admin")
	require.NoError(t, err)
	assert.False(t, admin.IsStaff())

	_, err = customer.ParseRole("root")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestRestore_RejectsNegativeBalance(t *testing.T) {
	_, err := customer.Restore(kernel.NewUUID(), customer.RoleUser, decimal.NewFromInt(-5), "", nil)

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
