package commands_test

import (
	"errors"
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/customer"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func pollCommand(t *testing.T, id kernel.UUID) commands.PollPaymentCommand {
	t.Helper()
	cmd, err := commands.NewPollPaymentCommand(id)
	require.NoError(t, err)
	return cmd
}

func expectLockedUpdate(t *testing.T, uow *MockUoW, o *order.Order, matches func(*order.Order) bool) {
	ctx := t.Context()
	uow.On("Begin", ctx).Return(nil).Once()
	uow.orders.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once()
	uow.orders.On("Update", ctx, mock.MatchedBy(matches)).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
}

func TestPollPaymentCommandHandler_Handle(t *testing.T) {
	cfg := defaultSettings().snapshot.Payment

	t.Run("cash orders are not polled", func(t *testing.T) {
		ctx := t.Context()
		uow := newMockUoW()
		gateway := &MockPaymentGateway{}
		o := placedOrder(t, kernel.NewUUID(), order.PaymentCash, "0")
		uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()

		handler := commands.NewPollPaymentCommandHandler(orderFactory{uow}, gateway, defaultSettings(), 0, discardLogger())
		status, err := handler.Handle(ctx, pollCommand(t, o.ID()))

		require.NoError(t, err)
		assert.Equal(t, order.PaymentPending, status)
		uow.assertAll(t)
		gateway.AssertNotCalled(t, "Status", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("success marks the payment completed", func(t *testing.T) {
		ctx := t.Context()
		uow := newMockUoW()
		gateway := &MockPaymentGateway{}
		o := placedOrder(t, kernel.NewUUID(), order.PaymentCard, "0")

		uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
		gateway.On("Status", ctx, cfg, o.ID()).Return(string(ports.PaymentStateSuccess), nil).Once()
		expectLockedUpdate(t, uow, o, func(o *order.Order) bool { return o.PaymentStatus() == order.PaymentCompleted })

		handler := commands.NewPollPaymentCommandHandler(orderFactory{uow}, gateway, defaultSettings(), 0, discardLogger())
		status, err := handler.Handle(ctx, pollCommand(t, o.ID()))

		require.NoError(t, err)
		assert.Equal(t, order.PaymentCompleted, status)
		assert.Equal(t, order.Pending, o.Status())
		uow.assertAll(t)
		gateway.AssertExpectations(t)
	})

	t.Run("provider error fails the payment", func(t *testing.T) {
		ctx := t.Context()
		uow := newMockUoW()
		gateway := &MockPaymentGateway{}
		o := placedOrder(t, kernel.NewUUID(), order.PaymentCard, "0")

		uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
		gateway.On("Status", ctx, cfg, o.ID()).Return(string(ports.PaymentStateError), nil).Once()
		expectLockedUpdate(t, uow, o, func(o *order.Order) bool { return o.PaymentStatus() == order.PaymentFailed })

		handler := commands.NewPollPaymentCommandHandler(orderFactory{uow}, gateway, defaultSettings(), 0, discardLogger())
		status, err := handler.Handle(ctx, pollCommand(t, o.ID()))

		require.NoError(t, err)
		assert.Equal(t, order.PaymentFailed, status)
		uow.assertAll(t)
	})

	t.Run("unreachable gateway counts as a pending attempt", func(t *testing.T) {
		ctx := t.Context()
		uow := newMockUoW()
		gateway := &MockPaymentGateway{}
		o := placedOrder(t, kernel.NewUUID(), order.PaymentCard, "0")

		uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
		gateway.On("Status", ctx, cfg, o.ID()).Return("", errors.New("connection reset")).Once()
		expectLockedUpdate(t, uow, o, func(o *order.Order) bool { return o.PaymentAttempts() == 1 })

		handler := commands.NewPollPaymentCommandHandler(orderFactory{uow}, gateway, defaultSettings(), 0, discardLogger())
		status, err := handler.Handle(ctx, pollCommand(t, o.ID()))

		require.NoError(t, err)
		assert.Equal(t, order.PaymentPending, status)
		uow.assertAll(t)
		gateway.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("exhausted attempts fail the payment and cancel at the provider", func(t *testing.T) {
		ctx := t.Context()
		uow := newMockUoW()
		gateway := &MockPaymentGateway{}
		o := placedOrder(t, kernel.NewUUID(), order.PaymentCard, "0")
		require.False(t, o.RegisterPaymentAttempt(3))

		uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
		gateway.On("Status", ctx, cfg, o.ID()).Return(string(ports.PaymentStatePending), nil).Once()
		expectLockedUpdate(t, uow, o, func(o *order.Order) bool { return o.PaymentStatus() == order.PaymentFailed })
		gateway.On("Cancel", ctx, cfg, o.ID()).Return(errors.New("already closed")).Once()

		handler := commands.NewPollPaymentCommandHandler(orderFactory{uow}, gateway, defaultSettings(), 2, discardLogger())
		status, err := handler.Handle(ctx, pollCommand(t, o.ID()))

		require.NoError(t, err)
		assert.Equal(t, order.PaymentFailed, status)
		assert.Equal(t, 2, o.PaymentAttempts())
		uow.assertAll(t)
		gateway.AssertExpectations(t)
	})

	t.Run("a cancelled order is closed at the provider instead of polled", func(t *testing.T) {
		ctx := t.Context()
		uow := newMockUoW()
		gateway := &MockPaymentGateway{}
		o := placedOrder(t, kernel.NewUUID(), order.PaymentCard, "0")
		require.NoError(t, o.Cancel(order.Actor{ID: o.CustomerID(), Role: customer.RoleUser}, now))

		uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
		expectLockedUpdate(t, uow, o, func(o *order.Order) bool { return o.PaymentStatus() == order.PaymentFailed })
		gateway.On("Cancel", ctx, cfg, o.ID()).Return(errors.New("already closed")).Once()

		handler := commands.NewPollPaymentCommandHandler(orderFactory{uow}, gateway, defaultSettings(), 0, discardLogger())
		status, err := handler.Handle(ctx, pollCommand(t, o.ID()))

		require.NoError(t, err)
		assert.Equal(t, order.PaymentFailed, status)
		assert.Equal(t, order.Cancelled, o.Status())
		uow.assertAll(t)
		gateway.AssertExpectations(t)
		gateway.AssertNotCalled(t, "Status", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("a closed payment of a cancelled order is left alone", func(t *testing.T) {
		ctx := t.Context()
		uow := newMockUoW()
		gateway := &MockPaymentGateway{}
		o := placedOrder(t, kernel.NewUUID(), order.PaymentCard, "0")
		require.NoError(t, o.Cancel(order.Actor{ID: o.CustomerID(), Role: customer.RoleUser}, now))
		require.True(t, o.MarkPaymentFailed())

		uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()

		handler := commands.NewPollPaymentCommandHandler(orderFactory{uow}, gateway, defaultSettings(), 0, discardLogger())
		status, err := handler.Handle(ctx, pollCommand(t, o.ID()))

		require.NoError(t, err)
		assert.Equal(t, order.PaymentFailed, status)
		uow.assertAll(t)
		gateway.AssertNotCalled(t, "Status", mock.Anything, mock.Anything, mock.Anything)
		gateway.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("concurrent settlement is applied once", func(t *testing.T) {
		ctx := t.Context()
		uow := newMockUoW()
		gateway := &MockPaymentGateway{}
		stale := placedOrder(t, kernel.NewUUID(), order.PaymentCard, "0")
		settled := placedOrder(t, stale.CustomerID(), order.PaymentCard, "0")
		require.True(t, settled.MarkPaid())

		uow.orders.On("Get", ctx, stale.ID()).Return(stale, nil).Once()
		gateway.On("Status", ctx, cfg, stale.ID()).Return(string(ports.PaymentStateSuccess), nil).Once()
		uow.On("Begin", ctx).Return(nil).Once()
		uow.orders.On("GetForUpdate", ctx, stale.ID()).Return(settled, nil).Once()
		uow.On("Rollback", ctx).Return(nil).Once()

		handler := commands.NewPollPaymentCommandHandler(orderFactory{uow}, gateway, defaultSettings(), 0, discardLogger())
		status, err := handler.Handle(ctx, pollCommand(t, stale.ID()))

		require.NoError(t, err)
		assert.Equal(t, order.PaymentCompleted, status)
		uow.assertAll(t)
		uow.orders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		uow.AssertNotCalled(t, "Commit", mock.Anything)
	})
}
