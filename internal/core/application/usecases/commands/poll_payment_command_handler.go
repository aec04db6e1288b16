package commands

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// DefaultMaxPaymentAttempts bounds the polls of one pending payment.
const DefaultMaxPaymentAttempts = 20

// PollPaymentCommandHandler settles card payments. Settlement is a pure
// payment status flip: stock and bonus were applied when the order was placed.
// The pending payment of a cancelled order is failed and cancelled at the
// provider without another status check.
//
// The gateway is queried outside the transaction; the result is applied under
// the order row lock only if the payment is still pending, so concurrent or
// repeated polls apply a terminal state once.
type PollPaymentCommandHandler struct {
	uowFactory  OrderUoWFactory
	gateway     ports.PaymentGateway
	settings    SettingsProvider
	maxAttempts int
	logger      *slog.Logger
}

func NewPollPaymentCommandHandler(
	uowFactory OrderUoWFactory,
	gateway ports.PaymentGateway,
	cfg SettingsProvider,
	maxAttempts int,
	logger *slog.Logger,
) PollPaymentCommandHandler {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxPaymentAttempts
	}
	return PollPaymentCommandHandler{
		uowFactory:  uowFactory,
		gateway:     gateway,
		settings:    cfg,
		maxAttempts: maxAttempts,
		logger:      logger.With("component", "poll_payment"),
	}
}

// Handle returns the payment status after the poll.
func (h *PollPaymentCommandHandler) Handle(ctx context.Context, cmd PollPaymentCommand) (order.PaymentStatus, error) {
	if err := cmd.Validate(); err != nil {
		return "", err
	}

	current, err := h.uowFactory.Create().OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return "", err
	}
	if current.PaymentAbandoned() {
		return h.abandon(ctx, cmd)
	}
	if !current.AwaitingPayment() {
		return current.PaymentStatus(), nil
	}

	cfg := h.settings.Snapshot().Payment
	state, err := h.gateway.Status(ctx, cfg, cmd.OrderID())
	if err != nil {
		h.logger.WarnContext(ctx, "payment status check failed",
			"order_id", cmd.OrderID().String(), "error", err)
		state = ports.PaymentStatePending
	}

	status, exhausted, err := h.apply(ctx, cmd, state)
	if err != nil {
		return "", err
	}

	if exhausted {
		h.logger.WarnContext(ctx, "payment attempts exhausted, cancelling at provider",
			"order_id", cmd.OrderID().String(), "attempts", h.maxAttempts)
		if cancelErr := h.gateway.Cancel(ctx, cfg, cmd.OrderID()); cancelErr != nil {
			h.logger.ErrorContext(ctx, "payment cancellation failed",
				"order_id", cmd.OrderID().String(), "error", cancelErr)
		}
	}

	return status, nil
}

// abandon fails the pending payment of a cancelled order and closes it at the
// provider. A failed provider call is only logged.
func (h *PollPaymentCommandHandler) abandon(ctx context.Context, cmd PollPaymentCommand) (order.PaymentStatus, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return "", err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return "", err
	}
	if !o.PaymentAbandoned() {
		return o.PaymentStatus(), nil
	}

	o.MarkPaymentFailed()
	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return "", err
	}
	if err = uow.Commit(ctx); err != nil {
		return "", err
	}

	h.logger.InfoContext(ctx, "order cancelled, closing pending payment",
		"order_id", o.ID().String())
	if cancelErr := h.gateway.Cancel(ctx, h.settings.Snapshot().Payment, o.ID()); cancelErr != nil {
		h.logger.ErrorContext(ctx, "payment cancellation failed",
			"order_id", o.ID().String(), "error", cancelErr)
	}
	return o.PaymentStatus(), nil
}

func (h *PollPaymentCommandHandler) apply(
	ctx context.Context,
	cmd PollPaymentCommand,
	state ports.PaymentState,
) (order.PaymentStatus, bool, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return "", false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return "", false, err
	}
	if !o.AwaitingPayment() {
		return o.PaymentStatus(), false, nil
	}

	var exhausted bool
	switch state {
	case ports.PaymentStateSuccess:
		o.MarkPaid()
	case ports.PaymentStateError:
		o.MarkPaymentFailed()
	default:
		exhausted = o.RegisterPaymentAttempt(h.maxAttempts)
	}

	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return "", false, err
	}
	if err = uow.Commit(ctx); err != nil {
		return "", false, err
	}

	h.logger.InfoContext(ctx, "payment polled",
		"order_id", o.ID().String(),
		"provider_state", string(state),
		"payment_status", string(o.PaymentStatus()),
		"attempts", o.PaymentAttempts())
	return o.PaymentStatus(), exhausted, nil
}
