package jobs

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/robfig/cron/v3"
)

const (
	DefaultSettlementSchedule = "@every 15s"
	pollTimeout               = 10 * time.Second
	outcomeError              = "error"
)

type PendingPaymentsLister interface {
	Handle(ctx context.Context, query queries.ListPendingPaymentsQuery) ([]kernel.UUID, error)
}

type PaymentPoller interface {
	Handle(ctx context.Context, cmd commands.PollPaymentCommand) (order.PaymentStatus, error)
}

type PollRecorder interface {
	PaymentPolled(outcome string)
}

// PaymentSettlementJob polls the gateway for every card order still awaiting
// payment. A tick that is still running when the next one fires is skipped.
type PaymentSettlementJob struct {
	lister   PendingPaymentsLister
	poller   PaymentPoller
	recorder PollRecorder
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewPaymentSettlementJob(
	lister PendingPaymentsLister,
	poller PaymentPoller,
	recorder PollRecorder,
	schedule string,
	logger *slog.Logger,
) *PaymentSettlementJob {
	if schedule == "" {
		schedule = DefaultSettlementSchedule
	}
	logger = logger.With("component", "payment_settlement_job")
	return &PaymentSettlementJob{
		lister:   lister,
		poller:   poller,
		recorder: recorder,
		schedule: schedule,
		cron:     newCron(logger),
		logger:   logger,
	}
}

func (j *PaymentSettlementJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.RunOnce(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("Payment settlement job started", "schedule", j.schedule)
	return nil
}

// Stop waits for a running tick to finish.
func (j *PaymentSettlementJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Payment settlement job stopped")
}

// RunOnce polls every pending payment once and returns how many were polled.
// A failed poll is logged and does not stop the others.
func (j *PaymentSettlementJob) RunOnce(ctx context.Context) int {
	ids, err := j.lister.Handle(ctx, queries.NewListPendingPaymentsQuery())
	if err != nil {
		j.logger.ErrorContext(ctx, "list pending payments failed", "error", err)
		return 0
	}

	for _, id := range ids {
		j.poll(ctx, id)
	}
	return len(ids)
}

func (j *PaymentSettlementJob) poll(ctx context.Context, id kernel.UUID) {
	ctx, cancel := context.WithTimeout(ctx, pollTimeout)
	defer cancel()

	cmd, err := commands.NewPollPaymentCommand(id)
	if err != nil {
		j.logger.ErrorContext(ctx, "build poll command failed", "order_id", id.String(), "error", err)
		return
	}

	status, err := j.poller.Handle(ctx, cmd)
	outcome := string(status)
	if err != nil {
		outcome = outcomeError
		j.logger.WarnContext(ctx, "payment poll failed", "order_id", id.String(), "error", err)
	}
	if j.recorder != nil {
		j.recorder.PaymentPolled(outcome)
	}
}
