package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListPendingPaymentsQueryHandler struct {
	db *gorm.DB
}

func NewListPendingPaymentsQueryHandler(db *gorm.DB) ListPendingPaymentsQueryHandler {
	return ListPendingPaymentsQueryHandler{db: db}
}

// Handle returns order ids, oldest first. Cancelled orders are included so the
// settlement job can close their payment at the provider.
func (h ListPendingPaymentsQueryHandler) Handle(ctx context.Context, query ListPendingPaymentsQuery) ([]kernel.UUID, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT id
		FROM orders
		WHERE payment_method = ?
			AND payment_status = ?
		ORDER BY created_at, id
	`, string(order.PaymentCard), string(order.PaymentPending)).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]kernel.UUID, 0)
	for rows.Next() {
		var raw uuid.UUID
		if err = rows.Scan(&raw); err != nil {
			return nil, err
		}
		id, idErr := kernel.UUIDFromBytes(raw[:])
		if idErr != nil {
			return nil, idErr
		}
		ids = append(ids, id)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}
