package queries

import (
	"context"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListOrdersQueryHandler struct {
	db *gorm.DB
}

func NewListOrdersQueryHandler(db *gorm.DB) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{db: db}
}

func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]ListOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var (
		where []string
		args  []any
	)
	if s := query.Status(); s != nil {
		where = append(where, "o.status = ?")
		args = append(args, s.String())
	}
	if query.OwnOrdersOnly() {
		where = append(where, "o.user_id = ?")
		args = append(args, query.Actor().ID.Bytes())
	}

	sqlText := `
		SELECT
			o.id, o.user_id, d.restaurant_id, o.status, o.is_pickup,
			o.payment_method, o.payment_status, o.total_amount, o.created_at
		FROM orders o
		JOIN deliveries d ON d.id = o.delivery_id`
	if len(where) > 0 {
		sqlText += "\n\t\tWHERE " + strings.Join(where, " AND ")
	}
	if query.OwnOrdersOnly() {
		sqlText += "\n\t\tORDER BY o.created_at DESC, o.id DESC"
	} else {
		sqlText += "\n\t\tORDER BY o.created_at, o.id"
	}
	sqlText += "\n\t\tLIMIT ? OFFSET ?"
	args = append(args, query.Limit(), query.Offset())

	rows, err := h.db.WithContext(ctx).Raw(sqlText, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]ListOrdersQueryResponse, 0)
	for rows.Next() {
		var (
			resp                      ListOrdersQueryResponse
			id, userID, restaurantID  uuid.UUID
			status, method, payStatus string
		)
		err = rows.Scan(
			&id, &userID, &restaurantID, &status, &resp.IsPickup,
			&method, &payStatus, &resp.TotalAmount, &resp.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		if resp.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if resp.CustomerID, err = kernel.UUIDFromBytes(userID[:]); err != nil {
			return nil, err
		}
		if resp.RestaurantID, err = kernel.UUIDFromBytes(restaurantID[:]); err != nil {
			return nil, err
		}
		if resp.Status, err = order.ParseStatus(status); err != nil {
			return nil, err
		}
		if resp.PaymentMethod, err = order.ParsePaymentMethod(method); err != nil {
			return nil, err
		}
		if resp.PaymentStatus, err = order.ParsePaymentStatus(payStatus); err != nil {
			return nil, err
		}
		resp.CreatedAt = resp.CreatedAt.UTC()
		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}
