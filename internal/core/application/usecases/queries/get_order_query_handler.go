package queries

import (
	"context"
	"database/sql"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type GetOrderQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle returns ObjectNotFoundError for unknown orders and ForbiddenError
// when a customer asks for somebody else's order.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (*GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	resp, err := h.header(ctx, query.OrderID())
	if err != nil {
		return nil, err
	}

	actor := query.Actor()
	if !actor.IsStaff() && !actor.IsAdmin() && !resp.CustomerID.IsEqual(actor.ID) {
		return nil, errs.NewForbiddenError("read order", "order belongs to another customer")
	}

	if resp.Items, err = h.items(ctx, query.OrderID()); err != nil {
		return nil, err
	}
	return resp, nil
}

func (h GetOrderQueryHandler) header(ctx context.Context, id kernel.UUID) (*GetOrderQueryResponse, error) {
	row := h.db.WithContext(ctx).Raw(`
		SELECT
			o.id, o.user_id, o.status, o.is_pickup, o.source,
			o.payment_method, o.payment_status, o.payment_url,
			o.total_amount, o.total_bonus_amount, o.partial_bonus_amount,
			o.promo_code, o.promo_discount, o.comment, o.change, o.created_at,
			o.courier_id, o.collector_id,
			d.restaurant_id, d.address_id, d.delivery_fee, d.distance_km, d.delivered_at
		FROM orders o
		JOIN deliveries d ON d.id = o.delivery_id
		WHERE o.id = ?
	`, id.Bytes()).Row()

	var (
		resp                         GetOrderQueryResponse
		orderID, userID, restaurant  uuid.UUID
		courier, collector, address  *uuid.UUID
		status, paymentMethod        string
		paymentStatus, source        string
		promoCode                    sql.NullString
		deliveredAt                  sql.NullTime
		total, bonus, partial, promo decimal.Decimal
		fee, distance                decimal.Decimal
	)
	err := row.Scan(
		&orderID, &userID, &status, &resp.IsPickup, &source,
		&paymentMethod, &paymentStatus, &resp.PaymentURL,
		&total, &bonus, &partial,
		&promoCode, &promo, &resp.Comment, &resp.Change, &resp.CreatedAt,
		&courier, &collector,
		&restaurant, &address, &fee, &distance, &deliveredAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	if err != nil {
		return nil, err
	}

	if resp.Status, err = order.ParseStatus(status); err != nil {
		return nil, err
	}
	if resp.PaymentMethod, err = order.ParsePaymentMethod(paymentMethod); err != nil {
		return nil, err
	}
	if resp.PaymentStatus, err = order.ParsePaymentStatus(paymentStatus); err != nil {
		return nil, err
	}
	resp.Source = order.ParseSource(source)
	resp.TotalAmount, resp.TotalBonusAmount, resp.PartialBonusAmount = total, bonus, partial
	resp.PromoDiscount, resp.DeliveryFee, resp.DistanceKM = promo, fee, distance
	if promoCode.Valid {
		resp.PromoCode = &promoCode.String
	}
	if deliveredAt.Valid {
		at := deliveredAt.Time.UTC()
		resp.DeliveredAt = &at
	}
	resp.CreatedAt = resp.CreatedAt.UTC()

	if resp.ID, err = kernel.UUIDFromBytes(orderID[:]); err != nil {
		return nil, err
	}
	if resp.CustomerID, err = kernel.UUIDFromBytes(userID[:]); err != nil {
		return nil, err
	}
	if resp.RestaurantID, err = kernel.UUIDFromBytes(restaurant[:]); err != nil {
		return nil, err
	}
	if resp.CourierID, err = optionalID(courier); err != nil {
		return nil, err
	}
	if resp.CollectorID, err = optionalID(collector); err != nil {
		return nil, err
	}
	if resp.AddressID, err = optionalID(address); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (h GetOrderQueryHandler) items(ctx context.Context, orderID kernel.UUID) ([]OrderItemView, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			i.id, i.product_size_id, i.quantity, i.unit_price, i.is_bonus, i.total, t.topping_id
		FROM order_items i
		LEFT JOIN order_item_toppings t ON t.order_item_id = i.id
		WHERE i.order_id = ?
		ORDER BY i.position, t.id
	`, orderID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]OrderItemView, 0)
	var lastItem uuid.UUID
	for rows.Next() {
		var (
			itemID, sizeID uuid.UUID
			toppingID      *uuid.UUID
			view           OrderItemView
		)
		if err = rows.Scan(&itemID, &sizeID, &view.Quantity, &view.UnitPrice, &view.IsBonus, &view.Total, &toppingID); err != nil {
			return nil, err
		}

		if len(items) == 0 || itemID != lastItem {
			if view.ProductSizeID, err = kernel.UUIDFromBytes(sizeID[:]); err != nil {
				return nil, err
			}
			view.ToppingIDs = make([]kernel.UUID, 0)
			items = append(items, view)
			lastItem = itemID
		}

		if toppingID != nil {
			topping, idErr := kernel.UUIDFromBytes(toppingID[:])
			if idErr != nil {
				return nil, idErr
			}
			last := &items[len(items)-1]
			last.ToppingIDs = append(last.ToppingIDs, topping)
		}
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func optionalID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil //nolint:nilnil // NULL column
	}
	id, err := kernel.UUIDFromBytes(raw[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}
