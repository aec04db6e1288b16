package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGetOrderQueryIsNotConstructed = errors.New("GetOrderQuery must be created via NewGetOrderQuery constructor")

// GetOrderQuery reads one order on behalf of an actor. Customers see their own
// orders only; staff and admins see every order.
//
// Example:
//
//	query, err := NewGetOrderQuery(orderID, actor)
//	if err != nil {
//	    return err
//	}
//	view, err := handler.Handle(ctx, query)
type GetOrderQuery struct {
	orderID kernel.UUID
	actor   order.Actor

	guard guard.ConstructorGuard
}

func NewGetOrderQuery(orderID kernel.UUID, actor order.Actor) (GetOrderQuery, error) {
	if err := errors.Join(
		requireID("order_id", orderID),
		requireID("actor_id", actor.ID),
	); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{orderID: orderID, actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) OrderID() kernel.UUID { return q.orderID }
func (q GetOrderQuery) Actor() order.Actor { return q.actor }

// GetOrderQueryResponse is the full order view including its delivery leg and
// item lines.
type GetOrderQueryResponse struct {
	ID                 kernel.UUID
	CustomerID         kernel.UUID
	Status             order.Status
	IsPickup           bool
	Source             order.Source
	PaymentMethod      order.PaymentMethod
	PaymentStatus      order.PaymentStatus
	PaymentURL         string
	TotalAmount        decimal.Decimal
	TotalBonusAmount   decimal.Decimal
	PartialBonusAmount decimal.Decimal
	PromoCode          *string
	PromoDiscount      decimal.Decimal
	Comment            string
	Change             int
	CreatedAt          time.Time
	CourierID          *kernel.UUID
	CollectorID        *kernel.UUID

	RestaurantID kernel.UUID
	AddressID    *kernel.UUID
	DeliveryFee  decimal.Decimal
	DistanceKM   decimal.Decimal
	DeliveredAt  *time.Time

	Items []OrderItemView
}

// OrderItemView is one line of an order with its topping snapshot.
type OrderItemView struct {
	ProductSizeID kernel.UUID
	Quantity      int
	UnitPrice     decimal.Decimal
	IsBonus       bool
	Total         decimal.Decimal
	ToppingIDs    []kernel.UUID
}

func requireID(name string, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause(name, err)
	}
	return nil
}
