package http

import (
	"fmt"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/settings"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

const (
	fulfillmentPickup   = "pickup"
	fulfillmentDelivery = "delivery"
)

// FulfillmentRequest is tagged by Type: pickup orders name a restaurant,
// delivery orders name an address of the customer.
type FulfillmentRequest struct {
	Type         string     `json:"type"`
	RestaurantID *uuid.UUID `json:"restaurant_id,omitempty"`
	AddressID    *uuid.UUID `json:"address_id,omitempty"`
}

type OrderLineRequest struct {
	ProductSizeID uuid.UUID   `json:"product_size_id"`
	Quantity      int         `json:"quantity"`
	ToppingIDs    []uuid.UUID `json:"topping_ids,omitempty"`
	IsBonus       bool        `json:"is_bonus,omitempty"`
}

type NewOrderRequest struct {
	Fulfillment   FulfillmentRequest `json:"fulfillment"`
	Items         []OrderLineRequest `json:"items"`
	PaymentMethod string             `json:"payment_method"`
	PromoCode     string             `json:"promo_code,omitempty"`
	BonusRedeemed decimal.Decimal    `json:"bonus_redeemed,omitempty"`
	Source        string             `json:"source,omitempty"`
	Comment       string             `json:"comment,omitempty"`
	Change        int                `json:"change,omitempty"`
}

type TransitionRequest struct {
	Status  string `json:"status"`
	Photo   string `json:"photo,omitempty"`
	Comment string `json:"comment,omitempty"`
}

type PreviewRequest struct {
	AddressID uuid.UUID `json:"address_id"`
}

type ErrorResponse struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type OrderResponse struct {
	ID                 uuid.UUID       `json:"id"`
	CustomerID         uuid.UUID       `json:"customer_id"`
	RestaurantID       uuid.UUID       `json:"restaurant_id"`
	Status             string          `json:"status"`
	IsPickup           bool            `json:"is_pickup"`
	PaymentMethod      string          `json:"payment_method"`
	PaymentStatus      string          `json:"payment_status"`
	PaymentURL         string          `json:"payment_url,omitempty"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
	TotalBonusAmount   decimal.Decimal `json:"total_bonus_amount"`
	PartialBonusAmount decimal.Decimal `json:"partial_bonus_amount"`
	DeliveryFee        decimal.Decimal `json:"delivery_fee"`
	CreatedAt          time.Time       `json:"created_at"`
	Error              *ErrorResponse  `json:"error,omitempty"`
}

type OrderSummaryResponse struct {
	ID            uuid.UUID       `json:"id"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	RestaurantID  uuid.UUID       `json:"restaurant_id"`
	Status        string          `json:"status"`
	IsPickup      bool            `json:"is_pickup"`
	PaymentMethod string          `json:"payment_method"`
	PaymentStatus string          `json:"payment_status"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	CreatedAt     time.Time       `json:"created_at"`
}

type OrderItemResponse struct {
	ProductSizeID uuid.UUID       `json:"product_size_id"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	IsBonus       bool            `json:"is_bonus"`
	Total         decimal.Decimal `json:"total"`
	ToppingIDs    []uuid.UUID     `json:"topping_ids"`
}

type OrderDetailsResponse struct {
	OrderSummaryResponse

	PaymentURL         string              `json:"payment_url,omitempty"`
	Source             string              `json:"source"`
	TotalBonusAmount   decimal.Decimal     `json:"total_bonus_amount"`
	PartialBonusAmount decimal.Decimal     `json:"partial_bonus_amount"`
	PromoCode          *string             `json:"promo_code,omitempty"`
	PromoDiscount      decimal.Decimal     `json:"promo_discount"`
	Comment            string              `json:"comment,omitempty"`
	Change             int                 `json:"change,omitempty"`
	CourierID          *uuid.UUID          `json:"courier_id,omitempty"`
	CollectorID        *uuid.UUID          `json:"collector_id,omitempty"`
	AddressID          *uuid.UUID          `json:"address_id,omitempty"`
	DeliveryFee        decimal.Decimal     `json:"delivery_fee"`
	DistanceKM         decimal.Decimal     `json:"distance_km"`
	DeliveredAt        *time.Time          `json:"delivered_at,omitempty"`
	Items              []OrderItemResponse `json:"items"`
}

type DeliveryPreviewResponse struct {
	RestaurantID   uuid.UUID       `json:"restaurant_id"`
	RestaurantName string          `json:"restaurant_name"`
	DistanceKM     decimal.Decimal `json:"distance_km"`
	Minutes        float64         `json:"minutes"`
	DeliveryFee    decimal.Decimal `json:"delivery_fee"`
}

type SettingsSummaryResponse struct {
	CashbackMobile    decimal.Decimal `json:"cashback_mobile"`
	CashbackWeb       decimal.Decimal `json:"cashback_web"`
	Tariffs           int             `json:"tariffs"`
	PaymentConfigured bool            `json:"payment_configured"`
}

func toKernelID(id uuid.UUID) (kernel.UUID, error) {
	return kernel.UUIDFromBytes(id[:])
}

func toKernelIDs(ids []uuid.UUID) ([]kernel.UUID, error) {
	out := make([]kernel.UUID, 0, len(ids))
	for _, id := range ids {
		k, err := toKernelID(id)
		if err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, nil
}

func optionalUUID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	return lo.ToPtr(id.Bytes())
}

// toInput resolves the wire request into the command input of customerID.
// orderIDNamespace seeds order ids derived from idempotency keys.
var orderIDNamespace = uuid.MustParse("6f1c2b7e-4d0a-5e8b-9c3f-2a7d5e1b0c94")

// orderIDFor derives the order id from the customer and the Idempotency-Key,
// so a retry that runs again after its key was released hits the unique order
// id instead of placing a second order. Without a key the id is random.
func orderIDFor(customerID kernel.UUID, idempotencyKey string) (kernel.UUID, error) {
	if idempotencyKey == "" {
		return kernel.NewUUID(), nil
	}
	id := uuid.NewSHA1(orderIDNamespace, []byte(customerID.String()+":"+idempotencyKey))
	return kernel.UUIDFromBytes(id[:])
}

func (r NewOrderRequest) toInput(customerID kernel.UUID, idempotencyKey string) (commands.CreateOrderInput, error) {
	fulfillment, err := r.Fulfillment.toCommand()
	if err != nil {
		return commands.CreateOrderInput{}, err
	}

	method, err := order.ParsePaymentMethod(r.PaymentMethod)
	if err != nil {
		return commands.CreateOrderInput{}, err
	}

	lines := make([]commands.LineRequest, 0, len(r.Items))
	for i, item := range r.Items {
		sizeID, err := toKernelID(item.ProductSizeID)
		if err != nil {
			return commands.CreateOrderInput{}, errs.NewValueIsRequiredErrorWithCause(fmt.Sprintf("items[%d].product_size_id", i), err)
		}
		toppings, err := toKernelIDs(item.ToppingIDs)
		if err != nil {
			return commands.CreateOrderInput{}, errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("items[%d].topping_ids", i), err)
		}
		lines = append(lines, commands.LineRequest{
			ProductSizeID: sizeID,
			Quantity:      item.Quantity,
			ToppingIDs:    toppings,
			IsBonus:       item.IsBonus,
		})
	}

	orderID, err := orderIDFor(customerID, idempotencyKey)
	if err != nil {
		return commands.CreateOrderInput{}, err
	}

	return commands.CreateOrderInput{
		OrderID:       orderID,
		CustomerID:    customerID,
		Fulfillment:   fulfillment,
		Lines:         lines,
		PaymentMethod: method,
		PromoCode:     r.PromoCode,
		BonusRedeemed: r.BonusRedeemed,
		Source:        order.ParseSource(r.Source),
		Comment:       r.Comment,
		Change:        r.Change,
	}, nil
}

func (r FulfillmentRequest) toCommand() (commands.Fulfillment, error) {
	switch r.Type {
	case fulfillmentPickup:
		if r.RestaurantID == nil {
			return nil, errs.NewValueIsRequiredError("fulfillment.restaurant_id")
		}
		id, err := toKernelID(*r.RestaurantID)
		if err != nil {
			return nil, errs.NewValueIsRequiredErrorWithCause("fulfillment.restaurant_id", err)
		}
		return commands.PickupRequest{RestaurantID: id}, nil
	case fulfillmentDelivery:
		if r.AddressID == nil {
			return nil, errs.NewValueIsRequiredError("fulfillment.address_id")
		}
		id, err := toKernelID(*r.AddressID)
		if err != nil {
			return nil, errs.NewValueIsRequiredErrorWithCause("fulfillment.address_id", err)
		}
		return commands.DeliveryRequest{AddressID: id}, nil
	default:
		return nil, errs.NewValueIsInvalidErrorWithCause("fulfillment.type",
			fmt.Errorf("%q is neither %s nor %s", r.Type, fulfillmentPickup, fulfillmentDelivery))
	}
}

// toProof keeps proof only when the courier sent something.
func (r TransitionRequest) toProof() *order.Proof {
	if r.Photo == "" && r.Comment == "" {
		return nil
	}
	return &order.Proof{Photo: r.Photo, Comment: r.Comment}
}

func newOrderResponse(o *order.Order) OrderResponse {
	return OrderResponse{
		ID:                 o.ID().Bytes(),
		CustomerID:         o.CustomerID().Bytes(),
		RestaurantID:       o.RestaurantID().Bytes(),
		Status:             o.Status().String(),
		IsPickup:           o.IsPickup(),
		PaymentMethod:      string(o.PaymentMethod()),
		PaymentStatus:      string(o.PaymentStatus()),
		PaymentURL:         o.PaymentURL(),
		TotalAmount:        o.TotalAmount(),
		TotalBonusAmount:   o.TotalBonusAmount(),
		PartialBonusAmount: o.PartialBonusAmount(),
		DeliveryFee:        o.Delivery().Fee(),
		CreatedAt:          o.CreatedAt(),
	}
}

func newOrderSummaryResponse(v queries.ListOrdersQueryResponse) OrderSummaryResponse {
	return OrderSummaryResponse{
		ID:            v.ID.Bytes(),
		CustomerID:    v.CustomerID.Bytes(),
		RestaurantID:  v.RestaurantID.Bytes(),
		Status:        v.Status.String(),
		IsPickup:      v.IsPickup,
		PaymentMethod: string(v.PaymentMethod),
		PaymentStatus: string(v.PaymentStatus),
		TotalAmount:   v.TotalAmount,
		CreatedAt:     v.CreatedAt,
	}
}

func newOrderDetailsResponse(v *queries.GetOrderQueryResponse) OrderDetailsResponse {
	summary := OrderSummaryResponse{
		ID:            v.ID.Bytes(),
		CustomerID:    v.CustomerID.Bytes(),
		RestaurantID:  v.RestaurantID.Bytes(),
		Status:        v.Status.String(),
		IsPickup:      v.IsPickup,
		PaymentMethod: string(v.PaymentMethod),
		PaymentStatus: string(v.PaymentStatus),
		TotalAmount:   v.TotalAmount,
		CreatedAt:     v.CreatedAt,
	}
	items := lo.Map(v.Items, func(item queries.OrderItemView, _ int) OrderItemResponse {
		return OrderItemResponse{
			ProductSizeID: item.ProductSizeID.Bytes(),
			Quantity:      item.Quantity,
			UnitPrice:     item.UnitPrice,
			IsBonus:       item.IsBonus,
			Total:         item.Total,
			ToppingIDs:    lo.Map(item.ToppingIDs, func(id kernel.UUID, _ int) uuid.UUID { return id.Bytes() }),
		}
	})

	return OrderDetailsResponse{
		OrderSummaryResponse: summary,
		PaymentURL:           v.PaymentURL,
		Source:               string(v.Source),
		TotalBonusAmount:     v.TotalBonusAmount,
		PartialBonusAmount:   v.PartialBonusAmount,
		PromoCode:            v.PromoCode,
		PromoDiscount:        v.PromoDiscount,
		Comment:              v.Comment,
		Change:               v.Change,
		CourierID:            optionalUUID(v.CourierID),
		CollectorID:          optionalUUID(v.CollectorID),
		AddressID:            optionalUUID(v.AddressID),
		DeliveryFee:          v.DeliveryFee,
		DistanceKM:           v.DistanceKM,
		DeliveredAt:          v.DeliveredAt,
		Items:                items,
	}
}

func newDeliveryPreviewResponse(v queries.PreviewDeliveryQueryResponse) DeliveryPreviewResponse {
	return DeliveryPreviewResponse{
		RestaurantID:   v.RestaurantID.Bytes(),
		RestaurantName: v.RestaurantName,
		DistanceKM:     v.DistanceKM,
		Minutes:        v.Minutes,
		DeliveryFee:    v.DeliveryFee,
	}
}

func newSettingsSummaryResponse(s settings.Snapshot) SettingsSummaryResponse {
	return SettingsSummaryResponse{
		CashbackMobile:    s.Cashback.MobilePercent,
		CashbackWeb:       s.Cashback.WebPercent,
		Tariffs:           len(s.Tariffs),
		PaymentConfigured: s.Payment.Configured(),
	}
}
