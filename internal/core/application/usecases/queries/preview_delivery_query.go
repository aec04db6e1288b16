package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrPreviewDeliveryQueryIsNotConstructed = errors.New(
	"PreviewDeliveryQuery must be created via NewPreviewDeliveryQuery constructor",
)

// PreviewDeliveryQuery routes a delivery to one of the customer's addresses
// without placing an order, so the client can show the fee up front.
type PreviewDeliveryQuery struct {
	customerID kernel.UUID
	addressID  kernel.UUID

	guard guard.ConstructorGuard
}

func NewPreviewDeliveryQuery(customerID, addressID kernel.UUID) (PreviewDeliveryQuery, error) {
	if err := errors.Join(
		requireID("customer_id", customerID),
		requireID("address_id", addressID),
	); err != nil {
		return PreviewDeliveryQuery{}, err
	}
	return PreviewDeliveryQuery{customerID: customerID, addressID: addressID, guard: guard.NewConstructorGuard()}, nil
}

func (q PreviewDeliveryQuery) Validate() error {
	return q.guard.Validate(ErrPreviewDeliveryQueryIsNotConstructed)
}

func (q PreviewDeliveryQuery) CustomerID() kernel.UUID { return q.customerID }
func (q PreviewDeliveryQuery) AddressID() kernel.UUID { return q.addressID }

type PreviewDeliveryQueryResponse struct {
	RestaurantID   kernel.UUID
	RestaurantName string
	DistanceKM     decimal.Decimal
	Minutes        float64
	DeliveryFee    decimal.Decimal
}
