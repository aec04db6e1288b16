package order

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Delivery is the fulfillment leg of an order.
type Delivery struct {
	id           kernel.UUID
	restaurantID kernel.UUID
	addressID    *kernel.UUID
	fee          decimal.Decimal
	distanceKM   decimal.Decimal
	deliveredAt  *time.Time
}

// NewDelivery creates the leg; addressID is nil for pickup.
func NewDelivery(id, restaurantID kernel.UUID, addressID *kernel.UUID, fee, distanceKM decimal.Decimal) (Delivery, error) {
	var errList []error
	if err := id.Validate(); err != nil {
		errList = append(errList, err)
	}
	if err := restaurantID.Validate(); err != nil {
		errList = append(errList, err)
	}
	if addressID != nil {
		if err := addressID.Validate(); err != nil {
			errList = append(errList, err)
		}
	}
	if fee.IsNegative() {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("delivery_fee", fmt.Errorf("%s is negative", fee)))
	}
	if distanceKM.IsNegative() {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("distance", fmt.Errorf("%s is negative", distanceKM)))
	}
	if len(errList) > 0 {
		return Delivery{}, errors.Join(errList...)
	}

	return Delivery{id: id, restaurantID: restaurantID, addressID: addressID, fee: fee, distanceKM: distanceKM}, nil
}

// RestoreDelivery rebuilds a delivery leg from storage.
func RestoreDelivery(
	id, restaurantID kernel.UUID,
	addressID *kernel.UUID,
	fee, distanceKM decimal.Decimal,
	deliveredAt *time.Time,
) (Delivery, error) {
	d, err := NewDelivery(id, restaurantID, addressID, fee, distanceKM)
	if err != nil {
		return Delivery{}, err
	}
	d.deliveredAt = deliveredAt
	return d, nil
}

func (d Delivery) ID() kernel.UUID { return d.id }
func (d Delivery) RestaurantID() kernel.UUID { return d.restaurantID }
func (d Delivery) AddressID() *kernel.UUID { return d.addressID }
func (d Delivery) Fee() decimal.Decimal { return d.fee }
func (d Delivery) DistanceKM() decimal.Decimal { return d.distanceKM }
func (d Delivery) DeliveredAt() *time.Time { return d.deliveredAt }

// Proof is what a courier leaves when handing over a delivery order. Photo is
// an opaque reference to a stored image.
type Proof struct {
	Photo   string
	Comment string
}

// StatusChanged is raised by every status change, including creation.
type StatusChanged struct {
	OrderID    kernel.UUID
	CustomerID kernel.UUID
	OldStatus  Status
	NewStatus  Status
	IsPickup   bool
	Timestamp  time.Time
}
