// Package restaurant models the fulfillment points orders are routed to.
package restaurant

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// Restaurant is a kitchen or warehouse that prepares orders.
type Restaurant struct {
	id                  kernel.UUID
	name                string
	address             string
	location            *kernel.Location
	hours               Hours
	selfPickupAvailable bool
}

// NewRestaurant validates the identifier and name. A nil location means the
// restaurant cannot serve delivery orders.
func NewRestaurant(
	id kernel.UUID,
	name, address string,
	location *kernel.Location,
	hours Hours,
	selfPickupAvailable bool,
) (*Restaurant, error) {
	var errList []error
	if err := id.Validate(); err != nil {
		errList = append(errList, err)
	}
	if name == "" {
		errList = append(errList, errs.NewValueIsRequiredError("restaurant_name"))
	}
	if location != nil {
		if err := location.Validate(); err != nil {
			errList = append(errList, err)
		}
	}
	if len(errList) > 0 {
		return nil, errors.Join(errList...)
	}

	return &Restaurant{
		id:                  id,
		name:                name,
		address:             address,
		location:            location,
		hours:               hours,
		selfPickupAvailable: selfPickupAvailable,
	}, nil
}

func (r *Restaurant) ID() kernel.UUID { return r.id }
func (r *Restaurant) Name() string { return r.name }
func (r *Restaurant) Address() string { return r.address }
func (r *Restaurant) Location() *kernel.Location { return r.location }
func (r *Restaurant) Hours() Hours { return r.hours }
func (r *Restaurant) SelfPickupAvailable() bool { return r.selfPickupAvailable }

// IsOpenAt reports whether the restaurant accepts orders at now.
func (r *Restaurant) IsOpenAt(now time.Time) bool {
	return r.hours.OpenAt(now)
}
