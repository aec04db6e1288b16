package customer

import (
	"fulfillment/internal/core/domain/model/kernel"
)

// Address is a delivery address of a user. Location is nil until the address
// has been geocoded.
type Address struct {
	id       kernel.UUID
	userID   kernel.UUID
	city     string
	line     string
	location *kernel.Location
}

func NewAddress(id, userID kernel.UUID, city, line string, location *kernel.Location) (Address, error) {
	if err := id.Validate(); err != nil {
		return Address{}, err
	}
	if err := userID.Validate(); err != nil {
		return Address{}, err
	}
	return Address{id: id, userID: userID, city: city, line: line, location: location}, nil
}

func (a Address) ID() kernel.UUID { return a.id }
func (a Address) UserID() kernel.UUID { return a.userID }
func (a Address) City() string { return a.city }
func (a Address) Line() string { return a.line }
func (a Address) Location() *kernel.Location { return a.location }

// BelongsTo reports whether the address is owned by userID.
func (a Address) BelongsTo(userID kernel.UUID) bool {
	return a.userID.IsEqual(userID)
}
