package order

import (
	"fulfillment/internal/core/domain/model/customer"
	"fulfillment/internal/core/domain/model/kernel"
)

// Actor is the authenticated user performing a mutation.
type Actor struct {
	ID   kernel.UUID
	Role customer.Role
}

func NewActor(id kernel.UUID, role customer.Role) (Actor, error) {
	if err := id.Validate(); err != nil {
		return Actor{}, err
	}
	return Actor{ID: id, Role: role}, nil
}

func (a Actor) IsAdmin() bool { return a.Role == customer.RoleAdmin }
func (a Actor) IsStaff() bool { return a.Role.IsStaff() }
