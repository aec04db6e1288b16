package queries

import (
	"errors"
	"math"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

var ErrListOrdersQueryIsNotConstructed = errors.New("ListOrdersQuery must be created via NewListOrdersQuery constructor")

// ListOrdersQuery is the staff work queue: orders in one status, oldest first.
// Customers receive their own orders only, whatever the status filter, newest
// first. Offset pages through either list.
type ListOrdersQuery struct {
	status *order.Status
	actor  order.Actor
	limit  int
	offset int

	guard guard.ConstructorGuard
}

// NewListOrdersQuery accepts a nil status for all statuses. A zero limit means
// DefaultListLimit.
func NewListOrdersQuery(status *order.Status, actor order.Actor, limit, offset int) (ListOrdersQuery, error) {
	var errList []error
	if status != nil {
		if err := status.Validate(); err != nil {
			errList = append(errList, err)
		}
	}
	if err := requireID("actor_id", actor.ID); err != nil {
		errList = append(errList, err)
	}
	if limit < 0 || limit > MaxListLimit {
		errList = append(errList, errs.NewValueIsOutOfRangeError("limit", limit, 0, MaxListLimit))
	}
	if offset < 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("offset", offset, 0, math.MaxInt32))
	}
	if len(errList) > 0 {
		return ListOrdersQuery{}, errors.Join(errList...)
	}

	if limit == 0 {
		limit = DefaultListLimit
	}
	return ListOrdersQuery{
		status: status,
		actor:  actor,
		limit:  limit,
		offset: offset,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

func (q ListOrdersQuery) Status() *order.Status { return q.status }
func (q ListOrdersQuery) Actor() order.Actor { return q.actor }
func (q ListOrdersQuery) Limit() int { return q.limit }
func (q ListOrdersQuery) Offset() int { return q.offset }

// OwnOrdersOnly is true for customers, who page through their history.
func (q ListOrdersQuery) OwnOrdersOnly() bool {
	return !q.actor.IsStaff() && !q.actor.IsAdmin()
}

type ListOrdersQueryResponse struct {
	ID            kernel.UUID
	CustomerID    kernel.UUID
	RestaurantID  kernel.UUID
	Status        order.Status
	IsPickup      bool
	PaymentMethod order.PaymentMethod
	PaymentStatus order.PaymentStatus
	TotalAmount   decimal.Decimal
	CreatedAt     time.Time
}
