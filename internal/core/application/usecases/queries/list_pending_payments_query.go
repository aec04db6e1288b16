package queries

import (
	"errors"

	"fulfillment/internal/pkg/guard"
)

var ErrListPendingPaymentsQueryIsNotConstructed = errors.New(
	"ListPendingPaymentsQuery must be created via NewListPendingPaymentsQuery constructor",
)

// ListPendingPaymentsQuery finds card orders whose settlement is still open.
// The settlement job polls each of them.
type ListPendingPaymentsQuery struct {
	guard guard.ConstructorGuard
}

func NewListPendingPaymentsQuery() ListPendingPaymentsQuery {
	return ListPendingPaymentsQuery{guard: guard.NewConstructorGuard()}
}

func (q ListPendingPaymentsQuery) Validate() error {
	return q.guard.Validate(ErrListPendingPaymentsQueryIsNotConstructed)
}
