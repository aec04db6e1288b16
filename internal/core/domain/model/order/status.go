package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status is the fulfillment state of an order.
//
// State transitions:
//
//	Pending ──> InProgress ──> Ready ──> Delivery ──> Completed
//	   │                        ▲  │                     ▲
//	   └────────────────────────┘  └──── (pickup) ───────┘
//
// Every state except Completed and Cancelled may move to Cancelled.
type Status int

const (
	// Unknown catches uninitialized values.
	Unknown Status = iota

	// Pending is the state of a freshly placed order waiting for a collector.
	Pending

	// InProgress means a collector is assembling the order.
	InProgress

	// Ready means the order is assembled and waits for a courier or the customer.
	Ready

	// InDelivery means a courier is carrying the order.
	InDelivery

	// Completed is final: the order reached the customer.
	Completed

	// Cancelled is final: stock and redeemed bonus were returned.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "unknown",
		Pending:    "pending",
		InProgress: "in_progress",
		Ready:      "ready",
		InDelivery: "delivery",
		Completed:  "completed",
		Cancelled:  "cancelled",
	}
}

// ParseStatus converts the persisted or wire name of a status.
func ParseStatus(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate rejects Unknown and out of range values.
func (s Status) Validate() error {
	if s <= Unknown || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsFinal reports whether no further transition is possible.
func (s Status) IsFinal() bool {
	return s == Completed || s == Cancelled
}

// Start moves a pending order into work.
func (s Status) Start() (Status, error) {
	if s != Pending {
		return Unknown, errs.NewInvalidStateTransitionError(s, InProgress)
	}
	return InProgress, nil
}

// MarkReady is allowed from Pending and InProgress.
func (s Status) MarkReady() (Status, error) {
	if s != Pending && s != InProgress {
		return Unknown, errs.NewInvalidStateTransitionError(s, Ready)
	}
	return Ready, nil
}

// Dispatch hands a ready order to a courier. Pickup orders have no delivery leg.
func (s Status) Dispatch(pickup bool) (Status, error) {
	if s != Ready || pickup {
		return Unknown, errs.NewInvalidStateTransitionError(s, InDelivery)
	}
	return InDelivery, nil
}

// Complete finishes a delivery order from Delivery and a pickup order from Ready.
func (s Status) Complete(pickup bool) (Status, error) {
	from := InDelivery
	if pickup {
		from = Ready
	}
	if s != from {
		return Unknown, errs.NewInvalidStateTransitionError(s, Completed)
	}
	return Completed, nil
}

// Cancel is allowed from every state that is not final.
func (s Status) Cancel() (Status, error) {
	if s.IsFinal() || s.Validate() != nil {
		return Unknown, errs.NewInvalidStateTransitionError(s, Cancelled)
	}
	return Cancelled, nil
}
