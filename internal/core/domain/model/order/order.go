package order

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/pricing"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

// Order is the aggregate root of the fulfillment lifecycle. It owns its
// delivery leg and items and raises a StatusChanged event on every status
// change, creation included.
//
// Invariants:
//   - total = max(0, promo(Σ item totals + delivery fee) − redeemed bonus)
//   - the delivery address is nil exactly for pickup orders
//   - at least one item
type Order struct { //nolint:recvcheck //using for validation
	id         kernel.UUID
	customerID kernel.UUID
	delivery   Delivery
	items      []*Item
	createdAt  time.Time

	totalAmount        decimal.Decimal
	totalBonusAmount   decimal.Decimal
	partialBonusAmount decimal.Decimal
	promoCode          *string
	promoDiscount      decimal.Decimal

	paymentMethod   PaymentMethod
	paymentStatus   PaymentStatus
	paymentAttempts int
	paymentURL      string

	status      Status
	source      Source
	isPickup    bool
	courierID   *kernel.UUID
	collectorID *kernel.UUID
	comment     string
	change      int
	proof       *Proof

	events []StatusChanged
	guard  guard.ConstructorGuard
}

// Draft is everything needed to place an order.
type Draft struct {
	ID            kernel.UUID
	CustomerID    kernel.UUID
	Delivery      Delivery
	Items         []*Item
	Quote         pricing.Quote
	PromoCode     *string
	PaymentMethod PaymentMethod
	Source        Source
	IsPickup      bool
	Comment       string
	Change        int
	CreatedAt     time.Time
}

// NewOrder places a pending order. The total is recomputed from the items and
// must agree with the quote it was priced with.
func NewOrder(d Draft) (*Order, error) {
	o := &Order{
		createdAt:          d.CreatedAt,
		items:              d.Items,
		totalBonusAmount:   d.Quote.EarnedBonus,
		partialBonusAmount: d.Quote.BonusRedeemed,
		promoCode:          d.PromoCode,
		promoDiscount:      d.Quote.DiscountPercent,
		paymentMethod:      d.PaymentMethod,
		paymentStatus:      PaymentPending,
		status:             Pending,
		source:             d.Source,
		isPickup:           d.IsPickup,
		comment:            d.Comment,
		change:             d.Change,
		guard:              guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(d.ID),
		o.setCustomerID(d.CustomerID),
		o.setDelivery(d.Delivery, d.IsPickup),
		o.setItems(d.Items),
		o.setPaymentMethod(d.PaymentMethod),
		o.setChange(d.Change),
	); err != nil {
		return nil, err
	}

	o.RecalculateTotal()
	if !o.totalAmount.Equal(d.Quote.Total) {
		return nil, errs.NewValueIsInvalidErrorWithCause("total_amount",
			fmt.Errorf("quoted %s, computed %s", d.Quote.Total, o.totalAmount))
	}

	o.raise(Unknown, Pending, d.CreatedAt)
	return o, nil
}

// Snapshot is the persisted form of an Order.
type Snapshot struct {
	ID                 kernel.UUID
	CustomerID         kernel.UUID
	Delivery           Delivery
	Items              []*Item
	CreatedAt          time.Time
	TotalAmount        decimal.Decimal
	TotalBonusAmount   decimal.Decimal
	PartialBonusAmount decimal.Decimal
	PromoCode          *string
	PromoDiscount      decimal.Decimal
	PaymentMethod      PaymentMethod
	PaymentStatus      PaymentStatus
	PaymentAttempts    int
	PaymentURL         string
	Status             Status
	Source             Source
	IsPickup           bool
	CourierID          *kernel.UUID
	CollectorID        *kernel.UUID
	Comment            string
	Change             int
	Proof              *Proof
}

// RestoreOrder rebuilds an order from storage without raising events.
func RestoreOrder(s Snapshot) (*Order, error) {
	o := &Order{
		createdAt:          s.CreatedAt,
		totalAmount:        s.TotalAmount,
		totalBonusAmount:   s.TotalBonusAmount,
		partialBonusAmount: s.PartialBonusAmount,
		promoCode:          s.PromoCode,
		promoDiscount:      s.PromoDiscount,
		paymentStatus:      s.PaymentStatus,
		paymentAttempts:    s.PaymentAttempts,
		paymentURL:         s.PaymentURL,
		source:             s.Source,
		isPickup:           s.IsPickup,
		courierID:          s.CourierID,
		collectorID:        s.CollectorID,
		comment:            s.Comment,
		change:             s.Change,
		proof:              s.Proof,
		guard:              guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(s.ID),
		o.setCustomerID(s.CustomerID),
		o.setDelivery(s.Delivery, s.IsPickup),
		o.setItems(s.Items),
		o.setPaymentMethod(s.PaymentMethod),
		o.setStatus(s.Status),
	); err != nil {
		return nil, err
	}

	return o, nil
}

func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID { return o.id }
func (o *Order) CustomerID() kernel.UUID { return o.customerID }
func (o *Order) RestaurantID() kernel.UUID { return o.delivery.restaurantID }
func (o *Order) Delivery() Delivery { return o.delivery }
func (o *Order) Items() []*Item { return o.items }
func (o *Order) CreatedAt() time.Time { return o.createdAt }
func (o *Order) TotalAmount() decimal.Decimal { return o.totalAmount }
func (o *Order) TotalBonusAmount() decimal.Decimal { return o.totalBonusAmount }
func (o *Order) PartialBonusAmount() decimal.Decimal { return o.partialBonusAmount }
func (o *Order) PromoCode() *string { return o.promoCode }
func (o *Order) PromoDiscount() decimal.Decimal { return o.promoDiscount }
func (o *Order) PaymentMethod() PaymentMethod { return o.paymentMethod }
func (o *Order) PaymentStatus() PaymentStatus { return o.paymentStatus }
func (o *Order) PaymentAttempts() int { return o.paymentAttempts }
func (o *Order) PaymentURL() string { return o.paymentURL }
func (o *Order) Status() Status { return o.status }
func (o *Order) Source() Source { return o.source }
func (o *Order) IsPickup() bool { return o.isPickup }
func (o *Order) CourierID() *kernel.UUID { return o.courierID }
func (o *Order) CollectorID() *kernel.UUID { return o.collectorID }
func (o *Order) Comment() string { return o.comment }
func (o *Order) Change() int { return o.change }
func (o *Order) Proof() *Proof { return o.proof }

// Lines returns the pricing view of all items.
func (o *Order) Lines() []pricing.Line {
	return lo.Map(o.items, func(i *Item, _ int) pricing.Line { return i.Line() })
}

// RecalculateTotal derives the total from the current items, fee, promo and
// redeemed bonus.
func (o *Order) RecalculateTotal() {
	o.totalAmount = pricing.Total(o.Lines(), o.delivery.fee, o.promoDiscount, o.partialBonusAmount)
}

// VerifyTotal reports a mismatch between the stored and the derived total.
func (o *Order) VerifyTotal() error {
	want := pricing.Total(o.Lines(), o.delivery.fee, o.promoDiscount, o.partialBonusAmount)
	if !o.totalAmount.Equal(want) {
		return errs.NewValueIsInvalidErrorWithCause("total_amount",
			fmt.Errorf("stored %s, computed %s", o.totalAmount, want))
	}
	return nil
}

// Transition moves the order to target on behalf of actor. Staff roles drive
// fulfillment; only the assigned courier completes a delivery order. proof is
// recorded on delivery completion and ignored otherwise. Nothing changes when
// an error is returned.
func (o *Order) Transition(target Status, actor Actor, proof *Proof, now time.Time) error {
	if target == Cancelled {
		return o.Cancel(actor, now)
	}

	if target == Completed && !o.isPickup {
		return o.completeDelivery(actor, proof, now)
	}

	if !actor.IsStaff() {
		return errs.NewForbiddenError("transition to "+target.String(), "staff role required")
	}

	var (
		next Status
		err  error
	)
	switch target {
	case InProgress:
		next, err = o.status.Start()
	case Ready:
		next, err = o.status.MarkReady()
	case InDelivery:
		next, err = o.status.Dispatch(o.isPickup)
	case Completed:
		next, err = o.status.Complete(o.isPickup)
	default:
		err = errs.NewInvalidStateTransitionError(o.status, target)
	}
	if err != nil {
		return err
	}

	switch next { //nolint:exhaustive // only assignments are handled here
	case InProgress, Ready:
		id := actor.ID
		o.collectorID = &id
	case InDelivery:
		id := actor.ID
		o.courierID = &id
	case Completed:
		o.delivery.deliveredAt = &now
	}

	o.setStatusAndRaise(next, now)
	return nil
}

func (o *Order) completeDelivery(actor Actor, proof *Proof, now time.Time) error {
	if o.courierID == nil || !o.courierID.IsEqual(actor.ID) {
		return errs.NewForbiddenError("complete delivery", "only the assigned courier can complete the order")
	}

	next, err := o.status.Complete(false)
	if err != nil {
		return err
	}

	if proof != nil {
		p := *proof
		o.proof = &p
	}
	o.delivery.deliveredAt = &now
	o.setStatusAndRaise(next, now)
	return nil
}

// Cancel is allowed for the owning customer and admins.
func (o *Order) Cancel(actor Actor, now time.Time) error {
	if !actor.IsAdmin() && !actor.ID.IsEqual(o.customerID) {
		return errs.NewForbiddenError("cancel order", "only the owner or an admin can cancel")
	}

	next, err := o.status.Cancel()
	if err != nil {
		return err
	}

	o.setStatusAndRaise(next, now)
	return nil
}

// AttachPaymentURL stores the gateway redirect for the customer.
func (o *Order) AttachPaymentURL(url string) {
	o.paymentURL = url
}

// AwaitingPayment reports whether the settlement job should poll this order.
// Cancelled orders are never polled.
func (o *Order) AwaitingPayment() bool {
	return o.status != Cancelled && o.settlementPending()
}

// PaymentAbandoned reports a cancelled order whose card payment is still
// pending. Such a payment is closed at the provider instead of polled.
func (o *Order) PaymentAbandoned() bool {
	return o.status == Cancelled && o.settlementPending()
}

func (o *Order) settlementPending() bool {
	return o.paymentMethod.RequiresSettlement() && o.paymentStatus == PaymentPending
}

// MarkPaid flips a pending payment to completed. It reports whether anything
// changed, so repeated confirmations are no-ops.
func (o *Order) MarkPaid() bool {
	if o.paymentStatus != PaymentPending {
		return false
	}
	o.paymentStatus = PaymentCompleted
	return true
}

// MarkPaymentFailed flips a pending payment to failed. The order status is
// left untouched.
func (o *Order) MarkPaymentFailed() bool {
	if o.paymentStatus != PaymentPending {
		return false
	}
	o.paymentStatus = PaymentFailed
	return true
}

// RegisterPaymentAttempt counts an inconclusive poll. Once maxAttempts is
// reached the payment is marked failed and true is returned.
func (o *Order) RegisterPaymentAttempt(maxAttempts int) bool {
	if o.paymentStatus != PaymentPending {
		return false
	}
	o.paymentAttempts++
	if o.paymentAttempts >= maxAttempts {
		o.paymentStatus = PaymentFailed
		return true
	}
	return false
}

// PullEvents returns and clears the events raised since the last call.
func (o *Order) PullEvents() []StatusChanged {
	events := o.events
	o.events = nil
	return events
}

func (o *Order) setStatusAndRaise(next Status, now time.Time) {
	prev := o.status
	o.status = next
	o.raise(prev, next, now)
}

func (o *Order) raise(prev, next Status, now time.Time) {
	o.events = append(o.events, StatusChanged{
		OrderID:    o.id,
		CustomerID: o.customerID,
		OldStatus:  prev,
		NewStatus:  next,
		IsPickup:   o.isPickup,
		Timestamp:  now,
	})
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customer_id", err)
	}
	o.customerID = id
	return nil
}

func (o *Order) setDelivery(d Delivery, pickup bool) error {
	if err := d.restaurantID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("delivery", err)
	}
	if pickup != (d.addressID == nil) {
		return errs.NewValueIsInvalidErrorWithCause("address",
			fmt.Errorf("pickup=%t does not match address presence", pickup))
	}
	o.delivery = d
	return nil
}

func (o *Order) setItems(items []*Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	o.items = items
	return nil
}

func (o *Order) setPaymentMethod(m PaymentMethod) error {
	if _, err := ParsePaymentMethod(string(m)); err != nil {
		return err
	}
	o.paymentMethod = m
	return nil
}

func (o *Order) setChange(change int) error {
	if change < 0 {
		return errs.NewValueIsInvalidErrorWithCause("change", fmt.Errorf("%d is negative", change))
	}
	o.change = change
	return nil
}

func (o *Order) setStatus(s Status) error {
	if err := s.Validate(); err != nil {
		return err
	}
	o.status = s
	return nil
}
