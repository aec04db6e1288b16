package hooks

import (
	"context"
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/customer"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

var statusMessages = map[order.Status]string{
	order.Pending:    "Your order %s has been placed",
	order.InProgress: "Your order %s is being assembled",
	order.Ready:      "Your order %s is ready",
	order.InDelivery: "Your order %s is on its way",
	order.Completed:  "Your order %s has been delivered",
	order.Cancelled:  "Your order %s has been cancelled",
}

// OwnerNotification tells the customer about every status change.
type OwnerNotification struct {
	staff    ports.StaffDirectory
	notifier ports.Notifier
}

func NewOwnerNotification(staff ports.StaffDirectory, notifier ports.Notifier) OwnerNotification {
	return OwnerNotification{staff: staff, notifier: notifier}
}

func (OwnerNotification) Name() string { return "owner_notification" }

func (h OwnerNotification) Handle(ctx context.Context, event order.StatusChanged) error {
	msg, ok := statusMessages[event.NewStatus]
	if !ok {
		return nil
	}
	if event.NewStatus == order.Completed && event.IsPickup {
		msg = "Your order %s has been handed over"
	}

	token, err := h.staff.PushToken(ctx, event.CustomerID)
	if err != nil {
		return err
	}
	if token == "" {
		return nil
	}
	return h.notifier.Notify(ctx, token, "Order status", fmt.Sprintf(msg, shortID(event)))
}

// RoleBroadcast notifies every user of a role when an order enters a status.
// Collectors learn about new orders, couriers about ready delivery orders.
type RoleBroadcast struct {
	name     string
	role     customer.Role
	status   order.Status
	delivery bool
	title    string
	staff    ports.StaffDirectory
	notifier ports.Notifier
}

func NewCollectorBroadcast(staff ports.StaffDirectory, notifier ports.Notifier) RoleBroadcast {
	return RoleBroadcast{
		name:     "collector_broadcast",
		role:     customer.RoleCollector,
		status:   order.Pending,
		title:    "New order",
		staff:    staff,
		notifier: notifier,
	}
}

func NewCourierBroadcast(staff ports.StaffDirectory, notifier ports.Notifier) RoleBroadcast {
	return RoleBroadcast{
		name:     "courier_broadcast",
		role:     customer.RoleCourier,
		status:   order.Ready,
		delivery: true,
		title:    "Order ready for delivery",
		staff:    staff,
		notifier: notifier,
	}
}

func (h RoleBroadcast) Name() string { return h.name }

func (h RoleBroadcast) Handle(ctx context.Context, event order.StatusChanged) error {
	if event.NewStatus != h.status || (h.delivery && event.IsPickup) {
		return nil
	}

	tokens, err := h.staff.PushTokensByRole(ctx, h.role)
	if err != nil {
		return err
	}

	body := fmt.Sprintf("Order %s is %s", shortID(event), event.NewStatus)
	var errList []error
	for _, token := range tokens {
		if err = h.notifier.Notify(ctx, token, h.title, body); err != nil {
			errList = append(errList, err)
		}
	}
	return errors.Join(errList...)
}

// EventPublication forwards every change to the live dashboard channel.
type EventPublication struct {
	publisher ports.EventPublisher
}

func NewEventPublication(publisher ports.EventPublisher) EventPublication {
	return EventPublication{publisher: publisher}
}

func (EventPublication) Name() string { return "event_publication" }

func (h EventPublication) Handle(ctx context.Context, event order.StatusChanged) error {
	return h.publisher.Publish(ctx, event)
}

func shortID(event order.StatusChanged) string {
	return event.OrderID.String()[:8]
}
