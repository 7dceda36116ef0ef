package notification

import (
	"context"

	"campuseats-be/internal/events"
	"campuseats-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notification tags as delivered to clients.
const (
	TagNewOrder  = "NEW_ORDER"
	TagAccepted  = "ORDER_ACCEPTED"
	TagPickedUp  = "ORDER_PICKED_UP"
	TagDelivered = "ORDER_DELIVERED"
)

type Notification struct {
	Tag     string    `json:"tag"`
	OrderID uuid.UUID `json:"orderId"`
	Message string    `json:"message"`
}

// Sender abstracts the hub so tests can observe deliveries.
type Sender interface {
	SendToUser(userID uuid.UUID, payload any)
	Broadcast(payload any)
}

// RegisterOrderNotifications subscribes the notification handlers to
// the order lifecycle events. Each delivery runs in its own goroutine:
// notifications are fire and forget and never slow down or fail the
// operation that produced the event.
func RegisterOrderNotifications(registry *events.Registry, sender Sender) {
	registry.Subscribe(events.OrderPlacedName, events.HandlerFunc(func(ctx context.Context, e events.Event) error {
		placed, ok := e.(events.OrderPlaced)
		if !ok {
			return nil
		}
		// New orders go to the courier board, so everyone connected
		// hears about them.
		go sender.Broadcast(Notification{
			Tag:     TagNewOrder,
			OrderID: placed.OrderID,
			Message: "A new order is waiting for a courier",
		})
		return nil
	}))

	registry.Subscribe(events.OrderAcceptedName, events.HandlerFunc(func(ctx context.Context, e events.Event) error {
		accepted, ok := e.(events.OrderAccepted)
		if !ok {
			return nil
		}
		go sender.SendToUser(accepted.CustomerID, Notification{
			Tag:     TagAccepted,
			OrderID: accepted.OrderID,
			Message: "A courier accepted your order",
		})
		return nil
	}))

	registry.Subscribe(events.OrderPickedUpName, events.HandlerFunc(func(ctx context.Context, e events.Event) error {
		pickedUp, ok := e.(events.OrderPickedUp)
		if !ok {
			return nil
		}
		go sender.SendToUser(pickedUp.CustomerID, Notification{
			Tag:     TagPickedUp,
			OrderID: pickedUp.OrderID,
			Message: "Your order is on the way",
		})
		return nil
	}))

	registry.Subscribe(events.OrderDeliveredName, events.HandlerFunc(func(ctx context.Context, e events.Event) error {
		delivered, ok := e.(events.OrderDelivered)
		if !ok {
			return nil
		}
		go sender.SendToUser(delivered.CustomerID, Notification{
			Tag:     TagDelivered,
			OrderID: delivered.OrderID,
			Message: "Your order was delivered",
		})
		return nil
	}))

	logger.L().Debug("order notification handlers registered", zap.Int("handlers", 4))
}
