package events

import "github.com/google/uuid"

// Event is a domain event recorded by an aggregate and dispatched
// after the surrounding transaction commits.
type Event interface {
	Name() string
}

const (
	OrderPlacedName    = "order.placed"
	OrderAcceptedName  = "order.accepted"
	OrderPickedUpName  = "order.picked_up"
	OrderDeliveredName = "order.delivered"

	ItemNameChangedName  = "catalog.item_name_changed"
	ItemPriceChangedName = "catalog.item_price_changed"
)

type OrderPlaced struct {
	OrderID    uuid.UUID
	CustomerID uuid.UUID
}

func (OrderPlaced) Name() string { return OrderPlacedName }

type OrderAccepted struct {
	OrderID    uuid.UUID
	CustomerID uuid.UUID
	CourierID  uuid.UUID
}

func (OrderAccepted) Name() string { return OrderAcceptedName }

type OrderPickedUp struct {
	OrderID    uuid.UUID
	CustomerID uuid.UUID
}

func (OrderPickedUp) Name() string { return OrderPickedUpName }

type OrderDelivered struct {
	OrderID    uuid.UUID
	CustomerID uuid.UUID
}

func (OrderDelivered) Name() string { return OrderDeliveredName }

type ItemNameChanged struct {
	ItemID  int64
	OldName string
	NewName string
}

func (ItemNameChanged) Name() string { return ItemNameChangedName }

type ItemPriceChanged struct {
	ItemID   int64
	OldPrice float64
	NewPrice float64
}

func (ItemPriceChanged) Name() string { return ItemPriceChangedName }
