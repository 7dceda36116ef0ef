package order

import (
	"time"

	"campuseats-be/internal/events"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	StatusSubmitted        OrderStatus = "SUBMITTED"
	StatusBeingPickedUp    OrderStatus = "BEING_PICKED_UP"
	StatusOnTheWay         OrderStatus = "ON_THE_WAY"
	StatusDelivered        OrderStatus = "DELIVERED"
	StatusCancelled        OrderStatus = "CANCELLED"
	StatusCancelledWithFee OrderStatus = "CANCELLED_WITH_FEE"
)

// next returns the courier-facing successor of a status. Couriers only
// ever move an order one step forward.
func (s OrderStatus) next() (OrderStatus, bool) {
	switch s {
	case StatusSubmitted:
		return StatusBeingPickedUp, true
	case StatusBeingPickedUp:
		return StatusOnTheWay, true
	case StatusOnTheWay:
		return StatusDelivered, true
	default:
		return "", false
	}
}

// Location is the campus delivery target.
type Location struct {
	Building   string
	RoomNumber string
	Notes      string
}

// OrderLine is an immutable snapshot of a cart line taken at checkout.
// Later catalog changes never touch it.
type OrderLine struct {
	FoodItemID   int64
	FoodItemName string
	Amount       int
	UnitPrice    float64
}

func (l OrderLine) Sum() float64 {
	return l.UnitPrice * float64(l.Amount)
}

// Order is the aggregate owning status transitions, line items, and
// payment references. Orders are never deleted.
type Order struct {
	ID                    uuid.UUID
	CustomerID            uuid.UUID
	CourierID             *uuid.UUID
	Location              Location
	Lines                 []OrderLine
	Notes                 string
	OrderDate             time.Time
	Status                OrderStatus
	DeliveryFee           float64
	PaymentReferenceID    string
	TipPaymentReferenceID *string
	Version               int

	pending []events.Event
}

// NewOrder builds a submitted order from checkout data and records the
// placement event.
func NewOrder(customerID uuid.UUID, location Location, lines []OrderLine, notes string, deliveryFee float64, paymentReferenceID string) *Order {
	o := &Order{
		ID:                 uuid.New(),
		CustomerID:         customerID,
		Location:           location,
		Lines:              lines,
		Notes:              notes,
		OrderDate:          time.Now().UTC(),
		Status:             StatusSubmitted,
		DeliveryFee:        deliveryFee,
		PaymentReferenceID: paymentReferenceID,
	}
	o.record(events.OrderPlaced{OrderID: o.ID, CustomerID: customerID})
	return o
}

// LinesTotal is the item total excluding the delivery fee.
func (o *Order) LinesTotal() float64 {
	var total float64
	for _, line := range o.Lines {
		total += line.Sum()
	}
	return total
}

// Total is the amount captured at checkout: lines plus delivery fee.
func (o *Order) Total() float64 {
	return o.LinesTotal() + o.DeliveryFee
}

// AdvanceByCourier moves the order one step forward. The first courier
// to act claims the order; later couriers may not take it over.
func (o *Order) AdvanceByCourier(courierID uuid.UUID) error {
	if o.CourierID != nil && *o.CourierID != courierID {
		return ErrCourierMismatch
	}

	next, ok := o.Status.next()
	if !ok {
		return ErrInvalidTransition
	}

	from := o.Status
	o.Status = next
	if o.CourierID == nil {
		o.CourierID = &courierID
	}

	switch {
	case from == StatusSubmitted:
		o.record(events.OrderAccepted{OrderID: o.ID, CustomerID: o.CustomerID, CourierID: courierID})
	case next == StatusOnTheWay:
		o.record(events.OrderPickedUp{OrderID: o.ID, CustomerID: o.CustomerID})
	case next == StatusDelivered:
		o.record(events.OrderDelivered{OrderID: o.ID, CustomerID: o.CustomerID})
	}

	return nil
}

// Cancel applies the cancellation policy and returns the refundable
// amount. Before pickup the full capture is refunded; once a courier
// holds the order the delivery fee is forfeit; after pickup the order
// can no longer be cancelled.
func (o *Order) Cancel() (float64, error) {
	switch o.Status {
	case StatusSubmitted:
		o.Status = StatusCancelled
		return o.LinesTotal() + o.DeliveryFee, nil
	case StatusBeingPickedUp:
		o.Status = StatusCancelledWithFee
		return o.LinesTotal(), nil
	default:
		return 0, ErrCancelAfterPickup
	}
}

// SetTipReference attaches the tip payment reference. It may be set at
// most once per order.
func (o *Order) SetTipReference(ref string) error {
	if o.TipPaymentReferenceID != nil {
		return ErrTipAlreadySet
	}
	o.TipPaymentReferenceID = &ref
	return nil
}

func (o *Order) record(e events.Event) {
	o.pending = append(o.pending, e)
}

// DrainEvents returns the recorded events and clears the queue. The
// caller dispatches them only after a successful commit.
func (o *Order) DrainEvents() []events.Event {
	evts := o.pending
	o.pending = nil
	return evts
}
