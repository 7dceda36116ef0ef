package cart

import (
	"time"

	"github.com/google/uuid"
)

// Cart holds the open line items of one customer. It is created
// implicitly on the first AddItem for its id and deleted on checkout.
type Cart struct {
	ID          uuid.UUID
	OwnerUserID *uuid.UUID
	Items       []CartItem
	CreatedAt   time.Time
}

// CartItem is one line of a cart, keyed by SKU. At most one line per
// SKU exists in a cart; repeated adds accumulate Count.
type CartItem struct {
	CartID    uuid.UUID
	SKU       int64
	Name      string
	UnitPrice float64
	Count     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Sum is the line total.
func (i CartItem) Sum() float64 {
	return i.UnitPrice * float64(i.Count)
}

// Subtotal is the sum over all lines, excluding any delivery fee.
func (c *Cart) Subtotal() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Sum()
	}
	return total
}

type AddItemParams struct {
	CartID      uuid.UUID
	OwnerUserID *uuid.UUID
	SKU         int64
	Name        string
	Price       float64
}
