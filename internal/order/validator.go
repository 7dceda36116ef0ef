package order

import (
	"strings"

	"campuseats-be/internal/cart"
)

// LocationValidator checks one rule against a delivery location and
// reports the reason when it fails. Checkout runs every validator and
// collects all failures.
type LocationValidator interface {
	Validate(loc Location) (bool, string)
}

// CartValidator checks one rule against the cart being checked out.
type CartValidator interface {
	Validate(c *cart.Cart) (bool, string)
}

type buildingRequired struct{}

func (buildingRequired) Validate(loc Location) (bool, string) {
	if strings.TrimSpace(loc.Building) == "" {
		return false, MsgNoBuilding
	}
	return true, ""
}

type roomRequired struct{}

func (roomRequired) Validate(loc Location) (bool, string) {
	if strings.TrimSpace(loc.RoomNumber) == "" {
		return false, MsgNoRoom
	}
	return true, ""
}

type nonEmptyCart struct{}

func (nonEmptyCart) Validate(c *cart.Cart) (bool, string) {
	if c == nil || len(c.Items) == 0 {
		return false, MsgEmptyCart
	}
	return true, ""
}

// DefaultLocationValidators are the rules every checkout runs.
func DefaultLocationValidators() []LocationValidator {
	return []LocationValidator{buildingRequired{}, roomRequired{}}
}

// DefaultCartValidators are the cart rules every checkout runs.
func DefaultCartValidators() []CartValidator {
	return []CartValidator{nonEmptyCart{}}
}
