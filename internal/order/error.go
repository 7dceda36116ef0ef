package order

import "errors"

var (
	// -- Resource State --
	ErrOrderNotFound = errors.New("order not found")
	ErrUnauthorized  = errors.New("unauthorized")

	// -- Transitions --
	ErrInvalidTransition = errors.New("illegal status transition")
	ErrCourierMismatch   = errors.New("order already claimed by another courier")
	ErrCancelAfterPickup = errors.New("Cannot cancel after pickup")
	ErrTipAlreadySet     = errors.New("tip payment reference already set")

	// -- Concurrency --
	ErrConflict = errors.New("order was updated concurrently")
)

// Validation strings surfaced by the checkout pipeline. They are part
// of the user-facing contract and collected, not short-circuited.
const (
	MsgCartNotFound = "Cart not found"
	MsgUserNotFound = "User not found"
	MsgNilLocation  = "Location cannot be null"
	MsgEmptyCart    = "Cart is empty"
	MsgNoBuilding   = "Building is required"
	MsgNoRoom       = "Room number is required"
)
