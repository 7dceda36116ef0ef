package cart

import "errors"

var (
	// -- Resource State --
	ErrCartNotFound     = errors.New("cart not found")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrZeroCountItem    = errors.New("cart item count is already zero")

	// -- Validation & Input --
	ErrInvalidPrice = errors.New("item price must be greater than zero")
	ErrEmptyName    = errors.New("item name is required")
)
