package catalog

import "errors"

var (
	ErrItemNotFound = errors.New("food item not found")
	ErrInvalidPrice = errors.New("price must be greater than zero")
	ErrEmptyName    = errors.New("item name is required")
)
