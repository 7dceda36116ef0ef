package catalog

import "time"

// FoodItem is a catalog entry. Its ID doubles as the SKU used to key
// cart lines.
type FoodItem struct {
	ID        int64
	Name      string
	Price     float64
	Available bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type UpdateItemParams struct {
	ID    int64
	Name  string
	Price float64
}
