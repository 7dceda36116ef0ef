package catalog

import (
	"context"
	"database/sql"
)

type Repository interface {
	GetItem(ctx context.Context, id int64) (*FoodItem, error)
	ListAvailable(ctx context.Context) ([]*FoodItem, error)
	CreateItem(ctx context.Context, name string, price float64) (*FoodItem, error)
	UpdateItem(ctx context.Context, params UpdateItemParams) (*FoodItem, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetItem(ctx context.Context, id int64) (*FoodItem, error) {
	query := `
	SELECT id, name, price, available, created_at, updated_at
	FROM food_items
	WHERE id = $1
	`

	item := &FoodItem{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID,
		&item.Name,
		&item.Price,
		&item.Available,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}

	return item, nil
}

func (r *repository) ListAvailable(ctx context.Context) ([]*FoodItem, error) {
	query := `
	SELECT id, name, price, available, created_at, updated_at
	FROM food_items
	WHERE available = TRUE
	ORDER BY name ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*FoodItem, 0)
	for rows.Next() {
		item := &FoodItem{}
		if err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.Price,
			&item.Available,
			&item.CreatedAt,
			&item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func (r *repository) CreateItem(ctx context.Context, name string, price float64) (*FoodItem, error) {
	query := `
	INSERT INTO food_items (name, price, available)
	VALUES ($1, $2, TRUE)
	RETURNING id, name, price, available, created_at, updated_at
	`

	item := &FoodItem{}
	err := r.db.QueryRowContext(ctx, query, name, price).Scan(
		&item.ID,
		&item.Name,
		&item.Price,
		&item.Available,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return item, nil
}

func (r *repository) UpdateItem(ctx context.Context, params UpdateItemParams) (*FoodItem, error) {
	query := `
	UPDATE food_items
	SET name = $1, price = $2, updated_at = NOW()
	WHERE id = $3
	RETURNING id, name, price, available, created_at, updated_at
	`

	item := &FoodItem{}
	err := r.db.QueryRowContext(ctx, query, params.Name, params.Price, params.ID).Scan(
		&item.ID,
		&item.Name,
		&item.Price,
		&item.Available,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}

	return item, nil
}
