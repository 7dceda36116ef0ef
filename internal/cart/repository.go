package cart

import (
	"context"
	"database/sql"

	"campuseats-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Repository interface {
	GetCart(ctx context.Context, cartID uuid.UUID) (*Cart, error)
	UpsertItem(ctx context.Context, params AddItemParams) (*CartItem, error)
	GetItem(ctx context.Context, cartID uuid.UUID, sku int64) (*CartItem, error)
	UpdateItemCount(ctx context.Context, cartID uuid.UUID, sku int64, count int) error
	DeleteItem(ctx context.Context, cartID uuid.UUID, sku int64) error
	Clear(ctx context.Context, cartID uuid.UUID) error
	BulkUpdateItemName(ctx context.Context, sku int64, name string) (int64, error)
	BulkUpdateItemPrice(ctx context.Context, sku int64, price float64) (int64, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetCart(ctx context.Context, cartID uuid.UUID) (*Cart, error) {
	c := &Cart{}
	err := r.db.QueryRowContext(ctx, `
	SELECT id, owner_user_id, created_at
	FROM carts
	WHERE id = $1
	`, cartID).Scan(&c.ID, &c.OwnerUserID, &c.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
	SELECT cart_id, sku, name, unit_price, count, created_at, updated_at
	FROM cart_items
	WHERE cart_id = $1
	ORDER BY sku ASC
	`, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item CartItem
		if err := rows.Scan(
			&item.CartID,
			&item.SKU,
			&item.Name,
			&item.UnitPrice,
			&item.Count,
			&item.CreatedAt,
			&item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		c.Items = append(c.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return c, nil
}

// UpsertItem creates the cart row if needed, then creates the line or
// increments its count. Both statements run in one transaction.
func (r *repository) UpsertItem(ctx context.Context, params AddItemParams) (*CartItem, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "UpsertItem"),
		zap.String("cart_id", params.CartID.String()),
		zap.Int64("sku", params.SKU),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
	INSERT INTO carts (id, owner_user_id)
	VALUES ($1, $2)
	ON CONFLICT (id) DO NOTHING
	`, params.CartID, params.OwnerUserID)
	if err != nil {
		log.Error("failed to ensure cart row", zap.Error(err))
		return nil, err
	}

	item := &CartItem{}
	err = tx.QueryRowContext(ctx, `
	INSERT INTO cart_items (cart_id, sku, name, unit_price, count)
	VALUES ($1, $2, $3, $4, 1)
	ON CONFLICT (cart_id, sku)
	DO UPDATE SET count = cart_items.count + 1, updated_at = NOW()
	RETURNING cart_id, sku, name, unit_price, count, created_at, updated_at
	`, params.CartID, params.SKU, params.Name, params.Price).Scan(
		&item.CartID,
		&item.SKU,
		&item.Name,
		&item.UnitPrice,
		&item.Count,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to upsert cart item", zap.Error(err))
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	log.Debug("cart item upserted", zap.Int("count", item.Count))
	return item, nil
}

func (r *repository) GetItem(ctx context.Context, cartID uuid.UUID, sku int64) (*CartItem, error) {
	item := &CartItem{}
	err := r.db.QueryRowContext(ctx, `
	SELECT cart_id, sku, name, unit_price, count, created_at, updated_at
	FROM cart_items
	WHERE cart_id = $1 AND sku = $2
	`, cartID, sku).Scan(
		&item.CartID,
		&item.SKU,
		&item.Name,
		&item.UnitPrice,
		&item.Count,
		&item.CreatedAt,
		&item.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return item, nil
}

func (r *repository) UpdateItemCount(ctx context.Context, cartID uuid.UUID, sku int64, count int) error {
	res, err := r.db.ExecContext(ctx, `
	UPDATE cart_items
	SET count = $1, updated_at = NOW()
	WHERE cart_id = $2 AND sku = $3
	`, count, cartID, sku)
	if err != nil {
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrCartItemNotFound
	}

	return nil
}

func (r *repository) DeleteItem(ctx context.Context, cartID uuid.UUID, sku int64) error {
	res, err := r.db.ExecContext(ctx, `
	DELETE FROM cart_items
	WHERE cart_id = $1 AND sku = $2
	`, cartID, sku)
	if err != nil {
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrCartItemNotFound
	}

	return nil
}

// Clear empties the cart. Clearing an already empty cart is not an
// error.
func (r *repository) Clear(ctx context.Context, cartID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `
	DELETE FROM cart_items
	WHERE cart_id = $1
	`, cartID)
	return err
}

func (r *repository) BulkUpdateItemName(ctx context.Context, sku int64, name string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
	UPDATE cart_items
	SET name = $1, updated_at = NOW()
	WHERE sku = $2
	`, name, sku)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repository) BulkUpdateItemPrice(ctx context.Context, sku int64, price float64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
	UPDATE cart_items
	SET unit_price = $1, updated_at = NOW()
	WHERE sku = $2
	`, price, sku)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
