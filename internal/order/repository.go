package order

import (
	"context"
	"database/sql"

	"campuseats-be/internal/logger"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	// CreateOrderTx persists the order with its lines and deletes the
	// checked-out cart in the same transaction: both or neither.
	CreateOrderTx(ctx context.Context, o *Order, cartID uuid.UUID) error
	GetOrder(ctx context.Context, orderID uuid.UUID) (*Order, error)
	// UpdateStatus persists a status change with an optimistic version
	// check; a concurrent writer loses with ErrConflict.
	UpdateStatus(ctx context.Context, o *Order) error
	SetTipReference(ctx context.Context, orderID uuid.UUID, ref string) error
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*Order, error)
	ListByCourier(ctx context.Context, courierID uuid.UUID) ([]*Order, error)
	// ListOpen returns submitted, unclaimed orders for the courier board.
	ListOpen(ctx context.Context) ([]*Order, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const orderColumns = `
	id, customer_id, courier_id,
	building, room_number, location_notes,
	notes, order_date, status, delivery_fee,
	payment_reference_id, tip_payment_reference_id, version`

func (r *repository) CreateOrderTx(ctx context.Context, o *Order, cartID uuid.UUID) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateOrderTx"),
		zap.String("order_id", o.ID.String()),
		zap.String("cart_id", cartID.String()),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
	INSERT INTO orders (
		id, customer_id,
		building, room_number, location_notes,
		notes, order_date, status, delivery_fee,
		payment_reference_id, version
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 0)
	`,
		o.ID, o.CustomerID,
		o.Location.Building, o.Location.RoomNumber, o.Location.Notes,
		o.Notes, o.OrderDate, o.Status, o.DeliveryFee,
		o.PaymentReferenceID,
	)
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return err
	}

	for _, line := range o.Lines {
		_, err = tx.ExecContext(ctx, `
		INSERT INTO order_lines (order_id, food_item_id, food_item_name, amount, unit_price)
		VALUES ($1, $2, $3, $4, $5)
		`, o.ID, line.FoodItemID, line.FoodItemName, line.Amount, line.UnitPrice)
		if err != nil {
			log.Error("failed to insert order line", zap.Int64("food_item_id", line.FoodItemID), zap.Error(err))
			return err
		}
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID)
	if err != nil {
		log.Error("failed to delete cart items", zap.Error(err))
		return err
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM carts WHERE id = $1`, cartID)
	if err != nil {
		log.Error("failed to delete cart", zap.Error(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	log.Info("order created", zap.String("status", string(o.Status)))
	return nil
}

func (r *repository) GetOrder(ctx context.Context, orderID uuid.UUID) (*Order, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT `+orderColumns+`
	FROM orders
	WHERE id = $1
	`, orderID)

	o, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	lines, err := r.loadLines(ctx, []uuid.UUID{o.ID})
	if err != nil {
		return nil, err
	}
	o.Lines = lines[o.ID]

	return o, nil
}

func (r *repository) UpdateStatus(ctx context.Context, o *Order) error {
	res, err := r.db.ExecContext(ctx, `
	UPDATE orders
	SET status = $1, courier_id = $2, version = version + 1, updated_at = NOW()
	WHERE id = $3 AND version = $4
	`, o.Status, o.CourierID, o.ID, o.Version)
	if err != nil {
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrConflict
	}

	o.Version++
	return nil
}

func (r *repository) SetTipReference(ctx context.Context, orderID uuid.UUID, ref string) error {
	res, err := r.db.ExecContext(ctx, `
	UPDATE orders
	SET tip_payment_reference_id = $1, updated_at = NOW()
	WHERE id = $2 AND tip_payment_reference_id IS NULL
	`, ref, orderID)
	if err != nil {
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrTipAlreadySet
	}

	return nil
}

func (r *repository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*Order, error) {
	return r.list(ctx, `
	SELECT `+orderColumns+`
	FROM orders
	WHERE customer_id = $1
	ORDER BY order_date DESC
	`, customerID)
}

func (r *repository) ListByCourier(ctx context.Context, courierID uuid.UUID) ([]*Order, error) {
	return r.list(ctx, `
	SELECT `+orderColumns+`
	FROM orders
	WHERE courier_id = $1
	ORDER BY order_date DESC
	`, courierID)
}

func (r *repository) ListOpen(ctx context.Context) ([]*Order, error) {
	return r.list(ctx, `
	SELECT `+orderColumns+`
	FROM orders
	WHERE status = $1 AND courier_id IS NULL
	ORDER BY order_date ASC
	`, StatusSubmitted)
}

func (r *repository) list(ctx context.Context, query string, args ...any) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]*Order, 0)
	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return orders, nil
	}

	lines, err := r.loadLines(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		o.Lines = lines[o.ID]
	}

	return orders, nil
}

func (r *repository) loadLines(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]OrderLine, error) {
	ids := make([]string, 0, len(orderIDs))
	for _, id := range orderIDs {
		ids = append(ids, id.String())
	}

	rows, err := r.db.QueryContext(ctx, `
	SELECT order_id, food_item_id, food_item_name, amount, unit_price
	FROM order_lines
	WHERE order_id = ANY($1)
	ORDER BY food_item_id ASC
	`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := make(map[uuid.UUID][]OrderLine)
	for rows.Next() {
		var orderID uuid.UUID
		var line OrderLine
		if err := rows.Scan(&orderID, &line.FoodItemID, &line.FoodItemName, &line.Amount, &line.UnitPrice); err != nil {
			return nil, err
		}
		lines[orderID] = append(lines[orderID], line)
	}

	return lines, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*Order, error) {
	o := &Order{}
	err := row.Scan(
		&o.ID,
		&o.CustomerID,
		&o.CourierID,
		&o.Location.Building,
		&o.Location.RoomNumber,
		&o.Location.Notes,
		&o.Notes,
		&o.OrderDate,
		&o.Status,
		&o.DeliveryFee,
		&o.PaymentReferenceID,
		&o.TipPaymentReferenceID,
		&o.Version,
	)
	if err != nil {
		return nil, err
	}
	return o, nil
}
