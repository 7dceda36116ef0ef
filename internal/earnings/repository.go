package earnings

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	// ListDelivered returns the courier's delivered orders with an
	// order date in [from, to).
	ListDelivered(ctx context.Context, courierID uuid.UUID, from, to time.Time) ([]DeliveredOrder, error)
	// RevenueSummary aggregates delivered-order revenue over [from, to).
	RevenueSummary(ctx context.Context, from, to time.Time) (*RevenueSummary, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListDelivered(ctx context.Context, courierID uuid.UUID, from, to time.Time) ([]DeliveredOrder, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, order_date, delivery_fee, tip_payment_reference_id
	FROM orders
	WHERE courier_id = $1
	  AND status = 'DELIVERED'
	  AND order_date >= $2
	  AND order_date < $3
	ORDER BY order_date ASC
	`, courierID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]DeliveredOrder, 0)
	for rows.Next() {
		var o DeliveredOrder
		if err := rows.Scan(&o.ID, &o.OrderDate, &o.DeliveryFee, &o.TipPaymentReferenceID); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, rows.Err()
}

func (r *repository) RevenueSummary(ctx context.Context, from, to time.Time) (*RevenueSummary, error) {
	summary := &RevenueSummary{From: from, To: to}
	err := r.db.QueryRowContext(ctx, `
	SELECT
		COUNT(*),
		COALESCE(SUM(d.lines_total), 0),
		COALESCE(SUM(d.delivery_fee), 0)
	FROM (
		SELECT
			o.id,
			o.delivery_fee,
			(
				SELECT COALESCE(SUM(l.amount * l.unit_price), 0)
				FROM order_lines l
				WHERE l.order_id = o.id
			) AS lines_total
		FROM orders o
		WHERE o.status = 'DELIVERED'
		  AND o.order_date >= $1
		  AND o.order_date < $2
	) d
	`, from, to).Scan(&summary.OrderCount, &summary.LinesRevenue, &summary.DeliveryRevenue)
	if err != nil {
		return nil, err
	}

	summary.TotalRevenue = summary.LinesRevenue + summary.DeliveryRevenue
	return summary, nil
}
