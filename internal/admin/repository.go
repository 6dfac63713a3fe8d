package admin

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	PendingManualOrders(ctx context.Context) ([]OrderSummary, error)
	Stats(ctx context.Context) (*Stats, error)
	LogsForOrder(ctx context.Context, orderID uuid.UUID) ([]LogEntry, error)
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) PendingManualOrders(ctx context.Context) ([]OrderSummary, error) {
	query := `
		SELECT o.id, u.email, o.order_date, o.total_amount, o.delivery_fee,
		       (o.total_amount + o.delivery_fee) AS grand_total, o.status
		FROM orders o
		JOIN users u ON u.id = o.user_id
		WHERE o.status = 'pending_verification' AND o.payment_method = 'manual'
		ORDER BY o.order_date DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query pending manual orders: %w", err)
	}
	defer rows.Close()

	summaries := make([]OrderSummary, 0)
	for rows.Next() {
		var s OrderSummary
		if err := rows.Scan(&s.OrderID, &s.UserEmail, &s.OrderDate, &s.TotalAmount, &s.DeliveryFee, &s.GrandTotal, &s.Status); err != nil {
			return nil, fmt.Errorf("repository: failed to scan pending manual order: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating pending manual orders: %w", err)
	}

	return summaries, nil
}

func (r *postgresRepository) Stats(ctx context.Context) (*Stats, error) {
	query := `
		SELECT
			COUNT(*) AS total_orders,
			COUNT(*) FILTER (WHERE status = 'pending_verification') AS pending_orders,
			COUNT(*) FILTER (WHERE status = 'active') AS active_orders,
			COALESCE(SUM(total_amount + delivery_fee) FILTER (WHERE status = 'active'), 0) AS total_revenue
		FROM orders
	`
	var s Stats
	if err := r.db.QueryRow(ctx, query).Scan(&s.TotalOrders, &s.PendingOrders, &s.ActiveOrders, &s.TotalRevenue); err != nil {
		return nil, fmt.Errorf("repository: failed to query order stats: %w", err)
	}
	return &s, nil
}

func (r *postgresRepository) LogsForOrder(ctx context.Context, orderID uuid.UUID) ([]LogEntry, error) {
	query := `
		SELECT id, admin_id, order_id, action, created_at
		FROM admin_logs
		WHERE order_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query admin logs for order %s: %w", orderID, err)
	}
	defer rows.Close()

	entries := make([]LogEntry, 0)
	for rows.Next() {
		var e LogEntry
		if err := rows.Scan(&e.ID, &e.AdminID, &e.OrderID, &e.Action, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("repository: failed to scan admin log for order %s: %w", orderID, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating admin logs for order %s: %w", orderID, err)
	}

	return entries, nil
}
