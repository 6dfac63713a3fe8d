package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	// ErrPreconditionFailed: the order exists but is not in a state the
	// requested transition permits, or does not belong to the caller.
	ErrPreconditionFailed = errors.New("order state does not permit this action")
)

type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByIDForUser(ctx context.Context, orderID, userID uuid.UUID) (*Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, params ListParams) ([]Order, int, error)
	ConfirmPayment(ctx context.Context, orderID, userID uuid.UUID) error
	Cancel(ctx context.Context, orderID, userID uuid.UUID) error
	Approve(ctx context.Context, orderID, adminID uuid.UUID) error
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) begin(ctx context.Context, err *error) (pgx.Tx, func(), error) {
	tx, beginErr := r.db.Begin(ctx)
	if beginErr != nil {
		return nil, nil, fmt.Errorf("repository: failed to begin transaction: %w", beginErr)
	}
	finish := func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				log.Error().Err(rbErr).Msg("Failed to rollback transaction after panic")
			}
			panic(p)
		} else if *err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				log.Error().Err(rbErr).Msg("Failed to rollback transaction")
			}
		} else {
			if commitErr := tx.Commit(ctx); commitErr != nil {
				*err = fmt.Errorf("repository: failed to commit transaction: %w", commitErr)
			}
		}
	}
	return tx, finish, nil
}

// Create persists the order snapshot atomically: the order row, one detail
// row per cart line (capturing the price at order time), and removal of
// the user's cart rows. Any failure rolls the whole unit back and leaves
// the cart untouched.
func (r *postgresRepository) Create(ctx context.Context, o *Order) (err error) {
	tx, finish, err := r.begin(ctx, &err)
	if err != nil {
		return err
	}
	defer finish()

	now := time.Now().UTC()
	o.OrderDate = now
	o.CreatedAt = now
	o.UpdatedAt = now

	queryOrder := `
		INSERT INTO orders
			(id, user_id, order_date, total_amount, delivery_fee, status, payment_method, delivery_option, address_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = tx.Exec(ctx, queryOrder,
		o.ID, o.UserID, o.OrderDate, o.TotalAmount, o.DeliveryFee,
		string(o.Status), o.PaymentMethod, o.DeliveryOption, o.AddressID,
		o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to insert order: %w", err)
	}

	queryDetail := `
		INSERT INTO order_details (order_id, product_id, quantity, price)
		VALUES ($1, $2, $3, $4)
	`
	for i := range o.Items {
		item := &o.Items[i]
		item.OrderID = o.ID
		_, err = tx.Exec(ctx, queryDetail, o.ID, item.ProductID, item.Quantity, item.Price)
		if err != nil {
			return fmt.Errorf("repository: failed to insert order detail for order %s: %w", o.ID, err)
		}
	}

	// Only the snapshotted lines are cleared: a line added to the cart
	// after the snapshot was read is not part of this order and survives.
	productIDs := make([]string, 0, len(o.Items))
	for _, item := range o.Items {
		productIDs = append(productIDs, item.ProductID.String())
	}
	_, err = tx.Exec(ctx,
		`DELETE FROM cart WHERE user_id = $1 AND product_id = ANY($2::uuid[])`,
		o.UserID, productIDs,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to clear cart for user %s: %w", o.UserID, err)
	}

	return nil
}

func (r *postgresRepository) GetByIDForUser(ctx context.Context, orderID, userID uuid.UUID) (*Order, error) {
	queryOrder := `
		SELECT id, user_id, order_date, total_amount, delivery_fee, status, payment_method,
		       delivery_option, address_id, approved_at, approved_by, payment_confirmed_at,
		       created_at, updated_at
		FROM orders
		WHERE id = $1 AND user_id = $2
	`

	var o Order
	err := r.db.QueryRow(ctx, queryOrder, orderID, userID).Scan(
		&o.ID, &o.UserID, &o.OrderDate, &o.TotalAmount, &o.DeliveryFee, &o.Status,
		&o.PaymentMethod, &o.DeliveryOption, &o.AddressID, &o.ApprovedAt, &o.ApprovedBy,
		&o.PaymentConfirmedAt, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("repository: failed to select order %s: %w", orderID, err)
	}

	queryDetails := `
		SELECT d.order_id, d.product_id, d.quantity, d.price, p.name
		FROM order_details d
		JOIN products p ON p.id = d.product_id
		WHERE d.order_id = $1
	`
	rows, err := r.db.Query(ctx, queryDetails, orderID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query order details for order %s: %w", orderID, err)
	}
	defer rows.Close()

	o.Items = make([]Detail, 0)
	for rows.Next() {
		var d Detail
		if err := rows.Scan(&d.OrderID, &d.ProductID, &d.Quantity, &d.Price, &d.Name); err != nil {
			return nil, fmt.Errorf("repository: failed to scan order detail for order %s: %w", orderID, err)
		}
		o.Items = append(o.Items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating order details for order %s: %w", orderID, err)
	}

	return &o, nil
}

func (r *postgresRepository) ListByUser(ctx context.Context, userID uuid.UUID, params ListParams) ([]Order, int, error) {
	where := "WHERE user_id = $1"
	args := []interface{}{userID}
	if params.Status != "" {
		where += " AND status = $2"
		args = append(args, string(params.Status))
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM orders "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repository: failed to count orders for user %s: %w", userID, err)
	}

	perPage := params.PerPage
	if perPage <= 0 {
		perPage = 10
	}
	page := params.Page
	if page < 1 {
		page = 1
	}

	query := fmt.Sprintf(`
		SELECT id, user_id, order_date, total_amount, delivery_fee, status, payment_method,
		       delivery_option, address_id, approved_at, approved_by, payment_confirmed_at,
		       created_at, updated_at
		FROM orders
		%s
		ORDER BY order_date DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, perPage, (page-1)*perPage)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("repository: failed to query orders for user %s: %w", userID, err)
	}
	defer rows.Close()

	orders := make([]Order, 0)
	for rows.Next() {
		var o Order
		err := rows.Scan(
			&o.ID, &o.UserID, &o.OrderDate, &o.TotalAmount, &o.DeliveryFee, &o.Status,
			&o.PaymentMethod, &o.DeliveryOption, &o.AddressID, &o.ApprovedAt, &o.ApprovedBy,
			&o.PaymentConfirmedAt, &o.CreatedAt, &o.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("repository: failed to scan order for user %s: %w", userID, err)
		}
		o.Items = make([]Detail, 0)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repository: error iterating orders for user %s: %w", userID, err)
	}

	return orders, total, nil
}

// statusStrings converts transition-table statuses into the form the
// ANY(...) conditions take.
func statusStrings(statuses []Status) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, string(s))
	}
	return out
}

// ConfirmPayment is a single conditional update scoped to the owner and
// the statuses the transition table lets move into pending_verification;
// success is judged purely by the affected row count.
func (r *postgresRepository) ConfirmPayment(ctx context.Context, orderID, userID uuid.UUID) error {
	query := `
		UPDATE orders
		SET status = $1, payment_confirmed_at = $2, updated_at = $2
		WHERE id = $3 AND user_id = $4 AND status = ANY($5)
	`
	cmdTag, err := r.db.Exec(ctx, query,
		string(StatusPendingVerification), time.Now().UTC(), orderID, userID,
		statusStrings(TransitionSources(StatusPendingVerification)),
	)
	if err != nil {
		return fmt.Errorf("repository: failed to confirm payment for order %s: %w", orderID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrPreconditionFailed
	}
	return nil
}

func (r *postgresRepository) Cancel(ctx context.Context, orderID, userID uuid.UUID) error {
	query := `
		UPDATE orders
		SET status = $1, updated_at = $2
		WHERE id = $3 AND user_id = $4 AND status = ANY($5)
	`
	cancellable := statusStrings(TransitionSources(StatusCancelled))
	cmdTag, err := r.db.Exec(ctx, query, string(StatusCancelled), time.Now().UTC(), orderID, userID, cancellable)
	if err != nil {
		return fmt.Errorf("repository: failed to cancel order %s: %w", orderID, err)
	}
	if cmdTag.RowsAffected() > 0 {
		return nil
	}

	// Distinguish a missing/foreign order from one that is past the point
	// of cancellation.
	var status string
	err = r.db.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1 AND user_id = $2`, orderID, userID).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrOrderNotFound
	}
	if err != nil {
		return fmt.Errorf("repository: failed to re-read order %s: %w", orderID, err)
	}
	return ErrPreconditionFailed
}

// Approve re-reads the order under a row lock, verifies the precondition
// and applies the status change together with the audit log entry, all in
// one transaction. This is the compare-and-swap that makes concurrent
// approvals produce exactly one transition and one audit row.
func (r *postgresRepository) Approve(ctx context.Context, orderID, adminID uuid.UUID) (err error) {
	tx, finish, err := r.begin(ctx, &err)
	if err != nil {
		return err
	}
	defer finish()

	var status, paymentMethod string
	err = tx.QueryRow(ctx,
		`SELECT status, payment_method FROM orders WHERE id = $1 FOR UPDATE`,
		orderID,
	).Scan(&status, &paymentMethod)
	if errors.Is(err, pgx.ErrNoRows) {
		err = ErrOrderNotFound
		return err
	}
	if err != nil {
		err = fmt.Errorf("repository: failed to select order %s for approval: %w", orderID, err)
		return err
	}

	if !CanTransition(Status(status), StatusActive) || paymentMethod != PaymentMethodManual {
		err = fmt.Errorf("%w: status=%s payment_method=%s", ErrPreconditionFailed, status, paymentMethod)
		return err
	}

	now := time.Now().UTC()
	_, err = tx.Exec(ctx, `
		UPDATE orders
		SET status = $1, approved_at = $2, approved_by = $3, updated_at = $2
		WHERE id = $4
	`, string(StatusActive), now, adminID, orderID)
	if err != nil {
		err = fmt.Errorf("repository: failed to approve order %s: %w", orderID, err)
		return err
	}

	logID, genErr := uuid.NewV4()
	if genErr != nil {
		err = fmt.Errorf("repository: failed to generate audit log id: %w", genErr)
		return err
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO admin_logs (id, admin_id, order_id, action, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, logID, adminID, orderID, "approve_order", now)
	if err != nil {
		err = fmt.Errorf("repository: failed to insert audit log for order %s: %w", orderID, err)
		return err
	}

	return nil
}
