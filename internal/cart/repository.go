package cart

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

// ErrNotInCart is reported when a negative delta targets a product the
// user has no line for.
var ErrNotInCart = errors.New("item not in cart")

type Repository interface {
	ApplyDelta(ctx context.Context, userID, productID uuid.UUID, delta int) error
	Get(ctx context.Context, userID uuid.UUID) (*Cart, error)
	Merge(ctx context.Context, userID uuid.UUID, items []MergeItem) error
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

// ApplyDelta adjusts one cart line inside a transaction. The existing row
// is locked with FOR UPDATE so concurrent deltas for the same (user,
// product) serialize instead of losing updates.
func (r *postgresRepository) ApplyDelta(ctx context.Context, userID, productID uuid.UUID, delta int) (err error) {
	tx, beginErr := r.db.Begin(ctx)
	if beginErr != nil {
		return fmt.Errorf("repository: failed to begin transaction: %w", beginErr)
	}
	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				log.Error().Err(rbErr).Msg("Failed to rollback transaction after panic")
			}
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				log.Error().Err(rbErr).Msg("Failed to rollback transaction")
			}
		} else {
			if commitErr := tx.Commit(ctx); commitErr != nil {
				err = fmt.Errorf("repository: failed to commit transaction: %w", commitErr)
			}
		}
	}()

	var quantity int
	exists := true
	err = tx.QueryRow(ctx,
		`SELECT quantity FROM cart WHERE user_id = $1 AND product_id = $2 FOR UPDATE`,
		userID, productID,
	).Scan(&quantity)
	if errors.Is(err, pgx.ErrNoRows) {
		exists = false
		err = nil
	} else if err != nil {
		err = fmt.Errorf("repository: failed to select cart line: %w", err)
		return err
	}

	op, newQuantity, decideErr := reconcile(quantity, exists, delta)
	if decideErr != nil {
		err = decideErr
		return err
	}

	switch op {
	case opInsert:
		_, err = tx.Exec(ctx,
			`INSERT INTO cart (user_id, product_id, quantity, added_at) VALUES ($1, $2, $3, $4)`,
			userID, productID, newQuantity, time.Now().UTC(),
		)
		if err != nil {
			err = fmt.Errorf("repository: failed to insert cart line: %w", err)
		}
	case opDelete:
		_, err = tx.Exec(ctx,
			`DELETE FROM cart WHERE user_id = $1 AND product_id = $2`,
			userID, productID,
		)
		if err != nil {
			err = fmt.Errorf("repository: failed to delete cart line: %w", err)
		}
	case opUpdate:
		_, err = tx.Exec(ctx,
			`UPDATE cart SET quantity = $1 WHERE user_id = $2 AND product_id = $3`,
			newQuantity, userID, productID,
		)
		if err != nil {
			err = fmt.Errorf("repository: failed to update cart line: %w", err)
		}
	}
	return err
}

func (r *postgresRepository) Get(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	query := `
		SELECT p.id, p.name, p.price, p.image_path, c.quantity
		FROM cart c
		JOIN products p ON p.id = c.product_id
		WHERE c.user_id = $1
		ORDER BY c.added_at
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query cart for user %s: %w", userID, err)
	}
	defer rows.Close()

	result := &Cart{UserID: userID, Items: make([]Item, 0)}
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ProductID, &item.Name, &item.Price, &item.ImagePath, &item.Quantity); err != nil {
			return nil, fmt.Errorf("repository: failed to scan cart item for user %s: %w", userID, err)
		}
		item.LineTotal = item.Price * int64(item.Quantity)
		result.Subtotal += item.LineTotal
		result.Items = append(result.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating cart items for user %s: %w", userID, err)
	}

	return result, nil
}

// Merge folds items into the cart with an atomic upsert-with-increment per
// line. Products that vanished from the catalog are skipped by the caller.
func (r *postgresRepository) Merge(ctx context.Context, userID uuid.UUID, items []MergeItem) error {
	query := `
		INSERT INTO cart (user_id, product_id, quantity, added_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = cart.quantity + EXCLUDED.quantity
	`
	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		if _, err := r.db.Exec(ctx, query, userID, item.ProductID, item.Quantity, time.Now().UTC()); err != nil {
			return fmt.Errorf("repository: failed to merge cart line for product %s: %w", item.ProductID, err)
		}
	}
	return nil
}
