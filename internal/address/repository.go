package address

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrAddressNotFound = errors.New("address not found")
	// ErrAddressInUse: a historical order still references this address, so
	// deleting it would orphan the order's shipping record.
	ErrAddressInUse = errors.New("address is referenced by an order")
)

type Repository interface {
	Create(ctx context.Context, addr *Address) error
	GetForUser(ctx context.Context, id, userID uuid.UUID) (*Address, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Address, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, addr *Address) error {
	addr.CreatedAt = time.Now().UTC()
	query := `
		INSERT INTO addresses (id, user_id, full_name, address_line1, city, state, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query,
		addr.ID, addr.UserID, addr.FullName, addr.AddressLine1, addr.City, addr.State, addr.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to insert address: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetForUser(ctx context.Context, id, userID uuid.UUID) (*Address, error) {
	query := `
		SELECT id, user_id, full_name, address_line1, city, state, created_at
		FROM addresses
		WHERE id = $1 AND user_id = $2
	`
	var addr Address
	err := r.db.QueryRow(ctx, query, id, userID).Scan(
		&addr.ID, &addr.UserID, &addr.FullName, &addr.AddressLine1, &addr.City, &addr.State, &addr.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAddressNotFound
		}
		return nil, fmt.Errorf("repository: failed to select address %s: %w", id, err)
	}
	return &addr, nil
}

func (r *postgresRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Address, error) {
	query := `
		SELECT id, user_id, full_name, address_line1, city, state, created_at
		FROM addresses
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query addresses for user %s: %w", userID, err)
	}
	defer rows.Close()

	addresses := make([]Address, 0)
	for rows.Next() {
		var addr Address
		if err := rows.Scan(&addr.ID, &addr.UserID, &addr.FullName, &addr.AddressLine1, &addr.City, &addr.State, &addr.CreatedAt); err != nil {
			return nil, fmt.Errorf("repository: failed to scan address for user %s: %w", userID, err)
		}
		addresses = append(addresses, addr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating addresses for user %s: %w", userID, err)
	}

	return addresses, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM addresses WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return ErrAddressInUse
		}
		return fmt.Errorf("repository: failed to delete address %s: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrAddressNotFound
	}
	return nil
}
