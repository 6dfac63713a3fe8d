package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jmoiron/sqlx"
)

var ErrProductNotFound = errors.New("product not found")

// Whitelist of sort columns. Only values from this map are ever
// interpolated into a query; everything else falls back to the default.
// Must stay in sync with the columns the listing actually exposes.
var sortColumns = map[string]string{
	"name":       "name",
	"price":      "price",
	"created_at": "created_at",
}

var sortOrders = map[string]string{
	"ASC":  "ASC",
	"DESC": "DESC",
}

const (
	defaultSortColumn = "name"
	defaultSortOrder  = "ASC"
	defaultPerPage    = 20
)

type Repository interface {
	List(ctx context.Context, params ListParams) ([]Product, int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	Categories(ctx context.Context) ([]string, error)
	Create(ctx context.Context, product *Product) error
	Update(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type sqlxRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &sqlxRepository{db: db}
}

func (r *sqlxRepository) List(ctx context.Context, params ListParams) ([]Product, int, error) {
	sortBy, ok := sortColumns[params.SortBy]
	if !ok {
		sortBy = defaultSortColumn
	}
	sortOrder, ok := sortOrders[strings.ToUpper(params.SortOrder)]
	if !ok {
		sortOrder = defaultSortOrder
	}

	where := "WHERE 1=1"
	args := []interface{}{}
	argN := 1

	if params.Search != "" {
		where += fmt.Sprintf(" AND (name ILIKE $%d OR description ILIKE $%d)", argN, argN)
		args = append(args, "%"+params.Search+"%")
		argN++
	}
	if params.Category != "" {
		where += fmt.Sprintf(" AND category = $%d", argN)
		args = append(args, params.Category)
		argN++
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM products " + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("repository: failed to count products: %w", err)
	}

	perPage := params.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	page := params.Page
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * perPage

	// sortBy/sortOrder come from the whitelists above, never from the caller.
	query := fmt.Sprintf(
		"SELECT id, name, description, price, category, sku, image_path, created_at FROM products %s ORDER BY %s %s LIMIT $%d OFFSET $%d",
		where, sortBy, sortOrder, argN, argN+1,
	)
	args = append(args, perPage, offset)

	products := make([]Product, 0)
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, 0, fmt.Errorf("repository: failed to list products: %w", err)
	}

	return products, total, nil
}

func (r *sqlxRepository) GetByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	var product Product
	query := "SELECT id, name, description, price, category, sku, image_path, created_at FROM products WHERE id = $1"
	if err := r.db.GetContext(ctx, &product, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("repository: failed to select product %s: %w", id, err)
	}
	return &product, nil
}

func (r *sqlxRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	query := "SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)"
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		return false, fmt.Errorf("repository: failed to check product existence %s: %w", id, err)
	}
	return exists, nil
}

func (r *sqlxRepository) Categories(ctx context.Context) ([]string, error) {
	categories := make([]string, 0)
	query := "SELECT DISTINCT category FROM products WHERE category <> '' ORDER BY category"
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("repository: failed to list categories: %w", err)
	}
	return categories, nil
}

func (r *sqlxRepository) Create(ctx context.Context, product *Product) error {
	product.CreatedAt = time.Now().UTC()
	query := `
		INSERT INTO products (id, name, description, price, category, sku, image_path, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		product.ID, product.Name, product.Description, product.Price,
		product.Category, product.SKU, product.ImagePath, product.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to insert product: %w", err)
	}
	return nil
}

func (r *sqlxRepository) Update(ctx context.Context, product *Product) error {
	query := `
		UPDATE products
		SET name = $1, description = $2, price = $3, category = $4, sku = $5, image_path = $6
		WHERE id = $7
	`
	res, err := r.db.ExecContext(ctx, query,
		product.Name, product.Description, product.Price,
		product.Category, product.SKU, product.ImagePath, product.ID,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to update product %s: %w", product.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("repository: failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *sqlxRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("repository: failed to delete product %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("repository: failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}
