package catalog

import (
	"time"

	"github.com/gofrs/uuid"
)

// Product is a catalog entry. Price is stored in minor currency units.
type Product struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Price       int64     `json:"price" db:"price"`
	Category    string    `json:"category" db:"category"`
	SKU         string    `json:"sku" db:"sku"`
	ImagePath   string    `json:"image_path" db:"image_path"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// ListParams narrows and orders a catalog listing. SortBy and SortOrder are
// resolved against fixed whitelists before they reach SQL.
type ListParams struct {
	Search    string
	Category  string
	SortBy    string
	SortOrder string
	Page      int
	PerPage   int
}
