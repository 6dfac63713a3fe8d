package cart

import (
	"time"

	"github.com/gofrs/uuid"
)

// Line is a single product entry in a user's cart. Quantity is always
// positive; a line whose quantity would drop to zero or below is deleted
// instead.
type Line struct {
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	AddedAt   time.Time `json:"added_at" db:"added_at"`
}

// Item is a cart line joined with its product, as shown to the buyer.
// LineTotal and the cart Subtotal are computed on read from the current
// price and quantity; no total is ever cached.
type Item struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Price     int64     `json:"price"`
	ImagePath string    `json:"image_path"`
	Quantity  int       `json:"quantity"`
	LineTotal int64     `json:"line_total"`
}

type Cart struct {
	UserID   uuid.UUID `json:"user_id"`
	Items    []Item    `json:"items"`
	Subtotal int64     `json:"subtotal"`
}

// MergeItem is one line to fold into a cart during a reorder.
type MergeItem struct {
	ProductID uuid.UUID
	Quantity  int
}
