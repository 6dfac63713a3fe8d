package address

import (
	"time"

	"github.com/gofrs/uuid"
)

// Address is a saved shipping address. It is owned by the user; orders
// reference it by id without taking ownership.
type Address struct {
	ID           uuid.UUID `json:"id" db:"id"`
	UserID       uuid.UUID `json:"user_id" db:"user_id"`
	FullName     string    `json:"full_name" db:"full_name"`
	AddressLine1 string    `json:"address_line1" db:"address_line1"`
	City         string    `json:"city" db:"city"`
	State        string    `json:"state" db:"state"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
