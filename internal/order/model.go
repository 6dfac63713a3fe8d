package order

import (
	"time"

	"github.com/gofrs/uuid"
)

// Status is the manual-payment order lifecycle. The original storefront
// used two clashing vocabularies for the same stage ("approved" at
// placement, "pending" at approval); this is the single canonical set.
type Status string

const (
	// StatusAwaitingPayment: order placed, bank-transfer instructions shown.
	StatusAwaitingPayment Status = "awaiting_payment"
	// StatusPendingVerification: buyer asserts the transfer was sent.
	StatusPendingVerification Status = "pending_verification"
	// StatusActive: an admin verified the payment.
	StatusActive Status = "active"
	// StatusCancelled: buyer cancelled before the order went active.
	StatusCancelled Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

// PaymentMethodManual is the only payment method the storefront accepts.
const PaymentMethodManual = "manual"

var allowedTransitions = map[Status]map[Status]bool{
	StatusAwaitingPayment: {
		StatusPendingVerification: true,
		StatusCancelled:           true,
	},
	StatusPendingVerification: {
		StatusActive:    true,
		StatusCancelled: true,
	},
	StatusActive:    {},
	StatusCancelled: {},
}

var statusOrder = []Status{
	StatusAwaitingPayment,
	StatusPendingVerification,
	StatusActive,
	StatusCancelled,
}

// CanTransition reports whether the lifecycle permits moving from one
// status to another. Every entry point goes through this table; nothing
// issues raw status updates.
func CanTransition(from, to Status) bool {
	return allowedTransitions[from][to]
}

// TransitionSources lists the statuses the lifecycle allows to move into
// to, in declaration order. The repository derives its status conditions
// from this so the transition table stays the single encoding.
func TransitionSources(to Status) []Status {
	sources := make([]Status, 0, len(statusOrder))
	for _, from := range statusOrder {
		if allowedTransitions[from][to] {
			sources = append(sources, from)
		}
	}
	return sources
}

// Detail is an immutable order line. Price is the product price captured
// at order time and is never recomputed from the catalog.
type Detail struct {
	OrderID   uuid.UUID `json:"order_id" db:"order_id"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	Price     int64     `json:"price" db:"price"`
	Name      string    `json:"name,omitempty" db:"-"`
}

type Order struct {
	ID                 uuid.UUID  `json:"id" db:"id"`
	UserID             uuid.UUID  `json:"user_id" db:"user_id"`
	OrderDate          time.Time  `json:"order_date" db:"order_date"`
	TotalAmount        int64      `json:"total_amount" db:"total_amount"`
	DeliveryFee        int64      `json:"delivery_fee" db:"delivery_fee"`
	Status             Status     `json:"status" db:"status"`
	PaymentMethod      string     `json:"payment_method" db:"payment_method"`
	DeliveryOption     string     `json:"delivery_option" db:"delivery_option"`
	AddressID          uuid.UUID  `json:"address_id" db:"address_id"`
	ApprovedAt         *time.Time `json:"approved_at,omitempty" db:"approved_at"`
	ApprovedBy         *uuid.UUID `json:"approved_by,omitempty" db:"approved_by"`
	PaymentConfirmedAt *time.Time `json:"payment_confirmed_at,omitempty" db:"payment_confirmed_at"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at" db:"updated_at"`
	Items              []Detail   `json:"items" db:"-"`
}

// GrandTotal is always derived; it is never stored anywhere it could
// drift from the captured amounts.
func (o *Order) GrandTotal() int64 {
	return o.TotalAmount + o.DeliveryFee
}

// PlaceOrderInput is the checkout request after the collaborator has
// resolved the address book (a fresh address is saved before checkout).
type PlaceOrderInput struct {
	AddressID      uuid.UUID
	DeliveryOption string
	PaymentMethod  string
}

// PaymentInstructions is rendered to the buyer after placement and again
// on the confirm-payment page.
type PaymentInstructions struct {
	BankName      string    `json:"bank_name"`
	AccountName   string    `json:"account_name"`
	AccountNumber string    `json:"account_number"`
	Currency      string    `json:"currency"`
	Amount        int64     `json:"amount"`
	Reference     string    `json:"reference"`
	Note          string    `json:"note,omitempty"`
	Deadline      time.Time `json:"deadline"`
}

// ListParams filters and pages a user's order history.
type ListParams struct {
	Status  Status
	Page    int
	PerPage int
}
