package admin

import (
	"time"

	"github.com/gofrs/uuid"
)

// OrderSummary is one row of the admin order queues. GrandTotal is derived
// in SQL from the captured amounts, never stored.
type OrderSummary struct {
	OrderID     uuid.UUID `json:"order_id"`
	UserEmail   string    `json:"user_email"`
	OrderDate   time.Time `json:"order_date"`
	TotalAmount int64     `json:"total_amount"`
	DeliveryFee int64     `json:"delivery_fee"`
	GrandTotal  int64     `json:"grand_total"`
	Status      string    `json:"status"`
}

// Stats is the dashboard headline block.
type Stats struct {
	TotalOrders   int   `json:"total_orders"`
	PendingOrders int   `json:"pending_orders"`
	ActiveOrders  int   `json:"active_orders"`
	TotalRevenue  int64 `json:"total_revenue"`
}

// LogEntry is one audit record of an admin action on an order.
type LogEntry struct {
	ID        uuid.UUID `json:"id"`
	AdminID   uuid.UUID `json:"admin_id"`
	OrderID   uuid.UUID `json:"order_id"`
	Action    string    `json:"action"`
	CreatedAt time.Time `json:"created_at"`
}
