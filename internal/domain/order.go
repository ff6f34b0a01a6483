package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// String representation (for logging)
func (s OrderStatus) String() string {
	return string(s)
}

// Order is an immutable snapshot of a cart taken at checkout time
type Order struct {
	ID       string      `json:"id"`
	Items    []LineItem  `json:"items"`
	Total    float64     `json:"total"`
	PlacedAt time.Time   `json:"placed_at"`
	Status   OrderStatus `json:"status"`
}

// ItemCount returns the number of units in the order
func (o Order) ItemCount() int {
	return ItemCount(o.Items)
}
