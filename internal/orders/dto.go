package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/hamnakhalid/kitchenia-backend/pkg/db/models"
	"github.com/hamnakhalid/kitchenia-backend/pkg/enums"
)

// ListFilters describe the inputs supported by the admin orders list.
type ListFilters struct {
	Status   *enums.OrderStatus
	DateFrom *time.Time
	DateTo   *time.Time
	Query    string
}

// OrderSummary exposes the aggregated fields returned in the admin list.
type OrderSummary struct {
	ID            uuid.UUID           `json:"id"`
	OrderCode     string              `json:"order_code"`
	Name          string              `json:"name"`
	Phone         string              `json:"phone"`
	Status        enums.OrderStatus   `json:"status"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	TotalAmount   int                 `json:"total_amount"`
	TotalItems    int                 `json:"total_items"`
	CreatedAt     time.Time           `json:"created_at"`
}

// OrderList wraps the paginated orders plus the next page cursor.
type OrderList struct {
	Orders     []OrderSummary `json:"orders"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// OrderDetail bundles an order with its line items and full status ledger.
// History is sorted newest first.
type OrderDetail struct {
	Order   models.Order                `json:"order"`
	Items   []models.OrderItem          `json:"items"`
	History []models.OrderStatusHistory `json:"history"`
}
