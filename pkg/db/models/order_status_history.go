package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/hamnakhalid/kitchenia-backend/pkg/enums"
)

// OrderStatusHistory is one entry in an order's append-only status ledger.
// Entries are never updated or deleted; the order's current status is always
// the entry with the greatest StatusTimestamp.
type OrderStatusHistory struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID         uuid.UUID         `gorm:"column:order_id;type:uuid;not null;index" json:"order_id"`
	Status          enums.OrderStatus `gorm:"column:status;not null" json:"status"`
	StatusTimestamp time.Time         `gorm:"column:status_timestamp;not null" json:"status_timestamp"`
	Notes           *string           `gorm:"column:notes" json:"notes,omitempty"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName overrides the default pluralization.
func (OrderStatusHistory) TableName() string {
	return "order_status_history"
}
