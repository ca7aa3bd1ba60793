package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderItem snapshots one cart entry at submission time. Name and price are
// copies, not references: renaming or deleting the menu item later never
// rewrites order history. Rows are immutable after creation.
type OrderItem struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID   uuid.UUID `gorm:"column:order_id;type:uuid;not null" json:"order_id"`
	ItemID    uuid.UUID `gorm:"column:item_id;type:uuid;not null" json:"item_id"`
	ItemName  string    `gorm:"column:item_name;not null" json:"item_name"`
	Price     int       `gorm:"column:price;not null" json:"price"`
	Quantity  int       `gorm:"column:quantity;not null" json:"quantity"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName overrides the default pluralization.
func (OrderItem) TableName() string {
	return "order_items"
}
