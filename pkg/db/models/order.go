package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/hamnakhalid/kitchenia-backend/pkg/enums"
)

// Order is a submitted customer order. The status column is denormalized:
// it always mirrors the newest order_status_history row, and the two are
// written in one transaction.
type Order struct {
	ID                    uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderCode             string               `gorm:"column:order_code;not null;uniqueIndex" json:"order_code"`
	Name                  string               `gorm:"column:name;not null" json:"name"`
	Phone                 string               `gorm:"column:phone;not null" json:"phone"`
	Address               string               `gorm:"column:address;not null" json:"address"`
	Notes                 *string              `gorm:"column:notes" json:"notes,omitempty"`
	PaymentMethod         enums.PaymentMethod  `gorm:"column:payment_method;type:text;not null;default:'cod'" json:"payment_method"`
	Status                enums.OrderStatus    `gorm:"column:status;type:text;not null;default:'preparing'" json:"status"`
	TotalAmount           int                  `gorm:"column:total_amount;not null" json:"total_amount"`
	EstimatedDeliveryTime string               `gorm:"column:estimated_delivery_time;not null" json:"estimated_delivery_time"`
	TrackingNumber        *string              `gorm:"column:tracking_number" json:"tracking_number,omitempty"`
	ShipmentCarrier       *string              `gorm:"column:shipment_carrier" json:"shipment_carrier,omitempty"`
	TrackingURL           *string              `gorm:"column:tracking_url" json:"tracking_url,omitempty"`
	Items                 []OrderItem          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items,omitempty"`
	StatusHistory         []OrderStatusHistory `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"status_history,omitempty"`
	CreatedAt             time.Time            `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time            `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName overrides the default pluralization.
func (Order) TableName() string {
	return "orders"
}
