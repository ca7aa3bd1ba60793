package models

import (
	"time"

	"github.com/google/uuid"
)

// MenuItem is a catalog entry customers can order. Prices are whole rupees.
type MenuItem struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string    `gorm:"column:name;not null" json:"name"`
	Description *string   `gorm:"column:description" json:"description,omitempty"`
	Price       int       `gorm:"column:price;not null" json:"price"`
	ImageURL    *string   `gorm:"column:image_url" json:"image_url,omitempty"`
	Category    string    `gorm:"column:category;not null" json:"category"`
	Active      bool      `gorm:"column:active;not null;default:true" json:"active"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName overrides the default pluralization.
func (MenuItem) TableName() string {
	return "menu_items"
}
