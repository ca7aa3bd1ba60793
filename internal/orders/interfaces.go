package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hamnakhalid/kitchenia-backend/pkg/db/models"
	"github.com/hamnakhalid/kitchenia-backend/pkg/enums"
	"github.com/hamnakhalid/kitchenia-backend/pkg/pagination"
)

// Repository defines persistence operations for the order tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateOrderItems(ctx context.Context, items []models.OrderItem) error
	AppendHistory(ctx context.Context, entry *models.OrderStatusHistory) error
	UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error
	FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	FindByIdentifier(ctx context.Context, identifier string) (*models.Order, error)
	FindLatestOrder(ctx context.Context) (*models.Order, error)
	FindItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error)
	ListHistory(ctx context.Context, orderID uuid.UUID) ([]models.OrderStatusHistory, error)
	GetStatus(ctx context.Context, orderID uuid.UUID) (enums.OrderStatus, error)
	FindOpenOrdersBefore(ctx context.Context, cutoff time.Time) ([]models.Order, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderList, error)
}
