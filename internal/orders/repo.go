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

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) AppendHistory(ctx context.Context, entry *models.OrderStatusHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(updates).Error
}

func (r *repository) FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByIdentifier resolves the customer-facing lookup: a raw order id, an
// order code, or a courier tracking number all land on the same order.
func (r *repository) FindByIdentifier(ctx context.Context, identifier string) (*models.Order, error) {
	query := r.db.WithContext(ctx)
	if id, err := uuid.Parse(identifier); err == nil {
		query = query.Where("id = ? OR tracking_number = ?", id, identifier)
	} else {
		query = query.Where("order_code = ? OR tracking_number = ?", identifier, identifier)
	}

	var order models.Order
	if err := query.First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindLatestOrder(ctx context.Context) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) ListHistory(ctx context.Context, orderID uuid.UUID) ([]models.OrderStatusHistory, error) {
	var entries []models.OrderStatusHistory
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("status_timestamp DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) GetStatus(ctx context.Context, orderID uuid.UUID) (enums.OrderStatus, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Select("status").
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		return "", err
	}
	return order.Status, nil
}

func (r *repository) FindOpenOrdersBefore(ctx context.Context, cutoff time.Time) ([]models.Order, error) {
	var stale []models.Order
	err := r.db.WithContext(ctx).
		Where("status NOT IN ?", []enums.OrderStatus{enums.OrderStatusDelivered, enums.OrderStatusCancelled}).
		Where("created_at < ?", cutoff).
		Order("created_at ASC").
		Find(&stale).Error
	if err != nil {
		return nil, err
	}
	return stale, nil
}

func (r *repository) List(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderList, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).Model(&models.Order{})
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}
	if filters.Query != "" {
		pattern := "%" + filters.Query + "%"
		query = query.Where("order_code LIKE ? OR phone LIKE ? OR name LIKE ?", pattern, pattern, pattern)
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Order
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}

	nextCursor := ""
	if len(rows) > normalized {
		next := rows[normalized]
		rows = rows[:normalized]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID})
	}

	counts, err := r.itemCounts(ctx, rows)
	if err != nil {
		return nil, err
	}

	summaries := make([]OrderSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, OrderSummary{
			ID:            row.ID,
			OrderCode:     row.OrderCode,
			Name:          row.Name,
			Phone:         row.Phone,
			Status:        row.Status,
			PaymentMethod: row.PaymentMethod,
			TotalAmount:   row.TotalAmount,
			TotalItems:    counts[row.ID],
			CreatedAt:     row.CreatedAt,
		})
	}
	return &OrderList{Orders: summaries, NextCursor: nextCursor}, nil
}

func (r *repository) itemCounts(ctx context.Context, rows []models.Order) (map[uuid.UUID]int, error) {
	counts := make(map[uuid.UUID]int, len(rows))
	if len(rows) == 0 {
		return counts, nil
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}

	type itemCount struct {
		OrderID uuid.UUID
		Total   int
	}
	var results []itemCount
	err := r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Select("order_id, COALESCE(SUM(quantity), 0) AS total").
		Where("order_id IN ?", ids).
		Group("order_id").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	for _, result := range results {
		counts[result.OrderID] = result.Total
	}
	return counts, nil
}
