package menu

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hamnakhalid/kitchenia-backend/pkg/db/models"
)

// Repository defines persistence operations for the menu catalog.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, item *models.MenuItem) (*models.MenuItem, error)
	Update(ctx context.Context, itemID uuid.UUID, updates map[string]any) (int64, error)
	Delete(ctx context.Context, itemID uuid.UUID) (int64, error)
	FindByID(ctx context.Context, itemID uuid.UUID) (*models.MenuItem, error)
	List(ctx context.Context, activeOnly bool) ([]models.MenuItem, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a menu repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, item *models.MenuItem) (*models.MenuItem, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *repository) Update(ctx context.Context, itemID uuid.UUID, updates map[string]any) (int64, error) {
	if len(updates) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Model(&models.MenuItem{}).
		Where("id = ?", itemID).
		Updates(updates)
	return result.RowsAffected, result.Error
}

func (r *repository) Delete(ctx context.Context, itemID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ?", itemID).
		Delete(&models.MenuItem{})
	return result.RowsAffected, result.Error
}

func (r *repository) FindByID(ctx context.Context, itemID uuid.UUID) (*models.MenuItem, error) {
	var item models.MenuItem
	err := r.db.WithContext(ctx).
		Where("id = ?", itemID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) List(ctx context.Context, activeOnly bool) ([]models.MenuItem, error) {
	query := r.db.WithContext(ctx).Model(&models.MenuItem{})
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	var items []models.MenuItem
	if err := query.Order("category ASC, name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
