package menu

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hamnakhalid/kitchenia-backend/pkg/db/models"
	pkgerrors "github.com/hamnakhalid/kitchenia-backend/pkg/errors"
)

func setupMenuTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS menu_items (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT,
  price INTEGER NOT NULL,
  image_url TEXT,
  category TEXT NOT NULL,
  active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(ddl).Error)
	require.NoError(t, db.Exec("DELETE FROM menu_items").Error)
	return db
}

func newMenuService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(NewRepository(setupMenuTestDB(t)))
	require.NoError(t, err)
	return svc
}

func TestCreateAndGetMenuItem(t *testing.T) {
	svc := newMenuService(t)
	ctx := context.Background()

	desc := "Slow-cooked chicken in tomato gravy"
	item, err := svc.Create(ctx, CreateItemInput{
		Name:        "Chicken Karahi",
		Description: &desc,
		Price:       350,
		Category:    "Mains",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, item.ID)
	assert.True(t, item.Active)

	found, err := svc.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Chicken Karahi", found.Name)
	assert.Equal(t, 350, found.Price)
}

func TestCreateMenuItemValidation(t *testing.T) {
	svc := newMenuService(t)

	_, err := svc.Create(context.Background(), CreateItemInput{Price: -10})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	assert.Contains(t, details, "name")
	assert.Contains(t, details, "category")
	assert.Contains(t, details, "price")
}

func TestListActiveExcludesInactive(t *testing.T) {
	svc := newMenuService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateItemInput{Name: "Chicken Karahi", Price: 350, Category: "Mains"})
	require.NoError(t, err)

	inactive := false
	_, err = svc.Create(ctx, CreateItemInput{Name: "Seasonal Special", Price: 500, Category: "Mains", Active: &inactive})
	require.NoError(t, err)

	active, err := svc.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Chicken Karahi", active[0].Name)

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestUpdateMenuItem(t *testing.T) {
	svc := newMenuService(t)
	ctx := context.Background()

	item, err := svc.Create(ctx, CreateItemInput{Name: "Naan", Price: 40, Category: "Breads"})
	require.NoError(t, err)

	price := 50
	updated, err := svc.Update(ctx, item.ID, UpdateItemInput{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 50, updated.Price)
	assert.Equal(t, "Naan", updated.Name)

	_, err = svc.Update(ctx, uuid.New(), UpdateItemInput{Price: &price})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	_, err = svc.Update(ctx, item.ID, UpdateItemInput{})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestDeleteMenuItemLeavesOrderSnapshots(t *testing.T) {
	db := setupMenuTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	ctx := context.Background()

	item := &models.MenuItem{
		ID:        uuid.New(),
		Name:      "Biryani",
		Price:     300,
		Category:  "Mains",
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, db.Create(item).Error)

	require.NoError(t, svc.Delete(ctx, item.ID))

	_, err = svc.Get(ctx, item.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	err = svc.Delete(ctx, item.ID)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
