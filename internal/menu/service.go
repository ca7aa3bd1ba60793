package menu

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hamnakhalid/kitchenia-backend/pkg/db/models"
	pkgerrors "github.com/hamnakhalid/kitchenia-backend/pkg/errors"
)

// Service exposes the menu catalog to the storefront and the back office.
type Service interface {
	ListActive(ctx context.Context) ([]models.MenuItem, error)
	Get(ctx context.Context, itemID uuid.UUID) (*models.MenuItem, error)
	ListAll(ctx context.Context) ([]models.MenuItem, error)
	Create(ctx context.Context, input CreateItemInput) (*models.MenuItem, error)
	Update(ctx context.Context, itemID uuid.UUID, input UpdateItemInput) (*models.MenuItem, error)
	Delete(ctx context.Context, itemID uuid.UUID) error
}

// CreateItemInput carries the fields for a new menu item.
type CreateItemInput struct {
	Name        string
	Description *string
	Price       int
	ImageURL    *string
	Category    string
	Active      *bool
}

// UpdateItemInput carries optional field updates; nil leaves a field alone.
type UpdateItemInput struct {
	Name        *string
	Description *string
	Price       *int
	ImageURL    *string
	Category    *string
	Active      *bool
}

type service struct {
	repo Repository
}

// NewService builds the menu service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("menu repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListActive(ctx context.Context) ([]models.MenuItem, error) {
	items, err := s.repo.List(ctx, true)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list menu items")
	}
	return items, nil
}

func (s *service) Get(ctx context.Context, itemID uuid.UUID) (*models.MenuItem, error) {
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "menu item id required")
	}
	item, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load menu item")
	}
	return item, nil
}

func (s *service) ListAll(ctx context.Context) ([]models.MenuItem, error) {
	items, err := s.repo.List(ctx, false)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list menu items")
	}
	return items, nil
}

func (s *service) Create(ctx context.Context, input CreateItemInput) (*models.MenuItem, error) {
	details := map[string]string{}
	if strings.TrimSpace(input.Name) == "" {
		details["name"] = "required"
	}
	if strings.TrimSpace(input.Category) == "" {
		details["category"] = "required"
	}
	if input.Price < 0 {
		details["price"] = "must not be negative"
	}
	if len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid menu item").WithDetails(details)
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}
	item := &models.MenuItem{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Price:       input.Price,
		ImageURL:    input.ImageURL,
		Category:    strings.TrimSpace(input.Category),
		Active:      active,
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}

	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create menu item")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, itemID uuid.UUID, input UpdateItemInput) (*models.MenuItem, error) {
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "menu item id required")
	}

	updates := map[string]any{}
	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name must not be empty")
		}
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
		}
		updates["price"] = *input.Price
	}
	if input.ImageURL != nil {
		updates["image_url"] = *input.ImageURL
	}
	if input.Category != nil {
		if strings.TrimSpace(*input.Category) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category must not be empty")
		}
		updates["category"] = strings.TrimSpace(*input.Category)
	}
	if input.Active != nil {
		updates["active"] = *input.Active
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	affected, err := s.repo.Update(ctx, itemID, updates)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update menu item")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
	}
	return s.Get(ctx, itemID)
}

// Delete removes a catalog row. Historical orders keep their snapshots, so
// this never touches order data.
func (s *service) Delete(ctx context.Context, itemID uuid.UUID) error {
	if itemID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "menu item id required")
	}
	affected, err := s.repo.Delete(ctx, itemID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete menu item")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
	}
	return nil
}
