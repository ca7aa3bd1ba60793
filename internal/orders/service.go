package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hamnakhalid/kitchenia-backend/pkg/db/models"
	"github.com/hamnakhalid/kitchenia-backend/pkg/enums"
	pkgerrors "github.com/hamnakhalid/kitchenia-backend/pkg/errors"
	"github.com/hamnakhalid/kitchenia-backend/pkg/events"
	"github.com/hamnakhalid/kitchenia-backend/pkg/metrics"
	"github.com/hamnakhalid/kitchenia-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type eventEmitter interface {
	Emit(ctx context.Context, event events.OrderEvent) error
}

// Service defines order lifecycle operations beyond repository reads.
type Service interface {
	Find(ctx context.Context, identifier string) (*OrderDetail, error)
	GetStatus(ctx context.Context, orderID uuid.UUID) (enums.OrderStatus, error)
	AppendStatus(ctx context.Context, input AppendStatusInput) (*models.Order, error)
	SetTrackingInfo(ctx context.Context, input TrackingInput) (*models.Order, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderList, error)
}

type service struct {
	repo    Repository
	tx      txRunner
	emitter eventEmitter
	metrics *metrics.OrderMetrics
	now     func() time.Time
}

// AppendStatusInput captures a single ledger append.
type AppendStatusInput struct {
	OrderID uuid.UUID
	Status  enums.OrderStatus
	Notes   *string
}

// TrackingInput carries courier details attached by the back office.
type TrackingInput struct {
	OrderID         uuid.UUID
	TrackingNumber  string
	ShipmentCarrier *string
	TrackingURL     *string
}

// NewService builds an order service. The emitter may be nil, in which case
// lifecycle changes are observable only through polling.
func NewService(repo Repository, tx txRunner, emitter eventEmitter, orderMetrics *metrics.OrderMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:    repo,
		tx:      tx,
		emitter: emitter,
		metrics: orderMetrics,
		now:     time.Now,
	}, nil
}

func (s *service) Find(ctx context.Context, identifier string) (*OrderDetail, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order identifier required")
	}

	order, err := s.repo.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	items, err := s.repo.FindItemsByOrder(ctx, order.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order items")
	}
	history, err := s.repo.ListHistory(ctx, order.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load status history")
	}

	return &OrderDetail{Order: *order, Items: items, History: history}, nil
}

func (s *service) GetStatus(ctx context.Context, orderID uuid.UUID) (enums.OrderStatus, error) {
	if orderID == uuid.Nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	status, err := s.repo.GetStatus(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order status")
	}
	return status, nil
}

func (s *service) AppendStatus(ctx context.Context, input AppendStatusInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	var order *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		loaded, err := repo.FindByID(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		order = loaded

		// Transitions are not validated: every append lands in the ledger,
		// even a repeat of the current status or a write after delivery.
		return appendEntry(ctx, repo, order, input.Status, s.now(), input.Notes)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncStatusChange(input.Status.String())
	s.emitStatusChanged(ctx, order)
	return order, nil
}

func (s *service) SetTrackingInfo(ctx context.Context, input TrackingInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	trackingNumber := strings.TrimSpace(input.TrackingNumber)

	updates := map[string]any{}
	if trackingNumber != "" {
		updates["tracking_number"] = trackingNumber
	}
	if input.ShipmentCarrier != nil {
		updates["shipment_carrier"] = *input.ShipmentCarrier
	}
	if input.TrackingURL != nil {
		updates["tracking_url"] = *input.TrackingURL
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no tracking fields provided")
	}

	var order *models.Order
	advanced := false
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		loaded, err := repo.FindByID(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		order = loaded

		hadTracking := order.TrackingNumber != nil && strings.TrimSpace(*order.TrackingNumber) != ""

		if err := repo.UpdateOrder(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update tracking info")
		}
		if trackingNumber != "" {
			order.TrackingNumber = &trackingNumber
		}
		if input.ShipmentCarrier != nil {
			order.ShipmentCarrier = input.ShipmentCarrier
		}
		if input.TrackingURL != nil {
			order.TrackingURL = input.TrackingURL
		}

		// First tracking number on an order still in the kitchen means it
		// just left: record the shipped transition in the same commit.
		if trackingNumber != "" && !hadTracking && order.Status.IsEarlyStage() {
			notes := "Tracking information added"
			if err := appendEntry(ctx, repo, order, enums.OrderStatusShipped, s.now(), &notes); err != nil {
				return err
			}
			advanced = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if advanced {
		s.metrics.IncStatusChange(enums.OrderStatusShipped.String())
		s.emitStatusChanged(ctx, order)
	}
	return order, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderList, error) {
	list, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return list, nil
}

// appendEntry writes the ledger row and mirrors the new status onto the order
// row inside the caller's transaction.
func appendEntry(ctx context.Context, repo Repository, order *models.Order, status enums.OrderStatus, at time.Time, notes *string) error {
	entry := &models.OrderStatusHistory{
		OrderID:         order.ID,
		Status:          status,
		StatusTimestamp: at,
		Notes:           notes,
	}
	if err := repo.AppendHistory(ctx, entry); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append status history")
	}
	if err := repo.UpdateOrder(ctx, order.ID, map[string]any{"status": status}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	order.Status = status
	return nil
}

func (s *service) emitStatusChanged(ctx context.Context, order *models.Order) {
	if s.emitter == nil || order == nil {
		return
	}
	event := events.NewOrderEvent(events.TypeOrderStatusChanged, order.ID, order.OrderCode, order.Status)
	// Best effort: the ledger is already committed, pollers will catch up.
	_ = s.emitter.Emit(ctx, event)
}
