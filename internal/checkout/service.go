package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hamnakhalid/kitchenia-backend/internal/cart"
	"github.com/hamnakhalid/kitchenia-backend/internal/orders"
	"github.com/hamnakhalid/kitchenia-backend/pkg/config"
	"github.com/hamnakhalid/kitchenia-backend/pkg/db"
	"github.com/hamnakhalid/kitchenia-backend/pkg/db/models"
	"github.com/hamnakhalid/kitchenia-backend/pkg/enums"
	pkgerrors "github.com/hamnakhalid/kitchenia-backend/pkg/errors"
	"github.com/hamnakhalid/kitchenia-backend/pkg/events"
	"github.com/hamnakhalid/kitchenia-backend/pkg/logger"
	"github.com/hamnakhalid/kitchenia-backend/pkg/metrics"
)

const initialStatusNote = "Order received"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartStore interface {
	List(ctx context.Context, cartID string) (cart.Snapshot, error)
	Clear(ctx context.Context, cartID string) error
}

type eventEmitter interface {
	Emit(ctx context.Context, event events.OrderEvent) error
}

// Service drains a cart into a persisted order.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*OrderConfirmation, error)
}

// SubmitInput carries the customer-supplied checkout fields.
type SubmitInput struct {
	CartID        string
	Name          string
	Phone         string
	Address       string
	Notes         *string
	PaymentMethod string
}

// OrderConfirmation is returned to the storefront after a successful submission.
type OrderConfirmation struct {
	Order models.Order       `json:"order"`
	Items []models.OrderItem `json:"items"`
}

type service struct {
	repo    orders.Repository
	tx      txRunner
	carts   cartStore
	emitter eventEmitter
	metrics *metrics.OrderMetrics
	logg    *logger.Logger
	cfg     config.CheckoutConfig
	now     func() time.Time
}

// NewService builds the checkout service. The emitter may be nil.
func NewService(
	repo orders.Repository,
	tx txRunner,
	carts cartStore,
	emitter eventEmitter,
	orderMetrics *metrics.OrderMetrics,
	logg *logger.Logger,
	cfg config.CheckoutConfig,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if cfg.OrderCodePrefix == "" {
		cfg.OrderCodePrefix = "CK"
	}
	if cfg.OrderCodeStart <= 0 {
		cfg.OrderCodeStart = 1001
	}
	if cfg.DeliveryWindow <= 0 {
		cfg.DeliveryWindow = 45 * time.Minute
	}
	return &service{
		repo:    repo,
		tx:      tx,
		carts:   carts,
		emitter: emitter,
		metrics: orderMetrics,
		logg:    logg,
		cfg:     cfg,
		now:     time.Now,
	}, nil
}

func (s *service) Submit(ctx context.Context, input SubmitInput) (*OrderConfirmation, error) {
	started := s.now()

	method, snapshot, err := s.validate(ctx, input)
	if err != nil {
		s.metrics.IncSubmitFailure()
		return nil, err
	}

	order, items, err := s.persist(ctx, input, method, snapshot)
	if err != nil {
		s.metrics.IncSubmitFailure()
		return nil, err
	}

	s.metrics.IncSubmitted(method.String())
	s.metrics.ObserveCheckout(s.now().Sub(started))

	// The order is committed; a cart that refuses to clear only costs the
	// customer a stale badge, so it must not fail the submission.
	if err := s.carts.Clear(ctx, input.CartID); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithCartID(ctx, input.CartID), "clearing cart after checkout failed")
	}

	if s.emitter != nil {
		event := events.NewOrderEvent(events.TypeOrderCreated, order.ID, order.OrderCode, order.Status)
		_ = s.emitter.Emit(ctx, event)
	}

	return &OrderConfirmation{Order: *order, Items: items}, nil
}

func (s *service) validate(ctx context.Context, input SubmitInput) (enums.PaymentMethod, cart.Snapshot, error) {
	details := map[string]string{}
	if strings.TrimSpace(input.Name) == "" {
		details["name"] = "required"
	}
	if strings.TrimSpace(input.Phone) == "" {
		details["phone"] = "required"
	}
	if strings.TrimSpace(input.Address) == "" {
		details["address"] = "required"
	}

	method, methodErr := enums.ParsePaymentMethod(input.PaymentMethod)
	if methodErr != nil {
		details["payment_method"] = "unknown payment method"
	}

	if strings.TrimSpace(input.CartID) == "" {
		details["cart_id"] = "required"
	}
	if len(details) > 0 {
		return "", cart.Snapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid checkout request").WithDetails(details)
	}

	snapshot, err := s.carts.List(ctx, input.CartID)
	if err != nil {
		return "", cart.Snapshot{}, err
	}
	if len(snapshot.Entries) == 0 {
		return "", cart.Snapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty").
			WithDetails(map[string]string{"cart": "must contain at least one item"})
	}
	return method, snapshot, nil
}

// persist runs the three inserts in one transaction so a failed step leaves
// no half-written order behind.
func (s *service) persist(ctx context.Context, input SubmitInput, method enums.PaymentMethod, snapshot cart.Snapshot) (*models.Order, []models.OrderItem, error) {
	now := s.now()

	var order *models.Order
	var items []models.OrderItem
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		lastCode := ""
		latest, err := repo.FindLatestOrder(ctx)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load latest order")
		}
		if latest != nil {
			lastCode = latest.OrderCode
		}

		order = &models.Order{
			ID:                    uuid.New(),
			OrderCode:             nextOrderCode(lastCode, s.cfg.OrderCodePrefix, s.cfg.OrderCodeStart),
			Name:                  strings.TrimSpace(input.Name),
			Phone:                 strings.TrimSpace(input.Phone),
			Address:               strings.TrimSpace(input.Address),
			Notes:                 input.Notes,
			PaymentMethod:         method,
			Status:                enums.OrderStatusInitial,
			TotalAmount:           snapshot.TotalValue(),
			EstimatedDeliveryTime: deliveryWindow(now, s.cfg.DeliveryWindow),
			CreatedAt:             now,
			UpdatedAt:             now,
		}
		if _, err := repo.CreateOrder(ctx, order); err != nil {
			// Lost the order-code race against a concurrent submission.
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "order code already taken, retry checkout")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		items = make([]models.OrderItem, 0, len(snapshot.Entries))
		for _, entry := range snapshot.Entries {
			items = append(items, models.OrderItem{
				ID:       uuid.New(),
				OrderID:  order.ID,
				ItemID:   entry.ItemID,
				ItemName: entry.Name,
				Price:    entry.Price,
				Quantity: entry.Quantity,
			})
		}
		if err := repo.CreateOrderItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order items")
		}

		note := initialStatusNote
		entry := &models.OrderStatusHistory{
			ID:              uuid.New(),
			OrderID:         order.ID,
			Status:          enums.OrderStatusInitial,
			StatusTimestamp: now,
			Notes:           &note,
		}
		if err := repo.AppendHistory(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append initial status")
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return order, items, nil
}
