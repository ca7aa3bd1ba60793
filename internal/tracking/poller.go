// Package tracking turns the cheap order-status read into a change feed.
// The poller re-reads the status column on a fixed cadence and only pays
// for the full order detail when the status actually moved, so customers
// without a push channel still see timely updates.
package tracking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hamnakhalid/kitchenia-backend/internal/orders"
	"github.com/hamnakhalid/kitchenia-backend/pkg/enums"
	"github.com/hamnakhalid/kitchenia-backend/pkg/logger"
)

const defaultPollInterval = 15 * time.Second

// statusReader is the slice of the orders service the poller needs.
type statusReader interface {
	GetStatus(ctx context.Context, orderID uuid.UUID) (enums.OrderStatus, error)
	Find(ctx context.Context, identifier string) (*orders.OrderDetail, error)
}

// ChangeFunc receives the refreshed order detail after a status change.
type ChangeFunc func(ctx context.Context, detail *orders.OrderDetail)

// Poller watches a single order until it reaches a terminal status or the
// watch context is canceled.
type Poller struct {
	reader   statusReader
	logg     *logger.Logger
	interval time.Duration
}

// NewPoller builds a poller. The logger may be nil.
func NewPoller(reader statusReader, logg *logger.Logger, interval time.Duration) (*Poller, error) {
	if reader == nil {
		return nil, fmt.Errorf("order status reader required")
	}
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Poller{reader: reader, logg: logg, interval: interval}, nil
}

// Watch blocks, polling the order status every interval. On each change it
// fetches the full detail and invokes onChange. It returns nil once the
// order reaches a terminal status, or the context error on cancellation.
// Transient read failures are logged and retried on the next tick.
func (p *Poller) Watch(ctx context.Context, orderID uuid.UUID, onChange ChangeFunc) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if orderID == uuid.Nil {
		return fmt.Errorf("order id required")
	}

	last, err := p.reader.GetStatus(ctx, orderID)
	if err != nil {
		return fmt.Errorf("initial status read: %w", err)
	}
	if last.IsTerminal() {
		return nil
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			current, err := p.reader.GetStatus(ctx, orderID)
			if err != nil {
				p.logError(ctx, orderID, "status poll failed", err)
				continue
			}
			if current == last {
				continue
			}
			last = current
			p.notify(ctx, orderID, onChange)
			if current.IsTerminal() {
				return nil
			}
		}
	}
}

func (p *Poller) notify(ctx context.Context, orderID uuid.UUID, onChange ChangeFunc) {
	if onChange == nil {
		return
	}
	detail, err := p.reader.Find(ctx, orderID.String())
	if err != nil {
		p.logError(ctx, orderID, "refresh after status change failed", err)
		return
	}
	onChange(ctx, detail)
}

func (p *Poller) logError(ctx context.Context, orderID uuid.UUID, msg string, err error) {
	if p.logg == nil {
		return
	}
	p.logg.Error(p.logg.WithOrderID(ctx, orderID.String()), msg, err)
}
