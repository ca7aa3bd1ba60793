package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/hamnakhalid/kitchenia-backend/pkg/db/models"
	"github.com/hamnakhalid/kitchenia-backend/pkg/logger"
)

// openOrderReader is the slice of the orders repository the job needs.
type openOrderReader interface {
	FindOpenOrdersBefore(ctx context.Context, cutoff time.Time) ([]models.Order, error)
}

// StaleOrderJobParams configure the stale order report.
type StaleOrderJobParams struct {
	Logger     *logger.Logger
	Reader     openOrderReader
	StaleAfter time.Duration
}

const defaultStaleAfter = 2 * time.Hour

// NewStaleOrderJob builds the job that flags orders stuck in a non-final
// status. It only reports; status changes stay with the back office.
func NewStaleOrderJob(params StaleOrderJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Reader == nil {
		return nil, fmt.Errorf("open orders reader required")
	}
	staleAfter := params.StaleAfter
	if staleAfter <= 0 {
		staleAfter = defaultStaleAfter
	}
	return &staleOrderJob{
		logg:       params.Logger,
		reader:     params.Reader,
		staleAfter: staleAfter,
		now:        time.Now,
	}, nil
}

type staleOrderJob struct {
	logg       *logger.Logger
	reader     openOrderReader
	staleAfter time.Duration
	now        func() time.Time
}

func (j *staleOrderJob) Name() string { return "stale-orders" }

func (j *staleOrderJob) Run(ctx context.Context) error {
	var errs []error
	if err := j.reportStaleKitchenOrders(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := j.reportShippedWithoutTracking(ctx); err != nil {
		errs = append(errs, err)
	}
	return multierr.Combine(errs...)
}

// reportStaleKitchenOrders flags orders that never left the kitchen stages
// within the configured window.
func (j *staleOrderJob) reportStaleKitchenOrders(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.staleAfter)
	open, err := j.reader.FindOpenOrdersBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("query stale open orders: %w", err)
	}
	count := 0
	for _, order := range open {
		if !order.Status.IsEarlyStage() {
			continue
		}
		logCtx := j.logg.WithFields(ctx, map[string]any{
			"order_code": order.OrderCode,
			"status":     order.Status.String(),
			"age":        j.now().UTC().Sub(order.CreatedAt).Round(time.Minute).String(),
		})
		j.logg.Warn(logCtx, "order stuck in kitchen stage")
		count++
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{"count": count})
	j.logg.Info(logCtx, "stale kitchen order sweep complete")
	return nil
}

// reportShippedWithoutTracking flags shipped orders that carry no tracking
// number, which usually means the courier handoff was recorded by hand.
func (j *staleOrderJob) reportShippedWithoutTracking(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.staleAfter)
	open, err := j.reader.FindOpenOrdersBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("query shipped orders: %w", err)
	}
	count := 0
	for _, order := range open {
		if order.Status.IsEarlyStage() {
			continue
		}
		if order.TrackingNumber != nil && *order.TrackingNumber != "" {
			continue
		}
		logCtx := j.logg.WithFields(ctx, map[string]any{
			"order_code": order.OrderCode,
			"status":     order.Status.String(),
		})
		j.logg.Warn(logCtx, "shipped order has no tracking number")
		count++
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{"count": count})
	j.logg.Info(logCtx, "missing tracking sweep complete")
	return nil
}
