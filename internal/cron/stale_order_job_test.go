package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hamnakhalid/kitchenia-backend/pkg/db/models"
	"github.com/hamnakhalid/kitchenia-backend/pkg/enums"
)

type fakeOpenOrderReader struct {
	orders  []models.Order
	err     error
	cutoffs []time.Time
}

func (f *fakeOpenOrderReader) FindOpenOrdersBefore(ctx context.Context, cutoff time.Time) ([]models.Order, error) {
	f.cutoffs = append(f.cutoffs, cutoff)
	if f.err != nil {
		return nil, f.err
	}
	return f.orders, nil
}

func trackingNumber(value string) *string { return &value }

func TestStaleOrderJobRunCompletes(t *testing.T) {
	now := time.Now().UTC()
	reader := &fakeOpenOrderReader{orders: []models.Order{
		{ID: uuid.New(), OrderCode: "CK-1001", Status: enums.OrderStatusPreparing, CreatedAt: now.Add(-3 * time.Hour)},
		{ID: uuid.New(), OrderCode: "CK-1002", Status: enums.OrderStatusShipped, CreatedAt: now.Add(-3 * time.Hour)},
		{ID: uuid.New(), OrderCode: "CK-1003", Status: enums.OrderStatusShipped, TrackingNumber: trackingNumber("TCS-99"), CreatedAt: now.Add(-3 * time.Hour)},
	}}
	job, err := NewStaleOrderJob(StaleOrderJobParams{
		Logger:     testLogger(),
		Reader:     reader,
		StaleAfter: 2 * time.Hour,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	if job.Name() != "stale-orders" {
		t.Fatalf("unexpected job name %q", job.Name())
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(reader.cutoffs) != 2 {
		t.Fatalf("expected two sweeps, got %d", len(reader.cutoffs))
	}
	for _, cutoff := range reader.cutoffs {
		age := time.Since(cutoff)
		if age < 2*time.Hour || age > 2*time.Hour+time.Minute {
			t.Fatalf("cutoff %v not ~2h in the past", cutoff)
		}
	}
}

func TestStaleOrderJobAggregatesSweepErrors(t *testing.T) {
	reader := &fakeOpenOrderReader{err: errors.New("db unavailable")}
	job, err := NewStaleOrderJob(StaleOrderJobParams{
		Logger: testLogger(),
		Reader: reader,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	runErr := job.Run(context.Background())
	if runErr == nil {
		t.Fatal("expected aggregated error")
	}
	if len(reader.cutoffs) != 2 {
		t.Fatalf("a failing sweep must not stop the other, got %d sweeps", len(reader.cutoffs))
	}
}

func TestNewStaleOrderJobRequiresReader(t *testing.T) {
	if _, err := NewStaleOrderJob(StaleOrderJobParams{Logger: testLogger()}); err == nil {
		t.Fatal("expected error without reader")
	}
}
