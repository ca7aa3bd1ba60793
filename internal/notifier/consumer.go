// Package notifier consumes order events from Pub/Sub and surfaces them
// as structured notification logs for the back office. Delivery is at
// least once, so consumed event ids are marked in Redis and replays are
// dropped.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"

	"github.com/hamnakhalid/kitchenia-backend/pkg/events"
	"github.com/hamnakhalid/kitchenia-backend/pkg/logger"
)

const dedupeTTL = 24 * time.Hour

// dedupeStore marks consumed event ids. Satisfied by pkg/redis.Client.
type dedupeStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	NotifiedEventKey(eventID string) string
}

// Consumer drains the order-events subscription.
type Consumer struct {
	subscription *pubsub.Subscriber
	dedupe       dedupeStore
	logg         *logger.Logger
}

// NewConsumer builds an order notification consumer.
func NewConsumer(subscription *pubsub.Subscriber, dedupe dedupeStore, logg *logger.Logger) (*Consumer, error) {
	if subscription == nil {
		return nil, fmt.Errorf("orders subscription required")
	}
	if dedupe == nil {
		return nil, fmt.Errorf("dedupe store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{subscription: subscription, dedupe: dedupe, logg: logg}, nil
}

// Run starts the receive loop until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		result := c.process(ctx, msg)
		if result.nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

type processResult struct {
	ack  bool
	nack bool
}

func (c *Consumer) process(ctx context.Context, msg *pubsub.Message) processResult {
	eventType := msg.Attributes["event_type"]
	logCtx := c.logg.WithFields(ctx, map[string]any{
		"message_id": msg.ID,
		"event_type": eventType,
	})

	switch events.Type(eventType) {
	case events.TypeOrderCreated, events.TypeOrderStatusChanged:
	default:
		c.logg.Info(logCtx, "skipping unrecognized event")
		return processResult{ack: true}
	}

	var event events.OrderEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		c.logg.Error(logCtx, "failed to decode order event", err)
		return processResult{ack: true}
	}
	if event.EventID == "" {
		c.logg.Warn(logCtx, "order event missing event id")
		return processResult{ack: true}
	}

	fresh, err := c.dedupe.SetNX(ctx, c.dedupe.NotifiedEventKey(event.EventID), "1", dedupeTTL)
	if err != nil {
		c.logg.Error(logCtx, "dedupe check failed", err)
		return processResult{nack: true}
	}
	if !fresh {
		c.logg.Info(logCtx, "event already notified")
		return processResult{ack: true}
	}

	logCtx = c.logg.WithFields(logCtx, map[string]any{
		"order_id":   event.OrderID.String(),
		"order_code": event.OrderCode,
		"status":     event.Status.String(),
	})
	switch events.Type(eventType) {
	case events.TypeOrderCreated:
		c.logg.Info(logCtx, "new order received")
	case events.TypeOrderStatusChanged:
		c.logg.Info(logCtx, "order status changed")
	}
	return processResult{ack: true}
}
