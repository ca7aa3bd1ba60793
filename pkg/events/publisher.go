package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"

	"github.com/hamnakhalid/kitchenia-backend/pkg/logger"
)

const defaultPublishTimeout = 15 * time.Second

type publisher interface {
	Publish(context.Context, *gcppubsub.Message) publishResult
}

type publishResult interface {
	Get(context.Context) (string, error)
}

type topicPublisher struct {
	topic *gcppubsub.Publisher
}

func (t topicPublisher) Publish(ctx context.Context, msg *gcppubsub.Message) publishResult {
	return t.topic.Publish(ctx, msg)
}

// Emitter publishes order events to a single topic. A nil Emitter (or one
// built from a nil topic) accepts events and drops them.
type Emitter struct {
	pub     publisher
	logg    *logger.Logger
	timeout time.Duration
}

// NewEmitter wraps a Pub/Sub publisher handle. Returns nil when topic is nil
// so callers can hold one field and never branch on configuration.
func NewEmitter(topic *gcppubsub.Publisher, logg *logger.Logger) *Emitter {
	if topic == nil {
		return nil
	}
	return &Emitter{
		pub:     topicPublisher{topic: topic},
		logg:    logg,
		timeout: defaultPublishTimeout,
	}
}

// Emit publishes the event and waits for the server ack.
func (e *Emitter) Emit(ctx context.Context, event OrderEvent) error {
	if e == nil || e.pub == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}
	msg := &gcppubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"event_type": string(event.Type),
			"order_id":   event.OrderID.String(),
			"order_code": event.OrderCode,
		},
	}
	publishCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	if _, err := e.pub.Publish(publishCtx, msg).Get(publishCtx); err != nil {
		return fmt.Errorf("publish order event: %w", err)
	}
	if e.logg != nil {
		e.logg.Info(e.logg.WithOrderID(ctx, event.OrderID.String()), "order event published")
	}
	return nil
}
