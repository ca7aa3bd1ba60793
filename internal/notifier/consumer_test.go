package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamnakhalid/kitchenia-backend/pkg/enums"
	"github.com/hamnakhalid/kitchenia-backend/pkg/events"
	"github.com/hamnakhalid/kitchenia-backend/pkg/logger"
)

type fakeDedupe struct {
	seen map[string]bool
	err  error
}

func newFakeDedupe() *fakeDedupe {
	return &fakeDedupe{seen: make(map[string]bool)}
}

func (f *fakeDedupe) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if f.seen[key] {
		return false, nil
	}
	f.seen[key] = true
	return true, nil
}

func (f *fakeDedupe) NotifiedEventKey(eventID string) string {
	return "kitchenia:notified:" + eventID
}

func newTestConsumer(t *testing.T, dedupe dedupeStore) *Consumer {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "notifier-test", Output: io.Discard})
	consumer, err := NewConsumer(&pubsub.Subscriber{}, dedupe, logg)
	require.NoError(t, err)
	return consumer
}

func orderEventMessage(t *testing.T, event events.OrderEvent) *pubsub.Message {
	t.Helper()
	payload, err := json.Marshal(event)
	require.NoError(t, err)
	return &pubsub.Message{
		ID:         uuid.NewString(),
		Data:       payload,
		Attributes: map[string]string{"event_type": string(event.Type)},
	}
}

func TestProcessAcksOrderCreated(t *testing.T) {
	dedupe := newFakeDedupe()
	consumer := newTestConsumer(t, dedupe)
	event := events.NewOrderEvent(events.TypeOrderCreated, uuid.New(), "CK-1001", enums.OrderStatusPreparing)

	result := consumer.process(context.Background(), orderEventMessage(t, event))
	assert.True(t, result.ack)
	assert.False(t, result.nack)
	assert.True(t, dedupe.seen["kitchenia:notified:"+event.EventID])
}

func TestProcessDropsReplayedEvent(t *testing.T) {
	dedupe := newFakeDedupe()
	consumer := newTestConsumer(t, dedupe)
	event := events.NewOrderEvent(events.TypeOrderStatusChanged, uuid.New(), "CK-1002", enums.OrderStatusShipped)
	msg := orderEventMessage(t, event)

	first := consumer.process(context.Background(), msg)
	second := consumer.process(context.Background(), msg)
	assert.True(t, first.ack)
	assert.True(t, second.ack, "replay must be acked, not reprocessed")
}

func TestProcessNacksOnDedupeFailure(t *testing.T) {
	dedupe := newFakeDedupe()
	dedupe.err = errors.New("redis down")
	consumer := newTestConsumer(t, dedupe)
	event := events.NewOrderEvent(events.TypeOrderCreated, uuid.New(), "CK-1003", enums.OrderStatusPreparing)

	result := consumer.process(context.Background(), orderEventMessage(t, event))
	assert.True(t, result.nack)
}

func TestProcessAcksUnrecognizedEventType(t *testing.T) {
	dedupe := newFakeDedupe()
	consumer := newTestConsumer(t, dedupe)
	msg := &pubsub.Message{
		ID:         uuid.NewString(),
		Data:       []byte(`{}`),
		Attributes: map[string]string{"event_type": "inventory.adjusted"},
	}

	result := consumer.process(context.Background(), msg)
	assert.True(t, result.ack)
	assert.Empty(t, dedupe.seen)
}

func TestProcessAcksMalformedPayload(t *testing.T) {
	dedupe := newFakeDedupe()
	consumer := newTestConsumer(t, dedupe)
	msg := &pubsub.Message{
		ID:         uuid.NewString(),
		Data:       []byte("not json"),
		Attributes: map[string]string{"event_type": string(events.TypeOrderCreated)},
	}

	result := consumer.process(context.Background(), msg)
	assert.True(t, result.ack, "poison messages are dropped rather than redelivered")
	assert.Empty(t, dedupe.seen)
}

func TestNewConsumerValidation(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "notifier-test", Output: io.Discard})
	if _, err := NewConsumer(nil, newFakeDedupe(), logg); err == nil {
		t.Fatal("expected error without subscription")
	}
	if _, err := NewConsumer(&pubsub.Subscriber{}, nil, logg); err == nil {
		t.Fatal("expected error without dedupe store")
	}
	if _, err := NewConsumer(&pubsub.Subscriber{}, newFakeDedupe(), nil); err == nil {
		t.Fatal("expected error without logger")
	}
}
