package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/hamnakhalid/kitchenia-backend/pkg/enums"
)

type fakeResult struct {
	err error
}

func (r fakeResult) Get(context.Context) (string, error) {
	return "msg-id", r.err
}

type fakePublisher struct {
	messages []*gcppubsub.Message
	err      error
}

func (p *fakePublisher) Publish(ctx context.Context, msg *gcppubsub.Message) publishResult {
	p.messages = append(p.messages, msg)
	return fakeResult{err: p.err}
}

func TestEmitPublishesEnvelope(t *testing.T) {
	pub := &fakePublisher{}
	emitter := &Emitter{pub: pub, timeout: time.Second}

	orderID := uuid.New()
	event := NewOrderEvent(TypeOrderCreated, orderID, "CK-1001", enums.OrderStatusPreparing)
	if err := emitter.Emit(context.Background(), event); err != nil {
		t.Fatalf("emit failed: %v", err)
	}

	if len(pub.messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(pub.messages))
	}
	msg := pub.messages[0]
	if msg.Attributes["event_type"] != "order.created" {
		t.Fatalf("unexpected event_type attribute %q", msg.Attributes["event_type"])
	}
	if msg.Attributes["order_code"] != "CK-1001" {
		t.Fatalf("unexpected order_code attribute %q", msg.Attributes["order_code"])
	}

	var decoded OrderEvent
	if err := json.Unmarshal(msg.Data, &decoded); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if decoded.OrderID != orderID || decoded.Status != enums.OrderStatusPreparing {
		t.Fatalf("unexpected payload %+v", decoded)
	}
	if decoded.EventID == "" {
		t.Fatalf("expected event id to be set")
	}
}

func TestEmitPropagatesPublishError(t *testing.T) {
	pub := &fakePublisher{err: errors.New("deadline")}
	emitter := &Emitter{pub: pub, timeout: time.Second}

	event := NewOrderEvent(TypeOrderStatusChanged, uuid.New(), "CK-1002", enums.OrderStatusShipped)
	if err := emitter.Emit(context.Background(), event); err == nil {
		t.Fatalf("expected publish error")
	}
}

func TestNilEmitterDropsEvents(t *testing.T) {
	var emitter *Emitter
	event := NewOrderEvent(TypeOrderCreated, uuid.New(), "CK-1003", enums.OrderStatusPreparing)
	if err := emitter.Emit(context.Background(), event); err != nil {
		t.Fatalf("nil emitter should accept events, got %v", err)
	}
	if NewEmitter(nil, nil) != nil {
		t.Fatalf("expected nil emitter from nil topic")
	}
}
