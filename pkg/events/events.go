// Package events emits order lifecycle notifications over Pub/Sub. Publishing
// is best effort: the API never fails a request because an event could not be
// sent, and a nil emitter silently degrades the system to poll-only refresh.
package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/hamnakhalid/kitchenia-backend/pkg/enums"
)

// Type classifies an order event.
type Type string

const (
	TypeOrderCreated       Type = "order.created"
	TypeOrderStatusChanged Type = "order.status_changed"
)

// OrderEvent is the wire payload for order lifecycle notifications.
type OrderEvent struct {
	EventID    string            `json:"event_id"`
	Type       Type              `json:"type"`
	OrderID    uuid.UUID         `json:"order_id"`
	OrderCode  string            `json:"order_code"`
	Status     enums.OrderStatus `json:"status"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// NewOrderEvent builds an event with a fresh id and timestamp.
func NewOrderEvent(eventType Type, orderID uuid.UUID, orderCode string, status enums.OrderStatus) OrderEvent {
	return OrderEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		OrderID:    orderID,
		OrderCode:  orderCode,
		Status:     status,
		OccurredAt: time.Now().UTC(),
	}
}
