package cart

import (
	"sync"
)

// Event tells observers that a cart changed. Observers re-read the cart
// they care about instead of trusting the event payload.
type Event struct {
	CartID     string
	TotalCount int
	TotalValue int
}

const subscriberBuffer = 8

// Broadcaster fans cart change events out to any number of subscribers.
// Publishing never blocks: a subscriber that stopped draining its channel
// misses events and catches up on its next read of the store.
type Broadcaster struct {
	mu   sync.Mutex
	next int
	subs map[int]chan Event
}

// NewBroadcaster builds an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[int]chan Event)}
}

// Subscribe registers an observer. The returned cancel func must be called
// when the observer goes away; the channel is closed on cancel.
func (b *Broadcaster) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan Event, subscriberBuffer)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Publish delivers the event to every subscriber with room in its buffer.
func (b *Broadcaster) Publish(event Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, sub := range b.subs {
		select {
		case sub <- event:
		default:
		}
	}
}
