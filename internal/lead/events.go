package lead

import (
	"context"
	"sync"
	"time"

	"sagliktur.org/internal/obs"
)

// EventType identifies a lead change notification.
type EventType string

const (
	EventLeadCreated EventType = "lead.created"
	EventLeadUpdated EventType = "lead.updated"
)

// Event is a typed change notification carrying the post-change record.
type Event struct {
	Type EventType `json:"type"`
	Lead Lead      `json:"lead"`
	At   time.Time `json:"at"`
}

const subscriberBuffer = 16

// Broker fans lead events out to subscribers. Delivery is best-effort: a
// subscriber that falls behind its buffer drops events rather than blocking
// publishers or its peers.
type Broker struct {
	mu   sync.RWMutex
	subs map[chan Event]struct{}
}

// NewBroker builds an empty broker.
func NewBroker() *Broker {
	return &Broker{subs: make(map[chan Event]struct{})}
}

// Subscribe registers a listener until ctx ends. The returned channel is
// closed on unsubscribe.
func (b *Broker) Subscribe(ctx context.Context) <-chan Event {
	ch := make(chan Event, subscriberBuffer)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, ch)
		b.mu.Unlock()
		close(ch)
	}()
	return ch
}

// Publish delivers the event to every current subscriber.
func (b *Broker) Publish(evt Event) {
	obs.CountLeadEvent(string(evt.Type))
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs {
		select {
		case ch <- evt:
		default:
			// Slow subscriber; drop rather than stall the mutation path.
		}
	}
}

// SubscriberCount reports the number of active subscribers.
func (b *Broker) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
