package lead

import (
	"context"
	"testing"
	"time"
)

func TestBrokerDeliversLifecycleEvents(t *testing.T) {
	s := NewService(NewBroker(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := s.broker.Subscribe(ctx)

	created, err := s.Create(Lead{FirstName: "Eva"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	select {
	case evt := <-ch:
		if evt.Type != EventLeadCreated || evt.Lead.ID != created.ID {
			t.Fatalf("unexpected event: %+v", evt)
		}
	case <-time.After(time.Second):
		t.Fatal("creation event not delivered")
	}

	qualified := StatusQualified
	if _, err := s.Update(created.ID, Patch{Status: &qualified}); err != nil {
		t.Fatalf("update: %v", err)
	}
	select {
	case evt := <-ch:
		if evt.Type != EventLeadUpdated || evt.Lead.Status != StatusQualified {
			t.Fatalf("unexpected event: %+v", evt)
		}
	case <-time.After(time.Second):
		t.Fatal("update event not delivered")
	}
}

func TestBrokerUnsubscribeOnContextCancel(t *testing.T) {
	b := NewBroker()
	ctx, cancel := context.WithCancel(context.Background())
	ch := b.Subscribe(ctx)

	cancel()
	deadline := time.After(time.Second)
	for b.SubscriberCount() != 0 {
		select {
		case <-deadline:
			t.Fatal("subscriber not removed after cancel")
		case <-time.After(5 * time.Millisecond):
		}
	}
	if _, open := <-ch; open {
		t.Fatal("channel must be closed after unsubscribe")
	}
}

func TestBrokerDropsWhenSubscriberStalls(t *testing.T) {
	b := NewBroker()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := b.Subscribe(ctx)

	// Fill the buffer and then some; publishes must not block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*2; i++ {
			b.Publish(Event{Type: EventLeadCreated})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a stalled subscriber")
	}

	received := 0
	for {
		select {
		case <-ch:
			received++
		default:
			if received != subscriberBuffer {
				t.Fatalf("expected exactly the buffered events, got %d", received)
			}
			return
		}
	}
}
