package events

import (
	"context"
	"errors"
	"testing"
)

func TestPublishInvokesSubscribersInOrder(t *testing.T) {
	t.Parallel()

	d := NewInMemoryDispatcher(nil)
	var calls []string
	d.Subscribe(EventQueryCreated, func(ctx context.Context, e Event) error {
		calls = append(calls, "first")
		return nil
	})
	d.Subscribe(EventQueryCreated, func(ctx context.Context, e Event) error {
		calls = append(calls, "second")
		return nil
	})

	if err := d.Publish(context.Background(), Event{Type: EventQueryCreated}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(calls) != 2 || calls[0] != "first" || calls[1] != "second" {
		t.Fatalf("handler calls = %v, want [first second]", calls)
	}
}

func TestPublishSkipsOtherEventTypes(t *testing.T) {
	t.Parallel()

	d := NewInMemoryDispatcher(nil)
	called := false
	d.Subscribe(EventQueryDeleted, func(ctx context.Context, e Event) error {
		called = true
		return nil
	})

	if err := d.Publish(context.Background(), Event{Type: EventQueryCreated}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if called {
		t.Fatal("handler for query_deleted invoked for query_created event")
	}
}

func TestPublishContinuesAfterHandlerError(t *testing.T) {
	t.Parallel()

	d := NewInMemoryDispatcher(nil)
	var calls int
	d.Subscribe(EventQueryAssigned, func(ctx context.Context, e Event) error {
		calls++
		return errors.New("handler failure")
	})
	d.Subscribe(EventQueryAssigned, func(ctx context.Context, e Event) error {
		calls++
		return nil
	})

	if err := d.Publish(context.Background(), Event{Type: EventQueryAssigned}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if calls != 2 {
		t.Fatalf("calls = %d, want 2 (failing handler must not stop dispatch)", calls)
	}
}
