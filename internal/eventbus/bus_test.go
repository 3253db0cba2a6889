package eventbus

import "testing"

func TestPublishSubscribe(t *testing.T) {
	t.Parallel()

	b := New()
	ch, unsub := b.Subscribe(2)
	defer unsub()

	b.Publish(Event{Type: EventStreamStarted})
	b.Publish(Event{Type: EventTransferConfirmed, Data: uint64(1)})

	ev := <-ch
	if ev.Type != EventStreamStarted {
		t.Fatalf("first event = %q", ev.Type)
	}
	if ev.Time.IsZero() {
		t.Fatal("Publish must stamp a time")
	}
	ev = <-ch
	if ev.Type != EventTransferConfirmed {
		t.Fatalf("second event = %q", ev.Type)
	}
}

func TestPublishDropsWhenFull(t *testing.T) {
	t.Parallel()

	b := New()
	ch, unsub := b.Subscribe(1)
	defer unsub()

	b.Publish(Event{Type: "a"})
	b.Publish(Event{Type: "b"}) // buffer full, must not block

	if ev := <-ch; ev.Type != "a" {
		t.Fatalf("got %q, want a", ev.Type)
	}
	select {
	case ev := <-ch:
		t.Fatalf("unexpected extra event %q", ev.Type)
	default:
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	t.Parallel()

	b := New()
	ch, unsub := b.Subscribe(1)
	unsub()
	unsub() // idempotent

	b.Publish(Event{Type: "x"}) // must not panic after close

	if _, ok := <-ch; ok {
		t.Fatal("expected closed channel")
	}
}
