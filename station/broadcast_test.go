package station

import (
	"context"
	"testing"
	"time"
)

func TestHubDeliversOnlyAfterSubscribe(t *testing.T) {
	hub := NewHub(8)

	early := hub.Subscribe()
	hub.Publish(Connected)

	late := hub.Subscribe()
	hub.Publish(Disconnected)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	for _, expected := range []Broadcast{Connected, Disconnected} {
		b, err := early.Recv(ctx)
		if err != nil {
			t.Fatalf("Recv: %v", err)
		}
		if b != expected {
			t.Fatalf("expected %v, got %v", expected, b)
		}
	}

	b, err := late.Recv(ctx)
	if err != nil {
		t.Fatalf("Recv: %v", err)
	}
	if b != Disconnected {
		t.Fatalf("late subscriber got replayed event %v", b)
	}

	select {
	case b := <-late.Events():
		t.Fatalf("unexpected event %v", b)
	default:
	}
}

func TestHubDropsOldestForSlowReceiver(t *testing.T) {
	hub := NewHub(2)

	slow := hub.Subscribe()
	fast := hub.Subscribe()

	received := make(chan Broadcast, 8)
	events := []Broadcast{Ready, Connected, Disconnected, WrongPsk}

	for _, b := range events {
		hub.Publish(b)
		received <- <-fast.Events()
	}

	if slow.Dropped() != 2 {
		t.Fatalf("expected 2 dropped events, got %d", slow.Dropped())
	}
	if fast.Dropped() != 0 {
		t.Fatalf("fast receiver should not drop, got %d", fast.Dropped())
	}

	for _, expected := range []Broadcast{Disconnected, WrongPsk} {
		if b := <-slow.Events(); b != expected {
			t.Fatalf("expected %v, got %v", expected, b)
		}
	}

	close(received)
	i := 0
	for b := range received {
		if b != events[i] {
			t.Fatalf("fast receiver expected %v, got %v", events[i], b)
		}
		i++
	}
}

func TestReceiverCancel(t *testing.T) {
	hub := NewHub(4)

	r := hub.Subscribe()
	other := hub.Subscribe()

	r.Cancel()
	r.Cancel()

	if _, ok := <-r.Events(); ok {
		t.Fatalf("expected cancelled receiver to be closed")
	}
	if hub.receivers() != 1 {
		t.Fatalf("expected 1 receiver, got %d", hub.receivers())
	}

	hub.Publish(Ready)

	if b := <-other.Events(); b != Ready {
		t.Fatalf("expected %v, got %v", Ready, b)
	}
}

func TestHubClose(t *testing.T) {
	hub := NewHub(4)

	r := hub.Subscribe()
	hub.Close()
	hub.Close()

	if _, err := r.Recv(context.Background()); !IsUnreachable(err) {
		t.Fatalf("expected unreachable, got %v", err)
	}

	// cancelling after close must not panic
	r.Cancel()

	late := hub.Subscribe()
	if _, ok := <-late.Events(); ok {
		t.Fatalf("expected receiver of closed hub to be closed")
	}
	if hub.receivers() != 0 {
		t.Fatalf("expected no attached receivers, got %d", hub.receivers())
	}

	hub.Publish(Connected)
}

func TestRecvHonoursContext(t *testing.T) {
	hub := NewHub(1)
	r := hub.Subscribe()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.Recv(ctx); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
