package station

import (
	"context"
	"sync"
	"sync/atomic"
)

const defaultBroadcastBuffer = 32

// Hub fans out broadcasts to all attached receivers. Publishing never
// blocks: a receiver that falls behind loses its oldest events.
type Hub struct {
	mu      sync.Mutex
	clients map[uint32]*Receiver
	nextID  uint32
	buffer  int
	closed  bool
}

// Receiver gets every broadcast published after it subscribed.
type Receiver struct {
	Id      uint32
	events  chan Broadcast
	dropped atomic.Uint64
	hub     *Hub
}

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = defaultBroadcastBuffer
	}

	return &Hub{
		clients: make(map[uint32]*Receiver),
		buffer:  buffer,
	}
}

func (h *Hub) Subscribe() *Receiver {
	h.mu.Lock()
	defer h.mu.Unlock()

	r := &Receiver{
		Id:     h.nextID,
		events: make(chan Broadcast, h.buffer),
		hub:    h,
	}
	h.nextID++

	if h.closed {
		close(r.events)
		return r
	}

	h.clients[r.Id] = r

	return r
}

func (h *Hub) Publish(b Broadcast) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.clients {
		client.push(b)
	}
}

// Close detaches and closes all receivers. Later subscribers get a closed receiver.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}

	h.closed = true

	for id, client := range h.clients {
		close(client.events)
		delete(h.clients, id)
	}
}

// receivers is the number of attached receivers. Tests use it to check
// that cancelled and closed receivers are detached.
func (h *Hub) receivers() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.clients)
}

// push must be called with the hub lock held, it is the only sender.
func (r *Receiver) push(b Broadcast) {
	for {
		select {
		case r.events <- b:
			return
		default:
		}

		select {
		case <-r.events:
			r.dropped.Add(1)
		default:
		}
	}
}

// Events is closed when the receiver is cancelled or the station stops.
func (r *Receiver) Events() <-chan Broadcast {
	return r.events
}

func (r *Receiver) Recv(ctx context.Context) (Broadcast, error) {
	select {
	case b, ok := <-r.events:
		if !ok {
			return 0, ErrStationUnreachable
		}
		return b, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// Dropped counts events this receiver lost because its buffer was full.
func (r *Receiver) Dropped() uint64 {
	return r.dropped.Load()
}

func (r *Receiver) Cancel() {
	r.hub.mu.Lock()
	defer r.hub.mu.Unlock()

	if _, ok := r.hub.clients[r.Id]; !ok {
		return
	}

	delete(r.hub.clients, r.Id)
	close(r.events)
}
