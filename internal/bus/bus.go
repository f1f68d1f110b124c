package bus

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

var (
	_ctx = context.Background()

	mu   sync.RWMutex
	subs = make(map[string][]func(ctx context.Context, T any))
)

func SetContext(ctx context.Context) {
	_ctx = ctx
}

func topic[T any]() string {
	return fmt.Sprintf("%T", *new(T))
}

// Subscribe calls fn for every published event of type T. fn runs on the
// publisher's goroutine and must not block.
func Subscribe[T any](name string, fn func(ctx context.Context, event T) error) {
	mu.Lock()
	defer mu.Unlock()

	t := topic[T]()
	subs[t] = append(subs[t], func(ctx context.Context, event any) {
		if err := fn(ctx, event.(T)); err != nil {
			slog.Error("Failed to handle event", "package", "bus", "name", name, "error", err)
		}
	})
}

func Publish[T any](event T) {
	mu.RLock()
	fns := subs[topic[T]()]
	mu.RUnlock()

	for _, fn := range fns {
		fn(_ctx, event)
	}
}

func NewHub[T any]() *Hub[T] {
	return &Hub[T]{
		subs: make(map[*chan T]struct{}),
	}
}

// Hub fans events out to channel subscribers. Subscribers that are not ready
// miss the event instead of stalling the publisher.
type Hub[T any] struct {
	mu   sync.Mutex
	subs map[*chan T]struct{}
}

func (h *Hub[T]) Broadcast(ctx context.Context, event T) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case *sub <- event:
		default:
			slog.Debug("Dropping event for slow subscriber", "package", "bus", "topic", fmt.Sprintf("%T", event))
		}
	}

	return nil
}

// Register subscribes the hub to published events of type T.
func (h *Hub[T]) Register() *Hub[T] {
	Subscribe("bus.Hub", h.Broadcast)
	return h
}

func (h *Hub[T]) Subscribe(size int) (<-chan T, func()) {
	h.mu.Lock()
	c := make(chan T, size)

	key := &c
	h.subs[key] = struct{}{}
	h.mu.Unlock()

	return c, func() {
		h.mu.Lock()
		delete(h.subs, key)
		h.mu.Unlock()
	}
}
