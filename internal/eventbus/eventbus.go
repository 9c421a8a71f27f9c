// ABOUTME: Typed event bus used for task, message and auth-changed broadcasts
// ABOUTME: Handlers run in subscription order; Channel adapts the bus for UI event loops

package eventbus

import "sync"

// Handler is a callback function for events.
type Handler[T any] func(T)

type entry[T any] struct {
	id int
	h  Handler[T]
}

// Bus is a typed event bus that delivers events to registered handlers.
type Bus[T any] struct {
	mu       sync.RWMutex
	handlers []entry[T]
	nextID   int
}

// New creates a new event bus.
func New[T any]() *Bus[T] {
	return &Bus[T]{}
}

// Subscribe registers a handler and returns an unsubscribe function.
// Calling the unsubscribe function more than once is harmless.
func (b *Bus[T]) Subscribe(handler Handler[T]) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.handlers = append(b.handlers, entry[T]{id: id, h: handler})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, e := range b.handlers {
			if e.id == id {
				b.handlers = append(b.handlers[:i:i], b.handlers[i+1:]...)
				return
			}
		}
	}
}

// Channel subscribes a buffered channel. Events that arrive while the buffer
// is full are dropped, so consumers must treat events as wake-ups and read
// current state rather than rely on every event being delivered.
func (b *Bus[T]) Channel(buffer int) (<-chan T, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan T, buffer)
	var once sync.Once
	var closed bool
	var mu sync.Mutex

	unsub := b.Subscribe(func(ev T) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case ch <- ev:
		default:
		}
	})

	return ch, func() {
		once.Do(func() {
			unsub()
			mu.Lock()
			closed = true
			close(ch)
			mu.Unlock()
		})
	}
}

// Publish sends an event to all registered handlers.
// Handlers are called synchronously in subscription order.
func (b *Bus[T]) Publish(event T) {
	b.mu.RLock()
	// Snapshot handlers to avoid holding lock during callbacks
	snapshot := make([]Handler[T], len(b.handlers))
	for i, e := range b.handlers {
		snapshot[i] = e.h
	}
	b.mu.RUnlock()

	for _, h := range snapshot {
		h(event)
	}
}

// Count returns the number of registered handlers.
func (b *Bus[T]) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers)
}
