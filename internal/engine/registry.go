package engine

import (
	"maps"
	"slices"
	"sync"
)

// registry is a set of event handlers. Handlers run on the emitting
// goroutine, outside the registry lock, in subscription order.
type registry[T any] struct {
	mu       sync.Mutex
	next     int
	handlers map[int]func(T)
}

func (r *registry[T]) add(h func(T)) func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.handlers == nil {
		r.handlers = make(map[int]func(T))
	}
	id := r.next
	r.next++
	r.handlers[id] = h

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.handlers, id)
			r.mu.Unlock()
		})
	}
}

func (r *registry[T]) emit(v T) {
	r.mu.Lock()
	ids := slices.Sorted(maps.Keys(r.handlers))
	hs := make([]func(T), 0, len(ids))
	for _, id := range ids {
		hs = append(hs, r.handlers[id])
	}
	r.mu.Unlock()

	for _, h := range hs {
		h(v)
	}
}

func (r *registry[T]) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handlers)
}
