package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// FetchFunc produces a fresh value when the cached one is missing or stale.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Loader is a process-local TTL cache over a single expensive fetch.
// Concurrent callers that miss the cache collapse into one in-flight
// fetch; every waiter receives the same result. The clock is injectable
// so expiry can be tested without sleeping.
type Loader[T any] struct {
	name  string
	ttl   time.Duration
	now   func() time.Time
	fetch FetchFunc[T]

	group singleflight.Group

	mu        sync.RWMutex
	value     T
	expiresAt time.Time
	valid     bool
	gen       uint64
}

// Option customizes a Loader.
type Option[T any] func(*Loader[T])

// WithClock overrides the wall clock, used by tests.
func WithClock[T any](now func() time.Time) Option[T] {
	return func(l *Loader[T]) {
		l.now = now
	}
}

// NewLoader builds a named TTL loader around fetch.
func NewLoader[T any](name string, ttl time.Duration, fetch FetchFunc[T], opts ...Option[T]) *Loader[T] {
	l := &Loader[T]{
		name:  name,
		ttl:   ttl,
		now:   time.Now,
		fetch: fetch,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Get returns the cached value when fresh, otherwise fetches. A cold or
// expired cache hit by many goroutines triggers exactly one fetch.
func (l *Loader[T]) Get(ctx context.Context) (T, error) {
	if value, ok := l.cached(); ok {
		return value, nil
	}

	result, err, _ := l.group.Do(l.name, func() (any, error) {
		// a concurrent caller may have refreshed while we waited
		if value, ok := l.cached(); ok {
			return value, nil
		}
		gen := l.generation()
		value, err := l.fetch(ctx)
		if err != nil {
			return value, err
		}
		l.store(value, gen)
		return value, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result.(T), nil
}

// Invalidate drops the cached value so the next Get refetches. Bumping
// the generation also voids any fetch that started before the call, so
// a snapshot taken pre-mutation can never be stored afterwards.
func (l *Loader[T]) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	var zero T
	l.value = zero
	l.valid = false
	l.gen++
}

func (l *Loader[T]) cached() (T, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if !l.valid || l.now().After(l.expiresAt) {
		var zero T
		return zero, false
	}
	return l.value, true
}

func (l *Loader[T]) generation() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.gen
}

func (l *Loader[T]) store(value T, gen uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.gen != gen {
		// invalidated while the fetch ran; the value predates the write
		return
	}
	l.value = value
	l.expiresAt = l.now().Add(l.ttl)
	l.valid = true
}
