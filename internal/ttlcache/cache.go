// Package ttlcache implements the single-slot, TTL-bounded cache entry used
// by both the client's catalog caches (tools/resources/resource-templates)
// and, conceptually, the server's TTL-stamped list responses. One Entry
// holds exactly one value with an expiry time, at most one pending expiry
// timer, and an optional callback fired when that timer elapses.
package ttlcache

import (
	"sync"
	"time"
)

// Entry is a single-slot cache with an expiry timer and optional expiry
// callback (spec §4.B). The zero value is ready to use.
type Entry[T any] struct {
	mu         sync.Mutex
	value      T
	hasValue   bool
	expiryTime time.Time
	timer      *time.Timer
	onExpire   func()
}

// NewEntry constructs an Entry whose expiry callback, if any, is invoked
// (asynchronously, on its own goroutine per time.AfterFunc) when a value
// set with a positive TTL expires.
func NewEntry[T any](onExpire func()) *Entry[T] {
	return &Entry[T]{onExpire: onExpire}
}

// Set cancels any pending timer, stores value, and computes the new expiry
// time. If ttl > 0 and an expiry callback was supplied, the callback is
// scheduled to fire at ttl. A ttl <= 0 stores the value but leaves it
// immediately invalid (Get returns the zero value) and schedules no timer
// (spec testable property 6).
func (e *Entry[T]) Set(value T, ttl time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.value, e.hasValue = value, true
	e.expiryTime = time.Now().Add(ttl)

	if ttl > 0 && e.onExpire != nil {
		e.timer = time.AfterFunc(ttl, e.onExpire)
	}
}

// Get returns the stored value and true if it has not expired; otherwise
// the zero value and false. Get never returns an expired value (spec
// testable property 4).
func (e *Entry[T]) Get() (T, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var zero T
	if !e.hasValue || !time.Now().Before(e.expiryTime) {
		return zero, false
	}
	return e.value, true
}

// Cancel stops any pending expiry timer without clearing the stored
// value's time-based validity — a subsequent Get still honors the
// already-computed expiry time.
func (e *Entry[T]) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}
