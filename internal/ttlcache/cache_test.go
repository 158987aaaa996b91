package ttlcache

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestEntry_SetThenGet(t *testing.T) {
	e := NewEntry[string](nil)
	e.Set("hello", time.Hour)

	v, ok := e.Get()
	if !ok || v != "hello" {
		t.Fatalf("Get() = %q, %v; want hello, true", v, ok)
	}
}

func TestEntry_ExpiresAndFiresCallback(t *testing.T) {
	fired := make(chan struct{}, 1)
	e := NewEntry[int](func() { fired <- struct{}{} })
	e.Set(42, 20*time.Millisecond)

	if v, ok := e.Get(); !ok || v != 42 {
		t.Fatalf("Get() immediately after Set = %v, %v; want 42, true", v, ok)
	}

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("expiry callback did not fire")
	}

	time.Sleep(5 * time.Millisecond) // let expiry time pass defensively
	if _, ok := e.Get(); ok {
		t.Fatal("Get() returned a value after expiry")
	}
}

func TestEntry_SetTwiceCancelsEarlierTimer(t *testing.T) {
	var fires int32
	e := NewEntry[int](func() { atomic.AddInt32(&fires, 1) })

	e.Set(1, 20*time.Millisecond)
	e.Set(2, 50*time.Millisecond) // should cancel the first timer

	time.Sleep(100 * time.Millisecond)
	if got := atomic.LoadInt32(&fires); got != 1 {
		t.Fatalf("onExpire fired %d times; want exactly 1", got)
	}
}

func TestEntry_ZeroOrNegativeTTLNeverSchedules(t *testing.T) {
	fired := make(chan struct{}, 1)
	e := NewEntry[int](func() { fired <- struct{}{} })

	e.Set(7, 0)
	if _, ok := e.Get(); ok {
		t.Fatal("Get() after ttl=0 Set should report invalid")
	}

	e.Set(7, -time.Second)
	if _, ok := e.Get(); ok {
		t.Fatal("Get() after negative ttl Set should report invalid")
	}

	select {
	case <-fired:
		t.Fatal("onExpire should never fire for ttl <= 0")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestEntry_CancelStopsTimerWithoutClearingValue(t *testing.T) {
	fired := make(chan struct{}, 1)
	e := NewEntry[string](func() { fired <- struct{}{} })
	e.Set("x", 20*time.Millisecond)
	e.Cancel()

	select {
	case <-fired:
		t.Fatal("onExpire fired after Cancel")
	case <-time.After(50 * time.Millisecond):
	}

	// The value's own expiry time has already passed by now, so Get()
	// still reports it invalid — Cancel only stops the timer, it doesn't
	// extend the value's lifetime.
	if _, ok := e.Get(); ok {
		t.Fatal("Get() should reflect the original expiry time even after Cancel")
	}
}
