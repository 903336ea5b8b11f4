// Package throttle coalesces bursts of calls, such as window resizes, into at
// most one invocation per interval.
package throttle

import (
	"sync"
	"time"
)

// Throttle wraps fn so that it runs at most once per interval. The first call
// of a burst runs immediately on the caller's goroutine. Calls arriving while
// throttled are coalesced: only the most recent argument is kept and it runs
// once the interval has elapsed, which starts a new interval. The interval is
// measured from the end of the previous invocation, so fn is never re-entered.
type Throttle[T any] struct {
	interval time.Duration
	fn       func(T)

	mu         sync.Mutex
	idle       *sync.Cond // signalled when an invocation returns
	throttled  bool
	running    bool
	hasPending bool
	pending    T
	timer      *time.Timer
	gen        uint64 // invalidates timers that were stopped too late
	stopped    bool
}

// New returns a Throttle calling fn at most once per interval.
func New[T any](interval time.Duration, fn func(T)) *Throttle[T] {
	t := &Throttle[T]{interval: interval, fn: fn}
	t.idle = sync.NewCond(&t.mu)
	return t
}

// Call requests an invocation of fn with arg.
func (t *Throttle[T]) Call(arg T) {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	if t.throttled || t.running {
		t.pending = arg
		t.hasPending = true
		t.mu.Unlock()
		return
	}
	t.throttled = true
	t.running = true
	t.mu.Unlock()

	t.invoke(arg)
}

// Flush waits for an in-flight invocation, then runs the pending call, if
// any, without waiting for the interval. When Flush returns fn is idle.
func (t *Throttle[T]) Flush() {
	t.mu.Lock()
	for t.running {
		t.idle.Wait()
	}
	if t.stopped || !t.hasPending {
		t.mu.Unlock()
		return
	}

	t.cancelTimer()
	arg := t.takePending()
	t.throttled = true
	t.running = true
	t.mu.Unlock()

	t.invoke(arg)
}

// Stop drops any pending call and ignores future ones. An invocation already
// running is not interrupted.
func (t *Throttle[T]) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopped = true
	t.hasPending = false
	t.cancelTimer()
}

// invoke runs fn and starts the next interval, even if fn panics.
func (t *Throttle[T]) invoke(arg T) {
	defer t.finish()
	t.fn(arg)
}

func (t *Throttle[T]) finish() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.running = false
	t.idle.Broadcast()
	if t.stopped {
		t.throttled = false
		return
	}

	t.gen++
	gen := t.gen
	t.timer = time.AfterFunc(t.interval, func() { t.release(gen) })
}

func (t *Throttle[T]) release(gen uint64) {
	t.mu.Lock()
	if t.stopped || gen != t.gen || t.running {
		t.mu.Unlock()
		return
	}
	if !t.hasPending {
		t.throttled = false
		t.mu.Unlock()
		return
	}

	arg := t.takePending()
	t.running = true
	t.mu.Unlock()

	t.invoke(arg)
}

// cancelTimer must be called with mu held.
func (t *Throttle[T]) cancelTimer() {
	t.gen++
	if t.timer != nil {
		t.timer.Stop()
	}
}

// takePending must be called with mu held.
func (t *Throttle[T]) takePending() T {
	arg := t.pending
	var zero T
	t.pending = zero
	t.hasPending = false
	return arg
}
