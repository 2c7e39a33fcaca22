// Package async models logically asynchronous units of work over the
// synchronous storage layer. An Operation moves from pending to exactly one
// of fulfilled or rejected; once started it always runs to completion, and
// overlapping operations of the same kind settle independently.
package async

import (
	"context"
	"sync"
	"time"
)

// State is the lifecycle state of an Operation.
type State string

const (
	StatePending   State = "pending"
	StateFulfilled State = "fulfilled"
	StateRejected  State = "rejected"
)

// Delay schedules a unit of work, standing in for I/O latency.
type Delay interface {
	Schedule(fn func())
}

// Immediate runs work synchronously with no simulated latency.
type Immediate struct{}

func (Immediate) Schedule(fn func()) { fn() }

// Fixed runs work on a timer after a fixed delay.
type Fixed time.Duration

func (d Fixed) Schedule(fn func()) { time.AfterFunc(time.Duration(d), fn) }

// Manual queues scheduled work until released, giving callers full control
// over completion order.
type Manual struct {
	mu    sync.Mutex
	queue []func()
}

// Schedule queues fn without running it.
func (m *Manual) Schedule(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, fn)
}

// Release runs the oldest queued unit of work.
// Returns false when nothing is queued.
func (m *Manual) Release() bool {
	m.mu.Lock()
	if len(m.queue) == 0 {
		m.mu.Unlock()
		return false
	}
	fn := m.queue[0]
	m.queue = m.queue[1:]
	m.mu.Unlock()

	fn()
	return true
}

// ReleaseLast runs the newest queued unit of work, letting later-scheduled
// work settle before earlier work. Returns false when nothing is queued.
func (m *Manual) ReleaseLast() bool {
	m.mu.Lock()
	if len(m.queue) == 0 {
		m.mu.Unlock()
		return false
	}
	fn := m.queue[len(m.queue)-1]
	m.queue = m.queue[:len(m.queue)-1]
	m.mu.Unlock()

	fn()
	return true
}

// ReleaseAll runs all queued work in scheduling order.
func (m *Manual) ReleaseAll() {
	for m.Release() {
	}
}

// Pending returns the number of queued units of work.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// Operation wraps a unit of work with a pending → fulfilled | rejected
// lifecycle. Cancellation is not supported: a started operation settles
// exactly once.
type Operation[T any] struct {
	mu    sync.Mutex
	state State
	value T
	err   error
	done  chan struct{}
	hooks []func(T, error)
}

// Start schedules work through the given delay and returns its envelope.
func Start[T any](delay Delay, work func() (T, error)) *Operation[T] {
	op := &Operation[T]{
		state: StatePending,
		done:  make(chan struct{}),
	}
	delay.Schedule(func() {
		op.settle(work())
	})
	return op
}

func (op *Operation[T]) settle(value T, err error) {
	op.mu.Lock()
	if op.state != StatePending {
		op.mu.Unlock()
		return
	}
	if err != nil {
		op.state = StateRejected
		op.err = err
	} else {
		op.state = StateFulfilled
		op.value = value
	}
	hooks := op.hooks
	op.hooks = nil
	op.mu.Unlock()

	close(op.done)
	for _, hook := range hooks {
		hook(value, err)
	}
}

// State returns the current lifecycle state.
func (op *Operation[T]) State() State {
	op.mu.Lock()
	defer op.mu.Unlock()
	return op.state
}

// OnSettled registers fn to run when the operation settles. If the operation
// has already settled, fn runs immediately on the calling goroutine.
func (op *Operation[T]) OnSettled(fn func(value T, err error)) {
	op.mu.Lock()
	if op.state == StatePending {
		op.hooks = append(op.hooks, fn)
		op.mu.Unlock()
		return
	}
	value, err := op.value, op.err
	op.mu.Unlock()

	fn(value, err)
}

// Await blocks until the operation settles or ctx is done. The operation
// itself keeps running if ctx expires first.
func (op *Operation[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-op.done:
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}

	op.mu.Lock()
	defer op.mu.Unlock()
	return op.value, op.err
}
