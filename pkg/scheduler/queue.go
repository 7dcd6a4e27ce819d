// Package scheduler provides the deferred-callback queue players use to finish
// asynchronously without owning a goroutine.
package scheduler

import "sync"

// Scheduler defers a callback until the owner drains it.
type Scheduler interface {
	Schedule(fn func())
}

// Queue is a FIFO of deferred callbacks drained by Flush.
type Queue struct {
	mu      sync.Mutex
	pending []func()
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Schedule appends fn. A nil fn is ignored.
func (q *Queue) Schedule(fn func()) {
	if fn == nil {
		return
	}
	q.mu.Lock()
	q.pending = append(q.pending, fn)
	q.mu.Unlock()
}

// Len reports how many callbacks are waiting.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Flush runs queued callbacks in order, including callbacks scheduled while
// flushing, and returns how many ran.
func (q *Queue) Flush() int {
	ran := 0
	for {
		q.mu.Lock()
		batch := q.pending
		q.pending = nil
		q.mu.Unlock()
		if len(batch) == 0 {
			return ran
		}
		for _, fn := range batch {
			fn()
			ran++
		}
	}
}

// Func adapts a function to the Scheduler interface.
type Func func(fn func())

func (f Func) Schedule(fn func()) { f(fn) }

// Immediate runs callbacks synchronously.
var Immediate Scheduler = Func(func(fn func()) { fn() })

// Discard drops callbacks.
var Discard Scheduler = Func(func(func()) {})
