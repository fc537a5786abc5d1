// Package input implements the per-entity input queue and its revocable
// push capability (§4.5).
package input

import (
	"errors"
	"sync"
)

// ErrRevoked is returned by a Push function obtained from a Binder whose
// owning INPUT component has since been destroyed.
var ErrRevoked = errors.New("boopworld: input queue revoked")

// Datum is an opaque piece of input data queued for a mind to consume.
type Datum any

// Push is the capability handed to external callers to feed input into an
// entity's queue. Calling Push after the queue has been revoked returns
// ErrRevoked.
type Push func(d Datum) error

// Queue is the FIFO of pending input data for one entity.
type Queue struct {
	mu      sync.Mutex
	pending []Datum
	revoked bool
}

// NewQueue creates an empty, live Queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Binder mints the Push capability for external callers and can Revoke it,
// e.g. when the owning entity's INPUT component is destroyed or replaced.
type Binder struct {
	q *Queue
}

// NewBinder returns a Binder wrapping q.
func NewBinder(q *Queue) *Binder {
	return &Binder{q: q}
}

// Push returns the push capability bound to this Binder's Queue.
func (b *Binder) Push() Push {
	q := b.q
	return func(d Datum) error {
		q.mu.Lock()
		defer q.mu.Unlock()
		if q.revoked {
			return ErrRevoked
		}
		q.pending = append(q.pending, d)
		return nil
	}
}

// Revoke permanently disables the Queue's Push function. Any data already
// queued remains available to Drain.
func (b *Binder) Revoke() {
	b.q.mu.Lock()
	defer b.q.mu.Unlock()
	b.q.revoked = true
}

// NonEmpty reports whether the queue currently holds undrained data.
func (q *Queue) NonEmpty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending) > 0
}

// Drain removes and returns every datum currently queued, in FIFO order.
func (q *Queue) Drain() []Datum {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return nil
	}
	out := q.pending
	q.pending = nil
	return out
}
