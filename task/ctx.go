package task

import (
	"math/rand/v2"

	"github.com/boopworld/boopworld/entity"
	"github.com/boopworld/boopworld/event"
	"github.com/boopworld/boopworld/input"
	"github.com/boopworld/boopworld/internal/guard"
	"github.com/boopworld/boopworld/refscope"
)

// Ctx is the surface a Thunk is called with on each step (§4.9). A Ctx is
// built fresh for every call — never cached across steps — and is guarded
// by a step-scoped TimeGuard, so a Thunk that stashes its Ctx in a closure
// and calls back into it after returning panics rather than observing
// stale state.
type Ctx struct {
	Time int64
	Tick int64

	self  entity.Handle
	scope *refscope.Scope
	store *entity.Store

	events   []event.Event
	input    []input.Datum
	hasInput bool
	memory   *Memory
	moveSlot *Move
	g        guard.Validator
}

// NewCtx assembles a Ctx for one step. g guards every accessor; the
// caller (the shard package's scheduler) is responsible for minting a
// step-scoped TimeGuard and passing it here.
//
// in is the batch of input data handed to this step (already drained
// from the entity's queue, and what Input() returns); hasInput is the
// queue's own current state — whether it holds data *after* that drain —
// and is what an "input" WaitFor the thunk returns from this very step is
// evaluated against. The two are deliberately distinct: a thunk that
// drains one input datum and immediately re-waits for "input" must wait
// for the *next* arrival, not be considered already-satisfied by the
// datum it just consumed.
func NewCtx(
	time, tick int64,
	self entity.Handle,
	scope *refscope.Scope,
	store *entity.Store,
	events []event.Event,
	in []input.Datum,
	hasInput bool,
	memory *Memory,
	moveSlot *Move,
	g guard.Validator,
) *Ctx {
	return &Ctx{
		Time:     time,
		Tick:     tick,
		self:     self,
		scope:    scope,
		store:    store,
		events:   events,
		input:    in,
		hasInput: hasInput,
		memory:   memory,
		moveSlot: moveSlot,
		g:        g,
	}
}

// Self returns the handle for the entity this Ctx was built for.
func (c *Ctx) Self() entity.Handle {
	guard.Check(c.g)
	return c.self
}

// Deref resolves ref against this Ctx's scope.
func (c *Ctx) Deref(ref refscope.Ref) (entity.Handle, bool) {
	guard.Check(c.g)
	id, ok := c.scope.Deref(ref)
	if !ok {
		return entity.Handle{}, false
	}
	return entity.NewHandle(entity.ID(id), c.store, c.g), true
}

// Events returns this turn's events buffered against the calling entity.
func (c *Ctx) Events() []event.Event {
	guard.Check(c.g)
	return c.events
}

// HasEvent reports whether any buffered event matches t.
func (c *Ctx) HasEvent(t event.Type) bool {
	guard.Check(c.g)
	for _, e := range c.events {
		if e.Type == t {
			return true
		}
	}
	return false
}

// Input returns the entity's queued input data, if it has an INPUT
// component; nil otherwise.
func (c *Ctx) Input() []input.Datum {
	guard.Check(c.g)
	return c.input
}

// Memory returns the mind's persistent memory store.
func (c *Ctx) Memory() *Memory {
	guard.Check(c.g)
	return c.memory
}

// Random returns the mind's private PRNG stream.
func (c *Ctx) Random() *rand.Rand {
	guard.Check(c.g)
	return c.memory.Random()
}

// SetMove records the move the mind chooses for this turn. Calling it
// more than once in a step overwrites the previous choice; the last call
// before the Thunk returns wins.
func (c *Ctx) SetMove(m Move) {
	guard.Check(c.g)
	if c.moveSlot != nil {
		*c.moveSlot = m
	}
}

// IsReady reports whether w is satisfied given this Ctx's snapshot of
// time, events, and input.
func (c *Ctx) IsReady(w WaitFor) bool {
	guard.Check(c.g)
	return Runnable(w, c.Time, c.events, c.hasInput)
}
