// Package task implements the per-entity thunk execution model: the
// Thunk/Result contract, the WaitFor grammar, the per-step context, and
// the step_mind contract that drives it (§4.9).
package task

// Move is one of the five grid moves a mind may choose per turn (§6).
type Move string

const (
	MoveUp    Move = "up"
	MoveRight Move = "right"
	MoveDown  Move = "down"
	MoveLeft  Move = "left"
	MoveStay  Move = "stay"
)

// Valid reports whether m is one of the five moves in the move alphabet.
func (m Move) Valid() bool {
	switch m {
	case MoveUp, MoveRight, MoveDown, MoveLeft, MoveStay:
		return true
	}
	return false
}

// Delta returns the (dx, dy) grid offset for m. Stay returns (0, 0).
func (m Move) Delta() (dx, dy int16) {
	switch m {
	case MoveUp:
		return 0, -1
	case MoveRight:
		return 1, 0
	case MoveDown:
		return 0, 1
	case MoveLeft:
		return -1, 0
	default:
		return 0, 0
	}
}

// Thunk is a suspendable per-entity task. It is invoked with a freshly
// derived Ctx on every step and returns a Result describing what should
// happen next.
type Thunk func(ctx *Ctx) Result

// Result is the outcome of one Thunk invocation (§4.9). Exactly the
// fields relevant to the chosen constructor are populated; see the step
// contract in Step for how they are interpreted.
type Result struct {
	Done    bool
	Ok      bool
	Reason  string
	Next    Thunk
	WaitFor *WaitFor
}

// Done ends the task successfully; the mind is reaped with ok=true unless
// a further thunk is supplied, in which case the runtime continues with
// it instead of reaping.
func Done(reason string, next ...Thunk) Result {
	r := Result{Done: true, Ok: true, Reason: reason}
	if len(next) > 0 {
		r.Next = next[0]
	}
	return r
}

// Fail ends the task unsuccessfully; the mind is reaped with ok=false
// unless next is supplied.
func Fail(reason string, next ...Thunk) Result {
	r := Result{Done: true, Ok: false, Reason: reason}
	if len(next) > 0 {
		r.Next = next[0]
	}
	return r
}

// Continue replaces the task with next and keeps the mind runnable.
func Continue(next Thunk, reason string) Result {
	return Result{Next: next, Reason: reason}
}

// Wait suspends the task on waitFor. If next is supplied, it replaces the
// task for when the mind next runs; otherwise the same thunk runs again.
func Wait(waitFor WaitFor, reason string, next ...Thunk) Result {
	r := Result{WaitFor: &waitFor, Reason: reason}
	if len(next) > 0 {
		r.Next = next[0]
	}
	return r
}
