package task

// MindState is the bookkeeping the scheduler keeps per entity carrying a
// MIND component: its current thunk, its outstanding wait condition (nil
// when runnable), a per-mind tick counter, and its persistent memory.
type MindState struct {
	Thunk   Thunk
	WaitFor *WaitFor
	Tick    int64
	Memory  *Memory
}

// NewMindState starts a fresh MindState running thunk, with a memory PRNG
// stream seeded from seed.
func NewMindState(thunk Thunk, seed uint64) *MindState {
	return &MindState{Thunk: thunk, Memory: NewMemory(seed)}
}

// Runnable reports whether ms has no outstanding wait, or its wait is
// already satisfied by the facts in ctx.
func (ms *MindState) Runnable(ctx *Ctx) bool {
	if ms.WaitFor == nil {
		return true
	}
	return ctx.IsReady(*ms.WaitFor)
}

// Outcome classifies what a Step call did to a mind.
type Outcome int

const (
	// OutcomeContinue means the mind ran, stayed (or became) runnable, and
	// should be stepped again if time remains in this tick-loop pass.
	OutcomeContinue Outcome = iota
	// OutcomeWaiting means the mind registered a wait condition that is
	// not yet satisfied; skip it until woken.
	OutcomeWaiting
	// OutcomeReaped means the mind finished (done or fail with no further
	// thunk) and should be torn down by the caller.
	OutcomeReaped
)

// Remnant is the terminal record left behind when a mind is reaped
// (§4.9): whether it finished and succeeded, its last reason, the time
// and per-mind tick of reaping, and a read-only snapshot of its memory at
// that moment. It does not carry the mind's last thunk, waitFor, move or
// events.
type Remnant struct {
	Done   bool
	Ok     bool
	Reason string
	Time   int64
	Tick   int64
	Memory Snapshot
}

// StepResult is the outcome of one Step call.
type StepResult struct {
	Outcome Outcome
	Remnant *Remnant
}

// Step runs ms's current thunk against ctx exactly once and applies the
// step_mind contract (§4.9):
//
//  1. the per-mind tick counter advances;
//  2. if the result carries a next thunk, it replaces ms.Thunk;
//  3. if the result carries a waitFor that is not yet satisfied, the wait
//     is registered and the mind stops for this tick-loop pass;
//  4. otherwise, if the result carried neither a next thunk nor a waitFor,
//     the mind is reaped;
//  5. otherwise (a next thunk, or a waitFor that was already satisfied
//     this step) the mind remains runnable.
//
// A waitFor that fails Validate reaps the mind with ok=false and
// ErrInvalidWaitFor as the reason.
func Step(ms *MindState, ctx *Ctx) StepResult {
	ms.Tick++
	ctx.Tick = ms.Tick

	res := ms.Thunk(ctx)

	if res.Next != nil {
		ms.Thunk = res.Next
	}

	if res.WaitFor != nil && Validate(*res.WaitFor) != nil {
		ms.WaitFor = nil
		return StepResult{
			Outcome: OutcomeReaped,
			Remnant: &Remnant{Done: true, Reason: ErrInvalidWaitFor.Error(), Time: ctx.Time, Tick: ms.Tick, Memory: ms.Memory.Snapshot()},
		}
	}

	if res.WaitFor != nil && !ctx.IsReady(*res.WaitFor) {
		ms.WaitFor = res.WaitFor
		return StepResult{Outcome: OutcomeWaiting}
	}
	ms.WaitFor = nil

	if res.WaitFor == nil && res.Next == nil {
		return StepResult{
			Outcome: OutcomeReaped,
			Remnant: &Remnant{
				Done:   res.Done,
				Ok:     res.Ok,
				Reason: res.Reason,
				Time:   ctx.Time,
				Tick:   ms.Tick,
				Memory: ms.Memory.Snapshot(),
			},
		}
	}
	return StepResult{Outcome: OutcomeContinue}
}
