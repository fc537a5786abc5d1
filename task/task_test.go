package task

import (
	"testing"

	"github.com/boopworld/boopworld/entity"
	"github.com/boopworld/boopworld/event"
	"github.com/boopworld/boopworld/input"
)

type alwaysValid struct{}

func (alwaysValid) Valid() bool { return true }

func newTestCtx(time, tick int64, events []event.Event, in []input.Datum, ms *MindState) *Ctx {
	st := entity.New(4)
	h := entity.NewHandle(entity.Root, st, alwaysValid{})
	var move Move
	return NewCtx(time, tick, h, nil, st, events, in, len(in) > 0, ms.Memory, &move, alwaysValid{})
}

func TestStepContinuesWhenNextWithoutWait(t *testing.T) {
	called := 0
	var second Thunk = func(ctx *Ctx) Result { return Done("finished") }
	first := func(ctx *Ctx) Result {
		called++
		return Continue(second, "moving on")
	}
	ms := NewMindState(first, 1)
	ctx := newTestCtx(0, 0, nil, nil, ms)

	res := Step(ms, ctx)
	if res.Outcome != OutcomeContinue {
		t.Fatalf("expected OutcomeContinue, got %v", res.Outcome)
	}
	if called != 1 {
		t.Fatalf("expected thunk called once, got %d", called)
	}
	if ms.Tick != 1 {
		t.Fatalf("expected tick counter to advance, got %d", ms.Tick)
	}

	ctx2 := newTestCtx(0, 0, nil, nil, ms)
	res2 := Step(ms, ctx2)
	if res2.Outcome != OutcomeReaped || res2.Remnant == nil || !res2.Remnant.Ok {
		t.Fatalf("expected reaped ok remnant, got %+v", res2)
	}
}

func TestStepReapsOnDoneWithoutNext(t *testing.T) {
	thunk := func(ctx *Ctx) Result { return Done("all done") }
	ms := NewMindState(thunk, 1)
	ctx := newTestCtx(0, 0, nil, nil, ms)

	res := Step(ms, ctx)
	if res.Outcome != OutcomeReaped {
		t.Fatalf("expected OutcomeReaped, got %v", res.Outcome)
	}
	if !res.Remnant.Done || !res.Remnant.Ok || res.Remnant.Reason != "all done" {
		t.Fatalf("unexpected remnant: %+v", res.Remnant)
	}
}

func TestStepReapsOnFailWithoutNext(t *testing.T) {
	thunk := func(ctx *Ctx) Result { return Fail("gave up") }
	ms := NewMindState(thunk, 1)
	ctx := newTestCtx(0, 0, nil, nil, ms)

	res := Step(ms, ctx)
	if res.Outcome != OutcomeReaped || res.Remnant.Ok {
		t.Fatalf("expected reaped, not-ok remnant, got %+v", res)
	}
}

func TestStepWaitsWhenConditionUnmet(t *testing.T) {
	thunk := func(ctx *Ctx) Result {
		return Wait(OnEvent(event.TypeHit), "waiting for a hit")
	}
	ms := NewMindState(thunk, 1)
	ctx := newTestCtx(0, 0, nil, nil, ms)

	res := Step(ms, ctx)
	if res.Outcome != OutcomeWaiting {
		t.Fatalf("expected OutcomeWaiting, got %v", res.Outcome)
	}
	if ms.WaitFor == nil {
		t.Fatalf("expected WaitFor to be registered")
	}
	if ms.Runnable(ctx) {
		t.Fatalf("mind should not be runnable while unmet")
	}
}

func TestStepProceedsWhenWaitAlreadySatisfied(t *testing.T) {
	thunk := func(ctx *Ctx) Result {
		return Wait(OnEvent(event.TypeHit), "waiting for a hit")
	}
	ms := NewMindState(thunk, 1)
	events := []event.Event{event.Hit(0)}
	ctx := newTestCtx(0, 0, events, nil, ms)

	res := Step(ms, ctx)
	if res.Outcome != OutcomeContinue {
		t.Fatalf("expected immediate continue when wait is already satisfied, got %v", res.Outcome)
	}
	if ms.WaitFor != nil {
		t.Fatalf("expected wait to be cleared once satisfied")
	}
}

func TestRunnableWakesOnSatisfiedWait(t *testing.T) {
	ms := &MindState{WaitFor: &WaitFor{Kind: KindTime, Time: 10}, Memory: NewMemory(1)}
	ctx := newTestCtx(5, 0, nil, nil, ms)
	if ms.Runnable(ctx) {
		t.Fatalf("should not be runnable before time reached")
	}
	ctx2 := newTestCtx(10, 0, nil, nil, ms)
	if !ms.Runnable(ctx2) {
		t.Fatalf("should be runnable once time reached")
	}
}

func TestValidateRejectsMalformedWaitFor(t *testing.T) {
	if err := Validate(WaitFor{Kind: KindEvent}); err != ErrInvalidWaitFor {
		t.Fatalf("expected ErrInvalidWaitFor for empty event type, got %v", err)
	}
	if err := Validate(Any()); err != ErrInvalidWaitFor {
		t.Fatalf("expected ErrInvalidWaitFor for empty any(), got %v", err)
	}
	if err := Validate(All(OnInput(), AtTime(1))); err != nil {
		t.Fatalf("expected valid waitFor tree, got %v", err)
	}
}

func TestMoveDeltaAndValid(t *testing.T) {
	if !MoveUp.Valid() || Move("sideways").Valid() {
		t.Fatalf("Valid did not distinguish alphabet members")
	}
	if dx, dy := MoveRight.Delta(); dx != 1 || dy != 0 {
		t.Fatalf("unexpected delta for right: %d,%d", dx, dy)
	}
	if dx, dy := MoveStay.Delta(); dx != 0 || dy != 0 {
		t.Fatalf("unexpected delta for stay: %d,%d", dx, dy)
	}
}

func TestMemorySnapshotIsIndependentCopy(t *testing.T) {
	m := NewMemory(7)
	m.Set("score", 3)
	snap := m.Snapshot()
	m.Set("score", 4)
	v, ok := snap.Get("score")
	if !ok || v != 3 {
		t.Fatalf("expected snapshot to retain value at time of copy, got %v ok=%v", v, ok)
	}
}
