package guard

import "testing"

type fakeClock struct{ time, tick int64 }

func (c *fakeClock) Time() int64 { return c.time }
func (c *fakeClock) Tick() int64 { return c.tick }

func TestTimeGuardTurnScoped(t *testing.T) {
	c := &fakeClock{time: 1, tick: 0}
	g := NewTimeGuard(c, false)
	c.tick = 5
	if !g.Valid() {
		t.Fatalf("turn-scoped guard should tolerate tick advance")
	}
	c.time = 2
	if g.Valid() {
		t.Fatalf("turn-scoped guard should invalidate on time advance")
	}
}

func TestTimeGuardStepScoped(t *testing.T) {
	c := &fakeClock{time: 1, tick: 3}
	g := NewTimeGuard(c, true)
	if !g.Valid() {
		t.Fatalf("expected guard valid at mint")
	}
	c.tick = 4
	if g.Valid() {
		t.Fatalf("step-scoped guard should invalidate on tick advance")
	}
}

type fakeLiveness struct{ gen map[int32]uint32 }

func (f fakeLiveness) Live(id int32) bool         { return f.gen[id]&1 == 1 }
func (f fakeLiveness) Generation(id int32) uint32 { return f.gen[id] }

func TestEntityGuard(t *testing.T) {
	live := fakeLiveness{gen: map[int32]uint32{1: 1}}
	g := NewEntityGuard(live, 1)
	if !g.Valid() {
		t.Fatalf("expected guard valid right after mint")
	}
	live.gen[1] = 2
	if g.Valid() {
		t.Fatalf("expected guard invalid after destroy")
	}
}

func TestCompositeRequiresAll(t *testing.T) {
	always := ValidatorFunc(func() bool { return true })
	never := ValidatorFunc(func() bool { return false })
	if !(Composite{always, always}).Valid() {
		t.Fatalf("expected composite of valid validators to be valid")
	}
	if (Composite{always, never}).Valid() {
		t.Fatalf("expected composite with one invalid validator to be invalid")
	}
}

func TestRunRecoversCheckPanic(t *testing.T) {
	never := ValidatorFunc(func() bool { return false })
	ok := Run(func() {
		Check(never)
		t.Fatalf("should not reach past Check")
	})
	if ok {
		t.Fatalf("expected Run to report ok=false")
	}
}

func TestRunPropagatesOtherPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected unrelated panic to propagate")
		}
	}()
	Run(func() { panic("boom") })
}

func TestValueReturnsResultOnSuccess(t *testing.T) {
	v, ok := Value(func() int { return 42 })
	if !ok || v != 42 {
		t.Fatalf("unexpected Value result: %v %v", v, ok)
	}
}
