package refscope

import "testing"

type fakeLiveness struct {
	gen map[int32]uint32
}

func (f *fakeLiveness) Live(id int32) bool {
	g, ok := f.gen[id]
	return ok && g&1 == 1
}

func (f *fakeLiveness) Generation(id int32) uint32 { return f.gen[id] }

func newFake() *fakeLiveness { return &fakeLiveness{gen: map[int32]uint32{1: 1, 2: 1}} }

func TestMintDerefRoundTrip(t *testing.T) {
	f := newFake()
	s := New(f, 42)
	ref := s.Mint(1, f.gen[1])
	id, ok := s.Deref(ref)
	if !ok || id != 1 {
		t.Fatalf("expected deref to resolve to 1, got %v %v", id, ok)
	}
}

func TestDerefFailsAfterGenerationAdvance(t *testing.T) {
	f := newFake()
	s := New(f, 42)
	ref := s.Mint(1, f.gen[1])
	f.gen[1]++ // destroyed
	if _, ok := s.Deref(ref); ok {
		t.Fatalf("expected deref to fail after generation advanced")
	}
}

func TestClearRevokesRefs(t *testing.T) {
	f := newFake()
	s := New(f, 42)
	ref := s.Mint(1, f.gen[1])
	s.Clear()
	if _, ok := s.Deref(ref); ok {
		t.Fatalf("expected deref to fail after Clear")
	}
}

func TestSubScopeFallsBackToParent(t *testing.T) {
	f := newFake()
	root := New(f, 1)
	ref := root.Mint(1, f.gen[1])
	child := root.Sub()
	id, ok := child.Deref(ref)
	if !ok || id != 1 {
		t.Fatalf("expected child scope to resolve parent-minted ref")
	}
}

func TestSubScopeClearDoesNotAffectParent(t *testing.T) {
	f := newFake()
	root := New(f, 1)
	child := root.Sub()
	childRef := child.Mint(2, f.gen[2])
	rootRef := root.Mint(1, f.gen[1])

	child.Clear()
	if _, ok := child.Deref(childRef); ok {
		t.Fatalf("expected child ref revoked")
	}
	if _, ok := root.Deref(rootRef); !ok {
		t.Fatalf("expected root ref to remain valid")
	}
}

func TestZeroRefNeverResolves(t *testing.T) {
	f := newFake()
	s := New(f, 1)
	if _, ok := s.Deref(0); ok {
		t.Fatalf("zero ref must never resolve")
	}
}
