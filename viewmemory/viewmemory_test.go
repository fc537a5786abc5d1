package viewmemory

import (
	"testing"

	"github.com/boopworld/boopworld/entity"
	"github.com/boopworld/boopworld/refscope"
)

type fakeViewport struct {
	center entity.Point
	cells  map[entity.Point]fakeCell
}

type fakeCell struct {
	glyph   rune
	ref     refscope.Ref
	blocked bool
}

func (f *fakeViewport) Center() entity.Point { return f.center }
func (f *fakeViewport) Radius() int          { return 8 }
func (f *fakeViewport) At(p entity.Point) (rune, refscope.Ref, bool) {
	c, ok := f.cells[p]
	if !ok {
		return 0, 0, false
	}
	return c.glyph, c.ref, true
}
func (f *fakeViewport) Blocked(p entity.Point) bool { return f.cells[p].blocked }
func (f *fakeViewport) Cells() []entity.Point {
	out := make([]entity.Point, 0, len(f.cells))
	for p := range f.cells {
		out = append(out, p)
	}
	return out
}

type fakeStore struct {
	names  map[int32]string
	canInt map[int32]bool
}

func (s fakeStore) Name(id entity.ID) (string, bool) {
	n, ok := s.names[int32(id)]
	return n, ok
}
func (s fakeStore) HasType(id entity.ID, f entity.Type) bool {
	return f == entity.Interact && s.canInt[int32(id)]
}

type fakeLiveness struct{ gen map[int32]uint32 }

func (f fakeLiveness) Live(id int32) bool         { return f.gen[id]&1 == 1 }
func (f fakeLiveness) Generation(id int32) uint32 { return f.gen[id] }

func TestIntegrateRecordsResolvedEntity(t *testing.T) {
	live := fakeLiveness{gen: map[int32]uint32{5: 1}}
	scope := refscope.New(live, 1)
	ref := scope.Mint(5, 1)

	vp := &fakeViewport{cells: map[entity.Point]fakeCell{
		{1, 1}: {glyph: 'D', ref: ref},
	}}
	store := fakeStore{names: map[int32]string{5: "door"}, canInt: map[int32]bool{5: true}}

	m := New()
	m.Integrate(vp, scope, store, 1)

	c, ok := m.At(entity.Point{1, 1})
	if !ok || !c.Known || c.Name != "door" || !c.CanInteract {
		t.Fatalf("unexpected cell: %+v ok=%v", c, ok)
	}
}

func TestIntegrateCarriesForwardKnownGlyph(t *testing.T) {
	live := fakeLiveness{gen: map[int32]uint32{5: 1}}
	scope := refscope.New(live, 1)
	store := fakeStore{names: map[int32]string{5: "wall"}, canInt: map[int32]bool{}}

	m := New()
	vp1 := &fakeViewport{cells: map[entity.Point]fakeCell{{0, 0}: {glyph: '#'}}}
	m.Integrate(vp1, scope, store, 1)
	c, _ := m.At(entity.Point{0, 0})
	if c.Known {
		t.Fatalf("unresolved glyph should not be known on first sight")
	}

	ref := scope.Mint(5, 1)
	vp2 := &fakeViewport{cells: map[entity.Point]fakeCell{{0, 0}: {glyph: '#', ref: ref}}}
	m.Integrate(vp2, scope, store, 2)

	scope.Clear()
	vp3 := &fakeViewport{cells: map[entity.Point]fakeCell{{0, 0}: {glyph: '#', ref: ref}}}
	m.Integrate(vp3, scope, store, 3)
	c, _ = m.At(entity.Point{0, 0})
	if !c.Known {
		t.Fatalf("expected known attribution to carry forward while the glyph still matches")
	}
}

func TestIntegrateGrowsAndPreservesOldCells(t *testing.T) {
	live := fakeLiveness{gen: map[int32]uint32{}}
	scope := refscope.New(live, 1)
	store := fakeStore{}

	m := New()
	vp1 := &fakeViewport{cells: map[entity.Point]fakeCell{{0, 0}: {glyph: 'a'}}}
	m.Integrate(vp1, scope, store, 1)

	vp2 := &fakeViewport{cells: map[entity.Point]fakeCell{{10, 10}: {glyph: 'b'}}}
	m.Integrate(vp2, scope, store, 2)

	if c, ok := m.At(entity.Point{0, 0}); !ok || c.Glyph != 'a' {
		t.Fatalf("expected old cell preserved after growth, got %+v ok=%v", c, ok)
	}
	if c, ok := m.At(entity.Point{10, 10}); !ok || c.Glyph != 'b' {
		t.Fatalf("expected new cell recorded, got %+v ok=%v", c, ok)
	}
}
