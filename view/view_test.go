package view

import (
	"testing"

	"github.com/boopworld/boopworld/entity"
	"github.com/boopworld/boopworld/refscope"
)

func newStore(t *testing.T) *entity.Store {
	t.Helper()
	return entity.New(16)
}

func TestComputeSeesUnobstructedEntity(t *testing.T) {
	s := newStore(t)
	perceiver, _ := s.Alloc()
	s.SetLocation(perceiver, entity.Point{0, 0})
	s.SetType(perceiver, entity.Mind)

	target, _ := s.Alloc()
	s.SetLocation(target, entity.Point{2, 0})
	s.SetType(target, entity.Visible)
	s.SetGlyph(target, 'D')

	scope := refscope.New(storeLiveness{s}, 1)
	vp := Computer{MaxRadius: 8}.Compute(storeAdapter{s}, perceiver, scope)

	glyph, ref, ok := vp.At(entity.Point{2, 0})
	if !ok || glyph != 'D' {
		t.Fatalf("expected to see target glyph D, got %q ok=%v", glyph, ok)
	}
	if id, derefOK := scope.Deref(ref); !derefOK || id != int32(target) {
		t.Fatalf("expected ref to resolve to target, got %v %v", id, derefOK)
	}
}

func TestComputeBlocksBehindSolid(t *testing.T) {
	s := newStore(t)
	perceiver, _ := s.Alloc()
	s.SetLocation(perceiver, entity.Point{0, 0})

	wall, _ := s.Alloc()
	s.SetLocation(wall, entity.Point{1, 0})
	s.SetType(wall, entity.Solid|entity.Visible)
	s.SetGlyph(wall, '#')

	hidden, _ := s.Alloc()
	s.SetLocation(hidden, entity.Point{2, 0})
	s.SetType(hidden, entity.Visible)
	s.SetGlyph(hidden, 'D')

	scope := refscope.New(storeLiveness{s}, 1)
	vp := Computer{MaxRadius: 8}.Compute(storeAdapter{s}, perceiver, scope)

	if _, _, ok := vp.At(entity.Point{2, 0}); ok {
		t.Fatalf("expected cell behind solid wall to be unreported")
	}
	glyph, _, ok := vp.At(entity.Point{1, 0})
	if !ok || glyph != '#' {
		t.Fatalf("expected to see the wall itself")
	}
}

func TestComputeIdentityThreshold(t *testing.T) {
	s := newStore(t)
	perceiver, _ := s.Alloc()
	s.SetLocation(perceiver, entity.Point{0, 0})

	far, _ := s.Alloc()
	s.SetLocation(far, entity.Point{10, 0})
	s.SetType(far, entity.Visible)
	s.SetGlyph(far, 'x')
	s.SetZ(far, 1)

	scope := refscope.New(storeLiveness{s}, 1)
	vp := Computer{MaxRadius: 20}.Compute(storeAdapter{s}, perceiver, scope)

	glyph, ref, ok := vp.At(entity.Point{10, 0})
	if !ok || glyph != 'x' {
		t.Fatalf("expected to see far glyph, got %q ok=%v", glyph, ok)
	}
	if ref != 0 {
		t.Fatalf("expected zero ref beyond identity threshold, got %v", ref)
	}
}

type storeAdapter struct{ s *entity.Store }

func (a storeAdapter) Live(id entity.ID) bool                  { return a.s.Live(id) }
func (a storeAdapter) Location(id entity.ID) entity.Point      { return a.s.Location(id) }
func (a storeAdapter) Z(id entity.ID) int16                    { return a.s.Z(id) }
func (a storeAdapter) Glyph(id entity.ID) rune                 { return a.s.Glyph(id) }
func (a storeAdapter) HasType(id entity.ID, f entity.Type) bool { return a.s.HasType(id, f) }
func (a storeAdapter) Spatial() *entity.SpatialIndex           { return a.s.Spatial() }
func (a storeAdapter) Generation(id entity.ID) uint32          { return a.s.Generation(id) }

type storeLiveness struct{ s *entity.Store }

func (l storeLiveness) Live(id int32) bool         { return l.s.Live(entity.ID(id)) }
func (l storeLiveness) Generation(id int32) uint32 { return l.s.Generation(entity.ID(id)) }
