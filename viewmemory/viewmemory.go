// Package viewmemory implements each mind's persistent, merged viewport
// (§4.8): a growable grid that integrates successive "view" events into a
// larger remembered map.
package viewmemory

import (
	"golang.org/x/text/width"

	"github.com/boopworld/boopworld/entity"
	"github.com/boopworld/boopworld/event"
	"github.com/boopworld/boopworld/refscope"
)

// Cell is one remembered grid cell.
type Cell struct {
	Glyph       rune
	LastSeen    int64
	Ref         refscope.Ref
	Name        string
	Blocked     bool
	CanInteract bool
	Known       bool
}

// ViewportSource is the surface Memory needs from a computed viewport to
// integrate it; view.Viewport implements this.
type ViewportSource interface {
	event.ViewportReader
	Cells() []entity.Point
	Blocked(p entity.Point) bool
}

// Store is the subset of entity state Memory needs to enrich a
// dereferenced cell with a name and interactability.
type Store interface {
	Name(id entity.ID) (string, bool)
	HasType(id entity.ID, filter entity.Type) bool
}

// Memory is one mind's persistent view of the world. The zero value is an
// empty, usable Memory.
type Memory struct {
	originX, originY int
	w, h             int
	cells            []Cell
	has              []bool
}

// New returns an empty Memory.
func New() *Memory { return &Memory{} }

func (m *Memory) index(p entity.Point) (int, bool) {
	x, y := int(p.X)-m.originX, int(p.Y)-m.originY
	if x < 0 || y < 0 || x >= m.w || y >= m.h {
		return 0, false
	}
	return y*m.w + x, true
}

// grow resizes the backing grid, via an explicit copy, so that it covers
// every point in pts in addition to its current bounds.
func (m *Memory) grow(pts []entity.Point) {
	minX, minY := m.originX, m.originY
	maxX, maxY := m.originX+m.w-1, m.originY+m.h-1
	first := m.w == 0 || m.h == 0
	for _, p := range pts {
		x, y := int(p.X), int(p.Y)
		if first {
			minX, maxX = x, x
			minY, maxY = y, y
			first = false
			continue
		}
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}
	newW, newH := maxX-minX+1, maxY-minY+1
	if minX == m.originX && minY == m.originY && newW == m.w && newH == m.h {
		return
	}
	newCells := make([]Cell, newW*newH)
	newHas := make([]bool, newW*newH)
	if m.w > 0 && m.h > 0 {
		for y := 0; y < m.h; y++ {
			for x := 0; x < m.w; x++ {
				oldIdx := y*m.w + x
				if !m.has[oldIdx] {
					continue
				}
				worldX, worldY := m.originX+x, m.originY+y
				nx, ny := worldX-minX, worldY-minY
				newIdx := ny*newW + nx
				newCells[newIdx] = m.cells[oldIdx]
				newHas[newIdx] = true
			}
		}
	}
	m.originX, m.originY = minX, minY
	m.w, m.h = newW, newH
	m.cells, m.has = newCells, newHas
}

// Integrate merges one "view" event's viewport into the memory at turn
// now, using scope to resolve refs minted for the perceiver this turn and
// store to enrich resolved entities with name/interactability.
func (m *Memory) Integrate(vp ViewportSource, scope *refscope.Scope, store Store, now int64) {
	pts := vp.Cells()
	if len(pts) == 0 {
		return
	}
	m.grow(pts)

	for _, p := range pts {
		idx, ok := m.index(p)
		if !ok {
			continue
		}
		glyph, ref, _ := vp.At(p)
		blocked := vp.Blocked(p)

		if id, ok := scope.Deref(ref); ok {
			name, _ := store.Name(id)
			canInteract := store.HasType(id, entity.Interact)
			m.cells[idx] = Cell{
				Glyph:       glyph,
				LastSeen:    now,
				Ref:         ref,
				Name:        name,
				Blocked:     blocked,
				CanInteract: canInteract,
				Known:       true,
			}
			m.has[idx] = true
			continue
		}

		prior := m.cells[idx]
		known := m.has[idx] && prior.Known && prior.Glyph == glyph
		if glyph == 0 || glyph == ' ' {
			known = false
		}
		m.cells[idx] = Cell{
			Glyph:    glyph,
			LastSeen: now,
			Blocked:  blocked,
			Known:    known,
			Name:     prior.Name,
		}
		if !known {
			m.cells[idx].Name = ""
		}
		m.has[idx] = true
	}
}

// At returns the remembered cell at p, if any.
func (m *Memory) At(p entity.Point) (Cell, bool) {
	idx, ok := m.index(p)
	if !ok || !m.has[idx] {
		return Cell{}, false
	}
	return m.cells[idx], true
}

// Bounds returns the current backing rectangle of the memory.
func (m *Memory) Bounds() entity.Rect {
	return entity.Rect{X: int16(m.originX), Y: int16(m.originY), W: int16(m.w), H: int16(m.h)}
}

// CellWidth classifies the display width of a remembered glyph, used by
// the demo console's fixed-grid renderer to pad double-width glyphs.
func CellWidth(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	default:
		return 1
	}
}
