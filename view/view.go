// Package view implements the field-of-view computation that feeds each
// perceiver's "view" event (§4.7). Visibility per cell is determined by a
// line-of-sight cast from the perceiver's cell to the target cell,
// blocked by any SOLID occupant strictly between the two — the grid
// analogue of shadow-casting described in the data model.
package view

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/boopworld/boopworld/entity"
	"github.com/boopworld/boopworld/refscope"
)

// Default thresholds, per §4.7/§9: beyond identityRadius the minted ref is
// zeroed ("seen but not identified"); beyond visibilityRadius the cell is
// not reported at all. Both are fixed per-shard constants, not exposed on
// Config, per the spec's own Open Questions resolution.
const (
	identityRadius   = 3  // floor(sqrt(1/0.1))
	visibilityRadius = 31 // floor(sqrt(1/0.001))
	defaultMaxRadius = visibilityRadius
)

// cell is what the computer remembers about one visible grid cell.
type cell struct {
	glyph   rune
	ref     refscope.Ref
	blocked bool
}

// Viewport is a 2-D window of cells centered on a perceiver, as computed
// by a single Compute call. It implements event.ViewportReader.
type Viewport struct {
	center entity.Point
	radius int
	cells  map[entity.Point]cell
}

// Center returns the cell the viewport is centered on.
func (v *Viewport) Center() entity.Point { return v.center }

// Radius returns the maximum radius the viewport was computed with.
func (v *Viewport) Radius() int { return v.radius }

// At returns the glyph and ref recorded for p, if p was reached and
// reported by the field-of-view computation.
func (v *Viewport) At(p entity.Point) (rune, refscope.Ref, bool) {
	c, ok := v.cells[p]
	if !ok {
		return 0, 0, false
	}
	return c.glyph, c.ref, true
}

// Blocked reports whether p was recorded as blocked (opaque) in v.
func (v *Viewport) Blocked(p entity.Point) bool {
	c, ok := v.cells[p]
	return ok && c.blocked
}

// Cells returns every cell position recorded in v. Order is unspecified.
func (v *Viewport) Cells() []entity.Point {
	out := make([]entity.Point, 0, len(v.cells))
	for p := range v.cells {
		out = append(out, p)
	}
	return out
}

// Store is the subset of entity.Store the view computer needs.
type Store interface {
	Live(id entity.ID) bool
	Location(id entity.ID) entity.Point
	Z(id entity.ID) int16
	Glyph(id entity.ID) rune
	HasType(id entity.ID, filter entity.Type) bool
	Spatial() *entity.SpatialIndex
	Generation(id entity.ID) uint32
}

// Computer computes viewports for perceivers via a per-cell
// line-of-sight cast.
type Computer struct {
	// MaxRadius bounds the square region searched around the perceiver; it
	// is further clamped to visibilityRadius. Zero means "use the
	// default".
	MaxRadius int
}

// Compute returns the viewport visible from perceiver's current location,
// minting a Ref for every identified entity into scope.
func (c Computer) Compute(store Store, perceiver entity.ID, scope *refscope.Scope) *Viewport {
	radius := c.MaxRadius
	if radius <= 0 || radius > visibilityRadius {
		radius = defaultMaxRadius
	}
	center := store.Location(perceiver)
	vp := &Viewport{center: center, radius: radius, cells: make(map[entity.Point]cell)}

	vp.set(store, perceiver, scope, center, 0)
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if mgl64.Vec2{float64(dx), float64(dy)}.Len() > float64(radius) {
				continue
			}
			p := entity.Point{X: center.X + int16(dx), Y: center.Y + int16(dy)}
			dist := chebyshev(dx, dy)
			if dist > visibilityRadius {
				continue
			}
			if !lineOfSight(store, center, p) {
				continue
			}
			vp.set(store, perceiver, scope, p, dist)
		}
	}
	return vp
}

func chebyshev(dx, dy int) int {
	ax, ay := dx, dy
	if ax < 0 {
		ax = -ax
	}
	if ay < 0 {
		ay = -ay
	}
	if ax > ay {
		return ax
	}
	return ay
}

// set records (or updates) the cell at p, given its distance from center.
func (vp *Viewport) set(store Store, perceiver entity.ID, scope *refscope.Scope, p entity.Point, dist int) {
	ids := store.Spatial().At(p)
	var (
		glyph   rune
		blocked bool
		bestID  entity.ID
		bestZ   int16
		haveVis bool
	)
	for _, id := range ids {
		if id == perceiver {
			continue
		}
		if store.HasType(id, entity.Solid) {
			blocked = true
		}
	}
	for _, id := range ids {
		if !store.HasType(id, entity.Visible) {
			continue
		}
		z := store.Z(id)
		if !haveVis || z > bestZ || (z == bestZ && id > bestID) {
			bestID, bestZ, haveVis = id, z, true
		}
	}
	var ref refscope.Ref
	if haveVis {
		glyph = store.Glyph(bestID)
		if dist <= identityRadius {
			ref = scope.Mint(int32(bestID), store.Generation(bestID))
		}
	}
	vp.cells[p] = cell{glyph: glyph, ref: ref, blocked: blocked}
}

// lineOfSight walks the grid line from center to p (exclusive of both
// endpoints) using a fixed-point Bresenham walk and reports whether no
// intervening cell contains a SOLID occupant (other than the perceiver's
// own cell, which is never itself an obstruction to its own sight line).
func lineOfSight(store Store, from, to entity.Point) bool {
	x0, y0 := int(from.X), int(from.Y)
	x1, y1 := int(to.X), int(to.Y)

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 >= x1 {
		sx = -1
	}
	if y0 >= y1 {
		sy = -1
	}
	err := dx + dy

	x, y := x0, y0
	for {
		if x == x1 && y == y1 {
			return true
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
		if x == x1 && y == y1 {
			return true
		}
		if blockedAt(store, entity.Point{X: int16(x), Y: int16(y)}) {
			return false
		}
	}
}

func blockedAt(store Store, p entity.Point) bool {
	for _, id := range store.Spatial().At(p) {
		if store.HasType(id, entity.Solid) {
			return true
		}
	}
	return false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
