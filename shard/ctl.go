package shard

import (
	"sort"

	"github.com/boopworld/boopworld/entity"
	"github.com/boopworld/boopworld/event"
	"github.com/boopworld/boopworld/internal/guard"
	"github.com/boopworld/boopworld/refscope"
	"github.com/boopworld/boopworld/task"
)

// Ctl is the ShardCtl control surface (§6) passed to Config.Build and
// Config.Control. Every handle it mints is guarded by g, a turn-scoped
// TimeGuard, so nothing it returns may be used past the call that
// produced it.
type Ctl struct {
	sh    *Shard
	scope *refscope.Scope
	g     guard.Validator
}

// Time returns the current turn counter.
func (c *Ctl) Time() int64 {
	guard.Check(c.g)
	return c.sh.time
}

// Tick returns the current within-turn tick counter.
func (c *Ctl) Tick() int64 {
	guard.Check(c.g)
	return c.sh.tick
}

// Root returns the indestructible prototype entity.
func (c *Ctl) Root() Entity {
	guard.Check(c.g)
	return c.sh.wrap(entity.Root, c.g)
}

// Entities returns every live entity matching filter. A zero filter
// matches every live entity.
func (c *Ctl) Entities(filter entity.Type) []Entity {
	guard.Check(c.g)
	var ids []entity.ID
	if filter == 0 {
		for i := 0; i < c.sh.store.Capacity(); i++ {
			id := entity.ID(i)
			if c.sh.store.Live(id) {
				ids = append(ids, id)
			}
		}
	} else {
		ids = c.sh.store.TypeIndex().Ids(filter)
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	}
	return c.sh.wrapAll(ids, c.g)
}

// At returns the live entities currently occupying p.
func (c *Ctl) At(p entity.Point) []Entity {
	guard.Check(c.g)
	return c.sh.wrapAll(c.sh.store.Spatial().At(p), c.g)
}

// CellEntities pairs a grid cell with the entities occupying it.
type CellEntities struct {
	Point    entity.Point
	Entities []Entity
}

// Within returns every occupied cell inside r, each paired with its
// occupants, in row-major order.
func (c *Ctl) Within(r entity.Rect) []CellEntities {
	guard.Check(c.g)
	byCell := c.sh.store.Spatial().Within(r)
	out := make([]CellEntities, 0, len(byCell))
	for p, ids := range byCell {
		out = append(out, CellEntities{Point: p, Entities: c.sh.wrapAll(ids, c.g)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Point.Y != out[j].Point.Y {
			return out[i].Point.Y < out[j].Point.Y
		}
		return out[i].Point.X < out[j].Point.X
	})
	return out
}

// EventRecord pairs an entity with one event buffered against it this
// turn.
type EventRecord struct {
	Entity Entity
	Event  event.Event
}

// Events returns every event buffered this turn, across all entities, in
// entity-id then emission order.
func (c *Ctl) Events() []EventRecord {
	guard.Check(c.g)
	ids := make([]entity.ID, 0, len(c.sh.events))
	for id := range c.sh.events {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	var out []EventRecord
	for _, id := range ids {
		ent := c.sh.wrap(id, c.g)
		for _, e := range c.sh.events[id].All() {
			out = append(out, EventRecord{Entity: ent, Event: e})
		}
	}
	return out
}

// MoveRecord pairs an entity with the move it submitted this turn.
type MoveRecord struct {
	Entity Entity
	Move   task.Move
}

// Moves returns every move submitted this turn, in entity-id order.
func (c *Ctl) Moves() []MoveRecord {
	guard.Check(c.g)
	ids := make([]entity.ID, 0, len(c.sh.moves))
	for id := range c.sh.moves {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]MoveRecord, len(ids))
	for i, id := range ids {
		out[i] = MoveRecord{Entity: c.sh.wrap(id, c.g), Move: c.sh.moves[id]}
	}
	return out
}

// ReapRecord pairs a just-reaped entity with its terminal Remnant.
type ReapRecord struct {
	Entity  Entity
	Remnant task.Remnant
}

// Reap drains and returns every mind reaped since the last call.
func (c *Ctl) Reap() []ReapRecord {
	guard.Check(c.g)
	pending := c.sh.remnants
	c.sh.remnants = nil
	out := make([]ReapRecord, len(pending))
	for i, r := range pending {
		out[i] = ReapRecord{Entity: c.sh.wrap(r.id, c.g), Remnant: r.remnant}
	}
	return out
}

// Deref resolves ref against the control scope (the root scope).
func (c *Ctl) Deref(ref refscope.Ref) (Entity, bool) {
	guard.Check(c.g)
	id, ok := c.scope.Deref(ref)
	if !ok {
		return Entity{}, false
	}
	return c.sh.wrap(entity.ID(id), c.g), true
}

// ByName resolves a unique entity name.
func (c *Ctl) ByName(name string) (Entity, bool) {
	guard.Check(c.g)
	id, ok := c.sh.store.ByName(name)
	if !ok {
		return Entity{}, false
	}
	return c.sh.wrap(id, c.g), true
}
