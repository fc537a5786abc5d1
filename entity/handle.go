package entity

import "github.com/boopworld/boopworld/internal/guard"

// Handle is a guarded, capability-revoked view onto one entity (§4.11).
// Every accessor and mutator calls guard.Check first, so a Handle kept
// past its validator's scope panics the moment it is used rather than
// silently reading or writing stale state. task.Ctx and the shard
// package's external Entity API are both built on top of Handle.
type Handle struct {
	id    ID
	store *Store
	g     guard.Validator
}

// NewHandle wraps id in a Handle guarded by g. Callers outside this
// module's own packages should obtain Handles from a Ctx or ShardCtl,
// never construct them directly.
func NewHandle(id ID, store *Store, g guard.Validator) Handle {
	return Handle{id: id, store: store, g: g}
}

// Guard returns the Handle's validator, so callers composing further
// capabilities (e.g. the shard package's Entity wrapper) can chain it.
func (h Handle) Guard() guard.Validator { return h.g }

// Store returns the backing Store, for callers building further
// capabilities on top of a Handle.
func (h Handle) Store() *Store { return h.store }

// ID returns h's entity id.
func (h Handle) ID() ID {
	guard.Check(h.g)
	return h.id
}

// Live reports whether h still refers to a live entity, without raising
// the capability panic — used by code that wants to test liveness rather
// than assume it.
func (h Handle) Live() bool {
	return h.g.Valid() && h.store.Live(h.id)
}

// Location returns h's position.
func (h Handle) Location() Point {
	guard.Check(h.g)
	return h.store.Location(h.id)
}

// SetLocation moves h to p.
func (h Handle) SetLocation(p Point) {
	guard.Check(h.g)
	h.store.SetLocation(h.id, p)
}

// Z returns h's z-index.
func (h Handle) Z() int16 {
	guard.Check(h.g)
	return h.store.Z(h.id)
}

// SetZ sets h's z-index.
func (h Handle) SetZ(z int16) {
	guard.Check(h.g)
	h.store.SetZ(h.id, z)
}

// Glyph returns h's glyph.
func (h Handle) Glyph() rune {
	guard.Check(h.g)
	return h.store.Glyph(h.id)
}

// SetGlyph sets h's glyph.
func (h Handle) SetGlyph(r rune) {
	guard.Check(h.g)
	h.store.SetGlyph(h.id, r)
}

// Name returns h's name, if any.
func (h Handle) Name() (string, bool) {
	guard.Check(h.g)
	return h.store.Name(h.id)
}

// SetName attempts to give h the unique name n.
func (h Handle) SetName(n string) bool {
	guard.Check(h.g)
	return h.store.SetName(h.id, n)
}

// Type returns h's full type bitset.
func (h Handle) Type() Type {
	guard.Check(h.g)
	return h.store.Type(h.id)
}

// HasType reports whether h carries every flag in filter.
func (h Handle) HasType(filter Type) bool {
	guard.Check(h.g)
	return h.store.HasType(h.id, filter)
}

// IsSolid reports whether h blocks movement.
func (h Handle) IsSolid() bool { return h.HasType(Solid) }

// IsVisible reports whether h is rendered in views.
func (h Handle) IsVisible() bool { return h.HasType(Visible) }

// SetFlag sets or clears a single type bit on h.
func (h Handle) SetFlag(flag Type, set bool) {
	guard.Check(h.g)
	h.store.UpdateType(h.id, func(t Type) Type {
		if set {
			return t | flag
		}
		return t &^ flag
	})
}

// Destroy frees h's entity.
func (h Handle) Destroy() {
	guard.Check(h.g)
	h.store.Destroy(h.id)
}
