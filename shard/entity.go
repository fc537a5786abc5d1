package shard

import (
	"github.com/boopworld/boopworld/entity"
	"github.com/boopworld/boopworld/input"
	"github.com/boopworld/boopworld/refscope"
	"github.com/boopworld/boopworld/task"
)

// Entity is the mutable handle external code (build/control callbacks,
// InteractFunc handlers) receives for one entity (§6). It embeds
// entity.Handle for the guarded field accessors and adds the
// shard-level capabilities — create, destroy, arming a mind, and
// rebinding input — that need access to the owning Shard's services.
type Entity struct {
	entity.Handle
	sh *Shard
}

// Ref returns an opaque reference to this entity, minted into the
// calling scope (the root scope during build/control, or the entity's
// own mind scope when obtained via a task Ctx).
func (e Entity) Ref(scope *refscope.Scope) refscope.Ref {
	id := e.ID()
	return scope.Mint(int32(id), e.sh.store.Generation(id))
}

// EntitySpec describes a new entity's initial fields for Entity.Create.
// Nothing is inherited: a zero Glyph or Z, or a false flag, is stored as
// given.
type EntitySpec struct {
	Name         string
	Location     entity.Point
	Z            int16
	Glyph        rune
	IsSolid      bool
	IsVisible    bool
	HasInteract  bool
	Mind         task.Thunk
	AcceptsInput bool
}

// Create allocates a new entity from spec alone and returns its handle.
// No field is inherited from e or from the Root entity.
func (e Entity) Create(spec EntitySpec) (Entity, error) {
	return e.sh.create(spec, e.Handle.Guard())
}

// Destroy frees the entity, running its INPUT, MIND, then INTERACT
// teardown hooks in that order.
func (e Entity) Destroy() {
	e.Handle.Destroy()
}

// SetMind arms the task runtime with thunk, replacing any previous mind
// and starting its per-mind tick counter and memory fresh.
func (e Entity) SetMind(thunk task.Thunk) {
	e.sh.armMind(e.ID(), thunk)
}

// SetInput establishes a fresh input queue and binder for the entity,
// revoking any prior binder, and returns the Push capability for
// external callers to feed input with.
func (e Entity) SetInput() input.Push {
	return e.sh.armInput(e.ID())
}

// SetInteract registers fn as the entity's custom collision handler,
// consulted when it is the subject of a move collision. A nil fn clears
// any previously registered handler and restores the default hit/hitBy
// behavior.
func (e Entity) SetInteract(fn InteractFunc) {
	e.sh.setInteract(e.ID(), fn)
}
