package shard

import (
	"github.com/boopworld/boopworld/entity"
	"github.com/boopworld/boopworld/event"
)

// InteractFunc is a custom collision handler registered on an entity's
// INTERACT component. It runs in place of the default hit/hitBy pair
// when that entity is the subject of a move collision (§4.10 "interaction
// protocol").
type InteractFunc func(ctx InteractCtx)

// InteractCtx is the ephemeral context passed to an InteractFunc. Its
// QueueEvents capability is revoked the moment the handler returns.
type InteractCtx struct {
	Self, Subject entity.Handle
	Time          int64

	queueSelf    func(event.Event)
	queueSubject func(event.Event)
	revoked      *bool
}

// QueueEvents enqueues selfEvent onto the mover's own event queue and
// subjectEvent onto the subject's, skipping either that is nil. Calling
// it after the handler has returned panics.
func (ic InteractCtx) QueueEvents(selfEvent, subjectEvent *event.Event) {
	if *ic.revoked {
		panic("boopworld: InteractCtx used after handler returned")
	}
	if selfEvent != nil {
		ic.queueSelf(*selfEvent)
	}
	if subjectEvent != nil {
		ic.queueSubject(*subjectEvent)
	}
}
