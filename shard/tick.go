package shard

import (
	"sort"
	"time"

	"github.com/boopworld/boopworld/entity"
	"github.com/boopworld/boopworld/event"
	"github.com/boopworld/boopworld/input"
	"github.com/boopworld/boopworld/internal/guard"
	"github.com/boopworld/boopworld/refscope"
	"github.com/boopworld/boopworld/task"
)

// turnReady reports whether phase 1 can stop: every mind that is
// currently runnable (not suspended on an unmet wait) has been stepped
// at least once this turn, and every entity matching the waits-for
// filter has submitted a move (§4.10 phase 1).
func (s *Shard) turnReady() bool {
	for id, ms := range s.minds {
		if ms.WaitFor == nil && !s.steppedThisTurn[id] {
			return false
		}
	}
	for _, id := range s.store.TypeIndex().Ids(s.cfg.UpdateWaitsFor) {
		if _, ok := s.moves[id]; !ok {
			return false
		}
	}
	return true
}

// runMinds is phase 1. It returns false if deadline was exceeded before
// the phase could finish; a later Update call resumes it.
func (s *Shard) runMinds(deadline time.Time) bool {
	if s.runOrder == nil {
		// The previous turn's event queues stay readable between Update
		// calls; they are cleared here, as the next turn begins.
		for _, q := range s.events {
			q.Clear()
		}
		s.runOrder = s.sortedMindIDs()
		s.steppedThisTurn = make(map[entity.ID]bool)
	}
	for {
		if s.cfg.Now().After(deadline) {
			return false
		}
		progressed := false
		for _, id := range s.runOrder {
			if !s.store.Live(id) {
				continue
			}
			ms, ok := s.minds[id]
			if !ok {
				continue
			}
			if s.stepMind(id, ms) {
				progressed = true
			}
			if s.cfg.Now().After(deadline) {
				return false
			}
		}
		if s.turnReady() {
			break
		}
		if !progressed {
			break
		}
	}
	return true
}

// stepMind steps id's mind once if it is currently runnable, applying the
// resulting move (if any) and the step_mind contract's reap rules.
// Reports whether a step was actually taken.
func (s *Shard) stepMind(id entity.ID, ms *task.MindState) bool {
	q := s.inputQueues[id]
	hasInput := q != nil && q.NonEmpty()
	eventsSnapshot := s.eventQueueFor(id).All()

	if ms.WaitFor != nil && !task.Runnable(*ms.WaitFor, s.time, eventsSnapshot, hasInput) {
		return false
	}
	if ms.Thunk == nil {
		s.steppedThisTurn[id] = true
		s.reapInternal(id, task.Remnant{
			Reason: ErrNoThunk.Error(),
			Time:   s.time,
			Tick:   ms.Tick,
			Memory: ms.Memory.Snapshot(),
		})
		return true
	}

	var inData []input.Datum
	if q != nil {
		inData = q.Drain()
	}
	// A WaitFor the thunk returns from this step is evaluated against the
	// queue's state after that drain, not before it: otherwise a thunk
	// that consumes the input it was just woken for and immediately
	// re-waits on "input" would see its own already-consumed batch as
	// already satisfying the new wait.
	postDrainHasInput := q != nil && q.NonEmpty()

	s.tick++
	g := guard.Composite{guard.NewTimeGuard(s, true), guard.NewEntityGuard(s.liveness, int32(id))}
	h := entity.NewHandle(id, s.store, g)
	var move task.Move
	ctx := task.NewCtx(s.time, ms.Tick, h, s.mindScopes[id], s.store, eventsSnapshot, inData, postDrainHasInput, ms.Memory, &move, g)

	// A thunk that stashes a prior step's Ctx (or a handle derived from
	// it) in a closure and calls back into it panics at the guard layer
	// (§4.11). guard.Run catches exactly that panic so it is reported at
	// the mind-step boundary as a reap, per §7, instead of crashing
	// Update's caller.
	var res task.StepResult
	if !guard.Run(func() { res = task.Step(ms, ctx) }) {
		s.steppedThisTurn[id] = true
		s.reapInternal(id, task.Remnant{
			Reason: ErrObsoleteHandle.Error(),
			Time:   s.time,
			Tick:   ms.Tick,
			Memory: ms.Memory.Snapshot(),
		})
		return true
	}
	s.steppedThisTurn[id] = true

	switch {
	case res.Outcome == task.OutcomeReaped:
		s.reapInternal(id, *res.Remnant)
		if move.Valid() {
			s.moves[id] = move
		}
	case move != "" && !move.Valid():
		s.reapInternal(id, task.Remnant{
			Reason: ErrInvalidMove.Error(),
			Time:   s.time,
			Tick:   ms.Tick,
			Memory: ms.Memory.Snapshot(),
		})
	case move != "":
		s.moves[id] = move
	}
	return true
}

// applyMoves is phase 2. Moves are only actually applied on turns that
// land on a move-processing cycle (every cfg.MoveRate turns); on other
// turns the submitted moves are discarded without effect, and no
// move/inspect events are produced.
func (s *Shard) applyMoves(deadline time.Time) bool {
	if s.time%int64(s.cfg.MoveRate) != 0 {
		return true
	}
	if s.moveOrder == nil {
		ids := make([]entity.ID, 0, len(s.moves))
		for id := range s.moves {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		s.moveOrder = ids
	}
	for ; s.moveCursor < len(s.moveOrder); s.moveCursor++ {
		if s.cfg.Now().After(deadline) {
			return false
		}
		s.applyOneMove(s.moveOrder[s.moveCursor])
	}
	return true
}

func (s *Shard) applyOneMove(id entity.ID) {
	mv, ok := s.moves[id]
	if !ok || !s.store.Live(id) {
		return
	}
	from := s.store.Location(id)

	if mv == task.MoveStay {
		here := s.refsAt(from, id, entity.Interact)
		s.eventQueueFor(id).Push(event.Inspect(here))
		return
	}

	dx, dy := mv.Delta()
	to := from.Add(dx, dy)

	var subject entity.ID
	haveSubject := false
	if s.store.HasType(id, entity.Solid) {
		for _, oid := range s.store.Spatial().At(to) {
			if !s.store.HasType(oid, entity.Solid) {
				continue
			}
			if !haveSubject || s.store.Z(oid) > s.store.Z(subject) {
				subject, haveSubject = oid, true
			}
		}
	}
	if haveSubject {
		s.runInteraction(id, subject)
		return
	}

	s.store.SetLocation(id, to)
	here := s.refsAt(to, id, entity.Interact)
	s.eventQueueFor(id).Push(event.Move(from, to, here))
}

// refsAt mints refs, into exclude's own mind scope, for every live entity
// at p carrying filter other than exclude itself.
func (s *Shard) refsAt(p entity.Point, exclude entity.ID, filter entity.Type) []refscope.Ref {
	scope := s.scopeFor(exclude)
	var refs []refscope.Ref
	for _, id := range s.store.Spatial().At(p) {
		if id == exclude || !s.store.HasType(id, filter) {
			continue
		}
		refs = append(refs, scope.Mint(int32(id), s.store.Generation(id)))
	}
	return refs
}

func (s *Shard) scopeFor(id entity.ID) *refscope.Scope {
	if sc, ok := s.mindScopes[id]; ok {
		return sc
	}
	return s.rootScope
}

// runInteraction applies the collision protocol: mover's move is blocked
// by subject. A registered InteractFunc on subject runs in place of the
// default hit/hitBy pair.
func (s *Shard) runInteraction(mover, subject entity.ID) {
	if fn, ok := s.interactHandlers[subject]; ok {
		revoked := false
		g := guard.NewTimeGuard(s, true)
		ic := InteractCtx{
			Self:    s.wrap(mover, g).Handle,
			Subject: s.wrap(subject, g).Handle,
			Time:    s.time,
			queueSelf: func(e event.Event) {
				s.eventQueueFor(mover).Push(e)
			},
			queueSubject: func(e event.Event) {
				s.eventQueueFor(subject).Push(e)
			},
			revoked: &revoked,
		}
		fn(ic)
		revoked = true
		return
	}

	targetRef := s.scopeFor(mover).Mint(int32(subject), s.store.Generation(subject))
	s.eventQueueFor(mover).Push(event.Hit(targetRef))
	if s.store.HasType(subject, entity.Mind) {
		byRef := s.scopeFor(subject).Mint(int32(mover), s.store.Generation(mover))
		s.eventQueueFor(subject).Push(event.HitBy(byRef))
	}
}

// computeSenses is phase 3.
func (s *Shard) computeSenses(deadline time.Time) bool {
	if s.senseOrder == nil {
		s.senseOrder = s.sortedMindIDs()
	}
	for ; s.senseCursor < len(s.senseOrder); s.senseCursor++ {
		if s.cfg.Now().After(deadline) {
			return false
		}
		id := s.senseOrder[s.senseCursor]
		if !s.store.Live(id) {
			continue
		}
		scope := s.scopeFor(id)
		vp := s.viewer.Compute(s.store, id, scope)
		s.eventQueueFor(id).Push(event.View(vp))
		if mem, ok := s.viewMemories[id]; ok {
			mem.Integrate(vp, scope, s.store, s.time)
		}
	}
	return true
}

// runControl is phase 4. It is never deadline-bounded.
func (s *Shard) runControl() {
	if s.cfg.Control == nil {
		return
	}
	g := guard.NewTimeGuard(s, false)
	ctl := &Ctl{sh: s, scope: s.rootScope, g: g}
	if !guard.Run(func() { s.cfg.Control(ctl) }) {
		s.cfg.Log.Warn("control hook used a handle past its valid scope", "time", s.time)
	}
}

// advanceTime is phase 5.
func (s *Shard) advanceTime() {
	s.time++
	s.tick = 0
	for _, ms := range s.minds {
		ms.Tick = 0
	}
	s.rootScope.Clear()
	for _, sc := range s.mindScopes {
		sc.Clear()
	}

	s.moves = make(map[entity.ID]task.Move)
	s.runOrder = nil
	s.steppedThisTurn = nil
	s.moveOrder = nil
	s.moveCursor = 0
	s.senseOrder = nil
	s.senseCursor = 0
}
