// Package shard implements the tick-driven simulation engine: entity
// storage, the task scheduler, and the guarded control surface handed to
// callers (§4.10, §6). It is the top-level package tying together
// entity, refscope, event, input, view, viewmemory, task, and
// internal/guard.
package shard

import (
	"log/slog"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/boopworld/boopworld/entity"
	"github.com/boopworld/boopworld/event"
	"github.com/boopworld/boopworld/input"
	"github.com/boopworld/boopworld/internal/guard"
	"github.com/boopworld/boopworld/refscope"
	"github.com/boopworld/boopworld/task"
	"github.com/boopworld/boopworld/view"
	"github.com/boopworld/boopworld/viewmemory"
)

type phase int

const (
	phaseRunMinds phase = iota
	phaseApplyMoves
	phaseComputeSenses
	phaseControl
	phaseAdvanceTime
)

type reapedMind struct {
	id      entity.ID
	remnant task.Remnant
}

// Shard is one running simulation (§3). It is not safe for concurrent
// use — the scheduling model is single-threaded and cooperative (§5).
type Shard struct {
	cfg   Config
	id    uuid.UUID
	store *entity.Store

	rootScope *refscope.Scope
	viewer    view.Computer
	liveness  storeLiveness

	events           map[entity.ID]*event.Queue
	inputQueues      map[entity.ID]*input.Queue
	inputBinders     map[entity.ID]*input.Binder
	minds            map[entity.ID]*task.MindState
	mindScopes       map[entity.ID]*refscope.Scope
	viewMemories     map[entity.ID]*viewmemory.Memory
	interactHandlers map[entity.ID]InteractFunc
	moves            map[entity.ID]task.Move

	remnants []reapedMind

	time int64
	tick int64
	rnd  *rand.Rand

	// checkpoint state for deadline re-entrancy within one turn.
	ph              phase
	runOrder        []entity.ID
	steppedThisTurn map[entity.ID]bool
	moveOrder       []entity.ID
	moveCursor      int
	senseOrder      []entity.ID
	senseCursor     int
}

// Time returns the current turn counter. Shard implements guard.Clock.
func (s *Shard) Time() int64 { return s.time }

// Tick returns the current within-turn step counter. Shard implements
// guard.Clock.
func (s *Shard) Tick() int64 { return s.tick }

// New constructs a Shard from cfg, allocates its initial capacity, and
// invokes cfg.Build exactly once at time 0.
func New(cfg Config) (*Shard, error) {
	cfg.withDefaults()

	s := &Shard{
		cfg:              cfg,
		id:               uuid.New(),
		store:            entity.New(cfg.Size),
		events:           make(map[entity.ID]*event.Queue),
		inputQueues:      make(map[entity.ID]*input.Queue),
		inputBinders:     make(map[entity.ID]*input.Binder),
		minds:            make(map[entity.ID]*task.MindState),
		mindScopes:       make(map[entity.ID]*refscope.Scope),
		viewMemories:     make(map[entity.ID]*viewmemory.Memory),
		interactHandlers: make(map[entity.ID]InteractFunc),
		moves:            make(map[entity.ID]task.Move),
	}
	s.liveness = storeLiveness{store: s.store}
	s.viewer = view.Computer{MaxRadius: cfg.ViewRadius}
	seed := normalizeSeed(cfg.Seed)
	s.rnd = rand.New(rand.NewPCG(seed, seed^0xd1b54a32d192ed03))
	s.rootScope = refscope.New(s.liveness, seed)

	s.store.RegisterDestroyHook(s.teardownInput)
	s.store.RegisterDestroyHook(s.teardownMind)
	s.store.RegisterDestroyHook(s.teardownInteract)

	s.cfg.Log.Info("shard constructed", "id", s.id, "size", cfg.Size)

	if cfg.Build == nil {
		return s, nil
	}
	g := guard.NewTimeGuard(s, false)
	ctl := &Ctl{sh: s, scope: s.rootScope, g: g}
	var buildErr error
	if !guard.Run(func() { buildErr = cfg.Build(ctl) }) {
		return nil, ErrObsoleteHandle
	}
	if buildErr != nil {
		return nil, buildErr
	}
	return s, nil
}

// wrap composes timeGuard with a freshly captured EntityGuard for id, per
// the data model's "two guards compose on each handle" requirement
// (§4.11), and returns the resulting Entity.
func (s *Shard) wrap(id entity.ID, timeGuard guard.Validator) Entity {
	g := guard.Composite{timeGuard, guard.NewEntityGuard(s.liveness, int32(id))}
	return Entity{Handle: entity.NewHandle(id, s.store, g), sh: s}
}

func (s *Shard) wrapAll(ids []entity.ID, g guard.Validator) []Entity {
	out := make([]Entity, len(ids))
	for i, id := range ids {
		out[i] = s.wrap(id, g)
	}
	return out
}

// eventQueueFor returns (creating if necessary) id's turn event buffer.
func (s *Shard) eventQueueFor(id entity.ID) *event.Queue {
	q, ok := s.events[id]
	if !ok {
		q = event.NewQueue()
		s.events[id] = q
	}
	return q
}

func (s *Shard) create(spec EntitySpec, timeGuard guard.Validator) (Entity, error) {
	id, err := s.store.Alloc()
	if err != nil {
		return Entity{}, ErrShardFull
	}
	s.store.SetLocation(id, spec.Location)
	s.store.SetZ(id, spec.Z)
	s.store.SetGlyph(id, spec.Glyph)

	var t entity.Type
	if spec.IsSolid {
		t |= entity.Solid
	}
	if spec.IsVisible {
		t |= entity.Visible
	}
	if spec.HasInteract {
		t |= entity.Interact
	}
	s.store.SetType(id, t)

	name := spec.Name
	if s.cfg.ChooseName != nil {
		ent := s.wrap(id, timeGuard)
		name = s.cfg.ChooseName(func(candidate string) bool {
			_, taken := s.store.ByName(candidate)
			return !taken
		}, &ent)
	}
	if name != "" {
		s.store.SetName(id, name)
	}

	if spec.Mind != nil {
		s.armMind(id, spec.Mind)
	}
	if spec.AcceptsInput {
		s.armInput(id)
	}

	return s.wrap(id, timeGuard), nil
}

func (s *Shard) armMind(id entity.ID, thunk task.Thunk) {
	s.store.UpdateType(id, func(t entity.Type) entity.Type { return t | entity.Mind })
	seed := s.rnd.Uint64()
	s.minds[id] = task.NewMindState(thunk, seed)
	s.mindScopes[id] = s.rootScope.Sub()
	if _, ok := s.viewMemories[id]; !ok {
		s.viewMemories[id] = viewmemory.New()
	}
}

func (s *Shard) armInput(id entity.ID) input.Push {
	if b, ok := s.inputBinders[id]; ok {
		b.Revoke()
	}
	q := input.NewQueue()
	b := input.NewBinder(q)
	s.inputQueues[id] = q
	s.inputBinders[id] = b
	s.store.UpdateType(id, func(t entity.Type) entity.Type { return t | entity.Input })
	return b.Push()
}

func (s *Shard) setInteract(id entity.ID, fn InteractFunc) {
	if fn == nil {
		delete(s.interactHandlers, id)
		return
	}
	s.interactHandlers[id] = fn
}

func (s *Shard) teardownInput(id entity.ID) {
	if b, ok := s.inputBinders[id]; ok {
		b.Revoke()
		delete(s.inputBinders, id)
	}
	delete(s.inputQueues, id)
}

func (s *Shard) teardownMind(id entity.ID) {
	ms, ok := s.minds[id]
	if !ok {
		return
	}
	s.reapInternal(id, task.Remnant{
		Reason: "entity destroyed",
		Time:   s.time,
		Tick:   ms.Tick,
		Memory: ms.Memory.Snapshot(),
	})
}

func (s *Shard) teardownInteract(id entity.ID) {
	delete(s.interactHandlers, id)
}

func (s *Shard) reapInternal(id entity.ID, remnant task.Remnant) {
	delete(s.minds, id)
	if sc, ok := s.mindScopes[id]; ok {
		sc.Clear()
		delete(s.mindScopes, id)
	}
	delete(s.moves, id)
	s.remnants = append(s.remnants, reapedMind{id: id, remnant: remnant})
}

func (s *Shard) sortedMindIDs() []entity.ID {
	ids := make([]entity.ID, 0, len(s.minds))
	for id := range s.minds {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Update runs tick phases until a full turn completes or now()+timeout
// (if timeout is zero, cfg.DefaultTimeout) is exceeded. Progress across
// deadline-bounded returns is checkpointed; a later call resumes the same
// turn. The control phase and the time-advance phase are never
// interrupted by the deadline.
func (s *Shard) Update(timeout time.Duration) error {
	if timeout <= 0 {
		timeout = s.cfg.DefaultTimeout
	}
	deadline := s.cfg.Now().Add(timeout)

	for {
		switch s.ph {
		case phaseRunMinds:
			if !s.runMinds(deadline) {
				return nil
			}
			s.ph = phaseApplyMoves
		case phaseApplyMoves:
			if !s.applyMoves(deadline) {
				return nil
			}
			s.ph = phaseComputeSenses
		case phaseComputeSenses:
			if !s.computeSenses(deadline) {
				return nil
			}
			s.ph = phaseControl
		case phaseControl:
			s.runControl()
			s.ph = phaseAdvanceTime
		case phaseAdvanceTime:
			s.advanceTime()
			s.ph = phaseRunMinds
			return nil
		}
	}
}
