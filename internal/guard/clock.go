package guard

// Clock is sampled to build TimeGuards. shard.Shard implements it.
type Clock interface {
	Time() int64
	Tick() int64
}

// TimeGuard captures (time, tick) at mint and is valid only while neither
// has advanced (§4.11 "time guard"). When tickBound is false, the guard
// ignores tick and stays valid for the whole turn (used for handles whose
// lifetime is the root scope); when true, it is valid only during the
// exact step it was minted for (used for per-mind task contexts, which
// the runtime re-derives on every call per §9's closure-captured-ctx
// note).
type TimeGuard struct {
	clock     Clock
	time      int64
	tick      int64
	tickBound bool
}

// NewTimeGuard mints a TimeGuard from clock's current sample.
func NewTimeGuard(clock Clock, tickBound bool) *TimeGuard {
	return &TimeGuard{clock: clock, time: clock.Time(), tick: clock.Tick(), tickBound: tickBound}
}

// Valid reports whether clock's time (and, if tickBound, tick) still
// matches the sample taken at mint.
func (g *TimeGuard) Valid() bool {
	if g.clock.Time() != g.time {
		return false
	}
	if g.tickBound && g.clock.Tick() != g.tick {
		return false
	}
	return true
}

// LivenessChecker reports whether an entity id is live and its current
// generation. The shard package's storeLiveness adapter implements this
// over entity.Store, whose own methods take an entity.ID.
type LivenessChecker interface {
	Live(id int32) bool
	Generation(id int32) uint32
}

// EntityGuard captures an entity's generation at mint and is valid only
// while the entity remains allocated with that same generation (§4.11
// "entity guard").
type EntityGuard struct {
	live LivenessChecker
	id   int32
	gen  uint32
}

// NewEntityGuard mints an EntityGuard for id at its current generation.
func NewEntityGuard(live LivenessChecker, id int32) *EntityGuard {
	return &EntityGuard{live: live, id: id, gen: live.Generation(id)}
}

// Valid reports whether the guarded entity is still live at the generation
// captured at mint.
func (g *EntityGuard) Valid() bool {
	return g.live.Live(g.id) && g.live.Generation(g.id) == g.gen
}
