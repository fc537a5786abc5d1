package shard

import (
	"log/slog"
	"time"

	"github.com/boopworld/boopworld/entity"
)

// Config is the set of Shard constructor options (§6), all defaulted.
type Config struct {
	// Build is invoked exactly once at time 0 to populate the world. It is
	// the only required field.
	Build func(ctl *Ctl) error

	// Control is called once per turn boundary (§4.10 phase 4), and is
	// never subject to the deadline. May be nil.
	Control func(ctl *Ctl)

	// MoveRate is the number of turns between move-processing cycles.
	// Zero defaults to 1 (every turn).
	MoveRate int

	// Now samples a monotonic wall clock for deadline checks. Nil
	// defaults to time.Now.
	Now func() time.Time

	// DefaultTimeout bounds Update calls made without an explicit
	// deadline. Zero defaults to 50ms, matching one frame at 20 tps.
	DefaultTimeout time.Duration

	// Size is the initial entity capacity. Zero defaults to 256.
	Size int

	// Seed accepts an int, int64, *big.Int, string, or uuid.UUID and
	// drives every deterministic random stream the shard owns.
	Seed any

	// ChooseName lets the caller pick an entity's stable name at create
	// time; choose reports whether a candidate name is still free. Nil
	// means created entities stay unnamed unless EntitySpec.Name is set.
	ChooseName func(choose func(string) bool, ent *Entity) string

	// UpdateWaitsFor selects which entities' submitted moves gate turn
	// completion (§4.10 phase 1). The zero value defaults to
	// entity.Input (entities with an INPUT component).
	UpdateWaitsFor entity.Type

	// ViewRadius bounds the square region searched by the view computer
	// around each perceiver (§4.7). Zero means "use the computer's own
	// default" (the full visibility radius).
	ViewRadius int

	// Log receives structured diagnostics. Nil defaults to slog.Default().
	Log *slog.Logger
}

func (c *Config) withDefaults() {
	if c.MoveRate <= 0 {
		c.MoveRate = 1
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.DefaultTimeout <= 0 {
		c.DefaultTimeout = 50 * time.Millisecond
	}
	if c.Size <= 0 {
		c.Size = 256
	}
	if c.UpdateWaitsFor == 0 {
		c.UpdateWaitsFor = entity.Input
	}
	if c.Log == nil {
		c.Log = slog.Default()
	}
}
