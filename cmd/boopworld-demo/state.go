package main

import (
	"github.com/boopworld/boopworld/event"
	"github.com/boopworld/boopworld/shard"
)

// demoState accumulates the pieces of each turn's control phase the
// console wants to narrate: the player's latest viewport and any minds
// reaped this turn. It is only ever touched from inside a Control
// callback and from render(), both called strictly between Update()
// calls, so it needs no locking.
type demoState struct {
	playerView event.ViewportReader
	reaped     []shard.ReapRecord
}

func (d *demoState) control(ctl *shard.Ctl) {
	d.reaped = append(d.reaped, ctl.Reap()...)
	for _, rec := range ctl.Events() {
		if rec.Event.Type != event.TypeView {
			continue
		}
		if name, ok := rec.Entity.Name(); ok && name == "player" {
			d.playerView = rec.Event.View
		}
	}
}

// drainReaped returns and clears the remnants accumulated since the last
// call.
func (d *demoState) drainReaped() []shard.ReapRecord {
	out := d.reaped
	d.reaped = nil
	return out
}
