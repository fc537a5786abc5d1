package main

import (
	"github.com/boopworld/boopworld/entity"
	"github.com/boopworld/boopworld/input"
	"github.com/boopworld/boopworld/shard"
	"github.com/boopworld/boopworld/task"
)

// playerCommand is the datum shape pushed into the player's input queue
// by the console.
type playerCommand string

const (
	cmdUp    playerCommand = "up"
	cmdDown  playerCommand = "down"
	cmdLeft  playerCommand = "left"
	cmdRight playerCommand = "right"
	cmdStay  playerCommand = "stay"
)

func moveFor(cmd playerCommand) task.Move {
	switch cmd {
	case cmdUp:
		return task.MoveUp
	case cmdDown:
		return task.MoveDown
	case cmdLeft:
		return task.MoveLeft
	case cmdRight:
		return task.MoveRight
	default:
		return task.MoveStay
	}
}

// playerMind consumes the most recent queued command, if any, and always
// suspends until the next one arrives.
func playerMind(c *task.Ctx) task.Result {
	for _, d := range c.Input() {
		if cmd, ok := d.(playerCommand); ok {
			c.SetMove(moveFor(cmd))
		}
	}
	return task.Wait(task.OnInput(), "awaiting player input")
}

var wanderMoves = [...]task.Move{task.MoveUp, task.MoveRight, task.MoveDown, task.MoveLeft, task.MoveStay}

// wanderMind picks a uniformly random move from its own seeded PRNG
// stream every turn, reproducing the same sequence for a given seed
// (§4.9's per-mind PRNG).
func wanderMind(c *task.Ctx) task.Result {
	m := wanderMoves[c.Random().IntN(len(wanderMoves))]
	c.SetMove(m)
	return task.Continue(wanderMind, "wandering")
}

// doorInteract is the door's custom collision handler: the first bump
// opens it (clearing SOLID and swapping its glyph) instead of producing
// the default hit/hitBy pair.
func doorInteract(ic shard.InteractCtx) {
	if ic.Subject.IsSolid() {
		ic.Subject.SetFlag(entity.Solid, false)
		ic.Subject.SetGlyph('-')
	}
}

// buildWorld returns a shard.Config.Build callback that lays out sc's
// ASCII map. push receives the player entity's input capability once it
// is created, for the caller to hand to a Console.
func buildWorld(sc Scenario, push *input.Push) func(ctl *shard.Ctl) error {
	return func(ctl *shard.Ctl) error {
		root := ctl.Root()
		for y, row := range sc.rows() {
			for x, r := range row {
				p := entity.Point{X: int16(x), Y: int16(y)}
				switch {
				case r == '.' || r == ' ':
					continue
				case r == '#':
					if _, err := root.Create(shard.EntitySpec{
						Location: p, Glyph: '#', IsSolid: true, IsVisible: true,
					}); err != nil {
						return err
					}
				case r == '+':
					door, err := root.Create(shard.EntitySpec{
						Name: "door", Location: p, Glyph: '+',
						IsSolid: true, IsVisible: true, HasInteract: true,
					})
					if err != nil {
						return err
					}
					door.SetInteract(doorInteract)
				case r == '@':
					player, err := root.Create(shard.EntitySpec{
						Name: "player", Location: p, Glyph: '@',
						IsSolid: true, IsVisible: true,
						Mind: playerMind,
					})
					if err != nil {
						return err
					}
					*push = player.SetInput()
				case r >= 'A' && r <= 'Z':
					if _, err := root.Create(shard.EntitySpec{
						Location: p, Glyph: r, IsSolid: true, IsVisible: true,
						Mind: wanderMind,
					}); err != nil {
						return err
					}
				}
			}
		}
		return nil
	}
}
