package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml"
)

// Scenario describes a perimeter demo world: an ASCII map plus the seed
// driving the antagonist's wander and the shard's ref minting. Loaded
// from a TOML file via LoadScenario, or used as-is via DefaultScenario.
type Scenario struct {
	Seed int64  `toml:"seed"`
	Map  string `toml:"map"`
}

// DefaultScenario reproduces the two-room-and-hall layout used for the
// acceptance scenarios (a player at (1,1), a door on the east wall of the
// first room, and an antagonist in the second room), seeded with
// 0xdeadbeef.
func DefaultScenario() Scenario {
	return Scenario{Seed: 0xdeadbeef, Map: defaultMap}
}

// LoadScenario reads and decodes a Scenario from path, starting from
// DefaultScenario's values so a scenario file may override just the
// fields it cares about.
func LoadScenario(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("read scenario: %w", err)
	}
	sc := DefaultScenario()
	if err := toml.Unmarshal(data, &sc); err != nil {
		return Scenario{}, fmt.Errorf("decode scenario: %w", err)
	}
	return sc, nil
}

// rows splits sc.Map into its non-empty rows, trimming the leading and
// trailing blank line a TOML multi-line string literal tends to carry.
func (sc Scenario) rows() []string {
	trimmed := strings.Trim(sc.Map, "\n")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "\n")
}

const defaultMap = `
########################
#@.......######........#
#........######........#
#........######........#
#........######........#
#........+.............#
#........######........#
#........######........#
#........######........#
###############........#
###############........#
###############........#
###############........#
###############.......D#
########################
`
