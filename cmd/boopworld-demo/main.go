// Command boopworld-demo runs a small two-room-and-hall scenario
// interactively: a player entity moved with w/a/s/d against a wandering
// antagonist, rendered as the player's own viewport after every turn.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/boopworld/boopworld/input"
	"github.com/boopworld/boopworld/shard"
)

func main() {
	scenarioPath := flag.String("scenario", "", "path to a TOML scenario file (default: built-in two-room layout)")
	viewRadius := flag.Int("view-radius", 8, "max square radius searched by the view computer")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(log)

	sc := DefaultScenario()
	if *scenarioPath != "" {
		loaded, err := LoadScenario(*scenarioPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "boopworld-demo:", err)
			os.Exit(1)
		}
		sc = loaded
	}

	var push input.Push
	state := &demoState{}
	cfg := shard.Config{
		Build:      buildWorld(sc, &push),
		Control:    state.control,
		Seed:       sc.Seed,
		ViewRadius: *viewRadius,
		Log:        log,
	}

	sh, err := shard.New(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "boopworld-demo: build world:", err)
		os.Exit(1)
	}
	if push == nil {
		fmt.Fprintln(os.Stderr, "boopworld-demo: scenario map has no '@' player start")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	console := NewConsole(sh, push, state)
	console.render()
	console.Run(ctx)
}
