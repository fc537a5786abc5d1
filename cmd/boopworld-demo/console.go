package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	prompt "github.com/c-bata/go-prompt"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-tty"

	"github.com/boopworld/boopworld/input"
	"github.com/boopworld/boopworld/shard"
)

const (
	defaultPromptPrefix = "boop> "
	maxHistoryEntries   = 128
)

// Console drives a Shard from line-oriented movement commands, reading
// from an io.Reader (defaulting to os.Stdin) and rendering the player's
// latest view after every turn it advances.
type Console struct {
	sh      *shard.Shard
	push    input.Push
	state   *demoState
	log     *slog.Logger
	reader  io.Reader
	out     io.Writer
	history []string
}

// NewConsole returns a Console bound to sh, reading commands for the
// player's push capability from os.Stdin and rendering to a
// Windows-safe ANSI writer.
func NewConsole(sh *shard.Shard, push input.Push, state *demoState) *Console {
	return &Console{
		sh:     sh,
		push:   push,
		state:  state,
		log:    slog.Default(),
		reader: os.Stdin,
		out:    colorable.NewColorableStdout(),
	}
}

// WithReader swaps the console's input source, used for piping scripted
// commands in place of an interactive terminal.
func (c *Console) WithReader(r io.Reader) *Console {
	if r != nil {
		c.reader = r
	}
	return c
}

// Run consumes commands until ctx is cancelled or the reader reaches
// EOF.
func (c *Console) Run(ctx context.Context) {
	if c.reader != os.Stdin {
		c.runScanner(ctx)
		return
	}
	c.runInteractive(ctx)
}

func (c *Console) runScanner(ctx context.Context) {
	scanner := bufio.NewScanner(c.reader)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				c.log.Error("console input error", "err", err)
			}
			return
		}
		c.execute(strings.TrimSpace(scanner.Text()))
	}
}

func (c *Console) runInteractive(ctx context.Context) {
	if cols, rows, err := terminalSize(); err == nil {
		c.log.Info("console attached", "columns", cols, "rows", rows)
	}
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		line := prompt.Input(defaultPromptPrefix, c.complete,
			prompt.OptionTitle("boopworld"),
			prompt.OptionHistory(c.history),
			prompt.OptionPrefix(defaultPromptPrefix),
			prompt.OptionCompletionOnDown(),
		)
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		c.history = append(c.history, line)
		if len(c.history) > maxHistoryEntries {
			c.history = c.history[len(c.history)-maxHistoryEntries:]
		}
		c.execute(line)
	}
}

func (c *Console) complete(doc prompt.Document) []prompt.Suggest {
	suggestions := []prompt.Suggest{
		{Text: "w", Description: "move up"},
		{Text: "a", Description: "move left"},
		{Text: "s", Description: "move down"},
		{Text: "d", Description: "move right"},
		{Text: ".", Description: "stay (emits inspect)"},
		{Text: "quit", Description: "exit the demo"},
	}
	return prompt.FilterHasPrefix(suggestions, doc.GetWordBeforeCursor(), true)
}

func (c *Console) execute(line string) {
	var cmd playerCommand
	switch strings.ToLower(line) {
	case "":
		return
	case "quit", "exit":
		os.Exit(0)
	case "w", "up":
		cmd = cmdUp
	case "s", "down":
		cmd = cmdDown
	case "a", "left":
		cmd = cmdLeft
	case "d", "right":
		cmd = cmdRight
	case ".", "stay":
		cmd = cmdStay
	default:
		fmt.Fprintf(c.out, "unknown command %q (w/a/s/d/./quit)\n", line)
		return
	}
	if err := c.push(cmd); err != nil {
		fmt.Fprintln(c.out, "push failed:", err)
		return
	}
	if err := c.sh.Update(0); err != nil {
		fmt.Fprintln(c.out, "update failed:", err)
		return
	}
	c.render()
}

func (c *Console) render() {
	for _, r := range c.state.drainReaped() {
		fmt.Fprintf(c.out, "* reaped: ok=%v reason=%q\n", r.Remnant.Ok, r.Remnant.Reason)
	}
	renderView(c.out, c.state.playerView)
}

// terminalSize queries the attached terminal's dimensions directly
// rather than through go-prompt, used only to size the initial log line.
func terminalSize() (cols, rows int, err error) {
	t, err := tty.Open()
	if err != nil {
		return 0, 0, err
	}
	defer t.Close()
	return t.Size()
}
