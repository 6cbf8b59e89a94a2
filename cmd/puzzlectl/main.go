// Command puzzlectl plays puzzle boards from the terminal. Every invocation
// builds a session from the environment and flags, runs one command, prints
// the board and optionally saves the result to the layout store.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"go.uber.org/zap"

	"mad-puzzle/internal/app"
	"mad-puzzle/internal/catalog"
	"mad-puzzle/internal/config"
	"mad-puzzle/internal/core"
	"mad-puzzle/internal/layout"
	"mad-puzzle/internal/logging"
	"mad-puzzle/internal/puzzles"
	_ "mad-puzzle/internal/puzzles/elements"
	_ "mad-puzzle/internal/puzzles/merge"
	"mad-puzzle/internal/render"
	"mad-puzzle/internal/session"
)

const usage = `usage: puzzlectl <command> [flags] [args]

commands:
  presets                 list built-in presets
  show                    print the board
  interact AX AY BX BY    interact a pair, then run the cascade
  step [N]                advance the whole board N steps (default 1)
  settle                  step until the board stops changing
  catalog                 print the active catalog (-format yaml|json)
  layouts                 list stored layouts
  save NAME               store the board under NAME
`

var errUsage = errors.New("invalid usage")

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "puzzlectl:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, args := args[0], args[1:]

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cfg.Bind(fs)
	saveAs := fs.String("save", "", "store the resulting board under this name")
	format := fs.String("format", "yaml", "catalog output format: yaml or json")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	args = fs.Args()

	if cmd == "presets" {
		for _, name := range puzzles.Names() {
			p := puzzles.Presets()[name](nil)
			fmt.Fprintf(out, "%-10s %s\n", name, p.Description)
		}
		return nil
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		return err
	}
	defer logger.Sync()

	store, err := cfg.OpenStore()
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	if cmd == "layouts" {
		if store == nil {
			return errors.New("no layout store configured (set -store or PUZZLE_STORE)")
		}
		names, err := store.List(ctx)
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Fprintln(out, name)
		}
		return nil
	}

	s, preset, err := app.NewSession(ctx, cfg, store, logger)
	if err != nil {
		return err
	}

	switch cmd {
	case "show":
	case "interact":
		coords, err := parseInts(args, 4)
		if err != nil {
			return err
		}
		o, err := s.Interact(core.Coord{X: coords[0], Y: coords[1]}, core.Coord{X: coords[2], Y: coords[3]})
		if err != nil {
			return err
		}
		fmt.Fprintln(out, describeOutcome(o))
	case "step":
		n := 1
		if len(args) > 0 {
			parsed, err := parseInts(args, 1)
			if err != nil {
				return err
			}
			n = parsed[0]
		}
		taken := 0
		for i := 0; i < n && s.Step(); i++ {
			taken++
		}
		fmt.Fprintf(out, "%d of %d steps changed the board\n", taken, n)
	case "settle":
		fmt.Fprintln(out, describeReport(s.RunUntilStable()))
	case "catalog":
		doc := catalog.FromCatalog(preset.Name, s.Resolver().Catalog())
		data, err := catalog.Encode(doc, catalog.Format(*format))
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	case "save":
		if len(args) != 1 {
			return fmt.Errorf("%w: save takes one name", errUsage)
		}
		*saveAs = args[0]
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}

	fmt.Fprint(out, render.Text(s.Grid(), s.Resolver().Registry()))
	if *saveAs != "" {
		return save(ctx, store, *saveAs, s.Capture(), logger)
	}
	return nil
}

func save(ctx context.Context, store layout.Store, name string, l layout.Layout, logger *zap.Logger) error {
	if store == nil {
		return errors.New("no layout store configured (set -store or PUZZLE_STORE)")
	}
	if err := store.Save(ctx, name, l); err != nil {
		return err
	}
	logger.Info("layout saved", zap.String("name", name), zap.Int("cells", len(l.Cells)))
	return nil
}

func parseInts(args []string, n int) ([]int, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%w: expected %d integer arguments, got %d", errUsage, n, len(args))
	}
	vals := make([]int, n)
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an integer", errUsage, a)
		}
		vals[i] = v
	}
	return vals, nil
}

func describeOutcome(o session.Outcome) string {
	switch {
	case !o.Allowed:
		return "pair not allowed"
	case !o.Applied:
		return "no rule for pair"
	case o.Cascade.Mode == session.CascadeNone:
		return "pair applied"
	}
	return "pair applied; " + describeReport(o.Cascade)
}

func describeReport(r session.Report) string {
	switch r.Mode {
	case session.CascadeStable:
		if r.LimitReached {
			return fmt.Sprintf("iteration limit reached after %d steps", r.Steps)
		}
		return fmt.Sprintf("stable after %d steps", r.Steps)
	case session.CascadeLocal:
		return fmt.Sprintf("%d neighbor pairs interacted", r.Interactions)
	case session.CascadeMatchingPairs:
		if r.Changed {
			return "matching tiles rewritten"
		}
		return "no matching tiles rewritten"
	}
	return r.Mode.String()
}
