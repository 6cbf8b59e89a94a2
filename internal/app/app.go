//go:build ebiten

package app

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"mad-puzzle/internal/adjacency"
	"mad-puzzle/internal/core"
	"mad-puzzle/internal/render"
	"mad-puzzle/internal/session"
	"mad-puzzle/internal/ui"
)

// Game adapts a puzzle session to the ebiten.Game interface.
type Game struct {
	session *session.Session
	painter *render.GridPainter
	hud     *ui.HUD
	overlay *ui.Overlay
	clock   *core.StepClock
	opts    Options
	logger  *zap.Logger

	autoplay bool
}

// New constructs a Game for the provided session.
func New(s *session.Session, opts Options) *Game {
	if opts.Scale <= 0 {
		opts.Scale = DefaultOptions().Scale
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	size := s.Grid().Size()
	clock := core.NewStepClock(opts.StepsPerSecond)
	clock.SetPaused(true)
	return &Game{
		session: s,
		painter: render.NewGridPainter(size.W, size.H, render.NewPalette(s.Resolver().Registry())),
		hud:     ui.NewHUD(s, opts.HUDWidth),
		overlay: ui.NewOverlay(opts.Scale),
		clock:   clock,
		opts:    opts,
		logger:  logger,
	}
}

// Update handles per-frame input and autoplay.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.autoplay = !g.autoplay
		g.clock.SetPaused(!g.autoplay)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.step()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.report("settle", g.session.RunUntilStable())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.session.Reset()
		g.hud.SetStatus("reset")
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyA) {
		g.cycleAdjacency()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.cycleCascade()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyK) {
		g.save()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyL) {
		g.load()
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.click(ebiten.CursorPosition())
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		if c, ok := g.session.Selected(); ok {
			// Clicking the anchor again clears it.
			_, _ = g.session.Select(c)
		}
	}

	g.overlay.Update()
	if g.clock.Due() && !g.step() {
		g.autoplay = false
		g.clock.SetPaused(true)
	}
	g.hud.Update()
	return nil
}

func (g *Game) step() bool {
	changed := g.session.Step()
	if !changed {
		g.hud.SetStatus("stable")
	}
	return changed
}

func (g *Game) click(mx, my int) {
	size := g.session.Grid().Size()
	if mx < 0 || my < 0 || mx >= size.W*g.opts.Scale || my >= size.H*g.opts.Scale {
		return
	}
	c := core.Coord{X: mx / g.opts.Scale, Y: my / g.opts.Scale}
	res, err := g.session.Select(c)
	if err != nil {
		g.logger.Debug("select failed", zap.Error(err))
		return
	}
	switch res.Event {
	case session.SelectionRejected:
		g.hud.SetStatus("not allowed: " + g.session.Policy().Mode.String())
	case session.SelectionResolved:
		if !res.Outcome.Applied {
			g.hud.SetStatus("no rule")
			return
		}
		g.report("pair", res.Outcome.Cascade)
	default:
		g.hud.SetStatus(res.Event.String())
	}
}

func (g *Game) report(label string, rep session.Report) {
	switch {
	case rep.LimitReached:
		g.hud.SetStatus(fmt.Sprintf("%s: iteration limit (%d steps)", label, rep.Steps))
	case rep.Mode == session.CascadeStable:
		g.hud.SetStatus(fmt.Sprintf("%s: settled in %d steps", label, rep.Steps))
	case rep.Mode == session.CascadeLocal:
		g.hud.SetStatus(fmt.Sprintf("%s: %d neighbor pairs", label, rep.Interactions))
	default:
		g.hud.SetStatus(label + ": " + rep.Mode.String())
	}
}

func (g *Game) cycleAdjacency() {
	modes := adjacency.Modes()
	next := modes[(slices.Index(modes, g.session.Policy().Mode)+1)%len(modes)]
	g.session.SetAdjacency(next)
	g.hud.SetStatus("adjacency: " + next.String())
}

func (g *Game) cycleCascade() {
	modes := session.CascadeModes()
	next := modes[(slices.Index(modes, g.session.Config().Cascade)+1)%len(modes)]
	g.session.SetCascade(next)
	g.hud.SetStatus("cascade: " + next.String())
}

func (g *Game) save() {
	if g.opts.Store == nil {
		g.hud.SetStatus("no layout store")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := g.opts.Store.Save(ctx, QuickSaveName, g.session.Capture()); err != nil {
		g.logger.Warn("save layout", zap.Error(err))
		g.hud.SetStatus("save failed")
		return
	}
	g.hud.SetStatus("saved " + QuickSaveName)
}

func (g *Game) load() {
	if g.opts.Store == nil {
		g.hud.SetStatus("no layout store")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	l, err := g.opts.Store.Load(ctx, QuickSaveName)
	if err != nil {
		g.logger.Warn("load layout", zap.Error(err))
		g.hud.SetStatus("load failed")
		return
	}
	if !g.session.ApplyLayout(l) {
		g.hud.SetStatus("layout size mismatch")
		return
	}
	g.hud.SetStatus("loaded " + QuickSaveName)
}

// Draw renders the board, the overlay and the HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	grid := g.session.Grid()
	g.painter.Blit(screen, grid, g.opts.Scale)
	sel, ok := g.session.Selected()
	g.overlay.Draw(screen, grid, sel, ok)
	g.hud.Draw(screen, grid.Width()*g.opts.Scale, grid.Height()*g.opts.Scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.session.Grid().Size()
	return s.W*g.opts.Scale + g.hud.Width(), s.H * g.opts.Scale
}
