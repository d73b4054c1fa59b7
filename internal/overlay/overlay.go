// Package overlay draws timingtest snapshots in an ebiten window.
package overlay

import (
	"errors"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/rs/zerolog"

	"github.com/erinpentecost/timingtest"
	"github.com/erinpentecost/timingtest/internal/config"
	"github.com/erinpentecost/timingtest/internal/geom"
)

var (
	colorDial  = color.RGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xff}
	colorHand  = color.RGBA{R: 0xc0, G: 0xc0, B: 0xc0, A: 0xff}
	colorGraph = color.RGBA{R: 0xff, G: 0x00, B: 0x00, A: 0xff}
)

// Source is where the game reads snapshots from.
type Source interface {
	Load() (timingtest.Snapshot, bool)
}

// Game is an ebiten.Game that draws the most recent snapshot. It never
// touches the simulation itself.
type Game struct {
	source Source
	layout geom.Layout
	done   <-chan interface{}
	log    zerolog.Logger
}

// NewGame builds a game that quits when done closes.
func NewGame(source Source, done <-chan interface{}, cfg config.Window, log zerolog.Logger) *Game {
	return &Game{
		source: source,
		layout: geom.Layout{Width: cfg.Width, Height: cfg.Height},
		done:   done,
		log:    log,
	}
}

// Run opens the window and blocks until it is closed, Esc is pressed or
// done closes.
func Run(g *Game, cfg config.Window) error {
	ebiten.SetWindowSize(cfg.Width*2, cfg.Height*2)
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	g.log.Debug().Int("width", cfg.Width).Int("height", cfg.Height).Msg("opening window")
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

// Update ends the game once the loop is done or Esc or Q is pressed.
func (g *Game) Update() error {
	select {
	case <-g.done:
		return ebiten.Termination
	default:
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		g.log.Info().Msg("quit requested")
		return ebiten.Termination
	}
	return nil
}

// Draw renders the latest published snapshot: counters, the dial with
// its hand and the delta graph.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)
	snap, ok := g.source.Load()
	if !ok {
		ebitenutil.DebugPrintAt(screen, "waiting for first tick", 1, 1)
		return
	}

	for _, label := range g.layout.Labels(snap) {
		ebitenutil.DebugPrintAt(screen, label.Text, label.X, label.Y)
	}

	c := g.layout.DialCenter()
	vector.StrokeCircle(screen, float32(c.X), float32(c.Y), geom.DialRadius, 1, colorDial, true)
	tip := g.layout.HandEnd(snap.Degrees)
	vector.StrokeLine(screen, float32(c.X), float32(c.Y), float32(tip.X), float32(tip.Y), 1, colorHand, true)

	for _, s := range g.layout.GraphSegments(snap.History[:], snap.Highest) {
		vector.StrokeLine(screen, float32(s.From.X), float32(s.From.Y), float32(s.To.X), float32(s.To.Y), 1, colorGraph, false)
	}
}

// Layout keeps the configured logical size whatever the window size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.layout.Width, g.layout.Height
}
