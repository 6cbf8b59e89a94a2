//go:build ebiten

package ui

import (
	"image/color"
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"mad-puzzle/internal/core"
)

var (
	selectionColor = color.RGBA{R: 255, G: 255, B: 255, A: 230}
	levelColor     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// Overlay draws tile levels and the selection frame over the board.
type Overlay struct {
	scale      int
	showLevels bool
	pixel      *ebiten.Image
}

// NewOverlay constructs an overlay for cells scale pixels wide.
func NewOverlay(scale int) *Overlay {
	o := &Overlay{scale: scale, showLevels: true}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update handles the overlay toggles.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showLevels = !o.showLevels
	}
}

// Draw paints level numbers for non-empty cells and frames the selection.
func (o *Overlay) Draw(screen *ebiten.Image, g *core.Grid, selected core.Coord, hasSelection bool) {
	if o.showLevels && o.scale >= 14 {
		face := basicfont.Face7x13
		for y := 0; y < g.Height(); y++ {
			for x := 0; x < g.Width(); x++ {
				s, err := g.Get(x, y)
				if err != nil || s.IsEmpty() {
					continue
				}
				text.Draw(screen, strconv.Itoa(s.Level), face, x*o.scale+3, y*o.scale+13, levelColor)
			}
		}
	}
	if hasSelection {
		o.frame(screen, selected.X*o.scale, selected.Y*o.scale, o.scale, max(2, o.scale/12))
	}
}

func (o *Overlay) frame(screen *ebiten.Image, x, y, size, thickness int) {
	o.rect(screen, x, y, size, thickness)
	o.rect(screen, x, y+size-thickness, size, thickness)
	o.rect(screen, x, y, thickness, size)
	o.rect(screen, x+size-thickness, y, thickness, size)
}

func (o *Overlay) rect(screen *ebiten.Image, x, y, w, h int) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(w), float64(h))
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(selectionColor)
	screen.DrawImage(o.pixel, op)
}
