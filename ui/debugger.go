// Package ui is the ebiten front end: the debugger window, its control panel
// and the figure draw pass.
package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/akrol/geodebug/figure"
)

// PanelWidth is reserved on the right edge for the control panel; the figure
// is projected into the remaining viewport.
const PanelWidth = 300

// Debugger implements ebiten.Game. It runs the panel state machine every tick
// and re-projects the latest figure every frame.
type Debugger struct {
	Panel *Panel

	last  figure.Figure
	lastN int
}

func NewDebugger(file string) *Debugger {
	return &Debugger{Panel: NewPanel(file)}
}

func (d *Debugger) Update() error {
	if d.Panel.Session == nil {
		if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
			d.Panel.FocusNext()
		}
		d.Panel.UpdateFields()
		if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
			if d.Panel.Start() {
				d.last, d.lastN = figure.Figure{}, 0
			}
		}
		return nil
	}

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		d.Panel.Run = !d.Panel.Run
	}
	if !d.Panel.Run && inpututil.IsKeyJustPressed(ebiten.KeyN) {
		d.Panel.Session.Step()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		d.Panel.Quit()
		return nil
	}
	d.Panel.Tick()
	return nil
}

func (d *Debugger) Draw(screen *ebiten.Image) {
	screen.Fill(color.White)
	b := screen.Bounds()
	if s := d.Panel.Session; s != nil {
		// Non-blocking read: keep the previous clone when the worker is
		// mid-publish, the projection below never holds the slot lock.
		if fig, n, ok := s.TryLatest(); ok {
			d.last, d.lastN = fig, n
		}
		proj := figure.Project(d.last, s.Flags, float64(b.Dx()-PanelWidth), float64(b.Dy()))
		drawProjected(screen, proj)
	}
	d.drawPanel(screen, b.Dx()-PanelWidth, b.Dy())
}

func (d *Debugger) Layout(outsideW, outsideH int) (int, int) {
	if outsideW < PanelWidth+100 {
		outsideW = PanelWidth + 100
	}
	if outsideH < 200 {
		outsideH = 200
	}
	return outsideW, outsideH
}
