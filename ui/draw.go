package ui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/akrol/geodebug/figure"
)

var (
	ink       = color.RGBA{A: 0xff}
	errorInk  = color.RGBA{R: 0xc0, A: 0xff}
	panelFill = color.RGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff}
	face      = basicfont.Face7x13
)

func drawProjected(screen *ebiten.Image, proj figure.Projected) {
	for _, it := range proj.Items {
		switch it.Kind {
		case figure.ItemPoint:
			if it.Dot {
				vector.DrawFilledCircle(screen, float32(it.Pos.X), float32(it.Pos.Y), 2, ink, true)
			}
		case figure.ItemLine, figure.ItemSegment, figure.ItemRay:
			vector.StrokeLine(screen,
				float32(it.A.X), float32(it.A.Y),
				float32(it.B.X), float32(it.B.Y),
				1, ink, true)
		case figure.ItemCircle:
			vector.StrokeCircle(screen,
				float32(it.Pos.X), float32(it.Pos.Y),
				float32(it.Radius),
				1, ink, true)
		}
		if it.Label != nil {
			text.Draw(screen, it.Label.Text, face, int(it.Label.At.X), int(it.Label.At.Y), ink)
		}
	}
}

func (d *Debugger) drawPanel(screen *ebiten.Image, x, height int) {
	vector.DrawFilledRect(screen, float32(x), 0, PanelWidth, float32(height), panelFill, false)

	line := 0
	put := func(s string, clr color.Color) {
		line++
		text.Draw(screen, s, face, x+12, line*16, clr)
	}

	if d.Panel.Session == nil {
		put("Start generating", ink)
		put("", ink)
		for _, f := range []*Input{&d.Panel.File, &d.Panel.Workers, &d.Panel.Bound} {
			cursor := " "
			if f.Focused {
				cursor = ">"
			}
			put(fmt.Sprintf("%s %s: %s", cursor, f.Label, f.Text), ink)
			if f.Err != "" {
				put("    "+f.Err, errorInk)
			}
		}
		put("", ink)
		put("tab: next field", ink)
		put("enter: generate", ink)
		return
	}

	put(fmt.Sprintf("Step %d", d.lastN), ink)
	put("", ink)
	if d.Panel.Run {
		put("running", ink)
		put("space: stop", ink)
	} else {
		put("paused", ink)
		put("space: run", ink)
		put("n: next step", ink)
	}
	put("q: quit", ink)
}
