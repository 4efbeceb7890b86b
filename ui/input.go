package ui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	delay    = 30
	interval = 3
)

// Input is a single-line text field with a per-field validation error.
type Input struct {
	Label   string
	Text    string
	Err     string
	Focused bool
	runes   []rune
}

// repeatingKeyPressed returns true on first press and then at an interval while held
func repeatingKeyPressed(key ebiten.Key) bool {
	d := inpututil.KeyPressDuration(key)
	if d == 1 {
		return true
	}
	if d >= delay && (d-delay)%interval == 0 {
		return true
	}
	return false
}

func (w *Input) Update() {
	if !w.Focused {
		return
	}
	w.runes = ebiten.AppendInputChars(w.runes[:0])
	w.Text += string(w.runes)
	if repeatingKeyPressed(ebiten.KeyBackspace) && len(w.Text) >= 1 {
		w.Text = w.Text[:len(w.Text)-1]
	}
}
