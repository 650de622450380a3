package ui

import (
	"github.com/mattn/go-runewidth"
	"github.com/nsf/termbox-go"

	"github.com/montagao/idxmop/internal/present"
)

// Term is a Surface on top of termbox. termbox must be initialized before
// use and closed by the caller.
type Term struct{}

// NewTerm initializes termbox.
func NewTerm() (*Term, error) {
	if err := termbox.Init(); err != nil {
		return nil, err
	}
	termbox.SetOutputMode(termbox.OutputNormal)
	termbox.HideCursor()
	return &Term{}, nil
}

func (t *Term) Close() {
	termbox.Close()
}

func (t *Term) Clear(r Rect) {
	fg, bg := termbox.ColorDefault, termbox.ColorDefault
	for j := 0; j < r.H; j++ {
		for i := 0; i < r.W; i++ {
			termbox.SetCell(r.X+i, r.Y+j, ' ', fg, bg)
		}
	}
}

func (t *Term) DrawText(s string, x, y int, f Font, c present.Color) {
	fg, bg := colorAttr(c)|fontAttr(f), termbox.ColorDefault
	w, h := termbox.Size()
	if y < 0 || y >= h {
		return
	}
	for _, r := range s {
		if x >= w {
			break
		}
		if x >= 0 {
			termbox.SetCell(x, y, r, fg, bg)
		}
		x += runewidth.RuneWidth(r)
	}
}

func (t *Term) TextWidth(s string) int {
	return runewidth.StringWidth(s)
}

func (t *Term) Size() (int, int) {
	return termbox.Size()
}

func (t *Term) Flush() error {
	return termbox.Flush()
}

func colorAttr(c present.Color) termbox.Attribute {
	switch c {
	case present.Up:
		return termbox.ColorGreen
	case present.Down:
		return termbox.ColorRed
	case present.Neutral:
		return termbox.ColorWhite
	default:
		// bright black, rendered as dark grey
		return termbox.ColorBlack | termbox.AttrBold
	}
}

func fontAttr(f Font) termbox.Attribute {
	if f == FontBold {
		return termbox.AttrBold
	}
	return 0
}
