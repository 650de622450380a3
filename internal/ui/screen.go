package ui

import (
	"github.com/montagao/idxmop/internal/present"
	"github.com/montagao/idxmop/internal/quote"
)

// columnTemplate sizes the value column: seven integer digits with grouping.
const columnTemplate = "X,XXX,XXX"

const labelGap = 1

// Screen lays out one row per instrument: the label on the left and the
// value column right-aligned after it.
type Screen struct {
	surface Surface
	font    Font

	labelWidth int
	colWidth   int

	set     quote.Set
	mode    present.Mode
	labeled bool
	drawn   bool
}

func NewScreen(s Surface, font Font) *Screen {
	return &Screen{
		surface:  s,
		font:     font,
		colWidth: s.TextWidth(columnTemplate),
	}
}

// column returns the value column rectangle.
func (sc *Screen) column() Rect {
	return Rect{X: sc.labelWidth + labelGap, Y: 0, W: sc.colWidth, H: quote.Size}
}

// DrawLabels writes the instrument labels. The label width also fixes
// where the value column starts.
func (sc *Screen) DrawLabels(set quote.Set) error {
	sc.labelWidth = 0
	for _, e := range set {
		if w := sc.surface.TextWidth(e.Label); w > sc.labelWidth {
			sc.labelWidth = w
		}
	}
	for i, e := range set {
		sc.surface.DrawText(e.Label, 0, i, sc.font, present.Neutral)
	}
	sc.set, sc.labeled = set, true
	return sc.surface.Flush()
}

// Draw clears the value column and writes every quote in mode m.
func (sc *Screen) Draw(m present.Mode, set quote.Set) error {
	col := sc.column()
	sc.surface.Clear(col)

	right := col.X + col.W
	for i, e := range set {
		text, color := present.Text(m, e)
		x := right - sc.surface.TextWidth(text)
		if x < col.X {
			x = col.X
		}
		sc.surface.DrawText(text, x, i, sc.font, color)
	}

	sc.set, sc.mode, sc.drawn = set, m, true
	return sc.surface.Flush()
}

func (sc *Screen) DrawValues(set quote.Set) error {
	return sc.Draw(present.Values, set)
}

func (sc *Screen) DrawPercents(set quote.Set) error {
	return sc.Draw(present.Percents, set)
}

// Resize clears the whole surface and repeats the last draw.
func (sc *Screen) Resize() error {
	w, h := sc.surface.Size()
	sc.surface.Clear(Rect{W: w, H: h})
	if sc.labeled {
		if err := sc.DrawLabels(sc.set); err != nil {
			return err
		}
	}
	if !sc.drawn {
		return sc.surface.Flush()
	}
	return sc.Draw(sc.mode, sc.set)
}
