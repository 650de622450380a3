// Package present decides how a quote is shown: which color class it gets
// and which text is drawn for it.
package present

import (
	"fmt"
	"math"

	"github.com/montagao/idxmop/internal/numfmt"
	"github.com/montagao/idxmop/internal/quote"
)

// Color is an abstract display class. Renderers map it to device colors.
type Color int

const (
	Inactive Color = iota
	Up
	Neutral
	Down
)

var colorNames = []string{"inactive", "up", "neutral", "down"}

func (c Color) String() string {
	if c < 0 || int(c) >= len(colorNames) {
		return "unknown"
	}
	return colorNames[c]
}

// flatPercent is the band around zero treated as unchanged.
const flatPercent = 0.001

// ValueColor compares the raw values exactly.
func ValueColor(q quote.Quote) Color {
	switch {
	case !q.MarketOpen:
		return Inactive
	case q.Current > q.PreviousClose:
		return Up
	case q.Current == q.PreviousClose:
		return Neutral
	default:
		return Down
	}
}

// PercentColor compares the percentage change with a small tolerance.
func PercentColor(q quote.Quote) Color {
	switch {
	case !q.MarketOpen:
		return Inactive
	case q.PercentageChange > 0:
		return Up
	case math.Abs(q.PercentageChange) < flatPercent:
		return Neutral
	default:
		return Down
	}
}

// ValueString formats the current value using the instrument's decimals and
// group separator.
func ValueString(inst quote.Instrument, q quote.Quote) string {
	return numfmt.Group(q.Current, inst.Decimals, inst.Separator)
}

// PercentString formats the change with one decimal and an explicit sign.
func PercentString(q quote.Quote) string {
	return fmt.Sprintf("%+.1f%%", q.PercentageChange)
}

// Mode selects which of the two texts a cycle phase shows.
type Mode int

const (
	Values Mode = iota
	Percents
)

func (m Mode) String() string {
	if m == Percents {
		return "percents"
	}
	return "values"
}

// Text returns the string and color for e in the given mode.
func Text(m Mode, e quote.Entry) (string, Color) {
	if m == Percents {
		return PercentString(e.Quote), PercentColor(e.Quote)
	}
	return ValueString(e.Instrument, e.Quote), ValueColor(e.Quote)
}
