// Package quote holds the per-instrument market state and the refresh cycle
// that updates it.
package quote

import "fmt"

// Size is the number of instruments tracked on the display.
const Size = 3

// Instrument describes one tracked market value and how its value is shown.
type Instrument struct {
	Label     string // display label, e.g. "SPX"
	Symbol    string // remote symbol, e.g. "^SPX"
	Decimals  int
	Separator rune
}

// Quote is the latest known state of one instrument. PercentageChange is
// always derived from Current and PreviousClose.
type Quote struct {
	Current          float64
	PreviousClose    float64
	PercentageChange float64
	MarketOpen       bool
}

// PercentChange returns the change from previousClose to current in
// percent, or 0 when previousClose is 0.
func PercentChange(current, previousClose float64) float64 {
	if previousClose == 0 {
		return 0
	}
	return (current - previousClose) / previousClose * 100
}

func (q Quote) String() string {
	return fmt.Sprintf("%.1f from %.1f (%+.1f%%) MarketOpen=%t",
		q.Current, q.PreviousClose, q.PercentageChange, q.MarketOpen)
}

// Entry pairs an instrument with its quote.
type Entry struct {
	Instrument
	Quote
}

// Set is the fixed group of tracked instruments. It is passed and returned
// by value; no stage keeps a reference to it.
type Set [Size]Entry

// NewSet returns a set with empty, inactive quotes.
func NewSet(instruments [Size]Instrument) Set {
	var s Set
	for i, inst := range instruments {
		s[i].Instrument = inst
	}
	return s
}

// Apply folds one fetch outcome into entry i. A populated outcome replaces
// the numbers and opens the market; anything else keeps the previous numbers
// and marks the quote inactive.
func (s Set) Apply(i int, out Outcome) Set {
	if i < 0 || i >= Size {
		return s
	}
	q := s[i].Quote
	if out.OK() {
		q.Current = out.Current
		q.PreviousClose = out.PreviousClose
		q.PercentageChange = PercentChange(out.Current, out.PreviousClose)
		q.MarketOpen = true
	} else {
		q.MarketOpen = false
	}
	s[i].Quote = q
	return s
}
