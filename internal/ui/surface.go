// Package ui draws the three quote rows. Screen holds the layout and talks
// to a Surface; Term is the Surface backed by the terminal.
package ui

import (
	"github.com/montagao/idxmop/internal/present"
)

// Rect is a cell rectangle.
type Rect struct {
	X, Y, W, H int
}

// Font selects the text weight.
type Font int

const (
	FontNormal Font = iota
	FontBold
)

// ParseFont maps a config name to a Font. Unknown names are normal.
func ParseFont(name string) Font {
	if name == "bold" {
		return FontBold
	}
	return FontNormal
}

// Surface is the render target.
type Surface interface {
	Clear(r Rect)
	DrawText(s string, x, y int, f Font, c present.Color)
	TextWidth(s string) int
	Size() (w, h int)
	Flush() error
}
