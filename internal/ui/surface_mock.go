package ui

import (
	"unicode/utf8"

	"github.com/montagao/idxmop/internal/present"
)

// Text is one DrawText call recorded by SurfaceMock.
type Text struct {
	S     string
	X, Y  int
	Font  Font
	Color present.Color
}

// SurfaceMock records draw calls. Every rune is one cell wide.
type SurfaceMock struct {
	W, H    int
	Texts   []Text
	Clears  []Rect
	Flushes int
}

func (m *SurfaceMock) Clear(r Rect) {
	m.Clears = append(m.Clears, r)
}

func (m *SurfaceMock) DrawText(s string, x, y int, f Font, c present.Color) {
	m.Texts = append(m.Texts, Text{S: s, X: x, Y: y, Font: f, Color: c})
}

func (m *SurfaceMock) TextWidth(s string) int {
	return utf8.RuneCountInString(s)
}

func (m *SurfaceMock) Size() (int, int) {
	return m.W, m.H
}

func (m *SurfaceMock) Flush() error {
	m.Flushes++
	return nil
}

// Row returns the last text drawn on row y at or after column x.
func (m *SurfaceMock) Row(y, x int) (Text, bool) {
	for i := len(m.Texts) - 1; i >= 0; i-- {
		if t := m.Texts[i]; t.Y == y && t.X >= x {
			return t, true
		}
	}
	return Text{}, false
}

// Reset forgets recorded calls.
func (m *SurfaceMock) Reset() {
	m.Texts, m.Clears, m.Flushes = nil, nil, 0
}
