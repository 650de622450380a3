// Package fieldscan pulls numeric fields out of partially structured text
// without parsing it. Every operation works on a Window, a bounded view of
// the payload, and reports malformed input as a soft failure.
package fieldscan

import (
	"math"
	"strconv"
	"strings"
)

// Delimiter terminates a field value.
const Delimiter = ','

// trimSet is stripped from both ends of a value before parsing.
const trimSet = " \t\r\n\":"

// numberChars are the only characters allowed in a JSON number.
const numberChars = "0123456789eE.+-"

// Window is a read-only view of buf restricted to [lo, hi).
type Window struct {
	buf    string
	lo, hi int
}

// New returns a window covering all of s.
func New(s string) Window {
	return Window{buf: s, lo: 0, hi: len(s)}
}

func (w Window) Len() int {
	return w.hi - w.lo
}

func (w Window) String() string {
	return w.buf[w.lo:w.hi]
}

// Index returns the offset of the first key inside the window, relative to
// the window start, or -1.
func (w Window) Index(key string) int {
	if key == "" {
		return -1
	}
	return strings.Index(w.String(), key)
}

// From returns the part of the window starting at off. Offsets outside the
// window yield an empty window.
func (w Window) From(off int) Window {
	if off < 0 || off > w.Len() {
		return Window{buf: w.buf, lo: w.hi, hi: w.hi}
	}
	return Window{buf: w.buf, lo: w.lo + off, hi: w.hi}
}

// To returns the first n bytes of the window, clamped to its bounds.
func (w Window) To(n int) Window {
	if n < 0 {
		n = 0
	}
	if n > w.Len() {
		n = w.Len()
	}
	return Window{buf: w.buf, lo: w.lo, hi: w.lo + n}
}

// Between returns the text after the first start marker up to the first end
// marker that follows it. ok is false when either marker is missing.
func (w Window) Between(start, end string) (Window, bool) {
	i := w.Index(start)
	if i < 0 {
		return Window{}, false
	}
	rest := w.From(i + len(start))
	j := rest.Index(end)
	if j < 0 {
		return Window{}, false
	}
	return rest.To(j), true
}

// Field finds the first key and parses the value that runs from the end of
// the key to the next Delimiter.
func (w Window) Field(key string) (float64, bool) {
	i := w.Index(key)
	if i < 0 {
		return 0, false
	}
	rest := w.From(i + len(key))
	j := strings.IndexByte(rest.String(), Delimiter)
	if j <= 0 {
		// no delimiter, or the delimiter sits right where the value should start
		return 0, false
	}

	raw := strings.Trim(rest.To(j).String(), trimSet)
	if raw == "" || strings.Trim(raw, numberChars) != "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Extract is Field over the whole of text.
func Extract(text, key string) (float64, bool) {
	return New(text).Field(key)
}
