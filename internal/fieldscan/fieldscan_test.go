package fieldscan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const priceKey = `"regularMarketPrice":`

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		text string
		key  string
		want float64
		ok   bool
	}{
		{"plain", `"regularMarketPrice":123.45,"x":1`, priceKey, 123.45, true},
		{"key absent", `"regularMarketOpen":123.45,"x":1`, priceKey, 0, false},
		{"spaces", `"regularMarketPrice" : 5123.5 ,"x":1`, `"regularMarketPrice"`, 5123.5, true},
		{"quoted value", `"regularMarketPrice":"4.25","x":1`, priceKey, 4.25, true},
		{"negative", `"chg":-0.75,"x":1`, `"chg":`, -0.75, true},
		{"exponent", `"v":1.5e3,`, `"v":`, 1500, true},
		{"no delimiter", `"regularMarketPrice":123.45}`, priceKey, 0, false},
		{"delimiter right after key", `"regularMarketPrice":,"x":1`, priceKey, 0, false},
		{"only trim chars", `"regularMarketPrice":" ","x":1`, priceKey, 0, false},
		{"null", `"regularMarketPrice":null,"x":1`, priceKey, 0, false},
		{"object", `"regularMarketPrice":{"raw":1},"x":1`, priceKey, 0, false},
		{"nan", `"regularMarketPrice":NaN,`, priceKey, 0, false},
		{"infinity", `"regularMarketPrice":Inf,`, priceKey, 0, false},
		{"key at end", `xx"regularMarketPrice":`, priceKey, 0, false},
		{"empty text", ``, priceKey, 0, false},
		{"empty key", `"a":1,`, ``, 0, false},
		{"hex float", `"p":0x1p3,`, `"p":`, 0, false},
		{"underscore digits", `"p":1_000,`, `"p":`, 0, false},
		{"trailing garbage", `"p":12abc,`, `"p":`, 0, false},
		{"first occurrence wins", `"p":1,"p":2,`, `"p":`, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Extract(tt.text, tt.key)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBetween(t *testing.T) {
	payload := `{"chart":{"result":[{"meta":{"currency":"USD","regularMarketPrice":5000.5,"chartPreviousClose":4990.25,"currentTradingPeriod":{"pre":{}}}}]}}`

	section, ok := New(payload).Between(`"meta":`, `"currentTradingPeriod"`)
	require.True(t, ok)
	assert.Equal(t, `{"currency":"USD","regularMarketPrice":5000.5,"chartPreviousClose":4990.25,`, section.String())

	v, ok := section.Field(priceKey)
	assert.True(t, ok)
	assert.Equal(t, 5000.5, v)

	v, ok = section.Field(`"chartPreviousClose":`)
	assert.True(t, ok)
	assert.Equal(t, 4990.25, v)

	_, ok = New(payload).Between(`"meta":`, `"nope"`)
	assert.False(t, ok)

	_, ok = New(payload).Between(`"nope":`, `"currentTradingPeriod"`)
	assert.False(t, ok)
}

func TestFieldStaysInsideWindow(t *testing.T) {
	// the delimiter only exists past the window end
	w := New(`"p":12,"q":3`).To(6)
	assert.Equal(t, `"p":12`, w.String())

	_, ok := w.Field(`"p":`)
	assert.False(t, ok)

	// a key that straddles the window end is not visible
	_, ok = New(`"q":1,"p":2,`).To(8).Field(`"p":`)
	assert.False(t, ok)
}

func TestWindowBounds(t *testing.T) {
	w := New("abcdef")

	assert.Equal(t, "", w.From(-1).String())
	assert.Equal(t, "", w.From(7).String())
	assert.Equal(t, "def", w.From(3).String())
	assert.Equal(t, "abcdef", w.To(100).String())
	assert.Equal(t, "", w.To(-2).String())
	assert.Equal(t, 2, w.From(2).To(2).Len())
	assert.Equal(t, -1, w.Index("zz"))
}
