package quote

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testInstruments = [Size]Instrument{
	{Label: "SPX", Symbol: "^SPX", Decimals: 0, Separator: ','},
	{Label: "NDX", Symbol: "^NDX", Decimals: 0, Separator: ','},
	{Label: "T10", Symbol: "^TNX", Decimals: 3, Separator: '.'},
}

func TestPercentChange(t *testing.T) {
	assert.InDelta(t, 1.0, PercentChange(101, 100), 1e-12)
	assert.InDelta(t, -2.5, PercentChange(97.5, 100), 1e-12)
	assert.Equal(t, 0.0, PercentChange(100, 100))
	assert.Equal(t, 0.0, PercentChange(123, 0))
	assert.Equal(t, 0.0, PercentChange(0, 0))
}

func TestApply(t *testing.T) {
	s := NewSet(testInstruments)

	s = s.Apply(0, Populate(5050, 5000))
	assert.Equal(t, 5050.0, s[0].Current)
	assert.Equal(t, 5000.0, s[0].PreviousClose)
	assert.InDelta(t, 1.0, s[0].PercentageChange, 1e-12)
	assert.True(t, s[0].MarketOpen)

	t.Run("failure keeps stale numbers", func(t *testing.T) {
		before := s[0].Quote
		after := s.Apply(0, Fail(fmt.Errorf("boom: %w", ErrTransport)))
		assert.False(t, after[0].MarketOpen)
		assert.Equal(t, before.Current, after[0].Current)
		assert.Equal(t, before.PreviousClose, after[0].PreviousClose)
		assert.Equal(t, before.PercentageChange, after[0].PercentageChange)

		// applying the same failure again changes nothing
		assert.Equal(t, after, after.Apply(0, Fail(ErrTransport)))
	})

	t.Run("zero previous close", func(t *testing.T) {
		z := s.Apply(2, Populate(4.25, 0))
		assert.True(t, z[2].MarketOpen)
		assert.Equal(t, 0.0, z[2].PercentageChange)
	})

	t.Run("out of range index", func(t *testing.T) {
		assert.Equal(t, s, s.Apply(3, Populate(1, 1)))
		assert.Equal(t, s, s.Apply(-1, Populate(1, 1)))
	})

	t.Run("apply does not alias", func(t *testing.T) {
		orig := s
		_ = s.Apply(1, Populate(18000, 17900))
		assert.Equal(t, orig, s)
	})
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "Idle", Idle.String())
	assert.Equal(t, "SectionFound", SectionFound.String())
	assert.Equal(t, "Failed", Failed.String())
	assert.Equal(t, "Unknown", State(42).String())
	assert.True(t, Populated.Terminal())
	assert.True(t, Failed.Terminal())
	assert.False(t, ResponseOK.Terminal())
}

func newTestRefresher(src Source, pauses *[]time.Duration) *Refresher {
	r := NewRefresher(src, 500*time.Millisecond, zerolog.Nop())
	r.Sleep = func(ctx context.Context, d time.Duration) error {
		*pauses = append(*pauses, d)
		return ctx.Err()
	}
	return r
}

func TestRefreshMiddleTransportFailure(t *testing.T) {
	prev := NewSet(testInstruments)
	prev = prev.Apply(0, Populate(5000, 4900))
	prev = prev.Apply(1, Populate(18000, 18100))
	prev = prev.Apply(2, Populate(4.1, 4.0))

	src := &SourceMock{Outcomes: map[string]Outcome{
		"^SPX": Populate(5100, 5000),
		"^NDX": Fail(fmt.Errorf("dial tcp: %w", ErrTransport)),
		"^TNX": Populate(4.2, 4.1),
	}}
	var pauses []time.Duration

	got := newTestRefresher(src, &pauses).Refresh(context.Background(), prev)

	assert.Equal(t, []string{"^SPX", "^NDX", "^TNX"}, src.Calls)
	assert.Equal(t, []time.Duration{500 * time.Millisecond, 500 * time.Millisecond}, pauses)

	assert.True(t, got[0].MarketOpen)
	assert.InDelta(t, 2.0, got[0].PercentageChange, 1e-9)

	assert.False(t, got[1].MarketOpen)
	assert.Equal(t, prev[1].Current, got[1].Current)
	assert.Equal(t, prev[1].PreviousClose, got[1].PreviousClose)
	assert.Equal(t, prev[1].PercentageChange, got[1].PercentageChange)

	assert.True(t, got[2].MarketOpen)
	assert.InDelta(t, 2.4390243902, got[2].PercentageChange, 1e-6)
}

func TestRefreshAllFail(t *testing.T) {
	prev := NewSet(testInstruments).Apply(0, Populate(10, 5))
	src := &SourceMock{Outcomes: map[string]Outcome{}}
	var pauses []time.Duration

	got := newTestRefresher(src, &pauses).Refresh(context.Background(), prev)

	assert.Len(t, src.Calls, Size)
	for i := range got {
		assert.False(t, got[i].MarketOpen)
	}
	assert.Equal(t, 10.0, got[0].Current)
}

func TestRefreshStopsOnCancel(t *testing.T) {
	prev := NewSet(testInstruments)
	for i := range prev {
		prev = prev.Apply(i, Populate(1, 1))
	}
	src := &SourceMock{Outcomes: map[string]Outcome{
		"^SPX": Populate(2, 1),
		"^NDX": Populate(2, 1),
		"^TNX": Populate(2, 1),
	}}

	ctx, cancel := context.WithCancel(context.Background())
	r := NewRefresher(src, time.Second, zerolog.Nop())
	r.Sleep = func(context.Context, time.Duration) error {
		cancel()
		return context.Canceled
	}

	got := r.Refresh(ctx, prev)

	require.Equal(t, []string{"^SPX"}, src.Calls)
	assert.True(t, got[0].MarketOpen)
	assert.False(t, got[1].MarketOpen)
	assert.False(t, got[2].MarketOpen)
}

func TestSleep(t *testing.T) {
	assert.NoError(t, Sleep(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Sleep(ctx, time.Hour)
	assert.True(t, errors.Is(err, context.Canceled))
}
