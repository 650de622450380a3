package quote

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Refresher runs the fetch half of a cycle: every instrument is fetched in
// order, one request at a time, with Pause between requests.
type Refresher struct {
	Source Source
	Pause  time.Duration
	Sleep  func(ctx context.Context, d time.Duration) error
	Logger zerolog.Logger
}

// NewRefresher returns a Refresher that sleeps on a timer.
func NewRefresher(src Source, pause time.Duration, lg zerolog.Logger) *Refresher {
	return &Refresher{
		Source: src,
		Pause:  pause,
		Sleep:  Sleep,
		Logger: lg.With().Str("Module", "Refresher").Logger(),
	}
}

// Refresh fetches all instruments and returns the updated set. A failure on
// one instrument never stops the others. If ctx ends, the instruments not yet
// fetched are marked inactive and the set is returned as is.
func (r *Refresher) Refresh(ctx context.Context, s Set) Set {
	for i := range s {
		if i > 0 && r.Pause > 0 {
			if err := r.sleep(ctx, r.Pause); err != nil {
				return closeFrom(s, i)
			}
		}
		if ctx.Err() != nil {
			return closeFrom(s, i)
		}

		out := r.Source.Fetch(ctx, s[i].Instrument)
		s = s.Apply(i, out)
		r.trace(r.logger(ctx), s[i], out)
	}
	return s
}

func (r *Refresher) sleep(ctx context.Context, d time.Duration) error {
	if r.Sleep == nil {
		return Sleep(ctx, d)
	}
	return r.Sleep(ctx, d)
}

// logger prefers a cycle logger carried by ctx.
func (r *Refresher) logger(ctx context.Context) zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l.With().Str("Module", "Refresher").Logger()
	}
	return r.Logger
}

func (r *Refresher) trace(lg zerolog.Logger, e Entry, out Outcome) {
	if !out.OK() {
		lg.Warn().Err(out.Err).
			Str("label", e.Label).
			Str("symbol", e.Symbol).
			Stringer("state", out.State).
			Msgf("%s kept stale values %s", e.Label, e.Quote)
		return
	}
	if e.PreviousClose == 0 {
		lg.Warn().Str("label", e.Label).Msg("previous close is zero, percentage change forced to 0")
	}
	lg.Info().
		Str("label", e.Label).
		Float64("current", e.Current).
		Float64("previousClose", e.PreviousClose).
		Float64("percentageChange", e.PercentageChange).
		Bool("marketOpen", e.MarketOpen).
		Msg(e.Label)
}

func closeFrom(s Set, i int) Set {
	for ; i < Size; i++ {
		s[i].MarketOpen = false
	}
	return s
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
