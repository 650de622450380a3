// Package yahoo fetches index quotes from the Yahoo Finance chart API.
//
// Responses are not decoded as JSON. The fetcher cuts the "meta" section out
// of the payload and scans it for the two numbers it needs, so any reshuffle
// of the rest of the document is harmless.
package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/montagao/idxmop/internal/fieldscan"
	"github.com/montagao/idxmop/internal/quote"
)

const apiURLv8 = `https://query1.finance.yahoo.com/v8/finance/chart/%s?range=1d&interval=1d&includePrePost=false`

// Markers and keys in the chart payload.
const (
	SectionStart     = `"meta":`
	SectionEnd       = `"currentTradingPeriod"`
	PriceKey         = `"regularMarketPrice":`
	PreviousCloseKey = `"chartPreviousClose":`
)

// Fetcher implements quote.Source.
type Fetcher struct {
	tr           Transport
	url          string
	sectionStart string
	sectionEnd   string
	priceKey     string
	prevCloseKey string
	lg           zerolog.Logger
}

type Option func(*Fetcher)

// WithURL sets the request URL template. It must contain one %s for the
// escaped symbol.
func WithURL(tmpl string) Option {
	return func(f *Fetcher) {
		if tmpl != "" {
			f.url = tmpl
		}
	}
}

// WithSection overrides the metadata section markers.
func WithSection(start, end string) Option {
	return func(f *Fetcher) {
		if start != "" && end != "" {
			f.sectionStart, f.sectionEnd = start, end
		}
	}
}

// WithKeys overrides the field keys for the current value and previous close.
func WithKeys(price, previousClose string) Option {
	return func(f *Fetcher) {
		if price != "" && previousClose != "" {
			f.priceKey, f.prevCloseKey = price, previousClose
		}
	}
}

func NewFetcher(tr Transport, lg zerolog.Logger, options ...Option) *Fetcher {
	f := &Fetcher{
		tr:           tr,
		url:          apiURLv8,
		sectionStart: SectionStart,
		sectionEnd:   SectionEnd,
		priceKey:     PriceKey,
		prevCloseKey: PreviousCloseKey,
		lg:           lg.With().Str("Module", "Fetcher").Logger(),
	}
	for _, opt := range options {
		opt(f)
	}
	return f
}

// URL returns the request URL for symbol.
func (f *Fetcher) URL(symbol string) string {
	return fmt.Sprintf(f.url, url.PathEscape(symbol))
}

// logger prefers a cycle logger carried by ctx.
func (f *Fetcher) logger(ctx context.Context) zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l.With().Str("Module", "Fetcher").Logger()
	}
	return f.lg
}

// Fetch runs one request for inst and walks the fetch states until it ends
// in Populated or Failed. It is never retried here.
func (f *Fetcher) Fetch(ctx context.Context, inst quote.Instrument) quote.Outcome {
	lg := f.logger(ctx).With().Str("symbol", inst.Symbol).Logger()
	state := quote.Idle

	step := func(next quote.State) {
		lg.Trace().Stringer("from", state).Stringer("to", next).Msg("transition")
		state = next
	}
	fail := func(err error) quote.Outcome {
		lg.Debug().Err(err).Stringer("at", state).Msg("fetch failed")
		step(quote.Failed)
		return quote.Fail(err)
	}

	step(quote.RequestSent)
	status, body, err := f.tr.Get(ctx, f.URL(inst.Symbol))
	if err != nil {
		return fail(fmt.Errorf("%s: %w: %w", inst.Symbol, quote.ErrTransport, err))
	}
	if status != http.StatusOK {
		return fail(fmt.Errorf("%s: %w: status code %d", inst.Symbol, quote.ErrTransport, status))
	}
	step(quote.ResponseOK)

	section, ok := fieldscan.New(string(body)).Between(f.sectionStart, f.sectionEnd)
	if !ok {
		return fail(fmt.Errorf("%s: %w", inst.Symbol, quote.ErrSectionMissing))
	}
	step(quote.SectionFound)

	current, ok := section.Field(f.priceKey)
	if !ok {
		return fail(fmt.Errorf("%s: %w: %s", inst.Symbol, quote.ErrFieldMissing, f.priceKey))
	}
	prevClose, ok := section.Field(f.prevCloseKey)
	if !ok {
		return fail(fmt.Errorf("%s: %w: %s", inst.Symbol, quote.ErrFieldMissing, f.prevCloseKey))
	}
	step(quote.FieldsExtracted)

	step(quote.Populated)
	return quote.Populate(current, prevClose)
}
