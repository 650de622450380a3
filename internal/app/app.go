// Package app runs the display cycle: fetch all quotes, show the values,
// hold, show the percentage changes, hold, then wait for the next tick.
package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nsf/termbox-go"
	"github.com/robfig/cron"
	"github.com/rs/zerolog"

	"github.com/montagao/idxmop/internal/quote"
)

const appTitle = "idxmop 0.1"

type screen interface {
	DrawLabels(set quote.Set) error
	DrawValues(set quote.Set) error
	DrawPercents(set quote.Set) error
	Resize() error
}

type refresher interface {
	Refresh(ctx context.Context, set quote.Set) quote.Set
}

type link interface {
	WaitOnline(ctx context.Context) error
}

type Config struct {
	Screen      screen
	Refresher   refresher
	Link        link
	Schedule    cron.Schedule
	Hold        time.Duration
	Instruments [quote.Size]quote.Instrument
	// Events delivers terminal input. May be nil.
	Events <-chan termbox.Event
	Logger zerolog.Logger
}

// App owns the quote set. Only the goroutine calling Run reads or writes it.
type App struct {
	screen    screen
	refresher refresher
	link      link
	schedule  cron.Schedule
	hold      time.Duration
	set       quote.Set

	events  <-chan termbox.Event
	refresh chan struct{}
	resize  chan struct{}

	now  func() time.Time
	base zerolog.Logger
	lg   zerolog.Logger
}

func New(conf Config) *App {
	return &App{
		screen:    conf.Screen,
		refresher: conf.Refresher,
		link:      conf.Link,
		schedule:  conf.Schedule,
		hold:      conf.Hold,
		set:       quote.NewSet(conf.Instruments),
		events:    conf.Events,
		refresh:   make(chan struct{}, 1),
		resize:    make(chan struct{}, 1),
		now:       time.Now,
		base:      conf.Logger,
		lg:        conf.Logger.With().Str("Module", "App").Logger(),
	}
}

// Set returns a copy of the current quote set.
func (a *App) Set() quote.Set {
	return a.set
}

// Run draws the labels, waits for the network and then runs cycles until
// ctx ends or the user quits.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if a.events != nil {
		go a.watch(ctx, cancel)
	}

	a.lg.Info().Msgf("Hello, this is %s providing stock market information.", appTitle)
	a.draw(a.screen.DrawLabels)

	if err := a.link.WaitOnline(ctx); err != nil {
		a.lg.Info().Err(err).Msg("stopped before the network came up")
		return
	}

	for {
		start := a.now()
		skipped := a.Cycle(ctx)
		if ctx.Err() != nil {
			a.lg.Info().Msg("bye!")
			return
		}
		if skipped {
			continue
		}
		a.pause(ctx, a.schedule.Next(start).Sub(a.now()))
	}
}

// Cycle fetches every quote and shows both phases. It reports true when a
// hold was cut short by a refresh request or by ctx.
func (a *App) Cycle(ctx context.Context) bool {
	lg := a.base.With().Str("cycle", uuid.NewString()).Logger()
	ctx = lg.WithContext(ctx)

	lg.Debug().Msg("cycle start")
	a.set = a.refresher.Refresh(ctx, a.set)

	a.draw(a.screen.DrawValues)
	if a.pause(ctx, a.hold) {
		return true
	}
	a.draw(a.screen.DrawPercents)
	return a.pause(ctx, a.hold)
}

func (a *App) draw(fn func(quote.Set) error) {
	if err := fn(a.set); err != nil {
		a.lg.Error().Err(err).Msg("draw failed")
	}
}

// pause waits for d. Resize requests are served while waiting. It returns
// true if the wait ended early because of a refresh request or ctx.
func (a *App) pause(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() != nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			return false
		case <-ctx.Done():
			return true
		case <-a.refresh:
			a.lg.Debug().Msg("refresh requested")
			return true
		case <-a.resize:
			if err := a.screen.Resize(); err != nil {
				a.lg.Error().Err(err).Msg("resize failed")
			}
		}
	}
}

// watch turns terminal events into quit, refresh and resize requests. It
// never touches the quote set.
func (a *App) watch(ctx context.Context, quit context.CancelFunc) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-a.events:
			if !ok {
				return
			}
			switch ev.Type {
			case termbox.EventKey:
				if ev.Ch == 'q' || ev.Ch == 'Q' || ev.Key == termbox.KeyEsc || ev.Key == termbox.KeyCtrlC {
					quit()
					return
				}
				if ev.Ch == 'r' || ev.Ch == 'R' {
					notify(a.refresh)
				}
			case termbox.EventResize:
				notify(a.resize)
			case termbox.EventError:
				a.lg.Error().Err(ev.Err).Msg("terminal event error")
			}
		}
	}
}

func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// TermEvents polls termbox on its own goroutine and forwards every event.
func TermEvents() <-chan termbox.Event {
	keyQueue := make(chan termbox.Event)
	go func() {
		for {
			keyQueue <- termbox.PollEvent()
		}
	}()
	return keyQueue
}
