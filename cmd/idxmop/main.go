package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/montagao/idxmop/internal/app"
	"github.com/montagao/idxmop/internal/config"
	"github.com/montagao/idxmop/internal/netlink"
	"github.com/montagao/idxmop/internal/quote"
	"github.com/montagao/idxmop/internal/ui"
	"github.com/montagao/idxmop/pkg/yahoo"
)

func main() {
	conf, err := config.NewConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed loading config: %s\n", err)
		os.Exit(1)
	}

	level, err := conf.LogLevel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "unknown log level %q, using %s\n", conf.Log.Level, level)
	}
	zerolog.SetGlobalLevel(level)

	// the terminal belongs to termbox, logs go to a file
	file, err := os.OpenFile(conf.LogPath(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed opening log file: %s\n", err)
		os.Exit(1)
	}
	defer file.Close()
	lg := zerolog.New(file).With().Timestamp().Logger()

	schedule, err := conf.Schedule()
	if err != nil {
		fmt.Fprintf(os.Stderr, "bad refresh schedule: %s\n", err)
		os.Exit(1)
	}

	term, err := ui.NewTerm()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed initializing termbox: %s\n", err)
		os.Exit(1)
	}
	defer term.Close()

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt,
		syscall.SIGHUP,
		syscall.SIGTERM,
	)
	defer stop()

	fetcher := yahoo.NewFetcher(yahoo.NewHTTPTransport(conf.TransportConfig()), lg, conf.FetcherOptions()...)

	a := app.New(app.Config{
		Screen:      ui.NewScreen(term, ui.ParseFont(conf.Display.Font)),
		Refresher:   quote.NewRefresher(fetcher, conf.Network.RequestPause, lg),
		Link:        netlink.NewManager(conf.NetlinkConfig(), lg),
		Schedule:    schedule,
		Hold:        conf.Display.Hold,
		Instruments: conf.InstrumentSet(),
		Events:      app.TermEvents(),
		Logger:      lg,
	})

	a.Run(ctx)
}
