// Package netlink blocks until the network can reach the quote host.
package netlink

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/pkg/browser"
	"github.com/rs/zerolog"
)

// Config controls how the link is probed and how the user is prompted.
type Config struct {
	// ProbeAddr is a host:port that must accept a TCP connection.
	ProbeAddr    string
	ProbeTimeout time.Duration
	RetryDelay   time.Duration
	// PromptURL is opened in the browser the first time a probe fails,
	// typically a captive portal check page. Empty disables the prompt.
	PromptURL string
}

// Manager waits for a usable network link.
type Manager struct {
	conf   Config
	probe  func(ctx context.Context) error
	prompt func(url string) error
	sleep  func(ctx context.Context, d time.Duration) error
	lg     zerolog.Logger
}

func NewManager(conf Config, lg zerolog.Logger) *Manager {
	if conf.ProbeTimeout <= 0 {
		conf.ProbeTimeout = 5 * time.Second
	}
	if conf.RetryDelay <= 0 {
		conf.RetryDelay = 2 * time.Second
	}
	m := &Manager{
		conf:   conf,
		prompt: browser.OpenURL,
		sleep:  sleep,
		lg:     lg.With().Str("Module", "Netlink").Logger(),
	}
	m.probe = m.dial
	return m
}

func (m *Manager) dial(ctx context.Context) error {
	d := net.Dialer{Timeout: m.conf.ProbeTimeout}
	conn, err := d.DialContext(ctx, "tcp", m.conf.ProbeAddr)
	if err != nil {
		return err
	}
	return conn.Close()
}

// WaitOnline probes until the link is up, retrying indefinitely. It only
// returns an error when ctx ends.
func (m *Manager) WaitOnline(ctx context.Context) error {
	prompted := false
	for attempt := 1; ; attempt++ {
		m.lg.Info().Str("addr", m.conf.ProbeAddr).Int("attempt", attempt).Msg("Connecting to network...")
		err := m.probe(ctx)
		if err == nil {
			m.lg.Info().Str("addr", m.conf.ProbeAddr).Msg("Connected to network")
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		m.lg.Warn().Err(err).Msg("Failed to connect to network. Retrying.")

		if !prompted && m.conf.PromptURL != "" {
			prompted = true
			if perr := m.prompt(m.conf.PromptURL); perr != nil {
				m.lg.Warn().Err(perr).Str("url", m.conf.PromptURL).Msg("could not open network prompt")
			}
		}

		if err := m.sleep(ctx, m.conf.RetryDelay); err != nil {
			return fmt.Errorf("waiting for network: %w", err)
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
