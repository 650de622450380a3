// Package config loads the YAML profile from ~/.config/idxmop, falling back
// to the embedded default, and validates it.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/montagao/idxmop/internal/netlink"
	"github.com/montagao/idxmop/internal/quote"
	"github.com/montagao/idxmop/pkg/yahoo"
)

//go:embed default.yaml
var defaultConfig []byte

const (
	profileDir  = ".config/idxmop"
	profileName = "idxmoprc.yaml"
	logName     = "idxmop.log"
)

type Config struct {
	Log struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"log"`

	Refresh string `yaml:"refresh" validate:"required,cronspec"`

	Display struct {
		Hold time.Duration `yaml:"hold" validate:"gt=0"`
		Font string        `yaml:"font" validate:"oneof=normal bold"`
	} `yaml:"display"`

	Network struct {
		Timeout            time.Duration `yaml:"timeout" validate:"gt=0"`
		InsecureSkipVerify bool          `yaml:"insecure_skip_verify"`
		RequestPause       time.Duration `yaml:"request_pause" validate:"gte=0"`
		UserAgent          string        `yaml:"user_agent"`
		ProbeAddr          string        `yaml:"probe_addr" validate:"required,hostname_port"`
		ProbeTimeout       time.Duration `yaml:"probe_timeout" validate:"gt=0"`
		RetryDelay         time.Duration `yaml:"retry_delay" validate:"gt=0"`
		PromptURL          string        `yaml:"prompt_url" validate:"omitempty,url"`
	} `yaml:"network"`

	Quote struct {
		URL              string `yaml:"url" validate:"required,contains=%s"`
		SectionStart     string `yaml:"section_start" validate:"required"`
		SectionEnd       string `yaml:"section_end" validate:"required"`
		PriceKey         string `yaml:"price_key" validate:"required"`
		PreviousCloseKey string `yaml:"previous_close_key" validate:"required"`
	} `yaml:"quote"`

	Instruments []Instrument `yaml:"instruments" validate:"len=3,dive"`

	dir string
}

type Instrument struct {
	Label     string `yaml:"label" validate:"required,max=7"`
	Symbol    string `yaml:"symbol" validate:"required"`
	Decimals  int    `yaml:"decimals" validate:"gte=0,lte=8"`
	Separator string `yaml:"separator" validate:"len=1"`
}

// ProfileDir returns the directory holding the profile and the log file.
func ProfileDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, profileDir), nil
}

// NewConfig loads the profile from the user's home directory, writing the
// default profile first if there is none.
func NewConfig() (*Config, error) {
	dir, err := ProfileDir()
	if err != nil {
		return nil, err
	}
	return Load(dir)
}

// Load reads dir/idxmoprc.yaml on top of the embedded defaults. A missing
// profile is created from the defaults.
func Load(dir string) (*Config, error) {
	conf := &Config{dir: dir}
	if err := yaml.Unmarshal(defaultConfig, conf); err != nil {
		return nil, fmt.Errorf("error parsing default config: %w", err)
	}

	path := filepath.Join(dir, profileName)
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if err := os.MkdirAll(dir, 0700); err == nil {
			// best effort, defaults apply either way
			_ = os.WriteFile(path, defaultConfig, 0644)
		}
	case err != nil:
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	default:
		conf.Instruments = nil
		if err := yaml.Unmarshal(data, conf); err != nil {
			return nil, fmt.Errorf("error parsing %s: %w", path, err)
		}
		if len(conf.Instruments) == 0 {
			if err := defaultInstruments(conf); err != nil {
				return nil, err
			}
		}
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func defaultInstruments(conf *Config) error {
	var d struct {
		Instruments []Instrument `yaml:"instruments"`
	}
	if err := yaml.Unmarshal(defaultConfig, &d); err != nil {
		return fmt.Errorf("error parsing default config: %w", err)
	}
	conf.Instruments = d.Instruments
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("cronspec", func(fl validator.FieldLevel) bool {
		_, err := cron.Parse(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate checks the config against its field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c Config) LogLevel() (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		return zerolog.InfoLevel, err
	}
	return level, nil
}

// LogPath is the configured log file, or idxmop.log in the profile directory.
func (c Config) LogPath() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(c.dir, logName)
}

func (c Config) Schedule() (cron.Schedule, error) {
	return cron.Parse(c.Refresh)
}

func (c Config) InstrumentSet() [quote.Size]quote.Instrument {
	var set [quote.Size]quote.Instrument
	for i := 0; i < quote.Size && i < len(c.Instruments); i++ {
		in := c.Instruments[i]
		sep, _ := utf8.DecodeRuneInString(in.Separator)
		set[i] = quote.Instrument{
			Label:     in.Label,
			Symbol:    in.Symbol,
			Decimals:  in.Decimals,
			Separator: sep,
		}
	}
	return set
}

func (c Config) TransportConfig() yahoo.TransportConfig {
	return yahoo.TransportConfig{
		Timeout:            c.Network.Timeout,
		InsecureSkipVerify: c.Network.InsecureSkipVerify,
		UserAgent:          c.Network.UserAgent,
	}
}

func (c Config) FetcherOptions() []yahoo.Option {
	return []yahoo.Option{
		yahoo.WithURL(c.Quote.URL),
		yahoo.WithSection(c.Quote.SectionStart, c.Quote.SectionEnd),
		yahoo.WithKeys(c.Quote.PriceKey, c.Quote.PreviousCloseKey),
	}
}

func (c Config) NetlinkConfig() netlink.Config {
	return netlink.Config{
		ProbeAddr:    c.Network.ProbeAddr,
		ProbeTimeout: c.Network.ProbeTimeout,
		RetryDelay:   c.Network.RetryDelay,
		PromptURL:    c.Network.PromptURL,
	}
}
