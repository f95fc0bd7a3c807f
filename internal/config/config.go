// Package config loads server settings from FARAWAY_MCP_* environment
// variables, with command-line flags taking precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/ironsheep/faraway-mcp/internal/detection"
)

// Config holds everything the server needs at startup.
type Config struct {
	CatalogPath  string   `env:"FARAWAY_MCP_CATALOG"`
	WindowSize   int      `env:"FARAWAY_MCP_WINDOW_SIZE"   envDefault:"30"`
	Confidence   float64  `env:"FARAWAY_MCP_CONFIDENCE"    envDefault:"0.7"`
	LogLevel     string   `env:"FARAWAY_MCP_LOG_LEVEL"     envDefault:"info"`
	Locale       string   `env:"FARAWAY_MCP_LOCALE"        envDefault:"en-US"`
	Viewport     Viewport `env:"FARAWAY_MCP_VIEWPORT"`
	OTelEndpoint string   `env:"FARAWAY_MCP_OTEL_ENDPOINT"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ParseConfig reads the environment and then lets flags in args override it.
// The result is validated.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.CatalogPath, "catalog", cfg.CatalogPath, "path to the card catalog CSV")
	fs.IntVar(&cfg.WindowSize, "window", cfg.WindowSize, "number of frames voted on")
	fs.Float64Var(&cfg.Confidence, "confidence", cfg.Confidence, "share of the window the winning layout needs")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "default guidance locale")
	fs.TextVar(&cfg.Viewport, "viewport", cfg.Viewport, "x1,y1,x2,y2 rectangle detections must lie in")
	fs.StringVar(&cfg.OTelEndpoint, "otel-endpoint", cfg.OTelEndpoint, "OTLP/HTTP endpoint; tracing is off when empty")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings that have no usable default.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.CatalogPath) == "" {
		errs = append(errs, errors.New("catalog path is required (FARAWAY_MCP_CATALOG or -catalog)"))
	}
	if c.WindowSize < 1 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %d", c.WindowSize))
	}
	if c.Confidence <= 0 || c.Confidence > 1 {
		errs = append(errs, fmt.Errorf("confidence must be in (0, 1], got %v", c.Confidence))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Viewport is a detection.Bounds written as "x1,y1,x2,y2". The zero value
// means no filtering.
type Viewport detection.Bounds

// Bounds returns v as detection bounds.
func (v Viewport) Bounds() detection.Bounds {
	return detection.Bounds(v)
}

func (v Viewport) MarshalText() ([]byte, error) {
	if detection.Bounds(v).IsZero() {
		return nil, nil
	}
	parts := []string{
		strconv.FormatFloat(v.X1, 'g', -1, 64),
		strconv.FormatFloat(v.Y1, 'g', -1, 64),
		strconv.FormatFloat(v.X2, 'g', -1, 64),
		strconv.FormatFloat(v.Y2, 'g', -1, 64),
	}
	return []byte(strings.Join(parts, ",")), nil
}

func (v *Viewport) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if s == "" {
		*v = Viewport{}
		return nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return fmt.Errorf("viewport %q: want x1,y1,x2,y2", s)
	}
	var vals [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return fmt.Errorf("viewport %q: %w", s, err)
		}
		vals[i] = f
	}
	if vals[2] <= vals[0] || vals[3] <= vals[1] {
		return fmt.Errorf("viewport %q: corners out of order", s)
	}
	*v = Viewport{X1: vals[0], Y1: vals[1], X2: vals[2], Y2: vals[3]}
	return nil
}
