// Package config loads the simulator settings: an optional .env file, then
// the environment, then command-line flags, each overriding the previous.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the host simulator configuration. Game rules are not
// configurable.
type Config struct {
	LogLevel     string        `env:"REFLEXPONG_LOG_LEVEL"      envDefault:"info"`
	TimerUnit    time.Duration `env:"REFLEXPONG_TIMER_UNIT"     envDefault:"10us"`
	LoopInterval time.Duration `env:"REFLEXPONG_LOOP_INTERVAL"  envDefault:"10ms"`
	TicksPerWake int           `env:"REFLEXPONG_TICKS_PER_WAKE" envDefault:"800"`
	Dump         string        `env:"REFLEXPONG_DUMP"`
	DumpFormat   string        `env:"REFLEXPONG_DUMP_FORMAT"    envDefault:"yaml"`
	Tunes        string        `env:"REFLEXPONG_TUNES"`
	DOT          bool          `env:"REFLEXPONG_DOT"`
	OTelEndpoint string        `env:"REFLEXPONG_OTEL_ENDPOINT"`
	OTelEnabled  bool          `env:"REFLEXPONG_OTEL_ENABLED"   envDefault:"true"`
	Bot          time.Duration `env:"REFLEXPONG_BOT"`
	History      string        `env:"REFLEXPONG_HISTORY"`
}

// LoadDotEnv loads variables from the given files into the environment
// without overriding variables already set. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// ParseConfig parses the environment, then flags, into a Config.
func ParseConfig(flags *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	flags.DurationVar(&cfg.TimerUnit, "timer-unit", cfg.TimerUnit, "duration of one tick-source period unit")
	flags.DurationVar(&cfg.LoopInterval, "loop-interval", cfg.LoopInterval, "main loop wake interval")
	flags.IntVar(&cfg.TicksPerWake, "ticks-per-wake", cfg.TicksPerWake, "engine ticks run per wake")
	flags.StringVar(&cfg.Dump, "dump", cfg.Dump, "directory to write the final engine snapshot to, as pongsim.<format>")
	flags.StringVar(&cfg.DumpFormat, "dump-format", cfg.DumpFormat, "snapshot format: json or yaml")
	flags.StringVar(&cfg.Tunes, "tunes", cfg.Tunes, "YAML note and tune library replacing the built-in one")
	flags.BoolVar(&cfg.DOT, "dot", cfg.DOT, "print the transition graph as Graphviz DOT and exit")
	flags.StringVar(&cfg.OTelEndpoint, "otel-endpoint", cfg.OTelEndpoint, "OTLP/HTTP endpoint for transition traces")
	flags.BoolVar(&cfg.OTelEnabled, "otel", cfg.OTelEnabled, "enable tracing when an endpoint is set")
	flags.StringVar(&cfg.History, "history", cfg.History, "SQLite database recording finished games")
	flags.DurationVar(&cfg.Bot, "bot", cfg.Bot, "press player 2's button at this interval (0 disables)")
	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the timing settings.
func (c Config) Validate() error {
	if c.TimerUnit <= 0 {
		return fmt.Errorf("timer unit must be positive, got %s", c.TimerUnit)
	}
	if c.LoopInterval <= 0 {
		return fmt.Errorf("loop interval must be positive, got %s", c.LoopInterval)
	}
	if c.TicksPerWake <= 0 {
		return fmt.Errorf("ticks per wake must be positive, got %d", c.TicksPerWake)
	}
	switch strings.ToLower(c.DumpFormat) {
	case "json", "yaml", "":
	default:
		return fmt.Errorf("dump format must be json or yaml, got %q", c.DumpFormat)
	}
	if c.Bot < 0 {
		return fmt.Errorf("bot interval must not be negative, got %s", c.Bot)
	}
	return nil
}
