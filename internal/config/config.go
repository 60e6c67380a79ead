package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"battleship/internal/ai"

	"github.com/charmbracelet/log"
)

const envPrefix = "BATTLESHIP_"

var ErrInvalid = errors.New("invalid config")

// Config holds the server settings. Environment variables replace the
// built-in defaults and command-line flags replace both.
type Config struct {
	Addr     string
	LogLevel string
	WebDir   string
	AIDelay  time.Duration
	AI       ai.Options
}

// Default returns the stock server settings.
func Default() Config {
	return Config{
		Addr:     ":8080",
		LogLevel: "info",
		WebDir:   "web",
		AIDelay:  600 * time.Millisecond,
		AI:       ai.DefaultOptions(),
	}
}

// Load reads the environment through getenv and then parses args.
func Load(args []string, getenv func(string) string) (Config, error) {
	cfg := Default()
	if err := cfg.applyEnv(getenv); err != nil {
		return cfg, err
	}

	fs := flag.NewFlagSet("battleship", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	fs.StringVar(&cfg.WebDir, "web", cfg.WebDir, "static files directory")
	fs.DurationVar(&cfg.AIDelay, "ai-delay", cfg.AIDelay, "pause before each AI shot")
	fs.Float64Var(&cfg.AI.HardCheatProb, "hard-cheat", cfg.AI.HardCheatProb, "hard AI chance to fire at a known ship cell")
	fs.Float64Var(&cfg.AI.MediumRandomProb, "medium-random", cfg.AI.MediumRandomProb, "medium AI chance to ignore parity")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// FromEnv is Load over the process arguments and environment.
func FromEnv() (Config, error) {
	return Load(os.Args[1:], os.Getenv)
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv(envPrefix + "ADDR"); v != "" {
		c.Addr = v
	}
	if v := getenv(envPrefix + "LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := getenv(envPrefix + "WEB_DIR"); v != "" {
		c.WebDir = v
	}
	if v := getenv(envPrefix + "AI_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %sAI_DELAY: %v", ErrInvalid, envPrefix, err)
		}
		c.AIDelay = d
	}
	for key, dst := range map[string]*float64{
		"HARD_CHEAT_PROB":    &c.AI.HardCheatProb,
		"MEDIUM_RANDOM_PROB": &c.AI.MediumRandomProb,
	} {
		v := getenv(envPrefix + key)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: %s%s: %v", ErrInvalid, envPrefix, key, err)
		}
		*dst = f
	}
	return nil
}

// Validate checks ranges and the log level.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: empty listen address", ErrInvalid)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log level %q", ErrInvalid, c.LogLevel)
	}
	if c.AIDelay < 0 {
		return fmt.Errorf("%w: negative ai delay", ErrInvalid)
	}
	if p := c.AI.HardCheatProb; p < 0 || p > 1 {
		return fmt.Errorf("%w: hard cheat probability %v not in [0,1]", ErrInvalid, p)
	}
	if p := c.AI.MediumRandomProb; p < 0 || p > 1 {
		return fmt.Errorf("%w: medium random probability %v not in [0,1]", ErrInvalid, p)
	}
	return nil
}

// Level returns the parsed log level. Call after Validate.
func (c Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
