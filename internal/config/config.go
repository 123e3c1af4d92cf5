package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/gobangfree/gobang-server-go/internal/game"
	"github.com/gobangfree/gobang-server-go/internal/game/mana"
	"github.com/gobangfree/gobang-server-go/internal/game/rules"
)

// EnvPrefix prefixes environment overrides, e.g. GOBANG_ENGINE_MODE.
const EnvPrefix = "GOBANG"

// Config is the full application configuration.
type Config struct {
	Engine  EngineConfig  `mapstructure:"engine"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// EngineConfig holds the game engine settings.
type EngineConfig struct {
	Mode                 string        `mapstructure:"mode"`
	ManaPolicy           string        `mapstructure:"mana_policy"`
	MaxMana              int           `mapstructure:"max_mana"`
	ExtraTurnArbitration bool          `mapstructure:"extra_turn_arbitration"`
	ReverseLockDelay     time.Duration `mapstructure:"reverse_lock_delay"`
	CounterWindow        time.Duration `mapstructure:"counter_window"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

var validLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

func setDefaults(v *viper.Viper) {
	v.SetDefault("engine.mode", rules.ModeBasic.String())
	v.SetDefault("engine.mana_policy", mana.PolicyTotalMoves.String())
	v.SetDefault("engine.max_mana", mana.DefaultMax)
	v.SetDefault("engine.extra_turn_arbitration", false)
	v.SetDefault("engine.reverse_lock_delay", game.DefaultReverseLockDelay)
	v.SetDefault("engine.counter_window", game.DefaultCounterWindow)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Load reads configuration from path, then applies environment overrides.
// A missing file is not an error; defaults are used instead.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		_, err := os.Stat(path)
		switch {
		case err == nil:
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
		case !errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("failed to stat config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Validate checks enum values and durations.
func (c *Config) Validate() error {
	if _, err := c.Engine.Options(); err != nil {
		return err
	}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level: unknown level %q", c.Logging.Level)
	}
	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		return fmt.Errorf("logging.format: unknown format %q", c.Logging.Format)
	}
	return nil
}

// Options converts the engine section to engine options.
func (e EngineConfig) Options() (game.Options, error) {
	mode, err := rules.ParseMode(e.Mode)
	if err != nil {
		return game.Options{}, fmt.Errorf("engine.mode: %w", err)
	}
	policy, err := mana.ParsePolicy(e.ManaPolicy)
	if err != nil {
		return game.Options{}, fmt.Errorf("engine.mana_policy: %w", err)
	}
	if e.MaxMana <= 0 {
		return game.Options{}, fmt.Errorf("engine.max_mana: must be positive, got %d", e.MaxMana)
	}
	if e.ReverseLockDelay <= 0 {
		return game.Options{}, fmt.Errorf("engine.reverse_lock_delay: must be positive, got %s", e.ReverseLockDelay)
	}
	if e.CounterWindow <= 0 {
		return game.Options{}, fmt.Errorf("engine.counter_window: must be positive, got %s", e.CounterWindow)
	}

	return game.Options{
		Mode:                 mode,
		ManaPolicy:           policy,
		MaxMana:              e.MaxMana,
		ExtraTurnArbitration: e.ExtraTurnArbitration,
		ReverseLockDelay:     e.ReverseLockDelay,
		CounterWindow:        e.CounterWindow,
	}, nil
}
