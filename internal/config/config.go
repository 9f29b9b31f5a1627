// Package config loads process configuration from the environment
package config

import (
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/KirkDiggler/rpg-gameplay/internal/commands"
	"github.com/KirkDiggler/rpg-gameplay/internal/errors"
)

// Config is the runtime configuration shared by every command
type Config struct {
	// TickRate is simulation ticks per second
	TickRate int `env:"GAMEPLAY_TICK_RATE" envDefault:"60"`
	GRPCPort int `env:"GAMEPLAY_GRPC_PORT" envDefault:"50051"`
	// RedisAddr enables snapshot persistence when set
	RedisAddr   string        `env:"GAMEPLAY_REDIS_ADDR"`
	SnapshotTTL time.Duration `env:"GAMEPLAY_SNAPSHOT_TTL" envDefault:"0s"`
	// DialoguePath is a YAML dialogue content file
	DialoguePath string `env:"GAMEPLAY_DIALOGUE_PATH"`
	LogLevel     string `env:"GAMEPLAY_LOG_LEVEL" envDefault:"info"`
	// StrictCommands rejects non-numeric position elements instead of
	// coercing them to zero
	StrictCommands bool `env:"GAMEPLAY_STRICT_COMMANDS" envDefault:"true"`
}

// Load parses the process environment
func Load() (*Config, error) {
	return parse(env.Options{})
}

// LoadFrom parses the given variables instead of the process environment
func LoadFrom(environ map[string]string) (*Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges and formats
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.TickRate < 1 || c.TickRate > 1000 {
		vb.Field("TickRate", "must be between 1 and 1000")
	}
	if c.GRPCPort < 0 || c.GRPCPort > 65535 {
		vb.Field("GRPCPort", "must be a valid port")
	}
	if c.SnapshotTTL < 0 {
		vb.Field("SnapshotTTL", "must not be negative")
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		vb.Fieldf("LogLevel", "unknown level %q", c.LogLevel)
	}

	return vb.Build()
}

// TickPeriod is the wall time between ticks
func (c *Config) TickPeriod() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}

// SlogLevel is LogLevel as a slog level, info when unparseable
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Bridge is the command bridge matching StrictCommands
func (c *Config) Bridge() commands.Bridge {
	return commands.Bridge{CoerceInvalidNumbers: !c.StrictCommands}
}
