package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-gameplay/internal/config"
	"github.com/KirkDiggler/rpg-gameplay/internal/errors"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (s *ConfigTestSuite) TestDefaults() {
	cfg, err := config.LoadFrom(map[string]string{})
	s.Require().NoError(err)

	s.Equal(60, cfg.TickRate)
	s.Equal(50051, cfg.GRPCPort)
	s.Empty(cfg.RedisAddr)
	s.True(cfg.StrictCommands)
	s.Equal(slog.LevelInfo, cfg.SlogLevel())
	s.Equal(time.Second/60, cfg.TickPeriod())
	s.False(cfg.Bridge().CoerceInvalidNumbers)
}

func (s *ConfigTestSuite) TestOverrides() {
	cfg, err := config.LoadFrom(map[string]string{
		"GAMEPLAY_TICK_RATE":       "20",
		"GAMEPLAY_GRPC_PORT":       "6000",
		"GAMEPLAY_REDIS_ADDR":      "localhost:6379",
		"GAMEPLAY_SNAPSHOT_TTL":    "2h",
		"GAMEPLAY_DIALOGUE_PATH":   "content/dialogue.yaml",
		"GAMEPLAY_LOG_LEVEL":       "debug",
		"GAMEPLAY_STRICT_COMMANDS": "false",
	})
	s.Require().NoError(err)

	s.Equal(50*time.Millisecond, cfg.TickPeriod())
	s.Equal(6000, cfg.GRPCPort)
	s.Equal("localhost:6379", cfg.RedisAddr)
	s.Equal(2*time.Hour, cfg.SnapshotTTL)
	s.Equal("content/dialogue.yaml", cfg.DialoguePath)
	s.Equal(slog.LevelDebug, cfg.SlogLevel())
	s.True(cfg.Bridge().CoerceInvalidNumbers)
}

func (s *ConfigTestSuite) TestInvalidValues() {
	_, err := config.LoadFrom(map[string]string{
		"GAMEPLAY_TICK_RATE": "0",
		"GAMEPLAY_LOG_LEVEL": "chatty",
	})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
	s.Contains(err.Error(), "TickRate")
	s.Contains(err.Error(), "LogLevel")
}

func (s *ConfigTestSuite) TestUnparseableValue() {
	_, err := config.LoadFrom(map[string]string{"GAMEPLAY_GRPC_PORT": "not-a-port"})
	s.True(errors.IsInvalidArgument(err))
}
