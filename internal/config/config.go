// Package config loads server configuration from YAML with defaults for
// every key, so a missing file still yields a runnable server.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/ggltcg/ggltcg-server-go/internal/game"
)

// Config is the top-level server configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	Game    GameConfig    `mapstructure:"game"`
	Cards   CardsConfig   `mapstructure:"cards"`
}

// ServerConfig holds the websocket gateway settings.
type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// GameConfig exposes the rule tunables.
type GameConfig struct {
	FirstTurnCC        int `mapstructure:"first_turn_cc"`
	CCPerTurn          int `mapstructure:"cc_per_turn"`
	CCMax              int `mapstructure:"cc_max"`
	TussleCost         int `mapstructure:"tussle_cost"`
	DirectAttackLimit  int `mapstructure:"direct_attack_limit"`
	AttackerSpeedBonus int `mapstructure:"attacker_speed_bonus"`
}

// CardsConfig points at the card-definition file.
type CardsConfig struct {
	Path string `mapstructure:"path"`
}

// EngineConfig converts the rule tunables to the engine's config type.
func (gc GameConfig) EngineConfig() game.Config {
	return game.Config{
		FirstTurnCC:        gc.FirstTurnCC,
		CCPerTurn:          gc.CCPerTurn,
		CCMax:              gc.CCMax,
		TussleCost:         gc.TussleCost,
		DirectAttackLimit:  gc.DirectAttackLimit,
		AttackerSpeedBonus: gc.AttackerSpeedBonus,
	}
}

// Load reads the configuration file at path. A missing file is not an
// error; defaults apply. A malformed file is.
func Load(path string) (*Config, error) {
	v := viper.New()

	defaults := game.DefaultConfig()
	v.SetDefault("server.address", ":8080")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("game.first_turn_cc", defaults.FirstTurnCC)
	v.SetDefault("game.cc_per_turn", defaults.CCPerTurn)
	v.SetDefault("game.cc_max", defaults.CCMax)
	v.SetDefault("game.tussle_cost", defaults.TussleCost)
	v.SetDefault("game.direct_attack_limit", defaults.DirectAttackLimit)
	v.SetDefault("game.attacker_speed_bonus", defaults.AttackerSpeedBonus)
	v.SetDefault("cards.path", "config/cards.yaml")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
