package config

import (
	"fmt"
	"time"

	"github.com/Veraticus/soilsense/internal/common"
	"github.com/Veraticus/soilsense/internal/engine"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g. SOILSENSE_ENGINE_WORKERS.
const EnvPrefix = "SOILSENSE"

// Config is the application configuration.
type Config struct {
	KnowledgeBase KnowledgeBaseConfig `mapstructure:"knowledge_base"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Server        ServerConfig        `mapstructure:"server"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Engine        EngineConfig        `mapstructure:"engine"`
}

// EngineConfig tunes the assessment engine.
type EngineConfig struct {
	Workers         int     `mapstructure:"workers"`
	StaleAfterDays  int     `mapstructure:"stale_after_days"`
	TargetPH        float64 `mapstructure:"target_ph"`
	CriticalPHFloor float64 `mapstructure:"critical_ph_floor"`
}

// KnowledgeBaseConfig points at an optional YAML extension file. Empty means built-in
// tables only.
type KnowledgeBaseConfig struct {
	Path string `mapstructure:"path"`
}

// DatabaseConfig locates the assessment history database.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// ServerConfig configures the HTTP adapter.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// LoggingConfig configures slog.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("engine.workers", 4)
	v.SetDefault("engine.stale_after_days", 730)
	v.SetDefault("engine.target_ph", 6.5)
	v.SetDefault("engine.critical_ph_floor", 6.0)
	v.SetDefault("knowledge_base.path", "")
	v.SetDefault("database.path", "~/.local/share/soilsense/soilsense.db")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Load reads the configuration from v, applying defaults and expanding paths.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	cfg.KnowledgeBase.Path = ExpandPath(cfg.KnowledgeBase.Path)
	cfg.Database.Path = ExpandPath(cfg.Database.Path)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the engine cannot run with.
func (c *Config) Validate() error {
	e := c.Engine
	switch {
	case e.Workers < 1:
		return fmt.Errorf("%w: engine.workers must be at least 1, got %d", common.ErrInvalidConfig, e.Workers)
	case e.StaleAfterDays < 1:
		return fmt.Errorf("%w: engine.stale_after_days must be positive, got %d", common.ErrInvalidConfig, e.StaleAfterDays)
	case e.TargetPH <= 0 || e.TargetPH > 14:
		return fmt.Errorf("%w: engine.target_ph must be within (0, 14], got %v", common.ErrInvalidConfig, e.TargetPH)
	case e.CriticalPHFloor <= 0 || e.CriticalPHFloor > e.TargetPH:
		return fmt.Errorf("%w: engine.critical_ph_floor must be within (0, target_ph], got %v", common.ErrInvalidConfig, e.CriticalPHFloor)
	}
	if _, err := common.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	return nil
}

// EngineOptions converts the engine settings into an engine configuration.
func (c *Config) EngineOptions() engine.Config {
	cfg := engine.DefaultConfig()
	cfg.Workers = c.Engine.Workers
	cfg.StaleAfter = time.Duration(c.Engine.StaleAfterDays) * 24 * time.Hour
	cfg.PH.TargetPH = c.Engine.TargetPH
	cfg.PH.CriticalPHFloor = c.Engine.CriticalPHFloor
	return cfg
}
