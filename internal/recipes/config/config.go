// Package config содержит конфигурацию сервиса рецептов.
package config

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	pkgconfig "recetario/pkg/config"
	"recetario/pkg/logger"
)

// ServiceName - имя сервиса в логах.
const ServiceName = "recetario"

// EnvConfigPath - переменная окружения с путем к файлу конфигурации.
const EnvConfigPath = "RECETARIO_CONFIG_PATH"

// Константы ошибок и сообщений для конфигурации.
const (
	LogConfigLoaded     = "recetario configuration loaded"
	ErrFailedLoadConfig = "failed to load recetario configuration"
	ErrInvalidConfig    = "invalid recetario configuration"
)

// Config представляет полную конфигурацию сервиса.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Storage  StorageConfig  `yaml:"storage"`
	Mongo    MongoConfig    `yaml:"mongo"`
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
	Logging  LoggingConfig  `yaml:"logging"`
	Shutdown ShutdownConfig `yaml:"shutdown"`
	Seed     SeedConfig     `yaml:"seed"`
	Security SecurityConfig `yaml:"security"`
	Recipes  RecipesConfig  `yaml:"recipes"`
}

// Load загружает конфигурацию из файла path (если он задан) и переменных окружения.
func Load(ctx context.Context, path string) (*Config, error) {
	log := logger.Log(ctx)

	cfg, err := pkgconfig.Load[Config](ctx, ServiceName, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrFailedLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		log.Error(ctx, ErrInvalidConfig, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrInvalidConfig, err)
	}

	log.Info(ctx, LogConfigLoaded,
		zap.String("http_address", cfg.HTTP.GetAddress()),
		zap.String("storage_driver", string(cfg.Storage.Driver)),
		zap.Bool("redis_enabled", cfg.Redis.Enabled),
		zap.String("log_level", cfg.Logging.Level),
		zap.String("log_mode", cfg.Logging.Mode),
		zap.Int("shutdown_timeout_seconds", cfg.Shutdown.Timeout))

	return cfg, nil
}

// Validate проверяет значения, которые cleanenv не может проверить сам.
func (c *Config) Validate() error {
	if !c.Storage.Driver.Valid() {
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Security.BcryptCost < 4 || c.Security.BcryptCost > 31 {
		return fmt.Errorf("bcrypt cost %d out of range [4, 31]", c.Security.BcryptCost)
	}
	return nil
}
