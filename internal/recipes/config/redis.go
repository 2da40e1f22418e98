package config

import (
	"time"

	dbredis "recetario/pkg/db/redis"
)

// RedisConfig представляет конфигурацию кэша рецептов в Redis.
type RedisConfig struct {
	Enabled        bool          `yaml:"enabled" env:"RECETARIO_REDIS_ENABLED" env-default:"false"`
	Host           string        `yaml:"host" env:"RECETARIO_REDIS_HOST" env-default:"localhost"`
	Port           int           `yaml:"port" env:"RECETARIO_REDIS_PORT" env-default:"6379"`
	Password       string        `yaml:"password" env:"RECETARIO_REDIS_PASSWORD" env-default:""`
	DB             int           `yaml:"db" env:"RECETARIO_REDIS_DB" env-default:"0"`
	PoolSize       int           `yaml:"pool_size" env:"RECETARIO_REDIS_POOL_SIZE" env-default:"10"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"RECETARIO_REDIS_CONNECT_TIMEOUT" env-default:"5s"`
	ReadTimeout    time.Duration `yaml:"read_timeout" env:"RECETARIO_REDIS_READ_TIMEOUT" env-default:"3s"`
	WriteTimeout   time.Duration `yaml:"write_timeout" env:"RECETARIO_REDIS_WRITE_TIMEOUT" env-default:"3s"`
	DefaultTTL     time.Duration `yaml:"default_ttl" env:"RECETARIO_REDIS_DEFAULT_TTL" env-default:"15m"`
}

// ClientConfig возвращает настройки подключения для pkg/db/redis.
func (c *RedisConfig) ClientConfig() *dbredis.Config {
	return &dbredis.Config{
		Host:           c.Host,
		Port:           c.Port,
		Password:       c.Password,
		DB:             c.DB,
		PoolSize:       c.PoolSize,
		ConnectTimeout: c.ConnectTimeout,
		ReadTimeout:    c.ReadTimeout,
		WriteTimeout:   c.WriteTimeout,
	}
}
