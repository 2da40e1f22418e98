package config

import (
	"fmt"
	"time"
)

// HTTPConfig представляет конфигурацию HTTP сервера.
type HTTPConfig struct {
	Host         string        `yaml:"host" env:"RECETARIO_HTTP_HOST" env-default:"0.0.0.0"`
	Port         int           `yaml:"port" env:"RECETARIO_HTTP_PORT" env-default:"3000"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"RECETARIO_HTTP_READ_TIMEOUT" env-default:"5s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"RECETARIO_HTTP_WRITE_TIMEOUT" env-default:"10s"`
	BodyLimit    int           `yaml:"body_limit" env:"RECETARIO_HTTP_BODY_LIMIT" env-default:"1048576"`
	CORSOrigins  []string      `yaml:"cors_origins" env:"RECETARIO_HTTP_CORS_ORIGINS" env-default:"http://localhost:3001" env-separator:","`
}

// GetAddress возвращает адрес HTTP сервера.
func (c *HTTPConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
