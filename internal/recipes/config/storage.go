package config

import (
	"fmt"
	"time"
)

// Driver - тип хранилища.
type Driver string

// Поддерживаемые хранилища.
const (
	DriverMongo    Driver = "mongo"
	DriverPostgres Driver = "postgres"
	DriverMemory   Driver = "memory"
)

// Valid сообщает, поддерживается ли драйвер.
func (d Driver) Valid() bool {
	switch d {
	case DriverMongo, DriverPostgres, DriverMemory:
		return true
	default:
		return false
	}
}

// StorageConfig выбирает хранилище.
type StorageConfig struct {
	Driver Driver `yaml:"driver" env:"RECETARIO_STORAGE_DRIVER" env-default:"mongo"`
	// ConnectAttempts - число попыток подключения при старте.
	ConnectAttempts int `yaml:"connect_attempts" env:"RECETARIO_STORAGE_CONNECT_ATTEMPTS" env-default:"5"`
}

// MongoConfig содержит настройки подключения к MongoDB.
type MongoConfig struct {
	URI      string        `yaml:"uri" env:"RECETARIO_MONGO_URI" env-default:"mongodb://localhost:27017"`
	Database string        `yaml:"database" env:"RECETARIO_MONGO_DB" env-default:"Recetario"`
	Timeout  time.Duration `yaml:"timeout" env:"RECETARIO_MONGO_TIMEOUT" env-default:"10s"`
	// Transactions включает транзакции для каскадного удаления (нужен replica set).
	Transactions bool `yaml:"transactions" env:"RECETARIO_MONGO_TRANSACTIONS" env-default:"false"`
}

// PostgresConfig содержит настройки подключения к базе данных.
type PostgresConfig struct {
	Host     string `yaml:"host" env:"RECETARIO_POSTGRES_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"RECETARIO_POSTGRES_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"RECETARIO_POSTGRES_USER" env-default:"postgres"`
	Password string `yaml:"password" env:"RECETARIO_POSTGRES_PASSWORD" env-default:"postgres"`
	Database string `yaml:"database" env:"RECETARIO_POSTGRES_DB" env-default:"recetario"`
	MinConn  int    `yaml:"min_conn" env:"RECETARIO_POSTGRES_MIN_CONN" env-default:"1"`
	MaxConn  int    `yaml:"max_conn" env:"RECETARIO_POSTGRES_MAX_CONN" env-default:"10"`
}

// GetDSN возвращает строку подключения к Postgres.
func (p *PostgresConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		p.Host, p.Port, p.User, p.Password, p.Database)
}

// GetConnectionURL возвращает URL-строку подключения для миграций.
func (p *PostgresConfig) GetConnectionURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		p.User, p.Password, p.Host, p.Port, p.Database)
}
