// Package db открывает хранилище рецептов, выбранное в конфигурации.
package db

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"recetario/internal/recipes/adapters/cache"
	"recetario/internal/recipes/adapters/memory"
	"recetario/internal/recipes/adapters/mongodb"
	"recetario/internal/recipes/adapters/postgres"
	"recetario/internal/recipes/config"
	"recetario/internal/recipes/ports/repositories"
	recipemigrations "recetario/migrations/recipes"
	dbmongo "recetario/pkg/db/mongo"
	dbpostgres "recetario/pkg/db/postgres"
	dbredis "recetario/pkg/db/redis"
	"recetario/pkg/logger"
	"recetario/pkg/resilience"
)

// Константы для сообщений logger.
const (
	LogStorageOpening = "opening storage"
	LogStorageOpened  = "storage opened"
	LogCacheEnabled   = "recipe cache enabled"
)

// Константы для сообщений об ошибках.
const (
	ErrUnknownDriver   = "unknown storage driver"
	ErrConnectMongo    = "failed to connect to MongoDB storage"
	ErrEnsureIndexes   = "failed to ensure MongoDB indexes"
	ErrMigratePostgres = "failed to apply Postgres migrations"
	ErrConnectPostgres = "failed to connect to Postgres storage"
	ErrConnectRedis    = "failed to connect to Redis cache"
)

// Closer освобождает ресурс хранилища.
type Closer func(ctx context.Context) error

// Storage объединяет репозитории выбранного драйвера.
type Storage struct {
	Users   repositories.UserRepository
	Recipes repositories.RecipeRepository
	Tx      repositories.TxManager

	closers []Closer
}

// Open подключается к хранилищу из cfg.Storage.Driver. Подключение повторяется
// cfg.Storage.ConnectAttempts раз с экспоненциальной задержкой.
func Open(ctx context.Context, cfg *config.Config) (*Storage, error) {
	log := logger.Log(ctx).With(zap.String("driver", string(cfg.Storage.Driver)))
	log.Info(ctx, LogStorageOpening)

	retry := resilience.NewRetry("storage-connect", resilience.RetryConfig{
		MaxAttempts: cfg.Storage.ConnectAttempts,
	})

	var (
		storage *Storage
		err     error
	)
	switch cfg.Storage.Driver {
	case config.DriverMongo:
		storage, err = openMongo(ctx, retry, &cfg.Mongo)
	case config.DriverPostgres:
		storage, err = openPostgres(ctx, retry, &cfg.Postgres)
	case config.DriverMemory:
		storage = OpenMemory()
	default:
		err = fmt.Errorf("%s: %q", ErrUnknownDriver, cfg.Storage.Driver)
	}
	if err != nil {
		return nil, err
	}

	log.Info(ctx, LogStorageOpened)
	return storage, nil
}

// OpenMemory создает хранилище в памяти.
func OpenMemory() *Storage {
	f := memory.NewRepositoryFactory(memory.NewStore())
	return &Storage{
		Users:   f.UserRepository(),
		Recipes: f.RecipeRepository(),
		Tx:      f.TxManager(),
	}
}

func openMongo(ctx context.Context, retry *resilience.Retry, cfg *config.MongoConfig) (*Storage, error) {
	var database *dbmongo.Database
	err := retry.Execute(ctx, func(ctx context.Context) error {
		var err error
		database, err = dbmongo.New(ctx, cfg.URI, cfg.Database, cfg.Timeout)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrConnectMongo, err)
	}

	if err := mongodb.EnsureIndexes(ctx, database.DB()); err != nil {
		_ = database.Close(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("%s: %w", ErrEnsureIndexes, err)
	}

	f := mongodb.NewRepositoryFactory(database.Client(), database.DB(), cfg.Transactions)
	return &Storage{
		Users:   f.UserRepository(),
		Recipes: f.RecipeRepository(),
		Tx:      f.TxManager(),
		closers: []Closer{database.Close},
	}, nil
}

func openPostgres(ctx context.Context, retry *resilience.Retry, cfg *config.PostgresConfig) (*Storage, error) {
	var database *dbpostgres.Database
	err := retry.Execute(ctx, func(ctx context.Context) error {
		var err error
		database, err = dbpostgres.New(ctx, cfg.GetDSN(), cfg.MinConn, cfg.MaxConn)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrConnectPostgres, err)
	}

	if err := dbpostgres.Migrate(ctx, cfg.GetConnectionURL(), recipemigrations.FS, "."); err != nil {
		database.Close(ctx)
		return nil, fmt.Errorf("%s: %w", ErrMigratePostgres, err)
	}

	f := postgres.NewRepositoryFactory(database.Pool())
	return &Storage{
		Users:   f.UserRepository(),
		Recipes: f.RecipeRepository(),
		Tx:      f.TxManager(),
		closers: []Closer{func(ctx context.Context) error {
			database.Close(ctx)
			return nil
		}},
	}, nil
}

// EnableCache подключается к Redis и оборачивает репозиторий рецептов кэшем.
// Ошибки Redis после старта не прерывают запросы: их поглощает circuit breaker.
func (s *Storage) EnableCache(ctx context.Context, cfg *config.RedisConfig) error {
	client, err := dbredis.NewClient(ctx, cfg.ClientConfig())
	if err != nil {
		return fmt.Errorf("%s: %w", ErrConnectRedis, err)
	}

	redisCache := cache.NewRedisCache(client, cfg.DefaultTTL)
	breaker := resilience.NewBreaker("redis-recipes", resilience.DefaultBreakerConfig())
	s.Recipes = cache.NewRecipeRepository(s.Recipes, redisCache, breaker, cfg.DefaultTTL)
	s.closers = append(s.closers, func(context.Context) error {
		return redisCache.Close()
	})

	logger.Log(ctx).Info(ctx, LogCacheEnabled, zap.Duration("ttl", cfg.DefaultTTL))
	return nil
}

// Close освобождает ресурсы в порядке, обратном открытию.
func (s *Storage) Close(ctx context.Context) error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
