//go:build integration

package db_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"recetario/internal/recipes/adapters/services"
	"recetario/internal/recipes/app"
	"recetario/internal/recipes/config"
	"recetario/internal/recipes/db"
	"recetario/internal/recipes/domain/entities"
	"recetario/internal/recipes/ports/api"
)

func startContainer(t *testing.T, req tc.ContainerRequest) (string, int) {
	t.Helper()
	ctx := context.Background()

	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, req.ExposedPorts[0])
	require.NoError(t, err)

	return host, port.Int()
}

func startPostgres(t *testing.T) config.PostgresConfig {
	host, port := startContainer(t, tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "password",
			"POSTGRES_DB":       "recetario_test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(2 * time.Minute),
	})

	return config.PostgresConfig{
		Host:     host,
		Port:     port,
		User:     "postgres",
		Password: "password",
		Database: "recetario_test",
		MinConn:  1,
		MaxConn:  4,
	}
}

func startMongo(t *testing.T) config.MongoConfig {
	host, port := startContainer(t, tc.ContainerRequest{
		Image:        "mongo:7",
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor:   wait.ForListeningPort("27017/tcp").WithStartupTimeout(2 * time.Minute),
	})

	return config.MongoConfig{
		URI:      "mongodb://" + host + ":" + strconv.Itoa(port),
		Database: "recetario_test",
		Timeout:  10 * time.Second,
	}
}

func startRedis(t *testing.T) config.RedisConfig {
	host, port := startContainer(t, tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(time.Minute),
	})

	return config.RedisConfig{
		Enabled:        true,
		Host:           host,
		Port:           port,
		PoolSize:       4,
		ConnectTimeout: 5 * time.Second,
		ReadTimeout:    3 * time.Second,
		WriteTimeout:   3 * time.Second,
		DefaultTTL:     time.Minute,
	}
}

func TestStorageDrivers(t *testing.T) {
	if testing.Short() {
		t.Skip("requires docker")
	}

	t.Run("postgres", func(t *testing.T) {
		cfg := &config.Config{
			Storage:  config.StorageConfig{Driver: config.DriverPostgres, ConnectAttempts: 5},
			Postgres: startPostgres(t),
		}
		runScenario(t, cfg, nil)
	})

	t.Run("mongo", func(t *testing.T) {
		cfg := &config.Config{
			Storage: config.StorageConfig{Driver: config.DriverMongo, ConnectAttempts: 5},
			Mongo:   startMongo(t),
		}
		runScenario(t, cfg, nil)
	})

	t.Run("mongo with redis cache", func(t *testing.T) {
		cfg := &config.Config{
			Storage: config.StorageConfig{Driver: config.DriverMongo, ConnectAttempts: 5},
			Mongo:   startMongo(t),
		}
		redisCfg := startRedis(t)
		runScenario(t, cfg, &redisCfg)
	})
}

func runScenario(t *testing.T, cfg *config.Config, redisCfg *config.RedisConfig) {
	t.Helper()
	ctx := context.Background()

	storage, err := db.Open(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close(context.Background()) })

	if redisCfg != nil {
		require.NoError(t, storage.EnableCache(ctx, redisCfg))
	}

	cascade := app.NewCascade(storage.Users, storage.Recipes, storage.Tx)
	users := app.NewUserUseCase(storage.Users, storage.Recipes, services.NewBcrypt(4), cascade)
	recipes := app.NewRecipeUseCase(storage.Recipes, storage.Users, app.RecipePolicy{})

	ana, err := users.Register(ctx, api.RegisterUserRequest{Nombre: "Ana", Email: "ana@x.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = users.Register(ctx, api.RegisterUserRequest{Nombre: "Otra", Email: "ANA@x.com", Password: "secret123"})
	assert.ErrorIs(t, err, entities.ErrConflict)

	cantidad := "1"
	recipe, err := recipes.Create(ctx, api.CreateRecipeRequest{
		Nombre:        "Pollo al Horno",
		Instrucciones: "Hornear",
		Autor:         ana.ID,
		Ingredientes: []entities.RawIngredient{
			{Nombre: "Pollo", Cantidad: &cantidad},
			{Nombre: "Sal de Mar"},
		},
	})
	require.NoError(t, err)
	require.Len(t, recipe.Ingredientes, 2)
	assert.Equal(t, "sal-de-mar", recipe.Ingredientes[1].Slug)

	found, err := recipes.List(ctx, entities.RecipeFilter{Ingrediente: "pollo"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, recipe.ID, found[0].ID)

	got, err := recipes.Get(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pollo al Horno", got.Nombre)

	updated, err := recipes.AddIngredients(ctx, recipe.ID, []entities.RawIngredient{{Nombre: "Ajo"}})
	require.NoError(t, err)
	require.Len(t, updated.Ingredientes, 3)

	updated, err = recipes.RemoveIngredient(ctx, recipe.ID, updated.Ingredientes[0].ID)
	require.NoError(t, err)
	assert.Len(t, updated.Ingredientes, 2)

	got, err = recipes.Get(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Len(t, got.Ingredientes, 2)

	result, err := users.Delete(ctx, ana.ID)
	require.NoError(t, err)
	assert.True(t, result.Deleted)
	assert.Equal(t, int64(1), result.RecipesRemoved)

	_, err = recipes.Get(ctx, recipe.ID)
	assert.ErrorIs(t, err, entities.ErrNotFound)

	_, err = users.Get(ctx, ana.ID)
	assert.ErrorIs(t, err, entities.ErrNotFound)
}
