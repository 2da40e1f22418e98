// Package main реализует точку входа сервиса рецептов.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	recipehttp "recetario/internal/recipes/adapters/http"
	"recetario/internal/recipes/adapters/services"
	"recetario/internal/recipes/app"
	"recetario/internal/recipes/config"
	"recetario/internal/recipes/db"
	"recetario/pkg/logger"
	"recetario/pkg/shutdown"
)

// Константы для переменных окружения.
const (
	EnvLoggerMode  = "RECETARIO_LOGGER_MODE"
	EnvLoggerLevel = "RECETARIO_LOGGER_LEVEL"
)

// Константы для сообщений об ошибках.
const (
	ErrInitLogger           = "failed to initialize logger"
	ErrSyncLogger           = "failed to sync logger"
	ErrLoadConfig           = "failed to load configuration"
	ErrInitLoggerWithConfig = "failed to initialize logger with configuration settings"
	ErrInitStorage          = "failed to initialize storage"
	ErrInitCache            = "failed to initialize recipe cache"
	ErrSeed                 = "failed to seed demo data"
	ErrStartHTTPServer      = "failed to start HTTP server"
)

// Константы для игнорируемых ошибок.
const (
	ErrSyncStderr = "sync /dev/stderr: invalid argument"
	ErrSyncStdout = "sync /dev/stdout: invalid argument"
)

// Константы для сообщений сервиса.
const (
	LogServiceStarted      = "recipe service started"
	LogServiceShutdownDone = "recipe service shutdown complete"
	LogClosingStorage      = "closing storage connections"
	LogStoppingHTTP        = "stopping HTTP server"
	LogInitStorage         = "initializing storage"
	LogInitServices        = "initializing services"
	LogInitUseCases        = "initializing use cases"
	LogSeeding             = "seeding demo data"
	LogSeeded              = "demo data seeded"
	LogSeedSkipped         = "storage already contains data, seeding skipped"
	LogInitHTTPServer      = "initializing HTTP server"
	LogStartingHTTP        = "starting HTTP server"
)

func main() {
	configPath := flag.String("config", os.Getenv(config.EnvConfigPath), "path to configuration file")
	forceSeed := flag.Bool("seed", false, "wipe users and recipes and load demo data")
	flag.Parse()

	env := logger.Development
	if strings.ToLower(os.Getenv(EnvLoggerMode)) == "production" {
		env = logger.Production
	}

	log, err := logger.NewLogger(env, os.Getenv(EnvLoggerLevel))
	if err != nil {
		panic(ErrInitLogger + ": " + err.Error())
	}

	logger.SetGlobalLogger(log)

	ctx := logger.NewRequestIDContext(context.Background(), "")

	var exitCode int

	func() {
		defer func() {
			if err := log.Sync(); err != nil {
				errMsg := err.Error()
				if strings.Contains(errMsg, ErrSyncStderr) || strings.Contains(errMsg, ErrSyncStdout) {
					return
				}
				if _, writeErr := fmt.Fprintf(os.Stderr, "%s: %v\n", ErrSyncLogger, err); writeErr != nil {
					panic(writeErr)
				}
			}
		}()

		cfg, err := config.Load(ctx, *configPath)
		if err != nil {
			log.Error(ctx, ErrLoadConfig, zap.Error(err))
			exitCode = 1
			return
		}

		finalLogger, err := logger.NewLogger(cfg.Logging.GetEnvironment(), cfg.Logging.Level)
		if err != nil {
			log.Error(ctx, ErrInitLoggerWithConfig, zap.Error(err))
			exitCode = 1
			return
		}
		logger.SetGlobalLogger(finalLogger)
		log = finalLogger

		log.Info(ctx, LogServiceStarted,
			zap.String("environment", string(cfg.Logging.GetEnvironment())),
			zap.String("log_level", cfg.Logging.Level),
			zap.String("storage", string(cfg.Storage.Driver)),
			zap.String("startup_time", time.Now().Format(time.RFC3339)))

		log.Info(ctx, LogInitStorage)
		storage, err := db.Open(ctx, cfg)
		if err != nil {
			log.Error(ctx, ErrInitStorage, zap.Error(err))
			exitCode = 1
			return
		}

		if cfg.Redis.Enabled {
			if err := storage.EnableCache(ctx, &cfg.Redis); err != nil {
				log.Error(ctx, ErrInitCache, zap.Error(err))
				_ = storage.Close(ctx)
				exitCode = 1
				return
			}
		}

		log.Info(ctx, LogInitServices)
		passwordService := services.NewBcrypt(cfg.Security.BcryptCost)

		log.Info(ctx, LogInitUseCases)
		cascade := app.NewCascade(storage.Users, storage.Recipes, storage.Tx)
		userUseCase := app.NewUserUseCase(storage.Users, storage.Recipes, passwordService, cascade)
		recipeUseCase := app.NewRecipeUseCase(storage.Recipes, storage.Users, app.RecipePolicy{
			AllowEmptyRecipes: cfg.Recipes.AllowEmptyRecipes,
		})

		log.Info(ctx, LogSeeding)
		seeder := app.NewSeeder(storage.Users, storage.Recipes, userUseCase, recipeUseCase)
		report, err := seeder.Run(ctx, app.SeedOptions{
			Force: cfg.Seed.Force || *forceSeed,
			Skip:  cfg.Seed.Skip,
		})
		if err != nil {
			log.Error(ctx, ErrSeed, zap.Error(err))
			_ = storage.Close(ctx)
			exitCode = 1
			return
		}
		if report.Seeded {
			log.Info(ctx, LogSeeded, zap.Int("users", report.Users), zap.Int("recipes", report.Recipes))
		} else {
			log.Info(ctx, LogSeedSkipped)
		}

		log.Info(ctx, LogInitHTTPServer)
		server := recipehttp.NewApp(&cfg.HTTP)
		recipehttp.SetupRouter(server, cfg.HTTP.CORSOrigins, userUseCase, recipeUseCase)

		log.Info(ctx, LogStartingHTTP, zap.String("address", cfg.HTTP.GetAddress()))
		go func() {
			if err := server.Listen(cfg.HTTP.GetAddress()); err != nil {
				log.Error(ctx, ErrStartHTTPServer, zap.Error(err))
			}
		}()

		shutdown.Wait(ctx, cfg.Shutdown.GetTimeout(),
			// Хранилище закрывается только после остановки HTTP сервера.
			func(ctx context.Context) error {
				log.Info(ctx, LogStoppingHTTP)
				httpErr := server.ShutdownWithContext(ctx)

				log.Info(ctx, LogClosingStorage)
				return errors.Join(httpErr, storage.Close(ctx))
			},
		)

		log.Info(ctx, LogServiceShutdownDone)
	}()

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
