// Package http содержит компоненты для HTTP сервера.
package http

import (
	"errors"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"

	"recetario/internal/recipes/adapters/http/middleware"
	"recetario/internal/recipes/adapters/http/recipes"
	"recetario/internal/recipes/adapters/http/respond"
	"recetario/internal/recipes/adapters/http/users"
	"recetario/internal/recipes/config"
	"recetario/internal/recipes/ports/api"
)

// NewApp создает fiber-приложение с настройками из конфигурации.
func NewApp(cfg *config.HTTPConfig) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:      config.ServiceName,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		BodyLimit:    cfg.BodyLimit,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ErrorHandler: errorHandler,
	})
}

// errorHandler отвечает на ошибки, которые вернул fiber или middleware.
func errorHandler(ctx fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return respond.Message(ctx, fiberErr.Code, fiberErr.Message)
	}
	return respond.Error(ctx, err)
}

// SetupRouter настраивает маршрутизацию для HTTP сервера.
func SetupRouter(app *fiber.App, corsOrigins []string, userService api.UserService, recipeService api.RecipeService) {
	userHandler := users.NewHandler(userService)
	recipeHandler := recipes.NewHandler(recipeService)

	// Middleware для всех запросов.
	app.Use(middleware.NewRequestContextMiddleware())
	app.Use(middleware.NewLoggerMiddleware())
	app.Use(middleware.NewRecoveryMiddleware(respond.MsgInternalError))
	app.Use(cors.New(cors.Config{
		AllowOrigins: corsOrigins,
		AllowMethods: []string{fiber.MethodGet, fiber.MethodPost, fiber.MethodPut, fiber.MethodDelete, fiber.MethodOptions},
	}))

	app.Get("/health", func(ctx fiber.Ctx) error {
		return ctx.JSON(fiber.Map{"ok": true})
	})

	apiRoutes := app.Group("/api")

	userRoutes := apiRoutes.Group("/usuarios")
	userRoutes.Post("/", userHandler.Register)
	userRoutes.Get("/", userHandler.List)
	userRoutes.Get("/:id", userHandler.Get)
	userRoutes.Put("/:id", userHandler.Update)
	userRoutes.Delete("/:id", userHandler.Delete)
	userRoutes.Get("/:id/recetas", userHandler.ListRecipes)

	recipeRoutes := apiRoutes.Group("/recetas")
	recipeRoutes.Post("/", recipeHandler.Create)
	recipeRoutes.Get("/", recipeHandler.List)
	// /buscar регистрируется раньше /:id.
	recipeRoutes.Get("/buscar", recipeHandler.Search)
	recipeRoutes.Get("/:id", recipeHandler.Get)
	recipeRoutes.Put("/:id", recipeHandler.Update)
	recipeRoutes.Delete("/:id", recipeHandler.Delete)
	recipeRoutes.Post("/:id/ingredientes", recipeHandler.AddIngredients)
	recipeRoutes.Get("/:id/ingredientes", recipeHandler.ListIngredients)
	recipeRoutes.Delete("/:id/ingredientes/:ingredienteId", recipeHandler.RemoveIngredient)

	// Обработчик для несуществующих маршрутов.
	app.Use(respond.NotFound)
}
