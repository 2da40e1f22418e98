// Package recipes содержит HTTP-обработчики для управления рецептами и их ингредиентами.
package recipes

import (
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"recetario/internal/recipes/adapters/http/dto"
	"recetario/internal/recipes/adapters/http/respond"
	"recetario/internal/recipes/domain/entities"
	"recetario/internal/recipes/ports/api"
	"recetario/pkg/logger"
)

// Константы сообщений для логирования и ответов.
const (
	LogHandlerCreate           = "handling create recipe request"
	LogHandlerList             = "handling list recipes request"
	LogHandlerSearch           = "handling search recipes request"
	LogHandlerGet              = "handling get recipe request"
	LogHandlerUpdate           = "handling update recipe request"
	LogHandlerDelete           = "handling delete recipe request"
	LogHandlerAddIngredients   = "handling add ingredients request"
	LogHandlerListIngredients  = "handling list ingredients request"
	LogHandlerRemoveIngredient = "handling remove ingredient request"

	ErrMsgInvalidRequestBody = "invalid request body"

	MsgRecipeDeleted = "Receta eliminada"
)

// Handler обработчик HTTP-запросов для работы с рецептами.
type Handler struct {
	recipes api.RecipeService
}

// NewHandler создает новый экземпляр обработчика рецептов.
func NewHandler(recipes api.RecipeService) *Handler {
	return &Handler{recipes: recipes}
}

// Create обрабатывает запрос на создание рецепта.
func (h *Handler) Create(ctx fiber.Ctx) error {
	userCtx := respond.UserContext(ctx)
	log := logger.Log(userCtx).With(zap.String("handler", "Handler.Create"))
	log.Debug(userCtx, LogHandlerCreate)

	var req dto.CreateRecipeRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Debug(userCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		return respond.Message(ctx, fiber.StatusBadRequest, respond.MsgInvalidBody)
	}

	recipe, err := h.recipes.Create(userCtx, req.ToAPI())
	if err != nil {
		return respond.Error(ctx, err)
	}

	return respond.JSON(ctx, fiber.StatusCreated, dto.NewRecipe(recipe))
}

// List обрабатывает запрос на получение рецептов с фильтрами ?ingrediente= и ?autor=.
func (h *Handler) List(ctx fiber.Ctx) error {
	userCtx := respond.UserContext(ctx)
	logger.Log(userCtx).Debug(userCtx, LogHandlerList)

	recipes, err := h.recipes.List(userCtx, entities.RecipeFilter{
		Ingrediente: ctx.Query("ingrediente"),
		Autor:       ctx.Query("autor"),
	})
	if err != nil {
		return respond.Error(ctx, err)
	}

	return respond.JSON(ctx, fiber.StatusOK, dto.NewRecipes(recipes))
}

// Search обрабатывает запрос на поиск рецептов по ингредиенту.
func (h *Handler) Search(ctx fiber.Ctx) error {
	userCtx := respond.UserContext(ctx)
	logger.Log(userCtx).Debug(userCtx, LogHandlerSearch)

	recipes, err := h.recipes.SearchByIngredient(userCtx, ctx.Query("ingrediente"))
	if err != nil {
		return respond.Error(ctx, err)
	}

	return respond.JSON(ctx, fiber.StatusOK, dto.NewRecipes(recipes))
}

// Get обрабатывает запрос на получение рецепта по ID.
func (h *Handler) Get(ctx fiber.Ctx) error {
	userCtx := respond.UserContext(ctx)
	logger.Log(userCtx).Debug(userCtx, LogHandlerGet, zap.String("id", ctx.Params("id")))

	recipe, err := h.recipes.Get(userCtx, ctx.Params("id"))
	if err != nil {
		return respond.Error(ctx, err)
	}

	return respond.JSON(ctx, fiber.StatusOK, dto.NewRecipe(recipe))
}

// Update обрабатывает запрос на изменение названия и инструкций.
func (h *Handler) Update(ctx fiber.Ctx) error {
	userCtx := respond.UserContext(ctx)
	log := logger.Log(userCtx).With(zap.String("handler", "Handler.Update"))
	log.Debug(userCtx, LogHandlerUpdate, zap.String("id", ctx.Params("id")))

	var req dto.UpdateRecipeRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Debug(userCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		return respond.Message(ctx, fiber.StatusBadRequest, respond.MsgInvalidBody)
	}

	recipe, err := h.recipes.Update(userCtx, ctx.Params("id"), req.ToEntity())
	if err != nil {
		return respond.Error(ctx, err)
	}

	return respond.JSON(ctx, fiber.StatusOK, dto.NewRecipe(recipe))
}

// Delete обрабатывает запрос на удаление рецепта.
func (h *Handler) Delete(ctx fiber.Ctx) error {
	userCtx := respond.UserContext(ctx)
	logger.Log(userCtx).Debug(userCtx, LogHandlerDelete, zap.String("id", ctx.Params("id")))

	if err := h.recipes.Delete(userCtx, ctx.Params("id")); err != nil {
		return respond.Error(ctx, err)
	}

	return respond.JSON(ctx, fiber.StatusOK, dto.MessageResponse{Mensaje: MsgRecipeDeleted})
}

// AddIngredients обрабатывает запрос на добавление одного или нескольких ингредиентов.
func (h *Handler) AddIngredients(ctx fiber.Ctx) error {
	userCtx := respond.UserContext(ctx)
	log := logger.Log(userCtx).With(zap.String("handler", "Handler.AddIngredients"))
	log.Debug(userCtx, LogHandlerAddIngredients, zap.String("id", ctx.Params("id")))

	var req dto.AddIngredientsRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Debug(userCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		return respond.Message(ctx, fiber.StatusBadRequest, respond.MsgInvalidBody)
	}

	recipe, err := h.recipes.AddIngredients(userCtx, ctx.Params("id"), req.ToRaws())
	if err != nil {
		return respond.Error(ctx, err)
	}

	return respond.JSON(ctx, fiber.StatusOK, dto.NewRecipe(recipe))
}

// ListIngredients обрабатывает запрос на получение ингредиентов рецепта.
func (h *Handler) ListIngredients(ctx fiber.Ctx) error {
	userCtx := respond.UserContext(ctx)
	logger.Log(userCtx).Debug(userCtx, LogHandlerListIngredients, zap.String("id", ctx.Params("id")))

	ingredients, err := h.recipes.ListIngredients(userCtx, ctx.Params("id"))
	if err != nil {
		return respond.Error(ctx, err)
	}

	return respond.JSON(ctx, fiber.StatusOK, dto.NewIngredients(ingredients))
}

// RemoveIngredient обрабатывает запрос на удаление ингредиента.
func (h *Handler) RemoveIngredient(ctx fiber.Ctx) error {
	userCtx := respond.UserContext(ctx)
	logger.Log(userCtx).Debug(userCtx, LogHandlerRemoveIngredient,
		zap.String("id", ctx.Params("id")),
		zap.String("ingredienteId", ctx.Params("ingredienteId")))

	recipe, err := h.recipes.RemoveIngredient(userCtx, ctx.Params("id"), ctx.Params("ingredienteId"))
	if err != nil {
		return respond.Error(ctx, err)
	}

	return respond.JSON(ctx, fiber.StatusOK, dto.NewRecipe(recipe))
}
