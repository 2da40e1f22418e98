// Package users содержит HTTP-обработчики для управления пользователями.
package users

import (
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"recetario/internal/recipes/adapters/http/dto"
	"recetario/internal/recipes/adapters/http/respond"
	"recetario/internal/recipes/ports/api"
	"recetario/pkg/logger"
)

// Константы сообщений для логирования и ответов.
const (
	LogHandlerRegister    = "handling register user request"
	LogHandlerList        = "handling list users request"
	LogHandlerGet         = "handling get user request"
	LogHandlerUpdate      = "handling update user request"
	LogHandlerDelete      = "handling delete user request"
	LogHandlerListRecipes = "handling list user recipes request"

	ErrMsgInvalidRequestBody = "invalid request body"

	MsgUserDeleted = "Usuario eliminado"
)

// Handler обработчик HTTP-запросов для работы с пользователями.
type Handler struct {
	users api.UserService
}

// NewHandler создает новый экземпляр обработчика пользователей.
func NewHandler(users api.UserService) *Handler {
	return &Handler{users: users}
}

// Register обрабатывает запрос на регистрацию пользователя.
func (h *Handler) Register(ctx fiber.Ctx) error {
	userCtx := respond.UserContext(ctx)
	log := logger.Log(userCtx).With(zap.String("handler", "Handler.Register"))
	log.Debug(userCtx, LogHandlerRegister)

	var req dto.RegisterUserRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Debug(userCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		return respond.Message(ctx, fiber.StatusBadRequest, respond.MsgInvalidBody)
	}

	user, err := h.users.Register(userCtx, req.ToAPI())
	if err != nil {
		return respond.Error(ctx, err)
	}

	return respond.JSON(ctx, fiber.StatusCreated, dto.NewUser(user))
}

// List обрабатывает запрос на получение всех пользователей.
func (h *Handler) List(ctx fiber.Ctx) error {
	userCtx := respond.UserContext(ctx)
	logger.Log(userCtx).Debug(userCtx, LogHandlerList)

	users, err := h.users.List(userCtx)
	if err != nil {
		return respond.Error(ctx, err)
	}

	return respond.JSON(ctx, fiber.StatusOK, dto.NewUsers(users))
}

// Get обрабатывает запрос на получение пользователя по ID.
func (h *Handler) Get(ctx fiber.Ctx) error {
	userCtx := respond.UserContext(ctx)
	logger.Log(userCtx).Debug(userCtx, LogHandlerGet, zap.String("id", ctx.Params("id")))

	user, err := h.users.Get(userCtx, ctx.Params("id"))
	if err != nil {
		return respond.Error(ctx, err)
	}

	return respond.JSON(ctx, fiber.StatusOK, dto.NewUser(user))
}

// Update обрабатывает запрос на изменение пользователя.
func (h *Handler) Update(ctx fiber.Ctx) error {
	userCtx := respond.UserContext(ctx)
	log := logger.Log(userCtx).With(zap.String("handler", "Handler.Update"))
	log.Debug(userCtx, LogHandlerUpdate, zap.String("id", ctx.Params("id")))

	var req dto.UpdateUserRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Debug(userCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		return respond.Message(ctx, fiber.StatusBadRequest, respond.MsgInvalidBody)
	}

	user, err := h.users.Update(userCtx, ctx.Params("id"), req.ToEntity())
	if err != nil {
		return respond.Error(ctx, err)
	}

	return respond.JSON(ctx, fiber.StatusOK, dto.NewUser(user))
}

// Delete обрабатывает запрос на удаление пользователя вместе с его рецептами.
func (h *Handler) Delete(ctx fiber.Ctx) error {
	userCtx := respond.UserContext(ctx)
	logger.Log(userCtx).Debug(userCtx, LogHandlerDelete, zap.String("id", ctx.Params("id")))

	result, err := h.users.Delete(userCtx, ctx.Params("id"))
	if err != nil {
		return respond.Error(ctx, err)
	}

	return respond.JSON(ctx, fiber.StatusOK, dto.DeleteUserResponse{
		Mensaje:           MsgUserDeleted,
		RecetasEliminadas: result.RecipesRemoved,
	})
}

// ListRecipes обрабатывает запрос на получение рецептов пользователя.
func (h *Handler) ListRecipes(ctx fiber.Ctx) error {
	userCtx := respond.UserContext(ctx)
	logger.Log(userCtx).Debug(userCtx, LogHandlerListRecipes, zap.String("id", ctx.Params("id")))

	recipes, err := h.users.ListRecipes(userCtx, ctx.Params("id"))
	if err != nil {
		return respond.Error(ctx, err)
	}

	return respond.JSON(ctx, fiber.StatusOK, dto.NewRecipes(recipes))
}
