// Package respond отправляет JSON-ответы и сопоставляет ошибки домена с HTTP-статусами.
package respond

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"recetario/internal/recipes/adapters/http/dto"
	"recetario/internal/recipes/domain/entities"
	"recetario/pkg/logger"
)

// Сообщения об ошибках, которые видит клиент.
const (
	MsgInternalError = "Error interno del servidor"
	MsgInvalidBody   = "Cuerpo de la petición inválido"
	MsgRouteNotFound = "Ruta no encontrada: %s %s"
)

// ErrSendingResponse - сообщение logger при сбое отправки ответа.
const ErrSendingResponse = "error sending response"

// UserContext возвращает контекст запроса, подготовленный middleware.
func UserContext(ctx fiber.Ctx) context.Context {
	if userCtx, ok := ctx.Locals("userContext").(context.Context); ok {
		return userCtx
	}
	return ctx.Context()
}

// JSON отправляет тело со статусом.
func JSON(ctx fiber.Ctx, status int, body any) error {
	if err := ctx.Status(status).JSON(body); err != nil {
		return fmt.Errorf("%s: %w", ErrSendingResponse, err)
	}
	return nil
}

// Message отправляет ошибку с указанным статусом и сообщением.
func Message(ctx fiber.Ctx, status int, msg string) error {
	return JSON(ctx, status, dto.ErrorResponse{Error: msg})
}

// StatusFor возвращает HTTP-статус для ошибки.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, entities.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, entities.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, entities.ErrConflict):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// Error отправляет ответ для ошибки сервиса. Ошибки без вида домена
// логируются и скрываются за общим сообщением.
func Error(ctx fiber.Ctx, err error) error {
	status := StatusFor(err)
	if status == fiber.StatusInternalServerError {
		userCtx := UserContext(ctx)
		logger.Log(userCtx).Error(userCtx, "unhandled error",
			zap.String("path", ctx.Path()),
			zap.String("method", ctx.Method()),
			zap.Error(err))
		return Message(ctx, status, MsgInternalError)
	}

	var domainErr *entities.DomainError
	if errors.As(err, &domainErr) {
		return Message(ctx, status, domainErr.Error())
	}
	return Message(ctx, status, err.Error())
}

// NotFound отвечает на запрос к неизвестному маршруту.
func NotFound(ctx fiber.Ctx) error {
	return Message(ctx, fiber.StatusNotFound, fmt.Sprintf(MsgRouteNotFound, ctx.Method(), ctx.OriginalURL()))
}
