// Package middleware содержит промежуточное ПО для HTTP обработчиков.
package middleware

import (
	"github.com/gofiber/fiber/v3"

	"recetario/pkg/logger"
)

// HeaderRequestID - заголовок с идентификатором запроса.
const HeaderRequestID = "X-Request-ID"

// NewRequestContextMiddleware создает контекст запроса с идентификатором и сохраняет его в Locals.
// Идентификатор берется из заголовка X-Request-ID или генерируется.
func NewRequestContextMiddleware() fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestID := ctx.Get(HeaderRequestID)
		if requestID == "" {
			requestID = logger.GenerateRequestID()
		}

		userCtx := logger.NewRequestIDContext(ctx.Context(), requestID)
		ctx.Locals("userContext", userCtx)
		ctx.Set(HeaderRequestID, requestID)

		return ctx.Next()
	}
}
