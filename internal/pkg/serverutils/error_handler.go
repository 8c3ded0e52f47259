package serverutils

import (
	"errors"

	"careercoach-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts service errors into the uniform JSON
// envelope. Expected domain failures map to their status codes; anything
// else (including storage failures) surfaces as 500 untouched in message.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
		}

		switch apperror.KindOf(err) {
		case apperror.KindNotFound:
			return ctx.Status(fiber.StatusNotFound).JSON(ErrorResponse(fiber.StatusNotFound, err.Error()))
		case apperror.KindConflict:
			return ctx.Status(fiber.StatusConflict).JSON(ErrorResponse(fiber.StatusConflict, err.Error()))
		case apperror.KindInvalidState:
			return ctx.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse(fiber.StatusUnprocessableEntity, err.Error()))
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(fiber.StatusInternalServerError, err.Error()))
	}
}
