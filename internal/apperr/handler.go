package apperr

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler returns the fiber error handler that turns service errors into
// `{"success": false, "message": ..., "errors": ...}` responses.
func Handler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var ae *Error
		if errors.As(err, &ae) {
			if ae.Kind == KindDependency || ae.Kind == KindInternal {
				log.Error("request failed",
					zap.String("method", c.Method()),
					zap.String("path", c.Path()),
					zap.String("kind", ae.Kind.String()),
					zap.Error(err),
				)
			}
			body := fiber.Map{"success": false, "message": ae.Message}
			if len(ae.Fields) > 0 {
				body["errors"] = ae.Fields
			}
			return c.Status(ae.Kind.Status()).JSON(body)
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"success": false, "message": fe.Message})
		}

		log.Error("unhandled error",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Something went wrong on the server.",
		})
	}
}
