package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

const localError = "error"

// RequestLogger registra cada petición con su request id, status y duración.
// Los errores 500 incluyen la causa que writeError dejó en c.Locals.
func RequestLogger(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()

		ev := log.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			ev = log.Error()
		case status >= fiber.StatusBadRequest:
			ev = log.Warn()
		}
		if cause, ok := c.Locals(localError).(error); ok {
			ev = ev.Err(cause)
		}
		if err != nil {
			ev = ev.AnErr("handler_error", err)
		}
		ev.Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("http")
		return err
	}
}
