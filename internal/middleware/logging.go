package middleware

import (
	"strings"
	"time"

	"veena-assistant-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// RequestObserver is told about every finished request.
type RequestObserver interface {
	RequestCompleted(method, route string, status int, elapsed time.Duration)
}

// AccessLog writes one line per request and reports it to observer.
// Bodies are never logged: they carry customer data.
func AccessLog(log logger.ILogger, observer RequestObserver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		latency := time.Since(start)
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}

		route := c.Route().Path
		if observer != nil {
			observer.RequestCompleted(c.Method(), route, status, latency)
		}

		if strings.HasPrefix(c.Path(), "/metrics") {
			return err
		}

		fields := map[string]interface{}{
			"request_id": GetRequestID(c),
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     status,
			"latency_ms": latency.Milliseconds(),
			"ip":         c.IP(),
		}

		switch {
		case status >= 500:
			log.Error("HTTP", "Server error", fields)
		case status >= 400:
			log.Warn("HTTP", "Client error", fields)
		default:
			log.Debug("HTTP", "Request completed", fields)
		}

		return err
	}
}
