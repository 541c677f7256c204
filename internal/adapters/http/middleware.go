package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/example/paddock/internal/ctxutil"
)

// RequestObserver records served requests.
type RequestObserver interface {
	HTTPRequest(route, method string, status int, duration time.Duration)
}

// RequestContext copies the request id set by the requestid middleware into
// the user context so service logs carry it.
func RequestContext() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("requestid").(string)
		if reqID == "" {
			reqID = c.Get(fiber.HeaderXRequestID)
		}
		if reqID != "" {
			c.SetUserContext(ctxutil.WithRequestID(c.UserContext(), reqID))
		}
		return c.Next()
	}
}

// RequestLogger logs HTTP requests with method, path, status and duration.
// A nil observer skips metrics.
func RequestLogger(log *zap.SugaredLogger, observer RequestObserver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		dur := time.Since(start)

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		log.Infow("http",
			"method", c.Method(),
			"path", c.OriginalURL(),
			"status", status,
			"duration_ms", float64(dur.Microseconds())/1000.0,
			"request_id", ctxutil.RequestID(c.UserContext()),
		)
		if observer != nil {
			observer.HTTPRequest(c.Route().Path, c.Method(), status, dur)
		}
		return err
	}
}
