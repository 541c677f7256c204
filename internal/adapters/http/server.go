package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/example/paddock/internal/config"
)

// NewServer builds the fiber app with middlewares, health, metrics and API
// routes. A nil registry disables /metrics.
func NewServer(cfg config.HTTPConfig, h *Handler, registry *prometheus.Registry, observer RequestObserver, log *zap.SugaredLogger) *fiber.App {
	serv := fiber.New(fiber.Config{
		ReadTimeout:           cfg.RequestTimeout,
		WriteTimeout:          cfg.RequestTimeout,
		DisableStartupMessage: true,
	})
	serv.Use(recover.New())
	serv.Use(requestid.New())
	serv.Use(RequestContext())
	serv.Use(RequestLogger(log.Named("http.access"), observer))

	serv.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	if registry != nil {
		serv.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	h.Register(serv)
	return serv
}
