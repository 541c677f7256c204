// Package http exposes the engine over a fiber JSON API.
package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/example/paddock/internal/ports/primary"
)

// Services bundles the primary ports the handlers drive.
type Services struct {
	Standings   primary.StandingsService
	Attribution primary.AttributionService
	Penalties   primary.PenaltyService
	Reconcile   primary.ReconcileService
}

// Handler serves the JSON API.
type Handler struct {
	log     *zap.SugaredLogger
	svc     Services
	timeout time.Duration
}

// NewHandler constructs a Handler. A zero timeout leaves request deadlines
// to the store.
func NewHandler(log *zap.SugaredLogger, svc Services, timeout time.Duration) *Handler {
	return &Handler{
		log:     log.Named("http"),
		svc:     svc,
		timeout: timeout,
	}
}

// Register mounts the API routes on router.
func (h *Handler) Register(router fiber.Router) {
	api := router.Group("/api/v1")
	api.Get("/categories/:id/standings", h.GetStandings)
	api.Get("/penalties", h.ListPenalties)
	api.Post("/penalties", h.CreatePenalty)
	api.Get("/penalties/:id", h.GetPenalty)
	api.Put("/penalties/:id", h.UpdatePenalty)
	api.Delete("/penalties/:id/target", h.RemovePenaltyTarget)
	api.Delete("/penalties/:id", h.DeletePenalty)
	api.Get("/reconcile", h.GetReconcile)
}

func (h *Handler) context(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	ctx := c.UserContext()
	if h.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, h.timeout)
}
