package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// GetStandings returns the standings of one category.
func (h *Handler) GetStandings(c *fiber.Ctx) error {
	ctx, cancel := h.context(c)
	defer cancel()

	res, err := h.svc.Standings.ComputeStandings(ctx, c.Params("id"))
	if err != nil {
		h.log.Errorw("failed to compute standings", "category_id", c.Params("id"), "error", err.Error())
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(res)
}

// GetReconcile returns the reconciliation report without applying it.
func (h *Handler) GetReconcile(c *fiber.Ctx) error {
	ctx, cancel := h.context(c)
	defer cancel()

	res, err := h.svc.Reconcile.Scan(ctx)
	if err != nil {
		h.log.Errorw("failed to scan penalties", "error", err.Error())
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(res)
}
