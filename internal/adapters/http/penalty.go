package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/example/paddock/internal/ports/primary"
)

// ListPenalties returns the team-grouped penalty view.
func (h *Handler) ListPenalties(c *fiber.Ctx) error {
	ctx, cancel := h.context(c)
	defer cancel()

	res, err := h.svc.Attribution.GroupPenaltiesByTeam(ctx)
	if err != nil {
		h.log.Errorw("failed to group penalties", "error", err.Error())
		return writeError(c, err)
	}
	if c.Query("gaps") != "true" {
		res.Gaps = nil
	}
	return c.Status(http.StatusOK).JSON(res)
}

// GetPenalty returns one penalty with its target.
func (h *Handler) GetPenalty(c *fiber.Ctx) error {
	ctx, cancel := h.context(c)
	defer cancel()

	res, err := h.svc.Penalties.GetPenalty(ctx, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(res)
}

// CreatePenalty creates a penalty with one target.
func (h *Handler) CreatePenalty(c *fiber.Ctx) error {
	var body primary.CreatePenaltyRequest
	if err := c.BodyParser(&body); err != nil {
		return c.Status(http.StatusBadRequest).JSON(errorResponse(CodeInvalid, "invalid body"))
	}

	ctx, cancel := h.context(c)
	defer cancel()

	res, err := h.svc.Penalties.CreatePenalty(ctx, body)
	if err != nil {
		h.log.Infow("penalty not created", "error", err.Error())
		return writeError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(res)
}

// UpdatePenalty rewrites a penalty. Omitting target drops the competitor link.
func (h *Handler) UpdatePenalty(c *fiber.Ctx) error {
	var body primary.UpdatePenaltyRequest
	if err := c.BodyParser(&body); err != nil {
		return c.Status(http.StatusBadRequest).JSON(errorResponse(CodeInvalid, "invalid body"))
	}
	body.PenaltyID = c.Params("id")

	ctx, cancel := h.context(c)
	defer cancel()

	if err := h.svc.Penalties.UpdatePenalty(ctx, body); err != nil {
		h.log.Infow("penalty not updated", "penalty_id", body.PenaltyID, "error", err.Error())
		return writeError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// RemovePenaltyTarget deletes both target links of a penalty.
func (h *Handler) RemovePenaltyTarget(c *fiber.Ctx) error {
	ctx, cancel := h.context(c)
	defer cancel()

	if err := h.svc.Penalties.RemoveTargetFromPenalty(ctx, c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// DeletePenalty deletes a penalty and its links.
func (h *Handler) DeletePenalty(c *fiber.Ctx) error {
	ctx, cancel := h.context(c)
	defer cancel()

	if err := h.svc.Penalties.DeletePenalty(ctx, c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}
