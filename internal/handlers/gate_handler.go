package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/code-jungle/fitlife-ai-glow-sub001/internal/services"
)

// GateHandler answers routing-layer questions: what state is this session
// in, which verdict applies to the route being entered, and what should
// the nudge modal do.
type GateHandler struct {
	gateService *services.GateService
}

func NewGateHandler(gateService *services.GateService) *GateHandler {
	return &GateHandler{gateService: gateService}
}

// Evaluate runs under optional auth: no token means an anonymous session,
// which is a first-class gate state rather than a 401.
func (h *GateHandler) Evaluate(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		userID = 0
	}

	status := h.gateService.Evaluate(c.Context(), userID)
	return c.JSON(status)
}

func (h *GateHandler) NudgeState(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	return c.JSON(fiber.Map{"open": h.gateService.NudgeOpen(userID)})
}

// CloseNudge is the temporary dismissal: this session stays quiet, a
// future session may nudge again.
func (h *GateHandler) CloseNudge(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	h.gateService.CloseNudge(userID)
	return c.JSON(fiber.Map{"open": false})
}

// DismissNudge is the permanent dismissal: the suppression flag survives
// across sessions until the profile is completed.
func (h *GateHandler) DismissNudge(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	if err := h.gateService.DismissNudgePermanently(c.Context(), userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to record dismissal"})
	}
	return c.JSON(fiber.Map{"open": false})
}
