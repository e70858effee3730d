package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/code-jungle/fitlife-ai-glow-sub001/internal/services"
)

type PlanHandler struct {
	planService *services.PlanService
}

func NewPlanHandler(planService *services.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

type generatePlanRequest struct {
	PlanType string `json:"plan_type"`
}

func (h *PlanHandler) GeneratePlan(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req generatePlanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	plan, err := h.planService.GeneratePlan(c.Context(), userID, req.PlanType)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "plan_type must be workout or nutrition"})
		case errors.Is(err, services.ErrProfileIncomplete):
			// The client should route into the setup wizard.
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error":    "Profile must be completed before generating plans",
				"redirect": "profile-setup",
			})
		case errors.Is(err, services.ErrGeneratorUnavailable):
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Plan generation is not available"})
		case errors.Is(err, pgx.ErrNoRows):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
		default:
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to generate plan"})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"plan": plan})
}

func (h *PlanHandler) ListPlans(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", defaultPageLimit)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	plans, total, err := h.planService.ListPlans(c.Context(), userID, page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list plans"})
	}

	return c.JSON(fiber.Map{
		"plans":      plans,
		"pagination": buildPaginationMeta(page, limit, total),
	})
}

func (h *PlanHandler) GetPlan(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	planID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || planID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid plan id"})
	}

	plan, err := h.planService.GetPlan(c.Context(), userID, planID)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Plan not found"})
		case errors.Is(err, services.ErrForbidden):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load plan"})
		}
	}

	return c.JSON(fiber.Map{"plan": plan})
}
