package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/code-jungle/fitlife-ai-glow-sub001/internal/services"
)

// WizardHandler exposes the profile-setup wizard: a draft is opened per
// session, patched step by step, and only an explicit submit persists
// anything. Abandoning the wizard costs nothing.
type WizardHandler struct {
	profileService *services.ProfileService
}

func NewWizardHandler(profileService *services.ProfileService) *WizardHandler {
	return &WizardHandler{profileService: profileService}
}

func (h *WizardHandler) StartDraft(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	draft, err := h.profileService.StartDraft(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to start draft"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"draft": draft})
}

func (h *WizardHandler) GetDraft(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	draft, err := h.profileService.GetDraft(c.Params("id"), userID)
	if err != nil {
		if errors.Is(err, services.ErrDraftNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Draft not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load draft"})
	}

	return c.JSON(fiber.Map{"draft": draft})
}

func (h *WizardHandler) UpdateStep(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	fields := req.draftFields()
	if validationErr := validateDraftFields(fields); validationErr != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationErr})
	}

	draft, err := h.profileService.UpdateDraftStep(c.Params("id"), userID, fields)
	if err != nil {
		if errors.Is(err, services.ErrDraftNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Draft not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update draft"})
	}

	return c.JSON(fiber.Map{"draft": draft})
}

func (h *WizardHandler) Submit(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	profile, err := h.profileService.SubmitDraft(c.Context(), c.Params("id"), userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDraftNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Draft not found"})
		case errors.Is(err, services.ErrProfileIncomplete):
			return c.Status(fiber.StatusUnprocessableEntity).
				JSON(fiber.Map{"error": "Draft is missing required fields"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to submit profile"})
		}
	}

	return c.JSON(fiber.Map{
		"profile":          profile,
		"profile_complete": true,
	})
}

func (h *WizardHandler) Abandon(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	if err := h.profileService.AbandonDraft(c.Params("id"), userID); err != nil {
		if errors.Is(err, services.ErrDraftNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Draft not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to discard draft"})
	}

	return c.JSON(fiber.Map{"status": "discarded"})
}
