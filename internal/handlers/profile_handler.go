package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/code-jungle/fitlife-ai-glow-sub001/internal/health"
	"github.com/code-jungle/fitlife-ai-glow-sub001/internal/repository"
	"github.com/code-jungle/fitlife-ai-glow-sub001/internal/services"
)

type ProfileHandler struct {
	profileService *services.ProfileService
}

func NewProfileHandler(profileService *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

type updateProfileRequest struct {
	Age                 *int      `json:"age"`
	Gender              *string   `json:"gender"`
	HeightCM            *float64  `json:"height_cm"`
	WeightKG            *float64  `json:"weight_kg"`
	ActivityLevel       *string   `json:"activity_level"`
	FitnessGoal         *string   `json:"fitness_goal"`
	GymDaysPerWeek      *int      `json:"gym_days_per_week"`
	DietaryRestrictions *[]string `json:"dietary_restrictions"`
	Allergies           *[]string `json:"allergies"`
}

func (r updateProfileRequest) draftFields() services.DraftFields {
	return services.DraftFields{
		Age:                 r.Age,
		Gender:              r.Gender,
		HeightCM:            r.HeightCM,
		WeightKG:            r.WeightKG,
		ActivityLevel:       r.ActivityLevel,
		FitnessGoal:         r.FitnessGoal,
		GymDaysPerWeek:      r.GymDaysPerWeek,
		DietaryRestrictions: r.DietaryRestrictions,
		Allergies:           r.Allergies,
	}
}

func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	profile, complete, err := h.profileService.GetProfile(c.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load profile"})
	}

	return c.JSON(fiber.Map{
		"profile":          profile,
		"profile_complete": complete,
	})
}

func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if validationErr := validateDraftFields(req.draftFields()); validationErr != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationErr})
	}

	profile, err := h.profileService.UpdateProfile(c.Context(), userID, repository.UpdateProfileInput{
		Age:                 req.Age,
		Gender:              req.Gender,
		HeightCM:            req.HeightCM,
		WeightKG:            req.WeightKG,
		ActivityLevel:       req.ActivityLevel,
		FitnessGoal:         req.FitnessGoal,
		GymDaysPerWeek:      req.GymDaysPerWeek,
		DietaryRestrictions: req.DietaryRestrictions,
		Allergies:           req.Allergies,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}

	return c.JSON(fiber.Map{
		"profile":          profile,
		"profile_complete": health.IsProfileComplete(profile),
	})
}

// Metrics returns the derived health numbers for the stored profile.
// Fields the profile cannot support yet come back null, not zero.
func (h *ProfileHandler) Metrics(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	metrics, err := h.profileService.Metrics(c.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to compute metrics"})
	}

	return c.JSON(fiber.Map{"metrics": metrics})
}
