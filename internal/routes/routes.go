package routes

import (
	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/code-jungle/fitlife-ai-glow-sub001/internal/config"
	"github.com/code-jungle/fitlife-ai-glow-sub001/internal/handlers"
	"github.com/code-jungle/fitlife-ai-glow-sub001/internal/middleware"
	"github.com/code-jungle/fitlife-ai-glow-sub001/internal/repository"
	"github.com/code-jungle/fitlife-ai-glow-sub001/internal/services"
	gatews "github.com/code-jungle/fitlife-ai-glow-sub001/internal/websocket"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool) {
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	flagRepo := repository.NewFlagRepository(db)
	planRepo := repository.NewPlanRepository(db)

	hub := gatews.NewHub()
	go hub.Run()

	gateService := services.NewGateService(profileRepo, flagRepo, cfg.NudgeDelay, hub.PushNudge, hub.PushState)
	profileService := services.NewProfileService(profileRepo, gateService)

	var generator services.PlanGenerator
	if cfg.PlannerConfigured() {
		generator = services.NewHTTPPlanGenerator(cfg.PlannerURL, cfg.PlannerAPIKey, cfg.PlannerModel)
	}
	planService := services.NewPlanService(planRepo, profileRepo, generator)

	authHandler := handlers.NewAuthHandler(db, userRepo, profileRepo, gateService, cfg.JWTSecret)
	profileHandler := handlers.NewProfileHandler(profileService)
	wizardHandler := handlers.NewWizardHandler(profileService)
	gateHandler := handlers.NewGateHandler(gateService)
	planHandler := handlers.NewPlanHandler(planService)
	eventsHandler := handlers.NewEventsHandler(hub, cfg.JWTSecret)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", middleware.AuthRequired(cfg.JWTSecret), authHandler.Me)
	auth.Post("/logout", middleware.AuthRequired(cfg.JWTSecret), authHandler.Logout)

	// The gate serves anonymous sessions too; a missing token is a gate
	// state, not an error.
	api.Get("/v1/gate", middleware.AuthOptional(cfg.JWTSecret), gateHandler.Evaluate)

	authProtected := api.Group("/v1", middleware.AuthRequired(cfg.JWTSecret))

	profile := authProtected.Group("/profile")
	profile.Get("", profileHandler.GetProfile)
	profile.Put("", profileHandler.UpdateProfile)
	profile.Get("/metrics", profileHandler.Metrics)

	wizard := authProtected.Group("/profile/wizard")
	wizard.Post("", wizardHandler.StartDraft)
	wizard.Get("/:id", wizardHandler.GetDraft)
	wizard.Patch("/:id", wizardHandler.UpdateStep)
	wizard.Post("/:id/submit", wizardHandler.Submit)
	wizard.Delete("/:id", wizardHandler.Abandon)

	nudge := authProtected.Group("/nudge")
	nudge.Get("", gateHandler.NudgeState)
	nudge.Post("/close", gateHandler.CloseNudge)
	nudge.Post("/dismiss", gateHandler.DismissNudge)

	plans := authProtected.Group("/plans")
	plans.Post("/generate", planHandler.GeneratePlan)
	plans.Get("", planHandler.ListPlans)
	plans.Get("/:id", planHandler.GetPlan)

	api.Use("/v1/ws", eventsHandler.WebSocketAuth)
	api.Get("/v1/ws", websocket.New(eventsHandler.HandleWebSocket))
}
