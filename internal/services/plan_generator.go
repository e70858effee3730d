package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/code-jungle/fitlife-ai-glow-sub001/internal/models"
)

// PlanRequest is the shape handed to the generative backend: the profile
// attributes plus the macro targets derived by the metrics engine.
type PlanRequest struct {
	PlanType            string   `json:"plan_type"`
	Age                 int      `json:"age"`
	Gender              string   `json:"gender"`
	HeightCM            float64  `json:"height_cm"`
	WeightKG            float64  `json:"weight_kg"`
	ActivityLevel       string   `json:"activity_level"`
	FitnessGoal         string   `json:"fitness_goal"`
	GymDaysPerWeek      int      `json:"gym_days_per_week"`
	DietaryRestrictions []string `json:"dietary_restrictions"`
	Allergies           []string `json:"allergies"`
	TargetCalories      int      `json:"target_calories"`
	TargetProtein       int      `json:"target_protein"`
	TargetCarbs         int      `json:"target_carbs"`
	TargetFat           int      `json:"target_fat"`
}

// PlanResult carries the generated plan back; Content is an opaque JSON
// document stored and served verbatim.
type PlanResult struct {
	Title   string
	Content []byte
}

type PlanGenerator interface {
	GeneratePlan(ctx context.Context, req PlanRequest) (*PlanResult, error)
}

// HTTPPlanGenerator talks to the external generation API over HTTP.
type HTTPPlanGenerator struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewHTTPPlanGenerator(baseURL, apiKey, model string) *HTTPPlanGenerator {
	return &HTTPPlanGenerator{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: http.DefaultClient,
	}
}

func (g *HTTPPlanGenerator) GeneratePlan(ctx context.Context, planReq PlanRequest) (*PlanResult, error) {
	payload := struct {
		Model string      `json:"model,omitempty"`
		Input PlanRequest `json:"input"`
	}{
		Model: g.model,
		Input: planReq,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal plan request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/plans/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build plan request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("generate plan: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		responseBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("generate plan: status %d: %s", resp.StatusCode, strings.TrimSpace(string(responseBody)))
	}

	var response struct {
		Title string          `json:"title"`
		Plan  json.RawMessage `json:"plan"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode plan response: %w", err)
	}
	if len(response.Plan) == 0 {
		return nil, fmt.Errorf("plan missing from response")
	}
	if response.Title == "" {
		response.Title = defaultPlanTitle(planReq.PlanType)
	}

	return &PlanResult{Title: response.Title, Content: response.Plan}, nil
}

func defaultPlanTitle(planType string) string {
	if planType == models.PlanTypeNutrition {
		return "Nutrition Plan"
	}
	return "Workout Plan"
}
