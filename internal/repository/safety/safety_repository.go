package safety

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"myHairMatch/domain"
)

type SafetyConfig struct {
	SafetyBaseURL string
	SafetyAPIKey  string
}

// SafetyRepository calls an external ingredient analysis service. It is
// optional; when no base URL is configured the pipeline falls back to the
// local rule engine.
type SafetyRepository struct {
	safetyConfig SafetyConfig
}

func NewSafetyRepository(cfg SafetyConfig) *SafetyRepository {
	return &SafetyRepository{
		cfg,
	}
}

type payloadAnalyze struct {
	Ingredients []string `json:"ingredients"`
}

type flaggedResponse struct {
	Name     string `json:"name"`
	Concern  string `json:"concern"`
	Severity string `json:"severity"`
}

type analyzeResponse struct {
	Score           float64           `json:"score"`
	Flagged         []flaggedResponse `json:"flagged"`
	AllergenMatches []string          `json:"allergen_matches"`
}

func (r SafetyRepository) Analyze(ctx context.Context, ingredientNames []string) (domain.IngredientSafety, error) {
	url := r.safetyConfig.SafetyBaseURL + "/v1/analyze"
	method := http.MethodPost

	payload := payloadAnalyze{
		Ingredients: ingredientNames,
	}

	payloadByte, err := json.Marshal(payload)
	if err != nil {
		return domain.IngredientSafety{}, fmt.Errorf("failed to marshal json payload: %w", err)
	}

	client := &http.Client{Timeout: 5 * time.Second}
	req, err := http.NewRequestWithContext(ctx, method, url, strings.NewReader(string(payloadByte)))
	if err != nil {
		return domain.IngredientSafety{}, err
	}

	req.Header.Add("Content-Type", "application/json")
	if r.safetyConfig.SafetyAPIKey != "" {
		req.Header.Add("Authorization", "Bearer "+r.safetyConfig.SafetyAPIKey)
	}

	res, err := client.Do(req)
	if err != nil {
		return domain.IngredientSafety{}, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		bodyBytes, _ := io.ReadAll(res.Body)
		return domain.IngredientSafety{}, fmt.Errorf("safety service return negative response %v: %s", res.StatusCode, string(bodyBytes))
	}

	var parsed analyzeResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return domain.IngredientSafety{}, fmt.Errorf("failed to decode safety response: %w", err)
	}

	safety := domain.IngredientSafety{
		Score:           parsed.Score,
		AllergenMatches: parsed.AllergenMatches,
	}
	for _, f := range parsed.Flagged {
		safety.Flagged = append(safety.Flagged, domain.FlaggedIngredient{
			Name:     f.Name,
			Concern:  f.Concern,
			Severity: f.Severity,
		})
	}

	return safety, nil
}
