package gemini

import (
	"context"
	"fmt"

	"myHairMatch/pkg/logger"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiRepository implements the re-ranking oracle on top of the Gemini API.
type GeminiRepository struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiRepository(ctx context.Context, apiKey, modelName string) (*GeminiRepository, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key must not be empty")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	model := client.GenerativeModel(modelName)

	return &GeminiRepository{
		client: client,
		model:  model,
	}, nil
}

func (r *GeminiRepository) Rank(ctx context.Context, prompt string) (string, error) {
	resp, err := r.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	text, err := extractText(resp)
	if err != nil {
		return "", err
	}

	logger.Debug("gemini_rank_response_received", "length", len(text))
	return text, nil
}

func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned from gemini")
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			return string(text), nil
		}
	}

	return "", fmt.Errorf("unexpected response format from gemini")
}

func (r *GeminiRepository) Close() error {
	return r.client.Close()
}
