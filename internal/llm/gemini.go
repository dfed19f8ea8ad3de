package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/generativelanguage/v1beta"
	"google.golang.org/api/option"

	"github.com/vijay-prabhu/roomfinder-mcp/internal/config"
)

// Gemini sampling settings
const (
	geminiTopP = 0.95
	geminiTopK = 40
)

// GeminiClient calls the Gemini generateContent API
type GeminiClient struct {
	service *generativelanguage.Service
	model   string
}

// NewGemini creates a Gemini client authenticated with an API key. Extra
// options are passed to the underlying service, e.g. a custom endpoint.
func NewGemini(ctx context.Context, cfg config.GeminiConfig, apiKey string, opts ...option.ClientOption) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY is not set")
	}

	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := generativelanguage.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini service: %w", err)
	}

	return &GeminiClient{service: svc, model: cfg.Model}, nil
}

// Complete sends prompt as a single user turn and returns the text of the
// first candidate.
func (c *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	req := &generativelanguage.GenerateContentRequest{
		Contents: []*generativelanguage.Content{{
			Role:  "user",
			Parts: []*generativelanguage.Part{{Text: prompt}},
		}},
		GenerationConfig: &generativelanguage.GenerationConfig{
			Temperature:     temperature,
			TopP:            geminiTopP,
			TopK:            geminiTopK,
			MaxOutputTokens: maxTokens,
		},
	}

	resp, err := c.service.Models.GenerateContent(modelName(c.model), req).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	text := responseText(resp)
	if text == "" {
		return "", errors.New("gemini returned no text")
	}
	return text, nil
}

// modelName adds the "models/" prefix the API expects
func modelName(model string) string {
	if strings.HasPrefix(model, "models/") {
		return model
	}
	return "models/" + model
}

// responseText joins the text parts of the first candidate that has any
func responseText(resp *generativelanguage.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		var sb strings.Builder
		for _, p := range cand.Content.Parts {
			if p != nil {
				sb.WriteString(p.Text)
			}
		}
		if text := strings.TrimSpace(sb.String()); text != "" {
			return text
		}
	}
	return ""
}
