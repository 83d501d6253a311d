package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"travel_planner/internal/domain"
)

// Gemini implements domain.ModelClient on the Gemini API. A client-side rate
// limiter smooths request bursts before they ever reach the provider's quota;
// quota errors that get through are mapped to domain.ErrRateLimited so the
// orchestrator's retry policy can act on them.
type Gemini struct {
	client *genai.Client
	model  string
	rl     *rate.Limiter
	log    zerolog.Logger
}

func NewGemini(ctx context.Context, apiKey, model string, rps int, log zerolog.Logger) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if rps <= 0 {
		rps = 2
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &Gemini{
		client: client,
		model:  model,
		rl:     rate.NewLimiter(rate.Limit(rps), rps),
		log:    log,
	}, nil
}

func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	if err := g.rl.Wait(ctx); err != nil {
		return "", err
	}

	temp := float32(0.7)
	cfg := &genai.GenerateContentConfig{
		Temperature:     &temp,
		MaxOutputTokens: 8192,
	}

	res, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), cfg)
	if err != nil {
		if isRateLimited(err) {
			return "", fmt.Errorf("%w: %v", domain.ErrRateLimited, err)
		}
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	text := res.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned empty text")
	}
	return text, nil
}

// isRateLimited recognizes quota exhaustion in the provider's error shapes.
func isRateLimited(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == 429 || apiErr.Status == "RESOURCE_EXHAUSTED"
	}
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}
