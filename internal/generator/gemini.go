package generator

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiCompleter работает с Google Gemini API
type GeminiCompleter struct {
	client      *genai.Client
	model       string
	temperature float32
	maxTokens   int32
}

func NewGeminiCompleter(ctx context.Context, apiKey, model string, temperature float64, maxTokens int) (*GeminiCompleter, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка создания клиента Gemini: %w", err)
	}

	return &GeminiCompleter{
		client:      client,
		model:       model,
		temperature: float32(temperature),
		maxTokens:   int32(maxTokens),
	}, nil
}

func (g *GeminiCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	temperature := g.temperature
	thinkingBudget := int32(0)

	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: g.maxTokens,
		ThinkingConfig: &genai.ThinkingConfig{
			ThinkingBudget: &thinkingBudget,
		},
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("ошибка запроса к Gemini: %w", err)
	}
	if result == nil {
		return "", fmt.Errorf("пустой ответ от Gemini")
	}

	return result.Text(), nil
}

func (g *GeminiCompleter) Model() string {
	return g.model
}
