package generator

import (
	"context"
	"fmt"

	"neurohr-interview/internal/config"
)

// Completer отправляет промпт во внешнюю модель и возвращает текст ответа
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Model() string
}

// NewCompleter создает клиент бэкенда, выбранного в конфигурации
func NewCompleter(ctx context.Context, cfg config.GeneratorConfig) (Completer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("некорректная конфигурация генератора: %w", err)
	}

	switch cfg.Backend {
	case config.BackendGemini:
		return NewGeminiCompleter(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.Temperature, cfg.MaxTokens)
	case config.BackendOpenAI:
		return NewOpenAICompleter(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.Temperature, cfg.MaxTokens), nil
	case config.BackendOllama:
		return NewOllamaCompleter(cfg.OllamaHost, cfg.OllamaModel, cfg.Temperature, cfg.MaxTokens)
	default:
		return nil, fmt.Errorf("неизвестный бэкенд генерации: %s", cfg.Backend)
	}
}
