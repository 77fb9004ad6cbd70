package config

import (
	"fmt"
	"strings"
)

// Поддерживаемые бэкенды генерации
const (
	BackendGemini = "gemini"
	BackendOpenAI = "openai"
	BackendOllama = "ollama"
)

// GeneratorConfig описывает внешний сервис генерации вопросов и фидбэка
type GeneratorConfig struct {
	Backend      string
	GeminiAPIKey string
	GeminiModel  string
	OpenAIAPIKey string
	OpenAIModel  string
	OllamaHost   string
	OllamaModel  string
	Temperature  float64
	MaxTokens    int
}

// LoadGeneratorConfig загружает конфигурацию генератора из переменных окружения
func LoadGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Backend:      strings.ToLower(getEnv("GENERATOR_BACKEND", BackendGemini)),
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.0-flash-exp"),
		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4.1-mini"),
		OllamaHost:   getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OllamaModel:  getEnv("OLLAMA_MODEL", "llama3:latest"),
		Temperature:  getEnvAsFloat("GENERATOR_TEMPERATURE", 0.7),
		MaxTokens:    getEnvAsInt("GENERATOR_MAX_TOKENS", 4000),
	}
}

// Validate проверяет корректность конфигурации
func (c GeneratorConfig) Validate() error {
	switch c.Backend {
	case BackendGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required")
		}
	case BackendOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required")
		}
	case BackendOllama:
		if c.OllamaHost == "" {
			return fmt.Errorf("OLLAMA_HOST is required")
		}
	default:
		return fmt.Errorf("неизвестный GENERATOR_BACKEND: %q", c.Backend)
	}

	if c.MaxTokens <= 0 {
		return fmt.Errorf("GENERATOR_MAX_TOKENS must be positive")
	}

	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("GENERATOR_TEMPERATURE must be between 0 and 2")
	}

	return nil
}

// Model возвращает имя модели выбранного бэкенда
func (c GeneratorConfig) Model() string {
	switch c.Backend {
	case BackendOpenAI:
		return c.OpenAIModel
	case BackendOllama:
		return c.OllamaModel
	default:
		return c.GeminiModel
	}
}
