package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load загружает конфигурацию из YAML файла.
// Если файла нет, возвращается конфигурация по умолчанию.
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла %s: %w", filename, err)
	}

	return Parse(data)
}

// Parse разбирает YAML и дополняет пропущенные поля значениями по умолчанию
func Parse(data []byte) (*Config, error) {
	config := Default()
	err := yaml.Unmarshal(data, config)
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга YAML: %w", err)
	}

	if strings.TrimSpace(config.InterviewConfig.WelcomeMessage) == "" {
		config.InterviewConfig.WelcomeMessage = DefaultWelcomeMessage
	}

	// Валидация конфигурации
	err = validateConfig(config)
	if err != nil {
		return nil, fmt.Errorf("ошибка валидации конфигурации: %w", err)
	}

	return config, nil
}

// validateConfig проверяет корректность конфигурации
func validateConfig(config *Config) error {
	if config.InterviewConfig.HistoryLimit <= 0 {
		return fmt.Errorf("history_limit должно быть больше 0")
	}

	if len(config.FallbackQuestions) == 0 {
		return nil
	}

	if len(config.FallbackQuestions) != QuestionsPerInterview {
		return fmt.Errorf("количество fallback_questions (%d) должно быть равно %d",
			len(config.FallbackQuestions), QuestionsPerInterview)
	}

	for i, question := range config.FallbackQuestions {
		if strings.TrimSpace(question) == "" {
			return fmt.Errorf("fallback вопрос %d пустой", i+1)
		}
	}

	return nil
}
