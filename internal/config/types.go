package config

// QuestionsPerInterview количество вопросов в одном собеседовании
const QuestionsPerInterview = 10

// DefaultWelcomeMessage приветствие, которое получает клиент при старте сессии
const DefaultWelcomeMessage = "🎯 Добро пожаловать в Нейро-HR! Я помогу провести техническое собеседование. На какую позицию вы проводите собеседование?"

// Config представляет конфигурацию собеседования из config/interview.yaml
type Config struct {
	InterviewConfig   InterviewConfig `yaml:"interview_config"`
	FallbackQuestions []string        `yaml:"fallback_questions"`
}

// InterviewConfig содержит общие настройки интервью
type InterviewConfig struct {
	WelcomeMessage string `yaml:"welcome_message"`
	HistoryLimit   int    `yaml:"history_limit"`
}

// Default возвращает конфигурацию, используемую при отсутствии файла
func Default() *Config {
	return &Config{
		InterviewConfig: InterviewConfig{
			WelcomeMessage: DefaultWelcomeMessage,
			HistoryLimit:   5,
		},
	}
}

// Методы для удобного доступа к конфигурации
func (c *Config) GetWelcomeMessage() string {
	return c.InterviewConfig.WelcomeMessage
}

func (c *Config) GetHistoryLimit() int {
	return c.InterviewConfig.HistoryLimit
}
