package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig содержит настройки процесса, собранные из переменных окружения
type AppConfig struct {
	Generator     GeneratorConfig
	Telegram      TelegramConfig
	Server        ServerConfig
	Database      DatabaseConfig
	Log           LogConfig
	Tracing       TracingConfig
	InterviewFile string
}

type TelegramConfig struct {
	Token   string
	APIURL  string
	Debug   bool
	Timeout time.Duration
}

type ServerConfig struct {
	Host            string
	Port            int
	APIKey          string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	URL string
}

type LogConfig struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type TracingConfig struct {
	Enabled bool
	File    string
}

// LoadEnvFile подгружает .env файл. Отсутствие файла ошибкой не считается.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("ошибка загрузки %s: %w", path, err)
	}
	return nil
}

// LoadAppConfig собирает конфигурацию из переменных окружения
func LoadAppConfig() *AppConfig {
	return &AppConfig{
		Generator: LoadGeneratorConfig(),
		Telegram: TelegramConfig{
			Token:   getEnv("TELEGRAM_BOT_TOKEN", ""),
			APIURL:  getEnv("TELEGRAM_API_URL", "https://api.telegram.org"),
			Debug:   getEnvAsBool("TELEGRAM_DEBUG", false),
			Timeout: getEnvAsDuration("TELEGRAM_POLL_TIMEOUT", 30*time.Second),
		},
		Server: ServerConfig{
			Host:            getEnv("HOST", "127.0.0.1"),
			Port:            getEnvAsInt("PORT", 8000),
			APIKey:          getEnv("API_KEY", ""),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 180*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", "sqlite:///./academy_hr.db"),
		},
		Log: LogConfig{
			Level:      strings.ToLower(getEnv("LOG_LEVEL", "info")),
			File:       getEnv("LOG_FILE", "logs/neurohr.log"),
			MaxSizeMB:  getEnvAsInt("LOG_MAX_SIZE_MB", 10),
			MaxBackups: getEnvAsInt("LOG_MAX_BACKUPS", 3),
			MaxAgeDays: getEnvAsInt("LOG_MAX_AGE_DAYS", 28),
		},
		Tracing: TracingConfig{
			Enabled: getEnvAsBool("TRACING_ENABLED", false),
			File:    getEnv("TRACING_FILE", "logs/neurohr_traces.log"),
		},
		InterviewFile: getEnv("INTERVIEW_CONFIG", "config/interview.yaml"),
	}
}

// Addr возвращает адрес для http.Server
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Validate проверяет настройки, общие для всех команд
func (c *AppConfig) Validate() error {
	if err := c.Generator.Validate(); err != nil {
		return err
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT должен быть в диапазоне 1-65535, получено %d", c.Server.Port)
	}
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL не может быть пустым")
	}
	return nil
}

// ValidateTelegram проверяет настройки бота. Токен берется только из окружения.
func (c *AppConfig) ValidateTelegram() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN не установлен")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
