package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"neurohr-interview/internal/config"
)

// MaxMessageLength ограничение Telegram на длину сообщения
const MaxMessageLength = 4096

// New создает новый Telegram бот. Токен берется только из конфигурации.
func New(cfg config.TelegramConfig, logger *slog.Logger) *Bot {
	if logger == nil {
		logger = slog.Default()
	}

	return &Bot{
		baseURL:     fmt.Sprintf("%s/bot%s", strings.TrimRight(cfg.APIURL, "/"), cfg.Token),
		pollTimeout: cfg.Timeout,
		client:      &http.Client{Timeout: cfg.Timeout + 10*time.Second},
		logger:      logger,
	}
}

// GetUpdates получает обновления от Telegram через long polling
func (b *Bot) GetUpdates(ctx context.Context, offset int) ([]Update, error) {
	endpoint := fmt.Sprintf("%s/getUpdates?offset=%d&timeout=%d", b.baseURL, offset, int(b.pollTimeout.Seconds()))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса getUpdates: %w", err)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса getUpdates: %w", stripURL(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	var response GetUpdatesResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("ошибка парсинга JSON: %w", err)
	}

	if !response.OK {
		return nil, fmt.Errorf("Telegram API вернул ошибку: %s", response.Description)
	}

	return response.Result, nil
}

// SendMessage отправляет сообщение пользователю. Текст от модели не экранирован,
// поэтому parse_mode не задается.
func (b *Bot) SendMessage(ctx context.Context, chatID int64, text string) error {
	jsonData, err := json.Marshal(SendMessageRequest{ChatID: chatID, Text: text})
	if err != nil {
		return fmt.Errorf("ошибка сериализации запроса: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/sendMessage", bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("ошибка создания запроса sendMessage: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("ошибка отправки сообщения: %w", stripURL(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	var response SendMessageResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return fmt.Errorf("ошибка парсинга ответа: %w", err)
	}

	if !response.OK {
		return fmt.Errorf("Telegram API вернул ошибку при отправке сообщения: %s", response.Description)
	}

	return nil
}

// StartPolling получает обновления до отмены ctx; каждое обновление
// обрабатывается в отдельной горутине. Перед возвратом ждет завершения обработчиков.
func (b *Bot) StartPolling(ctx context.Context, handler func(context.Context, Update)) error {
	var wg sync.WaitGroup
	defer wg.Wait()

	offset := 0

	for {
		if ctx.Err() != nil {
			return nil
		}

		updates, err := b.GetUpdates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			b.logger.Warn("ошибка получения обновлений", "error", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(5 * time.Second):
			}
			continue
		}

		for _, update := range updates {
			offset = update.UpdateID + 1
			wg.Add(1)
			go func(update Update) {
				defer wg.Done()
				handler(ctx, update)
			}(update)
		}
	}
}

// stripURL убирает из ошибки адрес запроса, в котором содержится токен
func stripURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}

// SplitMessage режет текст на части не длиннее limit символов
func SplitMessage(text string, limit int) []string {
	runes := []rune(text)
	if len(runes) <= limit {
		return []string{text}
	}

	parts := make([]string, 0, len(runes)/limit+1)
	for start := 0; start < len(runes); start += limit {
		end := start + limit
		if end > len(runes) {
			end = len(runes)
		}
		parts = append(parts, string(runes[start:end]))
	}
	return parts
}
