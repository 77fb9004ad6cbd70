package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// EncodeList сериализует упорядоченный список строк в JSON-массив.
// Не-ASCII символы сохраняются как есть.
func EncodeList(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(items); err != nil {
		return "", fmt.Errorf("ошибка сериализации списка: %w", err)
	}

	return strings.TrimRight(buf.String(), "\n"), nil
}

// DecodeList разбирает JSON-массив строк. Пустое значение дает пустой список.
func DecodeList(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return []string{}, nil
	}

	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("ошибка десериализации списка: %w", err)
	}
	if items == nil {
		items = []string{}
	}

	return items, nil
}
