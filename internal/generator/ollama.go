package generator

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ollama/ollama/api"
)

// OllamaCompleter работает с локальным сервером Ollama
type OllamaCompleter struct {
	client      *api.Client
	model       string
	temperature float64
	maxTokens   int
}

func NewOllamaCompleter(host, model string, temperature float64, maxTokens int) (*OllamaCompleter, error) {
	parsedURL, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("некорректный адрес Ollama %q: %w", host, err)
	}

	return &OllamaCompleter{
		client:      api.NewClient(parsedURL, http.DefaultClient),
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
	}, nil
}

func (o *OllamaCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	stream := false
	req := &api.ChatRequest{
		Model: o.model,
		Messages: []api.Message{
			{Role: "user", Content: prompt},
		},
		Stream: &stream,
		Options: map[string]any{
			"temperature": o.temperature,
			"num_predict": o.maxTokens,
		},
	}

	var response api.ChatResponse
	err := o.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		response = resp
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ошибка запроса к Ollama: %w", err)
	}

	return response.Message.Content, nil
}

func (o *OllamaCompleter) Model() string {
	return o.model
}
