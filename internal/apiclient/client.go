package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"neurohr-interview/internal/interviewer"
	"neurohr-interview/internal/storage"
)

// Client обращается к HTTP API собеседований
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// APIError ответ API со статусом не 2xx
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API вернул %d: %s", e.StatusCode, e.Message)
}

// Unwrap позволяет проверять ошибки через errors.Is(err, interviewer.ErrNotFound)
func (e *APIError) Unwrap() error {
	if err := interviewer.ErrorForCode(e.Code); err != nil {
		return err
	}

	// ответы без кода: ошибки разбора тела и авторизации
	switch e.StatusCode {
	case http.StatusNotFound:
		return interviewer.ErrNotFound
	case http.StatusBadRequest:
		return interviewer.ErrValidation
	case http.StatusConflict:
		return interviewer.ErrInvalidState
	default:
		return nil
	}
}

type userSessionsResponse struct {
	UserID   string             `json:"user_id"`
	Sessions []*storage.Session `json:"sessions"`
}

// New создает клиент. baseURL указывает на корень сервера, например http://127.0.0.1:8000
func New(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *Client) StartSession(ctx context.Context, req interviewer.StartRequest) (*interviewer.StartResult, error) {
	var result interviewer.StartResult
	if err := c.do(ctx, http.MethodPost, "/api/start_interview", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) SetPosition(ctx context.Context, req interviewer.PositionRequest) (*interviewer.PositionResult, error) {
	var result interviewer.PositionResult
	if err := c.do(ctx, http.MethodPost, "/api/set_position", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) SubmitAnswer(ctx context.Context, req interviewer.AnswerRequest) (*interviewer.AnswerResult, error) {
	var result interviewer.AnswerResult
	if err := c.do(ctx, http.MethodPost, "/api/answer_question", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) GetSession(ctx context.Context, id string) (*storage.Session, error) {
	var session storage.Session
	if err := c.do(ctx, http.MethodGet, "/api/session/"+url.PathEscape(id), nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) ListSessions(ctx context.Context, userID string) ([]*storage.Session, error) {
	var resp userSessionsResponse
	if err := c.do(ctx, http.MethodGet, "/api/user/"+url.PathEscape(userID)+"/sessions", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Sessions, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("ошибка сериализации запроса: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("ошибка создания запроса: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("ошибка запроса %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		message := strings.TrimSpace(string(respBody))
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
			message = apiErr.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Code: apiErr.Code, Message: message}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("ошибка парсинга ответа: %w", err)
	}

	return nil
}
