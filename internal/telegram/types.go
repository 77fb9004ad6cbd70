package telegram

import (
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// Bot клиент Telegram Bot API
type Bot struct {
	baseURL     string
	pollTimeout time.Duration
	client      *http.Client
	logger      *slog.Logger
}

// Update представляет обновление от Telegram
type Update struct {
	UpdateID int      `json:"update_id"`
	Message  *Message `json:"message,omitempty"`
}

// Message представляет сообщение в Telegram
type Message struct {
	MessageID int    `json:"message_id"`
	From      *User  `json:"from,omitempty"`
	Chat      *Chat  `json:"chat"`
	Text      string `json:"text,omitempty"`
}

// User представляет пользователя Telegram
type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
}

// Chat представляет чат в Telegram
type Chat struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
	Type      string `json:"type"`
}

// SendMessageRequest представляет запрос на отправку сообщения
type SendMessageRequest struct {
	ChatID    int64  `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

// GetUpdatesResponse представляет ответ от getUpdates
type GetUpdatesResponse struct {
	OK          bool     `json:"ok"`
	Result      []Update `json:"result"`
	Description string   `json:"description,omitempty"`
}

// SendMessageResponse представляет ответ от sendMessage
type SendMessageResponse struct {
	OK          bool     `json:"ok"`
	Result      *Message `json:"result,omitempty"`
	Description string   `json:"description,omitempty"`
}

// Conversation контекст диалога с пользователем. Повторяет ответы сервиса,
// источником истины остается запись сессии.
type Conversation struct {
	mu sync.Mutex

	UserID          int64
	SessionID       string
	CurrentQuestion int
	TotalQuestions  int
	Position        string
	State           ConversationState
	LastActivity    time.Time
}

// ConversationState этап диалога в боте
type ConversationState string

const (
	StateIdle             ConversationState = "idle"
	StateAwaitingPosition ConversationState = "awaiting_position"
	StateInterview        ConversationState = "interview"
)
