package storage

import (
	"errors"
	"time"
)

// ErrNotFound возвращается, когда сессии с таким ID нет
var ErrNotFound = errors.New("session not found")

// Status статус сессии собеседования
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// Платформы, с которых создаются сессии
const (
	PlatformWeb      = "web"
	PlatformTelegram = "telegram"
)

// Session представляет одну запись собеседования
type Session struct {
	SessionID       string     `json:"session_id"`
	UserID          string     `json:"user_id,omitempty"`
	Platform        string     `json:"platform"`
	Position        string     `json:"position"`
	Questions       []string   `json:"questions"`
	Answers         []string   `json:"answers"`
	CurrentQuestion int        `json:"current_question"`
	Status          Status     `json:"status"`
	Feedback        string     `json:"feedback,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

// IsCompleted сообщает, завершено ли собеседование
func (s *Session) IsCompleted() bool {
	return s.Status == StatusCompleted
}

// Update описывает частичное обновление записи: записываются только не-nil поля.
// Чтобы очистить список, передайте пустой, но не nil срез.
type Update struct {
	UserID          *string
	Position        *string
	Questions       []string
	Answers         []string
	CurrentQuestion *int
	Status          *Status
	Feedback        *string
	CompletedAt     *time.Time
}

// IsEmpty сообщает, что обновлять нечего
func (u Update) IsEmpty() bool {
	return u.UserID == nil && u.Position == nil && u.Questions == nil && u.Answers == nil &&
		u.CurrentQuestion == nil && u.Status == nil && u.Feedback == nil && u.CompletedAt == nil
}

// Ptr возвращает указатель на значение, удобно для Update
func Ptr[T any](v T) *T {
	return &v
}
