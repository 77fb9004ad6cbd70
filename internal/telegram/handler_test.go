package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neurohr-interview/internal/config"
	"neurohr-interview/internal/generator"
	"neurohr-interview/internal/interviewer"
	"neurohr-interview/internal/storage"
)

type recordingSender struct {
	mu       sync.Mutex
	messages []string
}

func (s *recordingSender) SendMessage(_ context.Context, _ int64, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, text)
	return nil
}

func (s *recordingSender) last() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.messages) == 0 {
		return ""
	}
	return s.messages[len(s.messages)-1]
}

func (s *recordingSender) all() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.messages...)
}

type stubGenerator struct {
	feedback generator.Feedback
}

func (g stubGenerator) GenerateQuestions(_ context.Context, position string) []string {
	questions := make([]string, generator.QuestionCount)
	for i := range questions {
		questions[i] = fmt.Sprintf("%s вопрос %d", position, i+1)
	}
	return questions
}

func (g stubGenerator) GenerateFeedback(context.Context, string, []string, []string) generator.Feedback {
	return g.feedback
}

type failingInterviews struct{ Interviews }

func (failingInterviews) StartSession(context.Context, interviewer.StartRequest) (*interviewer.StartResult, error) {
	return nil, errors.New("api unavailable")
}

func (failingInterviews) ListSessions(context.Context, string) ([]*storage.Session, error) {
	return nil, errors.New("api unavailable")
}

func newTestHandler(t *testing.T, feedback generator.Feedback) (*Handler, *recordingSender) {
	t.Helper()

	store, err := storage.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := interviewer.New(store, stubGenerator{feedback: feedback}, interviewer.Options{Logger: logger})

	sender := &recordingSender{}
	return NewHandler(sender, svc, config.Default(), logger), sender
}

func message(userID int64, text string) Update {
	return Update{Message: &Message{
		From: &User{ID: userID},
		Chat: &Chat{ID: userID, Type: "private"},
		Text: text,
	}}
}

func TestHandler_FullInterview(t *testing.T) {
	h, sender := newTestHandler(t, generator.Feedback{Text: strings.Repeat("ф", MaxMessageLength+10)})
	h.rateLimiter = NewRateLimiter(100, time.Minute)
	ctx := context.Background()

	h.HandleUpdate(ctx, message(1, "/start"))
	assert.Contains(t, sender.last(), "Добро пожаловать в Нейро-HR бот")

	h.HandleUpdate(ctx, message(1, "/interview"))
	assert.Equal(t, config.DefaultWelcomeMessage, sender.last())
	assert.Equal(t, StateAwaitingPosition, h.conversations[1].State)

	h.HandleUpdate(ctx, message(1, "Go developer"))
	assert.Equal(t, "🎯 Позиция: Go developer\n📊 Вопрос 1 из 10:\n\nGo developer вопрос 1", sender.last())
	assert.Equal(t, StateInterview, h.conversations[1].State)

	for i := 1; i < generator.QuestionCount; i++ {
		h.HandleUpdate(ctx, message(1, fmt.Sprintf("ответ %d", i)))
		assert.Equal(t, fmt.Sprintf("📊 Вопрос %d из 10:\n\nGo developer вопрос %d", i+1, i+1), sender.last())
	}

	before := len(sender.all())
	h.HandleUpdate(ctx, message(1, "последний ответ"))
	sent := sender.all()[before:]

	require.Len(t, sent, 3)
	assert.Len(t, []rune(sent[0]), MaxMessageLength)
	assert.Len(t, []rune(sent[1]), 10)
	assert.Contains(t, sent[2], "Собеседование завершено")
	assert.Equal(t, StateIdle, h.conversations[1].State)

	h.HandleUpdate(ctx, message(1, "/history"))
	assert.Contains(t, sender.last(), "• Go developer - ✅ Завершено")
	assert.Contains(t, sender.last(), "Вопросов: 10")
}

func TestHandler_FeedbackFailure(t *testing.T) {
	h, sender := newTestHandler(t, generator.Feedback{Text: "Ошибка при генерации фидбэка: boom", Failure: generator.FailureGeneration})
	ctx := context.Background()

	h.HandleUpdate(ctx, message(2, "/interview"))
	h.rateLimiter = NewRateLimiter(100, time.Minute)
	h.HandleUpdate(ctx, message(2, "QA"))
	for i := 0; i < generator.QuestionCount; i++ {
		h.HandleUpdate(ctx, message(2, fmt.Sprintf("ответ %d", i)))
	}

	assert.Contains(t, sender.last(), "Произошла ошибка при обработке результатов")
	for _, msg := range sender.all() {
		assert.NotContains(t, msg, "boom")
	}
	assert.Equal(t, StateIdle, h.conversations[2].State)
}

func TestHandler_Commands(t *testing.T) {
	h, sender := newTestHandler(t, generator.Feedback{Text: "ok"})
	ctx := context.Background()

	h.HandleUpdate(ctx, message(3, "/history"))
	assert.Equal(t, "📝 У вас еще не было собеседований.", sender.last())

	h.HandleUpdate(ctx, message(3, "/help@neurohr_bot"))
	assert.Contains(t, sender.last(), "/interview")

	h.HandleUpdate(ctx, message(3, "/unknown"))
	assert.Contains(t, sender.last(), "Неизвестная команда")

	h.HandleUpdate(ctx, message(3, "просто текст"))
	assert.Contains(t, sender.last(), "/interview")

	h.HandleUpdate(ctx, message(3, "/interview"))
	h.HandleUpdate(ctx, message(3, "/interview"))
	assert.Contains(t, sender.last(), "уже идет собеседование")

	h.HandleUpdate(ctx, message(3, "/cancel"))
	assert.Contains(t, sender.last(), "Собеседование отменено")
	assert.Equal(t, StateIdle, h.conversations[3].State)
	assert.Empty(t, h.conversations[3].SessionID)

	h.HandleUpdate(ctx, message(3, "/history"))
	assert.Contains(t, sender.last(), "Позиция не выбрана - 🟡 В процессе")
}

func TestHandler_RateLimit(t *testing.T) {
	h, sender := newTestHandler(t, generator.Feedback{Text: "ok"})
	h.rateLimiter = NewRateLimiter(2, time.Minute)
	ctx := context.Background()

	h.HandleUpdate(ctx, message(4, "/help"))
	h.HandleUpdate(ctx, message(4, "/help"))
	h.HandleUpdate(ctx, message(4, "/help"))

	assert.Contains(t, sender.last(), "Слишком много сообщений")
}

func TestHandler_ServiceErrors(t *testing.T) {
	sender := &recordingSender{}
	h := NewHandler(sender, failingInterviews{}, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	h.HandleUpdate(ctx, message(5, "/interview"))
	assert.Equal(t, "❌ Ошибка при запуске собеседования. Попробуйте позже.", sender.last())
	assert.Equal(t, StateIdle, h.conversations[5].State)

	h.HandleUpdate(ctx, message(5, "/history"))
	assert.Equal(t, "❌ Ошибка при получении истории.", sender.last())
}

func TestHandler_IgnoresEmptyUpdates(t *testing.T) {
	h, sender := newTestHandler(t, generator.Feedback{})

	h.HandleUpdate(context.Background(), Update{})
	h.HandleUpdate(context.Background(), Update{Message: &Message{Chat: &Chat{ID: 1}, Text: "/start"}})

	assert.Empty(t, sender.all())
}

func TestCleanupInactiveConversations(t *testing.T) {
	h, _ := newTestHandler(t, generator.Feedback{})
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return now }

	h.conversations[1] = &Conversation{UserID: 1, LastActivity: now.Add(-25 * time.Hour)}
	h.conversations[2] = &Conversation{UserID: 2, LastActivity: now.Add(-time.Hour)}

	h.cleanupInactiveConversations()

	assert.NotContains(t, h.conversations, int64(1))
	assert.Contains(t, h.conversations, int64(2))
}

type blockingInterviews struct {
	Interviews
	entered chan struct{}
	release chan struct{}
}

func (b blockingInterviews) StartSession(ctx context.Context, _ interviewer.StartRequest) (*interviewer.StartResult, error) {
	close(b.entered)
	<-b.release
	return &interviewer.StartResult{SessionID: "s-1", Message: "ok"}, nil
}

func TestCleanupSkipsBusyConversation(t *testing.T) {
	interviews := blockingInterviews{entered: make(chan struct{}), release: make(chan struct{})}
	sender := &recordingSender{}
	h := NewHandler(sender, interviews, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	var offset atomic.Int64
	h.now = func() time.Time { return base.Add(time.Duration(offset.Load())) }
	ctx := context.Background()

	busy := make(chan struct{})
	go func() {
		defer close(busy)
		h.HandleUpdate(ctx, message(1, "/interview"))
	}()
	<-interviews.entered
	offset.Store(int64(48 * time.Hour))

	cleaned := make(chan struct{})
	go func() {
		defer close(cleaned)
		h.cleanupInactiveConversations()
	}()

	select {
	case <-cleaned:
	case <-time.After(2 * time.Second):
		t.Fatal("очистка ждет занятый диалог")
	}

	served := make(chan struct{})
	go func() {
		defer close(served)
		h.HandleUpdate(ctx, message(2, "/help"))
	}()

	select {
	case <-served:
	case <-time.After(2 * time.Second):
		t.Fatal("второй пользователь не обслужен")
	}
	assert.Contains(t, sender.last(), "Нейро-HR бот")

	close(interviews.release)
	<-busy
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	assert.Contains(t, h.conversations, int64(1))
}

type staleInterviews struct {
	Interviews
	err error
}

func (s staleInterviews) SubmitAnswer(context.Context, interviewer.AnswerRequest) (*interviewer.AnswerResult, error) {
	return nil, s.err
}

func TestHandler_AnswerToUnavailableSessionResets(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"completed elsewhere", fmt.Errorf("%w: собеседование уже завершено", interviewer.ErrInvalidState)},
		{"missing", fmt.Errorf("%w: s-1", interviewer.ErrNotFound)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &recordingSender{}
			h := NewHandler(sender, staleInterviews{err: tt.err}, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
			h.conversations[7] = &Conversation{UserID: 7, SessionID: "s-1", State: StateInterview}

			h.HandleUpdate(context.Background(), message(7, "мой ответ"))

			assert.Contains(t, sender.last(), "больше недоступно")
			assert.Equal(t, StateIdle, h.conversations[7].State)
			assert.Empty(t, h.conversations[7].SessionID)
		})
	}
}

func TestHandler_TransientAnswerErrorKeepsInterview(t *testing.T) {
	sender := &recordingSender{}
	h := NewHandler(sender, staleInterviews{err: errors.New("timeout")}, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	h.conversations[8] = &Conversation{UserID: 8, SessionID: "s-2", State: StateInterview}

	h.HandleUpdate(context.Background(), message(8, "мой ответ"))

	assert.Equal(t, "❌ Ошибка при обработке ответа. Попробуйте еще раз.", sender.last())
	assert.Equal(t, StateInterview, h.conversations[8].State)
}

func TestValidateUserInput(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{"normal russian", "Я пишу на Go уже пять лет", false},
		{"short repeat", "ааааа", false},
		{"spam", strings.Repeat("а", 20), true},
		{"too long", strings.Repeat("ab", maxInputLength/2+1), true},
		{"max length", strings.Repeat("ab", maxInputLength/2), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateUserInput(tt.text)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFormatHistory_NewestFirstLimited(t *testing.T) {
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	var sessions []*storage.Session
	for i := 7; i >= 1; i-- {
		sessions = append(sessions, &storage.Session{
			Position:  fmt.Sprintf("позиция %d", i),
			Status:    storage.StatusActive,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}

	text := formatHistory(sessions, 5)

	assert.Contains(t, text, "позиция 7")
	assert.Contains(t, text, "позиция 3")
	assert.NotContains(t, text, "позиция 2")
	assert.NotContains(t, text, "Вопросов")
}
