package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"neurohr-interview/internal/config"
	"neurohr-interview/internal/interviewer"
	"neurohr-interview/internal/storage"
)

const (
	maxInputLength    = 4000
	conversationTTL   = 24 * time.Hour
	cleanupInterval   = time.Hour
	historyDateLayout = "02.01.2006 15:04"
)

const welcomeText = `🧠 Добро пожаловать в Нейро-HR бот!

Я проведу техническое собеседование и дам подробную обратную связь.

Для начала собеседования отправьте /interview
Для просмотра истории отправьте /history`

const helpText = `🤖 Нейро-HR бот

Команды:
/interview - Начать новое собеседование
/history - Последние собеседования
/cancel - Отменить текущее собеседование
/help - Показать это сообщение

Как это работает:
1. Отправьте /interview и укажите позицию
2. Ответьте на %d вопросов, по одному сообщению на вопрос
3. После последнего ответа вы получите развернутый фидбэк`

// Sender отправляет сообщения в чат
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// Interviews операции собеседования: сервис в процессе или HTTP клиент API
type Interviews interface {
	StartSession(ctx context.Context, req interviewer.StartRequest) (*interviewer.StartResult, error)
	SetPosition(ctx context.Context, req interviewer.PositionRequest) (*interviewer.PositionResult, error)
	SubmitAnswer(ctx context.Context, req interviewer.AnswerRequest) (*interviewer.AnswerResult, error)
	ListSessions(ctx context.Context, userID string) ([]*storage.Session, error)
}

type Handler struct {
	sender        Sender
	interviews    Interviews
	historyLimit  int
	logger        *slog.Logger
	conversations map[int64]*Conversation
	mutex         sync.RWMutex
	rateLimiter   *RateLimiter
	now           func() time.Time
}

func NewHandler(sender Sender, interviews Interviews, cfg *config.Config, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	historyLimit := 5
	if cfg != nil && cfg.GetHistoryLimit() > 0 {
		historyLimit = cfg.GetHistoryLimit()
	}

	return &Handler{
		sender:        sender,
		interviews:    interviews,
		historyLimit:  historyLimit,
		logger:        logger,
		conversations: make(map[int64]*Conversation),
		rateLimiter:   NewRateLimiter(10, time.Minute),
		now:           time.Now,
	}
}

// StartCleanup раз в час удаляет диалоги без активности дольше суток
func (h *Handler) StartCleanup(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				h.cleanupInactiveConversations()
				h.rateLimiter.Cleanup()
			}
		}
	}()
}

func (h *Handler) cleanupInactiveConversations() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	cutoff := h.now().Add(-conversationTTL)
	for userID, conv := range h.conversations {
		// занятый диалог активен, ждать его нельзя: держим h.mutex
		if !conv.mu.TryLock() {
			continue
		}
		inactive := conv.LastActivity.Before(cutoff)
		conv.mu.Unlock()
		if inactive {
			delete(h.conversations, userID)
		}
	}
}

func (h *Handler) getOrCreateConversation(userID int64) *Conversation {
	h.mutex.RLock()
	conv, ok := h.conversations[userID]
	h.mutex.RUnlock()
	if ok {
		return conv
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	if conv, ok := h.conversations[userID]; ok {
		return conv
	}
	conv = &Conversation{UserID: userID, State: StateIdle, LastActivity: h.now()}
	h.conversations[userID] = conv
	return conv
}

// HandleUpdate обрабатывает одно обновление. Сообщения одного пользователя
// обрабатываются последовательно.
func (h *Handler) HandleUpdate(ctx context.Context, update Update) {
	if update.Message == nil || update.Message.From == nil || update.Message.Chat == nil {
		return
	}

	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	text := strings.TrimSpace(update.Message.Text)
	if text == "" {
		return
	}

	if !h.rateLimiter.IsAllowed(userID) {
		h.send(ctx, chatID, "⏳ Слишком много сообщений. Пожалуйста, подождите минуту.")
		return
	}

	conv := h.getOrCreateConversation(userID)
	conv.mu.Lock()
	defer conv.mu.Unlock()

	conv.LastActivity = h.now()

	if strings.HasPrefix(text, "/") {
		h.handleCommand(ctx, chatID, text, conv)
		return
	}
	h.handleUserInput(ctx, chatID, text, conv)
}

// handleCommand обрабатывает команды бота
func (h *Handler) handleCommand(ctx context.Context, chatID int64, text string, conv *Conversation) {
	command := strings.Fields(text)[0]
	if at := strings.Index(command, "@"); at > 0 {
		command = command[:at]
	}

	switch command {
	case "/start":
		h.send(ctx, chatID, welcomeText)
	case "/interview":
		h.handleInterviewCommand(ctx, chatID, conv)
	case "/history":
		h.handleHistoryCommand(ctx, chatID, conv)
	case "/cancel":
		h.handleCancelCommand(ctx, chatID, conv)
	case "/help":
		h.send(ctx, chatID, fmt.Sprintf(helpText, config.QuestionsPerInterview))
	default:
		h.send(ctx, chatID, "Неизвестная команда. Используйте /help для получения списка команд.")
	}
}

func (h *Handler) handleInterviewCommand(ctx context.Context, chatID int64, conv *Conversation) {
	if conv.State != StateIdle {
		h.send(ctx, chatID, "У вас уже идет собеседование. Отправьте /cancel, чтобы начать заново.")
		return
	}

	result, err := h.interviews.StartSession(ctx, interviewer.StartRequest{
		Start:    true,
		UserID:   userKey(conv.UserID),
		Platform: storage.PlatformTelegram,
	})
	if err != nil {
		h.logger.Error("ошибка запуска собеседования", "user_id", conv.UserID, "error", err)
		h.send(ctx, chatID, "❌ Ошибка при запуске собеседования. Попробуйте позже.")
		return
	}

	resetConversation(conv)
	conv.SessionID = result.SessionID
	conv.State = StateAwaitingPosition

	h.send(ctx, chatID, result.Message)
}

func (h *Handler) handleHistoryCommand(ctx context.Context, chatID int64, conv *Conversation) {
	sessions, err := h.interviews.ListSessions(ctx, userKey(conv.UserID))
	if err != nil {
		h.logger.Error("ошибка получения истории", "user_id", conv.UserID, "error", err)
		h.send(ctx, chatID, "❌ Ошибка при получении истории.")
		return
	}

	if len(sessions) == 0 {
		h.send(ctx, chatID, "📝 У вас еще не было собеседований.")
		return
	}

	h.send(ctx, chatID, formatHistory(sessions, h.historyLimit))
}

func (h *Handler) handleCancelCommand(ctx context.Context, chatID int64, conv *Conversation) {
	resetConversation(conv)
	h.send(ctx, chatID, "Собеседование отменено. Для начала нового отправьте /interview")
}

// handleUserInput обрабатывает позицию и ответы пользователя
func (h *Handler) handleUserInput(ctx context.Context, chatID int64, text string, conv *Conversation) {
	if conv.State == StateIdle {
		h.send(ctx, chatID, welcomeText)
		return
	}

	if err := validateUserInput(text); err != nil {
		h.send(ctx, chatID, "❌ "+err.Error())
		return
	}

	switch conv.State {
	case StateAwaitingPosition:
		h.processPosition(ctx, chatID, text, conv)
	case StateInterview:
		h.processAnswer(ctx, chatID, text, conv)
	}
}

func (h *Handler) processPosition(ctx context.Context, chatID int64, position string, conv *Conversation) {
	result, err := h.interviews.SetPosition(ctx, interviewer.PositionRequest{
		SessionID: conv.SessionID,
		Position:  position,
		UserID:    userKey(conv.UserID),
	})
	if err != nil {
		h.logger.Error("ошибка установки позиции", "session_id", conv.SessionID, "error", err)
		h.send(ctx, chatID, "❌ Ошибка при установке позиции. Попробуйте еще раз.")
		return
	}

	conv.State = StateInterview
	conv.Position = result.Position
	conv.CurrentQuestion = result.CurrentQuestion
	conv.TotalQuestions = result.TotalQuestions

	h.send(ctx, chatID, fmt.Sprintf("🎯 Позиция: %s\n📊 Вопрос %d из %d:\n\n%s",
		result.Position, result.CurrentQuestion, result.TotalQuestions, result.Question))
}

func (h *Handler) processAnswer(ctx context.Context, chatID int64, answer string, conv *Conversation) {
	result, err := h.interviews.SubmitAnswer(ctx, interviewer.AnswerRequest{
		SessionID: conv.SessionID,
		Answer:    answer,
		UserID:    userKey(conv.UserID),
	})
	if err != nil {
		h.logger.Error("ошибка обработки ответа", "session_id", conv.SessionID, "error", err)
		if errors.Is(err, interviewer.ErrInvalidState) || errors.Is(err, interviewer.ErrNotFound) ||
			errors.Is(err, interviewer.ErrCountMismatch) {
			resetConversation(conv)
			h.send(ctx, chatID, "❌ Это собеседование больше недоступно.\n\n"+
				"Для нового собеседования отправьте /interview")
			return
		}
		h.send(ctx, chatID, "❌ Ошибка при обработке ответа. Попробуйте еще раз.")
		return
	}

	if !result.InterviewComplete {
		conv.CurrentQuestion = result.CurrentQuestion
		conv.TotalQuestions = result.TotalQuestions

		h.send(ctx, chatID, fmt.Sprintf("📊 Вопрос %d из %d:\n\n%s",
			result.CurrentQuestion, result.TotalQuestions, result.Question))
		return
	}

	sessionID := conv.SessionID
	resetConversation(conv)

	if result.FeedbackError != "" {
		h.logger.Warn("фидбэк не получен",
			"session_id", sessionID, "feedback_error", result.FeedbackError)
		h.send(ctx, chatID, "❌ Произошла ошибка при обработке результатов. Пожалуйста, начните собеседование заново.\n\n"+
			"Для нового собеседования отправьте /interview")
		return
	}

	for _, part := range SplitMessage(result.Feedback, MaxMessageLength) {
		h.send(ctx, chatID, part)
	}
	h.send(ctx, chatID, "✅ Собеседование завершено!\n\n"+
		"Для нового собеседования отправьте /interview\n"+
		"Для просмотра истории отправьте /history")
}

func (h *Handler) send(ctx context.Context, chatID int64, text string) {
	if err := h.sender.SendMessage(ctx, chatID, text); err != nil {
		h.logger.Error("ошибка отправки сообщения", "chat_id", chatID, "error", err)
	}
}

func resetConversation(conv *Conversation) {
	conv.SessionID = ""
	conv.Position = ""
	conv.CurrentQuestion = 0
	conv.TotalQuestions = 0
	conv.State = StateIdle
}

func userKey(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

// validateUserInput отсекает слишком длинные сообщения и спам одним символом
func validateUserInput(text string) error {
	length := utf8.RuneCountInString(text)
	if length > maxInputLength {
		return fmt.Errorf("сообщение слишком длинное (максимум %d символов)", maxInputLength)
	}

	if length > 10 {
		first, _ := utf8.DecodeRuneInString(text)
		if strings.Count(text, string(first)) > length*8/10 {
			return fmt.Errorf("сообщение содержит слишком много повторяющихся символов")
		}
	}

	return nil
}

// formatHistory выводит limit самых новых сессий; sessions отсортированы от новых к старым
func formatHistory(sessions []*storage.Session, limit int) string {
	if len(sessions) > limit {
		sessions = sessions[:limit]
	}

	var b strings.Builder
	b.WriteString("📋 История ваших собеседований:\n\n")

	for _, session := range sessions {
		status := "🟡 В процессе"
		if session.IsCompleted() {
			status = "✅ Завершено"
		}

		position := session.Position
		if position == "" {
			position = "Позиция не выбрана"
		}

		b.WriteString(fmt.Sprintf("• %s - %s\n", position, status))
		b.WriteString(fmt.Sprintf("  Дата: %s\n", session.CreatedAt.Local().Format(historyDateLayout)))
		if session.IsCompleted() {
			b.WriteString(fmt.Sprintf("  Вопросов: %d\n", len(session.Questions)))
		}
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}
