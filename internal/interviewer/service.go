package interviewer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"neurohr-interview/internal/config"
	"neurohr-interview/internal/generator"
	"neurohr-interview/internal/metrics"
	"neurohr-interview/internal/storage"
)

// Store хранилище сессий
type Store interface {
	Create(ctx context.Context, session *storage.Session) error
	GetByID(ctx context.Context, id string) (*storage.Session, error)
	Update(ctx context.Context, id string, update storage.Update) error
	ListByUser(ctx context.Context, userID string) ([]*storage.Session, error)
}

// Generator источник вопросов и фидбэка
type Generator interface {
	GenerateQuestions(ctx context.Context, position string) []string
	GenerateFeedback(ctx context.Context, position string, questions, answers []string) generator.Feedback
}

// Options необязательные зависимости сервиса
type Options struct {
	WelcomeMessage string
	Metrics        *metrics.Metrics
	Logger         *slog.Logger
}

// Service ведет сессию собеседования от выбора позиции до фидбэка
type Service struct {
	store     Store
	generator Generator
	metrics   *metrics.Metrics
	logger    *slog.Logger
	tracer    trace.Tracer
	welcome   string
	now       func() time.Time
	newID     func() string
}

// New создает сервис собеседований
func New(store Store, gen Generator, opts Options) *Service {
	if opts.WelcomeMessage == "" {
		opts.WelcomeMessage = config.DefaultWelcomeMessage
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Service{
		store:     store,
		generator: gen,
		metrics:   opts.Metrics,
		logger:    opts.Logger,
		tracer:    otel.Tracer("neurohr-interview/interviewer"),
		welcome:   opts.WelcomeMessage,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// StartSession создает новую активную сессию
func (s *Service) StartSession(ctx context.Context, req StartRequest) (*StartResult, error) {
	ctx, span := s.tracer.Start(ctx, "interviewer.StartSession")
	defer span.End()

	if !req.Start {
		return nil, fmt.Errorf("%w: собеседование не начато", ErrValidation)
	}

	platform := strings.TrimSpace(req.Platform)
	if platform == "" {
		platform = storage.PlatformWeb
	}
	if platform != storage.PlatformWeb && platform != storage.PlatformTelegram {
		return nil, fmt.Errorf("%w: неизвестная платформа %q", ErrValidation, platform)
	}

	session := &storage.Session{
		SessionID: s.newID(),
		UserID:    strings.TrimSpace(req.UserID),
		Platform:  platform,
		Questions: []string{},
		Answers:   []string{},
		Status:    storage.StatusActive,
		CreatedAt: s.now().UTC(),
	}

	if err := s.store.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("ошибка создания сессии: %w", err)
	}

	span.SetAttributes(attribute.String("session_id", session.SessionID))
	s.metrics.IncrementInterviewsStarted()
	s.logger.Info("сессия создана",
		"session_id", session.SessionID, "user_id", session.UserID, "platform", platform)

	return &StartResult{SessionID: session.SessionID, Message: s.welcome}, nil
}

// SetPosition задает позицию и генерирует вопросы. Доступно только до выбора позиции.
func (s *Service) SetPosition(ctx context.Context, req PositionRequest) (*PositionResult, error) {
	ctx, span := s.tracer.Start(ctx, "interviewer.SetPosition",
		trace.WithAttributes(attribute.String("session_id", req.SessionID)))
	defer span.End()

	position := strings.TrimSpace(req.Position)
	if position == "" {
		return nil, fmt.Errorf("%w: позиция не указана", ErrValidation)
	}

	session, err := s.load(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	if state := StateOf(session); state != StateAwaitingPosition {
		return nil, fmt.Errorf("%w: позиция уже выбрана (%s)", ErrInvalidState, state)
	}

	questions := s.generator.GenerateQuestions(ctx, position)
	if len(questions) == 0 {
		return nil, fmt.Errorf("генератор не вернул вопросов для позиции %s", position)
	}

	update := storage.Update{
		Position:        &position,
		Questions:       questions,
		Answers:         []string{},
		CurrentQuestion: storage.Ptr(0),
	}
	if userID := strings.TrimSpace(req.UserID); userID != "" && session.UserID == "" {
		update.UserID = &userID
	}

	if err := s.store.Update(ctx, session.SessionID, update); err != nil {
		return nil, s.storeError(session.SessionID, err)
	}

	s.metrics.IncrementPositionsSet()
	s.logger.Info("позиция выбрана",
		"session_id", session.SessionID, "position", position, "questions", len(questions))

	return &PositionResult{
		Question:        questions[0],
		CurrentQuestion: 1,
		TotalQuestions:  len(questions),
		Position:        position,
	}, nil
}

// SubmitAnswer принимает ответ на текущий вопрос. После последнего ответа
// запрашивает фидбэк и завершает сессию.
func (s *Service) SubmitAnswer(ctx context.Context, req AnswerRequest) (*AnswerResult, error) {
	ctx, span := s.tracer.Start(ctx, "interviewer.SubmitAnswer",
		trace.WithAttributes(attribute.String("session_id", req.SessionID)))
	defer span.End()

	answer := strings.TrimSpace(req.Answer)
	if answer == "" {
		return nil, fmt.Errorf("%w: пустой ответ", ErrValidation)
	}

	session, err := s.load(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	if state := StateOf(session); state != StateAwaitingAnswer {
		return nil, fmt.Errorf("%w: ответы не принимаются (%s)", ErrInvalidState, state)
	}

	total := len(session.Questions)
	current := session.CurrentQuestion
	if current < 0 || current >= total {
		return nil, fmt.Errorf("%w: текущий вопрос %d вне диапазона 0-%d", ErrInvalidState, current, total-1)
	}

	answers := append(append([]string{}, session.Answers...), answer)
	if len(answers) > total {
		return nil, fmt.Errorf("%w: вопросов %d, ответов %d", ErrCountMismatch, total, len(answers))
	}
	// на последнем вопросе рассинхрон разбирает генератор фидбэка
	if current+1 < total && len(session.Answers) != current {
		return nil, fmt.Errorf("%w: текущий вопрос %d, ответов %d", ErrCountMismatch, current, len(session.Answers))
	}

	span.SetAttributes(attribute.Int("question", current+1))

	if current+1 < total {
		next := current + 1
		err := s.store.Update(ctx, session.SessionID, storage.Update{
			Answers:         answers,
			CurrentQuestion: &next,
		})
		if err != nil {
			return nil, s.storeError(session.SessionID, err)
		}

		s.metrics.IncrementAnswersSubmitted()

		return &AnswerResult{
			Question:        session.Questions[next],
			CurrentQuestion: next + 1,
			TotalQuestions:  total,
			Position:        session.Position,
		}, nil
	}

	return s.complete(ctx, session, answers)
}

func (s *Service) complete(ctx context.Context, session *storage.Session, answers []string) (*AnswerResult, error) {
	feedback := s.generator.GenerateFeedback(ctx, session.Position, session.Questions, answers)

	result := &AnswerResult{
		TotalQuestions:    len(session.Questions),
		InterviewComplete: true,
		Feedback:          feedback.Text,
		FeedbackError:     string(feedback.Failure),
		Position:          session.Position,
	}

	// Сессия с рассинхроном вопросов и ответов остается как есть
	if feedback.Failure == generator.FailureCountMismatch {
		s.logger.Warn("собеседование не завершено: рассинхрон вопросов и ответов",
			"session_id", session.SessionID, "questions", len(session.Questions), "answers", len(answers))
		return result, nil
	}

	completedAt := s.now().UTC()
	total := len(session.Questions)
	err := s.store.Update(ctx, session.SessionID, storage.Update{
		Answers:         answers,
		CurrentQuestion: &total,
		Status:          storage.Ptr(storage.StatusCompleted),
		Feedback:        &feedback.Text,
		CompletedAt:     &completedAt,
	})
	if err != nil {
		return nil, s.storeError(session.SessionID, err)
	}

	s.metrics.IncrementAnswersSubmitted()
	s.metrics.IncrementInterviewsCompleted()
	s.logger.Info("собеседование завершено",
		"session_id", session.SessionID, "position", session.Position, "feedback_error", result.FeedbackError)

	return result, nil
}

// GetSession возвращает запись сессии
func (s *Service) GetSession(ctx context.Context, id string) (*storage.Session, error) {
	ctx, span := s.tracer.Start(ctx, "interviewer.GetSession",
		trace.WithAttributes(attribute.String("session_id", id)))
	defer span.End()

	return s.load(ctx, id)
}

// ListSessions возвращает сессии пользователя, новые первыми
func (s *Service) ListSessions(ctx context.Context, userID string) ([]*storage.Session, error) {
	ctx, span := s.tracer.Start(ctx, "interviewer.ListSessions")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id не указан", ErrValidation)
	}

	sessions, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения сессий пользователя %s: %w", userID, err)
	}

	return sessions, nil
}

func (s *Service) load(ctx context.Context, id string) (*storage.Session, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: session_id не указан", ErrValidation)
	}

	session, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, s.storeError(id, err)
	}
	return session, nil
}

func (s *Service) storeError(id string, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return fmt.Errorf("ошибка хранилища для сессии %s: %w", id, err)
}
