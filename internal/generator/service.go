package generator

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"neurohr-interview/internal/config"
	"neurohr-interview/internal/metrics"
	"neurohr-interview/internal/prompts"
)

// QuestionCount количество вопросов, которое возвращает GenerateQuestions
const QuestionCount = config.QuestionsPerInterview

const (
	operationQuestions = "questions"
	operationFeedback  = "feedback"
)

// Failure тип неудачи при генерации фидбэка
type Failure string

const (
	FailureNone          Failure = ""
	FailureCountMismatch Failure = "count_mismatch"
	FailureGeneration    Failure = "generation_failed"
)

// Feedback результат оценки собеседования
type Feedback struct {
	Text    string
	Failure Failure
}

// Failed сообщает, что Text содержит описание ошибки, а не оценку
func (f Feedback) Failed() bool {
	return f.Failure != FailureNone
}

var listMarker = regexp.MustCompile(`^(?:\d+[.)]|[-*•])\s*`)

// Service генерирует вопросы и фидбэк через внешнюю модель
type Service struct {
	client   Completer
	fallback []string
	metrics  *metrics.Metrics
	logger   *slog.Logger
	tracer   trace.Tracer
}

// NewService создает сервис генерации. Пустой fallback заменяется DefaultFallbackQuestions.
func NewService(client Completer, fallback []string, m *metrics.Metrics, logger *slog.Logger) *Service {
	if len(fallback) == 0 {
		fallback = DefaultFallbackQuestions
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		client:   client,
		fallback: fallback,
		metrics:  m,
		logger:   logger,
		tracer:   otel.Tracer("neurohr-interview/generator"),
	}
}

// Model имя модели, используемой бэкендом
func (s *Service) Model() string {
	return s.client.Model()
}

// GenerateQuestions всегда возвращает ровно QuestionCount вопросов
func (s *Service) GenerateQuestions(ctx context.Context, position string) []string {
	ctx, span := s.tracer.Start(ctx, "generator.GenerateQuestions",
		trace.WithAttributes(attribute.String("position", position)))
	defer span.End()

	start := time.Now()
	reply, err := s.client.Complete(ctx, prompts.GenerateQuestionsPrompt(position, QuestionCount))
	s.metrics.ObserveGeneratorCall(operationQuestions, err == nil, time.Since(start))

	if err != nil {
		span.RecordError(err)
		s.logger.Warn("генерация вопросов не удалась, используем запасные",
			"position", position, "error", err)
		return s.fallbackQuestions(ctx, position)
	}

	questions := ParseQuestions(reply)
	if len(questions) < QuestionCount {
		s.logger.Warn("модель вернула недостаточно вопросов, используем запасные",
			"position", position, "got", len(questions), "want", QuestionCount)
		return s.fallbackQuestions(ctx, position)
	}

	span.SetAttributes(attribute.Bool("fallback", false))
	return questions[:QuestionCount]
}

func (s *Service) fallbackQuestions(ctx context.Context, position string) []string {
	s.metrics.IncrementFallback(operationQuestions)
	trace.SpanFromContext(ctx).SetAttributes(attribute.Bool("fallback", true))
	return FallbackQuestions(s.fallback, position)
}

// GenerateFeedback оценивает ответы кандидата. Ошибки не возвращаются,
// они отражены в Feedback.Failure и описаны в Feedback.Text.
func (s *Service) GenerateFeedback(ctx context.Context, position string, questions, answers []string) Feedback {
	ctx, span := s.tracer.Start(ctx, "generator.GenerateFeedback",
		trace.WithAttributes(
			attribute.String("position", position),
			attribute.Int("questions", len(questions)),
			attribute.Int("answers", len(answers)),
		))
	defer span.End()

	if len(questions) != len(answers) {
		s.logger.Error("количество вопросов и ответов не совпадает",
			"position", position, "questions", len(questions), "answers", len(answers))
		span.SetStatus(codes.Error, string(FailureCountMismatch))
		s.metrics.IncrementFeedbackFailure(string(FailureCountMismatch))
		return Feedback{
			Text: fmt.Sprintf("Ошибка: количество вопросов (%d) и ответов (%d) не совпадает. "+
				"Пожалуйста, попробуйте начать собеседование заново.", len(questions), len(answers)),
			Failure: FailureCountMismatch,
		}
	}

	start := time.Now()
	reply, err := s.client.Complete(ctx, prompts.GenerateFeedbackPrompt(position, questions, answers))
	s.metrics.ObserveGeneratorCall(operationFeedback, err == nil, time.Since(start))

	if err == nil && strings.TrimSpace(reply) == "" {
		err = fmt.Errorf("модель вернула пустой ответ")
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(FailureGeneration))
		s.metrics.IncrementFeedbackFailure(string(FailureGeneration))
		s.logger.Error("ошибка генерации фидбэка", "position", position, "error", err)
		return Feedback{
			Text:    fmt.Sprintf("Ошибка при генерации фидбэка: %s", err),
			Failure: FailureGeneration,
		}
	}

	return Feedback{Text: strings.TrimSpace(reply)}
}

// ParseQuestions разбивает ответ модели на вопросы, убирая нумерацию и маркеры списков
func ParseQuestions(reply string) []string {
	var questions []string
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(listMarker.ReplaceAllString(line, ""))
		if line == "" {
			continue
		}
		questions = append(questions, line)
	}
	return questions
}
