package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RouterConfig зависимости HTTP слоя
type RouterConfig struct {
	Interviews Interviews
	DB         Pinger
	Model      string
	// Metrics отдается на /metrics, если задан
	Metrics http.Handler
	APIKey  string
	Logger  *slog.Logger
}

// NewRouter собирает chi роутер со всеми маршрутами и middleware
func NewRouter(cfg RouterConfig) *chi.Mux {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(CORS)
	r.Use(RequestID)
	r.Use(Logger(logger))
	r.Use(Recovery(logger))

	healthH := NewHealthHandler(cfg.DB, cfg.Model)
	interviewH := NewInterviewHandler(cfg.Interviews, logger)

	r.Get("/health", healthH.Health)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(BearerAuth(cfg.APIKey))

		r.Post("/start_interview", interviewH.StartInterview)
		r.Post("/set_position", interviewH.SetPosition)
		r.Post("/answer_question", interviewH.AnswerQuestion)
		r.Get("/session/{session_id}", interviewH.GetSession)
		r.Get("/user/{user_id}/sessions", interviewH.UserSessions)
	})

	return r
}
