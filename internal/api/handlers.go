package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"neurohr-interview/internal/interviewer"
	"neurohr-interview/internal/storage"
)

// Interviews операции собеседования, доступные через HTTP
type Interviews interface {
	StartSession(ctx context.Context, req interviewer.StartRequest) (*interviewer.StartResult, error)
	SetPosition(ctx context.Context, req interviewer.PositionRequest) (*interviewer.PositionResult, error)
	SubmitAnswer(ctx context.Context, req interviewer.AnswerRequest) (*interviewer.AnswerResult, error)
	GetSession(ctx context.Context, id string) (*storage.Session, error)
	ListSessions(ctx context.Context, userID string) ([]*storage.Session, error)
}

// UserSessionsResponse ответ GET /api/user/{user_id}/sessions
type UserSessionsResponse struct {
	UserID   string             `json:"user_id"`
	Sessions []*storage.Session `json:"sessions"`
}

// InterviewHandler обрабатывает запросы собеседования
type InterviewHandler struct {
	svc    Interviews
	logger *slog.Logger
}

func NewInterviewHandler(svc Interviews, logger *slog.Logger) *InterviewHandler {
	return &InterviewHandler{svc: svc, logger: logger}
}

// StartInterview handles POST /api/start_interview
func (h *InterviewHandler) StartInterview(w http.ResponseWriter, r *http.Request) {
	var req interviewer.StartRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "некорректное тело запроса: "+err.Error())
		return
	}

	result, err := h.svc.StartSession(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// SetPosition handles POST /api/set_position
func (h *InterviewHandler) SetPosition(w http.ResponseWriter, r *http.Request) {
	var req interviewer.PositionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "некорректное тело запроса: "+err.Error())
		return
	}

	result, err := h.svc.SetPosition(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// AnswerQuestion handles POST /api/answer_question
func (h *InterviewHandler) AnswerQuestion(w http.ResponseWriter, r *http.Request) {
	var req interviewer.AnswerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "некорректное тело запроса: "+err.Error())
		return
	}

	result, err := h.svc.SubmitAnswer(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// GetSession handles GET /api/session/{session_id}
func (h *InterviewHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.svc.GetSession(r.Context(), chi.URLParam(r, "session_id"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// UserSessions handles GET /api/user/{user_id}/sessions
func (h *InterviewHandler) UserSessions(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	sessions, err := h.svc.ListSessions(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, UserSessionsResponse{UserID: userID, Sessions: sessions})
}
