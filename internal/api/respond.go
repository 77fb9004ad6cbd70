package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"neurohr-interview/internal/interviewer"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		slog.Error("ошибка записи ответа", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("пустое тело запроса")
		}
		return err
	}
	return nil
}

// statusFor сопоставляет ошибки сервиса с HTTP статусами
func statusFor(err error) int {
	switch {
	case errors.Is(err, interviewer.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, interviewer.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, interviewer.ErrInvalidState), errors.Is(err, interviewer.ErrCountMismatch):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status := statusFor(err)
	message := err.Error()

	if status == http.StatusInternalServerError {
		logger.Error("ошибка обработки запроса",
			"request_id", GetRequestID(r.Context()), "path", r.URL.Path, "error", err)
		message = "внутренняя ошибка сервера"
	}

	writeJSON(w, status, errorResponse{Error: message, Code: interviewer.ErrorCode(err)})
}
