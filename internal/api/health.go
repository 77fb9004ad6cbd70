package api

import (
	"context"
	"net/http"
	"time"
)

// Pinger проверяет доступность базы
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthResponse struct {
	Status   string `json:"status"`
	Model    string `json:"model"`
	Database string `json:"database"`
}

type HealthHandler struct {
	db    Pinger
	model string
}

func NewHealthHandler(db Pinger, model string) *HealthHandler {
	return &HealthHandler{db: db, model: model}
}

// Health handles GET /health. Недоступная база не меняет HTTP статус.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:   "healthy",
		Model:    h.model,
		Database: "healthy",
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		resp.Database = "unhealthy"
	}

	writeJSON(w, http.StatusOK, resp)
}
