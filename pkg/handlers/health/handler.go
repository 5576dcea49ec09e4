package health

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/matchtips/core/pkg/logger"
	"github.com/matchtips/core/pkg/models/api"
)

// Handler handles health check requests
type Handler struct {
	logger *logger.Logger
}

// NewHandler creates a new health handler
func NewHandler(log *logger.Logger) *Handler {
	return &Handler{
		logger: log,
	}
}

// HealthCheck handles the /health endpoint. It only reports liveness and
// never calls API-Football or Telegram.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := api.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.FromContext(r.Context(), h.logger).Error().
			Err(err).
			Str("action", "health_check_failed").
			Msg("Failed to encode health response")
	}
}
