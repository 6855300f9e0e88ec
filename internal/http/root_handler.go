package http

import (
	"context"
	"net/http"
	"time"

	"github.com/Notifuse/campaign-builder/pkg/logger"
)

// Pinger is satisfied by *sql.DB
type Pinger interface {
	PingContext(ctx context.Context) error
}

// RootHandler serves unauthenticated service endpoints
type RootHandler struct {
	db      Pinger
	version string
	logger  logger.Logger
}

func NewRootHandler(db Pinger, version string, logger logger.Logger) *RootHandler {
	return &RootHandler{db: db, version: version, logger: logger}
}

func (h *RootHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", h.handleHealth)
	mux.HandleFunc("/api/version", h.handleVersion)
}

func (h *RootHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		h.logger.WithField("error", err.Error()).Warn("Health check failed")
		WriteJSONError(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *RootHandler) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": h.version})
}
