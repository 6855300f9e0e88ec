package http

import (
	"net/http"

	"github.com/Notifuse/campaign-builder/internal/domain"
	"github.com/Notifuse/campaign-builder/internal/http/middleware"
	"github.com/Notifuse/campaign-builder/pkg/logger"
)

// EditorHandler exposes the stateless editing commands. The client holds the
// document and sends it with every call.
type EditorHandler struct {
	service   domain.EditorService
	logger    logger.Logger
	jwtSecret []byte
}

func NewEditorHandler(service domain.EditorService, jwtSecret []byte, logger logger.Logger) *EditorHandler {
	return &EditorHandler{
		service:   service,
		logger:    logger,
		jwtSecret: jwtSecret,
	}
}

func (h *EditorHandler) RegisterRoutes(mux *http.ServeMux) {
	requireAuth := middleware.NewAuthMiddleware(h.jwtSecret).RequireAuth()

	mux.Handle("/api/editor.apply", requireAuth(http.HandlerFunc(h.handleApply)))
	mux.Handle("/api/editor.drop", requireAuth(http.HandlerFunc(h.handleDrop)))
	mux.Handle("/api/editor.export", requireAuth(http.HandlerFunc(h.handleExport)))
	mux.Handle("/api/editor.exportMJML", requireAuth(http.HandlerFunc(h.handleExportMJML)))
	mux.Handle("/api/editor.validate", requireAuth(http.HandlerFunc(h.handleValidate)))
	mux.Handle("/api/editor.repair", requireAuth(http.HandlerFunc(h.handleRepair)))
	mux.Handle("/api/editor.palette", requireAuth(http.HandlerFunc(h.handlePalette)))
}

func (h *EditorHandler) handleApply(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.ApplyEditsRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := h.service.ApplyEdits(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.logger, err, "apply edits")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *EditorHandler) handleDrop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.DropRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := h.service.Drop(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.logger, err, "drop block")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *EditorHandler) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.DocumentRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := h.service.Export(r.Context(), req.Document)
	if err != nil {
		writeServiceError(w, h.logger, err, "export document")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *EditorHandler) handleExportMJML(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.DocumentRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := h.service.ExportMJML(r.Context(), req.Document)
	if err != nil {
		writeServiceError(w, h.logger, err, "export mjml")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *EditorHandler) handleValidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.ValidateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := h.service.Validate(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.logger, err, "validate")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *EditorHandler) handleRepair(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.DocumentRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := h.service.Repair(r.Context(), req.Document)
	if err != nil {
		writeServiceError(w, h.logger, err, "repair document")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *EditorHandler) handlePalette(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items": h.service.Palette(r.Context()),
	})
}
