package http

import (
	"net/http"

	"github.com/Notifuse/campaign-builder/internal/domain"
	"github.com/Notifuse/campaign-builder/internal/http/middleware"
	"github.com/Notifuse/campaign-builder/pkg/logger"
)

type CampaignHandler struct {
	service   domain.CampaignService
	logger    logger.Logger
	jwtSecret []byte
}

func NewCampaignHandler(service domain.CampaignService, jwtSecret []byte, logger logger.Logger) *CampaignHandler {
	return &CampaignHandler{
		service:   service,
		logger:    logger,
		jwtSecret: jwtSecret,
	}
}

func (h *CampaignHandler) RegisterRoutes(mux *http.ServeMux) {
	requireAuth := middleware.NewAuthMiddleware(h.jwtSecret).RequireAuth()

	mux.Handle("/api/campaigns.list", requireAuth(http.HandlerFunc(h.handleList)))
	mux.Handle("/api/campaigns.get", requireAuth(http.HandlerFunc(h.handleGet)))
	mux.Handle("/api/campaigns.create", requireAuth(http.HandlerFunc(h.handleCreate)))
	mux.Handle("/api/campaigns.update", requireAuth(http.HandlerFunc(h.handleUpdate)))
	mux.Handle("/api/campaigns.delete", requireAuth(http.HandlerFunc(h.handleDelete)))
	mux.Handle("/api/campaigns.save", requireAuth(http.HandlerFunc(h.handleSave)))
	mux.Handle("/api/campaigns.revisions", requireAuth(http.HandlerFunc(h.handleRevisions)))
	mux.Handle("/api/campaigns.preview", requireAuth(http.HandlerFunc(h.handlePreview)))
	mux.Handle("/api/campaigns.sendTest", requireAuth(http.HandlerFunc(h.handleSendTest)))
}

func (h *CampaignHandler) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.ListCampaignsRequest
	if err := req.FromURLParams(r.URL.Query()); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := h.service.ListCampaigns(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.logger, err, "list campaigns")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *CampaignHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.GetCampaignRequest
	if err := req.FromURLParams(r.URL.Query()); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	campaign, err := h.service.GetCampaign(r.Context(), req.ID)
	if err != nil {
		writeServiceError(w, h.logger, err, "get campaign")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"campaign": campaign,
	})
}

func (h *CampaignHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.CreateCampaignRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	campaign, err := h.service.CreateCampaign(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.logger, err, "create campaign")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"campaign": campaign,
	})
}

func (h *CampaignHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.UpdateCampaignRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	campaign, err := h.service.UpdateCampaign(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.logger, err, "update campaign")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"campaign": campaign,
	})
}

func (h *CampaignHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.DeleteCampaignRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteCampaign(r.Context(), req.ID); err != nil {
		writeServiceError(w, h.logger, err, "delete campaign")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}

func (h *CampaignHandler) handleSave(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.SaveCampaignRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := h.service.SaveCampaign(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.logger, err, "save campaign")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *CampaignHandler) handleRevisions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.ListRevisionsRequest
	if err := req.FromURLParams(r.URL.Query()); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	revisions, err := h.service.ListRevisions(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.logger, err, "list revisions")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"revisions": revisions,
	})
}

func (h *CampaignHandler) handlePreview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.PreviewCampaignRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := h.service.PreviewCampaign(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.logger, err, "preview campaign")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *CampaignHandler) handleSendTest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.SendTestEmailRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.SendTestEmail(r.Context(), &req); err != nil {
		writeServiceError(w, h.logger, err, "send test email")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}
