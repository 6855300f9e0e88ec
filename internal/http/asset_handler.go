package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/Notifuse/campaign-builder/internal/domain"
	"github.com/Notifuse/campaign-builder/internal/http/middleware"
	"github.com/Notifuse/campaign-builder/pkg/logger"
)

// multipartOverhead leaves room for form boundaries and headers on top of the file
const multipartOverhead = 64 << 10

type AssetHandler struct {
	service        domain.AssetService
	logger         logger.Logger
	jwtSecret      []byte
	maxUploadBytes int64
}

func NewAssetHandler(service domain.AssetService, jwtSecret []byte, maxUploadBytes int64, logger logger.Logger) *AssetHandler {
	return &AssetHandler{
		service:        service,
		logger:         logger,
		jwtSecret:      jwtSecret,
		maxUploadBytes: maxUploadBytes,
	}
}

func (h *AssetHandler) RegisterRoutes(mux *http.ServeMux) {
	requireAuth := middleware.NewAuthMiddleware(h.jwtSecret).RequireAuth()

	mux.Handle("/api/assets.list", requireAuth(http.HandlerFunc(h.handleList)))
	mux.Handle("/api/assets.upload", requireAuth(http.HandlerFunc(h.handleUpload)))
	mux.Handle("/api/assets.delete", requireAuth(http.HandlerFunc(h.handleDelete)))
}

func (h *AssetHandler) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.ListAssetsRequest
	if err := req.FromURLParams(r.URL.Query()); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := h.service.ListAssets(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.logger, err, "list assets")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleUpload takes a multipart form with a single "file" part
func (h *AssetHandler) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+multipartOverhead)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteJSONError(w, fmt.Sprintf("file exceeds the %d bytes limit", h.maxUploadBytes), http.StatusRequestEntityTooLarge)
			return
		}
		WriteJSONError(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteJSONError(w, "file is required", http.StatusBadRequest)
		return
	}
	defer func() { _ = file.Close() }()

	// one extra byte lets Validate see an oversized file
	data, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes+1))
	if err != nil {
		WriteJSONError(w, "Failed to read file", http.StatusBadRequest)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	asset, err := h.service.UploadAsset(r.Context(), &domain.UploadAssetRequest{
		Filename:    header.Filename,
		ContentType: contentType,
		Data:        data,
	})
	if err != nil {
		writeServiceError(w, h.logger, err, "upload asset")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"asset": asset,
	})
}

func (h *AssetHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.DeleteAssetRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteAsset(r.Context(), req.ID); err != nil {
		writeServiceError(w, h.logger, err, "delete asset")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}
