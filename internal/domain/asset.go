package domain

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
)

//go:generate mockgen -destination mocks/mock_asset_service.go -package mocks github.com/Notifuse/campaign-builder/internal/domain AssetService
//go:generate mockgen -destination mocks/mock_asset_repository.go -package mocks github.com/Notifuse/campaign-builder/internal/domain AssetRepository

// AllowedAssetTypes are the image and document types the library stores.
// SVG is excluded because mail clients strip it and it can carry script.
var AllowedAssetTypes = map[string]string{
	"image/png":       ".png",
	"image/jpeg":      ".jpg",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

// Asset is an uploaded file. Images are referenced by image, gif and header
// blocks, PDFs are linked from buttons and text.
type Asset struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	URL         string    `json:"url"`
	StorageKey  string    `json:"-"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

type AssetFilter struct {
	ContentType string
	Limit       int
	Offset      int
}

type ListAssetsRequest struct {
	ContentType string `json:"content_type,omitempty"`
	Limit       int    `json:"limit,omitempty"`
	Offset      int    `json:"offset,omitempty"`
}

func (r *ListAssetsRequest) FromURLParams(queryParams url.Values) error {
	r.ContentType = queryParams.Get("content_type")

	var err error
	if r.Limit, err = parseIntParam(queryParams, "limit", DefaultListLimit); err != nil {
		return fmt.Errorf("invalid list assets request: %w", err)
	}
	if r.Offset, err = parseIntParam(queryParams, "offset", 0); err != nil {
		return fmt.Errorf("invalid list assets request: %w", err)
	}

	if r.ContentType != "" {
		if _, ok := AllowedAssetTypes[r.ContentType]; !ok {
			return fmt.Errorf("invalid list assets request: unsupported content_type: %s", r.ContentType)
		}
	}
	if r.Limit < 1 || r.Limit > MaxListLimit {
		return fmt.Errorf("invalid list assets request: limit must be between 1 and %d", MaxListLimit)
	}
	if r.Offset < 0 {
		return fmt.Errorf("invalid list assets request: offset must not be negative")
	}
	return nil
}

func (r *ListAssetsRequest) Filter() AssetFilter {
	return AssetFilter{ContentType: r.ContentType, Limit: r.Limit, Offset: r.Offset}
}

type ListAssetsResponse struct {
	Assets     []*Asset `json:"assets"`
	TotalCount int      `json:"total_count"`
}

// UploadAssetRequest is built by the handler from a multipart form
type UploadAssetRequest struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Validate checks the request against the configured size limit
func (r *UploadAssetRequest) Validate(maxBytes int64) error {
	r.Filename = path.Base(strings.TrimSpace(r.Filename))
	if r.Filename == "" || r.Filename == "." || r.Filename == "/" {
		return NewValidationError("filename is required")
	}
	if len(r.Filename) > 255 {
		return NewValidationError("filename length must be between 1 and 255")
	}
	if _, ok := AllowedAssetTypes[r.ContentType]; !ok {
		return NewValidationError(fmt.Sprintf("unsupported content type: %s", r.ContentType))
	}
	if len(r.Data) == 0 {
		return NewValidationError("file is empty")
	}
	if maxBytes > 0 && int64(len(r.Data)) > maxBytes {
		return NewValidationError(fmt.Sprintf("file exceeds the %d bytes limit", maxBytes))
	}
	return nil
}

type DeleteAssetRequest struct {
	ID string `json:"id"`
}

func (r *DeleteAssetRequest) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("invalid delete asset request: id is required")
	}
	if !govalidator.IsUUID(r.ID) {
		return fmt.Errorf("invalid delete asset request: id must be a valid UUID")
	}
	return nil
}

// AssetService is the asset upload boundary. UploadAsset returns either a
// complete Asset or an error; failed storage writes are *ErrAssetUpload.
type AssetService interface {
	ListAssets(ctx context.Context, req *ListAssetsRequest) (*ListAssetsResponse, error)
	UploadAsset(ctx context.Context, req *UploadAssetRequest) (*Asset, error)
	DeleteAsset(ctx context.Context, id string) error
}

type AssetRepository interface {
	Create(ctx context.Context, asset *Asset) error
	GetByID(ctx context.Context, id string) (*Asset, error)
	List(ctx context.Context, filter AssetFilter) ([]*Asset, int, error)
	Delete(ctx context.Context, id string) error
}
