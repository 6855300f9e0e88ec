package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/Notifuse/campaign-builder/internal/domain"
	"github.com/Notifuse/campaign-builder/pkg/logger"
	"github.com/Notifuse/campaign-builder/pkg/storage"
	"github.com/Notifuse/campaign-builder/pkg/tracing"
)

type AssetService struct {
	repo     domain.AssetRepository
	store    storage.ObjectStore
	uploads  *semaphore.Weighted
	maxBytes int64
	logger   logger.Logger
}

// NewAssetService creates an asset service that allows at most maxConcurrent
// uploads to the bucket at once
func NewAssetService(
	repo domain.AssetRepository,
	store storage.ObjectStore,
	maxBytes int64,
	maxConcurrent int64,
	logger logger.Logger,
) *AssetService {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &AssetService{
		repo:     repo,
		store:    store,
		uploads:  semaphore.NewWeighted(maxConcurrent),
		maxBytes: maxBytes,
		logger:   logger,
	}
}

func (s *AssetService) ListAssets(ctx context.Context, req *domain.ListAssetsRequest) (*domain.ListAssetsResponse, error) {
	assets, total, err := s.repo.List(ctx, req.Filter())
	if err != nil {
		s.logger.WithField("error", err.Error()).Error("Failed to list assets")
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	return &domain.ListAssetsResponse{Assets: assets, TotalCount: total}, nil
}

// storageKey spreads objects by month: assets/2026/10/<id>.png
func storageKey(id, contentType string, now time.Time) string {
	return fmt.Sprintf("assets/%s/%s%s", now.Format("2006/01"), id, domain.AllowedAssetTypes[contentType])
}

func (s *AssetService) UploadAsset(ctx context.Context, req *domain.UploadAssetRequest) (*domain.Asset, error) {
	ctx, span := tracing.StartServiceSpan(ctx, "AssetService", "UploadAsset")
	defer span.End()

	if err := req.Validate(s.maxBytes); err != nil {
		return nil, err
	}
	if sniffed := http.DetectContentType(req.Data); sniffed != req.ContentType {
		return nil, domain.NewValidationError(fmt.Sprintf("file content is %s, not %s", sniffed, req.ContentType))
	}

	if err := s.uploads.Acquire(ctx, 1); err != nil {
		return nil, &domain.ErrAssetUpload{Filename: req.Filename, Err: err}
	}
	defer s.uploads.Release(1)

	now := time.Now().UTC()
	asset := &domain.Asset{
		ID:          uuid.New().String(),
		Filename:    req.Filename,
		ContentType: req.ContentType,
		Size:        int64(len(req.Data)),
		CreatedBy:   domain.UserIDFromContext(ctx),
		CreatedAt:   now,
	}
	asset.StorageKey = storageKey(asset.ID, asset.ContentType, now)

	url, err := s.store.Put(ctx, asset.StorageKey, asset.ContentType, req.Data)
	if err != nil {
		tracing.MarkSpanError(ctx, err)
		s.logger.WithField("filename", req.Filename).WithField("error", err.Error()).Error("Failed to upload asset")
		return nil, &domain.ErrAssetUpload{Filename: req.Filename, Err: err}
	}
	asset.URL = url

	if err := s.repo.Create(ctx, asset); err != nil {
		tracing.MarkSpanError(ctx, err)
		s.logger.WithField("asset_id", asset.ID).WithField("error", err.Error()).Error("Failed to record asset")
		if delErr := s.store.Delete(ctx, asset.StorageKey); delErr != nil {
			s.logger.WithField("storage_key", asset.StorageKey).WithField("error", delErr.Error()).Warn("Failed to remove orphaned object")
		}
		return nil, &domain.ErrAssetUpload{Filename: req.Filename, Err: err}
	}

	tracing.RecordUpload(ctx, asset.Size)
	return asset, nil
}

func (s *AssetService) DeleteAsset(ctx context.Context, id string) error {
	asset, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if domain.IsNotFound(err) {
			return err
		}
		return fmt.Errorf("failed to get asset: %w", err)
	}

	if err := s.store.Delete(ctx, asset.StorageKey); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
		s.logger.WithField("asset_id", id).WithField("error", err.Error()).Error("Failed to delete asset object")
		return fmt.Errorf("failed to delete asset object: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if domain.IsNotFound(err) {
			return err
		}
		return fmt.Errorf("failed to delete asset: %w", err)
	}
	return nil
}
