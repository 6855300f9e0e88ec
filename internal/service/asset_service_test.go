package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Notifuse/campaign-builder/internal/domain"
	"github.com/Notifuse/campaign-builder/internal/domain/mocks"
	"github.com/Notifuse/campaign-builder/pkg/logger"
	pkgmocks "github.com/Notifuse/campaign-builder/pkg/mocks"
	"github.com/Notifuse/campaign-builder/pkg/storage"
)

// pngBytes is enough of a PNG for content sniffing
var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")

func TestStorageKey(t *testing.T) {
	now := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "assets/2026/03/abc.png", storageKey("abc", "image/png", now))
	assert.Equal(t, "assets/2026/03/abc.jpg", storageKey("abc", "image/jpeg", now))
	assert.Equal(t, "assets/2026/03/abc.pdf", storageKey("abc", "application/pdf", now))
}

func TestAssetService_UploadAsset(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockAssetRepository(ctrl)
	store := storage.NewMemoryStore("https://cdn.example.com")
	svc := NewAssetService(repo, store, 1024, 2, logger.NewTestLogger(t))

	ctx := domain.ContextWithUserID(context.Background(), "user-1")
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	asset, err := svc.UploadAsset(ctx, &domain.UploadAssetRequest{
		Filename:    "../../hero.png",
		ContentType: "image/png",
		Data:        pngBytes,
	})
	require.NoError(t, err)

	assert.Equal(t, "hero.png", asset.Filename)
	assert.Equal(t, int64(len(pngBytes)), asset.Size)
	assert.Equal(t, "user-1", asset.CreatedBy)
	assert.True(t, strings.HasPrefix(asset.StorageKey, "assets/"))
	assert.True(t, strings.HasSuffix(asset.StorageKey, asset.ID+".png"))
	assert.Equal(t, "https://cdn.example.com/"+asset.StorageKey, asset.URL)

	stored, ok := store.Get(asset.StorageKey)
	require.True(t, ok)
	assert.Equal(t, pngBytes, stored)
}

func TestAssetService_UploadAsset_PDF(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockAssetRepository(ctrl)
	store := storage.NewMemoryStore("https://cdn.example.com")
	svc := NewAssetService(repo, store, 1024, 2, logger.NewTestLogger(t))

	pdf := []byte("%PDF-1.7\n1 0 obj\n<<>>\nendobj\n")
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	asset, err := svc.UploadAsset(context.Background(), &domain.UploadAssetRequest{
		Filename:    "price-list.pdf",
		ContentType: "application/pdf",
		Data:        pdf,
	})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", asset.ContentType)
	assert.True(t, strings.HasSuffix(asset.StorageKey, asset.ID+".pdf"))

	stored, ok := store.Get(asset.StorageKey)
	require.True(t, ok)
	assert.Equal(t, pdf, stored)
}

func TestAssetService_UploadAsset_Rejected(t *testing.T) {
	tests := []struct {
		name string
		req  domain.UploadAssetRequest
		want string
	}{
		{"svg", domain.UploadAssetRequest{Filename: "a.svg", ContentType: "image/svg+xml", Data: []byte("<svg/>")}, "unsupported content type"},
		{"empty", domain.UploadAssetRequest{Filename: "a.png", ContentType: "image/png"}, "file is empty"},
		{"too large", domain.UploadAssetRequest{Filename: "a.png", ContentType: "image/png", Data: make([]byte, 2048)}, "exceeds"},
		{"mislabelled", domain.UploadAssetRequest{Filename: "a.png", ContentType: "image/png", Data: []byte("GIF89a......")}, "file content is image/gif"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mocks.NewMockAssetRepository(ctrl)
			store := pkgmocks.NewMockObjectStore(ctrl)
			svc := NewAssetService(repo, store, 1024, 1, logger.NewTestLogger(t))

			req := tt.req
			_, err := svc.UploadAsset(context.Background(), &req)
			require.Error(t, err)
			assert.True(t, domain.IsValidation(err))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestAssetService_UploadAsset_StoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockAssetRepository(ctrl)
	store := pkgmocks.NewMockObjectStore(ctrl)
	svc := NewAssetService(repo, store, 0, 1, logger.NewTestLogger(t))

	store.EXPECT().Put(gomock.Any(), gomock.Any(), "image/png", pngBytes).Return("", errors.New("access denied"))

	asset, err := svc.UploadAsset(context.Background(), &domain.UploadAssetRequest{Filename: "a.png", ContentType: "image/png", Data: pngBytes})
	assert.Nil(t, asset)
	var uploadErr *domain.ErrAssetUpload
	require.ErrorAs(t, err, &uploadErr)
	assert.Equal(t, "a.png", uploadErr.Filename)
}

func TestAssetService_UploadAsset_RecordFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockAssetRepository(ctrl)
	store := pkgmocks.NewMockObjectStore(ctrl)
	svc := NewAssetService(repo, store, 0, 1, logger.NewTestLogger(t))

	var key string
	store.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, k, _ string, _ []byte) (string, error) {
			key = k
			return "https://cdn.example.com/" + k, nil
		})
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))
	store.EXPECT().Delete(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, k string) error {
		assert.Equal(t, key, k)
		return nil
	})

	_, err := svc.UploadAsset(context.Background(), &domain.UploadAssetRequest{Filename: "a.png", ContentType: "image/png", Data: pngBytes})
	var uploadErr *domain.ErrAssetUpload
	assert.ErrorAs(t, err, &uploadErr)
}

func TestAssetService_UploadAsset_ContextCancelled(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockAssetRepository(ctrl)
	store := pkgmocks.NewMockObjectStore(ctrl)
	svc := NewAssetService(repo, store, 0, 1, logger.NewTestLogger(t))

	// hold the only upload slot
	require.NoError(t, svc.uploads.Acquire(context.Background(), 1))
	defer svc.uploads.Release(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.UploadAsset(ctx, &domain.UploadAssetRequest{Filename: "a.png", ContentType: "image/png", Data: pngBytes})
	var uploadErr *domain.ErrAssetUpload
	require.ErrorAs(t, err, &uploadErr)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAssetService_DeleteAsset(t *testing.T) {
	const id = "0b7c5a1e-2d3f-4a5b-9c6d-7e8f9a0b1c2d"
	ctx := context.Background()

	t.Run("removes object and row", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockAssetRepository(ctrl)
		store := pkgmocks.NewMockObjectStore(ctrl)
		svc := NewAssetService(repo, store, 0, 1, logger.NewTestLogger(t))

		repo.EXPECT().GetByID(ctx, id).Return(&domain.Asset{ID: id, StorageKey: "assets/2026/10/x.png"}, nil)
		store.EXPECT().Delete(ctx, "assets/2026/10/x.png").Return(nil)
		repo.EXPECT().Delete(ctx, id).Return(nil)

		assert.NoError(t, svc.DeleteAsset(ctx, id))
	})

	t.Run("object already gone", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockAssetRepository(ctrl)
		store := pkgmocks.NewMockObjectStore(ctrl)
		svc := NewAssetService(repo, store, 0, 1, logger.NewTestLogger(t))

		repo.EXPECT().GetByID(ctx, id).Return(&domain.Asset{ID: id, StorageKey: "k"}, nil)
		store.EXPECT().Delete(ctx, "k").Return(storage.ErrObjectNotFound)
		repo.EXPECT().Delete(ctx, id).Return(nil)

		assert.NoError(t, svc.DeleteAsset(ctx, id))
	})

	t.Run("store failure keeps the row", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockAssetRepository(ctrl)
		store := pkgmocks.NewMockObjectStore(ctrl)
		svc := NewAssetService(repo, store, 0, 1, logger.NewTestLogger(t))

		repo.EXPECT().GetByID(ctx, id).Return(&domain.Asset{ID: id, StorageKey: "k"}, nil)
		store.EXPECT().Delete(ctx, "k").Return(errors.New("throttled"))

		assert.ErrorContains(t, svc.DeleteAsset(ctx, id), "failed to delete asset object")
	})

	t.Run("unknown asset", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockAssetRepository(ctrl)
		svc := NewAssetService(repo, pkgmocks.NewMockObjectStore(ctrl), 0, 1, logger.NewTestLogger(t))

		repo.EXPECT().GetByID(ctx, id).Return(nil, &domain.ErrAssetNotFound{ID: id})
		assert.True(t, domain.IsNotFound(svc.DeleteAsset(ctx, id)))
	})
}

func TestAssetService_ListAssets(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockAssetRepository(ctrl)
	svc := NewAssetService(repo, pkgmocks.NewMockObjectStore(ctrl), 0, 1, logger.NewTestLogger(t))

	req := &domain.ListAssetsRequest{}
	repo.EXPECT().List(gomock.Any(), req.Filter()).Return([]*domain.Asset{{ID: "a"}}, 1, nil)

	resp, err := svc.ListAssets(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.TotalCount)
}
