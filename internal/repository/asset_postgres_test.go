package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Notifuse/campaign-builder/internal/domain"
	"github.com/Notifuse/campaign-builder/internal/repository/testutil"
)

const testAssetID = "0b7e5c1a-3d2f-4e6a-9b8c-7d6e5f4a3b2c"

func TestAssetRepository_Create(t *testing.T) {
	db, mock, cleanup := testutil.SetupMockDB(t)
	defer cleanup()
	repo := NewAssetRepository(db)

	asset := &domain.Asset{
		ID:          testAssetID,
		Filename:    "hero.png",
		ContentType: "image/png",
		Size:        2048,
		URL:         "https://cdn.example.com/assets/hero.png",
		StorageKey:  "assets/hero.png",
		CreatedBy:   "user-1",
	}

	mock.ExpectExec(`INSERT INTO assets \(id,filename,content_type,size,url,storage_key,created_by,created_at\) VALUES`).
		WithArgs(testAssetID, "hero.png", "image/png", int64(2048), asset.URL, "assets/hero.png", "user-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Create(context.Background(), asset))
	assert.False(t, asset.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssetRepository_GetByID(t *testing.T) {
	db, mock, cleanup := testutil.SetupMockDB(t)
	defer cleanup()
	repo := NewAssetRepository(db)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT id, filename, content_type, size, url, storage_key, created_by, created_at FROM assets WHERE id = \$1`).
		WithArgs(testAssetID).
		WillReturnRows(sqlmock.NewRows(assetColumns).
			AddRow(testAssetID, "hero.png", "image/png", 2048, "https://cdn.example.com/a", "a", "user-1", now))

	asset, err := repo.GetByID(context.Background(), testAssetID)
	require.NoError(t, err)
	assert.Equal(t, int64(2048), asset.Size)
	assert.Equal(t, "a", asset.StorageKey)

	mock.ExpectQuery(`SELECT .* FROM assets`).WithArgs(testAssetID).WillReturnError(sql.ErrNoRows)
	_, err = repo.GetByID(context.Background(), testAssetID)
	assert.IsType(t, &domain.ErrAssetNotFound{}, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssetRepository_List(t *testing.T) {
	now := time.Now().UTC()

	t.Run("filtered", func(t *testing.T) {
		db, mock, cleanup := testutil.SetupMockDB(t)
		defer cleanup()
		repo := NewAssetRepository(db)

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM assets WHERE \(content_type = \$1\)`).
			WithArgs("image/gif").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery(`SELECT id, filename, .* FROM assets WHERE \(content_type = \$1\) ORDER BY created_at DESC LIMIT 10`).
			WithArgs("image/gif").
			WillReturnRows(sqlmock.NewRows(assetColumns).
				AddRow(testAssetID, "dance.gif", "image/gif", 99, "https://cdn.example.com/d", "d", "user-1", now))

		assets, total, err := repo.List(context.Background(), domain.AssetFilter{ContentType: "image/gif", Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, assets, 1)
		assert.Equal(t, "dance.gif", assets[0].Filename)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unfiltered", func(t *testing.T) {
		db, mock, cleanup := testutil.SetupMockDB(t)
		defer cleanup()
		repo := NewAssetRepository(db)

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM assets$`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`SELECT id, filename, .* FROM assets ORDER BY created_at DESC`).
			WillReturnRows(sqlmock.NewRows(assetColumns))

		assets, total, err := repo.List(context.Background(), domain.AssetFilter{})
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.NotNil(t, assets)
		assert.Empty(t, assets)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAssetRepository_Delete(t *testing.T) {
	db, mock, cleanup := testutil.SetupMockDB(t)
	defer cleanup()
	repo := NewAssetRepository(db)

	mock.ExpectExec(`DELETE FROM assets WHERE id = \$1`).
		WithArgs(testAssetID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), testAssetID))

	mock.ExpectExec(`DELETE FROM assets WHERE id = \$1`).
		WithArgs(testAssetID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.IsType(t, &domain.ErrAssetNotFound{}, repo.Delete(context.Background(), testAssetID))

	assert.NoError(t, mock.ExpectationsWereMet())
}
