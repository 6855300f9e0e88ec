package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/Notifuse/campaign-builder/internal/domain"
)

type assetRepository struct {
	db   *sql.DB
	psql sq.StatementBuilderType
}

// NewAssetRepository creates a new PostgreSQL asset repository
func NewAssetRepository(db *sql.DB) domain.AssetRepository {
	return &assetRepository{
		db:   db,
		psql: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

var assetColumns = []string{"id", "filename", "content_type", "size", "url", "storage_key", "created_by", "created_at"}

func (r *assetRepository) Create(ctx context.Context, asset *domain.Asset) error {
	if asset.CreatedAt.IsZero() {
		asset.CreatedAt = time.Now().UTC()
	}

	query, args, err := r.psql.Insert("assets").
		Columns(assetColumns...).
		Values(asset.ID, asset.Filename, asset.ContentType, asset.Size, asset.URL, asset.StorageKey, asset.CreatedBy, asset.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to create asset: %w", err)
	}
	return nil
}

func (r *assetRepository) GetByID(ctx context.Context, id string) (*domain.Asset, error) {
	query, args, err := r.psql.Select(assetColumns...).From("assets").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	asset, err := scanAsset(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.ErrAssetNotFound{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}
	return asset, nil
}

func (r *assetRepository) List(ctx context.Context, filter domain.AssetFilter) ([]*domain.Asset, int, error) {
	where := sq.And{}
	if filter.ContentType != "" {
		where = append(where, sq.Eq{"content_type": filter.ContentType})
	}

	countBuilder := r.psql.Select("COUNT(*)").From("assets")
	builder := r.psql.Select(assetColumns...).From("assets").OrderBy("created_at DESC")
	if len(where) > 0 {
		countBuilder = countBuilder.Where(where)
		builder = builder.Where(where)
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count assets: %w", err)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list query: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list assets: %w", err)
	}
	defer rows.Close()

	assets := []*domain.Asset{}
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan asset: %w", err)
		}
		assets = append(assets, asset)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating asset rows: %w", err)
	}
	return assets, total, nil
}

func (r *assetRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM assets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete asset: %w", err)
	}
	return expectOneRow(result, &domain.ErrAssetNotFound{ID: id})
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanAsset(s scanner) (*domain.Asset, error) {
	var a domain.Asset
	err := s.Scan(&a.ID, &a.Filename, &a.ContentType, &a.Size, &a.URL, &a.StorageKey, &a.CreatedBy, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
