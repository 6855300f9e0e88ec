package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/Notifuse/campaign-builder/internal/domain"
	"github.com/Notifuse/campaign-builder/pkg/emailbuilder"
)

type campaignRepository struct {
	db   *sql.DB
	psql sq.StatementBuilderType
}

// NewCampaignRepository creates a new PostgreSQL campaign repository
func NewCampaignRepository(db *sql.DB) domain.CampaignRepository {
	return &campaignRepository{
		db:   db,
		psql: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *campaignRepository) Create(ctx context.Context, campaign *domain.Campaign) error {
	now := time.Now().UTC()
	campaign.CreatedAt = now
	campaign.UpdatedAt = now

	query := `
		INSERT INTO campaigns (
			id,
			name,
			subject,
			status,
			created_by,
			created_at,
			updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		campaign.ID,
		campaign.Name,
		campaign.Subject,
		campaign.Status,
		campaign.CreatedBy,
		campaign.CreatedAt,
		campaign.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create campaign: %w", err)
	}
	return nil
}

func (r *campaignRepository) GetByID(ctx context.Context, id string) (*domain.Campaign, error) {
	query := `
		SELECT
			c.id,
			c.name,
			c.subject,
			c.status,
			c.current_revision_id,
			r.content,
			r.rendered_html,
			c.created_by,
			c.created_at,
			c.updated_at
		FROM campaigns c
		LEFT JOIN campaign_revisions r ON r.id = c.current_revision_id
		WHERE c.id = $1 AND c.deleted_at IS NULL
	`

	var (
		campaign     domain.Campaign
		revisionID   sql.NullString
		content      []byte
		renderedHTML sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&campaign.ID,
		&campaign.Name,
		&campaign.Subject,
		&campaign.Status,
		&revisionID,
		&content,
		&renderedHTML,
		&campaign.CreatedBy,
		&campaign.CreatedAt,
		&campaign.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.ErrCampaignNotFound{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}

	if revisionID.Valid {
		campaign.CurrentRevisionID = &revisionID.String
	}
	if len(content) > 0 {
		doc, err := emailbuilder.ParseDocument(content)
		if err != nil {
			return nil, fmt.Errorf("failed to decode campaign content: %w", err)
		}
		campaign.Content = &doc
	}
	campaign.RenderedHTML = renderedHTML.String

	return &campaign, nil
}

func (r *campaignRepository) listWhere(filter domain.CampaignFilter) sq.And {
	where := sq.And{sq.Eq{"deleted_at": nil}}
	if filter.Status != "" {
		where = append(where, sq.Eq{"status": filter.Status})
	}
	if filter.Search != "" {
		where = append(where, sq.ILike{"name": "%" + filter.Search + "%"})
	}
	return where
}

// List returns campaign metadata without content, most recently updated first
func (r *campaignRepository) List(ctx context.Context, filter domain.CampaignFilter) ([]*domain.Campaign, int, error) {
	where := r.listWhere(filter)

	countQuery, countArgs, err := r.psql.Select("COUNT(*)").From("campaigns").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count campaigns: %w", err)
	}

	builder := r.psql.Select(
		"id",
		"name",
		"subject",
		"status",
		"current_revision_id",
		"created_by",
		"created_at",
		"updated_at",
	).
		From("campaigns").
		Where(where).
		OrderBy("updated_at DESC")
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list campaigns: %w", err)
	}
	defer rows.Close()

	campaigns := []*domain.Campaign{}
	for rows.Next() {
		var (
			c          domain.Campaign
			revisionID sql.NullString
		)
		if err := rows.Scan(
			&c.ID,
			&c.Name,
			&c.Subject,
			&c.Status,
			&revisionID,
			&c.CreatedBy,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan campaign: %w", err)
		}
		if revisionID.Valid {
			c.CurrentRevisionID = &revisionID.String
		}
		campaigns = append(campaigns, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating campaign rows: %w", err)
	}

	return campaigns, total, nil
}

func (r *campaignRepository) Update(ctx context.Context, campaign *domain.Campaign) error {
	campaign.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE campaigns
		SET name = $1, subject = $2, status = $3, updated_at = $4
		WHERE id = $5 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query,
		campaign.Name,
		campaign.Subject,
		campaign.Status,
		campaign.UpdatedAt,
		campaign.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update campaign: %w", err)
	}
	return expectOneRow(result, &domain.ErrCampaignNotFound{ID: campaign.ID})
}

// Delete soft-deletes the campaign. Its revisions are kept.
func (r *campaignRepository) Delete(ctx context.Context, id string) error {
	now := time.Now().UTC()
	query := `UPDATE campaigns SET deleted_at = $1, updated_at = $1 WHERE id = $2 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete campaign: %w", err)
	}
	return expectOneRow(result, &domain.ErrCampaignNotFound{ID: id})
}

func (r *campaignRepository) SaveRevision(ctx context.Context, revision *domain.Revision) (err error) {
	content, err := json.Marshal(revision.Content)
	if err != nil {
		return fmt.Errorf("failed to encode campaign content: %w", err)
	}
	if revision.CreatedAt.IsZero() {
		revision.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO campaign_revisions (
			id,
			campaign_id,
			content,
			rendered_html,
			checksum,
			created_by,
			created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		revision.ID,
		revision.CampaignID,
		content,
		revision.RenderedHTML,
		revision.Checksum,
		revision.CreatedBy,
		revision.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert revision: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE campaigns SET current_revision_id = $1, updated_at = $2 WHERE id = $3 AND deleted_at IS NULL`,
		revision.ID,
		revision.CreatedAt,
		revision.CampaignID,
	)
	if err != nil {
		return fmt.Errorf("failed to update current revision: %w", err)
	}
	if err = expectOneRow(result, &domain.ErrCampaignNotFound{ID: revision.CampaignID}); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit revision: %w", err)
	}
	return nil
}

func (r *campaignRepository) GetRevision(ctx context.Context, campaignID, revisionID string) (*domain.Revision, error) {
	query := `
		SELECT id, campaign_id, content, rendered_html, checksum, created_by, created_at
		FROM campaign_revisions
		WHERE id = $1 AND campaign_id = $2
	`

	var (
		rev     domain.Revision
		content []byte
	)
	err := r.db.QueryRowContext(ctx, query, revisionID, campaignID).Scan(
		&rev.ID,
		&rev.CampaignID,
		&content,
		&rev.RenderedHTML,
		&rev.Checksum,
		&rev.CreatedBy,
		&rev.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.ErrRevisionNotFound{CampaignID: campaignID, ID: revisionID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get revision: %w", err)
	}

	if rev.Content, err = emailbuilder.ParseDocument(content); err != nil {
		return nil, fmt.Errorf("failed to decode revision content: %w", err)
	}
	return &rev, nil
}

func (r *campaignRepository) ListRevisions(ctx context.Context, campaignID string, limit int) ([]*domain.RevisionSummary, error) {
	query, args, err := r.psql.Select(
		"id",
		"campaign_id",
		"checksum",
		"LENGTH(rendered_html)",
		"created_by",
		"created_at",
	).
		From("campaign_revisions").
		Where(sq.Eq{"campaign_id": campaignID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build revisions query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list revisions: %w", err)
	}
	defer rows.Close()

	revisions := []*domain.RevisionSummary{}
	for rows.Next() {
		var s domain.RevisionSummary
		if err := rows.Scan(&s.ID, &s.CampaignID, &s.Checksum, &s.HTMLSize, &s.CreatedBy, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan revision: %w", err)
		}
		revisions = append(revisions, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating revision rows: %w", err)
	}
	return revisions, nil
}

func (r *campaignRepository) PruneRevisions(ctx context.Context, keep int) (int64, error) {
	if keep < 1 {
		return 0, fmt.Errorf("keep must be at least 1, got %d", keep)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT ranked.id FROM (
			SELECT
				rev.id,
				ROW_NUMBER() OVER (PARTITION BY rev.campaign_id ORDER BY rev.created_at DESC) AS position,
				c.current_revision_id
			FROM campaign_revisions rev
			JOIN campaigns c ON c.id = rev.campaign_id
		) ranked
		WHERE ranked.position > $1
		AND (ranked.current_revision_id IS NULL OR ranked.id <> ranked.current_revision_id)
	`, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to select revisions to prune: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return 0, fmt.Errorf("failed to scan revision id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("error iterating revision ids: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM campaign_revisions WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("failed to prune revisions: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return deleted, nil
}

func expectOneRow(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return notFound
	}
	return nil
}
