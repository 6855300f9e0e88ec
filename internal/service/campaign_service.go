package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Notifuse/campaign-builder/internal/domain"
	"github.com/Notifuse/campaign-builder/pkg/emailbuilder"
	"github.com/Notifuse/campaign-builder/pkg/logger"
	"github.com/Notifuse/campaign-builder/pkg/mailer"
	"github.com/Notifuse/campaign-builder/pkg/tracing"
	"github.com/Notifuse/campaign-builder/pkg/webhook"
)

type CampaignService struct {
	repo     domain.CampaignRepository
	editor   domain.EditorService
	mailer   mailer.Mailer
	notifier webhook.Notifier
	renderer *emailbuilder.MergeTagRenderer
	logger   logger.Logger
}

func NewCampaignService(
	repo domain.CampaignRepository,
	editor domain.EditorService,
	mailer mailer.Mailer,
	notifier webhook.Notifier,
	logger logger.Logger,
) *CampaignService {
	if notifier == nil {
		notifier = webhook.NoopNotifier{}
	}
	return &CampaignService{
		repo:     repo,
		editor:   editor,
		mailer:   mailer,
		notifier: notifier,
		renderer: emailbuilder.NewMergeTagRenderer(),
		logger:   logger,
	}
}

func (s *CampaignService) ListCampaigns(ctx context.Context, req *domain.ListCampaignsRequest) (*domain.ListCampaignsResponse, error) {
	campaigns, total, err := s.repo.List(ctx, req.Filter())
	if err != nil {
		s.logger.WithField("error", err.Error()).Error("Failed to list campaigns")
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	return &domain.ListCampaignsResponse{Campaigns: campaigns, TotalCount: total}, nil
}

func (s *CampaignService) GetCampaign(ctx context.Context, id string) (*domain.Campaign, error) {
	campaign, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, err
		}
		s.logger.WithField("campaign_id", id).WithField("error", err.Error()).Error("Failed to get campaign")
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}
	if campaign.Content != nil {
		doc, report := emailbuilder.RepairDocument(*campaign.Content)
		if report.Changed() {
			logRepair(s.logger, campaign.ID, report)
		}
		campaign.Content = &doc
	}
	return campaign, nil
}

// CreateCampaign creates a draft. When content is given it goes through the
// save pipeline before the campaign row is written, so invalid content
// creates nothing.
func (s *CampaignService) CreateCampaign(ctx context.Context, req *domain.CreateCampaignRequest) (*domain.Campaign, error) {
	ctx, span := tracing.StartServiceSpan(ctx, "CampaignService", "CreateCampaign")
	defer span.End()

	campaign := &domain.Campaign{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(req.Name),
		Subject:   req.Subject,
		Status:    domain.CampaignStatusDraft,
		CreatedBy: domain.UserIDFromContext(ctx),
	}
	if err := campaign.Validate(); err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	var revision *domain.Revision
	if req.Content != nil {
		var err error
		revision, _, _, err = s.prepareRevision(ctx, campaign.ID, *req.Content)
		if err != nil {
			tracing.MarkSpanError(ctx, err)
			return nil, err
		}
	}

	if err := s.repo.Create(ctx, campaign); err != nil {
		tracing.MarkSpanError(ctx, err)
		s.logger.WithField("campaign_id", campaign.ID).WithField("error", err.Error()).Error("Failed to create campaign")
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}

	if revision != nil {
		if err := s.repo.SaveRevision(ctx, revision); err != nil {
			tracing.MarkSpanError(ctx, err)
			s.logger.WithField("campaign_id", campaign.ID).WithField("error", err.Error()).Error("Failed to save initial revision")
			if delErr := s.repo.Delete(ctx, campaign.ID); delErr != nil {
				s.logger.WithField("campaign_id", campaign.ID).WithField("error", delErr.Error()).Warn("Failed to remove campaign after failed save")
			}
			return nil, fmt.Errorf("failed to save campaign content: %w", err)
		}
		campaign.CurrentRevisionID = &revision.ID
		campaign.Content = &revision.Content
		campaign.RenderedHTML = revision.RenderedHTML
		campaign.UpdatedAt = revision.CreatedAt
	}

	return campaign, nil
}

func (s *CampaignService) UpdateCampaign(ctx context.Context, req *domain.UpdateCampaignRequest) (*domain.Campaign, error) {
	campaign, err := s.GetCampaign(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	req.Apply(campaign)
	if err := campaign.Validate(); err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	if err := s.repo.Update(ctx, campaign); err != nil {
		if domain.IsNotFound(err) {
			return nil, err
		}
		s.logger.WithField("campaign_id", req.ID).WithField("error", err.Error()).Error("Failed to update campaign")
		return nil, fmt.Errorf("failed to update campaign: %w", err)
	}
	return campaign, nil
}

func (s *CampaignService) DeleteCampaign(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if domain.IsNotFound(err) {
			return err
		}
		s.logger.WithField("campaign_id", id).WithField("error", err.Error()).Error("Failed to delete campaign")
		return fmt.Errorf("failed to delete campaign: %w", err)
	}
	return nil
}

// prepareRevision runs repair, validation, export and the spam-free check.
// Nothing is persisted.
func (s *CampaignService) prepareRevision(
	ctx context.Context,
	campaignID string,
	content emailbuilder.Document,
) (*domain.Revision, emailbuilder.RepairReport, *domain.ExportResponse, error) {
	doc, report := emailbuilder.RepairDocument(content)
	if report.Changed() {
		logRepair(s.logger, campaignID, report)
	}

	if err := emailbuilder.ValidateDocument(doc); err != nil {
		return nil, report, nil, documentValidationError(err)
	}

	exported, err := s.editor.Export(ctx, doc)
	if err != nil {
		return nil, report, nil, err
	}
	if !exported.Valid {
		return nil, report, exported, &domain.ErrUnsafeHTML{Reasons: exported.Reasons}
	}

	return &domain.Revision{
		ID:           uuid.New().String(),
		CampaignID:   campaignID,
		Content:      doc,
		RenderedHTML: exported.HTML,
		Checksum:     exported.Checksum,
		CreatedBy:    domain.UserIDFromContext(ctx),
		CreatedAt:    time.Now().UTC(),
	}, report, exported, nil
}

func (s *CampaignService) SaveCampaign(ctx context.Context, req *domain.SaveCampaignRequest) (resp *domain.SaveCampaignResponse, err error) {
	ctx, span := tracing.StartServiceSpan(ctx, "CampaignService", "SaveCampaign")
	defer func() {
		tracing.RecordSave(ctx, err)
		tracing.EndSpan(span, err)
	}()
	tracing.AddAttribute(ctx, "campaign_id", req.ID)

	revision, report, exported, err := s.prepareRevision(ctx, req.ID, req.Content)
	if err != nil {
		return nil, err
	}

	if err = s.repo.SaveRevision(ctx, revision); err != nil {
		if domain.IsNotFound(err) {
			return nil, err
		}
		s.logger.WithField("campaign_id", req.ID).WithField("error", err.Error()).Error("Failed to save campaign revision")
		return nil, fmt.Errorf("failed to save campaign: %w", err)
	}

	summary := revision.Summary()
	if notifyErr := s.notifier.Notify(ctx, webhook.EventRevisionSaved, summary); notifyErr != nil {
		s.logger.WithField("campaign_id", req.ID).WithField("error", notifyErr.Error()).Warn("Failed to deliver revision webhook")
	}

	return &domain.SaveCampaignResponse{
		Revision:    summary,
		Repair:      report,
		StyleIssues: exported.StyleIssues,
	}, nil
}

func (s *CampaignService) ListRevisions(ctx context.Context, req *domain.ListRevisionsRequest) ([]*domain.RevisionSummary, error) {
	if _, err := s.GetCampaign(ctx, req.CampaignID); err != nil {
		return nil, err
	}

	revisions, err := s.repo.ListRevisions(ctx, req.CampaignID, req.Limit)
	if err != nil {
		s.logger.WithField("campaign_id", req.CampaignID).WithField("error", err.Error()).Error("Failed to list revisions")
		return nil, fmt.Errorf("failed to list revisions: %w", err)
	}
	return revisions, nil
}

// revisionHTML returns the exported markup of the requested revision, or of
// the current one when revisionID is empty
func (s *CampaignService) revisionHTML(ctx context.Context, campaign *domain.Campaign, revisionID string) (string, string, error) {
	if revisionID == "" {
		if campaign.CurrentRevisionID == nil {
			return "", "", &domain.ErrRevisionNotFound{CampaignID: campaign.ID}
		}
		return *campaign.CurrentRevisionID, campaign.RenderedHTML, nil
	}

	revision, err := s.repo.GetRevision(ctx, campaign.ID, revisionID)
	if err != nil {
		if domain.IsNotFound(err) {
			return "", "", err
		}
		return "", "", fmt.Errorf("failed to get revision: %w", err)
	}
	return revision.ID, revision.RenderedHTML, nil
}

func (s *CampaignService) PreviewCampaign(ctx context.Context, req *domain.PreviewCampaignRequest) (*domain.PreviewCampaignResponse, error) {
	ctx, span := tracing.StartServiceSpan(ctx, "CampaignService", "PreviewCampaign")
	defer span.End()

	campaign, err := s.GetCampaign(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	revisionID, html, err := s.revisionHTML(ctx, campaign, req.RevisionID)
	if err != nil {
		return nil, err
	}

	rendered, err := s.renderMergeTagsHTML(ctx, html, req.Data)
	if err != nil {
		return nil, err
	}
	return &domain.PreviewCampaignResponse{RevisionID: revisionID, HTML: rendered}, nil
}

func (s *CampaignService) SendTestEmail(ctx context.Context, req *domain.SendTestEmailRequest) error {
	ctx, span := tracing.StartServiceSpan(ctx, "CampaignService", "SendTestEmail")
	defer span.End()

	campaign, err := s.GetCampaign(ctx, req.ID)
	if err != nil {
		return err
	}

	_, html, err := s.revisionHTML(ctx, campaign, "")
	if err != nil {
		return err
	}

	body, err := s.renderMergeTagsHTML(ctx, html, req.Data)
	if err != nil {
		return err
	}

	subject := campaign.Subject
	if strings.TrimSpace(subject) == "" {
		subject = campaign.Name
	}
	if subject, err = s.renderMergeTags(ctx, subject, req.Data); err != nil {
		return err
	}

	err = s.mailer.Send(ctx, mailer.Message{
		To:      req.Recipients,
		Subject: "[TEST] " + subject,
		HTML:    body,
	})
	if err != nil {
		tracing.MarkSpanError(ctx, err)
		s.logger.WithField("campaign_id", req.ID).WithField("error", err.Error()).Error("Failed to send test email")
		return fmt.Errorf("failed to send test email: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"campaign_id": req.ID,
		"recipients":  len(req.Recipients),
	}).Info("Test email sent")
	return nil
}

func (s *CampaignService) renderMergeTags(ctx context.Context, content string, data map[string]interface{}) (string, error) {
	if data == nil {
		data = emailbuilder.SampleMergeData()
	}
	out, err := s.renderer.Render(ctx, content, data)
	if err != nil {
		return "", domain.NewValidationError(fmt.Sprintf("failed to render merge tags: %v", err))
	}
	return out, nil
}

// renderMergeTagsHTML renders merge tags into exported markup. Merge values
// are not escaped, so the result is checked again.
func (s *CampaignService) renderMergeTagsHTML(ctx context.Context, html string, data map[string]interface{}) (string, error) {
	out, err := s.renderMergeTags(ctx, html, data)
	if err != nil {
		return "", err
	}
	if result := emailbuilder.ValidateSpamFreeHTML(out); !result.Valid {
		return "", &domain.ErrUnsafeHTML{Reasons: result.Reasons}
	}
	return out, nil
}
