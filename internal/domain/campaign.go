package domain

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"

	"github.com/Notifuse/campaign-builder/pkg/emailbuilder"
)

//go:generate mockgen -destination mocks/mock_campaign_service.go -package mocks github.com/Notifuse/campaign-builder/internal/domain CampaignService
//go:generate mockgen -destination mocks/mock_campaign_repository.go -package mocks github.com/Notifuse/campaign-builder/internal/domain CampaignRepository

const (
	MaxTestRecipients   = 10
	DefaultListLimit    = 50
	MaxListLimit        = 200
	DefaultRevisionList = 20
)

type CampaignStatus string

const (
	CampaignStatusDraft    CampaignStatus = "draft"
	CampaignStatusReady    CampaignStatus = "ready"
	CampaignStatusArchived CampaignStatus = "archived"
)

func (s CampaignStatus) IsValid() bool {
	switch s {
	case CampaignStatusDraft, CampaignStatusReady, CampaignStatusArchived:
		return true
	}
	return false
}

// Campaign is an email campaign whose body is an emailbuilder document.
// Content and RenderedHTML come from the current revision and are empty until
// the first save.
type Campaign struct {
	ID                string                 `json:"id"`
	Name              string                 `json:"name"`
	Subject           string                 `json:"subject"`
	Status            CampaignStatus         `json:"status"`
	CurrentRevisionID *string                `json:"current_revision_id,omitempty"`
	Content           *emailbuilder.Document `json:"content,omitempty"`
	RenderedHTML      string                 `json:"rendered_html,omitempty"`
	CreatedBy         string                 `json:"created_by"`
	CreatedAt         time.Time              `json:"created_at"`
	UpdatedAt         time.Time              `json:"updated_at"`
	DeletedAt         *time.Time             `json:"-"`
}

func (c *Campaign) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("id is required")
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if len(c.Name) > 255 {
		return fmt.Errorf("name length must be between 1 and 255")
	}
	if len(c.Subject) > 255 {
		return fmt.Errorf("subject length must not exceed 255")
	}
	if !c.Status.IsValid() {
		return fmt.Errorf("invalid status: %s", c.Status)
	}
	return nil
}

// Revision is one saved version of a campaign body. Revisions are immutable.
type Revision struct {
	ID           string                `json:"id"`
	CampaignID   string                `json:"campaign_id"`
	Content      emailbuilder.Document `json:"content"`
	RenderedHTML string                `json:"rendered_html"`
	Checksum     string                `json:"checksum"`
	CreatedBy    string                `json:"created_by"`
	CreatedAt    time.Time             `json:"created_at"`
}

func (r *Revision) Summary() *RevisionSummary {
	return &RevisionSummary{
		ID:         r.ID,
		CampaignID: r.CampaignID,
		Checksum:   r.Checksum,
		HTMLSize:   len(r.RenderedHTML),
		CreatedBy:  r.CreatedBy,
		CreatedAt:  r.CreatedAt,
	}
}

// RevisionSummary lists a revision without its payload
type RevisionSummary struct {
	ID         string    `json:"id"`
	CampaignID string    `json:"campaign_id"`
	Checksum   string    `json:"checksum"`
	HTMLSize   int       `json:"html_size"`
	CreatedBy  string    `json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
}

// CampaignFilter narrows List results
type CampaignFilter struct {
	Status CampaignStatus
	Search string
	Limit  int
	Offset int
}

type ListCampaignsRequest struct {
	Status CampaignStatus `json:"status,omitempty"`
	Search string         `json:"search,omitempty"`
	Limit  int            `json:"limit,omitempty"`
	Offset int            `json:"offset,omitempty"`
}

func (r *ListCampaignsRequest) FromURLParams(queryParams url.Values) error {
	r.Status = CampaignStatus(queryParams.Get("status"))
	r.Search = strings.TrimSpace(queryParams.Get("search"))

	var err error
	if r.Limit, err = parseIntParam(queryParams, "limit", DefaultListLimit); err != nil {
		return fmt.Errorf("invalid list campaigns request: %w", err)
	}
	if r.Offset, err = parseIntParam(queryParams, "offset", 0); err != nil {
		return fmt.Errorf("invalid list campaigns request: %w", err)
	}

	if r.Status != "" && !r.Status.IsValid() {
		return fmt.Errorf("invalid list campaigns request: invalid status: %s", r.Status)
	}
	if r.Limit < 1 || r.Limit > MaxListLimit {
		return fmt.Errorf("invalid list campaigns request: limit must be between 1 and %d", MaxListLimit)
	}
	if r.Offset < 0 {
		return fmt.Errorf("invalid list campaigns request: offset must not be negative")
	}
	return nil
}

func (r *ListCampaignsRequest) Filter() CampaignFilter {
	return CampaignFilter{Status: r.Status, Search: r.Search, Limit: r.Limit, Offset: r.Offset}
}

type ListCampaignsResponse struct {
	Campaigns  []*Campaign `json:"campaigns"`
	TotalCount int         `json:"total_count"`
}

type GetCampaignRequest struct {
	ID string `json:"id"`
}

func (r *GetCampaignRequest) FromURLParams(queryParams url.Values) error {
	r.ID = queryParams.Get("id")
	if r.ID == "" {
		return fmt.Errorf("invalid get campaign request: id is required")
	}
	if !govalidator.IsUUID(r.ID) {
		return fmt.Errorf("invalid get campaign request: id must be a valid UUID")
	}
	return nil
}

type CreateCampaignRequest struct {
	Name    string                 `json:"name"`
	Subject string                 `json:"subject"`
	Content *emailbuilder.Document `json:"content,omitempty"`
}

func (r *CreateCampaignRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("invalid create campaign request: name is required")
	}
	if len(r.Name) > 255 {
		return fmt.Errorf("invalid create campaign request: name length must be between 1 and 255")
	}
	if len(r.Subject) > 255 {
		return fmt.Errorf("invalid create campaign request: subject length must not exceed 255")
	}
	return nil
}

// UpdateCampaignRequest changes campaign metadata. Content changes go through Save.
type UpdateCampaignRequest struct {
	ID      string          `json:"id"`
	Name    *string         `json:"name,omitempty"`
	Subject *string         `json:"subject,omitempty"`
	Status  *CampaignStatus `json:"status,omitempty"`
}

func (r *UpdateCampaignRequest) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("invalid update campaign request: id is required")
	}
	if !govalidator.IsUUID(r.ID) {
		return fmt.Errorf("invalid update campaign request: id must be a valid UUID")
	}
	if r.Name == nil && r.Subject == nil && r.Status == nil {
		return fmt.Errorf("invalid update campaign request: nothing to update")
	}
	if r.Name != nil && (strings.TrimSpace(*r.Name) == "" || len(*r.Name) > 255) {
		return fmt.Errorf("invalid update campaign request: name length must be between 1 and 255")
	}
	if r.Subject != nil && len(*r.Subject) > 255 {
		return fmt.Errorf("invalid update campaign request: subject length must not exceed 255")
	}
	if r.Status != nil && !r.Status.IsValid() {
		return fmt.Errorf("invalid update campaign request: invalid status: %s", *r.Status)
	}
	return nil
}

// Apply copies the set fields onto c
func (r *UpdateCampaignRequest) Apply(c *Campaign) {
	if r.Name != nil {
		c.Name = strings.TrimSpace(*r.Name)
	}
	if r.Subject != nil {
		c.Subject = *r.Subject
	}
	if r.Status != nil {
		c.Status = *r.Status
	}
}

type DeleteCampaignRequest struct {
	ID string `json:"id"`
}

func (r *DeleteCampaignRequest) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("invalid delete campaign request: id is required")
	}
	if !govalidator.IsUUID(r.ID) {
		return fmt.Errorf("invalid delete campaign request: id must be a valid UUID")
	}
	return nil
}

// SaveCampaignRequest stores a new revision of the campaign body
type SaveCampaignRequest struct {
	ID      string                `json:"id"`
	Content emailbuilder.Document `json:"content"`
}

func (r *SaveCampaignRequest) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("invalid save campaign request: id is required")
	}
	if !govalidator.IsUUID(r.ID) {
		return fmt.Errorf("invalid save campaign request: id must be a valid UUID")
	}
	return nil
}

type SaveCampaignResponse struct {
	Revision    *RevisionSummary          `json:"revision"`
	Repair      emailbuilder.RepairReport `json:"repair"`
	StyleIssues []string                  `json:"style_issues,omitempty"`
}

type ListRevisionsRequest struct {
	CampaignID string `json:"campaign_id"`
	Limit      int    `json:"limit,omitempty"`
}

func (r *ListRevisionsRequest) FromURLParams(queryParams url.Values) error {
	r.CampaignID = queryParams.Get("campaign_id")

	var err error
	if r.Limit, err = parseIntParam(queryParams, "limit", DefaultRevisionList); err != nil {
		return fmt.Errorf("invalid list revisions request: %w", err)
	}

	if r.CampaignID == "" {
		return fmt.Errorf("invalid list revisions request: campaign_id is required")
	}
	if !govalidator.IsUUID(r.CampaignID) {
		return fmt.Errorf("invalid list revisions request: campaign_id must be a valid UUID")
	}
	if r.Limit < 1 || r.Limit > MaxListLimit {
		return fmt.Errorf("invalid list revisions request: limit must be between 1 and %d", MaxListLimit)
	}
	return nil
}

// PreviewCampaignRequest renders merge tags of a revision. An empty
// RevisionID previews the current revision; nil Data uses sample data.
type PreviewCampaignRequest struct {
	ID         string                 `json:"id"`
	RevisionID string                 `json:"revision_id,omitempty"`
	Data       map[string]interface{} `json:"data,omitempty"`
}

func (r *PreviewCampaignRequest) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("invalid preview campaign request: id is required")
	}
	if !govalidator.IsUUID(r.ID) {
		return fmt.Errorf("invalid preview campaign request: id must be a valid UUID")
	}
	if r.RevisionID != "" && !govalidator.IsUUID(r.RevisionID) {
		return fmt.Errorf("invalid preview campaign request: revision_id must be a valid UUID")
	}
	return nil
}

type PreviewCampaignResponse struct {
	RevisionID string `json:"revision_id"`
	HTML       string `json:"html"`
}

type SendTestEmailRequest struct {
	ID         string                 `json:"id"`
	Recipients []string               `json:"recipients"`
	Data       map[string]interface{} `json:"data,omitempty"`
}

func (r *SendTestEmailRequest) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("invalid send test email request: id is required")
	}
	if !govalidator.IsUUID(r.ID) {
		return fmt.Errorf("invalid send test email request: id must be a valid UUID")
	}
	if len(r.Recipients) == 0 {
		return fmt.Errorf("invalid send test email request: at least one recipient is required")
	}
	if len(r.Recipients) > MaxTestRecipients {
		return fmt.Errorf("invalid send test email request: at most %d recipients are allowed", MaxTestRecipients)
	}
	for _, email := range r.Recipients {
		if !govalidator.IsEmail(email) {
			return fmt.Errorf("invalid send test email request: invalid email: %s", email)
		}
	}
	return nil
}

func parseIntParam(queryParams url.Values, key string, fallback int) (int, error) {
	raw := queryParams.Get(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return v, nil
}

// CampaignService is the campaign persistence boundary
type CampaignService interface {
	ListCampaigns(ctx context.Context, req *ListCampaignsRequest) (*ListCampaignsResponse, error)
	GetCampaign(ctx context.Context, id string) (*Campaign, error)
	CreateCampaign(ctx context.Context, req *CreateCampaignRequest) (*Campaign, error)
	UpdateCampaign(ctx context.Context, req *UpdateCampaignRequest) (*Campaign, error)
	DeleteCampaign(ctx context.Context, id string) error
	// SaveCampaign repairs, validates and exports the document, then stores a
	// revision. It either fully succeeds or leaves the campaign untouched.
	SaveCampaign(ctx context.Context, req *SaveCampaignRequest) (*SaveCampaignResponse, error)
	ListRevisions(ctx context.Context, req *ListRevisionsRequest) ([]*RevisionSummary, error)
	PreviewCampaign(ctx context.Context, req *PreviewCampaignRequest) (*PreviewCampaignResponse, error)
	SendTestEmail(ctx context.Context, req *SendTestEmailRequest) error
}

type CampaignRepository interface {
	Create(ctx context.Context, campaign *Campaign) error
	// GetByID loads the campaign with the content of its current revision
	GetByID(ctx context.Context, id string) (*Campaign, error)
	List(ctx context.Context, filter CampaignFilter) ([]*Campaign, int, error)
	Update(ctx context.Context, campaign *Campaign) error
	Delete(ctx context.Context, id string) error
	// SaveRevision inserts the revision and points the campaign at it in one transaction
	SaveRevision(ctx context.Context, revision *Revision) error
	GetRevision(ctx context.Context, campaignID, revisionID string) (*Revision, error)
	ListRevisions(ctx context.Context, campaignID string, limit int) ([]*RevisionSummary, error)
	// PruneRevisions deletes all but the newest keep revisions of each
	// campaign. Current revisions are never deleted.
	PruneRevisions(ctx context.Context, keep int) (int64, error)
}
