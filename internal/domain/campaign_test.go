package domain_test

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Notifuse/campaign-builder/internal/domain"
)

const testID = "7b0e8d42-1c3a-4f5e-9b6d-2a4c6e8f0a1b"

func strPtr(s string) *string { return &s }

func TestCampaign_Validate(t *testing.T) {
	valid := func() domain.Campaign {
		return domain.Campaign{ID: testID, Name: "Spring", Status: domain.CampaignStatusDraft}
	}

	tests := []struct {
		name    string
		mutate  func(c *domain.Campaign)
		wantErr string
	}{
		{name: "valid", mutate: func(c *domain.Campaign) {}},
		{name: "missing id", mutate: func(c *domain.Campaign) { c.ID = "" }, wantErr: "id is required"},
		{name: "blank name", mutate: func(c *domain.Campaign) { c.Name = "   " }, wantErr: "name is required"},
		{name: "long name", mutate: func(c *domain.Campaign) { c.Name = strings.Repeat("a", 256) }, wantErr: "name length"},
		{name: "long subject", mutate: func(c *domain.Campaign) { c.Subject = strings.Repeat("a", 256) }, wantErr: "subject length"},
		{name: "bad status", mutate: func(c *domain.Campaign) { c.Status = "sent" }, wantErr: "invalid status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestRevision_Summary(t *testing.T) {
	created := time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)
	rev := domain.Revision{
		ID:           "r1",
		CampaignID:   testID,
		RenderedHTML: "<html></html>",
		Checksum:     "abc",
		CreatedBy:    "u1",
		CreatedAt:    created,
	}

	assert.Equal(t, &domain.RevisionSummary{
		ID:         "r1",
		CampaignID: testID,
		Checksum:   "abc",
		HTMLSize:   13,
		CreatedBy:  "u1",
		CreatedAt:  created,
	}, rev.Summary())
}

func TestListCampaignsRequest_FromURLParams(t *testing.T) {
	tests := []struct {
		name    string
		query   url.Values
		want    domain.CampaignFilter
		wantErr bool
	}{
		{
			name:  "defaults",
			query: url.Values{},
			want:  domain.CampaignFilter{Limit: domain.DefaultListLimit},
		},
		{
			name:  "all params",
			query: url.Values{"status": {"ready"}, "search": {" launch "}, "limit": {"10"}, "offset": {"20"}},
			want:  domain.CampaignFilter{Status: domain.CampaignStatusReady, Search: "launch", Limit: 10, Offset: 20},
		},
		{name: "bad status", query: url.Values{"status": {"sent"}}, wantErr: true},
		{name: "non numeric limit", query: url.Values{"limit": {"ten"}}, wantErr: true},
		{name: "limit too large", query: url.Values{"limit": {"500"}}, wantErr: true},
		{name: "negative offset", query: url.Values{"offset": {"-1"}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req domain.ListCampaignsRequest
			err := req.FromURLParams(tt.query)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, req.Filter())
		})
	}
}

func TestGetCampaignRequest_FromURLParams(t *testing.T) {
	var req domain.GetCampaignRequest
	assert.NoError(t, req.FromURLParams(url.Values{"id": {testID}}))
	assert.Equal(t, testID, req.ID)

	assert.Error(t, req.FromURLParams(url.Values{}))
	assert.Error(t, req.FromURLParams(url.Values{"id": {"42"}}))
}

func TestCreateCampaignRequest_Validate(t *testing.T) {
	assert.NoError(t, (&domain.CreateCampaignRequest{Name: "Spring"}).Validate())
	assert.Error(t, (&domain.CreateCampaignRequest{Name: " "}).Validate())
	assert.Error(t, (&domain.CreateCampaignRequest{Name: "a", Subject: strings.Repeat("s", 300)}).Validate())
}

func TestUpdateCampaignRequest(t *testing.T) {
	ready := domain.CampaignStatusReady
	bogus := domain.CampaignStatus("bogus")

	tests := []struct {
		name    string
		req     domain.UpdateCampaignRequest
		wantErr string
	}{
		{name: "name only", req: domain.UpdateCampaignRequest{ID: testID, Name: strPtr("New")}},
		{name: "status only", req: domain.UpdateCampaignRequest{ID: testID, Status: &ready}},
		{name: "missing id", req: domain.UpdateCampaignRequest{Name: strPtr("New")}, wantErr: "id is required"},
		{name: "bad id", req: domain.UpdateCampaignRequest{ID: "x", Name: strPtr("New")}, wantErr: "valid UUID"},
		{name: "nothing", req: domain.UpdateCampaignRequest{ID: testID}, wantErr: "nothing to update"},
		{name: "blank name", req: domain.UpdateCampaignRequest{ID: testID, Name: strPtr(" ")}, wantErr: "name length"},
		{name: "bad status", req: domain.UpdateCampaignRequest{ID: testID, Status: &bogus}, wantErr: "invalid status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}

	t.Run("apply keeps unset fields", func(t *testing.T) {
		c := &domain.Campaign{Name: "Old", Subject: "Hello", Status: domain.CampaignStatusDraft}
		req := domain.UpdateCampaignRequest{ID: testID, Name: strPtr("  New  "), Status: &ready}
		req.Apply(c)
		assert.Equal(t, "New", c.Name)
		assert.Equal(t, "Hello", c.Subject)
		assert.Equal(t, domain.CampaignStatusReady, c.Status)
	})
}

func TestIDOnlyRequests_Validate(t *testing.T) {
	assert.NoError(t, (&domain.DeleteCampaignRequest{ID: testID}).Validate())
	assert.Error(t, (&domain.DeleteCampaignRequest{}).Validate())
	assert.NoError(t, (&domain.SaveCampaignRequest{ID: testID}).Validate())
	assert.Error(t, (&domain.SaveCampaignRequest{ID: "nope"}).Validate())

	assert.NoError(t, (&domain.PreviewCampaignRequest{ID: testID}).Validate())
	assert.NoError(t, (&domain.PreviewCampaignRequest{ID: testID, RevisionID: testID}).Validate())
	assert.Error(t, (&domain.PreviewCampaignRequest{ID: testID, RevisionID: "latest"}).Validate())
}

func TestListRevisionsRequest_FromURLParams(t *testing.T) {
	var req domain.ListRevisionsRequest
	require.NoError(t, req.FromURLParams(url.Values{"campaign_id": {testID}}))
	assert.Equal(t, domain.DefaultRevisionList, req.Limit)

	assert.Error(t, req.FromURLParams(url.Values{}))
	assert.Error(t, req.FromURLParams(url.Values{"campaign_id": {testID}, "limit": {"0"}}))
}

func TestSendTestEmailRequest_Validate(t *testing.T) {
	many := make([]string, domain.MaxTestRecipients+1)
	for i := range many {
		many[i] = "qa@example.com"
	}

	tests := []struct {
		name    string
		req     domain.SendTestEmailRequest
		wantErr string
	}{
		{name: "valid", req: domain.SendTestEmailRequest{ID: testID, Recipients: []string{"qa@example.com"}}},
		{name: "no recipients", req: domain.SendTestEmailRequest{ID: testID}, wantErr: "at least one recipient"},
		{name: "too many", req: domain.SendTestEmailRequest{ID: testID, Recipients: many}, wantErr: "at most 10"},
		{name: "bad email", req: domain.SendTestEmailRequest{ID: testID, Recipients: []string{"qa"}}, wantErr: "invalid email"},
		{name: "bad id", req: domain.SendTestEmailRequest{ID: "1", Recipients: []string{"qa@example.com"}}, wantErr: "valid UUID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
