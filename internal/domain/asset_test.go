package domain_test

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Notifuse/campaign-builder/internal/domain"
)

func TestUploadAssetRequest_Validate(t *testing.T) {
	tests := []struct {
		name     string
		req      domain.UploadAssetRequest
		filename string
		wantErr  string
	}{
		{
			name:     "valid",
			req:      domain.UploadAssetRequest{Filename: "hero.png", ContentType: "image/png", Data: []byte("x")},
			filename: "hero.png",
		},
		{
			name:     "path components are dropped",
			req:      domain.UploadAssetRequest{Filename: " ../../etc/hero.gif ", ContentType: "image/gif", Data: []byte("x")},
			filename: "hero.gif",
		},
		{
			name:     "pdf",
			req:      domain.UploadAssetRequest{Filename: "terms.pdf", ContentType: "application/pdf", Data: []byte("x")},
			filename: "terms.pdf",
		},
		{
			name:    "missing filename",
			req:     domain.UploadAssetRequest{ContentType: "image/png", Data: []byte("x")},
			wantErr: "filename is required",
		},
		{
			name:    "long filename",
			req:     domain.UploadAssetRequest{Filename: strings.Repeat("a", 256), ContentType: "image/png", Data: []byte("x")},
			wantErr: "filename length",
		},
		{
			name:    "svg",
			req:     domain.UploadAssetRequest{Filename: "logo.svg", ContentType: "image/svg+xml", Data: []byte("x")},
			wantErr: "unsupported content type",
		},
		{
			name:    "empty",
			req:     domain.UploadAssetRequest{Filename: "a.png", ContentType: "image/png"},
			wantErr: "file is empty",
		},
		{
			name:    "too large",
			req:     domain.UploadAssetRequest{Filename: "a.png", ContentType: "image/png", Data: make([]byte, 11)},
			wantErr: "exceeds the 10 bytes limit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			err := req.Validate(10)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				assert.True(t, domain.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.filename, req.Filename)
		})
	}
}

func TestListAssetsRequest_FromURLParams(t *testing.T) {
	var req domain.ListAssetsRequest
	require.NoError(t, req.FromURLParams(url.Values{"content_type": {"image/webp"}, "limit": {"5"}}))
	assert.Equal(t, domain.AssetFilter{ContentType: "image/webp", Limit: 5}, req.Filter())

	assert.Error(t, req.FromURLParams(url.Values{"content_type": {"image/svg+xml"}}))
	assert.Error(t, req.FromURLParams(url.Values{"offset": {"-3"}}))
}

func TestDeleteAssetRequest_Validate(t *testing.T) {
	assert.NoError(t, (&domain.DeleteAssetRequest{ID: testID}).Validate())
	assert.Error(t, (&domain.DeleteAssetRequest{}).Validate())
	assert.Error(t, (&domain.DeleteAssetRequest{ID: "hero.png"}).Validate())
}
