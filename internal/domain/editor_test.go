package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Notifuse/campaign-builder/internal/domain"
	"github.com/Notifuse/campaign-builder/pkg/emailbuilder"
)

func TestEditOperation_Validate(t *testing.T) {
	loc := emailbuilder.TopLevel()

	tests := []struct {
		name    string
		op      domain.EditOperation
		wantErr string
	}{
		{name: "add", op: domain.EditOperation{Op: domain.EditOpAdd, BlockType: emailbuilder.BlockTypeButton, Location: &loc}},
		{name: "add unknown type", op: domain.EditOperation{Op: domain.EditOpAdd, BlockType: "banner", Location: &loc}, wantErr: "unknown block type"},
		{name: "add without location", op: domain.EditOperation{Op: domain.EditOpAdd, BlockType: emailbuilder.BlockTypeButton}, wantErr: "location is required"},
		{name: "update", op: domain.EditOperation{Op: domain.EditOpUpdate, BlockID: "b1", Data: json.RawMessage(`{"text":"x"}`)}},
		{name: "update without payload", op: domain.EditOperation{Op: domain.EditOpUpdate, BlockID: "b1"}, wantErr: "data or style"},
		{name: "delete without id", op: domain.EditOperation{Op: domain.EditOpDelete}, wantErr: "block_id is required"},
		{name: "column count", op: domain.EditOperation{Op: domain.EditOpSetColumnCount, BlockID: "c1", Count: 3}},
		{name: "column count out of range", op: domain.EditOperation{Op: domain.EditOpSetColumnCount, BlockID: "c1", Count: 4}, wantErr: "between 1 and 3"},
		{name: "padding mode", op: domain.EditOperation{Op: domain.EditOpSetPaddingMode, BlockID: "b1", Mode: emailbuilder.BoxModeIndividual}},
		{name: "radius mode invalid", op: domain.EditOperation{Op: domain.EditOpSetRadiusMode, BlockID: "b1", Mode: "mixed"}, wantErr: "uniform or individual"},
		{name: "reorder", op: domain.EditOperation{Op: domain.EditOpReorder, From: 2, To: 0}},
		{name: "clear selection", op: domain.EditOperation{Op: domain.EditOpClearSelection}},
		{name: "unknown", op: domain.EditOperation{Op: "duplicate"}, wantErr: "unknown operation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.op.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestApplyEditsRequest_Validate(t *testing.T) {
	assert.ErrorContains(t, (&domain.ApplyEditsRequest{}).Validate(), "operations are required")

	tooMany := make([]domain.EditOperation, domain.MaxEditOperations+1)
	for i := range tooMany {
		tooMany[i] = domain.EditOperation{Op: domain.EditOpClearSelection}
	}
	assert.ErrorContains(t, (&domain.ApplyEditsRequest{Operations: tooMany}).Validate(), "at most 100")

	err := (&domain.ApplyEditsRequest{Operations: []domain.EditOperation{
		{Op: domain.EditOpClearSelection},
		{Op: domain.EditOpDelete},
	}}).Validate()
	assert.ErrorContains(t, err, "operation 1")
}

func TestDropRequest_Validate(t *testing.T) {
	assert.NoError(t, (&domain.DropRequest{Source: "b1", Target: "b2"}).Validate())
	assert.Error(t, (&domain.DropRequest{Target: "b2"}).Validate())
	assert.Error(t, (&domain.DropRequest{Source: "b1"}).Validate())
}

func TestValidateRequest_Validate(t *testing.T) {
	doc := emailbuilder.NewDocument()
	assert.NoError(t, (&domain.ValidateRequest{HTML: "<p>x</p>"}).Validate())
	assert.NoError(t, (&domain.ValidateRequest{Document: &doc}).Validate())
	assert.Error(t, (&domain.ValidateRequest{}).Validate())
}
