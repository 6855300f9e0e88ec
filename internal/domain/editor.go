package domain

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Notifuse/campaign-builder/pkg/emailbuilder"
)

//go:generate mockgen -destination mocks/mock_editor_service.go -package mocks github.com/Notifuse/campaign-builder/internal/domain EditorService

// MaxEditOperations bounds one apply request
const MaxEditOperations = 100

type EditOp string

const (
	EditOpAdd            EditOp = "add"
	EditOpUpdate         EditOp = "update"
	EditOpUpdateStyle    EditOp = "updateStyle"
	EditOpDelete         EditOp = "delete"
	EditOpReorder        EditOp = "reorder"
	EditOpSetColumnCount EditOp = "setColumnCount"
	EditOpSetPaddingMode EditOp = "setPaddingMode"
	EditOpSetRadiusMode  EditOp = "setRadiusMode"
	EditOpSelect         EditOp = "select"
	EditOpClearSelection EditOp = "clearSelection"
)

// EditOperation is one editor command. Which fields are read depends on Op.
// Data of an update is a partial JSON object merged over the block's
// current data.
type EditOperation struct {
	Op        EditOp                   `json:"op"`
	BlockType emailbuilder.BlockType   `json:"block_type,omitempty"`
	Location  *emailbuilder.Location   `json:"location,omitempty"`
	BlockID   string                   `json:"block_id,omitempty"`
	Data      json.RawMessage          `json:"data,omitempty"`
	Style     *emailbuilder.BlockStyle `json:"style,omitempty"`
	From      int                      `json:"from,omitempty"`
	To        int                      `json:"to,omitempty"`
	Count     int                      `json:"count,omitempty"`
	Mode      emailbuilder.BoxMode     `json:"mode,omitempty"`
}

func (o *EditOperation) Validate() error {
	switch o.Op {
	case EditOpAdd:
		if !o.BlockType.IsValid() {
			return fmt.Errorf("add: unknown block type %q", o.BlockType)
		}
		if o.Location == nil {
			return fmt.Errorf("add: location is required")
		}
	case EditOpUpdate:
		if o.BlockID == "" {
			return fmt.Errorf("update: block_id is required")
		}
		if len(o.Data) == 0 && o.Style == nil {
			return fmt.Errorf("update: data or style is required")
		}
	case EditOpUpdateStyle, EditOpDelete, EditOpSelect:
		if o.BlockID == "" {
			return fmt.Errorf("%s: block_id is required", o.Op)
		}
	case EditOpSetColumnCount:
		if o.BlockID == "" {
			return fmt.Errorf("setColumnCount: block_id is required")
		}
		if o.Count < 1 || o.Count > 3 {
			return fmt.Errorf("setColumnCount: count must be between 1 and 3")
		}
	case EditOpSetPaddingMode, EditOpSetRadiusMode:
		if o.BlockID == "" {
			return fmt.Errorf("%s: block_id is required", o.Op)
		}
		if o.Mode != emailbuilder.BoxModeUniform && o.Mode != emailbuilder.BoxModeIndividual {
			return fmt.Errorf("%s: mode must be uniform or individual", o.Op)
		}
	case EditOpReorder, EditOpClearSelection:
	default:
		return fmt.Errorf("unknown operation %q", o.Op)
	}
	return nil
}

// ApplyEditsRequest replays operations on a document in order
type ApplyEditsRequest struct {
	Document   emailbuilder.Document `json:"document"`
	SelectedID string                `json:"selected_id,omitempty"`
	Operations []EditOperation       `json:"operations"`
}

func (r *ApplyEditsRequest) Validate() error {
	if len(r.Operations) == 0 {
		return fmt.Errorf("invalid apply edits request: operations are required")
	}
	if len(r.Operations) > MaxEditOperations {
		return fmt.Errorf("invalid apply edits request: at most %d operations are allowed", MaxEditOperations)
	}
	for i := range r.Operations {
		if err := r.Operations[i].Validate(); err != nil {
			return fmt.Errorf("invalid apply edits request: operation %d: %w", i, err)
		}
	}
	return nil
}

// ApplyEditsResponse reports per operation whether it changed anything.
// Operations that do not resolve are skipped, not errors.
type ApplyEditsResponse struct {
	Document   emailbuilder.Document `json:"document"`
	SelectedID string                `json:"selected_id,omitempty"`
	Applied    []bool                `json:"applied"`
	CreatedIDs []string              `json:"created_ids,omitempty"`
	// Repair is set when the incoming document had to be repaired first
	Repair *emailbuilder.RepairReport `json:"repair,omitempty"`
}

type DropRequest struct {
	Document emailbuilder.Document `json:"document"`
	Source   string                `json:"source"`
	Target   string                `json:"target"`
}

func (r *DropRequest) Validate() error {
	if r.Source == "" {
		return fmt.Errorf("invalid drop request: source is required")
	}
	if r.Target == "" {
		return fmt.Errorf("invalid drop request: target is required")
	}
	return nil
}

type DropResponse struct {
	Document   emailbuilder.Document      `json:"document"`
	SelectedID string                     `json:"selected_id,omitempty"`
	Result     emailbuilder.DropResult    `json:"result"`
	Repair     *emailbuilder.RepairReport `json:"repair,omitempty"`
}

type DocumentRequest struct {
	Document emailbuilder.Document `json:"document"`
}

type ExportResponse struct {
	HTML        string   `json:"html"`
	Checksum    string   `json:"checksum"`
	Valid       bool     `json:"valid"`
	Reasons     []string `json:"reasons,omitempty"`
	StyleIssues []string `json:"style_issues,omitempty"`
	Cached      bool     `json:"cached"`
}

type ExportMJMLResponse struct {
	MJML string `json:"mjml"`
	HTML string `json:"html"`
}

// ValidateRequest checks either raw HTML or a document, which is exported first
type ValidateRequest struct {
	HTML     string                 `json:"html,omitempty"`
	Document *emailbuilder.Document `json:"document,omitempty"`
}

func (r *ValidateRequest) Validate() error {
	if r.HTML == "" && r.Document == nil {
		return fmt.Errorf("invalid validate request: html or document is required")
	}
	return nil
}

type ValidateResponse struct {
	Valid          bool     `json:"valid"`
	Reasons        []string `json:"reasons,omitempty"`
	DocumentIssues []string `json:"document_issues,omitempty"`
	StyleIssues    []string `json:"style_issues,omitempty"`
}

type RepairResponse struct {
	Document emailbuilder.Document     `json:"document"`
	Report   emailbuilder.RepairReport `json:"report"`
	Changed  bool                      `json:"changed"`
}

// EditorService runs editing commands and exports on client-held documents
type EditorService interface {
	ApplyEdits(ctx context.Context, req *ApplyEditsRequest) (*ApplyEditsResponse, error)
	Drop(ctx context.Context, req *DropRequest) (*DropResponse, error)
	Export(ctx context.Context, doc emailbuilder.Document) (*ExportResponse, error)
	ExportMJML(ctx context.Context, doc emailbuilder.Document) (*ExportMJMLResponse, error)
	Validate(ctx context.Context, req *ValidateRequest) (*ValidateResponse, error)
	Repair(ctx context.Context, doc emailbuilder.Document) (*RepairResponse, error)
	Palette(ctx context.Context) []emailbuilder.PaletteItem
}
