package service

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/singleflight"

	"github.com/Notifuse/campaign-builder/internal/domain"
	"github.com/Notifuse/campaign-builder/pkg/cache"
	"github.com/Notifuse/campaign-builder/pkg/emailbuilder"
	"github.com/Notifuse/campaign-builder/pkg/logger"
	"github.com/Notifuse/campaign-builder/pkg/tracing"
)

const exportCachePrefix = "export:v1:"

// HTMLChecksum is the hex blake2b-256 digest of exported markup
func HTMLChecksum(html string) string {
	sum := blake2b.Sum256([]byte(html))
	return hex.EncodeToString(sum[:])
}

func documentCacheKey(doc emailbuilder.Document) (string, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	sum := blake2b.Sum256(raw)
	return exportCachePrefix + hex.EncodeToString(sum[:]), nil
}

type EditorService struct {
	cache    cache.Cache
	cacheTTL time.Duration
	group    singleflight.Group
	logger   logger.Logger
	newID    emailbuilder.IDGenerator
}

// NewEditorService creates an editor service. Exports are cached for cacheTTL,
// zero keeps them until evicted.
func NewEditorService(c cache.Cache, cacheTTL time.Duration, logger logger.Logger) *EditorService {
	return &EditorService{
		cache:    c,
		cacheTTL: cacheTTL,
		logger:   logger,
		newID:    emailbuilder.NanoIDGenerator,
	}
}

// WithIDGenerator replaces the block id generator, used by tests
func (s *EditorService) WithIDGenerator(gen emailbuilder.IDGenerator) *EditorService {
	s.newID = gen
	return s
}

func (s *EditorService) ApplyEdits(ctx context.Context, req *domain.ApplyEditsRequest) (*domain.ApplyEditsResponse, error) {
	ctx, span := tracing.StartServiceSpan(ctx, "EditorService", "ApplyEdits")
	defer span.End()
	tracing.AddAttribute(ctx, "operations", len(req.Operations))

	doc, report := s.repairIncoming(req.Document)
	session := emailbuilder.NewEditingSession(doc, s.newID)
	session.SelectedID = req.SelectedID
	if req.SelectedID != "" && !doc.Contains(req.SelectedID) {
		session.ClearSelection()
	}

	resp := &domain.ApplyEditsResponse{Applied: make([]bool, len(req.Operations)), Repair: report}
	for i, op := range req.Operations {
		applied, created, err := s.applyOperation(session, op)
		if err != nil {
			tracing.MarkSpanError(ctx, err)
			return nil, domain.NewValidationError(fmt.Sprintf("operation %d: %v", i, err))
		}
		resp.Applied[i] = applied
		if created != "" {
			resp.CreatedIDs = append(resp.CreatedIDs, created)
		}
	}

	resp.Document = session.Document
	resp.SelectedID = session.SelectedID
	return resp, nil
}

func (s *EditorService) applyOperation(session *emailbuilder.EditingSession, op domain.EditOperation) (bool, string, error) {
	switch op.Op {
	case domain.EditOpAdd:
		id, ok := session.AddBlock(op.BlockType, *op.Location)
		return ok, id, nil
	case domain.EditOpUpdate:
		block, _, found := session.Document.FindBlock(op.BlockID)
		if !found {
			return false, "", nil
		}
		data := block.Data
		if data == nil {
			data = emailbuilder.DefaultData(block.Type)
		}
		if len(op.Data) > 0 {
			patched, err := emailbuilder.PatchBlockData(data, op.Data)
			if err != nil {
				return false, "", fmt.Errorf("invalid data for %s block: %w", block.Type, err)
			}
			data = patched
		}
		return session.UpdateBlockData(op.BlockID, data, op.Style), "", nil
	case domain.EditOpUpdateStyle:
		return session.UpdateBlockStyle(op.BlockID, op.Style), "", nil
	case domain.EditOpDelete:
		return session.DeleteBlock(op.BlockID), "", nil
	case domain.EditOpReorder:
		return session.ReorderTopLevel(op.From, op.To), "", nil
	case domain.EditOpSetColumnCount:
		return session.SetColumnCount(op.BlockID, op.Count), "", nil
	case domain.EditOpSetPaddingMode:
		return session.SetPaddingMode(op.BlockID, op.Mode), "", nil
	case domain.EditOpSetRadiusMode:
		return session.SetRadiusMode(op.BlockID, op.Mode), "", nil
	case domain.EditOpSelect:
		return session.Select(op.BlockID), "", nil
	case domain.EditOpClearSelection:
		session.ClearSelection()
		return true, "", nil
	}
	return false, "", fmt.Errorf("unknown operation %q", op.Op)
}

func (s *EditorService) Drop(ctx context.Context, req *domain.DropRequest) (*domain.DropResponse, error) {
	_, span := tracing.StartServiceSpan(ctx, "EditorService", "Drop")
	defer span.End()

	doc, report := s.repairIncoming(req.Document)
	session := emailbuilder.NewEditingSession(doc, s.newID)
	session.BeginDrag(req.Source)
	result := session.ResolveDrop(req.Source, req.Target)

	return &domain.DropResponse{
		Document:   session.Document,
		SelectedID: session.SelectedID,
		Result:     result,
		Repair:     report,
	}, nil
}

// Export renders the document to email HTML. Results are cached by document
// hash and concurrent exports of the same document share one render.
func (s *EditorService) Export(ctx context.Context, doc emailbuilder.Document) (*domain.ExportResponse, error) {
	started := time.Now()
	ctx, span := tracing.StartServiceSpan(ctx, "EditorService", "Export")
	defer span.End()

	doc, _ = s.repairIncoming(doc)
	if err := emailbuilder.ValidateDocument(doc); err != nil {
		return nil, documentValidationError(err)
	}

	key, err := documentCacheKey(doc)
	if err != nil {
		tracing.MarkSpanError(ctx, err)
		return nil, fmt.Errorf("failed to hash document: %w", err)
	}

	html, hit := s.cachedExport(ctx, key)
	if !hit {
		v, _, _ := s.group.Do(key, func() (interface{}, error) {
			out := emailbuilder.ExportHTML(doc)
			if s.cache != nil {
				if err := s.cache.Set(ctx, key, []byte(out), s.cacheTTL); err != nil {
					s.logger.WithField("error", err.Error()).Warn("Failed to cache export")
				}
			}
			return out, nil
		})
		html = v.(string)
	}
	tracing.RecordExport(ctx, started, hit)
	tracing.AddAttribute(ctx, "cache_hit", hit)

	validation := emailbuilder.ValidateSpamFreeHTML(html)
	return &domain.ExportResponse{
		HTML:        html,
		Checksum:    HTMLChecksum(html),
		Valid:       validation.Valid,
		Reasons:     validation.Reasons,
		StyleIssues: emailbuilder.InlineStyleIssues(html),
		Cached:      hit,
	}, nil
}

func (s *EditorService) cachedExport(ctx context.Context, key string) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	raw, found, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.WithField("error", err.Error()).Warn("Failed to read export cache")
		return "", false
	}
	if !found {
		return "", false
	}
	return string(raw), true
}

func (s *EditorService) ExportMJML(ctx context.Context, doc emailbuilder.Document) (*domain.ExportMJMLResponse, error) {
	ctx, span := tracing.StartServiceSpan(ctx, "EditorService", "ExportMJML")
	defer span.End()

	doc, _ = s.repairIncoming(doc)
	if err := emailbuilder.ValidateDocument(doc); err != nil {
		return nil, documentValidationError(err)
	}

	source, html, err := emailbuilder.CompileMJML(ctx, doc)
	if err != nil {
		tracing.MarkSpanError(ctx, err)
		s.logger.WithField("error", err.Error()).Error("Failed to compile MJML")
		return nil, err
	}
	return &domain.ExportMJMLResponse{MJML: source, HTML: html}, nil
}

func (s *EditorService) Validate(ctx context.Context, req *domain.ValidateRequest) (*domain.ValidateResponse, error) {
	ctx, span := tracing.StartServiceSpan(ctx, "EditorService", "Validate")
	defer span.End()

	resp := &domain.ValidateResponse{}
	html := req.HTML

	if req.Document != nil {
		if err := emailbuilder.ValidateDocument(*req.Document); err != nil {
			var docErr *emailbuilder.DocumentError
			if !errors.As(err, &docErr) {
				return nil, err
			}
			resp.DocumentIssues = docErr.Issues
			return resp, nil
		}
		exported, err := s.Export(ctx, *req.Document)
		if err != nil {
			return nil, err
		}
		html = exported.HTML
	}

	result := emailbuilder.ValidateSpamFreeHTML(html)
	resp.Valid = result.Valid
	resp.Reasons = result.Reasons
	resp.StyleIssues = emailbuilder.InlineStyleIssues(html)
	return resp, nil
}

func (s *EditorService) Repair(ctx context.Context, doc emailbuilder.Document) (*domain.RepairResponse, error) {
	_, span := tracing.StartServiceSpan(ctx, "EditorService", "Repair")
	defer span.End()

	repaired, report := emailbuilder.RepairDocument(doc)
	if report.Changed() {
		logRepair(s.logger, "", report)
	}
	return &domain.RepairResponse{Document: repaired, Report: report, Changed: report.Changed()}, nil
}

// repairIncoming fixes a client document before any tree operation sees it.
// The report is nil when nothing changed.
func (s *EditorService) repairIncoming(doc emailbuilder.Document) (emailbuilder.Document, *emailbuilder.RepairReport) {
	repaired, report := emailbuilder.RepairDocument(doc)
	if !report.Changed() {
		return repaired, nil
	}
	logRepair(s.logger, "", report)
	return repaired, &report
}

func (s *EditorService) Palette(_ context.Context) []emailbuilder.PaletteItem {
	return emailbuilder.Palette()
}

func documentValidationError(err error) error {
	var docErr *emailbuilder.DocumentError
	if errors.As(err, &docErr) {
		return domain.NewValidationError(docErr.Error())
	}
	return err
}

func logRepair(log logger.Logger, campaignID string, report emailbuilder.RepairReport) {
	fields := map[string]interface{}{
		"reassigned_ids":     len(report.ReassignedIDs),
		"normalized_columns": len(report.NormalizedColumns),
		"filled_data":        len(report.FilledData),
	}
	if len(report.DroppedBlocks) > 0 {
		fields["dropped_blocks"] = report.DroppedBlocks
	}
	if campaignID != "" {
		fields["campaign_id"] = campaignID
	}
	log.WithFields(fields).Warn("Document repaired")
}
