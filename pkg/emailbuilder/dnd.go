package emailbuilder

import (
	"strconv"
	"strings"
)

const (
	// PalettePrefix marks a drag source that creates a new block
	PalettePrefix = "palette:"
	// CanvasTarget is the drop target id of the empty area below all blocks
	CanvasTarget = "canvas"

	columnTargetPrefix    = "column:"
	containerTargetPrefix = "container:"
)

// DropKind describes what a resolved drop did
type DropKind string

const (
	DropNone            DropKind = "none"
	DropInsertTopLevel  DropKind = "insert_top_level"
	DropInsertBefore    DropKind = "insert_before"
	DropInsertColumn    DropKind = "insert_column"
	DropInsertContainer DropKind = "insert_container"
	DropReorder         DropKind = "reorder"
)

// DropResult is the outcome of ResolveDrop
type DropResult struct {
	Applied bool     `json:"applied"`
	Kind    DropKind `json:"kind"`
	// BlockID is the id of the new or moved block
	BlockID string `json:"blockId,omitempty"`
}

// PaletteSource returns the drag source id for a palette item
func PaletteSource(t BlockType) string { return PalettePrefix + string(t) }

// IsPaletteSource reports whether a drag source id names a palette item
func IsPaletteSource(source string) bool { return strings.HasPrefix(source, PalettePrefix) }

// ColumnTarget returns the drop target id of one column slot
func ColumnTarget(columnsID string, index int) string {
	return columnTargetPrefix + columnsID + ":" + strconv.Itoa(index)
}

// ContainerTarget returns the drop target id of a container
func ContainerTarget(containerID string) string {
	return containerTargetPrefix + containerID
}

// ParseDropTarget classifies a drop target id against the current document.
// Target ids that name nothing in the document do not resolve.
func ParseDropTarget(doc Document, target string) (Location, bool) {
	switch {
	case target == CanvasTarget:
		return TopLevel(), true

	case strings.HasPrefix(target, columnTargetPrefix):
		rest := strings.TrimPrefix(target, columnTargetPrefix)
		sep := strings.LastIndex(rest, ":")
		if sep <= 0 {
			return Location{}, false
		}
		index, err := strconv.Atoi(rest[sep+1:])
		if err != nil {
			return Location{}, false
		}
		id := rest[:sep]
		idx := doc.TopLevelIndex(id)
		if idx < 0 {
			return Location{}, false
		}
		cols, ok := doc.Blocks[idx].Data.(ColumnsData)
		if !ok || index < 0 || index >= len(cols.Columns) {
			return Location{}, false
		}
		return ColumnSlot(id, index), true

	case strings.HasPrefix(target, containerTargetPrefix):
		id := strings.TrimPrefix(target, containerTargetPrefix)
		idx := doc.TopLevelIndex(id)
		if idx < 0 {
			return Location{}, false
		}
		if _, ok := doc.Blocks[idx].Data.(ContainerData); !ok {
			return Location{}, false
		}
		return InContainer(id), true

	case target != "":
		if doc.TopLevelIndex(target) < 0 {
			return Location{}, false
		}
		return TopLevelBefore(target), true
	}

	return Location{}, false
}

// BeginDrag records the id being dragged
func (s *EditingSession) BeginDrag(source string) {
	s.DraggingID = source
}

// CancelDrag abandons the current drag without touching the document
func (s *EditingSession) CancelDrag() {
	s.DraggingID = ""
}

// ResolveDrop applies a drag gesture to the session. Palette items are
// inserted at the target and selected; an existing top-level block dropped
// onto another top-level block is moved to that block's index. Every other
// combination, including unresolvable targets, leaves the document as it was.
func (s *EditingSession) ResolveDrop(source, target string) DropResult {
	defer s.CancelDrag()

	loc, ok := ParseDropTarget(s.Document, target)
	if !ok {
		return DropResult{Kind: DropNone}
	}

	if IsPaletteSource(source) {
		t := BlockType(strings.TrimPrefix(source, PalettePrefix))
		id, added := s.AddBlock(t, loc)
		if !added {
			return DropResult{Kind: DropNone}
		}
		return DropResult{Applied: true, Kind: insertKind(loc), BlockID: id}
	}

	from := s.Document.TopLevelIndex(source)
	if from < 0 || loc.Kind != LocationTopLevelBefore || loc.BeforeID == source {
		return DropResult{Kind: DropNone}
	}
	to := s.Document.TopLevelIndex(loc.BeforeID)
	if !s.ReorderTopLevel(from, to) {
		return DropResult{Kind: DropNone}
	}
	return DropResult{Applied: true, Kind: DropReorder, BlockID: source}
}

func insertKind(loc Location) DropKind {
	switch loc.Kind {
	case LocationTopLevelBefore:
		return DropInsertBefore
	case LocationColumnSlot:
		return DropInsertColumn
	case LocationContainer:
		return DropInsertContainer
	default:
		return DropInsertTopLevel
	}
}
