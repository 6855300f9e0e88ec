package emailbuilder

import (
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// DocumentError lists every structural problem found in a document
type DocumentError struct {
	Issues []string
}

func (e *DocumentError) Error() string {
	return "invalid document: " + strings.Join(e.Issues, "; ")
}

// ValidateDocument checks the structural invariants of a document:
// known block types, non-empty and globally unique ids, matching data
// variants, column slot counts, and the one-level nesting limit
func ValidateDocument(doc Document) error {
	var issues []string
	seen := make(map[string]struct{})

	check := func(b Block, where string) {
		if !b.Type.IsValid() {
			issues = append(issues, fmt.Sprintf("%s: unknown block type %q", where, b.Type))
			return
		}
		if b.ID == "" {
			issues = append(issues, fmt.Sprintf("%s: empty block id", where))
		} else if _, dup := seen[b.ID]; dup {
			issues = append(issues, fmt.Sprintf("%s: duplicate block id %q", where, b.ID))
		} else {
			seen[b.ID] = struct{}{}
		}
		if b.Data == nil {
			issues = append(issues, fmt.Sprintf("%s: missing data", where))
			return
		}
		if b.Data.BlockType() != b.Type {
			issues = append(issues, fmt.Sprintf("%s: %s block carries %s data", where, b.Type, b.Data.BlockType()))
		}
	}

	for i, b := range doc.Blocks {
		where := fmt.Sprintf("blocks[%d]", i)
		check(b, where)

		switch data := b.Data.(type) {
		case ColumnsData:
			if data.ColumnCount < MinColumnCount || data.ColumnCount > MaxColumnCount {
				issues = append(issues, fmt.Sprintf("%s: column count %d out of range", where, data.ColumnCount))
			}
			if len(data.Columns) != data.ColumnCount {
				issues = append(issues, fmt.Sprintf("%s: %d column slots for column count %d", where, len(data.Columns), data.ColumnCount))
			}
			for c, slot := range data.Columns {
				for j, child := range slot {
					childWhere := fmt.Sprintf("%s.columns[%d][%d]", where, c, j)
					check(child, childWhere)
					if child.Type.IsLayout() {
						issues = append(issues, fmt.Sprintf("%s: %s cannot be nested", childWhere, child.Type))
					}
				}
			}
		case ContainerData:
			for j, child := range data.Children {
				childWhere := fmt.Sprintf("%s.children[%d]", where, j)
				check(child, childWhere)
				if child.Type.IsLayout() {
					issues = append(issues, fmt.Sprintf("%s: %s cannot be nested", childWhere, child.Type))
				}
			}
		}
	}

	if len(issues) > 0 {
		return &DocumentError{Issues: issues}
	}
	return nil
}

// IDReassignment records one id replaced by RepairDocument
type IDReassignment struct {
	Path  string `json:"path"`
	OldID string `json:"oldId"`
	NewID string `json:"newId"`
}

// RepairReport describes what RepairDocument changed
type RepairReport struct {
	ReassignedIDs     []IDReassignment `json:"reassignedIds,omitempty"`
	NormalizedColumns []string         `json:"normalizedColumns,omitempty"`
	FilledData        []string         `json:"filledData,omitempty"`
	DroppedBlocks     []string         `json:"droppedBlocks,omitempty"`
}

// Changed reports whether the repair modified the document
func (r RepairReport) Changed() bool {
	return len(r.ReassignedIDs) > 0 || len(r.NormalizedColumns) > 0 || len(r.FilledData) > 0 ||
		len(r.DroppedBlocks) > 0
}

// RepairDocument assigns fresh ids to blocks whose id is empty or already
// used earlier in document order, fills missing data with type defaults and
// brings Columns blocks back to a consistent slot count. Blocks in slots
// past MaxColumnCount are removed and listed in DroppedBlocks.
//
// Replacement ids derive from the block's position in the tree, so the
// result depends only on the input. Repairing a repaired document is a no-op.
func RepairDocument(doc Document) (Document, RepairReport) {
	var report RepairReport
	out := cloneDocument(doc)

	// overflow slots go first so their blocks never claim an id
	for i := range out.Blocks {
		data, ok := out.Blocks[i].Data.(ColumnsData)
		if !ok || len(data.Columns) <= MaxColumnCount {
			continue
		}
		for _, slot := range data.Columns[MaxColumnCount:] {
			report.DroppedBlocks = append(report.DroppedBlocks, subtreeIDs(slot)...)
		}
		data.Columns = data.Columns[:MaxColumnCount]
		out.Blocks[i].Data = data
	}

	// ids that survive are the first occurrence of every non-empty id
	kept := make(map[string]struct{})
	survivors := make(map[string]struct{})
	out.Walk(func(b Block, path BlockPath) {
		if b.ID == "" {
			return
		}
		if _, dup := kept[b.ID]; dup {
			return
		}
		kept[b.ID] = struct{}{}
		survivors[pathKey(path)] = struct{}{}
	})

	used := make(map[string]struct{}, len(kept))
	for id := range kept {
		used[id] = struct{}{}
	}

	fix := func(b *Block, key string) {
		if _, ok := survivors[key]; !ok {
			newID := derivedID(key, used)
			used[newID] = struct{}{}
			report.ReassignedIDs = append(report.ReassignedIDs, IDReassignment{Path: key, OldID: b.ID, NewID: newID})
			b.ID = newID
		}
		if b.Data == nil && b.Type.IsValid() {
			b.Data = DefaultData(b.Type)
			report.FilledData = append(report.FilledData, b.ID)
		}
	}

	for i := range out.Blocks {
		top := &out.Blocks[i]
		fix(top, pathKey(BlockPath{TopIndex: i, ColumnIndex: -1, ChildIndex: -1}))

		switch data := top.Data.(type) {
		case ColumnsData:
			count := clampColumnCount(max(data.ColumnCount, len(data.Columns)))
			if count != data.ColumnCount || len(data.Columns) != count || hasNilSlot(data.Columns) {
				data.ColumnCount = count
				data.Columns = resizeSlots(data.Columns, count)
				report.NormalizedColumns = append(report.NormalizedColumns, top.ID)
			}
			for c := range data.Columns {
				for j := range data.Columns[c] {
					fix(&data.Columns[c][j], pathKey(BlockPath{TopIndex: i, ParentID: top.ID, ColumnIndex: c, ChildIndex: j}))
				}
			}
			top.Data = data
		case ContainerData:
			if data.Children == nil {
				data.Children = []Block{}
			}
			for j := range data.Children {
				fix(&data.Children[j], pathKey(BlockPath{TopIndex: i, ParentID: top.ID, ColumnIndex: -1, ChildIndex: j}))
			}
			top.Data = data
		}
	}

	if out.Blocks == nil {
		out.Blocks = []Block{}
	}
	return out, report
}

func subtreeIDs(blocks []Block) []string {
	var ids []string
	for _, b := range blocks {
		ids = append(ids, b.ID)
		switch data := b.Data.(type) {
		case ContainerData:
			ids = append(ids, subtreeIDs(data.Children)...)
		case ColumnsData:
			for _, slot := range data.Columns {
				ids = append(ids, subtreeIDs(slot)...)
			}
		}
	}
	return ids
}

// pathKey renders a position as "3", "3/c1/0" or "3/k/2". Nested keys use
// the top-level index, never the parent id, which may itself be repaired.
func pathKey(p BlockPath) string {
	if p.ChildIndex < 0 {
		return fmt.Sprintf("%d", p.TopIndex)
	}
	if p.ColumnIndex >= 0 {
		return fmt.Sprintf("%d/c%d/%d", p.TopIndex, p.ColumnIndex, p.ChildIndex)
	}
	return fmt.Sprintf("%d/k/%d", p.TopIndex, p.ChildIndex)
}

func derivedID(key string, used map[string]struct{}) string {
	sum := blake2b.Sum256([]byte("block:" + key))
	base := "blk_" + hex.EncodeToString(sum[:])[:BlockIDLength]
	candidate := base
	for n := 2; ; n++ {
		if _, taken := used[candidate]; !taken {
			return candidate
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}

func clampColumnCount(n int) int {
	if n < MinColumnCount {
		return MinColumnCount
	}
	if n > MaxColumnCount {
		return MaxColumnCount
	}
	return n
}

func hasNilSlot(slots [][]Block) bool {
	for _, s := range slots {
		if s == nil {
			return true
		}
	}
	return false
}

func cloneDocument(doc Document) Document {
	out := Document{Blocks: make([]Block, len(doc.Blocks))}
	if doc.Settings != nil {
		s := *doc.Settings
		out.Settings = &s
	}
	for i, b := range doc.Blocks {
		b.Style = b.Style.Clone()
		if b.Data != nil {
			b.Data = cloneNestedData(b.Data)
		}
		out.Blocks[i] = b
	}
	return out
}

func cloneNestedData(data BlockData) BlockData {
	switch v := data.(type) {
	case ColumnsData:
		v = cloneColumnsData(v)
		for c := range v.Columns {
			for j := range v.Columns[c] {
				v.Columns[c][j].Style = v.Columns[c][j].Style.Clone()
			}
		}
		return v
	case ContainerData:
		v = cloneContainerData(v)
		for j := range v.Children {
			v.Children[j].Style = v.Children[j].Style.Clone()
		}
		return v
	default:
		return cloneBlockData(data)
	}
}
