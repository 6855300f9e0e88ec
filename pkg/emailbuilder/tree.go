package emailbuilder

// LocationKind identifies the kind of slot a block lives in or is added to
type LocationKind string

const (
	LocationTopLevel       LocationKind = "top_level"
	LocationTopLevelBefore LocationKind = "top_level_before"
	LocationColumnSlot     LocationKind = "column_slot"
	LocationContainer      LocationKind = "container"
)

// Location addresses one ordered sequence of blocks in the tree
type Location struct {
	Kind        LocationKind `json:"kind"`
	ParentID    string       `json:"parentId,omitempty"`
	ColumnIndex int          `json:"columnIndex,omitempty"`
	BeforeID    string       `json:"beforeId,omitempty"`
}

// TopLevel appends to the end of the top-level sequence
func TopLevel() Location { return Location{Kind: LocationTopLevel} }

// TopLevelBefore inserts before the top-level block with the given id
func TopLevelBefore(id string) Location { return Location{Kind: LocationTopLevelBefore, BeforeID: id} }

// ColumnSlot appends to one slot of a Columns block
func ColumnSlot(columnsID string, index int) Location {
	return Location{Kind: LocationColumnSlot, ParentID: columnsID, ColumnIndex: index}
}

// InContainer appends to the children of a Container block
func InContainer(containerID string) Location {
	return Location{Kind: LocationContainer, ParentID: containerID}
}

// BlockPath records where a block was found
type BlockPath struct {
	// TopIndex is the index of the top-level block holding the match, or of
	// the match itself when it is top-level
	TopIndex int
	// ParentID is empty for top-level blocks
	ParentID string
	// ColumnIndex is the slot index for column children, -1 otherwise
	ColumnIndex int
	// ChildIndex is the index inside the parent's sequence, -1 for top-level
	ChildIndex int
}

// IsTopLevel reports whether the path points at a top-level block
func (p BlockPath) IsTopLevel() bool { return p.ParentID == "" }

// NewBlock builds a block of type t with the type's default data
func NewBlock(t BlockType, id string) Block {
	return Block{ID: id, Type: t, Data: DefaultData(t)}
}

// FindBlock looks up a block anywhere in the tree. Top-level blocks are
// searched first, then every column slot of every Columns block, then every
// Container's children.
func (d Document) FindBlock(id string) (Block, BlockPath, bool) {
	if id == "" {
		return Block{}, BlockPath{}, false
	}

	for i, b := range d.Blocks {
		if b.ID == id {
			return b, BlockPath{TopIndex: i, ColumnIndex: -1, ChildIndex: -1}, true
		}
	}

	for i, b := range d.Blocks {
		cols, ok := b.Data.(ColumnsData)
		if !ok {
			continue
		}
		for c, slot := range cols.Columns {
			for j, child := range slot {
				if child.ID == id {
					return child, BlockPath{TopIndex: i, ParentID: b.ID, ColumnIndex: c, ChildIndex: j}, true
				}
			}
		}
	}

	for i, b := range d.Blocks {
		cont, ok := b.Data.(ContainerData)
		if !ok {
			continue
		}
		for j, child := range cont.Children {
			if child.ID == id {
				return child, BlockPath{TopIndex: i, ParentID: b.ID, ColumnIndex: -1, ChildIndex: j}, true
			}
		}
	}

	return Block{}, BlockPath{}, false
}

// Contains reports whether a block with the given id exists anywhere in the tree
func (d Document) Contains(id string) bool {
	_, _, ok := d.FindBlock(id)
	return ok
}

// TopLevelIndex returns the index of a top-level block, or -1
func (d Document) TopLevelIndex(id string) int {
	for i, b := range d.Blocks {
		if b.ID == id {
			return i
		}
	}
	return -1
}

// Walk calls fn for every block in document order: each top-level block is
// followed by its nested blocks (slot by slot for Columns)
func (d Document) Walk(fn func(b Block, path BlockPath)) {
	for i, b := range d.Blocks {
		fn(b, BlockPath{TopIndex: i, ColumnIndex: -1, ChildIndex: -1})
		switch data := b.Data.(type) {
		case ColumnsData:
			for c, slot := range data.Columns {
				for j, child := range slot {
					fn(child, BlockPath{TopIndex: i, ParentID: b.ID, ColumnIndex: c, ChildIndex: j})
				}
			}
		case ContainerData:
			for j, child := range data.Children {
				fn(child, BlockPath{TopIndex: i, ParentID: b.ID, ColumnIndex: -1, ChildIndex: j})
			}
		}
	}
}

// CountBlocks returns the number of blocks at every depth
func (d Document) CountBlocks() int {
	n := 0
	d.Walk(func(Block, BlockPath) { n++ })
	return n
}

// InsertBlock places block at loc and returns the new document.
// It reports false and returns d unchanged when the location does not
// resolve, the id is empty or already used, or a layout block would end up
// nested.
func (d Document) InsertBlock(block Block, loc Location) (Document, bool) {
	if block.ID == "" || !block.Type.IsValid() || d.Contains(block.ID) {
		return d, false
	}
	if block.Data == nil {
		block.Data = DefaultData(block.Type)
	}

	switch loc.Kind {
	case LocationTopLevel:
		out := d.withBlocks(append(cloneBlocks(d.Blocks), block))
		return out, true

	case LocationTopLevelBefore:
		idx := d.TopLevelIndex(loc.BeforeID)
		if idx < 0 {
			return d, false
		}
		return d.withBlocks(insertAt(d.Blocks, idx, block)), true

	case LocationColumnSlot:
		if block.Type.IsLayout() {
			return d, false
		}
		idx := d.TopLevelIndex(loc.ParentID)
		if idx < 0 {
			return d, false
		}
		cols, ok := d.Blocks[idx].Data.(ColumnsData)
		if !ok || loc.ColumnIndex < 0 || loc.ColumnIndex >= len(cols.Columns) {
			return d, false
		}
		cols = cloneColumnsData(cols)
		cols.Columns[loc.ColumnIndex] = append(cols.Columns[loc.ColumnIndex], block)
		return d.replaceTopLevelData(idx, cols), true

	case LocationContainer:
		if block.Type.IsLayout() {
			return d, false
		}
		idx := d.TopLevelIndex(loc.ParentID)
		if idx < 0 {
			return d, false
		}
		cont, ok := d.Blocks[idx].Data.(ContainerData)
		if !ok {
			return d, false
		}
		cont = cloneContainerData(cont)
		cont.Children = append(cont.Children, block)
		return d.replaceTopLevelData(idx, cont), true
	}

	return d, false
}

// UpdateBlockData replaces the data, and the style when one is given, of the
// block with the given id. It is a no-op when the id is unknown, when the data
// variant does not match the block type, or when the new data would break a
// tree invariant.
func (d Document) UpdateBlockData(id string, data BlockData, style *BlockStyle) (Document, bool) {
	existing, path, ok := d.FindBlock(id)
	if !ok || data == nil || data.BlockType() != existing.Type {
		return d, false
	}
	if !path.IsTopLevel() && existing.Type.IsLayout() {
		return d, false
	}

	updated := existing
	updated.Data = cloneBlockData(data)
	if style != nil {
		updated.Style = style.Clone()
	}

	out := d.replaceAt(path, updated)
	if err := ValidateDocument(out); err != nil {
		return d, false
	}
	return out, true
}

// UpdateBlockStyle replaces only the style of a block
func (d Document) UpdateBlockStyle(id string, style *BlockStyle) (Document, bool) {
	existing, path, ok := d.FindBlock(id)
	if !ok {
		return d, false
	}
	updated := existing
	updated.Style = style.Clone()
	return d.replaceAt(path, updated), true
}

// DeleteBlock removes the block from the exact sequence holding it
func (d Document) DeleteBlock(id string) (Document, bool) {
	_, path, ok := d.FindBlock(id)
	if !ok {
		return d, false
	}

	if path.IsTopLevel() {
		return d.withBlocks(removeAt(d.Blocks, path.TopIndex)), true
	}

	parent := d.Blocks[path.TopIndex]
	switch data := parent.Data.(type) {
	case ColumnsData:
		data = cloneColumnsData(data)
		data.Columns[path.ColumnIndex] = removeAt(data.Columns[path.ColumnIndex], path.ChildIndex)
		return d.replaceTopLevelData(path.TopIndex, data), true
	case ContainerData:
		data = cloneContainerData(data)
		data.Children = removeAt(data.Children, path.ChildIndex)
		return d.replaceTopLevelData(path.TopIndex, data), true
	}
	return d, false
}

// ReorderTopLevel moves the top-level block at from so that it ends up at
// index to
func (d Document) ReorderTopLevel(from, to int) (Document, bool) {
	n := len(d.Blocks)
	if from < 0 || from >= n || to < 0 || to >= n {
		return d, false
	}
	if from == to {
		return d, true
	}
	moved := d.Blocks[from]
	rest := removeAt(d.Blocks, from)
	return d.withBlocks(insertAt(rest, to, moved)), true
}

// SetColumnCount resizes the slot array of a Columns block. Slots that still
// exist keep their blocks, new slots start empty, and blocks in slots past
// the new count are discarded.
func (d Document) SetColumnCount(id string, count int) (Document, bool) {
	if count < MinColumnCount || count > MaxColumnCount {
		return d, false
	}
	idx := d.TopLevelIndex(id)
	if idx < 0 {
		return d, false
	}
	cols, ok := d.Blocks[idx].Data.(ColumnsData)
	if !ok {
		return d, false
	}

	cols = cloneColumnsData(cols)
	cols.Columns = resizeSlots(cols.Columns, count)
	cols.ColumnCount = count
	return d.replaceTopLevelData(idx, cols), true
}

const (
	MinColumnCount = 1
	MaxColumnCount = 3
)

func resizeSlots(slots [][]Block, count int) [][]Block {
	out := make([][]Block, count)
	for i := 0; i < count; i++ {
		if i < len(slots) && slots[i] != nil {
			out[i] = slots[i]
		} else {
			out[i] = []Block{}
		}
	}
	return out
}

func (d Document) withBlocks(blocks []Block) Document {
	return Document{Blocks: blocks, Settings: d.Settings}
}

func (d Document) replaceTopLevelData(idx int, data BlockData) Document {
	blocks := cloneBlocks(d.Blocks)
	b := blocks[idx]
	b.Data = data
	blocks[idx] = b
	return d.withBlocks(blocks)
}

// replaceAt swaps the block at path for updated
func (d Document) replaceAt(path BlockPath, updated Block) Document {
	if path.IsTopLevel() {
		blocks := cloneBlocks(d.Blocks)
		blocks[path.TopIndex] = updated
		return d.withBlocks(blocks)
	}

	switch data := d.Blocks[path.TopIndex].Data.(type) {
	case ColumnsData:
		data = cloneColumnsData(data)
		data.Columns[path.ColumnIndex][path.ChildIndex] = updated
		return d.replaceTopLevelData(path.TopIndex, data)
	case ContainerData:
		data = cloneContainerData(data)
		data.Children[path.ChildIndex] = updated
		return d.replaceTopLevelData(path.TopIndex, data)
	}
	return d
}

func cloneBlocks(blocks []Block) []Block {
	out := make([]Block, len(blocks), len(blocks)+1)
	copy(out, blocks)
	return out
}

func insertAt(blocks []Block, idx int, b Block) []Block {
	out := make([]Block, 0, len(blocks)+1)
	out = append(out, blocks[:idx]...)
	out = append(out, b)
	out = append(out, blocks[idx:]...)
	return out
}

func removeAt(blocks []Block, idx int) []Block {
	out := make([]Block, 0, len(blocks)-1)
	out = append(out, blocks[:idx]...)
	out = append(out, blocks[idx+1:]...)
	return out
}

// cloneColumnsData copies the slot array and every slot so the result can be
// modified without touching the original
func cloneColumnsData(c ColumnsData) ColumnsData {
	slots := make([][]Block, len(c.Columns))
	for i, slot := range c.Columns {
		slots[i] = cloneBlocks(slot)
	}
	c.Columns = slots
	return c
}

func cloneContainerData(c ContainerData) ContainerData {
	c.Children = cloneBlocks(c.Children)
	return c
}

func cloneBlockData(data BlockData) BlockData {
	switch v := data.(type) {
	case ColumnsData:
		return cloneColumnsData(v)
	case ContainerData:
		return cloneContainerData(v)
	case FooterData:
		v.SocialLinks = append([]SocialLink(nil), v.SocialLinks...)
		return v
	case SocialIconsData:
		v.Links = append([]SocialLink(nil), v.Links...)
		return v
	default:
		return data
	}
}
