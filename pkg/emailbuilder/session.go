package emailbuilder

// EditingSession owns one editor's document together with its selection
// and drag state. A session is not safe for concurrent use.
type EditingSession struct {
	Document   Document
	SelectedID string
	DraggingID string
	NewID      IDGenerator
}

// NewEditingSession starts a session on doc. When newID is nil, block ids
// are generated with NanoIDGenerator.
func NewEditingSession(doc Document, newID IDGenerator) *EditingSession {
	if newID == nil {
		newID = NanoIDGenerator
	}
	if doc.Blocks == nil {
		doc.Blocks = []Block{}
	}
	return &EditingSession{Document: doc, NewID: newID}
}

// nextID returns a generated id that is not used anywhere in the document
func (s *EditingSession) nextID() string {
	for {
		id := s.NewID()
		if id != "" && !s.Document.Contains(id) {
			return id
		}
	}
}

// AddBlock appends a new block of type t with default data at loc and
// selects it. It returns the new id, or false when loc does not resolve.
func (s *EditingSession) AddBlock(t BlockType, loc Location) (string, bool) {
	if !t.IsValid() {
		return "", false
	}
	block := NewBlock(t, s.nextID())
	doc, ok := s.Document.InsertBlock(block, loc)
	if !ok {
		return "", false
	}
	s.Document = doc
	s.SelectedID = block.ID
	return block.ID, true
}

// UpdateBlockData replaces the data (and the style when not nil) of a block
func (s *EditingSession) UpdateBlockData(id string, data BlockData, style *BlockStyle) bool {
	doc, ok := s.Document.UpdateBlockData(id, data, style)
	if !ok {
		return false
	}
	s.Document = doc
	s.dropStaleSelection()
	return true
}

// UpdateBlockStyle replaces the style of a block
func (s *EditingSession) UpdateBlockStyle(id string, style *BlockStyle) bool {
	doc, ok := s.Document.UpdateBlockStyle(id, style)
	if ok {
		s.Document = doc
	}
	return ok
}

// DeleteBlock removes a block and clears the selection if it pointed at it
func (s *EditingSession) DeleteBlock(id string) bool {
	doc, ok := s.Document.DeleteBlock(id)
	if !ok {
		return false
	}
	s.Document = doc
	if s.SelectedID == id {
		s.SelectedID = ""
	}
	s.dropStaleSelection()
	return true
}

// ReorderTopLevel moves a top-level block from one index to another
func (s *EditingSession) ReorderTopLevel(from, to int) bool {
	doc, ok := s.Document.ReorderTopLevel(from, to)
	if ok {
		s.Document = doc
	}
	return ok
}

// SetColumnCount resizes a Columns block. Blocks in removed slots are lost,
// and so is the selection if it pointed into one of them.
func (s *EditingSession) SetColumnCount(id string, count int) bool {
	doc, ok := s.Document.SetColumnCount(id, count)
	if !ok {
		return false
	}
	s.Document = doc
	s.dropStaleSelection()
	return true
}

// SetPaddingMode switches the padding representation of a block's style
func (s *EditingSession) SetPaddingMode(id string, mode BoxMode) bool {
	b, _, ok := s.Document.FindBlock(id)
	if !ok {
		return false
	}
	return s.UpdateBlockStyle(id, SetPaddingMode(b.Type, b.Style, mode))
}

// SetRadiusMode switches the corner radius representation of a block's style
func (s *EditingSession) SetRadiusMode(id string, mode BoxMode) bool {
	b, _, ok := s.Document.FindBlock(id)
	if !ok {
		return false
	}
	return s.UpdateBlockStyle(id, SetRadiusMode(b.Type, b.Style, mode))
}

// Select marks a block as selected if it exists anywhere in the tree
func (s *EditingSession) Select(id string) bool {
	if !s.Document.Contains(id) {
		return false
	}
	s.SelectedID = id
	return true
}

// ClearSelection deselects the current block
func (s *EditingSession) ClearSelection() {
	s.SelectedID = ""
}

// SelectedBlock returns the currently selected block
func (s *EditingSession) SelectedBlock() (Block, bool) {
	if s.SelectedID == "" {
		return Block{}, false
	}
	b, _, ok := s.Document.FindBlock(s.SelectedID)
	return b, ok
}

func (s *EditingSession) dropStaleSelection() {
	if s.SelectedID != "" && !s.Document.Contains(s.SelectedID) {
		s.SelectedID = ""
	}
	if s.DraggingID != "" && !IsPaletteSource(s.DraggingID) && !s.Document.Contains(s.DraggingID) {
		s.DraggingID = ""
	}
}
