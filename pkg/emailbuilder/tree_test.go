package emailbuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textBlock(id, content string) Block {
	d := DefaultData(BlockTypeTextBlock).(TextBlockData)
	d.Content = content
	return Block{ID: id, Type: BlockTypeTextBlock, Data: d}
}

func columnsBlock(id string, slots ...[]Block) Block {
	d := DefaultData(BlockTypeColumns).(ColumnsData)
	d.ColumnCount = len(slots)
	d.Columns = slots
	return Block{ID: id, Type: BlockTypeColumns, Data: d}
}

func containerBlock(id string, children ...Block) Block {
	d := DefaultData(BlockTypeContainer).(ContainerData)
	d.Children = append([]Block{}, children...)
	return Block{ID: id, Type: BlockTypeContainer, Data: d}
}

func allIDs(doc Document) []string {
	var ids []string
	doc.Walk(func(b Block, _ BlockPath) { ids = append(ids, b.ID) })
	return ids
}

func TestSession_AddAndDelete(t *testing.T) {
	s := NewEditingSession(NewDocument(), SequentialIDs("b"))

	id, ok := s.AddBlock(BlockTypeTextBlock, TopLevel())
	require.True(t, ok)
	assert.Equal(t, "b-1", id)
	require.Len(t, s.Document.Blocks, 1)
	assert.Equal(t, BlockTypeTextBlock, s.Document.Blocks[0].Type)
	assert.Equal(t, DefaultData(BlockTypeTextBlock), s.Document.Blocks[0].Data)
	assert.Equal(t, id, s.SelectedID)

	require.True(t, s.DeleteBlock(id))
	assert.Empty(t, s.Document.Blocks)
	assert.Empty(t, s.SelectedID)
}

func TestSession_NestedUpdate(t *testing.T) {
	cols := columnsBlock("cols", []Block{textBlock("t1", "<p>x</p>")}, []Block{})
	s := NewEditingSession(Document{Blocks: []Block{cols}}, nil)

	updated := DefaultData(BlockTypeTextBlock).(TextBlockData)
	updated.Content = "Hello"
	require.True(t, s.UpdateBlockData("t1", updated, nil))

	got := s.Document.Blocks[0].Data.(ColumnsData)
	assert.Equal(t, 2, got.ColumnCount)
	assert.Equal(t, 20, got.Gap)
	require.Len(t, got.Columns[0], 1)
	assert.Equal(t, "Hello", got.Columns[0][0].Data.(TextBlockData).Content)
	assert.Empty(t, got.Columns[1])

	// the original document value is untouched
	orig := cols.Data.(ColumnsData)
	assert.Equal(t, "<p>x</p>", orig.Columns[0][0].Data.(TextBlockData).Content)
}

func TestDocument_UpdateBlockData(t *testing.T) {
	doc := Document{Blocks: []Block{textBlock("a", "one"), columnsBlock("c", []Block{}, []Block{})}}

	t.Run("unknown id is a no-op", func(t *testing.T) {
		out, ok := doc.UpdateBlockData("missing", DefaultData(BlockTypeTextBlock), nil)
		assert.False(t, ok)
		assert.Equal(t, doc, out)
	})

	t.Run("mismatched variant is rejected", func(t *testing.T) {
		out, ok := doc.UpdateBlockData("a", DefaultData(BlockTypeButton), nil)
		assert.False(t, ok)
		assert.Equal(t, doc, out)
	})

	t.Run("data that breaks the column invariant is rejected", func(t *testing.T) {
		bad := DefaultData(BlockTypeColumns).(ColumnsData)
		bad.ColumnCount = 3
		_, ok := doc.UpdateBlockData("c", bad, nil)
		assert.False(t, ok)
	})

	t.Run("style is replaced when given", func(t *testing.T) {
		out, ok := doc.UpdateBlockData("a", doc.Blocks[0].Data, &BlockStyle{Padding: IntPtr(4)})
		require.True(t, ok)
		require.NotNil(t, out.Blocks[0].Style)
		assert.Equal(t, 4, *out.Blocks[0].Style.Padding)
		assert.Nil(t, doc.Blocks[0].Style)
	})
}

func TestDocument_InsertBlock(t *testing.T) {
	doc := Document{Blocks: []Block{
		textBlock("a", "a"),
		columnsBlock("cols", []Block{}, []Block{}),
		containerBlock("box"),
	}}

	tests := []struct {
		name  string
		block Block
		loc   Location
		ok    bool
	}{
		{"append top level", NewBlock(BlockTypeSpacer, "n"), TopLevel(), true},
		{"before existing", NewBlock(BlockTypeSpacer, "n"), TopLevelBefore("cols"), true},
		{"before unknown", NewBlock(BlockTypeSpacer, "n"), TopLevelBefore("nope"), false},
		{"into column", NewBlock(BlockTypeButton, "n"), ColumnSlot("cols", 1), true},
		{"column index out of range", NewBlock(BlockTypeButton, "n"), ColumnSlot("cols", 2), false},
		{"column slot of non-columns block", NewBlock(BlockTypeButton, "n"), ColumnSlot("a", 0), false},
		{"into container", NewBlock(BlockTypeImage, "n"), InContainer("box"), true},
		{"container inside column", NewBlock(BlockTypeContainer, "n"), ColumnSlot("cols", 0), false},
		{"columns inside container", NewBlock(BlockTypeColumns, "n"), InContainer("box"), false},
		{"duplicate id", NewBlock(BlockTypeSpacer, "a"), TopLevel(), false},
		{"empty id", NewBlock(BlockTypeSpacer, ""), TopLevel(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, ok := doc.InsertBlock(tt.block, tt.loc)
			assert.Equal(t, tt.ok, ok)
			if !ok {
				assert.Equal(t, doc, out)
				return
			}
			assert.True(t, out.Contains(tt.block.ID))
			assert.NoError(t, ValidateDocument(out))
		})
	}

	t.Run("insert before keeps order", func(t *testing.T) {
		out, ok := doc.InsertBlock(NewBlock(BlockTypeDivider, "d"), TopLevelBefore("cols"))
		require.True(t, ok)
		assert.Equal(t, []string{"a", "d", "cols", "box"}, []string{out.Blocks[0].ID, out.Blocks[1].ID, out.Blocks[2].ID, out.Blocks[3].ID})
	})
}

func TestDocument_FindBlock(t *testing.T) {
	doc := Document{Blocks: []Block{
		columnsBlock("cols", []Block{textBlock("x", "")}, []Block{textBlock("y", "")}),
		containerBlock("box", textBlock("z", "")),
	}}

	_, path, ok := doc.FindBlock("y")
	require.True(t, ok)
	assert.Equal(t, BlockPath{TopIndex: 0, ParentID: "cols", ColumnIndex: 1, ChildIndex: 0}, path)

	_, path, ok = doc.FindBlock("z")
	require.True(t, ok)
	assert.Equal(t, BlockPath{TopIndex: 1, ParentID: "box", ColumnIndex: -1, ChildIndex: 0}, path)

	_, path, ok = doc.FindBlock("box")
	require.True(t, ok)
	assert.True(t, path.IsTopLevel())

	_, _, ok = doc.FindBlock("")
	assert.False(t, ok)
	assert.Equal(t, 5, doc.CountBlocks())
}

func TestDocument_DeleteBlock(t *testing.T) {
	doc := Document{Blocks: []Block{
		columnsBlock("cols", []Block{textBlock("x", ""), textBlock("x2", "")}, []Block{}),
		containerBlock("box", textBlock("z", "")),
	}}

	out, ok := doc.DeleteBlock("x")
	require.True(t, ok)
	slot := out.Blocks[0].Data.(ColumnsData).Columns[0]
	require.Len(t, slot, 1)
	assert.Equal(t, "x2", slot[0].ID)

	out, ok = out.DeleteBlock("z")
	require.True(t, ok)
	assert.Empty(t, out.Blocks[1].Data.(ContainerData).Children)

	out, ok = out.DeleteBlock("cols")
	require.True(t, ok)
	require.Len(t, out.Blocks, 1)
	assert.False(t, out.Contains("x2"))

	same, ok := out.DeleteBlock("missing")
	assert.False(t, ok)
	assert.Equal(t, out, same)
}

func TestDocument_ReorderTopLevel(t *testing.T) {
	doc := Document{Blocks: []Block{textBlock("a", ""), textBlock("b", ""), textBlock("c", ""), textBlock("d", "")}}
	ids := func(d Document) []string {
		out := make([]string, len(d.Blocks))
		for i, b := range d.Blocks {
			out[i] = b.ID
		}
		return out
	}

	out, ok := doc.ReorderTopLevel(0, 2)
	require.True(t, ok)
	assert.Equal(t, []string{"b", "c", "a", "d"}, ids(out))

	out, ok = doc.ReorderTopLevel(3, 0)
	require.True(t, ok)
	assert.Equal(t, []string{"d", "a", "b", "c"}, ids(out))

	_, ok = doc.ReorderTopLevel(0, 4)
	assert.False(t, ok)
	_, ok = doc.ReorderTopLevel(-1, 0)
	assert.False(t, ok)
}

func TestDocument_SetColumnCount(t *testing.T) {
	slot0 := []Block{textBlock("s0", "zero")}
	slot1 := []Block{textBlock("s1", "one")}
	slot2 := []Block{textBlock("s2", "two")}
	doc := Document{Blocks: []Block{columnsBlock("cols", slot0, slot1, slot2)}}

	t.Run("shrinking keeps surviving slots", func(t *testing.T) {
		out, ok := doc.SetColumnCount("cols", 2)
		require.True(t, ok)
		cols := out.Blocks[0].Data.(ColumnsData)
		assert.Equal(t, 2, cols.ColumnCount)
		require.Len(t, cols.Columns, 2)
		assert.Equal(t, slot0, cols.Columns[0])
		assert.Equal(t, slot1, cols.Columns[1])
		assert.False(t, out.Contains("s2"))
	})

	t.Run("growing adds empty slots", func(t *testing.T) {
		small, ok := doc.SetColumnCount("cols", 1)
		require.True(t, ok)
		grown, ok := small.SetColumnCount("cols", 3)
		require.True(t, ok)
		cols := grown.Blocks[0].Data.(ColumnsData)
		require.Len(t, cols.Columns, 3)
		assert.Equal(t, slot0, cols.Columns[0])
		assert.NotNil(t, cols.Columns[1])
		assert.Empty(t, cols.Columns[1])
		assert.Empty(t, cols.Columns[2])
	})

	t.Run("out of range count", func(t *testing.T) {
		_, ok := doc.SetColumnCount("cols", 0)
		assert.False(t, ok)
		_, ok = doc.SetColumnCount("cols", 4)
		assert.False(t, ok)
	})

	t.Run("selection into a removed slot is cleared", func(t *testing.T) {
		s := NewEditingSession(doc, nil)
		require.True(t, s.Select("s2"))
		require.True(t, s.SetColumnCount("cols", 2))
		assert.Empty(t, s.SelectedID)
	})
}

func TestSession_IDsStayUnique(t *testing.T) {
	// a generator that keeps returning ids already in use
	calls := 0
	gen := func() string {
		calls++
		if calls%2 == 1 {
			return "dup"
		}
		return NanoIDGenerator()
	}
	s := NewEditingSession(Document{Blocks: []Block{textBlock("dup", "")}}, gen)

	colsID, ok := s.AddBlock(BlockTypeColumns, TopLevel())
	require.True(t, ok)
	boxID, ok := s.AddBlock(BlockTypeContainer, TopLevelBefore(colsID))
	require.True(t, ok)

	for i := 0; i < 5; i++ {
		_, ok = s.AddBlock(BlockTypeTextBlock, ColumnSlot(colsID, i%2))
		require.True(t, ok)
		_, ok = s.AddBlock(BlockTypeButton, InContainer(boxID))
		require.True(t, ok)
		_, ok = s.AddBlock(BlockTypeDivider, TopLevel())
		require.True(t, ok)
	}
	require.True(t, s.ReorderTopLevel(0, 3))

	ids := allIDs(s.Document)
	seen := map[string]bool{}
	for _, id := range ids {
		assert.NotEmpty(t, id)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	assert.Len(t, ids, 18)
	assert.NoError(t, ValidateDocument(s.Document))
}

func TestSession_Selection(t *testing.T) {
	s := NewEditingSession(Document{Blocks: []Block{containerBlock("box", textBlock("t", ""))}}, nil)

	assert.False(t, s.Select("missing"))
	require.True(t, s.Select("t"))
	b, ok := s.SelectedBlock()
	require.True(t, ok)
	assert.Equal(t, "t", b.ID)

	require.True(t, s.DeleteBlock("box"))
	assert.Empty(t, s.SelectedID)
	_, ok = s.SelectedBlock()
	assert.False(t, ok)

	s.ClearSelection()
	assert.Empty(t, s.SelectedID)
}
