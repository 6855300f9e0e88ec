package emailbuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveEffectiveStyle(t *testing.T) {
	t.Run("no style uses type defaults", func(t *testing.T) {
		eff := ResolveEffectiveStyle(BlockTypeFooter, nil)
		assert.Equal(t, Sides{Top: 24, Right: 25, Bottom: 24, Left: 25}, eff.Padding)
		assert.Equal(t, "#f4f4f4", eff.BackgroundColor)
		assert.Equal(t, BoxModeUniform, eff.PaddingMode)
		assert.False(t, eff.Border.Visible())
	})

	t.Run("uniform padding applies to every side", func(t *testing.T) {
		eff := ResolveEffectiveStyle(BlockTypeTextBlock, &BlockStyle{Padding: IntPtr(7)})
		assert.Equal(t, Sides{Top: 7, Right: 7, Bottom: 7, Left: 7}, eff.Padding)
		assert.Equal(t, BoxModeUniform, eff.PaddingMode)
	})

	t.Run("any individual side switches to individual mode", func(t *testing.T) {
		eff := ResolveEffectiveStyle(BlockTypeTextBlock, &BlockStyle{Padding: IntPtr(7), PaddingTop: IntPtr(1)})
		assert.Equal(t, BoxModeIndividual, eff.PaddingMode)
		// unset sides fall back to the type default, not the uniform value
		assert.Equal(t, Sides{Top: 1, Right: 25, Bottom: 10, Left: 25}, eff.Padding)
	})

	t.Run("individual radius", func(t *testing.T) {
		eff := ResolveEffectiveStyle(BlockTypeButton, &BlockStyle{BorderRadius: IntPtr(3), BorderBottomLeftRadius: IntPtr(9)})
		assert.Equal(t, BoxModeIndividual, eff.RadiusMode)
		assert.Equal(t, Corners{BottomLeft: 9}, eff.Radius)
	})

	t.Run("explicit zero overrides default", func(t *testing.T) {
		eff := ResolveEffectiveStyle(BlockTypeFooter, &BlockStyle{Padding: IntPtr(0), BackgroundColor: StringPtr("")})
		assert.True(t, eff.Padding.IsZero())
		assert.Equal(t, "", eff.BackgroundColor)
	})
}

func TestBorderVisible(t *testing.T) {
	tests := []struct {
		border  Border
		visible bool
	}{
		{Border{Width: 1, Style: "solid"}, true},
		{Border{Width: 0, Style: "solid"}, false},
		{Border{Width: 2, Style: "none"}, false},
		{Border{Width: 2, Style: ""}, false},
		{Border{Width: 2, Style: "dashed"}, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.visible, tt.border.Visible(), "%+v", tt.border)
	}
}

func TestSetPaddingMode(t *testing.T) {
	t.Run("collapse to uniform takes the max", func(t *testing.T) {
		style := &BlockStyle{PaddingTop: IntPtr(10), PaddingRight: IntPtr(0), PaddingBottom: IntPtr(20), PaddingLeft: IntPtr(5)}
		out := SetPaddingMode(BlockTypeTextBlock, style, BoxModeUniform)
		require.NotNil(t, out.Padding)
		assert.Equal(t, 20, *out.Padding)
		assert.Nil(t, out.PaddingTop)
		assert.Nil(t, out.PaddingRight)
		assert.Nil(t, out.PaddingBottom)
		assert.Nil(t, out.PaddingLeft)
		// input untouched
		assert.Equal(t, 10, *style.PaddingTop)
	})

	t.Run("expand copies the current effective value", func(t *testing.T) {
		out := SetPaddingMode(BlockTypeTextBlock, nil, BoxModeIndividual)
		assert.Nil(t, out.Padding)
		assert.Equal(t, 10, *out.PaddingTop)
		assert.Equal(t, 25, *out.PaddingRight)
		assert.Equal(t, 10, *out.PaddingBottom)
		assert.Equal(t, 25, *out.PaddingLeft)

		eff := ResolveEffectiveStyle(BlockTypeTextBlock, out)
		assert.Equal(t, ResolveEffectiveStyle(BlockTypeTextBlock, nil).Padding, eff.Padding)
	})

	t.Run("same mode is a no-op", func(t *testing.T) {
		style := &BlockStyle{Padding: IntPtr(6)}
		out := SetPaddingMode(BlockTypeTextBlock, style, BoxModeUniform)
		assert.Equal(t, style, out)
		assert.NotSame(t, style, out)
	})
}

func TestSetRadiusMode(t *testing.T) {
	style := &BlockStyle{BorderTopLeftRadius: IntPtr(4), BorderBottomRightRadius: IntPtr(12)}
	out := SetRadiusMode(BlockTypeButton, style, BoxModeUniform)
	require.NotNil(t, out.BorderRadius)
	assert.Equal(t, 12, *out.BorderRadius)
	assert.Equal(t, BoxModeUniform, RadiusMode(out))

	back := SetRadiusMode(BlockTypeButton, out, BoxModeIndividual)
	assert.Equal(t, BoxModeIndividual, RadiusMode(back))
	assert.Equal(t, Corners{TopLeft: 12, TopRight: 12, BottomRight: 12, BottomLeft: 12}, ResolveEffectiveStyle(BlockTypeButton, back).Radius)
}

func TestSession_SetPaddingMode(t *testing.T) {
	s := NewEditingSession(Document{Blocks: []Block{columnsBlock("cols", []Block{textBlock("t", "")})}}, nil)

	require.True(t, s.SetPaddingMode("t", BoxModeIndividual))
	b, _, _ := s.Document.FindBlock("t")
	assert.Equal(t, BoxModeIndividual, PaddingMode(b.Style))

	assert.False(t, s.SetPaddingMode("missing", BoxModeIndividual))
}
