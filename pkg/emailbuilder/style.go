package emailbuilder

// BoxMode selects between the uniform and the per-side representation of
// padding or corner radius
type BoxMode string

const (
	BoxModeUniform    BoxMode = "uniform"
	BoxModeIndividual BoxMode = "individual"
)

// EffectiveStyle is the fully resolved style of a block
type EffectiveStyle struct {
	BackgroundColor string  `json:"backgroundColor"`
	Padding         Sides   `json:"padding"`
	PaddingMode     BoxMode `json:"paddingMode"`
	Radius          Corners `json:"radius"`
	RadiusMode      BoxMode `json:"radiusMode"`
	Border          Border  `json:"border"`
	MarginVertical  int     `json:"marginVertical"`
}

// ResolveEffectiveStyle merges optional style overrides with the built-in
// defaults of the block type
func ResolveEffectiveStyle(t BlockType, style *BlockStyle) EffectiveStyle {
	defaults := DefaultsForBlockType(t)
	eff := EffectiveStyle{
		BackgroundColor: defaults.BackgroundColor,
		Padding:         defaults.Padding,
		PaddingMode:     BoxModeUniform,
		Radius:          defaults.Radius,
		RadiusMode:      BoxModeUniform,
		Border:          defaults.Border,
		MarginVertical:  defaults.MarginVertical,
	}
	if style == nil {
		return eff
	}

	if style.BackgroundColor != nil {
		eff.BackgroundColor = *style.BackgroundColor
	}
	if style.BorderWidth != nil {
		eff.Border.Width = *style.BorderWidth
	}
	if style.BorderStyle != nil {
		eff.Border.Style = *style.BorderStyle
	}
	if style.BorderColor != nil {
		eff.Border.Color = *style.BorderColor
	}
	if style.MarginVertical != nil {
		eff.MarginVertical = *style.MarginVertical
	}

	eff.Padding, eff.PaddingMode = resolvePadding(style, defaults.Padding)
	eff.Radius, eff.RadiusMode = resolveRadius(style, defaults.Radius)

	return eff
}

// PaddingMode reports which padding representation is active
func PaddingMode(style *BlockStyle) BoxMode {
	if hasIndividualPadding(style) {
		return BoxModeIndividual
	}
	return BoxModeUniform
}

// RadiusMode reports which corner radius representation is active
func RadiusMode(style *BlockStyle) BoxMode {
	if hasIndividualRadius(style) {
		return BoxModeIndividual
	}
	return BoxModeUniform
}

func hasIndividualPadding(s *BlockStyle) bool {
	return s != nil && (s.PaddingTop != nil || s.PaddingRight != nil || s.PaddingBottom != nil || s.PaddingLeft != nil)
}

func hasIndividualRadius(s *BlockStyle) bool {
	return s != nil && (s.BorderTopLeftRadius != nil || s.BorderTopRightRadius != nil ||
		s.BorderBottomRightRadius != nil || s.BorderBottomLeftRadius != nil)
}

func resolvePadding(s *BlockStyle, def Sides) (Sides, BoxMode) {
	if hasIndividualPadding(s) {
		return Sides{
			Top:    valueOr(s.PaddingTop, def.Top),
			Right:  valueOr(s.PaddingRight, def.Right),
			Bottom: valueOr(s.PaddingBottom, def.Bottom),
			Left:   valueOr(s.PaddingLeft, def.Left),
		}, BoxModeIndividual
	}
	if s != nil && s.Padding != nil {
		return uniformSides(*s.Padding), BoxModeUniform
	}
	return def, BoxModeUniform
}

func resolveRadius(s *BlockStyle, def Corners) (Corners, BoxMode) {
	if hasIndividualRadius(s) {
		return Corners{
			TopLeft:     valueOr(s.BorderTopLeftRadius, def.TopLeft),
			TopRight:    valueOr(s.BorderTopRightRadius, def.TopRight),
			BottomRight: valueOr(s.BorderBottomRightRadius, def.BottomRight),
			BottomLeft:  valueOr(s.BorderBottomLeftRadius, def.BottomLeft),
		}, BoxModeIndividual
	}
	if s != nil && s.BorderRadius != nil {
		return uniformCorners(*s.BorderRadius), BoxModeUniform
	}
	return def, BoxModeUniform
}

// SetPaddingMode switches the padding representation of a style and returns
// the new style. Going to individual copies the current value to all four
// sides; going to uniform takes the largest of the four sides. Switching to
// the already active mode returns an unchanged copy.
func SetPaddingMode(t BlockType, style *BlockStyle, mode BoxMode) *BlockStyle {
	out := style.Clone()
	if out == nil {
		out = &BlockStyle{}
	}
	if PaddingMode(style) == mode {
		return out
	}

	eff, _ := resolvePadding(style, DefaultsForBlockType(t).Padding)

	switch mode {
	case BoxModeIndividual:
		out.PaddingTop = IntPtr(eff.Top)
		out.PaddingRight = IntPtr(eff.Right)
		out.PaddingBottom = IntPtr(eff.Bottom)
		out.PaddingLeft = IntPtr(eff.Left)
		out.Padding = nil
	case BoxModeUniform:
		out.Padding = IntPtr(eff.Max())
		out.PaddingTop = nil
		out.PaddingRight = nil
		out.PaddingBottom = nil
		out.PaddingLeft = nil
	}
	return out
}

// SetRadiusMode switches the corner radius representation, with the same
// copy-out and max-on-collapse rules as SetPaddingMode
func SetRadiusMode(t BlockType, style *BlockStyle, mode BoxMode) *BlockStyle {
	out := style.Clone()
	if out == nil {
		out = &BlockStyle{}
	}
	if RadiusMode(style) == mode {
		return out
	}

	eff, _ := resolveRadius(style, DefaultsForBlockType(t).Radius)

	switch mode {
	case BoxModeIndividual:
		out.BorderTopLeftRadius = IntPtr(eff.TopLeft)
		out.BorderTopRightRadius = IntPtr(eff.TopRight)
		out.BorderBottomRightRadius = IntPtr(eff.BottomRight)
		out.BorderBottomLeftRadius = IntPtr(eff.BottomLeft)
		out.BorderRadius = nil
	case BoxModeUniform:
		out.BorderRadius = IntPtr(eff.Max())
		out.BorderTopLeftRadius = nil
		out.BorderTopRightRadius = nil
		out.BorderBottomRightRadius = nil
		out.BorderBottomLeftRadius = nil
	}
	return out
}

func valueOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
