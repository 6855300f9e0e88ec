package emailbuilder

// PaletteItem describes one draggable entry of the block palette
type PaletteItem struct {
	Type      BlockType      `json:"type"`
	Source    string         `json:"source"`
	Label     string         `json:"label"`
	Category  string         `json:"category"`
	Layout    bool           `json:"layout"`
	AllowedIn []LocationKind `json:"allowedIn"`
	Defaults  BlockData      `json:"defaults"`
}

// Palette returns every block type in display order together with where it
// may be dropped
func Palette() []PaletteItem {
	items := make([]PaletteItem, 0, len(AllBlockTypes))
	for _, t := range AllBlockTypes {
		items = append(items, PaletteItem{
			Type:      t,
			Source:    PaletteSource(t),
			Label:     DisplayName(t),
			Category:  Category(t),
			Layout:    t.IsLayout(),
			AllowedIn: allowedLocations(t),
			Defaults:  DefaultData(t),
		})
	}
	return items
}

// CanPlace reports whether a block of type t may be added to a location kind
func CanPlace(t BlockType, kind LocationKind) bool {
	for _, k := range allowedLocations(t) {
		if k == kind {
			return true
		}
	}
	return false
}

func allowedLocations(t BlockType) []LocationKind {
	if t.IsLayout() {
		return []LocationKind{LocationTopLevel, LocationTopLevelBefore}
	}
	return []LocationKind{LocationTopLevel, LocationTopLevelBefore, LocationColumnSlot, LocationContainer}
}

// DisplayName returns a human-readable name for a block type
func DisplayName(t BlockType) string {
	switch t {
	case BlockTypeHeaderImage:
		return "Header Image"
	case BlockTypeImage:
		return "Image"
	case BlockTypeGif:
		return "GIF"
	case BlockTypeTextBlock:
		return "Text"
	case BlockTypeButton:
		return "Button"
	case BlockTypeDivider:
		return "Divider"
	case BlockTypeFooter:
		return "Footer"
	case BlockTypeSpacer:
		return "Spacer"
	case BlockTypeColumns:
		return "Columns"
	case BlockTypeContainer:
		return "Container"
	case BlockTypeSocialIcons:
		return "Social Icons"
	default:
		return string(t)
	}
}

// Category groups block types in the palette
func Category(t BlockType) string {
	switch t {
	case BlockTypeHeaderImage, BlockTypeImage, BlockTypeGif:
		return "Media"
	case BlockTypeTextBlock, BlockTypeButton:
		return "Content"
	case BlockTypeDivider, BlockTypeSpacer:
		return "Spacing"
	case BlockTypeColumns, BlockTypeContainer:
		return "Layout"
	case BlockTypeFooter, BlockTypeSocialIcons:
		return "Social"
	default:
		return "Other"
	}
}
