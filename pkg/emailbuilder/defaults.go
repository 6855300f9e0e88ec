package emailbuilder

const (
	DefaultEmailWidth      = 600
	DefaultFontFamily      = "Arial, Helvetica, sans-serif"
	DefaultBackgroundColor = "#f4f4f4"
	DefaultContentColor    = "#ffffff"
	DefaultTextColor       = "#333333"
	DefaultBorderStyle     = "solid"
	DefaultBorderColor     = "#000000"
)

// Sides holds a concrete value for each of the four box sides
type Sides struct {
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
}

// Max returns the largest of the four values
func (s Sides) Max() int {
	m := s.Top
	for _, v := range []int{s.Right, s.Bottom, s.Left} {
		if v > m {
			m = v
		}
	}
	return m
}

// IsZero reports whether every side is 0
func (s Sides) IsZero() bool {
	return s.Top == 0 && s.Right == 0 && s.Bottom == 0 && s.Left == 0
}

// Corners holds a concrete radius for each corner
type Corners struct {
	TopLeft     int `json:"topLeft"`
	TopRight    int `json:"topRight"`
	BottomRight int `json:"bottomRight"`
	BottomLeft  int `json:"bottomLeft"`
}

// Max returns the largest of the four radii
func (c Corners) Max() int {
	m := c.TopLeft
	for _, v := range []int{c.TopRight, c.BottomRight, c.BottomLeft} {
		if v > m {
			m = v
		}
	}
	return m
}

// IsZero reports whether every corner is square
func (c Corners) IsZero() bool {
	return c.TopLeft == 0 && c.TopRight == 0 && c.BottomRight == 0 && c.BottomLeft == 0
}

// Border is a resolved border stroke
type Border struct {
	Width int    `json:"width"`
	Style string `json:"style"`
	Color string `json:"color"`
}

// Visible reports whether the border produces a stroke at all
func (b Border) Visible() bool {
	return b.Width > 0 && b.Style != "" && b.Style != "none"
}

// StyleDefaults are the built-in style values of a block type.
// Both the editor preview and the HTML export read them from here.
type StyleDefaults struct {
	BackgroundColor string  `json:"backgroundColor"`
	Padding         Sides   `json:"padding"`
	Radius          Corners `json:"radius"`
	Border          Border  `json:"border"`
	MarginVertical  int     `json:"marginVertical"`
}

func uniformSides(v int) Sides      { return Sides{Top: v, Right: v, Bottom: v, Left: v} }
func symmetricSides(v, h int) Sides { return Sides{Top: v, Right: h, Bottom: v, Left: h} }
func noBorder() Border              { return Border{Width: 0, Style: DefaultBorderStyle, Color: DefaultBorderColor} }
func uniformCorners(v int) Corners {
	return Corners{TopLeft: v, TopRight: v, BottomRight: v, BottomLeft: v}
}

// DefaultsForBlockType returns the built-in style defaults for a block type
func DefaultsForBlockType(t BlockType) StyleDefaults {
	d := StyleDefaults{Border: noBorder()}

	switch t {
	case BlockTypeHeaderImage, BlockTypeSpacer:
		d.Padding = uniformSides(0)
	case BlockTypeImage, BlockTypeGif:
		d.Padding = symmetricSides(10, 25)
	case BlockTypeTextBlock:
		d.Padding = symmetricSides(10, 25)
	case BlockTypeButton:
		d.Padding = symmetricSides(10, 25)
	case BlockTypeDivider:
		d.Padding = symmetricSides(10, 25)
	case BlockTypeFooter:
		d.Padding = symmetricSides(24, 25)
		d.BackgroundColor = "#f4f4f4"
	case BlockTypeSocialIcons:
		d.Padding = symmetricSides(10, 25)
	case BlockTypeColumns:
		d.Padding = symmetricSides(10, 0)
	case BlockTypeContainer:
		d.Padding = uniformSides(0)
	}

	return d
}

// DefaultSettings returns the settings used when a document has none
func DefaultSettings() EmailSettings {
	return EmailSettings{
		Width:                  DefaultEmailWidth,
		FontFamily:             DefaultFontFamily,
		BackgroundColor:        DefaultBackgroundColor,
		ContentBackgroundColor: DefaultContentColor,
		Responsive:             true,
	}
}

// DefaultData returns the placeholder payload for a newly created block.
// Every call returns fresh slices.
func DefaultData(t BlockType) BlockData {
	switch t {
	case BlockTypeHeaderImage:
		return HeaderImageData{
			Src: "https://placehold.co/600x200?text=Header",
			Alt: "Header image",
		}
	case BlockTypeImage:
		return ImageData{
			Src:   "https://placehold.co/550x300?text=Image",
			Alt:   "Image",
			Align: "center",
		}
	case BlockTypeGif:
		return GifData{
			Src:   "https://placehold.co/550x300.gif?text=GIF",
			Alt:   "Animated image",
			Align: "center",
		}
	case BlockTypeTextBlock:
		return TextBlockData{
			Content:    "<p>Write something here...</p>",
			FontSize:   16,
			Color:      DefaultTextColor,
			LineHeight: 1.5,
			Align:      "left",
		}
	case BlockTypeButton:
		return ButtonData{
			Text:            "Click here",
			URL:             "https://example.com",
			BackgroundColor: "#2563eb",
			TextColor:       "#ffffff",
			FontSize:        16,
			BorderRadius:    4,
			Align:           "center",
		}
	case BlockTypeDivider:
		return DividerData{
			Color:     "#dddddd",
			Thickness: 1,
			LineStyle: "solid",
			Width:     100,
		}
	case BlockTypeFooter:
		return FooterData{
			CompanyName:     "Your Company",
			Address:         "123 Street, City",
			UnsubscribeURL:  "{{ unsubscribe_url }}",
			UnsubscribeText: "Unsubscribe",
			ShowSocialIcons: true,
			SocialLinks: []SocialLink{
				{Platform: "facebook", URL: "https://facebook.com"},
				{Platform: "twitter", URL: "https://twitter.com"},
				{Platform: "instagram", URL: "https://instagram.com"},
			},
			TextColor: "#666666",
			FontSize:  12,
		}
	case BlockTypeSpacer:
		return SpacerData{Height: 20}
	case BlockTypeColumns:
		return ColumnsData{
			ColumnCount:   2,
			Columns:       emptySlots(2),
			Gap:           20,
			VerticalAlign: "top",
		}
	case BlockTypeContainer:
		return ContainerData{
			Children:         []Block{},
			DesktopDirection: "column",
			MobileDirection:  "column",
			Align:            "center",
			BorderStyle:      DefaultBorderStyle,
			BorderColor:      DefaultBorderColor,
		}
	case BlockTypeSocialIcons:
		return SocialIconsData{
			Links: []SocialLink{
				{Platform: "facebook", URL: "https://facebook.com"},
				{Platform: "twitter", URL: "https://twitter.com"},
				{Platform: "instagram", URL: "https://instagram.com"},
				{Platform: "linkedin", URL: "https://linkedin.com"},
			},
			IconSize: 32,
			Align:    "center",
			Spacing:  8,
		}
	default:
		return nil
	}
}

func emptySlots(n int) [][]Block {
	slots := make([][]Block, n)
	for i := range slots {
		slots[i] = []Block{}
	}
	return slots
}
