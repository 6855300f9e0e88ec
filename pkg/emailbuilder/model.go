package emailbuilder

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// BlockType represents the closed set of block variants the editor knows about
type BlockType string

const (
	BlockTypeHeaderImage BlockType = "HeaderImage"
	BlockTypeImage       BlockType = "Image"
	BlockTypeGif         BlockType = "Gif"
	BlockTypeTextBlock   BlockType = "TextBlock"
	BlockTypeButton      BlockType = "Button"
	BlockTypeDivider     BlockType = "Divider"
	BlockTypeFooter      BlockType = "Footer"
	BlockTypeSpacer      BlockType = "Spacer"
	BlockTypeColumns     BlockType = "Columns"
	BlockTypeContainer   BlockType = "Container"
	BlockTypeSocialIcons BlockType = "SocialIcons"
)

// AllBlockTypes lists every block type in palette order
var AllBlockTypes = []BlockType{
	BlockTypeHeaderImage,
	BlockTypeImage,
	BlockTypeGif,
	BlockTypeTextBlock,
	BlockTypeButton,
	BlockTypeDivider,
	BlockTypeSpacer,
	BlockTypeSocialIcons,
	BlockTypeFooter,
	BlockTypeColumns,
	BlockTypeContainer,
}

// IsValid reports whether t is one of the known block types
func (t BlockType) IsValid() bool {
	switch t {
	case BlockTypeHeaderImage, BlockTypeImage, BlockTypeGif, BlockTypeTextBlock,
		BlockTypeButton, BlockTypeDivider, BlockTypeFooter, BlockTypeSpacer,
		BlockTypeColumns, BlockTypeContainer, BlockTypeSocialIcons:
		return true
	}
	return false
}

// IsLayout reports whether blocks of this type hold nested blocks.
// Layout blocks may only live at the top level.
func (t BlockType) IsLayout() bool {
	return t == BlockTypeColumns || t == BlockTypeContainer
}

// BlockData is the variant-specific payload of a block.
// The set of implementations is closed to this package.
type BlockData interface {
	BlockType() BlockType
	isBlockData()
}

// Block is one node of the content tree
type Block struct {
	ID    string      `json:"id"`
	Type  BlockType   `json:"type"`
	Data  BlockData   `json:"data"`
	Style *BlockStyle `json:"style,omitempty"`
}

// BlockStyle is the shared style envelope. Every field is optional so that
// "unset" stays distinguishable from an explicit zero.
type BlockStyle struct {
	BackgroundColor *string `json:"backgroundColor,omitempty"`

	BorderWidth *int    `json:"borderWidth,omitempty"`
	BorderStyle *string `json:"borderStyle,omitempty"`
	BorderColor *string `json:"borderColor,omitempty"`

	BorderRadius            *int `json:"borderRadius,omitempty"`
	BorderTopLeftRadius     *int `json:"borderTopLeftRadius,omitempty"`
	BorderTopRightRadius    *int `json:"borderTopRightRadius,omitempty"`
	BorderBottomRightRadius *int `json:"borderBottomRightRadius,omitempty"`
	BorderBottomLeftRadius  *int `json:"borderBottomLeftRadius,omitempty"`

	Padding       *int `json:"padding,omitempty"`
	PaddingTop    *int `json:"paddingTop,omitempty"`
	PaddingRight  *int `json:"paddingRight,omitempty"`
	PaddingBottom *int `json:"paddingBottom,omitempty"`
	PaddingLeft   *int `json:"paddingLeft,omitempty"`

	MarginVertical *int `json:"marginVertical,omitempty"`
}

// Clone returns a copy of the style that shares no pointers with s
func (s *BlockStyle) Clone() *BlockStyle {
	if s == nil {
		return nil
	}
	return &BlockStyle{
		BackgroundColor:         cloneString(s.BackgroundColor),
		BorderWidth:             cloneInt(s.BorderWidth),
		BorderStyle:             cloneString(s.BorderStyle),
		BorderColor:             cloneString(s.BorderColor),
		BorderRadius:            cloneInt(s.BorderRadius),
		BorderTopLeftRadius:     cloneInt(s.BorderTopLeftRadius),
		BorderTopRightRadius:    cloneInt(s.BorderTopRightRadius),
		BorderBottomRightRadius: cloneInt(s.BorderBottomRightRadius),
		BorderBottomLeftRadius:  cloneInt(s.BorderBottomLeftRadius),
		Padding:                 cloneInt(s.Padding),
		PaddingTop:              cloneInt(s.PaddingTop),
		PaddingRight:            cloneInt(s.PaddingRight),
		PaddingBottom:           cloneInt(s.PaddingBottom),
		PaddingLeft:             cloneInt(s.PaddingLeft),
		MarginVertical:          cloneInt(s.MarginVertical),
	}
}

// EmailSettings holds document-wide rendering settings
type EmailSettings struct {
	Width                  int    `json:"width,omitempty"`
	FontFamily             string `json:"fontFamily,omitempty"`
	BackgroundColor        string `json:"backgroundColor,omitempty"`
	ContentBackgroundColor string `json:"contentBackgroundColor,omitempty"`
	Responsive             bool   `json:"responsive"`
	PreheaderText          string `json:"preheaderText,omitempty"`
	Title                  string `json:"title,omitempty"`
}

// Document is the persisted unit: ordered top-level blocks plus settings
type Document struct {
	Blocks   []Block        `json:"blocks"`
	Settings *EmailSettings `json:"settings,omitempty"`
}

// SocialLink is one network entry of a footer or social icons block
type SocialLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

type HeaderImageData struct {
	Src     string `json:"src"`
	Alt     string `json:"alt"`
	LinkURL string `json:"linkUrl,omitempty"`
}

type ImageData struct {
	Src     string `json:"src"`
	Alt     string `json:"alt"`
	LinkURL string `json:"linkUrl,omitempty"`
	// Width in pixels, 0 means the full available width
	Width int    `json:"width,omitempty"`
	Align string `json:"align,omitempty"`
}

type GifData struct {
	Src     string `json:"src"`
	Alt     string `json:"alt"`
	LinkURL string `json:"linkUrl,omitempty"`
	Width   int    `json:"width,omitempty"`
	Align   string `json:"align,omitempty"`
}

// TextBlockData carries rich-text HTML produced by the text sub-editor.
// Content is trusted as sanitized upstream and is emitted verbatim.
type TextBlockData struct {
	Content    string  `json:"content"`
	FontFamily string  `json:"fontFamily,omitempty"`
	FontSize   int     `json:"fontSize,omitempty"`
	Color      string  `json:"color,omitempty"`
	LineHeight float64 `json:"lineHeight,omitempty"`
	Align      string  `json:"align,omitempty"`
}

type ButtonData struct {
	Text            string `json:"text"`
	URL             string `json:"url"`
	BackgroundColor string `json:"backgroundColor,omitempty"`
	TextColor       string `json:"textColor,omitempty"`
	FontSize        int    `json:"fontSize,omitempty"`
	BorderRadius    int    `json:"borderRadius,omitempty"`
	Align           string `json:"align,omitempty"`
	FullWidth       bool   `json:"fullWidth,omitempty"`
}

type DividerData struct {
	Color     string `json:"color,omitempty"`
	Thickness int    `json:"thickness,omitempty"`
	LineStyle string `json:"lineStyle,omitempty"`
	// Width as a percentage of the available width
	Width int `json:"width,omitempty"`
}

type FooterData struct {
	CompanyName     string       `json:"companyName"`
	Address         string       `json:"address,omitempty"`
	UnsubscribeURL  string       `json:"unsubscribeUrl,omitempty"`
	UnsubscribeText string       `json:"unsubscribeText,omitempty"`
	Copyright       string       `json:"copyright,omitempty"`
	ShowSocialIcons bool         `json:"showSocialIcons"`
	SocialLinks     []SocialLink `json:"socialLinks,omitempty"`
	TextColor       string       `json:"textColor,omitempty"`
	FontSize        int          `json:"fontSize,omitempty"`
}

type SpacerData struct {
	Height int `json:"height"`
}

// ColumnsData holds a fixed number of column slots.
// len(Columns) always equals ColumnCount.
type ColumnsData struct {
	ColumnCount     int       `json:"columnCount"`
	Columns         [][]Block `json:"columns"`
	Gap             int       `json:"gap"`
	BackgroundColor string    `json:"backgroundColor,omitempty"`
	VerticalAlign   string    `json:"verticalAlign,omitempty"`
}

type ContainerData struct {
	Children         []Block `json:"children"`
	DesktopDirection string  `json:"desktopDirection,omitempty"`
	MobileDirection  string  `json:"mobileDirection,omitempty"`
	MaxWidth         int     `json:"maxWidth,omitempty"`
	Align            string  `json:"align,omitempty"`
	BackgroundColor  string  `json:"backgroundColor,omitempty"`
	BorderWidth      int     `json:"borderWidth,omitempty"`
	BorderStyle      string  `json:"borderStyle,omitempty"`
	BorderColor      string  `json:"borderColor,omitempty"`
	BorderRadius     int     `json:"borderRadius,omitempty"`
	Padding          int     `json:"padding,omitempty"`
	BackgroundImage  string  `json:"backgroundImage,omitempty"`
}

type SocialIconsData struct {
	Links    []SocialLink `json:"links"`
	IconSize int          `json:"iconSize,omitempty"`
	Align    string       `json:"align,omitempty"`
	Spacing  int          `json:"spacing,omitempty"`
}

func (HeaderImageData) BlockType() BlockType { return BlockTypeHeaderImage }
func (ImageData) BlockType() BlockType       { return BlockTypeImage }
func (GifData) BlockType() BlockType         { return BlockTypeGif }
func (TextBlockData) BlockType() BlockType   { return BlockTypeTextBlock }
func (ButtonData) BlockType() BlockType      { return BlockTypeButton }
func (DividerData) BlockType() BlockType     { return BlockTypeDivider }
func (FooterData) BlockType() BlockType      { return BlockTypeFooter }
func (SpacerData) BlockType() BlockType      { return BlockTypeSpacer }
func (ColumnsData) BlockType() BlockType     { return BlockTypeColumns }
func (ContainerData) BlockType() BlockType   { return BlockTypeContainer }
func (SocialIconsData) BlockType() BlockType { return BlockTypeSocialIcons }

func (HeaderImageData) isBlockData() {}
func (ImageData) isBlockData()       {}
func (GifData) isBlockData()         {}
func (TextBlockData) isBlockData()   {}
func (ButtonData) isBlockData()      {}
func (DividerData) isBlockData()     {}
func (FooterData) isBlockData()      {}
func (SpacerData) isBlockData()      {}
func (ColumnsData) isBlockData()     {}
func (ContainerData) isBlockData()   {}
func (SocialIconsData) isBlockData() {}

// blockJSON is the wire shape used while decoding a Block
type blockJSON struct {
	ID    string          `json:"id"`
	Type  BlockType       `json:"type"`
	Data  json.RawMessage `json:"data"`
	Style *BlockStyle     `json:"style,omitempty"`
}

// UnmarshalJSON decodes a block by reading the type discriminant first and
// then decoding data on top of the type's defaults
func (b *Block) UnmarshalJSON(data []byte) error {
	blockType := BlockType(gjson.GetBytes(data, "type").String())
	if !blockType.IsValid() {
		return fmt.Errorf("unknown block type %q", blockType)
	}

	var raw blockJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to unmarshal block: %w", err)
	}

	decoded, err := decodeBlockData(blockType, raw.Data)
	if err != nil {
		return fmt.Errorf("failed to unmarshal %s data for block %q: %w", blockType, raw.ID, err)
	}

	b.ID = raw.ID
	b.Type = blockType
	b.Data = decoded
	b.Style = raw.Style
	return nil
}

// decodeBlockData decodes raw into the variant struct for t, starting from the
// type's defaults so that absent fields keep their default values
func decodeBlockData(t BlockType, raw json.RawMessage) (BlockData, error) {
	start := DefaultData(t)
	if start == nil {
		return nil, fmt.Errorf("unknown block type %q", t)
	}
	return PatchBlockData(start, raw)
}

// DecodeBlockData decodes raw as the data of a t block on top of its defaults
func DecodeBlockData(t BlockType, raw json.RawMessage) (BlockData, error) {
	return decodeBlockData(t, raw)
}

// PatchBlockData overlays the fields present in raw on current. Arrays in raw
// replace the existing slices rather than merging element-wise.
func PatchBlockData(current BlockData, raw json.RawMessage) (BlockData, error) {
	hasData := len(raw) > 0 && string(raw) != "null"

	switch d := current.(type) {
	case HeaderImageData:
		return decodeInto(raw, hasData, d)
	case ImageData:
		return decodeInto(raw, hasData, d)
	case GifData:
		return decodeInto(raw, hasData, d)
	case TextBlockData:
		return decodeInto(raw, hasData, d)
	case ButtonData:
		return decodeInto(raw, hasData, d)
	case DividerData:
		return decodeInto(raw, hasData, d)
	case FooterData:
		if hasData && gjson.GetBytes(raw, "socialLinks").Exists() {
			d.SocialLinks = nil
		}
		return decodeInto(raw, hasData, d)
	case SpacerData:
		return decodeInto(raw, hasData, d)
	case ColumnsData:
		if hasData && gjson.GetBytes(raw, "columns").Exists() {
			d.Columns = nil
		}
		return decodeInto(raw, hasData, d)
	case ContainerData:
		if hasData && gjson.GetBytes(raw, "children").Exists() {
			d.Children = nil
		}
		return decodeInto(raw, hasData, d)
	case SocialIconsData:
		if hasData && gjson.GetBytes(raw, "links").Exists() {
			d.Links = nil
		}
		return decodeInto(raw, hasData, d)
	default:
		return nil, fmt.Errorf("unsupported block data %T", current)
	}
}

func decodeInto[T BlockData](raw json.RawMessage, hasData bool, d T) (BlockData, error) {
	if !hasData {
		return d, nil
	}
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, err
	}
	return d, nil
}

// ParseDocument decodes a persisted JSON document
func ParseDocument(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("failed to unmarshal document: %w", err)
	}
	if doc.Blocks == nil {
		doc.Blocks = []Block{}
	}
	return doc, nil
}

// NewDocument returns an empty document with default settings
func NewDocument() Document {
	settings := DefaultSettings()
	return Document{Blocks: []Block{}, Settings: &settings}
}

// EffectiveSettings returns the document settings with defaults applied
func (d Document) EffectiveSettings() EmailSettings {
	s := DefaultSettings()
	if d.Settings == nil {
		return s
	}
	if d.Settings.Width > 0 {
		s.Width = d.Settings.Width
	}
	if d.Settings.FontFamily != "" {
		s.FontFamily = d.Settings.FontFamily
	}
	if d.Settings.BackgroundColor != "" {
		s.BackgroundColor = d.Settings.BackgroundColor
	}
	if d.Settings.ContentBackgroundColor != "" {
		s.ContentBackgroundColor = d.Settings.ContentBackgroundColor
	}
	s.Responsive = d.Settings.Responsive
	s.PreheaderText = d.Settings.PreheaderText
	s.Title = d.Settings.Title
	return s
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneInt(i *int) *int {
	if i == nil {
		return nil
	}
	v := *i
	return &v
}

// IntPtr returns a pointer to i
func IntPtr(i int) *int { return &i }

// StringPtr returns a pointer to s
func StringPtr(s string) *string { return &s }
