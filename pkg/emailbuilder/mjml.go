package emailbuilder

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	mjmlgo "github.com/Boostport/mjml-go"
)

// ToMJML renders the document as MJML markup. Every top-level block becomes
// one mj-section; Columns blocks map to one mj-column per slot and Container
// blocks to a single column holding their children.
func ToMJML(doc Document) string {
	settings := doc.EffectiveSettings()
	m := &mjmlWriter{settings: settings}

	var sb strings.Builder
	sb.WriteString("<mjml>\n<mj-head>\n")
	if settings.Title != "" {
		sb.WriteString("<mj-title>" + escapeHTML(settings.Title) + "</mj-title>\n")
	}
	if settings.PreheaderText != "" {
		sb.WriteString("<mj-preview>" + escapeHTML(settings.PreheaderText) + "</mj-preview>\n")
	}
	sb.WriteString("<mj-attributes>\n")
	sb.WriteString("<mj-all" + attr("font-family", SafeCSSValue(settings.FontFamily)) + " />\n")
	sb.WriteString("</mj-attributes>\n</mj-head>\n")
	sb.WriteString("<mj-body" + attr("width", px(settings.Width)) + attrIfSet("background-color", SafeCSSValue(settings.BackgroundColor)) + ">\n")

	for _, b := range doc.Blocks {
		m.writeSection(&sb, b)
	}

	sb.WriteString("</mj-body>\n</mjml>\n")
	return sb.String()
}

// CompileMJML renders the document to MJML and compiles it to HTML with the
// embedded MJML engine
func CompileMJML(ctx context.Context, doc Document) (string, string, error) {
	source := ToMJML(doc)
	out, err := mjmlgo.ToHTML(ctx, source)
	if err != nil {
		return source, "", fmt.Errorf("failed to compile mjml: %w", err)
	}
	return source, out, nil
}

type mjmlWriter struct {
	settings EmailSettings
}

func (m *mjmlWriter) writeSection(sb *strings.Builder, b Block) {
	if b.Data == nil {
		return
	}
	eff := ResolveEffectiveStyle(b.Type, b.Style)

	section := "<mj-section" + attr("padding", px(eff.MarginVertical)+" 0") +
		attrIfSet("background-color", SafeCSSValue(m.settings.ContentBackgroundColor))

	switch data := b.Data.(type) {
	case ColumnsData:
		sb.WriteString(section + ">\n")
		width := ColumnWidthPercent(len(data.Columns))
		for _, slot := range data.Columns {
			sb.WriteString("<mj-column" + attr("width", width) + attr("vertical-align", normalizeVAlign(data.VerticalAlign)) +
				attrIfSet("background-color", SafeCSSValue(data.BackgroundColor)) +
				attr("padding", sidesCSS(eff.Padding)) + ">\n")
			for _, child := range renderableChildren(slot) {
				m.writeContent(sb, child)
			}
			sb.WriteString("</mj-column>\n")
		}
		sb.WriteString("</mj-section>\n")

	case ContainerData:
		if bg := SafeURL(data.BackgroundImage); bg != "" {
			section += attr("background-url", bg) + ` background-size="cover"`
		}
		sb.WriteString(section + ">\n")
		col := "<mj-column" + attrIfSet("background-color", SafeCSSValue(data.BackgroundColor)) +
			attr("padding", px(max(data.Padding, 0)))
		border := Border{Width: data.BorderWidth, Style: data.BorderStyle, Color: data.BorderColor}
		if border.Visible() {
			col += attr("border", px(border.Width)+" "+SafeCSSValue(border.Style)+" "+SafeCSSValue(border.Color))
		}
		if data.BorderRadius > 0 {
			col += attr("border-radius", px(data.BorderRadius))
		}
		sb.WriteString(col + ">\n")
		for _, child := range renderableChildren(data.Children) {
			m.writeContent(sb, child)
		}
		sb.WriteString("</mj-column>\n</mj-section>\n")

	default:
		sb.WriteString(section + ">\n<mj-column>\n")
		m.writeContent(sb, b)
		sb.WriteString("</mj-column>\n</mj-section>\n")
	}
}

// writeContent writes the MJML element for a content block
func (m *mjmlWriter) writeContent(sb *strings.Builder, b Block) {
	eff := ResolveEffectiveStyle(b.Type, b.Style)
	common := attr("padding", sidesCSS(eff.Padding)) + attrIfSet("container-background-color", SafeCSSValue(eff.BackgroundColor))

	switch data := b.Data.(type) {
	case HeaderImageData:
		sb.WriteString("<mj-image" + attr("src", SafeURL(data.Src)) + attr("alt", data.Alt) +
			attrIfSet("href", SafeURL(data.LinkURL)) + common + " />\n")
	case ImageData:
		m.writeImage(sb, data.Src, data.Alt, data.LinkURL, data.Width, data.Align, eff, common)
	case GifData:
		m.writeImage(sb, data.Src, data.Alt, data.LinkURL, data.Width, data.Align, eff, common)
	case TextBlockData:
		el := "<mj-text" + common + attr("align", normalizeTextAlign(data.Align)) + attrIfSet("color", SafeCSSValue(data.Color))
		if data.FontFamily != "" {
			el += attr("font-family", SafeCSSValue(data.FontFamily))
		}
		if data.FontSize > 0 {
			el += attr("font-size", px(data.FontSize))
		}
		if data.LineHeight > 0 {
			el += attr("line-height", formatFloat(data.LineHeight))
		}
		sb.WriteString(el + ">" + data.Content + "</mj-text>\n")
	case ButtonData:
		el := "<mj-button" + common + attr("href", SafeURL(data.URL)) + attr("align", normalizeAlign(data.Align)) +
			attrIfSet("background-color", SafeCSSValue(data.BackgroundColor)) + attrIfSet("color", SafeCSSValue(data.TextColor)) +
			attr("border-radius", px(max(data.BorderRadius, 0)))
		if data.FontSize > 0 {
			el += attr("font-size", px(data.FontSize))
		}
		if data.FullWidth {
			el += ` width="100%"`
		}
		sb.WriteString(el + ">" + escapeHTML(data.Text) + "</mj-button>\n")
	case DividerData:
		width := data.Width
		if width <= 0 || width > 100 {
			width = 100
		}
		sb.WriteString("<mj-divider" + common + attr("border-color", SafeCSSValue(data.Color)) +
			attr("border-width", px(max(data.Thickness, 1))) + attr("border-style", dividerStyle(data.LineStyle)) +
			attr("width", strconv.Itoa(width)+"%") + " />\n")
	case SpacerData:
		sb.WriteString("<mj-spacer" + attr("height", px(max(data.Height, 0))) + " />\n")
	case SocialIconsData:
		m.writeSocial(sb, data.Links, data.IconSize, data.Align, common)
	case FooterData:
		m.writeFooter(sb, data, common)
	}
}

func (m *mjmlWriter) writeImage(sb *strings.Builder, src, alt, link string, w int, align string, eff EffectiveStyle, common string) {
	el := "<mj-image" + attr("src", SafeURL(src)) + attr("alt", alt) + attr("align", normalizeAlign(align)) +
		attrIfSet("href", SafeURL(link)) + common
	if w > 0 {
		el += attr("width", px(w))
	}
	if !eff.Radius.IsZero() {
		el += attr("border-radius", cornersCSS(eff.Radius))
	}
	sb.WriteString(el + " />\n")
}

func (m *mjmlWriter) writeSocial(sb *strings.Builder, links []SocialLink, size int, align, common string) {
	if size <= 0 {
		size = 32
	}
	sb.WriteString("<mj-social" + common + attr("align", normalizeAlign(align)) + attr("icon-size", px(size)) + ` mode="horizontal">` + "\n")
	for _, l := range links {
		icon := SocialIconURL(l.Platform)
		if icon == "" {
			continue
		}
		sb.WriteString("<mj-social-element" + attr("src", icon) + attr("href", SafeURL(l.URL)) + attr("alt", l.Platform) + " />\n")
	}
	sb.WriteString("</mj-social>\n")
}

func (m *mjmlWriter) writeFooter(sb *strings.Builder, d FooterData, common string) {
	var body strings.Builder
	if d.CompanyName != "" {
		body.WriteString("<p><strong>" + escapeHTML(d.CompanyName) + "</strong></p>")
	}
	if d.Address != "" {
		body.WriteString("<p>" + escapeHTML(d.Address) + "</p>")
	}
	if href := SafeURL(d.UnsubscribeURL); href != "" {
		text := d.UnsubscribeText
		if text == "" {
			text = "Unsubscribe"
		}
		body.WriteString("<p><a" + attr("href", href) + ">" + escapeHTML(text) + "</a></p>")
	}
	if d.Copyright != "" {
		body.WriteString("<p>" + escapeHTML(d.Copyright) + "</p>")
	}

	el := "<mj-text" + common + ` align="center"` + attrIfSet("color", SafeCSSValue(d.TextColor))
	if d.FontSize > 0 {
		el += attr("font-size", px(d.FontSize))
	}
	sb.WriteString(el + ">" + body.String() + "</mj-text>\n")

	if d.ShowSocialIcons && len(d.SocialLinks) > 0 {
		m.writeSocial(sb, d.SocialLinks, 24, "center", "")
	}
}

func dividerStyle(s string) string {
	switch s {
	case "solid", "dashed", "dotted":
		return s
	}
	return "solid"
}
