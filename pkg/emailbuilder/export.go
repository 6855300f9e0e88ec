package emailbuilder

import (
	"fmt"
	"strconv"
	"strings"
)

// SocialIconCDN is the base URL social network icons are served from
const SocialIconCDN = "https://img.icons8.com/color/48/"

var socialIconNames = map[string]string{
	"facebook":  "facebook-new",
	"twitter":   "twitterx",
	"x":         "twitterx",
	"instagram": "instagram-new",
	"linkedin":  "linkedin",
	"youtube":   "youtube-play",
	"tiktok":    "tiktok",
	"pinterest": "pinterest",
	"github":    "github",
	"whatsapp":  "whatsapp",
	"email":     "email",
}

// SocialIconURL returns the CDN icon for a platform, or "" for unknown ones
func SocialIconURL(platform string) string {
	name, ok := socialIconNames[strings.ToLower(strings.TrimSpace(platform))]
	if !ok {
		return ""
	}
	return SocialIconCDN + name + ".png"
}

const presentationTable = `<table role="presentation" cellpadding="0" cellspacing="0" border="0"`

// ExportHTML renders the document as a standalone, table-based HTML email
// with inline styles only. The output depends only on the document: the same
// document always yields the same bytes.
func ExportHTML(doc Document) string {
	settings := doc.EffectiveSettings()
	e := &exporter{settings: settings}

	var sb strings.Builder
	e.writeHead(&sb)

	body := &styleBuilder{}
	body.add("margin", "0").add("padding", "0").addColor("background-color", settings.BackgroundColor)
	sb.WriteString("<body" + body.attr() + ">\n")

	if settings.PreheaderText != "" {
		sb.WriteString(`<div style="display:none;max-height:0;overflow:hidden;mso-hide:all;">`)
		sb.WriteString(escapeHTML(settings.PreheaderText))
		sb.WriteString("</div>\n")
	}

	outer := &styleBuilder{}
	outer.addColor("background-color", settings.BackgroundColor)
	sb.WriteString(presentationTable + ` width="100%"` + outer.attr() + ">\n")
	sb.WriteString("<tr>\n<td align=\"center\">\n")

	content := &styleBuilder{}
	if settings.Responsive {
		content.add("width", "100%").add("max-width", px(settings.Width))
	} else {
		content.add("width", px(settings.Width))
	}
	content.addColor("background-color", settings.ContentBackgroundColor).
		add("font-family", SafeCSSValue(settings.FontFamily))
	sb.WriteString(presentationTable + attr("width", strconv.Itoa(settings.Width)) + content.attr() + ">\n")

	for _, b := range doc.Blocks {
		e.writeBlockRow(&sb, b, settings.Width, false)
	}

	sb.WriteString("</table>\n</td>\n</tr>\n</table>\n</body>\n</html>\n")
	return sb.String()
}

type exporter struct {
	settings EmailSettings
}

func (e *exporter) writeHead(sb *strings.Builder) {
	sb.WriteString("<!DOCTYPE html>\n")
	sb.WriteString(`<html lang="en" xmlns="http://www.w3.org/1999/xhtml" xmlns:v="urn:schemas-microsoft-com:vml" xmlns:o="urn:schemas-microsoft-com:office:office">` + "\n")
	sb.WriteString("<head>\n")
	sb.WriteString(`<meta charset="UTF-8">` + "\n")
	sb.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1.0">` + "\n")
	sb.WriteString(`<meta http-equiv="X-UA-Compatible" content="IE=edge">` + "\n")
	sb.WriteString(`<meta name="x-apple-disable-message-reformatting">` + "\n")
	sb.WriteString("<title>" + escapeHTML(e.settings.Title) + "</title>\n")
	sb.WriteString("<!--[if mso]>\n<xml><o:OfficeDocumentSettings><o:AllowPNG/><o:PixelsPerInch>96</o:PixelsPerInch></o:OfficeDocumentSettings></xml>\n<![endif]-->\n")
	sb.WriteString("</head>\n")
}

// writeBlockRow writes one <tr> for b laid out in width pixels. Layout blocks
// found below the top level are skipped.
func (e *exporter) writeBlockRow(sb *strings.Builder, b Block, width int, nested bool) {
	if b.Data == nil || (nested && b.Type.IsLayout()) {
		return
	}

	eff := ResolveEffectiveStyle(b.Type, b.Style)

	if eff.MarginVertical > 0 {
		sb.WriteString("<tr>\n<td" + attr("style", "padding:"+px(eff.MarginVertical)+" 0;") + ">\n")
		sb.WriteString(presentationTable + ` width="100%">` + "\n")
		e.writeBlockCell(sb, b, eff, width)
		sb.WriteString("</table>\n</td>\n</tr>\n")
		return
	}
	e.writeBlockCell(sb, b, eff, width)
}

// writeBlockCell writes the <tr><td> carrying the block's resolved style
// followed by its type-specific content
func (e *exporter) writeBlockCell(sb *strings.Builder, b Block, eff EffectiveStyle, width int) {
	inner := innerWidth(width, eff)

	style := &styleBuilder{}
	style.add("padding", sidesCSS(eff.Padding))
	style.addColor("background-color", eff.BackgroundColor)
	if eff.Border.Visible() {
		style.add("border", px(eff.Border.Width)+" "+SafeCSSValue(eff.Border.Style)+" "+SafeCSSValue(eff.Border.Color))
	}
	if !eff.Radius.IsZero() {
		style.add("border-radius", cornersCSS(eff.Radius))
	}

	attrs := ""
	var content strings.Builder

	switch data := b.Data.(type) {
	case HeaderImageData:
		e.writeHeaderImage(&content, data, inner)
	case ImageData:
		attrs = attr("align", normalizeAlign(data.Align))
		e.writeImage(&content, data.Src, data.Alt, data.LinkURL, data.Width, data.Align, inner)
	case GifData:
		attrs = attr("align", normalizeAlign(data.Align))
		e.writeImage(&content, data.Src, data.Alt, data.LinkURL, data.Width, data.Align, inner)
	case TextBlockData:
		e.textStyle(style, data)
		content.WriteString(data.Content)
	case ButtonData:
		attrs = attr("align", normalizeAlign(data.Align))
		e.writeButton(&content, data)
	case DividerData:
		e.writeDivider(&content, data)
	case FooterData:
		attrs = attr("align", "center")
		e.writeFooter(&content, style, data)
	case SpacerData:
		height := max(data.Height, 0)
		attrs = attr("height", strconv.Itoa(height))
		style.add("height", px(height)).add("font-size", "1px").add("line-height", "1px")
		content.WriteString("&nbsp;")
	case SocialIconsData:
		attrs = attr("align", normalizeAlign(data.Align))
		writeSocialIcons(&content, data.Links, data.IconSize, data.Spacing, data.Align)
	case ColumnsData:
		e.writeColumns(&content, data, inner)
	case ContainerData:
		attrs = attr("align", normalizeAlign(data.Align))
		e.writeContainer(&content, data, inner)
	}

	sb.WriteString("<tr>\n<td" + attrs + style.attr() + ">\n")
	sb.WriteString(content.String())
	sb.WriteString("\n</td>\n</tr>\n")
}

// innerWidth is the width left for content once padding and border are taken
func innerWidth(width int, eff EffectiveStyle) int {
	w := width - eff.Padding.Left - eff.Padding.Right
	if eff.Border.Visible() {
		w -= 2 * eff.Border.Width
	}
	return max(w, 0)
}

func (e *exporter) writeHeaderImage(sb *strings.Builder, d HeaderImageData, width int) {
	img := "<img" + attr("src", SafeURL(d.Src)) + attr("alt", d.Alt) + attr("width", strconv.Itoa(width)) +
		attr("style", "display:block;width:100%;max-width:"+px(width)+";height:auto;border:0;outline:none;text-decoration:none;") + ">"
	writeLinked(sb, d.LinkURL, img)
}

func (e *exporter) writeImage(sb *strings.Builder, src, alt, link string, w int, align string, width int) {
	if w <= 0 || w > width {
		w = width
	}
	style := &styleBuilder{}
	style.add("display", "block").add("max-width", "100%").add("height", "auto").add("border", "0")
	switch normalizeAlign(align) {
	case "center":
		style.add("margin", "0 auto")
	case "right":
		style.add("margin", "0 0 0 auto")
	}
	img := "<img" + attr("src", SafeURL(src)) + attr("alt", alt) + attr("width", strconv.Itoa(w)) + style.attr() + ">"
	writeLinked(sb, link, img)
}

func writeLinked(sb *strings.Builder, link, inner string) {
	href := SafeURL(link)
	if href == "" {
		sb.WriteString(inner)
		return
	}
	sb.WriteString("<a" + attr("href", href) + ` target="_blank" style="text-decoration:none;">` + inner + "</a>")
}

func (e *exporter) textStyle(style *styleBuilder, d TextBlockData) {
	font := d.FontFamily
	if font == "" {
		font = e.settings.FontFamily
	}
	style.add("font-family", SafeCSSValue(font))
	if d.FontSize > 0 {
		style.add("font-size", px(d.FontSize))
	}
	if d.LineHeight > 0 {
		style.add("line-height", formatFloat(d.LineHeight))
	}
	style.addColor("color", d.Color)
	style.add("text-align", normalizeTextAlign(d.Align))
}

// writeButton renders the anchor inside a one-cell table whose cell carries
// the background colour and corner radius
func (e *exporter) writeButton(sb *strings.Builder, d ButtonData) {
	cell := &styleBuilder{}
	cell.addColor("background-color", d.BackgroundColor)
	if d.BorderRadius > 0 {
		cell.add("border-radius", px(d.BorderRadius))
	}

	display := "inline-block"
	if d.FullWidth {
		display = "block"
	}
	link := &styleBuilder{}
	link.add("display", display).
		add("padding", "12px 24px").
		add("font-family", SafeCSSValue(e.settings.FontFamily))
	if d.FontSize > 0 {
		link.add("font-size", px(d.FontSize))
	}
	link.add("font-weight", "bold").add("line-height", "1.2").addColor("color", d.TextColor).add("text-decoration", "none")
	if d.BorderRadius > 0 {
		link.add("border-radius", px(d.BorderRadius))
	}

	table := presentationTable + attr("align", normalizeAlign(d.Align))
	if d.FullWidth {
		table += ` width="100%"`
	}
	sb.WriteString(table + ">\n<tr>\n")
	sb.WriteString(`<td align="center"` + attrIfSet("bgcolor", SafeCSSValue(d.BackgroundColor)) + cell.attr() + ">")
	sb.WriteString("<a" + attr("href", SafeURL(d.URL)) + ` target="_blank"` + link.attr() + ">" + escapeHTML(d.Text) + "</a>")
	sb.WriteString("</td>\n</tr>\n</table>")
}

func attrIfSet(name, value string) string {
	if value == "" {
		return ""
	}
	return attr(name, value)
}

func (e *exporter) writeDivider(sb *strings.Builder, d DividerData) {
	width := d.Width
	if width <= 0 || width > 100 {
		width = 100
	}
	thickness := max(d.Thickness, 1)
	lineStyle := d.LineStyle
	switch lineStyle {
	case "solid", "dashed", "dotted":
	default:
		lineStyle = "solid"
	}
	rule := &styleBuilder{}
	rule.add("border-top", px(thickness)+" "+lineStyle+" "+SafeCSSValue(d.Color)).
		add("font-size", "1px").add("line-height", "1px").add("height", "1px")

	sb.WriteString(presentationTable + attr("width", strconv.Itoa(width)+"%") + ` align="center">` + "\n")
	sb.WriteString("<tr>\n<td" + rule.attr() + ">&nbsp;</td>\n</tr>\n</table>")
}

func (e *exporter) writeFooter(sb *strings.Builder, style *styleBuilder, d FooterData) {
	style.add("font-family", SafeCSSValue(e.settings.FontFamily))
	if d.FontSize > 0 {
		style.add("font-size", px(d.FontSize))
	}
	style.add("line-height", "1.5").addColor("color", d.TextColor).add("text-align", "center")

	para := `<p style="margin:0 0 8px 0;">`
	if d.CompanyName != "" {
		sb.WriteString(`<p style="margin:0 0 8px 0;font-weight:bold;">` + escapeHTML(d.CompanyName) + "</p>\n")
	}
	if d.Address != "" {
		sb.WriteString(para + escapeHTML(d.Address) + "</p>\n")
	}
	if d.ShowSocialIcons && len(d.SocialLinks) > 0 {
		writeSocialIcons(sb, d.SocialLinks, 24, 8, "center")
		sb.WriteString("\n")
	}
	if href := SafeURL(d.UnsubscribeURL); href != "" {
		text := d.UnsubscribeText
		if text == "" {
			text = "Unsubscribe"
		}
		link := &styleBuilder{}
		link.addColor("color", d.TextColor).add("text-decoration", "underline")
		sb.WriteString(para + "<a" + attr("href", href) + ` target="_blank"` + link.attr() + ">" + escapeHTML(text) + "</a></p>\n")
	}
	copyright := d.Copyright
	if copyright == "" && d.CompanyName != "" {
		copyright = "© " + d.CompanyName
	}
	if copyright != "" {
		sb.WriteString(`<p style="margin:0;">` + escapeHTML(copyright) + "</p>")
	}
}

func writeSocialIcons(sb *strings.Builder, links []SocialLink, size, spacing int, align string) {
	if size <= 0 {
		size = 32
	}
	half := max(spacing, 0) / 2

	sb.WriteString(presentationTable + attr("align", normalizeAlign(align)) + ">\n<tr>\n")
	for _, l := range links {
		icon := SocialIconURL(l.Platform)
		if icon == "" {
			continue
		}
		sb.WriteString("<td" + attr("style", "padding:0 "+px(half)+";") + ">")
		img := "<img" + attr("src", icon) + attr("alt", l.Platform) + attr("width", strconv.Itoa(size)) +
			attr("height", strconv.Itoa(size)) + ` style="display:block;border:0;">`
		writeLinked(sb, l.URL, img)
		sb.WriteString("</td>\n")
	}
	sb.WriteString("</tr>\n</table>")
}

// ColumnWidthPercent returns the width of one column for a column count
func ColumnWidthPercent(count int) string {
	switch count {
	case 2:
		return "50%"
	case 3:
		return "33.33%"
	default:
		return "100%"
	}
}

func (e *exporter) writeColumns(sb *strings.Builder, d ColumnsData, width int) {
	n := len(d.Columns)
	if n == 0 {
		return
	}
	gap := max(d.Gap, 0)
	childWidth := max((width-gap*(n-1))/n, 0)
	percent := ColumnWidthPercent(n)
	valign := normalizeVAlign(d.VerticalAlign)

	table := &styleBuilder{}
	table.addColor("background-color", d.BackgroundColor)
	sb.WriteString(presentationTable + ` width="100%"` + table.attr() + ">\n<tr>\n")

	for i, slot := range d.Columns {
		left, right := 0, 0
		if i > 0 {
			left = gap / 2
		}
		if i < n-1 {
			right = gap - gap/2
		}
		cell := &styleBuilder{}
		cell.add("width", percent).add("vertical-align", valign).
			add("padding", fmt.Sprintf("0 %s 0 %s", px(right), px(left)))
		sb.WriteString("<td" + attr("width", percent) + attr("valign", valign) + cell.attr() + ">\n")
		e.writeChildTable(sb, slot, childWidth)
		sb.WriteString("</td>\n")
	}

	sb.WriteString("</tr>\n</table>")
}

func (e *exporter) writeContainer(sb *strings.Builder, d ContainerData, width int) {
	if d.MaxWidth > 0 && d.MaxWidth < width {
		width = d.MaxWidth
	}
	padding := max(d.Padding, 0)
	border := Border{Width: d.BorderWidth, Style: d.BorderStyle, Color: d.BorderColor}

	style := &styleBuilder{}
	style.add("width", "100%").add("max-width", px(width))
	style.addColor("background-color", d.BackgroundColor)
	bg := SafeURL(d.BackgroundImage)
	if bg != "" {
		style.add("background-image", "url('"+cssURL(bg)+"')").add("background-size", "cover").add("background-position", "center")
	}
	if border.Visible() {
		style.add("border", px(border.Width)+" "+SafeCSSValue(border.Style)+" "+SafeCSSValue(border.Color))
	}
	if d.BorderRadius > 0 {
		style.add("border-radius", px(d.BorderRadius))
	}
	style.add("padding", px(padding))

	inner := width - 2*padding
	if border.Visible() {
		inner -= 2 * border.Width
	}
	inner = max(inner, 0)

	table := presentationTable + attr("width", strconv.Itoa(width)) + attr("align", normalizeAlign(d.Align))
	if bg != "" {
		table += attr("background", bg)
	}
	sb.WriteString(table + style.attr() + ">\n")

	children := renderableChildren(d.Children)
	switch {
	case len(children) == 0:
		sb.WriteString(emptyRow)
	case d.DesktopDirection == "row":
		n := len(children)
		percent := strconv.FormatFloat(100/float64(n), 'f', 2, 64) + "%"
		sb.WriteString("<tr>\n")
		for _, child := range children {
			sb.WriteString("<td" + attr("width", percent) + ` valign="top"` + attr("style", "width:"+percent+";vertical-align:top;") + ">\n")
			e.writeChildTable(sb, []Block{child}, inner/n)
			sb.WriteString("</td>\n")
		}
		sb.WriteString("</tr>\n")
	default:
		for _, child := range children {
			e.writeBlockRow(sb, child, inner, true)
		}
	}

	sb.WriteString("</table>")
}

const emptyRow = "<tr>\n<td style=\"font-size:1px;line-height:1px;\">&nbsp;</td>\n</tr>\n"

// writeChildTable wraps nested blocks in a full-width table. Empty slots get
// a placeholder row so the table stays valid.
func (e *exporter) writeChildTable(sb *strings.Builder, blocks []Block, width int) {
	sb.WriteString(presentationTable + ` width="100%">` + "\n")
	children := renderableChildren(blocks)
	if len(children) == 0 {
		sb.WriteString(emptyRow)
	}
	for _, child := range children {
		e.writeBlockRow(sb, child, width, true)
	}
	sb.WriteString("</table>\n")
}

func renderableChildren(blocks []Block) []Block {
	out := make([]Block, 0, len(blocks))
	for _, b := range blocks {
		if b.Data == nil || b.Type.IsLayout() {
			continue
		}
		out = append(out, b)
	}
	return out
}
