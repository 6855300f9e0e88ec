package emailbuilder

import (
	"html"
	"strconv"
	"strings"
)

// escapeHTML escapes &, <, >, " and ' for use in text and attribute values
func escapeHTML(s string) string {
	return html.EscapeString(s)
}

// attr renders ` name="value"` with the value escaped
func attr(name, value string) string {
	return " " + name + `="` + escapeHTML(value) + `"`
}

var allowedURLSchemes = []string{"http://", "https://", "mailto:", "tel:"}

// SafeURL returns raw when it is an http(s), mailto, tel, fragment, relative
// or merge-tag URL, and "#" otherwise
func SafeURL(raw string) string {
	u := strings.TrimSpace(raw)
	if u == "" {
		return ""
	}
	if strings.HasPrefix(u, "{{") {
		return u
	}
	lower := strings.ToLower(u)
	for _, scheme := range allowedURLSchemes {
		if strings.HasPrefix(lower, scheme) {
			return u
		}
	}
	// no scheme before the first path separator means a relative reference
	head := u
	if i := strings.IndexAny(u, "/?#"); i >= 0 {
		head = u[:i]
	}
	if !strings.Contains(head, ":") && !containsControl(u) {
		return u
	}
	return "#"
}

func containsControl(s string) bool {
	for _, r := range s {
		if r < 0x20 || r == 0x7f {
			return true
		}
	}
	return false
}

// SafeCSSValue strips characters that could end a declaration or open a
// nested construct, and rejects expression() and url() values
func SafeCSSValue(v string) string {
	v = strings.TrimSpace(v)
	lower := strings.ToLower(v)
	if strings.Contains(lower, "expression") || strings.Contains(lower, "url(") || strings.Contains(lower, "javascript") {
		return ""
	}
	var b strings.Builder
	for _, r := range v {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case strings.ContainsRune("#%(),.- '", r):
			b.WriteRune(r)
		}
	}
	return b.String()
}

// cssURL makes a URL safe to embed inside url('...')
func cssURL(u string) string {
	r := strings.NewReplacer("'", "%27", "(", "%28", ")", "%29", " ", "%20", `"`, "%22", "\\", "%5C")
	return r.Replace(u)
}

func px(v int) string {
	return strconv.Itoa(v) + "px"
}

// styleBuilder accumulates CSS declarations in insertion order
type styleBuilder struct {
	decls []string
}

func (s *styleBuilder) add(prop, value string) *styleBuilder {
	if value == "" {
		return s
	}
	s.decls = append(s.decls, prop+":"+value+";")
	return s
}

func (s *styleBuilder) addColor(prop, value string) *styleBuilder {
	return s.add(prop, SafeCSSValue(value))
}

func (s *styleBuilder) String() string {
	return strings.Join(s.decls, "")
}

func (s *styleBuilder) attr() string {
	if len(s.decls) == 0 {
		return ""
	}
	return attr("style", s.String())
}

func sidesCSS(s Sides) string {
	if s.Top == s.Right && s.Right == s.Bottom && s.Bottom == s.Left {
		return px(s.Top)
	}
	return px(s.Top) + " " + px(s.Right) + " " + px(s.Bottom) + " " + px(s.Left)
}

func cornersCSS(c Corners) string {
	if c.TopLeft == c.TopRight && c.TopRight == c.BottomRight && c.BottomRight == c.BottomLeft {
		return px(c.TopLeft)
	}
	return px(c.TopLeft) + " " + px(c.TopRight) + " " + px(c.BottomRight) + " " + px(c.BottomLeft)
}

func normalizeAlign(a string) string {
	switch a {
	case "left", "right", "center":
		return a
	}
	return "center"
}

func normalizeTextAlign(a string) string {
	switch a {
	case "left", "right", "center", "justify":
		return a
	}
	return "left"
}

func normalizeVAlign(a string) string {
	switch a {
	case "top", "middle", "bottom":
		return a
	}
	return "top"
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
