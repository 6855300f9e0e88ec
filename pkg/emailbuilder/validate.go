package emailbuilder

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/aymerick/douceur/parser"
)

// ValidationResult is the outcome of ValidateSpamFreeHTML
type ValidationResult struct {
	Valid   bool     `json:"valid"`
	Reasons []string `json:"reasons,omitempty"`
}

// ValidateSpamFreeHTML checks exported markup for constructs mail clients
// and spam filters reject: script and style elements, embedded frames and
// forms, external stylesheets, inline event handlers and script URLs
func ValidateSpamFreeHTML(html string) ValidationResult {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ValidationResult{Valid: false, Reasons: []string{fmt.Sprintf("unparseable html: %v", err)}}
	}

	var reasons []string

	if n := doc.Find("script").Length(); n > 0 {
		reasons = append(reasons, fmt.Sprintf("contains %d <script> element(s)", n))
	}

	if n := doc.Find("style").Length(); n > 0 {
		reasons = append(reasons, fmt.Sprintf("contains %d <style> block(s)", n))
	}

	for _, tag := range []string{"iframe", "frame", "object", "embed", "form"} {
		if n := doc.Find(tag).Length(); n > 0 {
			reasons = append(reasons, fmt.Sprintf("contains %d <%s> element(s)", n, tag))
		}
	}

	doc.Find("link").Each(func(_ int, s *goquery.Selection) {
		rel, _ := s.Attr("rel")
		if strings.Contains(strings.ToLower(rel), "stylesheet") {
			href, _ := s.Attr("href")
			reasons = append(reasons, fmt.Sprintf("links external stylesheet %q", href))
		}
	})

	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		for _, a := range s.Nodes[0].Attr {
			key := strings.ToLower(a.Key)
			if strings.HasPrefix(key, "on") {
				reasons = append(reasons, fmt.Sprintf("<%s> has inline event handler %q", goquery.NodeName(s), a.Key))
				continue
			}
			if urlAttributes[key] && isScriptURL(a.Val) {
				reasons = append(reasons, fmt.Sprintf("<%s %s> uses a script URL", goquery.NodeName(s), a.Key))
			}
		}
	})

	return ValidationResult{Valid: len(reasons) == 0, Reasons: reasons}
}

var urlAttributes = map[string]bool{
	"href": true, "src": true, "action": true, "formaction": true, "background": true, "poster": true,
}

// isScriptURL ignores the whitespace and control characters browsers skip
// when reading a URL scheme
func isScriptURL(raw string) bool {
	compact := strings.Map(func(r rune) rune {
		if r <= ' ' {
			return -1
		}
		return r
	}, raw)
	compact = strings.ToLower(compact)
	return strings.HasPrefix(compact, "javascript:") || strings.HasPrefix(compact, "vbscript:")
}

// InlineStyleIssues parses every style attribute as a CSS declaration list
// and reports the ones that do not parse or are empty
func InlineStyleIssues(html string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return []string{fmt.Sprintf("unparseable html: %v", err)}
	}

	var issues []string
	doc.Find("[style]").Each(func(_ int, s *goquery.Selection) {
		style, _ := s.Attr("style")
		source := strings.TrimSpace(style)
		if source != "" && !strings.HasSuffix(source, ";") {
			source += ";"
		}
		decls, err := parser.ParseDeclarations(source)
		if err != nil {
			issues = append(issues, fmt.Sprintf("<%s style=%q>: %v", goquery.NodeName(s), style, err))
			return
		}
		for _, d := range decls {
			if d.Property == "" || d.Value == "" {
				issues = append(issues, fmt.Sprintf("<%s style=%q>: empty declaration", goquery.NodeName(s), style))
				return
			}
		}
	})
	return issues
}
