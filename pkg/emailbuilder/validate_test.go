package emailbuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSpamFreeHTML(t *testing.T) {
	tests := []struct {
		name    string
		html    string
		valid   bool
		reasons int
	}{
		{"plain table", `<table><tr><td style="color:red">hi</td></tr></table>`, true, 0},
		{"script tag", `<div><script>alert(1)</script></div>`, false, 1},
		{"style block", `<html><head><style>p{}</style></head><body></body></html>`, false, 1},
		{"external stylesheet", `<link rel="stylesheet" href="https://x/a.css">`, false, 1},
		{"event handler", `<img src="x" onerror="alert(1)"><a onClick="y()">z</a>`, false, 2},
		{"icon link is fine", `<link rel="icon" href="/favicon.ico">`, true, 0},
		{"iframe and form", `<iframe src="https://x.example.com"></iframe><form action="/p"></form>`, false, 2},
		{"javascript href", `<a href="javascript:alert(1)">x</a>`, false, 1},
		{"obfuscated scheme", `<a href=" Java&#09;Script:alert(1)">x</a><img src="vbscript:x">`, false, 2},
		{"link wrapping frame and form", `<a href="javascript:alert(1)"><iframe></iframe><form></form></a>`, false, 3},
		{"ordinary urls", `<a href="https://shop.example.com/?q=javascript:">x</a><a href="mailto:a@example.com">m</a><img src="https://cdn.example.com/a.png">`, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidateSpamFreeHTML(tt.html)
			assert.Equal(t, tt.valid, res.Valid)
			assert.Len(t, res.Reasons, tt.reasons)
		})
	}
}

func TestInlineStyleIssues(t *testing.T) {
	assert.Empty(t, InlineStyleIssues(`<td style="padding:10px 25px;color:#333">x</td>`))
	assert.NotEmpty(t, InlineStyleIssues(`<p style="color:">x</p>`))
}
