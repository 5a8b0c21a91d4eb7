package markdown

import (
	"strings"
	"testing"
)

func TestToHTMLBasics(t *testing.T) {
	out, err := ToHTML("# Title\n\nSome **bold** text.")
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	if !strings.Contains(out, "<h1 id=\"title\">Title</h1>") {
		t.Errorf("heading with auto ID missing: %q", out)
	}
	if !strings.Contains(out, "<strong>bold</strong>") {
		t.Errorf("bold missing: %q", out)
	}
}

func TestToHTMLGFMTable(t *testing.T) {
	out, err := ToHTML("| a | b |\n|---|---|\n| 1 | 2 |")
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	if !strings.Contains(out, "<table>") {
		t.Errorf("GFM table not rendered: %q", out)
	}
}

func TestToHTMLRawHTMLPassthrough(t *testing.T) {
	out, err := ToHTML("before\n\n<div class=\"note\">raw</div>\n\nafter")
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	if !strings.Contains(out, `<div class="note">raw</div>`) {
		t.Errorf("raw HTML should pass through: %q", out)
	}
}

func TestToHTMLCodeHighlighting(t *testing.T) {
	out, err := ToHTML("```go\nfmt.Println(\"hi\")\n```")
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	if !strings.Contains(out, "<pre") {
		t.Errorf("fenced code block not rendered: %q", out)
	}
}
