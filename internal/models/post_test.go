package models

import "testing"

func TestValidStatus(t *testing.T) {
	valid := []PostStatus{PostStatusDraft, PostStatusPublished, PostStatusScheduled, PostStatusArchived}
	for _, s := range valid {
		if !ValidStatus(s) {
			t.Errorf("ValidStatus(%q) = false, want true", s)
		}
	}

	invalid := []PostStatus{"", "DRAFT", "live", "deleted"}
	for _, s := range invalid {
		if ValidStatus(s) {
			t.Errorf("ValidStatus(%q) = true, want false", s)
		}
	}
}

func TestPost_IsPublished(t *testing.T) {
	p := &Post{Status: PostStatusPublished}
	if !p.IsPublished() {
		t.Error("published post reported not published")
	}

	for _, s := range []PostStatus{PostStatusDraft, PostStatusScheduled, PostStatusArchived} {
		p.Status = s
		if p.IsPublished() {
			t.Errorf("%q post reported published", s)
		}
	}
}

func TestPost_ExcerptText(t *testing.T) {
	p := &Post{}
	if got := p.ExcerptText(); got != "" {
		t.Errorf("ExcerptText() with nil excerpt = %q, want empty", got)
	}

	e := "a short summary"
	p.Excerpt = &e
	if got := p.ExcerptText(); got != e {
		t.Errorf("ExcerptText() = %q, want %q", got, e)
	}
}

func TestMedia_HumanSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{512, "512 B"},
		{2048, "2 KB"},
		{3 * 1024 * 1024, "3.0 MB"},
	}

	for _, tt := range tests {
		m := &Media{SizeBytes: tt.bytes}
		if got := m.HumanSize(); got != tt.want {
			t.Errorf("HumanSize(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}

func TestMedia_IsImage(t *testing.T) {
	if !(&Media{ContentType: "image/png"}).IsImage() {
		t.Error("image/png not detected as image")
	}
	if (&Media{ContentType: "application/pdf"}).IsImage() {
		t.Error("application/pdf detected as image")
	}
}
