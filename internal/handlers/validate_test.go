// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"strings"
	"testing"
)

func TestValidatePost(t *testing.T) {
	if errs := validatePost("A title", "a-title", "body", "", "", ""); !errs.ok() {
		t.Errorf("valid post rejected: %v", errs)
	}

	errs := validatePost("", "", "body", "", "", "")
	if errs["title"] == "" {
		t.Error("missing title not flagged")
	}

	long := strings.Repeat("x", 301)
	errs = validatePost(long, "", "", "", "", "")
	if errs["title"] == "" {
		t.Error("overlong title not flagged")
	}

	errs = validatePost("ok", strings.Repeat("a", 301), "", "", "", "")
	if errs["slug"] == "" {
		t.Error("overlong slug not flagged")
	}

	errs = validatePost("ok", "", "", strings.Repeat("e", 1001), strings.Repeat("d", 501), strings.Repeat("k", 501))
	for _, field := range []string{"excerpt", "seo_description", "seo_keywords"} {
		if errs[field] == "" {
			t.Errorf("overlong %s not flagged", field)
		}
	}
}

func TestValidatePostCountsRunesNotBytes(t *testing.T) {
	// 300 multi-byte runes are within the limit even though the byte
	// count is far above it.
	title := strings.Repeat("ä", 300)
	if errs := validatePost(title, "", "", "", "", ""); errs["title"] != "" {
		t.Error("300-rune title should pass")
	}
}

func TestValidateNamed(t *testing.T) {
	if errs := validateNamed("Go", "go"); !errs.ok() {
		t.Errorf("valid name rejected: %v", errs)
	}
	if errs := validateNamed("  ", ""); errs["name"] == "" {
		t.Error("blank name not flagged")
	}
	if errs := validateNamed("ok", strings.Repeat("s", 301)); errs["slug"] == "" {
		t.Error("overlong slug not flagged")
	}
}
