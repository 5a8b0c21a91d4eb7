// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"strings"
	"unicode/utf8"
)

// Validation limits for form fields.
const (
	maxTitleLen    = 300
	maxNameLen     = 200
	maxSlugLen     = 300
	maxBodyLen     = 200_000
	maxExcerptLen  = 1_000
	maxMetaDescLen = 500
	maxMetaKwLen   = 500
)

// FieldErrors maps form field names to validation messages.
type FieldErrors map[string]string

func (fe FieldErrors) ok() bool { return len(fe) == 0 }

// validatePost checks post form inputs and returns per-field errors.
func validatePost(title, slug, content, excerpt, seoDesc, seoKw string) FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(title) == "" {
		errs["title"] = "Title is required."
	} else if utf8.RuneCountInString(title) > maxTitleLen {
		errs["title"] = "Title is too long (max 300 characters)."
	}
	if utf8.RuneCountInString(slug) > maxSlugLen {
		errs["slug"] = "Slug is too long (max 300 characters)."
	}
	if utf8.RuneCountInString(content) > maxBodyLen {
		errs["content"] = "Content is too long (max 200,000 characters)."
	}
	if utf8.RuneCountInString(excerpt) > maxExcerptLen {
		errs["excerpt"] = "Excerpt is too long (max 1,000 characters)."
	}
	if utf8.RuneCountInString(seoDesc) > maxMetaDescLen {
		errs["seo_description"] = "SEO description is too long (max 500 characters)."
	}
	if utf8.RuneCountInString(seoKw) > maxMetaKwLen {
		errs["seo_keywords"] = "SEO keywords are too long (max 500 characters)."
	}
	return errs
}

// validateNamed checks the name and slug shared by categories, tags,
// topics and series.
func validateNamed(name, slug string) FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(name) == "" {
		errs["name"] = "Name is required."
	} else if utf8.RuneCountInString(name) > maxNameLen {
		errs["name"] = "Name is too long (max 200 characters)."
	}
	if utf8.RuneCountInString(slug) > maxSlugLen {
		errs["slug"] = "Slug is too long (max 300 characters)."
	}
	return errs
}
