// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// PostStatus represents the publishing state of a post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
	PostStatusScheduled PostStatus = "scheduled"
	PostStatusArchived  PostStatus = "archived"
)

// ValidStatus reports whether s is one of the closed set of post statuses.
func ValidStatus(s PostStatus) bool {
	switch s {
	case PostStatusDraft, PostStatusPublished, PostStatusScheduled, PostStatusArchived:
		return true
	}
	return false
}

// BodyFormat indicates how the post content field should be interpreted.
type BodyFormat string

const (
	BodyFormatHTML     BodyFormat = "html"
	BodyFormatMarkdown BodyFormat = "markdown"
)

// Post is the content entity: an essay or article on the hub.
// ReadingTime and (when not supplied) Excerpt are derived from Content
// at save time. Views is a best-effort counter incremented on public
// reads without any delivery guarantee.
type Post struct {
	ID             uuid.UUID  `json:"id"`
	Title          string     `json:"title"`
	Slug           string     `json:"slug"`
	Content        string     `json:"content"`
	BodyFormat     BodyFormat `json:"body_format"`
	Excerpt        *string    `json:"excerpt,omitempty"`
	Status         PostStatus `json:"status"`
	CoverImage     *string    `json:"cover_image,omitempty"`
	SEOTitle       *string    `json:"seo_title,omitempty"`
	SEODescription *string    `json:"seo_description,omitempty"`
	SEOKeywords    *string    `json:"seo_keywords,omitempty"`
	ReadingTime    int        `json:"reading_time"`
	Views          int        `json:"views"`
	SeriesID       *uuid.UUID `json:"series_id,omitempty"`
	PublishedAt    *time.Time `json:"published_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	// Virtual associations populated by store methods.
	Categories []Category `json:"categories,omitempty"`
	Tags       []Tag      `json:"tags,omitempty"`
}

// IsPublished returns true if the post is publicly visible.
func (p Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}

// ExcerptText returns the stored excerpt or an empty string.
func (p Post) ExcerptText() string {
	if p.Excerpt == nil {
		return ""
	}
	return *p.Excerpt
}
