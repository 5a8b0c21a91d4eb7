// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package readtime derives reading-time estimates and plain-text excerpts
// from HTML content. Both are recomputed on every content save.
package readtime

import (
	"regexp"
	"strings"
)

const (
	// wordsPerMinute is the assumed reading speed for the estimate.
	wordsPerMinute = 200

	// excerptLength is the maximum excerpt length in runes before the
	// ellipsis marker is appended.
	excerptLength = 377
)

// htmlTag matches a single markup tag. Tag stripping is a plain regex
// pass, not a full parser, so malformed or deeply nested markup is not
// handled robustly.
var htmlTag = regexp.MustCompile(`<[^>]+>`)

// StripTags removes all markup tags from HTML content, returning the
// remaining text.
func StripTags(html string) string {
	return htmlTag.ReplaceAllString(html, "")
}

// WordCount returns the number of whitespace-separated words in the
// tag-stripped text of the given HTML content.
func WordCount(html string) int {
	return len(strings.Fields(StripTags(html)))
}

// Minutes estimates the reading time of HTML content in whole minutes:
// the ceiling of word count divided by 200 words per minute. Content of
// 1-200 words yields exactly 1.
func Minutes(html string) int {
	words := WordCount(html)
	return (words + wordsPerMinute - 1) / wordsPerMinute
}

// Excerpt derives a plain-text summary from HTML content: the first 377
// runes of the stripped text, with "..." appended only when truncation
// occurred.
func Excerpt(html string) string {
	text := StripTags(html)
	runes := []rune(text)
	if len(runes) <= excerptLength {
		return text
	}
	return string(runes[:excerptLength]) + "..."
}
