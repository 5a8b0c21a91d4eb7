// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from arbitrary strings.
package slug

import (
	"regexp"
	"strings"
)

var (
	// nonSlugRun matches a run of one or more characters outside [a-z0-9].
	// Each run collapses into a single hyphen.
	nonSlugRun = regexp.MustCompile(`[^a-z0-9]+`)

	// validSlug matches a well-formed slug as accepted by form validation.
	validSlug = regexp.MustCompile(`^[a-z0-9-]+$`)
)

// Generate creates a URL-friendly slug from the given string.
// Example: "AI & Machine Learning!!" → "ai-machine-learning"
func Generate(s string) string {
	result := strings.ToLower(s)
	result = nonSlugRun.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	return result
}

// Valid reports whether s is a non-empty lowercase slug of letters,
// digits, and hyphens.
func Valid(s string) bool {
	return validSlug.MatchString(s)
}
