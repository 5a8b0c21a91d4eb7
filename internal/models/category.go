// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Category represents a hierarchical taxonomy node attachable to posts.
// ParentID is a plain identifier with no referential guarantee: deleting
// a parent leaves children pointing at a category that no longer exists,
// and the tree builder simply never reaches them.
type Category struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"` // key into the icons package; "" = no icon
	ParentID    *uuid.UUID `json:"parent_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Virtual fields populated by store methods and the tree builder.
	Children  []Category `json:"children,omitempty"`
	Depth     int        `json:"depth"`
	PostCount int        `json:"post_count"`
}
