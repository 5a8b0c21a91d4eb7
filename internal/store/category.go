// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"pressfolio/internal/icons"
	"pressfolio/internal/models"
)

const (
	// selectorIndent is the whitespace unit prepended once per depth
	// level in dropdown labels.
	selectorIndent = "    "

	// rowIndentPx is the left padding in pixels applied per depth level
	// in the admin category table.
	rowIndentPx = 24
)

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, slug, description, icon, parent_id, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description, &c.Icon,
		&c.ParentID, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all categories ordered alphabetically by name, with
// derived post counts. This ordering fixes sibling order in the tree.
func (s *CategoryStore) List() ([]models.Category, error) {
	rows, err := s.db.Query(`
		SELECT c.id, c.name, c.slug, c.description, c.icon, c.parent_id,
		       c.created_at, c.updated_at,
		       COUNT(pc.post_id) AS post_count
		FROM categories c
		LEFT JOIN post_categories pc ON pc.category_id = c.id
		GROUP BY c.id
		ORDER BY c.name
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		var c models.Category
		err := rows.Scan(
			&c.ID, &c.Name, &c.Slug, &c.Description, &c.Icon,
			&c.ParentID, &c.CreatedAt, &c.UpdatedAt,
			&c.PostCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// Tree returns categories as a forest of nested trees: one tree per
// category without a parent.
func (s *CategoryStore) Tree() ([]models.Category, error) {
	flat, err := s.List()
	if err != nil {
		return nil, err
	}
	return BuildTree(flat), nil
}

// BuildTree converts a flat category list into a forest. Roots are the
// records with no parent; children are found by scanning the original
// flat list at every level, so a record whose parent id matches nothing
// (dangling reference, or a cycle with no root) simply never appears in
// the output. The builder is total over any input and never recurses
// into data it cannot reach.
func BuildTree(flat []models.Category) []models.Category {
	return buildSubtree(flat, nil, 0)
}

// buildSubtree collects the categories whose parent pointer equals
// parentID, attaching their recursively built children. Sibling order is
// the flat-list order (alphabetical from List).
func buildSubtree(flat []models.Category, parentID *uuid.UUID, depth int) []models.Category {
	var result []models.Category
	for _, c := range flat {
		if idPtrEqual(c.ParentID, parentID) {
			c.Depth = depth
			c.Children = buildSubtree(flat, &c.ID, depth+1)
			result = append(result, c)
		}
	}
	return result
}

// idPtrEqual compares two *uuid.UUID for equality (both nil or same value).
func idPtrEqual(a, b *uuid.UUID) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}

// FlattenTree walks a forest in pre-order (node, then all descendants,
// then next sibling), returning the visited nodes with Depth set.
func FlattenTree(forest []models.Category) []models.Category {
	var result []models.Category
	flattenInto(forest, &result)
	return result
}

func flattenInto(cats []models.Category, result *[]models.Category) {
	for _, c := range cats {
		*result = append(*result, c)
		if len(c.Children) > 0 {
			flattenInto(c.Children, result)
		}
	}
}

// CategoryOption is one entry of the parent-category dropdown: the node's
// identifier plus its name prefixed with a depth-proportional indent.
type CategoryOption struct {
	ID    uuid.UUID
	Label string
}

// SelectorOptions renders a flat category list as indented dropdown
// options in pre-order. Depth 0 carries no prefix.
func SelectorOptions(flat []models.Category) []CategoryOption {
	nodes := FlattenTree(BuildTree(flat))
	opts := make([]CategoryOption, 0, len(nodes))
	for _, c := range nodes {
		opts = append(opts, CategoryOption{
			ID:    c.ID,
			Label: strings.Repeat(selectorIndent, c.Depth) + c.Name,
		})
	}
	return opts
}

// CategoryRow is one row of the admin category table.
type CategoryRow struct {
	ID          uuid.UUID
	Name        string
	Slug        string
	Description string
	PostCount   int
	IconClass   string // "" when the icon key is absent or unknown
	PadLeft     int    // pixels of left padding, proportional to depth
}

// TableRows renders a flat category list as admin table rows in the same
// pre-order as SelectorOptions. Icon keys are resolved through the icons
// package; unresolvable keys degrade to no icon.
func TableRows(flat []models.Category) []CategoryRow {
	nodes := FlattenTree(BuildTree(flat))
	rows := make([]CategoryRow, 0, len(nodes))
	for _, c := range nodes {
		rows = append(rows, CategoryRow{
			ID:          c.ID,
			Name:        c.Name,
			Slug:        c.Slug,
			Description: c.Description,
			PostCount:   c.PostCount,
			IconClass:   icons.CSSClass(c.Icon),
			PadLeft:     c.Depth * rowIndentPx,
		})
	}
	return rows
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// FindBySlug retrieves a category by slug. Returns nil if not found.
func (s *CategoryStore) FindBySlug(slug string) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE slug = $1`, slug)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}
	return c, nil
}

// Create inserts a new category and returns it.
func (s *CategoryStore) Create(c *models.Category) (*models.Category, error) {
	row := s.db.QueryRow(`
		INSERT INTO categories (name, slug, description, icon, parent_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+categoryColumns,
		c.Name, c.Slug, c.Description, c.Icon, c.ParentID,
	)
	result, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return result, nil
}

// Update modifies an existing category, including re-parenting. No
// acyclicity check is performed: a parent pointing into the node's own
// descendants makes that subtree unreachable from any root, and the tree
// builder silently omits it.
func (s *CategoryStore) Update(c *models.Category) error {
	_, err := s.db.Exec(`
		UPDATE categories SET
			name = $1, slug = $2, description = $3, icon = $4, parent_id = $5,
			updated_at = NOW()
		WHERE id = $6
	`, c.Name, c.Slug, c.Description, c.Icon, c.ParentID, c.ID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// Delete removes a category by ID. Children are neither cascaded nor
// re-parented: their parent_id keeps pointing at the deleted row, and
// they disappear from built trees until re-parented by hand.
func (s *CategoryStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// SlugExists reports whether any category other than excludeID already
// uses the given slug.
func (s *CategoryStore) SlugExists(slug string, excludeID *uuid.UUID) (bool, error) {
	var exists bool
	var err error
	if excludeID == nil {
		err = s.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM categories WHERE slug = $1)`, slug).Scan(&exists)
	} else {
		err = s.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM categories WHERE slug = $1 AND id <> $2)`, slug, *excludeID).Scan(&exists)
	}
	if err != nil {
		return false, fmt.Errorf("category slug exists: %w", err)
	}
	return exists, nil
}
