// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"pressfolio/internal/models"
)

// TagStore handles tag database operations.
type TagStore struct {
	db *sql.DB
}

// NewTagStore creates a new TagStore with the given database connection.
func NewTagStore(db *sql.DB) *TagStore {
	return &TagStore{db: db}
}

// List returns all tags ordered by name with their post counts.
func (s *TagStore) List() ([]models.Tag, error) {
	rows, err := s.db.Query(`
		SELECT t.id, t.name, t.slug, t.created_at, COUNT(pt.post_id) AS post_count
		FROM tags t
		LEFT JOIN post_tags pt ON pt.tag_id = t.id
		GROUP BY t.id
		ORDER BY t.name
	`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var items []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt, &t.PostCount); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

// FindByID retrieves a tag by ID. Returns nil if not found.
func (s *TagStore) FindByID(id uuid.UUID) (*models.Tag, error) {
	var t models.Tag
	err := s.db.QueryRow(`SELECT id, name, slug, created_at FROM tags WHERE id = $1`, id).
		Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find tag by id: %w", err)
	}
	return &t, nil
}

// FindBySlug retrieves a tag by slug. Returns nil if not found.
func (s *TagStore) FindBySlug(slug string) (*models.Tag, error) {
	var t models.Tag
	err := s.db.QueryRow(`SELECT id, name, slug, created_at FROM tags WHERE slug = $1`, slug).
		Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find tag by slug: %w", err)
	}
	return &t, nil
}

// Create inserts a new tag.
func (s *TagStore) Create(name, slug string) (*models.Tag, error) {
	var t models.Tag
	err := s.db.QueryRow(`
		INSERT INTO tags (name, slug) VALUES ($1, $2)
		RETURNING id, name, slug, created_at
	`, name, slug).Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create tag: %w", err)
	}
	return &t, nil
}

// Update modifies an existing tag.
func (s *TagStore) Update(id uuid.UUID, name, slug string) error {
	_, err := s.db.Exec(`UPDATE tags SET name = $1, slug = $2 WHERE id = $3`, name, slug, id)
	if err != nil {
		return fmt.Errorf("update tag: %w", err)
	}
	return nil
}

// Delete removes a tag. Its post associations cascade at the schema level.
func (s *TagStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	return nil
}

// SlugExists reports whether any tag other than excludeID uses the slug.
func (s *TagStore) SlugExists(slug string, excludeID *uuid.UUID) (bool, error) {
	return slugExists(s.db, "tags", slug, excludeID)
}

// TopicStore handles topic database operations.
type TopicStore struct {
	db *sql.DB
}

// NewTopicStore creates a new TopicStore with the given database connection.
func NewTopicStore(db *sql.DB) *TopicStore {
	return &TopicStore{db: db}
}

// List returns all topics ordered by name.
func (s *TopicStore) List() ([]models.Topic, error) {
	rows, err := s.db.Query(`
		SELECT id, name, slug, description, created_at, updated_at
		FROM topics ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	defer rows.Close()

	var items []models.Topic
	for rows.Next() {
		var t models.Topic
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.Description, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

// FindByID retrieves a topic by ID. Returns nil if not found.
func (s *TopicStore) FindByID(id uuid.UUID) (*models.Topic, error) {
	var t models.Topic
	err := s.db.QueryRow(`
		SELECT id, name, slug, description, created_at, updated_at
		FROM topics WHERE id = $1
	`, id).Scan(&t.ID, &t.Name, &t.Slug, &t.Description, &t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find topic by id: %w", err)
	}
	return &t, nil
}

// FindBySlug retrieves a topic by slug. Returns nil if not found.
func (s *TopicStore) FindBySlug(slug string) (*models.Topic, error) {
	var t models.Topic
	err := s.db.QueryRow(`
		SELECT id, name, slug, description, created_at, updated_at
		FROM topics WHERE slug = $1
	`, slug).Scan(&t.ID, &t.Name, &t.Slug, &t.Description, &t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find topic by slug: %w", err)
	}
	return &t, nil
}

// Create inserts a new topic.
func (s *TopicStore) Create(name, slug, description string) (*models.Topic, error) {
	var t models.Topic
	err := s.db.QueryRow(`
		INSERT INTO topics (name, slug, description) VALUES ($1, $2, $3)
		RETURNING id, name, slug, description, created_at, updated_at
	`, name, slug, description).Scan(&t.ID, &t.Name, &t.Slug, &t.Description, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create topic: %w", err)
	}
	return &t, nil
}

// Update modifies an existing topic.
func (s *TopicStore) Update(id uuid.UUID, name, slug, description string) error {
	_, err := s.db.Exec(`
		UPDATE topics SET name = $1, slug = $2, description = $3, updated_at = NOW()
		WHERE id = $4
	`, name, slug, description, id)
	if err != nil {
		return fmt.Errorf("update topic: %w", err)
	}
	return nil
}

// Delete removes a topic.
func (s *TopicStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM topics WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete topic: %w", err)
	}
	return nil
}

// SlugExists reports whether any topic other than excludeID uses the slug.
func (s *TopicStore) SlugExists(slug string, excludeID *uuid.UUID) (bool, error) {
	return slugExists(s.db, "topics", slug, excludeID)
}

// SeriesStore handles series database operations.
type SeriesStore struct {
	db *sql.DB
}

// NewSeriesStore creates a new SeriesStore with the given database connection.
func NewSeriesStore(db *sql.DB) *SeriesStore {
	return &SeriesStore{db: db}
}

// List returns all series ordered by name with their post counts.
func (s *SeriesStore) List() ([]models.Series, error) {
	rows, err := s.db.Query(`
		SELECT sr.id, sr.name, sr.slug, sr.description, sr.created_at, sr.updated_at,
		       COUNT(p.id) AS post_count
		FROM series sr
		LEFT JOIN posts p ON p.series_id = sr.id
		GROUP BY sr.id
		ORDER BY sr.name
	`)
	if err != nil {
		return nil, fmt.Errorf("list series: %w", err)
	}
	defer rows.Close()

	var items []models.Series
	for rows.Next() {
		var sr models.Series
		if err := rows.Scan(&sr.ID, &sr.Name, &sr.Slug, &sr.Description, &sr.CreatedAt, &sr.UpdatedAt, &sr.PostCount); err != nil {
			return nil, fmt.Errorf("scan series: %w", err)
		}
		items = append(items, sr)
	}
	return items, rows.Err()
}

// FindByID retrieves a series by ID. Returns nil if not found.
func (s *SeriesStore) FindByID(id uuid.UUID) (*models.Series, error) {
	var sr models.Series
	err := s.db.QueryRow(`
		SELECT id, name, slug, description, created_at, updated_at
		FROM series WHERE id = $1
	`, id).Scan(&sr.ID, &sr.Name, &sr.Slug, &sr.Description, &sr.CreatedAt, &sr.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find series by id: %w", err)
	}
	return &sr, nil
}

// FindBySlug retrieves a series by slug. Returns nil if not found.
func (s *SeriesStore) FindBySlug(slug string) (*models.Series, error) {
	var sr models.Series
	err := s.db.QueryRow(`
		SELECT id, name, slug, description, created_at, updated_at
		FROM series WHERE slug = $1
	`, slug).Scan(&sr.ID, &sr.Name, &sr.Slug, &sr.Description, &sr.CreatedAt, &sr.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find series by slug: %w", err)
	}
	return &sr, nil
}

// Create inserts a new series.
func (s *SeriesStore) Create(name, slug, description string) (*models.Series, error) {
	var sr models.Series
	err := s.db.QueryRow(`
		INSERT INTO series (name, slug, description) VALUES ($1, $2, $3)
		RETURNING id, name, slug, description, created_at, updated_at
	`, name, slug, description).Scan(&sr.ID, &sr.Name, &sr.Slug, &sr.Description, &sr.CreatedAt, &sr.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create series: %w", err)
	}
	return &sr, nil
}

// Update modifies an existing series.
func (s *SeriesStore) Update(id uuid.UUID, name, slug, description string) error {
	_, err := s.db.Exec(`
		UPDATE series SET name = $1, slug = $2, description = $3, updated_at = NOW()
		WHERE id = $4
	`, name, slug, description, id)
	if err != nil {
		return fmt.Errorf("update series: %w", err)
	}
	return nil
}

// Delete removes a series. Posts in it keep existing with a cleared
// series reference (schema-level ON DELETE SET NULL).
func (s *SeriesStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM series WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete series: %w", err)
	}
	return nil
}

// SlugExists reports whether any series other than excludeID uses the slug.
func (s *SeriesStore) SlugExists(slug string, excludeID *uuid.UUID) (bool, error) {
	return slugExists(s.db, "series", slug, excludeID)
}

// slugExists is the shared slug uniqueness probe for taxonomy tables.
func slugExists(db *sql.DB, table, slug string, excludeID *uuid.UUID) (bool, error) {
	var exists bool
	var err error
	if excludeID == nil {
		err = db.QueryRow(fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE slug = $1)`, table), slug).Scan(&exists)
	} else {
		err = db.QueryRow(fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE slug = $1 AND id <> $2)`, table), slug, *excludeID).Scan(&exists)
	}
	if err != nil {
		return false, fmt.Errorf("%s slug exists: %w", table, err)
	}
	return exists, nil
}
