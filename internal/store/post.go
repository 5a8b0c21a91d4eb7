// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"pressfolio/internal/models"
)

// PostStore handles all post-related database operations.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

const postColumns = `id, title, slug, content, body_format, excerpt, status,
	cover_image, seo_title, seo_description, seo_keywords,
	reading_time, views, series_id, published_at, created_at, updated_at`

// scanPost scans a row into a Post struct.
func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	var p models.Post
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Content, &p.BodyFormat, &p.Excerpt, &p.Status,
		&p.CoverImage, &p.SEOTitle, &p.SEODescription, &p.SEOKeywords,
		&p.ReadingTime, &p.Views, &p.SeriesID, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// PostFilter narrows List results. Zero values mean "no filter".
type PostFilter struct {
	Status     models.PostStatus
	CategoryID *uuid.UUID
	TagID      *uuid.UUID
	SeriesID   *uuid.UUID
	Query      string // case-insensitive match on title or content
	Page       int    // 1-based; 0 means first page
	Limit      int    // 0 means the default of 10
}

// List returns posts matching the filter, newest first, plus the total
// match count for pagination.
func (s *PostStore) List(f PostFilter) ([]models.Post, int, error) {
	var conds []string
	var args []any

	add := func(cond string, val any) {
		args = append(args, val)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.Status != "" {
		add("p.status = $%d", f.Status)
	}
	if f.CategoryID != nil {
		add("EXISTS (SELECT 1 FROM post_categories pc WHERE pc.post_id = p.id AND pc.category_id = $%d)", *f.CategoryID)
	}
	if f.TagID != nil {
		add("EXISTS (SELECT 1 FROM post_tags pt WHERE pt.post_id = p.id AND pt.tag_id = $%d)", *f.TagID)
	}
	if f.SeriesID != nil {
		add("p.series_id = $%d", *f.SeriesID)
	}
	if f.Query != "" {
		args = append(args, "%"+f.Query+"%")
		conds = append(conds, fmt.Sprintf("(p.title ILIKE $%d OR p.content ILIKE $%d)", len(args), len(args)))
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM posts p " + where
	if err := s.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 10
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}
	args = append(args, limit, (page-1)*limit)

	query := fmt.Sprintf(`
		SELECT %s FROM posts p
		%s
		ORDER BY p.created_at DESC
		LIMIT $%d OFFSET $%d
	`, prefixColumns("p", postColumns), where, len(args)-1, len(args))

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var items []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan post: %w", err)
		}
		items = append(items, *p)
	}
	return items, total, rows.Err()
}

// prefixColumns qualifies each column in a comma-separated list with a
// table alias.
func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}

// ListPublished returns the most recent published posts, newest first.
// limit <= 0 returns all of them.
func (s *PostStore) ListPublished(limit int) ([]models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts
		WHERE status = 'published'
		ORDER BY published_at DESC NULLS LAST`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = s.db.Query(query+` LIMIT $1`, limit)
	} else {
		rows, err = s.db.Query(query)
	}
	if err != nil {
		return nil, fmt.Errorf("list published posts: %w", err)
	}
	defer rows.Close()

	var items []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// ListBySeries returns the published posts of a series in publication order.
func (s *PostStore) ListBySeries(seriesID uuid.UUID) ([]models.Post, error) {
	rows, err := s.db.Query(`
		SELECT `+postColumns+` FROM posts
		WHERE series_id = $1 AND status = 'published'
		ORDER BY published_at ASC NULLS LAST
	`, seriesID)
	if err != nil {
		return nil, fmt.Errorf("list posts by series: %w", err)
	}
	defer rows.Close()

	var items []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// FindByID retrieves a post with its category and tag associations.
// Returns nil if not found.
func (s *PostStore) FindByID(id uuid.UUID) (*models.Post, error) {
	row := s.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	if err := s.loadAssociations(p); err != nil {
		return nil, err
	}
	return p, nil
}

// FindPublishedBySlug retrieves a published post by slug with its
// associations. Used for public reads. Returns nil if not found.
func (s *PostStore) FindPublishedBySlug(slug string) (*models.Post, error) {
	row := s.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE slug = $1 AND status = 'published'`, slug)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	if err := s.loadAssociations(p); err != nil {
		return nil, err
	}
	return p, nil
}

// loadAssociations populates the post's categories and tags.
func (s *PostStore) loadAssociations(p *models.Post) error {
	rows, err := s.db.Query(`
		SELECT c.id, c.name, c.slug, c.description, c.icon, c.parent_id, c.created_at, c.updated_at
		FROM categories c
		JOIN post_categories pc ON pc.category_id = c.id
		WHERE pc.post_id = $1
		ORDER BY c.name
	`, p.ID)
	if err != nil {
		return fmt.Errorf("load post categories: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return fmt.Errorf("scan post category: %w", err)
		}
		p.Categories = append(p.Categories, *c)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	tagRows, err := s.db.Query(`
		SELECT t.id, t.name, t.slug, t.created_at
		FROM tags t
		JOIN post_tags pt ON pt.tag_id = t.id
		WHERE pt.post_id = $1
		ORDER BY t.name
	`, p.ID)
	if err != nil {
		return fmt.Errorf("load post tags: %w", err)
	}
	defer tagRows.Close()
	for tagRows.Next() {
		var t models.Tag
		if err := tagRows.Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt); err != nil {
			return fmt.Errorf("scan post tag: %w", err)
		}
		p.Tags = append(p.Tags, t)
	}
	return tagRows.Err()
}

// Create inserts a new post and attaches its category and tag
// associations in one transaction.
func (s *PostStore) Create(p *models.Post, categoryIDs, tagIDs []uuid.UUID) (*models.Post, error) {
	if p.Status == models.PostStatusPublished && p.PublishedAt == nil {
		now := time.Now()
		p.PublishedAt = &now
	}
	if p.BodyFormat == "" {
		p.BodyFormat = models.BodyFormatHTML
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRow(`
		INSERT INTO posts (title, slug, content, body_format, excerpt, status,
		                   cover_image, seo_title, seo_description, seo_keywords,
		                   reading_time, series_id, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING `+postColumns,
		p.Title, p.Slug, p.Content, p.BodyFormat, p.Excerpt, p.Status,
		p.CoverImage, p.SEOTitle, p.SEODescription, p.SEOKeywords,
		p.ReadingTime, p.SeriesID, p.PublishedAt,
	)
	result, err := scanPost(row)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	if err := replaceAssociations(tx, "post_categories", "category_id", result.ID, categoryIDs); err != nil {
		return nil, err
	}
	if err := replaceAssociations(tx, "post_tags", "tag_id", result.ID, tagIDs); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create post: %w", err)
	}
	return result, nil
}

// Update modifies an existing post and replaces its associations in one
// transaction.
func (s *PostStore) Update(p *models.Post, categoryIDs, tagIDs []uuid.UUID) error {
	if p.Status == models.PostStatusPublished && p.PublishedAt == nil {
		now := time.Now()
		p.PublishedAt = &now
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		UPDATE posts SET
			title = $1, slug = $2, content = $3, body_format = $4, excerpt = $5,
			status = $6, cover_image = $7, seo_title = $8, seo_description = $9,
			seo_keywords = $10, reading_time = $11, series_id = $12,
			published_at = $13, updated_at = NOW()
		WHERE id = $14
	`, p.Title, p.Slug, p.Content, p.BodyFormat, p.Excerpt,
		p.Status, p.CoverImage, p.SEOTitle, p.SEODescription,
		p.SEOKeywords, p.ReadingTime, p.SeriesID, p.PublishedAt, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}

	if err := replaceAssociations(tx, "post_categories", "category_id", p.ID, categoryIDs); err != nil {
		return err
	}
	if err := replaceAssociations(tx, "post_tags", "tag_id", p.ID, tagIDs); err != nil {
		return err
	}

	return tx.Commit()
}

// replaceAssociations clears and re-inserts one side of a post join
// table ("set then connect" semantics).
func replaceAssociations(tx *sql.Tx, table, column string, postID uuid.UUID, ids []uuid.UUID) error {
	if _, err := tx.Exec(fmt.Sprintf(`DELETE FROM %s WHERE post_id = $1`, table), postID); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	for _, id := range ids {
		_, err := tx.Exec(
			fmt.Sprintf(`INSERT INTO %s (post_id, %s) VALUES ($1, $2) ON CONFLICT DO NOTHING`, table, column),
			postID, id,
		)
		if err != nil {
			return fmt.Errorf("insert %s: %w", table, err)
		}
	}
	return nil
}

// Delete removes a post by ID. Join rows cascade at the schema level.
func (s *PostStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// IncrementViews bumps the post's view counter by one with an atomic
// in-database increment. Callers treat this as best-effort analytics:
// the public read path fires it in a goroutine and ignores the result.
func (s *PostStore) IncrementViews(id uuid.UUID) error {
	_, err := s.db.Exec(`UPDATE posts SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	return nil
}

// IncrementViewsBySlug bumps the view counter without a prior ID
// lookup, so cached page hits can count views with a single statement.
func (s *PostStore) IncrementViewsBySlug(slug string) error {
	_, err := s.db.Exec(`UPDATE posts SET views = views + 1 WHERE slug = $1 AND status = 'published'`, slug)
	if err != nil {
		return fmt.Errorf("increment views by slug: %w", err)
	}
	return nil
}

// Count returns the total number of posts.
func (s *PostStore) Count() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM posts`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return count, nil
}

// SlugExists reports whether any post other than excludeID already uses
// the given slug.
func (s *PostStore) SlugExists(slug string, excludeID *uuid.UUID) (bool, error) {
	var exists bool
	var err error
	if excludeID == nil {
		err = s.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM posts WHERE slug = $1)`, slug).Scan(&exists)
	} else {
		err = s.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM posts WHERE slug = $1 AND id <> $2)`, slug, *excludeID).Scan(&exists)
	}
	if err != nil {
		return false, fmt.Errorf("post slug exists: %w", err)
	}
	return exists, nil
}
