package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	domain "algolens/internal/domain/blogs"
)

type BlogRepository struct {
	db *sql.DB
}

func NewBlogRepository(db *sql.DB) *BlogRepository {
	return &BlogRepository{db: db}
}

// Save insert/update Blog record. The slug column is unique, so two
// records that somehow derive the same slug fail here instead of
// silently colliding.
func (r *BlogRepository) Save(ctx context.Context, b *domain.Blog) error {
	const q = `
INSERT INTO blogs
  (id, author_id, author_name, title, slug, content, tags, published, created_at, updated_at)
VALUES (?,?,?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
  title=VALUES(title), slug=VALUES(slug), content=VALUES(content),
  tags=VALUES(tags), published=VALUES(published), updated_at=VALUES(updated_at);
`
	content := string(b.Content)
	if content == "" {
		// content column requires valid JSON; use empty object
		content = "{}"
	}
	createdAt := b.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, q,
		b.ID, stringOrDash(b.AuthorID), b.AuthorName, b.Title, b.Slug,
		content, tagsToJSON(b.Tags), b.Published, createdAt, b.UpdatedAt,
	)
	return err
}

// Get by ID, full content included
func (r *BlogRepository) Get(ctx context.Context, id domain.BlogID) (*domain.Blog, error) {
	const q = `
SELECT id, author_id, author_name, title, slug, content, tags, published, created_at, updated_at
FROM blogs
WHERE id=? LIMIT 1;
`
	return r.scanOne(r.db.QueryRowContext(ctx, q, id))
}

// GetBySlug by slug, full content included
func (r *BlogRepository) GetBySlug(ctx context.Context, slug string) (*domain.Blog, error) {
	const q = `
SELECT id, author_id, author_name, title, slug, content, tags, published, created_at, updated_at
FROM blogs
WHERE slug=? LIMIT 1;
`
	return r.scanOne(r.db.QueryRowContext(ctx, q, slug))
}

// ListPublished newest first, content excluded
func (r *BlogRepository) ListPublished(ctx context.Context, limit int) ([]*domain.Blog, error) {
	const q = `
SELECT id, author_id, author_name, title, slug, tags, published, created_at, updated_at
FROM blogs
WHERE published=1 ORDER BY created_at DESC, id DESC LIMIT ?;
`
	return r.list(ctx, q, normalizedLimit(limit))
}

// ListByAuthor newest first, content excluded
func (r *BlogRepository) ListByAuthor(ctx context.Context, authorID string, limit int) ([]*domain.Blog, error) {
	const q = `
SELECT id, author_id, author_name, title, slug, tags, published, created_at, updated_at
FROM blogs
WHERE author_id=? ORDER BY created_at DESC, id DESC LIMIT ?;
`
	return r.list(ctx, q, authorID, normalizedLimit(limit))
}

// Delete removes one blog by ID
func (r *BlogRepository) Delete(ctx context.Context, id domain.BlogID) error {
	const q = `DELETE FROM blogs WHERE id=?;`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *BlogRepository) scanOne(row *sql.Row) (*domain.Blog, error) {
	var b domain.Blog
	var content, tags string
	if err := row.Scan(
		&b.ID, &b.AuthorID, &b.AuthorName, &b.Title, &b.Slug,
		&content, &tags, &b.Published, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	b.Content = json.RawMessage(content)
	b.Tags = tagsFromJSON(tags)
	return &b, nil
}

func (r *BlogRepository) list(ctx context.Context, q string, args ...any) ([]*domain.Blog, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Blog
	for rows.Next() {
		var b domain.Blog
		var tags string
		if err := rows.Scan(
			&b.ID, &b.AuthorID, &b.AuthorName, &b.Title, &b.Slug,
			&tags, &b.Published, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, err
		}
		b.Tags = tagsFromJSON(tags)
		out = append(out, &b)
	}
	return out, rows.Err()
}

func normalizedLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	return limit
}
