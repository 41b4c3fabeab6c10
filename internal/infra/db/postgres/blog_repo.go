package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	domain "algolens/internal/domain/blogs"
)

type BlogRepository struct{ db *sql.DB }

func NewBlogRepository(db *sql.DB) *BlogRepository { return &BlogRepository{db: db} }

// Save insert/update Blog record
func (r *BlogRepository) Save(ctx context.Context, b *domain.Blog) error {
	const q = `
INSERT INTO blogs
  (id, author_id, author_name, title, slug, content, tags, published, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
ON CONFLICT (id) DO UPDATE SET
  title = EXCLUDED.title,
  slug = EXCLUDED.slug,
  content = EXCLUDED.content,
  tags = EXCLUDED.tags,
  published = EXCLUDED.published,
  updated_at = EXCLUDED.updated_at;`

	content := string(b.Content)
	if content == "" {
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
WHERE id=$1 LIMIT 1;`
	return scanOne(r.db.QueryRowContext(ctx, q, id))
}

// GetBySlug by slug, full content included
func (r *BlogRepository) GetBySlug(ctx context.Context, slug string) (*domain.Blog, error) {
	const q = `
SELECT id, author_id, author_name, title, slug, content, tags, published, created_at, updated_at
FROM blogs
WHERE slug=$1 LIMIT 1;`
	return scanOne(r.db.QueryRowContext(ctx, q, slug))
}

// ListPublished newest first, content excluded
func (r *BlogRepository) ListPublished(ctx context.Context, limit int) ([]*domain.Blog, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, author_id, author_name, title, slug, tags, published, created_at, updated_at
FROM blogs
WHERE published=true ORDER BY created_at DESC, id DESC LIMIT $1;`
	return r.list(ctx, q, limit)
}

// ListByAuthor newest first, content excluded
func (r *BlogRepository) ListByAuthor(ctx context.Context, authorID string, limit int) ([]*domain.Blog, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, author_id, author_name, title, slug, tags, published, created_at, updated_at
FROM blogs
WHERE author_id=$1 ORDER BY created_at DESC, id DESC LIMIT $2;`
	return r.list(ctx, q, authorID, limit)
}

// Delete removes one blog by ID
func (r *BlogRepository) Delete(ctx context.Context, id domain.BlogID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM blogs WHERE id=$1;`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func scanOne(row *sql.Row) (*domain.Blog, error) {
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
