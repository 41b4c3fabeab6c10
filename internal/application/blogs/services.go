package blogs

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"algolens/internal/application"
	domain "algolens/internal/domain/blogs"
	"algolens/internal/domain/doctree"
	"algolens/internal/domain/identity"
	"algolens/internal/domain/policy"
)

// Service implements use-cases for Blog
type Service struct {
	Repo  domain.Repository
	Clock application.Clock
	Log   *zap.Logger
}

// Command to create a blog
type CreateBlogCommand struct {
	Title     string
	Content   json.RawMessage
	Tags      []string
	Published bool
}

// Command to update a blog. Empty Title/Content keep the stored values;
// Tags and Published are applied only when explicitly sent.
type UpdateBlogCommand struct {
	Title     string
	Content   json.RawMessage
	Tags      *[]string
	Published *bool
}

// Create stores a new blog owned by author. The content tree is kept
// verbatim; the slug is derived once from the title.
func (s *Service) Create(ctx context.Context, author *identity.User, cmd CreateBlogCommand) (*domain.Blog, error) {
	if author == nil {
		return nil, application.ErrForbidden
	}
	now := s.Clock.Now()
	b := &domain.Blog{
		ID:         domain.BlogID(uuid.New().String()),
		AuthorID:   author.ID,
		AuthorName: author.Name,
		Title:      strings.TrimSpace(cmd.Title),
		Slug:       domain.NewSlug(cmd.Title, now),
		Content:    cmd.Content,
		Tags:       normalizeTags(cmd.Tags),
		Published:  cmd.Published,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Repo.Save(ctx, b); err != nil {
		return nil, fmt.Errorf("save blog: %w", err)
	}
	return b, nil
}

// ListPublished returns published blogs, newest first, without content.
func (s *Service) ListPublished(ctx context.Context, limit int) ([]*domain.Blog, error) {
	return s.Repo.ListPublished(ctx, limit)
}

// ListMine returns the caller's own blogs, newest first, without content.
func (s *Service) ListMine(ctx context.Context, actor *identity.User, limit int) ([]*domain.Blog, error) {
	if actor == nil {
		return nil, application.ErrForbidden
	}
	return s.Repo.ListByAuthor(ctx, actor.ID, limit)
}

// GetBySlug returns one blog for reading. Unpublished blogs are only
// visible to their author or an admin; everyone else gets not-found,
// never forbidden, so their existence is not revealed.
func (s *Service) GetBySlug(ctx context.Context, viewer *identity.User, slug string) (*domain.Blog, error) {
	b, err := s.Repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !policy.CanViewUnpublished(viewer, b.AuthorID, b.Published) {
		return nil, fmt.Errorf("blog %s: %w", slug, application.ErrNotFound)
	}
	return b, nil
}

// RenderBySlug resolves the blog like GetBySlug and renders its content
// tree into presentation blocks.
func (s *Service) RenderBySlug(ctx context.Context, viewer *identity.User, slug string) (*domain.Blog, []doctree.Block, error) {
	b, err := s.GetBySlug(ctx, viewer, slug)
	if err != nil {
		return nil, nil, err
	}
	if len(b.Content) == 0 {
		return b, nil, nil
	}
	tree, err := doctree.Decode(b.Content)
	if err != nil {
		// stored content should always be the editor's JSON; anything
		// else is corruption worth surfacing, not skipping
		return nil, nil, fmt.Errorf("decode blog content: %w", err)
	}
	return b, doctree.Render(tree), nil
}

// GetForEdit returns the full blog for its author or an admin.
func (s *Service) GetForEdit(ctx context.Context, actor *identity.User, id domain.BlogID) (*domain.Blog, error) {
	b, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanMutate(actor, b.AuthorID) {
		return nil, fmt.Errorf("blog %s: %w", id, application.ErrForbidden)
	}
	return b, nil
}

// Update applies a partial update. A title change re-derives the slug.
func (s *Service) Update(ctx context.Context, actor *identity.User, id domain.BlogID, cmd UpdateBlogCommand) (*domain.Blog, error) {
	b, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanMutate(actor, b.AuthorID) {
		return nil, fmt.Errorf("blog %s: %w", id, application.ErrForbidden)
	}

	now := s.Clock.Now()
	if t := strings.TrimSpace(cmd.Title); t != "" && t != b.Title {
		b.Title = t
		b.Slug = domain.NewSlug(t, now)
	}
	if len(cmd.Content) > 0 {
		b.Content = cmd.Content
	}
	if cmd.Tags != nil {
		b.Tags = normalizeTags(*cmd.Tags)
	}
	if cmd.Published != nil {
		b.Published = *cmd.Published
	}
	b.UpdatedAt = now

	if err := s.Repo.Save(ctx, b); err != nil {
		return nil, fmt.Errorf("save blog: %w", err)
	}
	return b, nil
}

// Delete removes a blog; only its author or an admin may.
func (s *Service) Delete(ctx context.Context, actor *identity.User, id domain.BlogID) error {
	b, err := s.Repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !policy.CanMutate(actor, b.AuthorID) {
		return fmt.Errorf("blog %s: %w", id, application.ErrForbidden)
	}
	return s.Repo.Delete(ctx, id)
}

// normalizeTags lowercases, trims and drops empty tags.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
