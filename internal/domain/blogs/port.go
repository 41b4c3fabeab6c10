package blogs

import "context"

// Repository port (interface for persistence)
type Repository interface {
	Save(ctx context.Context, b *Blog) error
	Get(ctx context.Context, id BlogID) (*Blog, error)
	GetBySlug(ctx context.Context, slug string) (*Blog, error)
	// ListPublished returns published blogs newest first with Content
	// left empty (list views never carry the full tree).
	ListPublished(ctx context.Context, limit int) ([]*Blog, error)
	// ListByAuthor returns the author's blogs newest first, published
	// or not, Content left empty.
	ListByAuthor(ctx context.Context, authorID string, limit int) ([]*Blog, error)
	Delete(ctx context.Context, id BlogID) error
}
