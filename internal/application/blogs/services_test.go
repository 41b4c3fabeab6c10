package blogs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"algolens/internal/application"
	domain "algolens/internal/domain/blogs"
	"algolens/internal/domain/identity"
)

type fakeRepo struct {
	byID    map[domain.BlogID]*domain.Blog
	bySlug  map[string]*domain.Blog
	saved   []*domain.Blog
	deleted []domain.BlogID
}

func newFakeRepo(blogs ...*domain.Blog) *fakeRepo {
	r := &fakeRepo{
		byID:   make(map[domain.BlogID]*domain.Blog),
		bySlug: make(map[string]*domain.Blog),
	}
	for _, b := range blogs {
		r.byID[b.ID] = b
		r.bySlug[b.Slug] = b
	}
	return r
}

func (r *fakeRepo) Save(_ context.Context, b *domain.Blog) error {
	r.saved = append(r.saved, b)
	r.byID[b.ID] = b
	r.bySlug[b.Slug] = b
	return nil
}

func (r *fakeRepo) Get(_ context.Context, id domain.BlogID) (*domain.Blog, error) {
	b, ok := r.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return b, nil
}

func (r *fakeRepo) GetBySlug(_ context.Context, slug string) (*domain.Blog, error) {
	b, ok := r.bySlug[slug]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return b, nil
}

func (r *fakeRepo) ListPublished(_ context.Context, _ int) ([]*domain.Blog, error) {
	var out []*domain.Blog
	for _, b := range r.byID {
		if b.Published {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListByAuthor(_ context.Context, authorID string, _ int) ([]*domain.Blog, error) {
	var out []*domain.Blog
	for _, b := range r.byID {
		if b.AuthorID == authorID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeRepo) Delete(_ context.Context, id domain.BlogID) error {
	r.deleted = append(r.deleted, id)
	delete(r.byID, id)
	return nil
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var (
	author = &identity.User{ID: "author-1", Name: "Ada", Role: identity.RoleMember}
	admin  = &identity.User{ID: "admin-1", Name: "Root", Role: identity.RoleAdmin}
	other  = &identity.User{ID: "other-1", Name: "Eve", Role: identity.RoleMember}
)

func newService(repo *fakeRepo) *Service {
	return &Service{
		Repo:  repo,
		Clock: fixedClock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)},
		Log:   zap.NewNop(),
	}
}

var sampleTree = json.RawMessage(`{
	"type": "doc",
	"content": [
		{"type": "paragraph", "content": [{"type": "text", "text": "hello", "marks": [{"type": "bold"}]}]},
		{"type": "mysteryBlock"}
	]
}`)

func TestService_Create(t *testing.T) {
	repo := newFakeRepo()
	svc := newService(repo)

	b, err := svc.Create(context.Background(), author, CreateBlogCommand{
		Title:   "Big O, Explained!",
		Content: sampleTree,
		Tags:    []string{"  AlGoRithms ", "", "big-o"},
	})

	require.NoError(t, err)
	assert.Equal(t, "author-1", b.AuthorID)
	assert.Equal(t, "Ada", b.AuthorName)
	assert.Regexp(t, `^big-o-explained-[0-9a-z]+$`, b.Slug)
	assert.Equal(t, []string{"algorithms", "big-o"}, b.Tags)
	assert.False(t, b.Published)
	assert.JSONEq(t, string(sampleTree), string(b.Content))
	require.Len(t, repo.saved, 1)
}

func TestService_Create_RequiresUser(t *testing.T) {
	svc := newService(newFakeRepo())

	_, err := svc.Create(context.Background(), nil, CreateBlogCommand{Title: "x", Content: sampleTree})
	assert.True(t, errors.Is(err, application.ErrForbidden))
}

func TestService_GetBySlug_Visibility(t *testing.T) {
	draft := &domain.Blog{ID: "b1", AuthorID: author.ID, Slug: "draft-post", Published: false}
	public := &domain.Blog{ID: "b2", AuthorID: author.ID, Slug: "public-post", Published: true}
	svc := newService(newFakeRepo(draft, public))
	ctx := context.Background()

	tests := []struct {
		name    string
		viewer  *identity.User
		slug    string
		wantErr error
	}{
		{name: "anyone reads published", viewer: nil, slug: "public-post"},
		{name: "author reads own draft", viewer: author, slug: "draft-post"},
		{name: "admin reads any draft", viewer: admin, slug: "draft-post"},
		// drafts are hidden, not forbidden
		{name: "stranger gets not-found for draft", viewer: other, slug: "draft-post", wantErr: application.ErrNotFound},
		{name: "anonymous gets not-found for draft", viewer: nil, slug: "draft-post", wantErr: application.ErrNotFound},
		{name: "missing slug", viewer: author, slug: "nope", wantErr: sql.ErrNoRows},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := svc.GetBySlug(ctx, tt.viewer, tt.slug)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
				assert.Nil(t, b)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.slug, b.Slug)
		})
	}
}

func TestService_RenderBySlug(t *testing.T) {
	blog := &domain.Blog{ID: "b1", AuthorID: author.ID, Slug: "post", Published: true, Content: sampleTree}
	svc := newService(newFakeRepo(blog))

	b, blocks, err := svc.RenderBySlug(context.Background(), nil, "post")

	require.NoError(t, err)
	assert.Equal(t, blog, b)
	// the unknown block renders to nothing; the paragraph survives
	require.Len(t, blocks, 1)
	require.Len(t, blocks[0].Spans, 1)
	assert.Equal(t, "hello", blocks[0].Spans[0].Text)
	assert.Equal(t, []string{"bold"}, blocks[0].Spans[0].Marks)
}

func TestService_RenderBySlug_EmptyContent(t *testing.T) {
	blog := &domain.Blog{ID: "b1", AuthorID: author.ID, Slug: "post", Published: true}
	svc := newService(newFakeRepo(blog))

	_, blocks, err := svc.RenderBySlug(context.Background(), nil, "post")

	require.NoError(t, err)
	assert.Nil(t, blocks)
}

func TestService_Update(t *testing.T) {
	orig := &domain.Blog{
		ID: "b1", AuthorID: author.ID,
		Title: "Old Title", Slug: "old-title-abc",
		Content: sampleTree, Tags: []string{"old"},
	}
	repo := newFakeRepo(orig)
	svc := newService(repo)
	published := true

	b, err := svc.Update(context.Background(), author, "b1", UpdateBlogCommand{
		Title:     "New Title",
		Published: &published,
	})

	require.NoError(t, err)
	assert.Equal(t, "New Title", b.Title)
	// title change re-derives the slug
	assert.Regexp(t, `^new-title-[0-9a-z]+$`, b.Slug)
	assert.True(t, b.Published)
	// untouched fields keep their values
	assert.JSONEq(t, string(sampleTree), string(b.Content))
	assert.Equal(t, []string{"old"}, b.Tags)
}

func TestService_Update_SameTitleKeepsSlug(t *testing.T) {
	orig := &domain.Blog{ID: "b1", AuthorID: author.ID, Title: "Title", Slug: "title-abc"}
	svc := newService(newFakeRepo(orig))

	b, err := svc.Update(context.Background(), author, "b1", UpdateBlogCommand{Title: "Title"})

	require.NoError(t, err)
	assert.Equal(t, "title-abc", b.Slug)
}

func TestService_Update_ClearTags(t *testing.T) {
	orig := &domain.Blog{ID: "b1", AuthorID: author.ID, Title: "Title", Slug: "title-abc", Tags: []string{"x"}}
	svc := newService(newFakeRepo(orig))
	empty := []string{}

	b, err := svc.Update(context.Background(), author, "b1", UpdateBlogCommand{Tags: &empty})

	require.NoError(t, err)
	assert.Empty(t, b.Tags)
}

func TestService_Update_Authorization(t *testing.T) {
	orig := &domain.Blog{ID: "b1", AuthorID: author.ID, Title: "Title", Slug: "title-abc"}
	svc := newService(newFakeRepo(orig))

	_, err := svc.Update(context.Background(), other, "b1", UpdateBlogCommand{Title: "Hijacked"})
	assert.True(t, errors.Is(err, application.ErrForbidden))

	_, err = svc.Update(context.Background(), admin, "b1", UpdateBlogCommand{Title: "Moderated"})
	assert.NoError(t, err)
}

func TestService_Delete(t *testing.T) {
	orig := &domain.Blog{ID: "b1", AuthorID: author.ID}
	repo := newFakeRepo(orig)
	svc := newService(repo)

	err := svc.Delete(context.Background(), other, "b1")
	assert.True(t, errors.Is(err, application.ErrForbidden))
	assert.Empty(t, repo.deleted)

	err = svc.Delete(context.Background(), author, "b1")
	require.NoError(t, err)
	assert.Equal(t, []domain.BlogID{"b1"}, repo.deleted)
}

func TestService_GetForEdit(t *testing.T) {
	orig := &domain.Blog{ID: "b1", AuthorID: author.ID, Content: sampleTree}
	svc := newService(newFakeRepo(orig))

	_, err := svc.GetForEdit(context.Background(), other, "b1")
	assert.True(t, errors.Is(err, application.ErrForbidden))

	b, err := svc.GetForEdit(context.Background(), author, "b1")
	require.NoError(t, err)
	assert.JSONEq(t, string(sampleTree), string(b.Content))
}
