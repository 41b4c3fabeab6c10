package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"algolens/internal/application"
	appanalysis "algolens/internal/application/analysis"
	appblogs "algolens/internal/application/blogs"
	domai "algolens/internal/domain/ai"
	domanalysis "algolens/internal/domain/analysis"
	domblogs "algolens/internal/domain/blogs"
	"algolens/internal/middleware"
)

type Router struct {
	analysisSvc *appanalysis.Service
	blogSvc     *appblogs.Service
}

// NewRouter mounts the API. Auth, logging, CORS and rate limiting are
// applied by the caller around the whole mux; RequireUser guards the
// private groups here.
func NewRouter(analysisSvc *appanalysis.Service, blogSvc *appblogs.Service, health http.HandlerFunc) http.Handler {
	r := &Router{analysisSvc: analysisSvc, blogSvc: blogSvc}
	mux := chi.NewRouter()

	if health == nil {
		health = func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte("ok"))
		}
	}
	mux.Get("/health", health)
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/v1/analysis", func(rt chi.Router) {
		rt.Use(middleware.RequireUser)
		rt.Post("/", r.wrap(r.handleCreateAnalysis))
		rt.Get("/", r.wrap(r.handleAnalysisHistory))
		rt.Get("/{id}", r.wrap(r.handleGetAnalysis))
		rt.Delete("/{id}", r.wrap(r.handleDeleteAnalysis))
	})

	mux.Route("/v1/blogs", func(rt chi.Router) {
		// public reads
		rt.Get("/", r.wrap(r.handleListBlogs))
		rt.Get("/{slug}", r.wrap(r.handleGetBlog))
		rt.Get("/{slug}/rendered", r.wrap(r.handleRenderBlog))

		// author routes
		rt.Group(func(priv chi.Router) {
			priv.Use(middleware.RequireUser)
			priv.Post("/", r.wrap(r.handleCreateBlog))
			priv.Get("/my", r.wrap(r.handleMyBlogs))
			priv.Get("/edit/{id}", r.wrap(r.handleEditBlog))
			priv.Put("/{id}", r.wrap(r.handleUpdateBlog))
			priv.Delete("/{id}", r.wrap(r.handleDeleteBlog))
		})
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// invalidInput tags a validation failure so wrap maps it to 400.
func invalidInput(err error) error {
	return fmt.Errorf("%w: %v", application.ErrInvalidInput, err)
}

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		switch {
		case errors.Is(err, sql.ErrNoRows), errors.Is(err, application.ErrNotFound):
			writeError(w, http.StatusNotFound, "not found")
		case errors.Is(err, application.ErrForbidden):
			writeError(w, http.StatusForbidden, "not authorized")
		case errors.Is(err, application.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domai.ErrQuotaExceeded):
			writeError(w, http.StatusTooManyRequests, "ai quota exceeded")
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": msg})
}

// POST /v1/analysis
// Body: {"code": "...", "language": "..."}
func (r *Router) handleCreateAnalysis(w http.ResponseWriter, req *http.Request) error {
	user := middleware.UserFromContext(req.Context())

	var body struct {
		Code     string `json:"code"`
		Language string `json:"language"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return invalidInput(err)
	}
	if err := middleware.ValidateAnalysisInput(body.Code, body.Language); err != nil {
		return invalidInput(err)
	}

	middleware.IncrementAnalyses()
	a, err := r.analysisSvc.Analyze(req.Context(), appanalysis.AnalyzeCommand{
		OwnerID:  user.ID,
		Code:     body.Code,
		Language: middleware.SanitizeString(body.Language),
	})
	if err != nil {
		middleware.IncrementAnalysesFailed()
		return err
	}

	// raw response is audit-only, never part of the create reply
	out := *a
	out.RawResponse = ""
	return writeJSON(w, http.StatusCreated, out)
}

// GET /v1/analysis?limit=20
func (r *Router) handleAnalysisHistory(w http.ResponseWriter, req *http.Request) error {
	user := middleware.UserFromContext(req.Context())
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))

	list, err := r.analysisSvc.History(req.Context(), user.ID, limit)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, list)
}

// GET /v1/analysis/{id}
func (r *Router) handleGetAnalysis(w http.ResponseWriter, req *http.Request) error {
	user := middleware.UserFromContext(req.Context())
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateID(id); err != nil {
		return invalidInput(err)
	}

	a, err := r.analysisSvc.Get(req.Context(), user, domanalysis.AnalysisID(id))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, a)
}

// DELETE /v1/analysis/{id}
func (r *Router) handleDeleteAnalysis(w http.ResponseWriter, req *http.Request) error {
	user := middleware.UserFromContext(req.Context())
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateID(id); err != nil {
		return invalidInput(err)
	}

	if err := r.analysisSvc.Delete(req.Context(), user, domanalysis.AnalysisID(id)); err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]string{"message": "analysis deleted"})
}

// GET /v1/blogs?limit=20
func (r *Router) handleListBlogs(w http.ResponseWriter, req *http.Request) error {
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))

	list, err := r.blogSvc.ListPublished(req.Context(), limit)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, list)
}

// GET /v1/blogs/{slug}: published for everyone, drafts for the author
// or an admin only; others get 404, not 403.
func (r *Router) handleGetBlog(w http.ResponseWriter, req *http.Request) error {
	viewer := middleware.UserFromContext(req.Context())
	slug := chi.URLParam(req, "slug")

	b, err := r.blogSvc.GetBySlug(req.Context(), viewer, slug)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, b)
}

// GET /v1/blogs/{slug}/rendered: the document tree resolved into
// ordered presentation blocks.
func (r *Router) handleRenderBlog(w http.ResponseWriter, req *http.Request) error {
	viewer := middleware.UserFromContext(req.Context())
	slug := chi.URLParam(req, "slug")

	b, blocks, err := r.blogSvc.RenderBySlug(req.Context(), viewer, slug)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{
		"id":     b.ID,
		"title":  b.Title,
		"slug":   b.Slug,
		"author": b.AuthorName,
		"tags":   b.Tags,
		"blocks": blocks,
	})
}

// POST /v1/blogs
func (r *Router) handleCreateBlog(w http.ResponseWriter, req *http.Request) error {
	user := middleware.UserFromContext(req.Context())

	var body struct {
		Title     string          `json:"title"`
		Content   json.RawMessage `json:"content"`
		Tags      []string        `json:"tags"`
		Published bool            `json:"published"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return invalidInput(err)
	}
	if err := middleware.ValidateBlogInput(body.Title, body.Content); err != nil {
		return invalidInput(err)
	}

	b, err := r.blogSvc.Create(req.Context(), user, appblogs.CreateBlogCommand{
		Title:     middleware.SanitizeString(body.Title),
		Content:   body.Content,
		Tags:      body.Tags,
		Published: body.Published,
	})
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, b)
}

// GET /v1/blogs/my?limit=20
func (r *Router) handleMyBlogs(w http.ResponseWriter, req *http.Request) error {
	user := middleware.UserFromContext(req.Context())
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))

	list, err := r.blogSvc.ListMine(req.Context(), user, limit)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, list)
}

// GET /v1/blogs/edit/{id}
func (r *Router) handleEditBlog(w http.ResponseWriter, req *http.Request) error {
	user := middleware.UserFromContext(req.Context())
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateID(id); err != nil {
		return invalidInput(err)
	}

	b, err := r.blogSvc.GetForEdit(req.Context(), user, domblogs.BlogID(id))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, b)
}

// PUT /v1/blogs/{id}
func (r *Router) handleUpdateBlog(w http.ResponseWriter, req *http.Request) error {
	user := middleware.UserFromContext(req.Context())
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateID(id); err != nil {
		return invalidInput(err)
	}

	var body struct {
		Title     string          `json:"title"`
		Content   json.RawMessage `json:"content"`
		Tags      *[]string       `json:"tags"`
		Published *bool           `json:"published"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return invalidInput(err)
	}

	b, err := r.blogSvc.Update(req.Context(), user, domblogs.BlogID(id), appblogs.UpdateBlogCommand{
		Title:     middleware.SanitizeString(body.Title),
		Content:   body.Content,
		Tags:      body.Tags,
		Published: body.Published,
	})
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, b)
}

// DELETE /v1/blogs/{id}
func (r *Router) handleDeleteBlog(w http.ResponseWriter, req *http.Request) error {
	user := middleware.UserFromContext(req.Context())
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateID(id); err != nil {
		return invalidInput(err)
	}

	if err := r.blogSvc.Delete(req.Context(), user, domblogs.BlogID(id)); err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]string{"message": "blog deleted"})
}
