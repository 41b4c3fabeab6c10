package analysis

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"algolens/internal/application"
	domai "algolens/internal/domain/ai"
	domain "algolens/internal/domain/analysis"
	"algolens/internal/domain/identity"
	"algolens/internal/domain/policy"
	"algolens/internal/infra/ai/prompt"
)

// Service implements use-cases for Analysis
// Service is designed to be used concurrently and is thread-safe
type Service struct {
	Repo    domain.Repository
	Model   domai.Client
	Archive domain.RawArchive // optional; nil disables raw-response archiving
	Clock   application.Clock
	Log     *zap.Logger
}

// Command to run one analysis
type AnalyzeCommand struct {
	OwnerID  string
	Code     string
	Language string
}

// Analyze builds the prompt, makes the single model call, extracts the
// report and persists it. A failed call or unparseable reply returns an
// error and leaves no row behind; the record exists only for a fully
// successful extraction.
func (s *Service) Analyze(ctx context.Context, cmd AnalyzeCommand) (*domain.Analysis, error) {
	out := s.extract(ctx, prompt.Complexity(cmd.Code, cmd.Language))
	if !out.Success {
		return nil, out.Err()
	}

	now := s.Clock.Now()
	a := &domain.Analysis{
		ID:              domain.AnalysisID(uuid.New().String()),
		OwnerID:         cmd.OwnerID,
		SourceCode:      cmd.Code,
		Language:        cmd.Language,
		TimeComplexity:  out.Data.TimeComplexity,
		SpaceComplexity: out.Data.SpaceComplexity,
		Explanation:     out.Data.Explanation,
		RawResponse:     out.Data.RawResponse,
		CreatedAt:       now,
	}

	// archive the untouched reply first so the stored row can point at it
	if s.Archive != nil {
		key := fmt.Sprintf("%s/%s.txt", a.OwnerID, a.ID)
		url, err := s.Archive.PutRaw(ctx, key, []byte(a.RawResponse))
		if err != nil {
			// audit copy is best effort, the DB row still holds the raw text
			s.Log.Warn("raw response archive failed",
				zap.String("analysis_id", string(a.ID)), zap.Error(err))
		} else {
			a.ArchiveURL = url
		}
	}

	if err := s.Repo.Save(ctx, a); err != nil {
		return nil, fmt.Errorf("save analysis: %w", err)
	}
	return a, nil
}

// extract runs the model call and folds any upstream failure into the
// same Outcome shape a parse failure produces. Nothing escapes this
// boundary as a panic or an unchecked error.
func (s *Service) extract(ctx context.Context, p string) Outcome {
	raw, err := s.Model.Complete(ctx, p)
	if err != nil {
		return Failure(err)
	}
	return Extract(raw)
}

// History returns the caller's analyses newest first, raw responses
// excluded by the repository.
func (s *Service) History(ctx context.Context, ownerID string, limit int) ([]*domain.Analysis, error) {
	return s.Repo.History(ctx, ownerID, limit)
}

// Get returns one analysis; only the owner or an admin may read it.
func (s *Service) Get(ctx context.Context, actor *identity.User, id domain.AnalysisID) (*domain.Analysis, error) {
	a, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanMutate(actor, a.OwnerID) {
		return nil, fmt.Errorf("analysis %s: %w", id, application.ErrForbidden)
	}
	return a, nil
}

// Delete removes one analysis; only the owner or an admin may.
func (s *Service) Delete(ctx context.Context, actor *identity.User, id domain.AnalysisID) error {
	a, err := s.Repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !policy.CanMutate(actor, a.OwnerID) {
		return fmt.Errorf("analysis %s: %w", id, application.ErrForbidden)
	}
	return s.Repo.Delete(ctx, id)
}
