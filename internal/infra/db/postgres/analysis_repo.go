package postgres

import (
	"context"
	"database/sql"
	"time"

	domain "algolens/internal/domain/analysis"
)

type AnalysisRepository struct{ db *sql.DB }

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository { return &AnalysisRepository{db: db} }

// Save inserts an analysis record
func (r *AnalysisRepository) Save(ctx context.Context, a *domain.Analysis) error {
	const q = `
INSERT INTO analyses
  (id, owner_id, code, language,
   time_best, time_average, time_worst,
   space_best, space_average, space_worst,
   explanation, raw_response, archive_url, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14);`

	owner := stringOrDash(a.OwnerID)
	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, q,
		a.ID, owner, a.SourceCode, a.Language,
		a.TimeComplexity.BestCase, a.TimeComplexity.AverageCase, a.TimeComplexity.WorstCase,
		a.SpaceComplexity.BestCase, a.SpaceComplexity.AverageCase, a.SpaceComplexity.WorstCase,
		a.Explanation, a.RawResponse, a.ArchiveURL, createdAt,
	)
	return err
}

// Get by ID, raw response included
func (r *AnalysisRepository) Get(ctx context.Context, id domain.AnalysisID) (*domain.Analysis, error) {
	const q = `
SELECT id, owner_id, code, language,
       time_best, time_average, time_worst,
       space_best, space_average, space_worst,
       explanation, raw_response, archive_url, created_at
FROM analyses
WHERE id=$1 LIMIT 1;`

	row := r.db.QueryRowContext(ctx, q, id)

	var a domain.Analysis
	if err := row.Scan(
		&a.ID, &a.OwnerID, &a.SourceCode, &a.Language,
		&a.TimeComplexity.BestCase, &a.TimeComplexity.AverageCase, &a.TimeComplexity.WorstCase,
		&a.SpaceComplexity.BestCase, &a.SpaceComplexity.AverageCase, &a.SpaceComplexity.WorstCase,
		&a.Explanation, &a.RawResponse, &a.ArchiveURL, &a.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

// History newest first, raw_response excluded
func (r *AnalysisRepository) History(ctx context.Context, ownerID string, limit int) ([]*domain.Analysis, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, owner_id, code, language,
       time_best, time_average, time_worst,
       space_best, space_average, space_worst,
       explanation, archive_url, created_at
FROM analyses
WHERE owner_id=$1 ORDER BY created_at DESC, id DESC LIMIT $2;`

	rows, err := r.db.QueryContext(ctx, q, ownerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Analysis
	for rows.Next() {
		var a domain.Analysis
		if err := rows.Scan(
			&a.ID, &a.OwnerID, &a.SourceCode, &a.Language,
			&a.TimeComplexity.BestCase, &a.TimeComplexity.AverageCase, &a.TimeComplexity.WorstCase,
			&a.SpaceComplexity.BestCase, &a.SpaceComplexity.AverageCase, &a.SpaceComplexity.WorstCase,
			&a.Explanation, &a.ArchiveURL, &a.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

// Delete removes one analysis by ID
func (r *AnalysisRepository) Delete(ctx context.Context, id domain.AnalysisID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM analyses WHERE id=$1;`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
