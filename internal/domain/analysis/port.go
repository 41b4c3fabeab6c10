package analysis

import "context"

// Repository port (interface for persistence)
type Repository interface {
	Save(ctx context.Context, a *Analysis) error
	Get(ctx context.Context, id AnalysisID) (*Analysis, error)
	// History returns the owner's analyses newest first. Implementations
	// leave RawResponse empty; the full row is only loaded by Get.
	History(ctx context.Context, ownerID string, limit int) ([]*Analysis, error)
	Delete(ctx context.Context, id AnalysisID) error
}

// RawArchive port: optional audit copy of the untouched model reply.
type RawArchive interface {
	PutRaw(ctx context.Context, key string, body []byte) (string, error)
}
