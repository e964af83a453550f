package domain

import "context"

// ModelFilter narrows catalog listings.
type ModelFilter struct {
	Category   ModelCategory // empty matches both
	ActiveOnly bool
}

// ModelRepository defines persistence for catalog entries, keyed by the
// provider's external id.
type ModelRepository interface {
	Create(ctx context.Context, m *Model) error
	Upsert(ctx context.Context, m *Model) error
	GetByExternalID(ctx context.Context, externalID string) (*Model, error)
	List(ctx context.Context, f ModelFilter) ([]Model, error)
	SetActive(ctx context.Context, externalID string, active bool) error
	Delete(ctx context.Context, externalID string) error
}

// GenerationFilter narrows history listings.
type GenerationFilter struct {
	Category ModelCategory
	Limit    int
	Offset   int
}

// GenerationRepository defines persistence for generation jobs.
type GenerationRepository interface {
	Create(ctx context.Context, g *Generation) error
	GetForOwner(ctx context.Context, id, ownerID string) (*Generation, error)
	ListByOwner(ctx context.Context, ownerID string, f GenerationFilter) ([]Generation, int, error)
	// SetProviderJob records the provider job id handed back on submission
	// and advances the status in the same write.
	SetProviderJob(ctx context.Context, id, providerJobID string, status GenerationStatus) error
	// UpdateStatus advances the status; errMsg and output are left untouched
	// when nil.
	UpdateStatus(ctx context.Context, id string, status GenerationStatus, errMsg *string, output []byte) error
	Delete(ctx context.Context, id, ownerID string) error
}
