// Package catalog maintains the persisted model catalog: syncing provider
// schemas into records and suggesting metadata for newly added models.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/radoslav1992/creative-studio/internal/domain"
	"github.com/radoslav1992/creative-studio/internal/providers/replicate"
	"github.com/radoslav1992/creative-studio/internal/registry"
	"github.com/radoslav1992/creative-studio/internal/schema"
)

// ModelAPI is the slice of the provider client the catalog needs.
type ModelAPI interface {
	GetModel(ctx context.Context, externalID string) (*replicate.Model, error)
}

type Service struct {
	models   domain.ModelRepository
	provider ModelAPI
	logger   zerolog.Logger
	now      func() time.Time
}

func NewService(models domain.ModelRepository, provider ModelAPI, logger zerolog.Logger) *Service {
	return &Service{
		models:   models,
		provider: provider,
		logger:   logger,
		now:      time.Now,
	}
}

// SyncOne refreshes one catalog record from the provider's introspection
// endpoint. The record is created if missing (display data seeded from the
// built-in registry when available) and its schema and sync timestamp are
// rewritten in place; the external id itself never changes.
func (s *Service) SyncOne(ctx context.Context, externalID string) (*domain.Model, error) {
	model, err := s.provider.GetModel(ctx, externalID)
	if err != nil {
		return nil, err
	}

	props, required, defs, ok := model.LatestVersion.InputSchema()
	if !ok {
		return nil, fmt.Errorf("model %s: %w", externalID, domain.ErrNoSchema)
	}
	resolved := schema.Resolve(props, defs)

	record, err := s.models.GetByExternalID(ctx, externalID)
	if err != nil {
		if err != domain.ErrNotFound {
			return nil, err
		}
		record = s.newRecord(externalID, model)
	}
	if entry := registry.Find(externalID); entry != nil {
		applyRegistryEntry(record, entry)
	}

	record.InputSchema = domain.InputSchema{Properties: resolved, Required: required}
	syncedAt := s.now()
	record.LastSyncedAt = &syncedAt

	if err := s.models.Upsert(ctx, record); err != nil {
		return nil, fmt.Errorf("upsert model %s: %w", externalID, err)
	}
	s.logger.Info().
		Str("model", externalID).
		Int("params", len(resolved)).
		Msg("model schema synced")
	return record, nil
}

// SyncResult is the per-model outcome of a bulk sync.
type SyncResult struct {
	ExternalID string `json:"externalId"`
	Status     string `json:"status"` // "synced" or "error"
	Error      string `json:"error,omitempty"`
}

// SyncAll walks the built-in registry and syncs every model. Failures are
// recorded per model so one broken schema never blocks the rest.
func (s *Service) SyncAll(ctx context.Context) []SyncResult {
	results := make([]SyncResult, 0, len(registry.Entries))
	for _, entry := range registry.Entries {
		if _, err := s.SyncOne(ctx, entry.ExternalID); err != nil {
			s.logger.Warn().Err(err).Str("model", entry.ExternalID).Msg("model sync failed")
			results = append(results, SyncResult{
				ExternalID: entry.ExternalID,
				Status:     "error",
				Error:      err.Error(),
			})
			continue
		}
		results = append(results, SyncResult{ExternalID: entry.ExternalID, Status: "synced"})
	}
	return results
}

// Suggestion is the best-guess metadata for a model an admin is about to
// add. Category and capabilities are heuristic and meant to be overridden
// before saving; nothing else in the system treats them as ground truth.
type Suggestion struct {
	ExternalID    string               `json:"externalId"`
	Name          string               `json:"name"`
	Owner         string               `json:"owner"`
	Provider      string               `json:"provider"`
	Description   string               `json:"description"`
	Category      domain.ModelCategory `json:"category"`
	Capabilities  []string             `json:"capabilities"`
	InputSchema   domain.InputSchema   `json:"inputSchema"`
	ParamCount    int                  `json:"paramCount"`
	RunCount      int64                `json:"runCount"`
	CoverImageURL string               `json:"coverImageUrl,omitempty"`
}

// FetchNew pulls a model the catalog has never seen and derives suggested
// metadata from its description and resolved schema. Nothing is persisted.
func (s *Service) FetchNew(ctx context.Context, externalID string) (*Suggestion, error) {
	model, err := s.provider.GetModel(ctx, externalID)
	if err != nil {
		return nil, err
	}

	inputSchema := domain.EmptyInputSchema()
	if props, required, defs, ok := model.LatestVersion.InputSchema(); ok {
		inputSchema = domain.InputSchema{Properties: schema.Resolve(props, defs), Required: required}
	}

	owner, shortName := splitExternalID(externalID)
	name := model.Name
	if name == "" {
		name = shortName
	}
	category := guessCategory(model.Description)

	return &Suggestion{
		ExternalID:    externalID,
		Name:          name,
		Owner:         owner,
		Provider:      cases.Title(language.Und).String(owner),
		Description:   model.Description,
		Category:      category,
		Capabilities:  guessCapabilities(category, inputSchema.Properties),
		InputSchema:   inputSchema,
		ParamCount:    len(inputSchema.Properties),
		RunCount:      model.RunCount,
		CoverImageURL: model.CoverImageURL,
	}, nil
}

func (s *Service) newRecord(externalID string, model *replicate.Model) *domain.Model {
	owner, shortName := splitExternalID(externalID)
	name := model.Name
	if name == "" {
		name = shortName
	}
	return &domain.Model{
		ExternalID:    externalID,
		Name:          name,
		Provider:      cases.Title(language.Und).String(owner),
		ProviderColor: "#888888",
		Description:   model.Description,
		Category:      guessCategory(model.Description),
		Capabilities:  []string{},
		IsActive:      true,
	}
}

func applyRegistryEntry(record *domain.Model, entry *registry.Entry) {
	record.Name = entry.Name
	record.Provider = entry.Provider
	record.ProviderColor = entry.ProviderColor
	record.Description = entry.Description
	record.Category = entry.Category
	record.Capabilities = entry.Capabilities
	record.Badge = entry.Badge
	record.SortOrder = entry.SortOrder
}

func splitExternalID(externalID string) (owner, name string) {
	owner, name, found := strings.Cut(externalID, "/")
	if !found {
		return externalID, externalID
	}
	return owner, name
}

func guessCategory(description string) domain.ModelCategory {
	desc := strings.ToLower(description)
	if strings.Contains(desc, "video") || strings.Contains(desc, "clip") {
		return domain.CategoryVideo
	}
	return domain.CategoryImage
}

func guessCapabilities(category domain.ModelCategory, props map[string]domain.SchemaProperty) []string {
	has := func(names ...string) bool {
		for _, n := range names {
			if _, ok := props[n]; ok {
				return true
			}
		}
		return false
	}
	if category == domain.CategoryVideo {
		caps := []string{domain.CapTextToVideo}
		if has("image", "start_image", "input_reference") {
			caps = append(caps, domain.CapImageToVideo)
		}
		return caps
	}
	caps := []string{domain.CapTextToImage}
	if has("image", "image_input", "input_images", "mask") {
		caps = append(caps, domain.CapImageEditing)
	}
	if has("character_reference_image") {
		caps = append(caps, domain.CapCharacterConsistency)
	}
	return caps
}
