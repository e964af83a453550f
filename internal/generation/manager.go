// Package generation drives a job through its lifecycle: record creation,
// submission to the provider, status polling, and output materialization.
package generation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/radoslav1992/creative-studio/internal/domain"
	"github.com/radoslav1992/creative-studio/internal/providers/replicate"
)

// PredictionAPI is the slice of the provider client the lifecycle needs.
type PredictionAPI interface {
	CreatePrediction(ctx context.Context, externalID string, input map[string]any) (*replicate.Prediction, error)
	GetPrediction(ctx context.Context, providerJobID string) (*replicate.Prediction, error)
}

type Manager struct {
	generations  domain.GenerationRepository
	models       domain.ModelRepository
	provider     PredictionAPI
	materializer *Materializer
	logger       zerolog.Logger
	now          func() time.Time
	newID        func() string
}

func NewManager(
	generations domain.GenerationRepository,
	models domain.ModelRepository,
	provider PredictionAPI,
	materializer *Materializer,
	logger zerolog.Logger,
) *Manager {
	return &Manager{
		generations:  generations,
		models:       models,
		provider:     provider,
		materializer: materializer,
		logger:       logger,
		now:          time.Now,
		newID:        uuid.NewString,
	}
}

// Create persists a new job in the starting state. No provider call is made.
func (m *Manager) Create(ctx context.Context, ownerID, modelID, modelName, prompt string, category domain.ModelCategory) (*domain.Generation, error) {
	g := &domain.Generation{
		ID:        m.newID(),
		OwnerID:   ownerID,
		ModelID:   modelID,
		ModelName: modelName,
		Prompt:    prompt,
		Category:  category,
		Status:    domain.StatusStarting,
		CreatedAt: m.now(),
	}
	if err := m.generations.Create(ctx, g); err != nil {
		return nil, fmt.Errorf("create generation: %w", err)
	}
	return g, nil
}

// Submit validates the input against the model schema, builds the provider
// payload and requests asynchronous execution. On acceptance the job moves
// to processing and the provider job id is recorded; on rejection it moves
// to failed with the provider's message. Validation failures happen before
// any provider call and leave the job untouched. Only a job still in
// starting may be submitted; anything later is already with the provider or
// terminal, and resubmitting would rewind the status.
func (m *Manager) Submit(ctx context.Context, g *domain.Generation, values map[string]any) (string, error) {
	if g.Status != domain.StatusStarting {
		return "", fmt.Errorf("generation %s already submitted: %w", g.ID, domain.ErrDuplicate)
	}

	model, err := m.models.GetByExternalID(ctx, g.ModelID)
	if err != nil {
		return "", fmt.Errorf("load model %s: %w", g.ModelID, err)
	}

	input, err := BuildInput(model.InputSchema, g.Prompt, values)
	if err != nil {
		return "", err
	}

	pred, err := m.provider.CreatePrediction(ctx, g.ModelID, input)
	if err != nil {
		msg := submitErrorMessage(err)
		if uerr := m.generations.UpdateStatus(ctx, g.ID, domain.StatusFailed, &msg, nil); uerr != nil {
			m.logger.Error().Err(uerr).Str("generation", g.ID).Msg("failed to record submit failure")
		}
		g.Status = domain.StatusFailed
		g.ErrorMessage = msg
		return "", err
	}

	if err := m.generations.SetProviderJob(ctx, g.ID, pred.ID, domain.StatusProcessing); err != nil {
		return "", fmt.Errorf("record provider job: %w", err)
	}
	g.Status = domain.StatusProcessing
	g.ProviderJobID = pred.ID
	m.logger.Info().Str("generation", g.ID).Str("prediction", pred.ID).Str("model", g.ModelID).Msg("generation submitted")
	return pred.ID, nil
}

// Poll fetches the provider's view of a processing job and advances it.
// Callers drive the cadence: every 2s for image jobs and 3s for video,
// backing off to 4s/5s after a transient failure, until a terminal state
// comes back. A job already terminal is returned as-is with no outbound
// call.
func (m *Manager) Poll(ctx context.Context, g *domain.Generation) (*domain.Generation, error) {
	if g.Status.Terminal() {
		return g, nil
	}
	if g.ProviderJobID == "" {
		return g, fmt.Errorf("generation %s has not been submitted", g.ID)
	}

	pred, err := m.provider.GetPrediction(ctx, g.ProviderJobID)
	if err != nil {
		return g, err
	}

	next := mapProviderStatus(pred.Status)
	if !g.Status.CanAdvance(next) {
		// Never step a job backwards, whatever the provider claims.
		return g, nil
	}

	switch next {
	case domain.StatusSucceeded:
		return m.complete(ctx, g, pred)
	case domain.StatusFailed:
		msg := pred.Error
		if msg == "" {
			msg = "generation failed"
		}
		return m.terminate(ctx, g, domain.StatusFailed, msg)
	case domain.StatusCanceled:
		return m.terminate(ctx, g, domain.StatusCanceled, pred.Error)
	default:
		// Still running; nothing to persist.
		return g, nil
	}
}

// complete materializes the provider's output URLs and records success.
// When a download fails, the remote URLs are stored instead and the
// staleness refresher repairs them on a later read; the success itself is
// never lost.
func (m *Manager) complete(ctx context.Context, g *domain.Generation, pred *replicate.Prediction) (*domain.Generation, error) {
	urls := pred.OutputURLs()
	refs, err := m.materializer.Materialize(ctx, g.ID, urls)
	if err != nil {
		m.logger.Warn().Err(err).Str("generation", g.ID).Msg("output materialization failed, storing remote refs")
		refs = urls
	}
	out := domain.EncodeOutputRefs(refs)
	if err := m.generations.UpdateStatus(ctx, g.ID, domain.StatusSucceeded, nil, out); err != nil {
		return g, fmt.Errorf("record success: %w", err)
	}
	g.Status = domain.StatusSucceeded
	g.Output = out
	return g, nil
}

func (m *Manager) terminate(ctx context.Context, g *domain.Generation, status domain.GenerationStatus, msg string) (*domain.Generation, error) {
	var msgPtr *string
	if msg != "" {
		msgPtr = &msg
	}
	if err := m.generations.UpdateStatus(ctx, g.ID, status, msgPtr, nil); err != nil {
		return g, fmt.Errorf("record terminal state: %w", err)
	}
	g.Status = status
	g.ErrorMessage = msg
	return g, nil
}

// BuildInput assembles the provider payload: the prompt plus, for every
// other schema field, the user value when present and non-empty, otherwise
// the field's declared default. Required fields with neither fail
// validation before any provider call.
func BuildInput(s domain.InputSchema, prompt string, values map[string]any) (map[string]any, error) {
	for _, field := range s.Required {
		if field == "prompt" {
			continue
		}
		if hasValue(values[field]) {
			continue
		}
		if prop, ok := s.Properties[field]; ok && prop.Default != nil {
			continue
		}
		return nil, &domain.ValidationError{Field: field}
	}

	input := map[string]any{"prompt": prompt}
	for name, prop := range s.Properties {
		if name == "prompt" {
			continue
		}
		if v, ok := values[name]; ok && hasValue(v) {
			input[name] = v
			continue
		}
		if prop.Default != nil {
			input[name] = prop.Default
		}
	}
	return input, nil
}

// hasValue treats nil, empty strings and empty lists as absent.
func hasValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case []any:
		return len(t) > 0
	case []string:
		return len(t) > 0
	}
	return true
}

func submitErrorMessage(err error) string {
	var upstream *domain.UpstreamError
	if errors.As(err, &upstream) && upstream.Message != "" {
		return upstream.Message
	}
	if err != nil {
		return err.Error()
	}
	return "generation request was rejected"
}

func mapProviderStatus(s string) domain.GenerationStatus {
	switch s {
	case "starting":
		return domain.StatusStarting
	case "succeeded":
		return domain.StatusSucceeded
	case "failed":
		return domain.StatusFailed
	case "canceled":
		return domain.StatusCanceled
	default:
		return domain.StatusProcessing
	}
}
