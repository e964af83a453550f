package generation

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/radoslav1992/creative-studio/internal/domain"
)

// Refresher repairs stale output on read: succeeded jobs whose references
// are still remote URLs, or whose local files have gone missing, are
// re-materialized transparently. All failures are swallowed and the job is
// returned unchanged, so a read never breaks because a repair could not
// happen.
type Refresher struct {
	generations  domain.GenerationRepository
	provider     PredictionAPI
	materializer *Materializer
	logger       zerolog.Logger
}

func NewRefresher(
	generations domain.GenerationRepository,
	provider PredictionAPI,
	materializer *Materializer,
	logger zerolog.Logger,
) *Refresher {
	return &Refresher{
		generations:  generations,
		provider:     provider,
		materializer: materializer,
		logger:       logger,
	}
}

// EnsureFresh returns the job with intact local output, repairing it if
// needed. When every reference is local and present on disk it makes no
// outbound call at all.
func (r *Refresher) EnsureFresh(ctx context.Context, g *domain.Generation) *domain.Generation {
	if g == nil || g.Status != domain.StatusSucceeded || len(g.Output) == 0 {
		return g
	}

	refs := g.OutputRefs()
	if len(refs) > 0 && r.allLocalAndPresent(refs) {
		return g
	}
	if g.ProviderJobID == "" {
		return g
	}

	pred, err := r.provider.GetPrediction(ctx, g.ProviderJobID)
	if err != nil {
		r.logger.Debug().Err(err).Str("generation", g.ID).Msg("staleness refresh skipped")
		return g
	}
	if pred.Status != "succeeded" {
		return g
	}
	urls := pred.OutputURLs()
	if len(urls) == 0 {
		return g
	}

	localRefs, err := r.materializer.Materialize(ctx, g.ID, urls)
	if err != nil {
		r.logger.Debug().Err(err).Str("generation", g.ID).Msg("staleness refresh download failed")
		return g
	}
	out := domain.EncodeOutputRefs(localRefs)
	if err := r.generations.UpdateStatus(ctx, g.ID, domain.StatusSucceeded, nil, out); err != nil {
		r.logger.Debug().Err(err).Str("generation", g.ID).Msg("staleness refresh persist failed")
		return g
	}

	refreshed := *g
	refreshed.Output = out
	return &refreshed
}

func (r *Refresher) allLocalAndPresent(refs []string) bool {
	for _, ref := range refs {
		if !r.materializer.IsLocal(ref) || !r.materializer.LocalExists(ref) {
			return false
		}
	}
	return true
}
