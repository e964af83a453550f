package generation

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/radoslav1992/creative-studio/internal/domain"
	"github.com/radoslav1992/creative-studio/internal/providers/replicate"
)

func newTestRefresher(t *testing.T) (*Refresher, *memGenRepo, *fakePredictionAPI, *downloadTransport, *Materializer) {
	t.Helper()
	repo := newMemGenRepo()
	api := &fakePredictionAPI{preds: map[string]*replicate.Prediction{}}
	transport := newDownloadTransport()
	m := newTestMaterializer(t, transport)
	return NewRefresher(repo, api, m, zerolog.Nop()), repo, api, transport, m
}

func succeededJob(output string) *domain.Generation {
	return &domain.Generation{
		ID:            "gen-1",
		OwnerID:       "user-1",
		ModelID:       "google/veo-3",
		Status:        domain.StatusSucceeded,
		ProviderJobID: "pred-1",
		Output:        []byte(output),
	}
}

func TestEnsureFreshRematerializesRemoteRefs(t *testing.T) {
	r, repo, api, transport, m := newTestRefresher(t)
	g := succeededJob(`["https://cdn.example.com/a.mp4", "https://cdn.example.com/b.mp4"]`)
	repo.Create(context.Background(), g)
	api.preds["pred-1"] = &replicate.Prediction{
		ID:     "pred-1",
		Status: "succeeded",
		Output: []byte(`["https://cdn.example.com/a.mp4", "https://cdn.example.com/b.mp4"]`),
	}

	fresh := r.EnsureFresh(context.Background(), g)
	refs := fresh.OutputRefs()
	if len(refs) != 2 {
		t.Fatalf("refs = %v", refs)
	}
	for _, ref := range refs {
		if !m.LocalExists(ref) {
			t.Fatalf("ref %q not on disk after refresh", ref)
		}
	}
	if transport.total() != 2 {
		t.Fatalf("downloads = %d, want 2", transport.total())
	}
	stored, _ := repo.GetForOwner(context.Background(), "gen-1", "user-1")
	if !bytes.Equal(stored.Output, fresh.Output) {
		t.Fatalf("repaired output not persisted: %s vs %s", stored.Output, fresh.Output)
	}
}

func TestEnsureFreshIsIdempotent(t *testing.T) {
	r, repo, api, transport, _ := newTestRefresher(t)
	g := succeededJob(`"https://cdn.example.com/a.mp4"`)
	repo.Create(context.Background(), g)
	api.preds["pred-1"] = &replicate.Prediction{
		ID:     "pred-1",
		Status: "succeeded",
		Output: []byte(`"https://cdn.example.com/a.mp4"`),
	}

	first := r.EnsureFresh(context.Background(), g)
	apiCalls := api.getCalls
	downloads := transport.total()

	second := r.EnsureFresh(context.Background(), first)
	if !bytes.Equal(first.Output, second.Output) {
		t.Fatalf("second refresh changed output: %s vs %s", first.Output, second.Output)
	}
	if api.getCalls != apiCalls || transport.total() != downloads {
		t.Fatalf("second refresh made outbound calls")
	}
}

func TestEnsureFreshFastPathSkipsProvider(t *testing.T) {
	r, repo, api, _, m := newTestRefresher(t)

	// A local file written out of band, referenced by the job.
	key := "gen-1-0-abcdef.mp4"
	if err := os.WriteFile(filepath.Join(m.store.BasePath(), key), []byte("x"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}
	g := succeededJob(`"/outputs/` + key + `"`)
	repo.Create(context.Background(), g)

	fresh := r.EnsureFresh(context.Background(), g)
	if api.getCalls != 0 {
		t.Fatalf("fast path made %d provider calls", api.getCalls)
	}
	if fresh != g {
		t.Fatalf("fast path should return the job untouched")
	}
}

func TestEnsureFreshRepairsMissingLocalFile(t *testing.T) {
	r, repo, api, transport, m := newTestRefresher(t)
	// Reference is local but the backing file was never written.
	g := succeededJob(`"/outputs/gen-1-0-feedface.mp4"`)
	repo.Create(context.Background(), g)
	api.preds["pred-1"] = &replicate.Prediction{
		ID:     "pred-1",
		Status: "succeeded",
		Output: []byte(`"https://cdn.example.com/a.mp4"`),
	}

	fresh := r.EnsureFresh(context.Background(), g)
	refs := fresh.OutputRefs()
	if len(refs) != 1 || !m.LocalExists(refs[0]) {
		t.Fatalf("refs = %v, want one present local file", refs)
	}
	if transport.total() != 1 {
		t.Fatalf("downloads = %d", transport.total())
	}
}

func TestEnsureFreshSwallowsProviderFailure(t *testing.T) {
	r, repo, api, _, _ := newTestRefresher(t)
	g := succeededJob(`"https://cdn.example.com/a.mp4"`)
	repo.Create(context.Background(), g)
	api.getErr = &domain.UpstreamError{Status: 500, Message: "flaky"}

	fresh := r.EnsureFresh(context.Background(), g)
	if !bytes.Equal(fresh.Output, g.Output) {
		t.Fatalf("failed refresh mutated the job")
	}
	stored, _ := repo.GetForOwner(context.Background(), "gen-1", "user-1")
	if !strings.Contains(string(stored.Output), "https://") {
		t.Fatalf("failed refresh should leave the stored refs untouched")
	}
}

func TestEnsureFreshIgnoresNonSucceededJobs(t *testing.T) {
	r, _, api, _, _ := newTestRefresher(t)
	g := &domain.Generation{ID: "gen-2", Status: domain.StatusProcessing, ProviderJobID: "pred-2"}

	if fresh := r.EnsureFresh(context.Background(), g); fresh != g {
		t.Fatalf("processing job should pass through unchanged")
	}
	if api.getCalls != 0 {
		t.Fatalf("non-succeeded job triggered a provider call")
	}
}

func TestEnsureFreshSkipsJobWithoutProviderID(t *testing.T) {
	r, repo, api, _, _ := newTestRefresher(t)
	g := succeededJob(`"https://cdn.example.com/a.mp4"`)
	g.ProviderJobID = ""
	repo.Create(context.Background(), g)

	if fresh := r.EnsureFresh(context.Background(), g); fresh != g {
		t.Fatalf("job without a provider id cannot be refreshed")
	}
	if api.getCalls != 0 {
		t.Fatalf("provider called despite missing job id")
	}
}
