package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"path"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/radoslav1992/creative-studio/internal/domain"
	"github.com/radoslav1992/creative-studio/pkg/zip"
)

type generationView struct {
	ID            string          `json:"id"`
	ModelID       string          `json:"model_id"`
	ModelName     string          `json:"model_name"`
	Prompt        string          `json:"prompt"`
	Category      string          `json:"category"`
	Status        string          `json:"status"`
	ProviderJobID string          `json:"provider_job_id,omitempty"`
	Output        json.RawMessage `json:"output,omitempty"`
	Error         string          `json:"error,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func newGenerationView(g *domain.Generation) generationView {
	return generationView{
		ID:            g.ID,
		ModelID:       g.ModelID,
		ModelName:     g.ModelName,
		Prompt:        g.Prompt,
		Category:      string(g.Category),
		Status:        string(g.Status),
		ProviderJobID: g.ProviderJobID,
		Output:        g.Output,
		Error:         g.ErrorMessage,
		CreatedAt:     g.CreatedAt,
		UpdatedAt:     g.UpdatedAt,
	}
}

type generationCreateRequest struct {
	ModelID   string `json:"model_id"`
	ModelName string `json:"model_name"`
	Prompt    string `json:"prompt"`
	Category  string `json:"category"`
}

// GenerationsCreate records a new job in the starting state. Submission to
// the provider happens separately through Generate.
func (a *App) GenerationsCreate(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.domainError(w, domain.ErrUnauthorized)
		return
	}
	var req generationCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.ModelID == "" || req.ModelName == "" || req.Prompt == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "model_id, model_name and prompt are required")
		return
	}
	if !domain.ValidCategory(req.Category) {
		a.error(w, http.StatusBadRequest, "bad_request", "category must be video or image")
		return
	}

	g, err := a.Manager.Create(r.Context(), userID, req.ModelID, req.ModelName, req.Prompt, domain.ModelCategory(req.Category))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, newGenerationView(g))
}

// GenerationsList returns a page of the user's jobs, newest first.
func (a *App) GenerationsList(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.domainError(w, domain.ErrUnauthorized)
		return
	}

	filter := domain.GenerationFilter{Limit: 50}
	q := r.URL.Query()
	if c := q.Get("category"); c != "" && domain.ValidCategory(c) {
		filter.Category = domain.ModelCategory(c)
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
		filter.Limit = v
	}
	if v, err := strconv.Atoi(q.Get("offset")); err == nil && v > 0 {
		filter.Offset = v
	}

	generations, total, err := a.Generations.ListByOwner(r.Context(), userID, filter)
	if err != nil {
		a.domainError(w, err)
		return
	}
	views := make([]generationView, 0, len(generations))
	for i := range generations {
		views = append(views, newGenerationView(&generations[i]))
	}
	a.json(w, http.StatusOK, map[string]any{"generations": views, "total": total})
}

// GenerationsGet returns one job. Stale output is repaired on the way out.
func (a *App) GenerationsGet(w http.ResponseWriter, r *http.Request) {
	g, ok := a.loadOwned(w, r)
	if !ok {
		return
	}
	g = a.Refresher.EnsureFresh(r.Context(), g)
	a.json(w, http.StatusOK, newGenerationView(g))
}

// GenerationsRefresh forces the staleness repair and reports whether it
// changed anything.
func (a *App) GenerationsRefresh(w http.ResponseWriter, r *http.Request) {
	g, ok := a.loadOwned(w, r)
	if !ok {
		return
	}
	before := string(g.Output)
	g = a.Refresher.EnsureFresh(r.Context(), g)
	a.json(w, http.StatusOK, map[string]any{
		"generation": newGenerationView(g),
		"refreshed":  string(g.Output) != before,
	})
}

// GenerationsDelete removes a job record. Materialized files stay on disk.
func (a *App) GenerationsDelete(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.domainError(w, domain.ErrUnauthorized)
		return
	}
	id := chi.URLParam(r, "id")
	if err := a.Generations.Delete(r.Context(), id, userID); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]bool{"success": true})
}

// GenerationsDownload streams the job's materialized outputs as one zip
// archive.
func (a *App) GenerationsDownload(w http.ResponseWriter, r *http.Request) {
	g, ok := a.loadOwned(w, r)
	if !ok {
		return
	}
	g = a.Refresher.EnsureFresh(r.Context(), g)

	var assets []zip.Asset
	for _, ref := range g.OutputRefs() {
		if !a.Materializer.IsLocal(ref) {
			// Still remote; nothing on disk to package.
			continue
		}
		key := a.Materializer.LocalKey(ref)
		data, err := a.Store.ReadFile(key)
		if err != nil {
			continue
		}
		assets = append(assets, zip.Asset{Filename: path.Base(key), Data: data})
	}
	if len(assets) == 0 {
		a.error(w, http.StatusNotFound, "not_found", "no local output files")
		return
	}

	archive := zip.ArchiveAssets(assets)
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", g.ID+".zip"))
	_, _ = bytes.NewReader(archive).WriteTo(w)
}

func (a *App) loadOwned(w http.ResponseWriter, r *http.Request) (*domain.Generation, bool) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.domainError(w, domain.ErrUnauthorized)
		return nil, false
	}
	id := chi.URLParam(r, "id")
	if id == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "id required")
		return nil, false
	}
	g, err := a.Generations.GetForOwner(r.Context(), id, userID)
	if err != nil {
		a.domainError(w, err)
		return nil, false
	}
	return g, true
}
