package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/radoslav1992/creative-studio/internal/domain"
)

// Admin catalog management. External ids contain a slash ("owner/name"),
// so they travel in request bodies and query strings rather than path
// segments.

func (a *App) AdminModelsList(w http.ResponseWriter, r *http.Request) {
	models, err := a.Models.List(r.Context(), domain.ModelFilter{})
	if err != nil {
		a.domainError(w, err)
		return
	}
	views := make([]modelView, 0, len(models))
	for _, m := range models {
		views = append(views, newModelView(m))
	}
	a.json(w, http.StatusOK, map[string]any{"models": views})
}

type adminModelAddRequest struct {
	ExternalID    string              `json:"external_id"`
	Name          string              `json:"name"`
	Provider      string              `json:"provider"`
	ProviderColor string              `json:"provider_color"`
	Description   string              `json:"description"`
	Category      string              `json:"category"`
	Capabilities  []string            `json:"capabilities"`
	Badge         string              `json:"badge"`
	SortOrder     int                 `json:"sort_order"`
	InputSchema   *domain.InputSchema `json:"input_schema"`
}

// AdminModelsAdd registers a new catalog entry. A schema supplied inline
// counts as synced; otherwise the entry waits for its first sync.
func (a *App) AdminModelsAdd(w http.ResponseWriter, r *http.Request) {
	var req adminModelAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.ExternalID == "" || req.Name == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "external_id and name are required")
		return
	}
	if !domain.ValidCategory(req.Category) {
		a.error(w, http.StatusBadRequest, "bad_request", "category must be video or image")
		return
	}

	provider := req.Provider
	if provider == "" {
		provider = strings.SplitN(req.ExternalID, "/", 2)[0]
	}
	color := req.ProviderColor
	if color == "" {
		color = "#888888"
	}
	capabilities := req.Capabilities
	if capabilities == nil {
		capabilities = []string{}
	}

	m := &domain.Model{
		ExternalID:    req.ExternalID,
		Name:          req.Name,
		Provider:      provider,
		ProviderColor: color,
		Description:   req.Description,
		Category:      domain.ModelCategory(req.Category),
		Capabilities:  capabilities,
		Badge:         req.Badge,
		SortOrder:     req.SortOrder,
		IsActive:      true,
		InputSchema:   domain.EmptyInputSchema(),
	}
	if req.InputSchema != nil {
		m.InputSchema = *req.InputSchema
		now := time.Now().UTC()
		m.LastSyncedAt = &now
	}

	if err := a.Models.Create(r.Context(), m); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, newModelView(*m))
}

func (a *App) AdminModelsDelete(w http.ResponseWriter, r *http.Request) {
	externalID := r.URL.Query().Get("id")
	if externalID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "id query parameter required")
		return
	}
	if err := a.Models.Delete(r.Context(), externalID); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]bool{"success": true})
}

type adminModelActiveRequest struct {
	ExternalID string `json:"external_id"`
	IsActive   bool   `json:"is_active"`
}

func (a *App) AdminModelsSetActive(w http.ResponseWriter, r *http.Request) {
	var req adminModelActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.ExternalID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "external_id required")
		return
	}
	if err := a.Models.SetActive(r.Context(), req.ExternalID, req.IsActive); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]bool{"success": true})
}

type adminSyncRequest struct {
	ExternalID string `json:"external_id"`
}

// AdminModelSync re-resolves one model's schema from the provider.
func (a *App) AdminModelSync(w http.ResponseWriter, r *http.Request) {
	var req adminSyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.ExternalID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "external_id required")
		return
	}
	m, err := a.Catalog.SyncOne(r.Context(), req.ExternalID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, newModelView(*m))
}

// AdminSyncSchemas runs the bulk sync; per-model failures are reported,
// not fatal.
func (a *App) AdminSyncSchemas(w http.ResponseWriter, r *http.Request) {
	results := a.Catalog.SyncAll(r.Context())
	synced := 0
	for _, res := range results {
		if res.Error == "" {
			synced++
		}
	}
	a.json(w, http.StatusOK, map[string]any{
		"results": results,
		"synced":  synced,
		"total":   len(results),
	})
}

// AdminFetchSchema previews a provider model without persisting anything.
func (a *App) AdminFetchSchema(w http.ResponseWriter, r *http.Request) {
	var req adminSyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.ExternalID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "external_id required")
		return
	}
	suggestion, err := a.Catalog.FetchNew(r.Context(), req.ExternalID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, suggestion)
}
