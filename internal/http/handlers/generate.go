package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/radoslav1992/creative-studio/internal/domain"
)

type generateRequest struct {
	GenerationID string         `json:"generation_id"`
	Params       map[string]any `json:"params"`
}

// Generate submits a previously created job to the provider.
func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.domainError(w, domain.ErrUnauthorized)
		return
	}
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.GenerationID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "generation_id required")
		return
	}

	g, err := a.Generations.GetForOwner(r.Context(), req.GenerationID, userID)
	if err != nil {
		a.domainError(w, err)
		return
	}

	if _, err := a.Manager.Submit(r.Context(), g, req.Params); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusAccepted, newGenerationView(g))
}

// Status polls the provider for a job's progress, persisting any advance.
// Terminal jobs are returned without an outbound call.
func (a *App) Status(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.domainError(w, domain.ErrUnauthorized)
		return
	}
	id := chi.URLParam(r, "id")
	g, err := a.Generations.GetForOwner(r.Context(), id, userID)
	if err != nil {
		a.domainError(w, err)
		return
	}

	g, err = a.Manager.Poll(r.Context(), g)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, newGenerationView(g))
}
