package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/radoslav1992/creative-studio/internal/domain"
)

type enhanceRequest struct {
	Prompt   string `json:"prompt"`
	Category string `json:"category"`
}

// EnhancePrompt rewrites a rough prompt into a richer one for the given
// output category.
func (a *App) EnhancePrompt(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.domainError(w, domain.ErrUnauthorized)
		return
	}
	var req enhanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "prompt required")
		return
	}
	if !domain.ValidCategory(req.Category) {
		a.error(w, http.StatusBadRequest, "bad_request", "category must be video or image")
		return
	}

	enhanced, err := a.Enhancer.Enhance(r.Context(), domain.ModelCategory(req.Category), req.Prompt)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"enhanced_prompt": enhanced})
}
