package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/radoslav1992/creative-studio/internal/catalog"
	"github.com/radoslav1992/creative-studio/internal/domain"
	"github.com/radoslav1992/creative-studio/internal/generation"
	"github.com/radoslav1992/creative-studio/internal/middleware"
	"github.com/radoslav1992/creative-studio/internal/providers/prompt"
	"github.com/radoslav1992/creative-studio/internal/storage"
)

// App bundles the handlers' dependencies. Handlers own only transport
// concerns; all domain logic lives behind these fields.
type App struct {
	Models       domain.ModelRepository
	Generations  domain.GenerationRepository
	Catalog      *catalog.Service
	Manager      *generation.Manager
	Materializer *generation.Materializer
	Refresher    *generation.Refresher
	Enhancer     prompt.Enhancer
	Store        *storage.FileStore
	Logger       zerolog.Logger
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, errorResponse{Error: message, Code: code})
}

// domainError maps known domain failures onto HTTP statuses; anything
// unrecognized becomes a 500.
func (a *App) domainError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	var uerr *domain.UpstreamError
	switch {
	case errors.As(err, &verr):
		a.error(w, http.StatusBadRequest, "validation", verr.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "not found")
	case errors.Is(err, domain.ErrDuplicate):
		a.error(w, http.StatusConflict, "duplicate", "already exists")
	case errors.Is(err, domain.ErrNoSchema):
		a.error(w, http.StatusBadGateway, "no_schema", "model has no input schema")
	case errors.As(err, &uerr):
		status := uerr.Status
		if status < 400 {
			status = http.StatusBadGateway
		}
		a.error(w, status, "upstream", uerr.Message)
	case errors.Is(err, domain.ErrUpstream):
		a.error(w, http.StatusBadGateway, "upstream", "provider unavailable")
	default:
		a.Logger.Error().Err(err).Msg("unhandled error")
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}
