package handlers

import (
	"net/http"
	"time"

	"github.com/radoslav1992/creative-studio/internal/domain"
	"github.com/radoslav1992/creative-studio/internal/schema"
)

type propertyView struct {
	domain.SchemaProperty
	Control  schema.ControlKind `json:"control"`
	Advanced bool               `json:"advanced,omitempty"`
}

type schemaView struct {
	Properties map[string]propertyView `json:"properties"`
	Required   []string                `json:"required"`
}

type modelView struct {
	ExternalID    string     `json:"external_id"`
	Name          string     `json:"name"`
	Provider      string     `json:"provider"`
	ProviderColor string     `json:"provider_color"`
	Description   string     `json:"description"`
	Category      string     `json:"category"`
	Capabilities  []string   `json:"capabilities"`
	Badge         string     `json:"badge,omitempty"`
	SortOrder     int        `json:"sort_order"`
	IsActive      bool       `json:"is_active"`
	InputSchema   schemaView `json:"input_schema"`
	LastSyncedAt  *time.Time `json:"last_synced_at,omitempty"`
}

// newModelView classifies every schema property so clients can render
// form controls without re-deriving the rules.
func newModelView(m domain.Model) modelView {
	props := make(map[string]propertyView, len(m.InputSchema.Properties))
	for name, prop := range m.InputSchema.Properties {
		props[name] = propertyView{
			SchemaProperty: prop,
			Control:        schema.Classify(name, prop),
			Advanced:       schema.IsAdvanced(name),
		}
	}
	required := m.InputSchema.Required
	if required == nil {
		required = []string{}
	}
	return modelView{
		ExternalID:    m.ExternalID,
		Name:          m.Name,
		Provider:      m.Provider,
		ProviderColor: m.ProviderColor,
		Description:   m.Description,
		Category:      string(m.Category),
		Capabilities:  m.Capabilities,
		Badge:         m.Badge,
		SortOrder:     m.SortOrder,
		IsActive:      m.IsActive,
		InputSchema:   schemaView{Properties: props, Required: required},
		LastSyncedAt:  m.LastSyncedAt,
	}
}

// ModelsList returns the active catalog, optionally narrowed to one
// category.
func (a *App) ModelsList(w http.ResponseWriter, r *http.Request) {
	filter := domain.ModelFilter{ActiveOnly: true}
	if c := r.URL.Query().Get("category"); c != "" {
		if !domain.ValidCategory(c) {
			a.error(w, http.StatusBadRequest, "bad_request", "category must be video or image")
			return
		}
		filter.Category = domain.ModelCategory(c)
	}

	models, err := a.Models.List(r.Context(), filter)
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
