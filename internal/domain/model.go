package domain

import "time"

// ModelCategory enumerates what a model produces.
type ModelCategory string

const (
	CategoryVideo ModelCategory = "video"
	CategoryImage ModelCategory = "image"
)

// ValidCategory reports whether s is a known category value.
func ValidCategory(s string) bool {
	return s == string(CategoryVideo) || s == string(CategoryImage)
}

// Capability tags describe what inputs a model accepts.
const (
	CapTextToVideo          = "text-to-video"
	CapImageToVideo         = "image-to-video"
	CapTextToImage          = "text-to-image"
	CapImageEditing         = "image-editing"
	CapCharacterConsistency = "character-consistency"
)

// SchemaItems describes the element type of an array property.
type SchemaItems struct {
	Type   string `json:"type,omitempty"`
	Format string `json:"format,omitempty"`
}

// SchemaProperty is one resolved input parameter. All composition references
// have already been inlined; the struct round-trips through JSON without
// losing any of the fields below.
type SchemaProperty struct {
	Type        string       `json:"type,omitempty"`
	Enum        []any        `json:"enum,omitempty"`
	Default     any          `json:"default,omitempty"`
	Description string       `json:"description,omitempty"`
	Title       string       `json:"title,omitempty"`
	Minimum     *float64     `json:"minimum,omitempty"`
	Maximum     *float64     `json:"maximum,omitempty"`
	Format      string       `json:"format,omitempty"`
	Items       *SchemaItems `json:"items,omitempty"`
}

// HasBounds reports whether both numeric bounds are present.
func (p SchemaProperty) HasBounds() bool {
	return p.Minimum != nil && p.Maximum != nil
}

// InputSchema is the resolved parameter schema persisted per model.
type InputSchema struct {
	Properties map[string]SchemaProperty `json:"properties"`
	Required   []string                  `json:"required"`
}

// EmptyInputSchema returns a schema with no parameters, used when a model is
// registered before its first sync.
func EmptyInputSchema() InputSchema {
	return InputSchema{Properties: map[string]SchemaProperty{}, Required: []string{}}
}

// Model is one catalog entry for an externally hosted generative model.
// ExternalID is the provider's stable "owner/model-name" identifier and never
// changes after creation; the schema is mutated only by sync.
type Model struct {
	ExternalID    string
	Name          string
	Provider      string
	ProviderColor string
	Description   string
	Category      ModelCategory
	Capabilities  []string
	Badge         string
	SortOrder     int
	IsActive      bool
	InputSchema   InputSchema
	LastSyncedAt  *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
