package schema

import "github.com/radoslav1992/creative-studio/internal/domain"

// ControlKind is the closed set of UI input types a resolved property can
// render as. Classification happens once at the boundary so downstream code
// never handles open-ended schema shapes.
type ControlKind string

const (
	ControlHidden   ControlKind = "hidden"
	ControlBoolean  ControlKind = "boolean"
	ControlImages   ControlKind = "images"
	ControlImage    ControlKind = "image"
	ControlSelect   ControlKind = "select"
	ControlSlider   ControlKind = "slider"
	ControlNumber   ControlKind = "number"
	ControlTextarea ControlKind = "textarea"
	ControlText     ControlKind = "text"
)

// maxSelectOptions caps how many enum values still render as discrete
// choices. Some models expose 60+ resolution presets; past this cap the
// field is hidden instead.
const maxSelectOptions = 20

// hiddenParams are internal-only provider fields never shown to users.
var hiddenParams = map[string]struct{}{
	"openai_api_key": {},
	"user_id":        {},
}

// imageParams are field names known to take a single image regardless of
// their declared format.
var imageParams = map[string]struct{}{
	"image":                     {},
	"start_image":               {},
	"end_image":                 {},
	"last_frame":                {},
	"mask":                      {},
	"input_reference":           {},
	"character_reference_image": {},
}

// advancedParams are shown collapsed by default. Purely a presentation
// grouping, independent of control kind.
var advancedParams = map[string]struct{}{
	"seed":                {},
	"output_format":       {},
	"output_compression":  {},
	"safety_filter_level": {},
	"moderation":          {},
	"input_fidelity":      {},
	"style_preset":        {},
	"resolution":          {},
}

// Classify maps a resolved property to its control kind. The decision table
// is ordered; the first matching rule wins and every input maps to exactly
// one kind.
func Classify(name string, prop domain.SchemaProperty) ControlKind {
	if _, ok := hiddenParams[name]; ok {
		return ControlHidden
	}
	if prop.Type == "boolean" {
		return ControlBoolean
	}
	if prop.Type == "array" {
		return ControlImages
	}
	if _, ok := imageParams[name]; ok {
		return ControlImage
	}
	if prop.Type == "string" && prop.Format == "uri" {
		return ControlImage
	}
	if len(prop.Enum) > 0 {
		if len(prop.Enum) > maxSelectOptions {
			return ControlHidden
		}
		return ControlSelect
	}
	if prop.Type == "integer" || prop.Type == "number" {
		if prop.HasBounds() {
			return ControlSlider
		}
		return ControlNumber
	}
	if name == "prompt" || name == "negative_prompt" {
		return ControlTextarea
	}
	return ControlText
}

// IsAdvanced reports whether the field belongs in the collapsed group.
func IsAdvanced(name string) bool {
	_, ok := advancedParams[name]
	return ok
}

// IsNumericEnum reports whether every enum value is a number, which decides
// how a selected option is sent back to the provider.
func IsNumericEnum(prop domain.SchemaProperty) bool {
	if len(prop.Enum) == 0 {
		return false
	}
	for _, v := range prop.Enum {
		if _, ok := v.(float64); !ok {
			if _, ok := v.(int); !ok {
				return false
			}
		}
	}
	return true
}
