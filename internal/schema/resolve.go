// Package schema normalizes provider parameter schemas into flat,
// UI-renderable descriptors.
//
// Providers describe model inputs with an OpenAPI-style document in which a
// property frequently carries no data of its own and instead points at a
// shared definition through allOf/$ref composition (enums in particular live
// only in the referenced definition). Resolve inlines those references so
// the rest of the system only ever sees self-contained properties.
package schema

import (
	"strings"

	"github.com/radoslav1992/creative-studio/internal/domain"
)

// Resolve inlines allOf/$ref composition for every property and returns the
// typed descriptor map. It is pure and total: the result has exactly the
// input's key set, a reference to a definition missing from definitions is
// skipped, and a property that stays under-specified is returned as-is
// rather than failing the whole schema.
func Resolve(properties map[string]any, definitions map[string]any) map[string]domain.SchemaProperty {
	resolved := make(map[string]domain.SchemaProperty, len(properties))
	for name, raw := range properties {
		prop, _ := raw.(map[string]any)
		merged := make(map[string]any, len(prop))
		for k, v := range prop {
			merged[k] = v
		}
		if refs, ok := prop["allOf"].([]any); ok {
			for _, entry := range refs {
				ref, _ := entry.(map[string]any)
				target, _ := ref["$ref"].(string)
				if target == "" {
					continue
				}
				def, _ := definitions[refName(target)].(map[string]any)
				// The definition is layered over the direct fields,
				// matching how providers split enum/type data out.
				for k, v := range def {
					merged[k] = v
				}
			}
			delete(merged, "allOf")
		}
		resolved[name] = decodeProperty(merged)
	}
	return resolved
}

// refName extracts the definition name from a JSON pointer such as
// "#/components/schemas/Size".
func refName(ref string) string {
	if i := strings.LastIndex(ref, "/"); i >= 0 {
		return ref[i+1:]
	}
	return ref
}

// decodeProperty converts the merged raw descriptor into the typed form,
// ignoring anything it does not understand.
func decodeProperty(raw map[string]any) domain.SchemaProperty {
	p := domain.SchemaProperty{
		Type:        asString(raw["type"]),
		Description: asString(raw["description"]),
		Title:       asString(raw["title"]),
		Format:      asString(raw["format"]),
		Default:     raw["default"],
		Minimum:     asNumber(raw["minimum"]),
		Maximum:     asNumber(raw["maximum"]),
	}
	if enum, ok := raw["enum"].([]any); ok && len(enum) > 0 {
		p.Enum = enum
	}
	if items, ok := raw["items"].(map[string]any); ok {
		p.Items = &domain.SchemaItems{
			Type:   asString(items["type"]),
			Format: asString(items["format"]),
		}
	}
	return p
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asNumber(v any) *float64 {
	switch n := v.(type) {
	case float64:
		return &n
	case int:
		f := float64(n)
		return &f
	}
	return nil
}
