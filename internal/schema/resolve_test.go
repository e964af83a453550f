package schema

import (
	"testing"
)

func TestResolveInlinesEnumFromReference(t *testing.T) {
	props := map[string]any{
		"width": map[string]any{
			"allOf": []any{
				map[string]any{"$ref": "#/components/schemas/Size"},
			},
		},
	}
	defs := map[string]any{
		"Size": map[string]any{
			"type": "integer",
			"enum": []any{float64(512), float64(768), float64(1024)},
		},
	}

	resolved := Resolve(props, defs)
	width, ok := resolved["width"]
	if !ok {
		t.Fatalf("width missing from resolved map")
	}
	if width.Type != "integer" {
		t.Fatalf("type = %q, want integer", width.Type)
	}
	if len(width.Enum) != 3 {
		t.Fatalf("enum = %v, want 3 values", width.Enum)
	}
	if width.Enum[0] != float64(512) || width.Enum[2] != float64(1024) {
		t.Fatalf("enum values = %v", width.Enum)
	}
}

func TestResolveReferenceLayersOverDirectFields(t *testing.T) {
	// The referenced definition wins on overlap; this mirrors the
	// merge-into semantics providers rely on, where authoritative
	// enum/type/default data lives in the shared definition.
	props := map[string]any{
		"steps": map[string]any{
			"default":     float64(5),
			"description": "direct description",
			"allOf": []any{
				map[string]any{"$ref": "#/components/schemas/Steps"},
			},
		},
	}
	defs := map[string]any{
		"Steps": map[string]any{
			"type":    "integer",
			"default": float64(9),
		},
	}

	steps := Resolve(props, defs)["steps"]
	if steps.Default != float64(9) {
		t.Fatalf("default = %v, want referenced value 9", steps.Default)
	}
	if steps.Description != "direct description" {
		t.Fatalf("description = %q, direct field should survive the merge", steps.Description)
	}
	if steps.Type != "integer" {
		t.Fatalf("type = %q, want integer", steps.Type)
	}
}

func TestResolveMissingReferenceIsSkipped(t *testing.T) {
	props := map[string]any{
		"mode": map[string]any{
			"type": "string",
			"allOf": []any{
				map[string]any{"$ref": "#/components/schemas/DoesNotExist"},
			},
		},
	}

	resolved := Resolve(props, map[string]any{})
	mode, ok := resolved["mode"]
	if !ok {
		t.Fatalf("mode missing: a dangling reference must not drop the field")
	}
	if mode.Type != "string" {
		t.Fatalf("type = %q, want string", mode.Type)
	}
	if len(mode.Enum) != 0 {
		t.Fatalf("enum = %v, want none", mode.Enum)
	}
}

func TestResolveKeepsKeySetAndHandlesJunk(t *testing.T) {
	props := map[string]any{
		"a": map[string]any{"type": "string"},
		"b": "not even an object",
		"c": map[string]any{"allOf": "malformed"},
		"d": nil,
	}

	resolved := Resolve(props, nil)
	if len(resolved) != len(props) {
		t.Fatalf("resolved %d keys, want %d", len(resolved), len(props))
	}
	for k := range props {
		if _, ok := resolved[k]; !ok {
			t.Fatalf("key %q missing from output", k)
		}
	}
}

func TestResolveNumericBounds(t *testing.T) {
	props := map[string]any{
		"cfg": map[string]any{
			"type":    "number",
			"minimum": float64(0),
			"maximum": float64(20),
		},
	}

	cfg := Resolve(props, nil)["cfg"]
	if !cfg.HasBounds() {
		t.Fatalf("expected both bounds present")
	}
	if *cfg.Minimum != 0 || *cfg.Maximum != 20 {
		t.Fatalf("bounds = [%v, %v], want [0, 20]", *cfg.Minimum, *cfg.Maximum)
	}
}

func TestResolveArrayItems(t *testing.T) {
	props := map[string]any{
		"image_input": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":   "string",
				"format": "uri",
			},
		},
	}

	p := Resolve(props, nil)["image_input"]
	if p.Items == nil {
		t.Fatalf("items missing")
	}
	if p.Items.Type != "string" || p.Items.Format != "uri" {
		t.Fatalf("items = %+v", p.Items)
	}
}
