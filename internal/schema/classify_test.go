package schema

import (
	"testing"

	"github.com/radoslav1992/creative-studio/internal/domain"
)

func fptr(f float64) *float64 { return &f }

func TestClassifyDecisionTable(t *testing.T) {
	bigEnum := make([]any, 25)
	for i := range bigEnum {
		bigEnum[i] = float64(i)
	}

	tests := []struct {
		name string
		key  string
		prop domain.SchemaProperty
		want ControlKind
	}{
		{"blocked field", "openai_api_key", domain.SchemaProperty{Type: "string"}, ControlHidden},
		{"boolean", "watermark", domain.SchemaProperty{Type: "boolean"}, ControlBoolean},
		{"array of images", "image_input", domain.SchemaProperty{Type: "array", Items: &domain.SchemaItems{Type: "string", Format: "uri"}}, ControlImages},
		{"known image name", "start_image", domain.SchemaProperty{Type: "string"}, ControlImage},
		{"uri string", "reference", domain.SchemaProperty{Type: "string", Format: "uri"}, ControlImage},
		{"small enum", "aspect_ratio", domain.SchemaProperty{Type: "string", Enum: []any{"16:9", "9:16"}}, ControlSelect},
		{"oversized enum hides", "resolution", domain.SchemaProperty{Type: "string", Enum: bigEnum}, ControlHidden},
		{"bounded integer", "steps", domain.SchemaProperty{Type: "integer", Minimum: fptr(1), Maximum: fptr(50)}, ControlSlider},
		{"unbounded number", "guidance", domain.SchemaProperty{Type: "number", Minimum: fptr(0)}, ControlNumber},
		{"prompt", "prompt", domain.SchemaProperty{Type: "string"}, ControlTextarea},
		{"negative prompt", "negative_prompt", domain.SchemaProperty{Type: "string"}, ControlTextarea},
		{"fallback", "style_name", domain.SchemaProperty{Type: "string"}, ControlText},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.key, tc.prop)
			if got != tc.want {
				t.Fatalf("Classify(%q) = %q, want %q", tc.key, got, tc.want)
			}
			// Deterministic: a second call never differs.
			if again := Classify(tc.key, tc.prop); again != got {
				t.Fatalf("Classify(%q) unstable: %q then %q", tc.key, got, again)
			}
		})
	}
}

func TestClassifyBooleanBeatsImageName(t *testing.T) {
	// The block-list and type rules run before name-based ones.
	got := Classify("mask", domain.SchemaProperty{Type: "boolean"})
	if got != ControlBoolean {
		t.Fatalf("got %q, want boolean", got)
	}
}

func TestIsAdvanced(t *testing.T) {
	for _, key := range []string{"seed", "output_format", "safety_filter_level", "resolution"} {
		if !IsAdvanced(key) {
			t.Fatalf("%q should be advanced", key)
		}
	}
	if IsAdvanced("prompt") {
		t.Fatalf("prompt must stay primary")
	}
}

func TestIsNumericEnum(t *testing.T) {
	num := domain.SchemaProperty{Enum: []any{float64(512), float64(1024)}}
	if !IsNumericEnum(num) {
		t.Fatalf("all-number enum should be numeric")
	}
	str := domain.SchemaProperty{Enum: []any{"720p", "1080p"}}
	if IsNumericEnum(str) {
		t.Fatalf("string enum reported numeric")
	}
	if IsNumericEnum(domain.SchemaProperty{}) {
		t.Fatalf("empty enum reported numeric")
	}
}
