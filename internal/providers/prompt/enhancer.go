package prompt

import (
	"context"
	"strings"

	"github.com/radoslav1992/creative-studio/internal/domain"
)

// Enhancer rewrites a rough user prompt into a richer one tuned for the
// given output category.
type Enhancer interface {
	Enhance(ctx context.Context, category domain.ModelCategory, prompt string) (string, error)
}

// StaticEnhancer is the no-model fallback: it decorates the prompt with a
// fixed set of category cues so the result is still better than the raw
// input. The original wording always survives verbatim.
type StaticEnhancer struct{}

func NewStaticEnhancer() *StaticEnhancer {
	return &StaticEnhancer{}
}

func (s *StaticEnhancer) Enhance(ctx context.Context, category domain.ModelCategory, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", &domain.ValidationError{Field: "prompt"}
	}
	suffix := "Highly detailed, balanced composition, soft diffused lighting, rich color palette, shallow depth of field."
	if category == domain.CategoryVideo {
		suffix = "Cinematic tracking shot, golden hour lighting, smooth motion, film-grade color grading, ambient sound design."
	}
	if !strings.HasSuffix(prompt, ".") && !strings.HasSuffix(prompt, "!") && !strings.HasSuffix(prompt, "?") {
		prompt += "."
	}
	return prompt + " " + suffix, nil
}

var _ Enhancer = (*StaticEnhancer)(nil)
