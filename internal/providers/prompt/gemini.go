package prompt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/radoslav1992/creative-studio/internal/domain"
)

type GeminiOptions struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
	Fallback   Enhancer
}

// GeminiEnhancer rewrites prompts through the Gemini generateContent API.
// Every failure degrades to the fallback enhancer; the caller always gets a
// usable prompt back.
type GeminiEnhancer struct {
	apiKey   string
	model    string
	baseURL  string
	client   *http.Client
	fallback Enhancer
}

const geminiDefaultTimeout = 15 * time.Second

const videoSystemPrompt = `You are an expert AI video prompt engineer. Your task is to take a user's rough video prompt and enhance it into a highly detailed, cinematic prompt optimized for AI video generation models (like Veo, Sora, Kling).

Rules:
- Keep the original intent and subject matter intact
- Add specific details about: camera movement (tracking shot, dolly zoom, crane shot, etc.), lighting (golden hour, neon-lit, soft diffused, etc.), atmosphere, color grading, visual style, motion dynamics, and sound/ambient audio cues
- Use vivid, descriptive language that AI video models respond well to
- Keep the prompt between 2-5 sentences, detailed but not overwhelming
- Output ONLY the enhanced prompt text, nothing else: no explanations, no quotes, no prefixes
- Write the enhanced prompt in the SAME language as the input prompt`

const imageSystemPrompt = `You are an expert AI image prompt engineer. Your task is to take a user's rough image prompt and enhance it into a highly detailed, visually rich prompt optimized for AI image generation models (like Imagen, DALL-E, Ideogram, Midjourney).

Rules:
- Keep the original intent and subject matter intact
- Add specific details about: composition, lighting, color palette, texture, art style, medium (photography, digital painting, 3D render, etc.), mood, depth of field, and fine details
- Use vivid, descriptive language that AI image models respond well to
- Keep the prompt between 2-5 sentences, detailed but not overwhelming
- Output ONLY the enhanced prompt text, nothing else: no explanations, no quotes, no prefixes
- Write the enhanced prompt in the SAME language as the input prompt`

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text,omitempty"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	CandidateCount  int     `json:"candidateCount,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func NewGeminiEnhancer(opts GeminiOptions) (*GeminiEnhancer, error) {
	if opts.APIKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "gemini-2.0-flash"
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: geminiDefaultTimeout}
	}
	return &GeminiEnhancer{
		apiKey:   opts.APIKey,
		model:    model,
		baseURL:  baseURL,
		client:   client,
		fallback: opts.Fallback,
	}, nil
}

func (g *GeminiEnhancer) Enhance(ctx context.Context, category domain.ModelCategory, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", &domain.ValidationError{Field: "prompt"}
	}

	system := imageSystemPrompt
	if category == domain.CategoryVideo {
		system = videoSystemPrompt
	}
	payload := geminiRequest{
		Contents: []geminiContent{{
			Role: "user",
			Parts: []geminiPart{
				{Text: system},
				{Text: "Enhance this prompt:\n\n" + prompt},
			},
		}},
		GenerationConfig: &geminiGenerationConfig{
			Temperature:     0.8,
			MaxOutputTokens: 512,
			CandidateCount:  1,
		},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return g.useFallback(ctx, category, prompt)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint(), &buf)
	if err != nil {
		return g.useFallback(ctx, category, prompt)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return g.useFallback(ctx, category, prompt)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return g.useFallback(ctx, category, prompt)
	}

	var out geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return g.useFallback(ctx, category, prompt)
	}
	enhanced := strings.TrimSpace(extractText(out))
	if enhanced == "" {
		return g.useFallback(ctx, category, prompt)
	}
	return enhanced, nil
}

func (g *GeminiEnhancer) endpoint() string {
	return fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, url.PathEscape(g.model))
}

func (g *GeminiEnhancer) useFallback(ctx context.Context, category domain.ModelCategory, prompt string) (string, error) {
	fallback := g.fallback
	if fallback == nil {
		fallback = NewStaticEnhancer()
	}
	return fallback.Enhance(ctx, category, prompt)
}

func extractText(resp geminiResponse) string {
	for _, cand := range resp.Candidates {
		for _, part := range cand.Content.Parts {
			if strings.TrimSpace(part.Text) != "" {
				return part.Text
			}
		}
	}
	return ""
}

var _ Enhancer = (*GeminiEnhancer)(nil)
