// Package replicate talks to the hosted model provider: model
// introspection, asynchronous prediction creation, and prediction status.
package replicate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/radoslav1992/creative-studio/internal/domain"
)

type Options struct {
	BaseURL    string
	APIToken   string
	HTTPClient *http.Client
	Timeout    time.Duration
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

func NewClient(opts Options) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = "https://api.replicate.com/v1"
	}
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Client{
		httpClient: client,
		baseURL:    base,
		token:      strings.TrimSpace(opts.APIToken),
	}
}

// Model is the introspection response for one hosted model.
type Model struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	RunCount      int64    `json:"run_count"`
	CoverImageURL string   `json:"cover_image_url"`
	LatestVersion *Version `json:"latest_version"`
}

type Version struct {
	ID            string          `json:"id"`
	OpenAPISchema json.RawMessage `json:"openapi_schema"`
}

// InputSchema digs the raw Input property map and required list out of the
// version's OpenAPI document, along with the full definition table the
// resolver needs. ok is false when the version carries no usable schema.
func (v *Version) InputSchema() (properties map[string]any, required []string, definitions map[string]any, ok bool) {
	if v == nil || len(v.OpenAPISchema) == 0 {
		return nil, nil, nil, false
	}
	var doc struct {
		Components struct {
			Schemas map[string]json.RawMessage `json:"schemas"`
		} `json:"components"`
	}
	if err := json.Unmarshal(v.OpenAPISchema, &doc); err != nil {
		return nil, nil, nil, false
	}
	definitions = make(map[string]any, len(doc.Components.Schemas))
	for name, raw := range doc.Components.Schemas {
		var m map[string]any
		if err := json.Unmarshal(raw, &m); err == nil {
			definitions[name] = m
		}
	}
	inputRaw, found := doc.Components.Schemas["Input"]
	if !found {
		return nil, nil, nil, false
	}
	var input struct {
		Properties map[string]any `json:"properties"`
		Required   []string       `json:"required"`
	}
	if err := json.Unmarshal(inputRaw, &input); err != nil || len(input.Properties) == 0 {
		return nil, nil, nil, false
	}
	if input.Required == nil {
		input.Required = []string{}
	}
	return input.Properties, input.Required, definitions, true
}

// Prediction is one in-flight or finished execution.
type Prediction struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Output json.RawMessage `json:"output,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// OutputURLs decodes the prediction output into an ordered URL list,
// handling both the scalar and the array shape.
func (p *Prediction) OutputURLs() []string {
	if p == nil || len(p.Output) == 0 {
		return nil
	}
	var single string
	if err := json.Unmarshal(p.Output, &single); err == nil && single != "" {
		return []string{single}
	}
	var many []any
	if err := json.Unmarshal(p.Output, &many); err != nil {
		return nil
	}
	urls := make([]string, 0, len(many))
	for _, v := range many {
		if s, ok := v.(string); ok {
			urls = append(urls, s)
		}
	}
	return urls
}

type errorBody struct {
	Detail string `json:"detail"`
	Error  string `json:"error"`
}

func (e errorBody) message() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Error
}

// GetModel fetches introspection data for "owner/model-name". Unknown ids
// map to domain.ErrNotFound; any other failure is an UpstreamError.
func (c *Client) GetModel(ctx context.Context, externalID string) (*Model, error) {
	if c.token == "" {
		return nil, errors.New("replicate: API token is missing")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models/"+externalID, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("replicate: get model: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("replicate: model %q: %w", externalID, domain.ErrNotFound)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		var body errorBody
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return nil, &domain.UpstreamError{Status: resp.StatusCode, Message: body.message()}
	}

	var model Model
	if err := json.NewDecoder(resp.Body).Decode(&model); err != nil {
		return nil, &domain.UpstreamError{Status: resp.StatusCode, Message: "malformed model response"}
	}
	return &model, nil
}

// CreatePrediction submits input to the model's latest version and asks for
// asynchronous execution; the returned prediction is still running.
func (c *Client) CreatePrediction(ctx context.Context, externalID string, input map[string]any) (*Prediction, error) {
	if c.token == "" {
		return nil, errors.New("replicate: API token is missing")
	}
	body, err := json.Marshal(map[string]any{"input": input})
	if err != nil {
		return nil, err
	}
	endpoint := c.baseURL + "/models/" + externalID + "/predictions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "respond-async")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("replicate: create prediction: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var errBody errorBody
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		msg := errBody.message()
		if msg == "" {
			msg = fmt.Sprintf("prediction rejected for %s", externalID)
		}
		return nil, &domain.UpstreamError{Status: resp.StatusCode, Message: msg}
	}

	var pred Prediction
	if err := json.NewDecoder(resp.Body).Decode(&pred); err != nil {
		return nil, &domain.UpstreamError{Status: resp.StatusCode, Message: "malformed prediction response"}
	}
	if pred.ID == "" {
		return nil, &domain.UpstreamError{Status: resp.StatusCode, Message: "prediction response missing id"}
	}
	return &pred, nil
}

// GetPrediction fetches the current status of one execution.
func (c *Client) GetPrediction(ctx context.Context, providerJobID string) (*Prediction, error) {
	if c.token == "" {
		return nil, errors.New("replicate: API token is missing")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/predictions/"+providerJobID, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("replicate: get prediction: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("replicate: prediction %q: %w", providerJobID, domain.ErrNotFound)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		var body errorBody
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return nil, &domain.UpstreamError{Status: resp.StatusCode, Message: body.message()}
	}

	var pred Prediction
	if err := json.NewDecoder(resp.Body).Decode(&pred); err != nil {
		return nil, &domain.UpstreamError{Status: resp.StatusCode, Message: "malformed prediction response"}
	}
	return &pred, nil
}
