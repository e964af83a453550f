package replicate

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/radoslav1992/creative-studio/internal/domain"
)

type stubTransport struct {
	responses   map[string]stubResponse
	lastRequest *http.Request
	lastBody    []byte
}

type stubResponse struct {
	status int
	body   string
}

func (s *stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	s.lastRequest = req
	if req.Body != nil {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		req.Body.Close()
		s.lastBody = body
	}
	stub, ok := s.responses[req.URL.Path]
	if !ok {
		return &http.Response{
			StatusCode: http.StatusNotFound,
			Body:       io.NopCloser(strings.NewReader(`{"detail":"Not found."}`)),
			Header:     http.Header{},
		}, nil
	}
	return &http.Response{
		StatusCode: stub.status,
		Body:       io.NopCloser(strings.NewReader(stub.body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}, nil
}

func (s *stubTransport) set(path string, status int, body string) {
	if s.responses == nil {
		s.responses = map[string]stubResponse{}
	}
	s.responses[path] = stubResponse{status: status, body: body}
}

func newTestClient(transport *stubTransport) *Client {
	return NewClient(Options{
		APIToken:   "test-token",
		HTTPClient: &http.Client{Transport: transport},
	})
}

func TestGetModelExtractsInputSchema(t *testing.T) {
	transport := &stubTransport{}
	transport.set("/v1/models/google/imagen-4", http.StatusOK, `{
		"name": "imagen-4",
		"description": "Image generation",
		"run_count": 42,
		"latest_version": {
			"id": "abc123",
			"openapi_schema": {
				"components": {
					"schemas": {
						"Input": {
							"properties": {
								"prompt": {"type": "string"},
								"width": {"allOf": [{"$ref": "#/components/schemas/Size"}]}
							},
							"required": ["prompt"]
						},
						"Size": {"type": "integer", "enum": [512, 768, 1024]}
					}
				}
			}
		}
	}`)

	client := newTestClient(transport)
	model, err := client.GetModel(context.Background(), "google/imagen-4")
	if err != nil {
		t.Fatalf("get model: %v", err)
	}
	if got := transport.lastRequest.Header.Get("Authorization"); got != "Bearer test-token" {
		t.Fatalf("authorization = %q", got)
	}
	if model.RunCount != 42 {
		t.Fatalf("run_count = %d, want 42", model.RunCount)
	}

	props, required, defs, ok := model.LatestVersion.InputSchema()
	if !ok {
		t.Fatalf("expected schema to be present")
	}
	if len(props) != 2 {
		t.Fatalf("properties = %d, want 2", len(props))
	}
	if len(required) != 1 || required[0] != "prompt" {
		t.Fatalf("required = %v", required)
	}
	if _, found := defs["Size"]; !found {
		t.Fatalf("definition table missing Size")
	}
}

func TestGetModelNotFound(t *testing.T) {
	client := newTestClient(&stubTransport{})
	_, err := client.GetModel(context.Background(), "nobody/missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestGetModelUpstreamErrorCarriesStatus(t *testing.T) {
	transport := &stubTransport{}
	transport.set("/v1/models/google/imagen-4", http.StatusBadGateway, `{"detail":"tunnel collapsed"}`)

	client := newTestClient(transport)
	_, err := client.GetModel(context.Background(), "google/imagen-4")
	var upstream *domain.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("err = %v, want UpstreamError", err)
	}
	if upstream.Status != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", upstream.Status)
	}
	if upstream.Message != "tunnel collapsed" {
		t.Fatalf("message = %q", upstream.Message)
	}
}

func TestCreatePredictionRequestsAsync(t *testing.T) {
	transport := &stubTransport{}
	transport.set("/v1/models/google/veo-3/predictions", http.StatusCreated,
		`{"id": "pred-1", "status": "starting"}`)

	client := newTestClient(transport)
	pred, err := client.CreatePrediction(context.Background(), "google/veo-3", map[string]any{
		"prompt": "a whale in orbit",
		"steps":  20,
	})
	if err != nil {
		t.Fatalf("create prediction: %v", err)
	}
	if pred.ID != "pred-1" || pred.Status != "starting" {
		t.Fatalf("prediction = %+v", pred)
	}
	if got := transport.lastRequest.Header.Get("Prefer"); got != "respond-async" {
		t.Fatalf("Prefer = %q, want respond-async", got)
	}

	var payload struct {
		Input map[string]any `json:"input"`
	}
	if err := json.Unmarshal(transport.lastBody, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.Input["prompt"] != "a whale in orbit" {
		t.Fatalf("payload input = %v", payload.Input)
	}
}

func TestCreatePredictionSurfacesProviderDetail(t *testing.T) {
	transport := &stubTransport{}
	transport.set("/v1/models/google/veo-3/predictions", http.StatusUnprocessableEntity,
		`{"detail":"prompt flagged by safety filter"}`)

	client := newTestClient(transport)
	_, err := client.CreatePrediction(context.Background(), "google/veo-3", map[string]any{"prompt": "x"})
	var upstream *domain.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("err = %v, want UpstreamError", err)
	}
	if !strings.Contains(upstream.Message, "safety filter") {
		t.Fatalf("message = %q", upstream.Message)
	}
}

func TestGetPredictionOutputShapes(t *testing.T) {
	transport := &stubTransport{}
	transport.set("/v1/predictions/pred-scalar", http.StatusOK,
		`{"id": "pred-scalar", "status": "succeeded", "output": "https://x/a.mp4"}`)
	transport.set("/v1/predictions/pred-list", http.StatusOK,
		`{"id": "pred-list", "status": "succeeded", "output": ["https://x/a.png", "https://x/b.png"]}`)

	client := newTestClient(transport)

	scalar, err := client.GetPrediction(context.Background(), "pred-scalar")
	if err != nil {
		t.Fatalf("get prediction: %v", err)
	}
	if urls := scalar.OutputURLs(); len(urls) != 1 || urls[0] != "https://x/a.mp4" {
		t.Fatalf("scalar urls = %v", urls)
	}

	list, err := client.GetPrediction(context.Background(), "pred-list")
	if err != nil {
		t.Fatalf("get prediction: %v", err)
	}
	urls := list.OutputURLs()
	if len(urls) != 2 || urls[0] != "https://x/a.png" || urls[1] != "https://x/b.png" {
		t.Fatalf("list urls = %v", urls)
	}
}

func TestInputSchemaAbsent(t *testing.T) {
	var v *Version
	if _, _, _, ok := v.InputSchema(); ok {
		t.Fatalf("nil version should report no schema")
	}
	empty := &Version{ID: "v1"}
	if _, _, _, ok := empty.InputSchema(); ok {
		t.Fatalf("version without document should report no schema")
	}
}
