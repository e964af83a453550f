package generation

import (
	"context"
	"strings"
	"testing"
)

func TestMaterializeFetchesEachURLOnce(t *testing.T) {
	transport := newDownloadTransport()
	m := newTestMaterializer(t, transport)
	urls := []string{"https://cdn.example.com/a.mp4", "https://cdn.example.com/b.mp4"}

	first, err := m.Materialize(context.Background(), "job-1", urls)
	if err != nil {
		t.Fatalf("materialize: %v", err)
	}
	second, err := m.Materialize(context.Background(), "job-1", urls)
	if err != nil {
		t.Fatalf("re-materialize: %v", err)
	}
	if len(first) != 2 || first[0] != second[0] || first[1] != second[1] {
		t.Fatalf("refs changed between calls: %v vs %v", first, second)
	}
	for _, u := range urls {
		if transport.hits[u] != 1 {
			t.Fatalf("%s fetched %d times, want 1", u, transport.hits[u])
		}
	}
}

func TestMaterializePreservesOrder(t *testing.T) {
	transport := newDownloadTransport()
	m := newTestMaterializer(t, transport)

	refs, err := m.Materialize(context.Background(), "job-2", []string{
		"https://cdn.example.com/first.png",
		"https://cdn.example.com/second.png",
		"https://cdn.example.com/third.png",
	})
	if err != nil {
		t.Fatalf("materialize: %v", err)
	}
	for i, ref := range refs {
		if !strings.HasPrefix(ref, "/outputs/job-2-") {
			t.Fatalf("ref[%d] = %q", i, ref)
		}
		if !strings.Contains(ref, "job-2-"+string(rune('0'+i))+"-") {
			t.Fatalf("ref[%d] = %q, index not respected", i, ref)
		}
	}
}

func TestMaterializeFailurePropagates(t *testing.T) {
	transport := newDownloadTransport()
	transport.fail["https://cdn.example.com/bad.mp4"] = true
	m := newTestMaterializer(t, transport)

	_, err := m.Materialize(context.Background(), "job-3", []string{
		"https://cdn.example.com/ok.mp4",
		"https://cdn.example.com/bad.mp4",
	})
	if err == nil {
		t.Fatalf("expected download failure to fail the call")
	}
}

func TestInferExtension(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://x/clip.mp4", ".mp4"},
		{"https://x/pic.png?sig=abc", ".png"},
		{"https://x/asset.webm", ".webm"},
		{"https://x/download?kind=video", ".mp4"},
		{"https://x/photo.jpeg-original/raw", ".jpg"},
		{"https://x/blob", ".bin"},
		{"https://x/file.longextension", ".bin"},
	}
	for _, c := range cases {
		if got := inferExtension(c.url); got != c.want {
			t.Fatalf("inferExtension(%q) = %q, want %q", c.url, got, c.want)
		}
	}
}

func TestLocalReferenceHelpers(t *testing.T) {
	transport := newDownloadTransport()
	m := newTestMaterializer(t, transport)

	refs, err := m.Materialize(context.Background(), "job-4", []string{"https://cdn.example.com/v.mp4"})
	if err != nil {
		t.Fatalf("materialize: %v", err)
	}
	ref := refs[0]
	if !m.IsLocal(ref) {
		t.Fatalf("IsLocal(%q) = false", ref)
	}
	if !m.LocalExists(ref) {
		t.Fatalf("LocalExists(%q) = false after materialize", ref)
	}
	if m.IsLocal("https://cdn.example.com/v.mp4") {
		t.Fatalf("remote URL classified as local")
	}
	if m.LocalExists("/outputs/never-written.mp4") {
		t.Fatalf("missing file reported as present")
	}
	if strings.HasPrefix(m.LocalKey(ref), "/") {
		t.Fatalf("LocalKey(%q) kept the prefix", ref)
	}
}
