package generation

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/radoslav1992/creative-studio/internal/storage"
)

// Materializer downloads a finished job's remote output URLs into the local
// file store. Filenames are derived from the (jobID, index, url) identity,
// so re-materializing the same output is a no-op once the file exists:
// provider URLs expire, the local copy does not.
type Materializer struct {
	store        *storage.FileStore
	httpClient   *http.Client
	publicPrefix string
	concurrency  int
	logger       zerolog.Logger
}

type MaterializerOptions struct {
	Store        *storage.FileStore
	HTTPClient   *http.Client
	PublicPrefix string // URL prefix local references are served under, e.g. "/outputs"
	Concurrency  int
	Logger       zerolog.Logger
}

func NewMaterializer(opts MaterializerOptions) *Materializer {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 2 * time.Minute}
	}
	prefix := strings.TrimRight(opts.PublicPrefix, "/")
	if prefix == "" {
		prefix = "/outputs"
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Materializer{
		store:        opts.Store,
		httpClient:   client,
		publicPrefix: prefix,
		concurrency:  concurrency,
		logger:       opts.Logger,
	}
}

// Materialize downloads every remote URL and returns the local references in
// input order. Downloads run concurrently but each (jobID, index, url)
// identity is fetched at most once: already-present files are reused. A
// single failed download fails the whole call; the staleness refresher
// retries on a later read.
func (m *Materializer) Materialize(ctx context.Context, jobID string, remoteURLs []string) ([]string, error) {
	refs := make([]string, len(remoteURLs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency)
	for i, remote := range remoteURLs {
		g.Go(func() error {
			ref, err := m.fetchOne(gctx, jobID, i, remote)
			if err != nil {
				return err
			}
			refs[i] = ref
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return refs, nil
}

func (m *Materializer) fetchOne(ctx context.Context, jobID string, index int, remote string) (string, error) {
	name := m.filename(jobID, index, remote)
	if m.store.Exists(name) {
		return m.publicPrefix + "/" + name, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, remote, nil)
	if err != nil {
		return "", fmt.Errorf("materialize %s[%d]: %w", jobID, index, err)
	}
	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("materialize %s[%d]: %w", jobID, index, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("materialize %s[%d]: http %d", jobID, index, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("materialize %s[%d]: read body: %w", jobID, index, err)
	}
	if _, err := m.store.Write(ctx, name, data); err != nil {
		return "", fmt.Errorf("materialize %s[%d]: %w", jobID, index, err)
	}
	m.logger.Debug().Str("job", jobID).Int("index", index).Int("bytes", len(data)).Msg("output materialized")
	return m.publicPrefix + "/" + name, nil
}

// filename derives the deterministic storage key for one output.
func (m *Materializer) filename(jobID string, index int, remote string) string {
	sum := md5.Sum([]byte(fmt.Sprintf("%s-%d-%s", jobID, index, remote)))
	return fmt.Sprintf("%s-%d-%s%s", jobID, index, hex.EncodeToString(sum[:])[:12], inferExtension(remote))
}

// IsLocal reports whether ref points into the local output store rather
// than at a remote URL.
func (m *Materializer) IsLocal(ref string) bool {
	return strings.HasPrefix(ref, m.publicPrefix+"/")
}

// LocalExists reports whether a local reference's backing file is still on
// disk.
func (m *Materializer) LocalExists(ref string) bool {
	if !m.IsLocal(ref) {
		return false
	}
	return m.store.Exists(strings.TrimPrefix(ref, m.publicPrefix+"/"))
}

// LocalKey strips the public prefix off a local reference.
func (m *Materializer) LocalKey(ref string) string {
	return strings.TrimPrefix(ref, m.publicPrefix+"/")
}

// inferExtension picks a file extension for a remote URL: the path
// extension when it looks plausible, otherwise known substrings, otherwise
// a generic binary extension.
func inferExtension(remote string) string {
	if u, err := url.Parse(remote); err == nil {
		if ext := path.Ext(u.Path); ext != "" && len(ext) <= 5 {
			return ext
		}
	}
	switch {
	case strings.Contains(remote, ".mp4"), strings.Contains(remote, "video"):
		return ".mp4"
	case strings.Contains(remote, ".webm"):
		return ".webm"
	case strings.Contains(remote, ".png"):
		return ".png"
	case strings.Contains(remote, ".jpg"), strings.Contains(remote, ".jpeg"):
		return ".jpg"
	case strings.Contains(remote, ".webp"):
		return ".webp"
	}
	return ".bin"
}
