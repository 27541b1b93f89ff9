package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/tanvirk/ixreach/internal/common/logging"
)

// ErrNoEndpoints indicates that neither the remote source nor the local
// cache yielded any endpoints.
var ErrNoEndpoints = errors.New("no endpoints available")

// Loader fetches the endpoint list from a remote URL and keeps a local
// file cache for offline runs.
type Loader struct {
	logger    *slog.Logger
	http      *http.Client
	url       string
	cachePath string
}

func NewLoader(logger *slog.Logger, url, cachePath string, timeout time.Duration) *Loader {
	return &Loader{
		logger:    logger,
		http:      &http.Client{Timeout: timeout},
		url:       url,
		cachePath: cachePath,
	}
}

// Load returns the endpoint list, preferring the remote source and
// falling back to the local cache when the fetch fails.
func (l *Loader) Load(ctx context.Context) ([]string, error) {
	endpoints, err := l.fetch(ctx)
	if err == nil {
		return endpoints, nil
	}

	l.logger.WarnContext(ctx, "Remote endpoint list unavailable, trying cache",
		slog.String("url", l.url),
		logging.Error(err),
	)

	endpoints, cacheErr := l.readCache()
	if cacheErr != nil {
		return nil, fmt.Errorf("%w: fetch failed (%v), cache failed (%v)", ErrNoEndpoints, err, cacheErr)
	}

	return endpoints, nil
}

// Refresh re-fetches the endpoint list from the remote source. Unlike
// Load it does not fall back to the cache.
func (l *Loader) Refresh(ctx context.Context) ([]string, error) {
	return l.fetch(ctx)
}

func (l *Loader) fetch(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := l.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch endpoint list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch endpoint list: unexpected status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read endpoint list: %w", err)
	}

	endpoints := Parse(string(raw))
	if len(endpoints) == 0 {
		return nil, errors.New("endpoint list is empty")
	}

	l.writeCache(ctx, raw)

	return endpoints, nil
}

func (l *Loader) readCache() ([]string, error) {
	raw, err := os.ReadFile(l.cachePath)
	if err != nil {
		return nil, err
	}

	endpoints := Parse(string(raw))
	if len(endpoints) == 0 {
		return nil, errors.New("cache is empty")
	}

	return endpoints, nil
}

// writeCache stores the raw payload at the cache path. A failed write
// is not fatal, the next run just has no offline fallback.
func (l *Loader) writeCache(ctx context.Context, raw []byte) {
	if err := os.WriteFile(l.cachePath, raw, 0o644); err != nil {
		l.logger.WarnContext(ctx, "Failed to cache endpoint list",
			slog.String("path", l.cachePath),
			logging.Error(err),
		)
	}
}

// Parse splits a raw endpoint list into entries, one per line, dropping
// blank lines and surrounding whitespace.
func Parse(raw string) []string {
	lines := strings.Split(raw, "\n")

	endpoints := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			endpoints = append(endpoints, line)
		}
	}

	return endpoints
}
