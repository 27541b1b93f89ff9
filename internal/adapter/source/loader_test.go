package source

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoader_LoadFetchesRemoteAndWritesCache(t *testing.T) {
	ctx := context.Background()

	payload := "mirror1.example\n\n  mirror2.example  \nhttps://mirror3.example\n"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, payload)
	}))
	defer srv.Close()

	cachePath := filepath.Join(t.TempDir(), "bdix.txt")
	loader := newTestLoader(t, srv.URL, cachePath)

	endpoints, err := loader.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"mirror1.example", "mirror2.example", "https://mirror3.example"}, endpoints)

	cached, err := os.ReadFile(cachePath)
	require.NoError(t, err)
	require.Equal(t, payload, string(cached))
}

func TestLoader_LoadFallsBackToCacheWhenRemoteFails(t *testing.T) {
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cachePath := filepath.Join(t.TempDir(), "bdix.txt")
	require.NoError(t, os.WriteFile(cachePath, []byte("cached.example\n"), 0o644))

	loader := newTestLoader(t, srv.URL, cachePath)

	endpoints, err := loader.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"cached.example"}, endpoints)
}

func TestLoader_LoadFallsBackToCacheWhenRemotePayloadEmpty(t *testing.T) {
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "\n \n")
	}))
	defer srv.Close()

	cachePath := filepath.Join(t.TempDir(), "bdix.txt")
	require.NoError(t, os.WriteFile(cachePath, []byte("cached.example\n"), 0o644))

	loader := newTestLoader(t, srv.URL, cachePath)

	endpoints, err := loader.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"cached.example"}, endpoints)
}

func TestLoader_LoadYieldsNoEndpointsWithoutRemoteOrCache(t *testing.T) {
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	url := srv.URL
	srv.Close()

	loader := newTestLoader(t, url, filepath.Join(t.TempDir(), "missing.txt"))

	_, err := loader.Load(ctx)
	require.ErrorIs(t, err, ErrNoEndpoints)
}

func TestLoader_LoadYieldsNoEndpointsWhenCacheEmpty(t *testing.T) {
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	cachePath := filepath.Join(t.TempDir(), "bdix.txt")
	require.NoError(t, os.WriteFile(cachePath, []byte("\n"), 0o644))

	loader := newTestLoader(t, srv.URL, cachePath)

	_, err := loader.Load(ctx)
	require.ErrorIs(t, err, ErrNoEndpoints)
}

func TestLoader_RefreshNeverReadsCache(t *testing.T) {
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cachePath := filepath.Join(t.TempDir(), "bdix.txt")
	require.NoError(t, os.WriteFile(cachePath, []byte("cached.example\n"), 0o644))

	loader := newTestLoader(t, srv.URL, cachePath)

	_, err := loader.Refresh(ctx)
	require.Error(t, err)

	cached, err := os.ReadFile(cachePath)
	require.NoError(t, err)
	require.Equal(t, "cached.example\n", string(cached))
}

func TestLoader_RefreshReplacesCache(t *testing.T) {
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "new.example\n")
	}))
	defer srv.Close()

	cachePath := filepath.Join(t.TempDir(), "bdix.txt")
	require.NoError(t, os.WriteFile(cachePath, []byte("old.example\n"), 0o644))

	loader := newTestLoader(t, srv.URL, cachePath)

	endpoints, err := loader.Refresh(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"new.example"}, endpoints)

	cached, err := os.ReadFile(cachePath)
	require.NoError(t, err)
	require.Equal(t, "new.example\n", string(cached))
}

func TestLoader_LoadSurvivesCacheWriteFailure(t *testing.T) {
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "mirror.example\n")
	}))
	defer srv.Close()

	cachePath := filepath.Join(t.TempDir(), "missing-dir", "bdix.txt")
	loader := newTestLoader(t, srv.URL, cachePath)

	endpoints, err := loader.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"mirror.example"}, endpoints)
}

func TestParse_TrimsAndDropsEmptyLines(t *testing.T) {
	require.Equal(t, []string{"a.example", "b.example"}, Parse(" a.example \r\n\nb.example\n\n"))
	require.Empty(t, Parse("\n \n"))
}

func newTestLoader(t *testing.T, url, cachePath string) *Loader {
	t.Helper()

	return NewLoader(slog.New(slog.NewTextHandler(io.Discard, nil)), url, cachePath, time.Second)
}
