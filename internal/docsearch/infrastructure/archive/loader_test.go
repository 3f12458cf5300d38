package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/ordo/internal/docsearch/domain"
	"github.com/felixgeelhaar/ordo/internal/shared/infrastructure/security"
)

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

var sampleFiles = map[string]string{
	"fastmcp-main/README.md":           "# FastMCP",
	"fastmcp-main/docs/tools.mdx":      "Tools",
	"fastmcp-main/src/server.py":       "print()",
	"fastmcp-main/docs/":               "",
	"fastmcp-main/docs/notes.markdown": "skipped",
}

func TestReadZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs.zip")
	require.NoError(t, os.WriteFile(path, buildZip(t, sampleFiles), 0o600))

	docs, err := ReadZip(path)
	require.NoError(t, err)

	assert.ElementsMatch(t, []domain.Document{
		{Filename: "README.md", Content: "# FastMCP"},
		{Filename: "docs/tools.mdx", Content: "Tools"},
	}, docs)
}

func TestReadZip_Missing(t *testing.T) {
	_, err := ReadZip(filepath.Join(t.TempDir(), "nope.zip"))
	assert.Error(t, err)
}

func TestLoader_DownloadsOnce(t *testing.T) {
	payload := buildZip(t, sampleFiles)
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	l := NewLoader(t.TempDir(), srv.Client(), nil)
	ctx := context.Background()

	for range 2 {
		docs, err := l.Load(ctx, "fastmcp", srv.URL+"/main.zip")
		require.NoError(t, err)
		assert.Len(t, docs, 2)
	}
	assert.Equal(t, int32(1), hits.Load())
	cached, err := l.CachePath("fastmcp")
	require.NoError(t, err)
	assert.FileExists(t, cached)
}

func TestLoader_DownloadFailureLeavesNoCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	l := NewLoader(t.TempDir(), srv.Client(), nil)
	_, err := l.Load(context.Background(), "canvas", srv.URL)
	require.Error(t, err)
	cached, err := l.CachePath("canvas")
	require.NoError(t, err)
	assert.NoFileExists(t, cached)
}

func TestLoader_LocalPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local.zip")
	require.NoError(t, os.WriteFile(path, buildZip(t, sampleFiles), 0o600))

	l := NewLoader(t.TempDir(), nil, nil)
	docs, err := l.Load(context.Background(), "local", path)
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestLoader_CachePathStaysInCacheDir(t *testing.T) {
	l := NewLoader(t.TempDir(), nil, nil)
	_, err := l.CachePath("../escape")
	assert.ErrorIs(t, err, security.ErrPathEscapes)
}
