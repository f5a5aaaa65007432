package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSite(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"index.html":       "<h1>home</h1>",
		"guide/index.html": "<h1>guide</h1>",
		"guide/intro.html": "<h1>intro</h1>",
		"style.css":        "body{}",
		"notes.unknownext": "plain",
	}
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	return root
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func get(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, "/", nil)
	req.URL.Path = target
	h.ServeHTTP(rec, req)
	return rec
}

func TestFileHandler_ServesFiles(t *testing.T) {
	h := NewFileHandler(newSite(t), "", quietLogger())

	tests := []struct {
		target      string
		body        string
		contentType string
	}{
		{"/", "<h1>home</h1>", "text/html; charset=utf-8"},
		{"/index.html", "<h1>home</h1>", "text/html; charset=utf-8"},
		{"/guide", "<h1>guide</h1>", "text/html; charset=utf-8"},
		{"/guide/", "<h1>guide</h1>", "text/html; charset=utf-8"},
		{"/guide/intro.html", "<h1>intro</h1>", "text/html; charset=utf-8"},
		{"/style.css", "body{}", "text/css; charset=utf-8"},
		{"/notes.unknownext", "plain", DefaultContentType},
		{"/guide/./intro.html", "<h1>intro</h1>", "text/html; charset=utf-8"},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := get(t, h, http.MethodGet, tt.target)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.body, rec.Body.String())
			assert.Equal(t, tt.contentType, rec.Header().Get("Content-Type"))
		})
	}
}

func TestFileHandler_NotFound(t *testing.T) {
	h := NewFileHandler(newSite(t), "", quietLogger())

	rec := get(t, h, http.MethodGet, "/missing.html")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "404 Not Found")
	assert.Equal(t, DefaultContentType, rec.Header().Get("Content-Type"))
}

func TestFileHandler_DirectoryWithoutIndex(t *testing.T) {
	root := newSite(t)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty"), 0o755))
	h := NewFileHandler(root, "", quietLogger())

	rec := get(t, h, http.MethodGet, "/empty/")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFileHandler_RejectsTraversal(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "site")
	require.NoError(t, os.MkdirAll(root, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(base, "secret.txt"), []byte("secret"), 0o644))
	h := NewFileHandler(root, "", quietLogger())

	for _, target := range []string{"/../secret.txt", "/a/../../secret.txt", "/..\\secret.txt"} {
		t.Run(target, func(t *testing.T) {
			rec := get(t, h, http.MethodGet, target)
			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.NotContains(t, rec.Body.String(), "secret")
		})
	}
}

func TestFileHandler_RejectsSymlinkEscape(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require privileges on windows")
	}
	base := t.TempDir()
	root := filepath.Join(base, "site")
	require.NoError(t, os.MkdirAll(root, 0o755))
	secret := filepath.Join(base, "secret.html")
	require.NoError(t, os.WriteFile(secret, []byte("secret"), 0o644))
	require.NoError(t, os.Symlink(secret, filepath.Join(root, "link.html")))

	rec := get(t, NewFileHandler(root, "", quietLogger()), http.MethodGet, "/link.html")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFileHandler_MethodNotAllowed(t *testing.T) {
	h := NewFileHandler(newSite(t), "", quietLogger())

	rec := get(t, h, http.MethodPost, "/index.html")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET, HEAD", rec.Header().Get("Allow"))
	assert.Contains(t, rec.Body.String(), "500 Internal Server Error")
}

func TestFileHandler_Head(t *testing.T) {
	h := NewFileHandler(newSite(t), "", quietLogger())

	rec := get(t, h, http.MethodHead, "/guide/intro.html")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestFileHandler_MissingRoot(t *testing.T) {
	h := NewFileHandler(filepath.Join(t.TempDir(), "not-built-yet"), "", quietLogger())

	rec := get(t, h, http.MethodGet, "/")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFileHandler_CustomIndexName(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "home.html"), []byte("custom"), 0o644))

	rec := get(t, NewFileHandler(root, "home.html", quietLogger()), http.MethodGet, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "custom", rec.Body.String())
}
