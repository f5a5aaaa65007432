package build

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mdwiki/internal/render"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// countingRenderer wraps source bytes in a paragraph and counts calls.
type countingRenderer struct {
	calls atomic.Int32
}

func (c *countingRenderer) Render(src []byte) ([]byte, error) {
	c.calls.Add(1)
	return append(append([]byte("<p>"), src...), "</p>"...), nil
}

var _ render.Renderer = (*countingRenderer)(nil)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
