package render

import (
	stderrors "errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoldmarkRenderer_Basic(t *testing.T) {
	r := NewGoldmark(Options{})

	out, err := r.Render([]byte("# Hello\n\nSome *text*.\n"))
	require.NoError(t, err)
	assert.Equal(t, "<h1 id=\"hello\">Hello</h1>\n<p>Some <em>text</em>.</p>\n", string(out))
}

func TestGoldmarkRenderer_GFM(t *testing.T) {
	src := []byte("| a | b |\n|---|---|\n| 1 | 2 |\n\n~~gone~~\n")

	plain, err := NewGoldmark(Options{}).Render(src)
	require.NoError(t, err)
	assert.NotContains(t, string(plain), "<table>")

	gfm, err := NewGoldmark(Options{GFM: true}).Render(src)
	require.NoError(t, err)
	assert.Contains(t, string(gfm), "<table>")
	assert.Contains(t, string(gfm), "<del>gone</del>")
}

func TestGoldmarkRenderer_RawHTML(t *testing.T) {
	src := []byte("<div class=\"note\">hi</div>\n")

	safe, err := NewGoldmark(Options{}).Render(src)
	require.NoError(t, err)
	assert.Contains(t, string(safe), "raw HTML omitted")

	unsafe, err := NewGoldmark(Options{Unsafe: true}).Render(src)
	require.NoError(t, err)
	assert.Contains(t, string(unsafe), "<div class=\"note\">hi</div>")
}

func TestGoldmarkRenderer_StripFrontmatter(t *testing.T) {
	src := []byte("---\ntitle: Home\n---\n# Home\n")

	stripped, err := NewGoldmark(Options{StripFrontmatter: true}).Render(src)
	require.NoError(t, err)
	assert.NotContains(t, string(stripped), "title: Home")
	assert.Contains(t, string(stripped), "<h1 id=\"home\">Home</h1>")

	kept, err := NewGoldmark(Options{}).Render(src)
	require.NoError(t, err)
	assert.Contains(t, string(kept), "title: Home")
}

func TestGoldmarkRenderer_ThematicBreakIsNotFrontmatter(t *testing.T) {
	src := []byte("---\nIntro paragraph\n")

	out, err := NewGoldmark(Options{StripFrontmatter: true}).Render(src)
	require.NoError(t, err)
	assert.Contains(t, string(out), "<hr>")
	assert.Contains(t, string(out), "Intro paragraph")
}

func TestGoldmarkRenderer_Concurrent(t *testing.T) {
	r := NewGoldmark(Options{GFM: true, StripFrontmatter: true})

	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out, err := r.Render([]byte("# Same\n"))
			if err == nil {
				results[i] = string(out)
			}
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, results[0], got)
	}
	assert.True(t, strings.HasPrefix(results[0], "<h1"))
}

func TestFunc(t *testing.T) {
	boom := stderrors.New("boom")
	var r Renderer = Func(func([]byte) ([]byte, error) { return nil, boom })

	_, err := r.Render([]byte("x"))
	assert.ErrorIs(t, err, boom)
}
