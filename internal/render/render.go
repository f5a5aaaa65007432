// Package render converts markdown source into HTML.
package render

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"git.home.luguber.info/inful/mdwiki/internal/frontmatter"
)

// Renderer turns one markdown document into HTML. Implementations must be
// safe for concurrent use.
type Renderer interface {
	Render(src []byte) ([]byte, error)
}

// Func adapts a plain function to Renderer.
type Func func(src []byte) ([]byte, error)

// Render calls f(src).
func (f Func) Render(src []byte) ([]byte, error) { return f(src) }

// Options controls the goldmark pipeline.
type Options struct {
	// GFM enables tables, strikethrough, autolinks and task lists.
	GFM bool
	// Unsafe passes raw HTML in the source through to the output.
	Unsafe bool
	// StripFrontmatter drops a leading YAML block before rendering.
	StripFrontmatter bool
}

// GoldmarkRenderer renders CommonMark (optionally GFM) with goldmark.
type GoldmarkRenderer struct {
	md   goldmark.Markdown
	opts Options
}

// NewGoldmark builds a GoldmarkRenderer.
func NewGoldmark(opts Options) *GoldmarkRenderer {
	var extensions []goldmark.Extender
	if opts.GFM {
		extensions = append(extensions, extension.GFM)
	}

	var rendererOptions []goldmark.Option
	if opts.Unsafe {
		rendererOptions = append(rendererOptions, goldmark.WithRendererOptions(html.WithUnsafe()))
	}

	md := goldmark.New(append(rendererOptions,
		goldmark.WithExtensions(extensions...),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)...)

	return &GoldmarkRenderer{md: md, opts: opts}
}

// Render implements Renderer.
func (r *GoldmarkRenderer) Render(src []byte) ([]byte, error) {
	body := src
	if r.opts.StripFrontmatter {
		body, _, _ = frontmatter.Strip(src)
	}

	var buf bytes.Buffer
	buf.Grow(len(body) + len(body)/2)
	if err := r.md.Convert(body, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
