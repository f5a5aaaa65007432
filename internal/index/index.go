// Package index synthesizes a listing page when the output tree has no index.
package index

import (
	"bytes"
	_ "embed"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"git.home.luguber.info/inful/mdwiki/internal/foundation/errors"
	"git.home.luguber.info/inful/mdwiki/internal/logfields"
	"git.home.luguber.info/inful/mdwiki/internal/util/fsutil"
)

// DefaultFileName is the index page name inside the output root.
const DefaultFileName = "index.html"

//go:embed assets/index.template.html
var defaultTemplate []byte

// DefaultTemplate returns a copy of the built-in index template.
func DefaultTemplate() []byte {
	return bytes.Clone(defaultTemplate)
}

// Options configures a Generator.
type Options struct {
	// Filename of the index page. Defaults to DefaultFileName.
	Filename string
	// TemplatePath points to a custom HTML template; empty uses the built-in one.
	TemplatePath string
	// Title replaces the text of <title> and of the element with id="title".
	Title  string
	Logger *slog.Logger
}

// Generator writes the fallback index page.
type Generator struct {
	filename     string
	templatePath string
	title        string
	logger       *slog.Logger
}

// NewGenerator creates a Generator.
func NewGenerator(opts Options) *Generator {
	if opts.Filename == "" {
		opts.Filename = DefaultFileName
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Generator{
		filename:     opts.Filename,
		templatePath: opts.TemplatePath,
		title:        opts.Title,
		logger:       opts.Logger,
	}
}

// Filename returns the index page name.
func (g *Generator) Filename() string { return g.filename }

// EnsureIndex writes <outputRoot>/<filename> listing outputs when it does not
// exist yet. outputs are paths relative to outputRoot using forward slashes.
// An existing index is never touched. It reports whether a file was written.
func (g *Generator) EnsureIndex(outputRoot string, outputs []string) (bool, error) {
	indexPath := filepath.Join(outputRoot, g.filename)
	if _, err := os.Lstat(indexPath); err == nil {
		g.logger.Debug("Index present, not generating", logfields.Path(indexPath))
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, errors.Wrap(err, ErrWrite).WithContext("path", indexPath).Build()
	}

	doc, err := g.loadTemplate()
	if err != nil {
		return false, err
	}

	if g.title != "" {
		setTitle(doc, g.title)
	}

	list := findPageList(doc)
	if list == nil {
		return false, errors.Wrap(nil, ErrTemplate).
			WithContext("path", g.templatePath).
			WithContext("reason", "no <ul> or <body> element").
			Build()
	}

	entries := sortedEntries(outputs, g.filename)
	for _, rel := range entries {
		list.AppendChild(listItem(rel))
		list.AppendChild(&html.Node{Type: html.TextNode, Data: "\n"})
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return false, errors.Wrap(err, ErrTemplate).Build()
	}
	buf.WriteByte('\n')

	if err := fsutil.WriteFileAtomic(indexPath, buf.Bytes(), 0o644); err != nil {
		return false, errors.Wrap(err, ErrWrite).WithContext("path", indexPath).Build()
	}

	g.logger.Info("Created index page", logfields.Path(indexPath), logfields.Count(len(entries)))
	return true, nil
}

func (g *Generator) loadTemplate() (*html.Node, error) {
	src := defaultTemplate
	if g.templatePath != "" {
		data, err := os.ReadFile(g.templatePath)
		if err != nil {
			return nil, errors.Wrap(err, ErrTemplate).WithContext("path", g.templatePath).Build()
		}
		src = data
	}
	doc, err := html.Parse(bytes.NewReader(src))
	if err != nil {
		return nil, errors.Wrap(err, ErrTemplate).WithContext("path", g.templatePath).Build()
	}
	return doc, nil
}

// sortedEntries drops duplicates and the index page itself.
func sortedEntries(outputs []string, indexName string) []string {
	seen := make(map[string]struct{}, len(outputs))
	entries := make([]string, 0, len(outputs))
	for _, o := range outputs {
		rel := strings.TrimPrefix(path.Clean(filepath.ToSlash(o)), "/")
		if rel == "." || rel == indexName {
			continue
		}
		if _, dup := seen[rel]; dup {
			continue
		}
		seen[rel] = struct{}{}
		entries = append(entries, rel)
	}
	sort.Strings(entries)
	return entries
}

func listItem(rel string) *html.Node {
	a := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.A,
		Data:     "a",
		Attr:     []html.Attribute{{Key: "href", Val: rel}},
	}
	a.AppendChild(&html.Node{Type: html.TextNode, Data: path.Base(rel)})

	li := &html.Node{Type: html.ElementNode, DataAtom: atom.Li, Data: "li"}
	li.AppendChild(a)
	return li
}

// findPageList returns the element with id="pages", else the first <ul>,
// else <body>.
func findPageList(doc *html.Node) *html.Node {
	if n := find(doc, func(n *html.Node) bool { return getAttr(n, "id") == "pages" }); n != nil {
		return n
	}
	if n := find(doc, func(n *html.Node) bool { return n.DataAtom == atom.Ul }); n != nil {
		return n
	}
	return find(doc, func(n *html.Node) bool { return n.DataAtom == atom.Body })
}

func setTitle(doc *html.Node, title string) {
	for _, n := range []*html.Node{
		find(doc, func(n *html.Node) bool { return n.DataAtom == atom.Title }),
		find(doc, func(n *html.Node) bool { return getAttr(n, "id") == "title" }),
	} {
		if n == nil {
			continue
		}
		for c := n.FirstChild; c != nil; {
			next := c.NextSibling
			n.RemoveChild(c)
			c = next
		}
		n.AppendChild(&html.Node{Type: html.TextNode, Data: title})
	}
}

func find(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, match); found != nil {
			return found
		}
	}
	return nil
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
