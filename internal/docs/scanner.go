// Package docs discovers markdown source documents below an input root.
package docs

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/mdwiki/internal/foundation/errors"
	"git.home.luguber.info/inful/mdwiki/internal/logfields"
)

// SourceDocument is a discovered source file.
//
// ContentHash is empty until the document has been processed and is set
// exactly once per run.
type SourceDocument struct {
	Path        string // input root joined with the path below it
	ContentHash string
}

// Options configures a Scanner.
type Options struct {
	// Extension selects source files, compared case-insensitively (e.g. ".md").
	Extension string
	// IncludeHidden disables skipping of dot-prefixed files and directories.
	IncludeHidden bool
	// Exclude lists directories that are not descended into. Relative entries
	// are resolved against the scanned root.
	Exclude []string
	Logger  *slog.Logger
}

// Scanner recursively discovers source documents.
type Scanner struct {
	ext           string
	includeHidden bool
	exclude       []string
	logger        *slog.Logger
}

// NewScanner creates a Scanner from opts.
func NewScanner(opts Options) *Scanner {
	ext := strings.ToLower(opts.Extension)
	if ext == "" {
		ext = ".md"
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{
		ext:           ext,
		includeHidden: opts.IncludeHidden,
		exclude:       opts.Exclude,
		logger:        logger,
	}
}

// Scan returns every source document below root at any depth.
// The order of the result is unspecified.
func (s *Scanner) Scan(root string) ([]SourceDocument, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, errors.Wrap(err, ErrNotADirectory).WithContext("path", root).Build()
	}

	excluded := s.resolveExcludes(root)
	var found []SourceDocument

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.Wrap(err, ErrScanIO).WithContext("path", path).Build()
		}

		if path != root && !s.includeHidden && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if _, skip := excluded[absPath(path)]; skip && path != root {
				s.logger.Debug("Skipping excluded directory", logfields.Path(path))
				return filepath.SkipDir
			}
			return nil
		}

		if strings.ToLower(filepath.Ext(d.Name())) != s.ext {
			return nil
		}
		if !s.isRegular(path, d) {
			return nil
		}

		found = append(found, SourceDocument{Path: path})
		s.logger.Debug("Discovered document", logfields.Path(path))
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	s.logger.Info("Documents discovered", logfields.Input(root), logfields.Count(len(found)))
	return found, nil
}

// isRegular reports whether the entry is a regular file, following symlinks.
func (s *Scanner) isRegular(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		s.logger.Debug("Skipping dangling symlink", logfields.Path(path), logfields.Error(err))
		return false
	}
	return info.Mode().IsRegular()
}

func (s *Scanner) resolveExcludes(root string) map[string]struct{} {
	out := make(map[string]struct{}, len(s.exclude))
	for _, e := range s.exclude {
		if e == "" {
			continue
		}
		p := filepath.FromSlash(e)
		if !filepath.IsAbs(p) {
			p = filepath.Join(root, p)
		}
		out[absPath(p)] = struct{}{}
	}
	return out
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

// Paths returns the document paths sorted for display.
func Paths(documents []SourceDocument) []string {
	paths := make([]string, 0, len(documents))
	for _, d := range documents {
		paths = append(paths, d.Path)
	}
	sort.Strings(paths)
	return paths
}
