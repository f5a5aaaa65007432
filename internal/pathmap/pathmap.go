// Package pathmap derives the output location of a source document.
package pathmap

import (
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/mdwiki/internal/foundation/errors"
)

// Mapping is the result of mapping one source document.
type Mapping struct {
	// SourceRel is the source path relative to the input root, forward slashes.
	SourceRel string
	// OutputRel is the output path relative to the output root, forward slashes.
	OutputRel string
	// OutputPath is the absolute output file path.
	OutputPath string
}

// Mapper mirrors source paths below an input root into an output root.
type Mapper struct {
	inputRoot  string
	outputRoot string
	sourceExt  string
	targetExt  string
}

// New creates a Mapper. The input root must exist; the output root may not
// exist yet.
func New(inputRoot, outputRoot, sourceExt, targetExt string) (*Mapper, error) {
	in, err := canonical(inputRoot)
	if err != nil {
		return nil, errors.Wrap(err, ErrPathMapping).WithContext("input", inputRoot).Build()
	}
	out, err := filepath.Abs(outputRoot)
	if err != nil {
		return nil, errors.Wrap(err, ErrPathMapping).WithContext("output", outputRoot).Build()
	}
	return &Mapper{
		inputRoot:  in,
		outputRoot: out,
		sourceExt:  sourceExt,
		targetExt:  targetExt,
	}, nil
}

// InputRoot returns the canonical input root.
func (m *Mapper) InputRoot() string { return m.inputRoot }

// OutputRoot returns the absolute output root.
func (m *Mapper) OutputRoot() string { return m.outputRoot }

// Map computes the output location of sourcePath and creates its parent
// directory below the output root.
//
// The input root is removed by comparing whole path segments, so a root named
// "docs" only strips the leading "docs" of "docs/a/docs/b.md".
func (m *Mapper) Map(sourcePath string) (Mapping, error) {
	rel, err := m.Rel(sourcePath)
	if err != nil {
		return Mapping{}, err
	}

	outRel := m.replaceExt(rel)
	outPath := filepath.Join(m.outputRoot, outRel)

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return Mapping{}, errors.Wrap(err, ErrPathMapping).
			WithContext("path", sourcePath).
			WithContext("output", outPath).
			Build()
	}

	return Mapping{
		SourceRel:  filepath.ToSlash(rel),
		OutputRel:  filepath.ToSlash(outRel),
		OutputPath: outPath,
	}, nil
}

// OutputRel returns the output path of sourcePath relative to the output
// root, with forward slashes. Unlike Map it touches nothing on disk.
func (m *Mapper) OutputRel(sourcePath string) (string, error) {
	rel, err := m.Rel(sourcePath)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(m.replaceExt(rel)), nil
}

// Rel returns sourcePath relative to the input root in OS separator form.
func (m *Mapper) Rel(sourcePath string) (string, error) {
	// Only the parent is resolved: a symlinked file keeps its own name.
	dir, err := canonical(filepath.Dir(sourcePath))
	if err != nil {
		return "", errors.Wrap(err, ErrPathMapping).WithContext("path", sourcePath).Build()
	}
	base := filepath.Base(sourcePath)
	if base == "." || base == ".." || base == string(filepath.Separator) {
		return "", errors.Wrap(nil, ErrPathMapping).
			WithContext("path", sourcePath).
			WithContext("reason", "not a file path").
			Build()
	}

	rel, err := filepath.Rel(m.inputRoot, filepath.Join(dir, base))
	if err != nil {
		return "", errors.Wrap(err, ErrPathMapping).WithContext("path", sourcePath).Build()
	}
	if rel == "." || rel == "" {
		return "", errors.Wrap(nil, ErrPathMapping).
			WithContext("path", sourcePath).
			WithContext("reason", "empty relative path").
			Build()
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.Wrap(nil, ErrPathMapping).
			WithContext("path", sourcePath).
			WithContext("reason", "outside input root").
			Build()
	}
	return rel, nil
}

// replaceExt swaps the final extension when it is the source extension and
// appends the target extension otherwise.
func (m *Mapper) replaceExt(rel string) string {
	ext := filepath.Ext(rel)
	if ext != "" && strings.EqualFold(ext, m.sourceExt) {
		return rel[:len(rel)-len(ext)] + m.targetExt
	}
	return rel + m.targetExt
}

func canonical(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
