package build

import (
	"os"
	"time"

	"git.home.luguber.info/inful/mdwiki/internal/docs"
	"git.home.luguber.info/inful/mdwiki/internal/foundation/errors"
	"git.home.luguber.info/inful/mdwiki/internal/ledger"
	"git.home.luguber.info/inful/mdwiki/internal/metrics"
	"git.home.luguber.info/inful/mdwiki/internal/pathmap"
	"git.home.luguber.info/inful/mdwiki/internal/render"
	"git.home.luguber.info/inful/mdwiki/internal/util/fsutil"
)

// OutputDocument is the result of processing one source document.
type OutputDocument struct {
	// Path is relative to the output root, forward slashes.
	Path string
	// SourcePath is relative to the input root, forward slashes. It is the
	// ledger key of the document.
	SourcePath string
	// Rendered is false when the document was fresh and skipped.
	Rendered bool
}

// Dispatcher processes a single document: read, map, staleness check and,
// when stale, render and write.
type Dispatcher struct {
	mapper        *pathmap.Mapper
	renderer      render.Renderer
	verifyOutputs bool
	recorder      metrics.Recorder
}

// NewDispatcher creates a Dispatcher. A nil recorder disables metrics.
func NewDispatcher(mapper *pathmap.Mapper, renderer render.Renderer, verifyOutputs bool, recorder metrics.Recorder) *Dispatcher {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Dispatcher{
		mapper:        mapper,
		renderer:      renderer,
		verifyOutputs: verifyOutputs,
		recorder:      recorder,
	}
}

// Process handles doc against the ledger of the previous run. led is only
// read. On success doc.ContentHash holds the stored hash (fresh) or the newly
// computed one (rendered).
//
// Read, render and write failures are ErrRenderIO; mapping failures are
// pathmap.ErrPathMapping. In both cases doc is left untouched.
func (d *Dispatcher) Process(doc *docs.SourceDocument, led ledger.Ledger) (OutputDocument, error) {
	data, err := os.ReadFile(doc.Path)
	if err != nil {
		return OutputDocument{}, errors.Wrap(err, ErrRenderIO).
			WithContext("path", doc.Path).
			WithContext("stage", "read").
			Build()
	}

	m, err := d.mapper.Map(doc.Path)
	if err != nil {
		return OutputDocument{}, err
	}

	out := OutputDocument{Path: m.OutputRel, SourcePath: m.SourceRel}
	hash := ledger.ComputeHash(data)

	if stored, ok := led.Lookup(m.SourceRel); ok && stored == hash && d.outputPresent(m.OutputPath) {
		doc.ContentHash = stored
		return out, nil
	}

	start := time.Now()
	html, err := d.renderer.Render(data)
	if err != nil {
		return OutputDocument{}, errors.Wrap(err, ErrRenderIO).
			WithContext("path", doc.Path).
			WithContext("stage", "render").
			Build()
	}
	if err := fsutil.WriteFileAtomic(m.OutputPath, html, 0o644); err != nil {
		return OutputDocument{}, errors.Wrap(err, ErrRenderIO).
			WithContext("path", doc.Path).
			WithContext("output", m.OutputPath).
			WithContext("stage", "write").
			Build()
	}
	d.recorder.ObserveRenderDuration(time.Since(start))

	doc.ContentHash = hash
	out.Rendered = true
	return out, nil
}

func (d *Dispatcher) outputPresent(p string) bool {
	if !d.verifyOutputs {
		return true
	}
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}
