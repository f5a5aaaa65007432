package build

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/mdwiki/internal/docs"
	"git.home.luguber.info/inful/mdwiki/internal/foundation/errors"
	"git.home.luguber.info/inful/mdwiki/internal/index"
	"git.home.luguber.info/inful/mdwiki/internal/ledger"
	"git.home.luguber.info/inful/mdwiki/internal/logfields"
	"git.home.luguber.info/inful/mdwiki/internal/metrics"
	"git.home.luguber.info/inful/mdwiki/internal/pathmap"
	"git.home.luguber.info/inful/mdwiki/internal/render"
)

// Options configures an Orchestrator. Zero values select the defaults.
type Options struct {
	Input  string
	Output string

	SourceExtension string // default ".md"
	TargetExtension string // default ".html"
	LedgerFile      string // default ledger.DefaultFileName, inside Output
	Concurrency     int    // default GOMAXPROCS
	IncludeHidden   bool
	Exclude         []string

	// SkipOutputCheck trusts the ledger alone and does not re-render fresh
	// documents whose output file is missing.
	SkipOutputCheck bool

	Renderer render.Renderer  // default goldmark with GFM
	Index    *index.Generator // default index.NewGenerator
	Logger   *slog.Logger     // default slog.Default() at construction
	Recorder metrics.Recorder
	Observer Observer
	// BuildID identifies the run in logs and history; a UUID when empty.
	BuildID string
}

// Orchestrator runs complete builds.
type Orchestrator struct {
	opts     Options
	logger   *slog.Logger
	observer Observer
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(opts Options) *Orchestrator {
	if opts.SourceExtension == "" {
		opts.SourceExtension = ".md"
	}
	if opts.TargetExtension == "" {
		opts.TargetExtension = ".html"
	}
	if opts.LedgerFile == "" {
		opts.LedgerFile = ledger.DefaultFileName
	}
	if opts.Renderer == nil {
		opts.Renderer = render.NewGoldmark(render.Options{GFM: true, StripFrontmatter: true})
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Index == nil {
		opts.Index = index.NewGenerator(index.Options{Logger: opts.Logger})
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}

	observers := Observers{RecorderObserver{Recorder: opts.Recorder}}
	if opts.Observer != nil {
		observers = append(observers, opts.Observer)
	}

	return &Orchestrator{opts: opts, logger: opts.Logger, observer: observers}
}

// Run executes one build.
//
// Fatal errors (scan failures, empty input, output directory or ledger write
// failures) are returned together with the partial report. Per-document
// failures are not errors; they are listed in Report.Failures. When ctx is
// canceled no new documents are dispatched, the ledger is left as it was and
// ctx.Err() is returned.
func (o *Orchestrator) Run(ctx context.Context) (*Report, error) {
	buildID := o.opts.BuildID
	if buildID == "" {
		buildID = uuid.NewString()
	}
	report := newReport(buildID, o.opts.Input, o.opts.Output)
	logger := o.logger.With(logfields.BuildID(buildID))

	documents, err := o.scan(report, logger)
	if err != nil {
		return o.fail(ctx, report, logger, err)
	}
	report.Documents = len(documents)
	if len(documents) == 0 {
		return o.fail(ctx, report, logger, errors.Wrap(nil, ErrEmptyInput).WithContext("input", o.opts.Input).Build())
	}

	if err := os.MkdirAll(o.opts.Output, 0o755); err != nil {
		return o.fail(ctx, report, logger, errors.Wrap(err, ErrOutputDir).WithContext("path", o.opts.Output).Build())
	}

	mapper, err := pathmap.New(o.opts.Input, o.opts.Output, o.opts.SourceExtension, o.opts.TargetExtension)
	if err != nil {
		return o.fail(ctx, report, logger, err)
	}

	ledgerPath := filepath.Join(o.opts.Output, o.opts.LedgerFile)
	previous, err := ledger.Load(ledgerPath)
	if err != nil {
		logger.Warn("Content hash ledger ignored, affected documents are treated as stale",
			logfields.Path(ledgerPath), logfields.Error(err))
	}
	logger.Debug("Loaded content hash ledger", logfields.Path(ledgerPath), logfields.Count(len(previous)))

	report.Workers = o.workers(len(documents))
	o.observer.OnBuildStart(ctx, report)
	logger.Info("Build started",
		logfields.Input(o.opts.Input),
		logfields.Output(o.opts.Output),
		logfields.Count(len(documents)),
		logfields.Workers(report.Workers))

	dispatcher := NewDispatcher(mapper, o.opts.Renderer, !o.opts.SkipOutputCheck, o.opts.Recorder)
	ptrs := make([]*docs.SourceDocument, len(documents))
	for i := range documents {
		ptrs[i] = &documents[i]
	}

	collisions := claimOutputs(mapper, ptrs)

	processStart := time.Now()
	results := runOrdered(ctx, ptrs, report.Workers, func(doc *docs.SourceDocument) (OutputDocument, error) {
		start := time.Now()
		out, err := OutputDocument{}, collisions[doc]
		if err == nil {
			out, err = dispatcher.Process(doc, previous)
		}
		o.observer.OnDocument(ctx, buildID, DocumentResult{
			SourcePath: doc.Path,
			Output:     out,
			Hash:       doc.ContentHash,
			Err:        err,
			Duration:   time.Since(start),
		})
		return out, err
	})
	report.StageDurations[metrics.StageProcess] = time.Since(processStart)

	// Single merge point: every worker has finished.
	next := ledger.New()
	for i, res := range results {
		doc := &documents[i]
		switch {
		case !res.Done:
			report.Undispatched++
		case res.Err != nil:
			report.Failures = append(report.Failures, DocumentFailure{SourcePath: doc.Path, Err: res.Err})
			logger.Warn("Document failed", logfields.Path(doc.Path), logfields.Error(res.Err))
		default:
			report.Outputs = append(report.Outputs, res.Value)
			if res.Value.Rendered {
				report.Rendered++
				logger.Debug("Rendered document", logfields.Path(res.Value.SourcePath), logfields.Output(res.Value.Path))
			} else {
				report.Fresh++
				logger.Debug("Document unchanged", logfields.Path(res.Value.SourcePath))
			}
			next.Set(res.Value.SourcePath, doc.ContentHash)
		}
	}
	sortOutputs(report.Outputs)

	if err := ctx.Err(); err != nil {
		logger.Warn("Build canceled, content hash ledger not updated",
			logfields.Count(report.Undispatched))
		return o.finish(ctx, report, logger, err, true)
	}

	ledgerStart := time.Now()
	skipped, err := ledger.Save(ledgerPath, next)
	report.StageDurations[metrics.StageLedger] = time.Since(ledgerStart)
	report.LedgerSkipped = skipped
	for _, p := range skipped {
		logger.Warn("Source path cannot be stored in the content hash ledger, it will be rendered on every run",
			logfields.Path(p))
	}
	if err != nil {
		return o.finish(ctx, report, logger, err, false)
	}

	indexStart := time.Now()
	created, err := o.opts.Index.EnsureIndex(o.opts.Output, report.OutputPaths())
	report.StageDurations[metrics.StageIndex] = time.Since(indexStart)
	report.IndexCreated = created
	if err != nil {
		report.IndexErr = err
		logger.Warn("Fallback index not generated", logfields.Error(err))
	}

	return o.finish(ctx, report, logger, nil, false)
}

func (o *Orchestrator) scan(report *Report, logger *slog.Logger) ([]docs.SourceDocument, error) {
	start := time.Now()
	defer func() { report.StageDurations[metrics.StageScan] = time.Since(start) }()

	exclude := append([]string(nil), o.opts.Exclude...)
	// The output tree is never a source, even when it lies inside the input.
	if abs, err := filepath.Abs(o.opts.Output); err == nil {
		exclude = append(exclude, abs)
	}

	scanner := docs.NewScanner(docs.Options{
		Extension:     o.opts.SourceExtension,
		IncludeHidden: o.opts.IncludeHidden,
		Exclude:       exclude,
		Logger:        logger,
	})
	return scanner.Scan(o.opts.Input)
}

// claimOutputs assigns every output path to the first document mapping to
// it, in discovery order. Later documents with the same output path get an
// ErrPathMapping failure and are never rendered. Documents that cannot be
// mapped at all are left for the dispatcher to report.
func claimOutputs(mapper *pathmap.Mapper, documents []*docs.SourceDocument) map[*docs.SourceDocument]error {
	owners := make(map[string]string, len(documents))
	collisions := make(map[*docs.SourceDocument]error)
	for _, doc := range documents {
		rel, err := mapper.OutputRel(doc.Path)
		if err != nil {
			continue
		}
		if owner, taken := owners[rel]; taken {
			collisions[doc] = errors.Wrap(nil, pathmap.ErrPathMapping).
				WithContext("path", doc.Path).
				WithContext("output", rel).
				WithContext("reason", "output collides with "+owner).
				Build()
			continue
		}
		owners[rel] = doc.Path
	}
	return collisions
}

func (o *Orchestrator) workers(documents int) int {
	n := o.opts.Concurrency
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	return max(1, min(n, documents))
}

func (o *Orchestrator) fail(ctx context.Context, report *Report, logger *slog.Logger, err error) (*Report, error) {
	return o.finish(ctx, report, logger, err, false)
}

func (o *Orchestrator) finish(ctx context.Context, report *Report, logger *slog.Logger, err error, canceled bool) (*Report, error) {
	report.finish(err, canceled)

	// Completion is recorded even when the build itself was canceled.
	o.observer.OnBuildComplete(context.WithoutCancel(ctx), report)

	attrs := []any{
		logfields.Status(string(report.Outcome)),
		slog.Int("rendered", report.Rendered),
		slog.Int("fresh", report.Fresh),
		slog.Int("failed", len(report.Failures)),
		logfields.DurationMS(float64(report.Duration().Microseconds()) / 1000),
	}
	switch report.Outcome {
	case OutcomeSuccess:
		logger.Info("Build completed", attrs...)
	case OutcomeWarning:
		logger.Warn("Build completed with failures", append(attrs, slog.Any("failed_paths", report.FailedPaths()))...)
	default:
		logger.Error("Build did not complete", append(attrs, logfields.Error(err))...)
	}
	return report, err
}
