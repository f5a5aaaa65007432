package build

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mdwiki/internal/config"
	"git.home.luguber.info/inful/mdwiki/internal/metrics"
	"git.home.luguber.info/inful/mdwiki/internal/notify"
)

type fakeNotifier struct {
	mu        sync.Mutex
	summaries []notify.Summary
	err       error
}

func (f *fakeNotifier) Notify(_ context.Context, s notify.Summary) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.summaries = append(f.summaries, s)
	return f.err
}

func (f *fakeNotifier) Close() error { return nil }

func TestNotifyObserver_PublishesSummary(t *testing.T) {
	n := &fakeNotifier{}
	report := newReport("b-1", "in", "out")
	report.Rendered = 2
	report.Fresh = 1
	report.Failures = []DocumentFailure{{SourcePath: "in/z.md"}, {SourcePath: "in/a.md"}}
	report.finish(nil, false)

	NotifyObserver{Notifier: n, Logger: discardLogger()}.OnBuildComplete(t.Context(), report)

	require.Len(t, n.summaries, 1)
	s := n.summaries[0]
	assert.Equal(t, "b-1", s.BuildID)
	assert.Equal(t, string(OutcomeWarning), s.Outcome)
	assert.Equal(t, 2, s.Rendered)
	assert.Equal(t, 1, s.Fresh)
	assert.Equal(t, 2, s.Failed)
	assert.Equal(t, []string{"in/a.md", "in/z.md"}, s.FailedPaths)
	assert.Equal(t, report.End, s.Timestamp)
}

func TestNotifyObserver_FailureDoesNotPanic(t *testing.T) {
	n := &fakeNotifier{err: stderrors.New("broker down")}
	report := newReport("b-2", "in", "out")
	report.finish(nil, false)

	assert.NotPanics(t, func() {
		NotifyObserver{Notifier: n, Logger: discardLogger()}.OnBuildComplete(t.Context(), report)
		NotifyObserver{}.OnBuildComplete(t.Context(), report)
	})
	assert.Len(t, n.summaries, 1)
}

func TestObservers_FanOutInOrder(t *testing.T) {
	var calls []string
	record := func(name string) Observer {
		return funcObserver{
			start:    func() { calls = append(calls, name+":start") },
			document: func() { calls = append(calls, name+":doc") },
			complete: func() { calls = append(calls, name+":complete") },
		}
	}
	obs := Observers{record("a"), record("b")}

	report := newReport("b-3", "in", "out")
	obs.OnBuildStart(t.Context(), report)
	obs.OnDocument(t.Context(), "b-3", DocumentResult{})
	obs.OnBuildComplete(t.Context(), report)

	assert.Equal(t, []string{
		"a:start", "b:start",
		"a:doc", "b:doc",
		"a:complete", "b:complete",
	}, calls)
}

type funcObserver struct {
	start, document, complete func()
}

func (f funcObserver) OnBuildStart(context.Context, *Report)              { f.start() }
func (f funcObserver) OnDocument(context.Context, string, DocumentResult) { f.document() }
func (f funcObserver) OnBuildComplete(context.Context, *Report)           { f.complete() }

type countingRecorder struct {
	metrics.NoopRecorder
	mu       sync.Mutex
	results  map[metrics.DocumentResult]int
	outcomes map[string]int
	stages   map[string]int
	workers  int
	docs     int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{
		results:  make(map[metrics.DocumentResult]int),
		outcomes: make(map[string]int),
		stages:   make(map[string]int),
	}
}

func (c *countingRecorder) IncDocumentResult(r metrics.DocumentResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results[r]++
}

func (c *countingRecorder) IncBuildOutcome(o string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.outcomes[o]++
}

func (c *countingRecorder) ObserveStageDuration(stage string, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stages[stage]++
}

func (c *countingRecorder) SetWorkers(n int)   { c.workers = n }
func (c *countingRecorder) SetDocuments(n int) { c.docs = n }

func TestRun_FeedsRecorder(t *testing.T) {
	f := newOrchFixture(t, map[string]string{"a.md": "a", "b.md": "b", "c.md": "c"})
	rec := newCountingRecorder()

	opts := f.options()
	opts.Recorder = rec
	opts.Concurrency = 2
	f.run(t, opts)

	writeTree(t, f.in, map[string]string{"a.md": "a2"})
	f.run(t, opts)

	assert.Equal(t, 4, rec.results[metrics.DocumentRendered])
	assert.Equal(t, 2, rec.results[metrics.DocumentFresh])
	assert.Equal(t, 2, rec.outcomes[string(OutcomeSuccess)])
	assert.Equal(t, 2, rec.workers)
	assert.Equal(t, 3, rec.docs)
	for _, stage := range []string{metrics.StageScan, metrics.StageProcess, metrics.StageLedger, metrics.StageIndex} {
		assert.Equal(t, 2, rec.stages[stage], stage)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Build.Concurrency = 3
	cfg.Build.Exclude = []string{"drafts"}
	cfg.Build.LedgerFile = ".hashes"

	opts := OptionsFromConfig(cfg, "src", "dst")
	assert.Equal(t, "src", opts.Input)
	assert.Equal(t, "dst", opts.Output)
	assert.Equal(t, ".md", opts.SourceExtension)
	assert.Equal(t, ".html", opts.TargetExtension)
	assert.Equal(t, ".hashes", opts.LedgerFile)
	assert.Equal(t, 3, opts.Concurrency)
	assert.Equal(t, []string{"drafts"}, opts.Exclude)
	assert.False(t, opts.SkipOutputCheck)
	require.NotNil(t, opts.Renderer)
	require.NotNil(t, opts.Index)
	assert.Equal(t, "index.html", opts.Index.Filename())
}
