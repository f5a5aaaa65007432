package build

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/mdwiki/internal/eventstore"
	"git.home.luguber.info/inful/mdwiki/internal/foundation/errors"
	"git.home.luguber.info/inful/mdwiki/internal/logfields"
	"git.home.luguber.info/inful/mdwiki/internal/metrics"
	"git.home.luguber.info/inful/mdwiki/internal/notify"
)

// DocumentResult is passed to observers for every dispatched document.
type DocumentResult struct {
	SourcePath string // as discovered
	Output     OutputDocument
	Hash       string
	Err        error
	Duration   time.Duration
}

// Observer receives build lifecycle callbacks. OnDocument is called from
// worker goroutines and must be safe for concurrent use.
type Observer interface {
	// OnBuildStart runs after discovery, before any document is dispatched.
	OnBuildStart(ctx context.Context, report *Report)
	OnDocument(ctx context.Context, buildID string, res DocumentResult)
	OnBuildComplete(ctx context.Context, report *Report)
}

// NoopObserver is a no-op implementation.
type NoopObserver struct{}

func (NoopObserver) OnBuildStart(context.Context, *Report)              {}
func (NoopObserver) OnDocument(context.Context, string, DocumentResult) {}
func (NoopObserver) OnBuildComplete(context.Context, *Report)           {}

// Observers fans callbacks out in order.
type Observers []Observer

func (obs Observers) OnBuildStart(ctx context.Context, r *Report) {
	for _, o := range obs {
		o.OnBuildStart(ctx, r)
	}
}

func (obs Observers) OnDocument(ctx context.Context, buildID string, res DocumentResult) {
	for _, o := range obs {
		o.OnDocument(ctx, buildID, res)
	}
}

func (obs Observers) OnBuildComplete(ctx context.Context, r *Report) {
	for _, o := range obs {
		o.OnBuildComplete(ctx, r)
	}
}

// RecorderObserver adapts metrics.Recorder into an Observer.
type RecorderObserver struct{ Recorder metrics.Recorder }

func (r RecorderObserver) OnBuildStart(_ context.Context, report *Report) {
	if r.Recorder != nil {
		r.Recorder.SetWorkers(report.Workers)
		r.Recorder.SetDocuments(report.Documents)
	}
}

func (r RecorderObserver) OnDocument(_ context.Context, _ string, res DocumentResult) {
	if r.Recorder == nil {
		return
	}
	switch {
	case res.Err != nil:
		r.Recorder.IncDocumentResult(metrics.DocumentFailed)
	case res.Output.Rendered:
		r.Recorder.IncDocumentResult(metrics.DocumentRendered)
	default:
		r.Recorder.IncDocumentResult(metrics.DocumentFresh)
	}
}

func (r RecorderObserver) OnBuildComplete(_ context.Context, report *Report) {
	if r.Recorder != nil {
		for stage, d := range report.StageDurations {
			r.Recorder.ObserveStageDuration(stage, d)
		}
		r.Recorder.ObserveBuildDuration(report.Duration())
		r.Recorder.IncBuildOutcome(string(report.Outcome))
	}
}

// HistoryObserver appends build events to an event store. Store failures are
// logged and never affect the build.
type HistoryObserver struct {
	Store  eventstore.Store
	Logger *slog.Logger
}

func (h HistoryObserver) OnBuildStart(ctx context.Context, r *Report) {
	h.record(ctx, r.BuildID, func() (eventstore.Event, error) {
		return eventstore.NewBuildStarted(r.BuildID, r.Input, r.Output, r.Documents, r.Workers)
	})
}

func (h HistoryObserver) OnDocument(ctx context.Context, buildID string, res DocumentResult) {
	if res.Err != nil {
		h.record(ctx, buildID, func() (eventstore.Event, error) {
			return eventstore.NewDocumentFailed(buildID, res.SourcePath, string(errors.GetCategory(res.Err)), res.Err.Error())
		})
		return
	}
	h.record(ctx, buildID, func() (eventstore.Event, error) {
		return eventstore.NewDocumentRendered(buildID, res.Output.SourcePath, res.Output.Path, res.Hash, res.Output.Rendered)
	})
}

func (h HistoryObserver) OnBuildComplete(ctx context.Context, r *Report) {
	data := eventstore.BuildCompletedData{
		Outcome:      string(r.Outcome),
		Rendered:     r.Rendered,
		Fresh:        r.Fresh,
		Failed:       len(r.Failures),
		IndexCreated: r.IndexCreated,
		DurationMS:   r.Duration().Milliseconds(),
	}
	if r.Err != nil {
		data.Error = r.Err.Error()
	}
	h.record(ctx, r.BuildID, func() (eventstore.Event, error) {
		return eventstore.NewBuildCompleted(r.BuildID, data)
	})
}

func (h HistoryObserver) record(ctx context.Context, buildID string, newEvent func() (eventstore.Event, error)) {
	if h.Store == nil {
		return
	}
	e, err := newEvent()
	if err == nil {
		err = eventstore.Record(ctx, h.Store, e)
	}
	if err != nil {
		h.logger().Warn("Failed to record build event", logfields.BuildID(buildID), logfields.Error(err))
	}
}

func (h HistoryObserver) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// NotifyObserver publishes a summary when a build completes.
type NotifyObserver struct {
	Notifier notify.Notifier
	Logger   *slog.Logger
}

func (NotifyObserver) OnBuildStart(context.Context, *Report)              {}
func (NotifyObserver) OnDocument(context.Context, string, DocumentResult) {}

func (n NotifyObserver) OnBuildComplete(ctx context.Context, r *Report) {
	if n.Notifier == nil {
		return
	}
	err := n.Notifier.Notify(ctx, notify.Summary{
		BuildID:      r.BuildID,
		Outcome:      string(r.Outcome),
		Input:        r.Input,
		Output:       r.Output,
		Rendered:     r.Rendered,
		Fresh:        r.Fresh,
		Failed:       len(r.Failures),
		FailedPaths:  r.FailedPaths(),
		IndexCreated: r.IndexCreated,
		DurationMS:   r.Duration().Milliseconds(),
		Timestamp:    r.End,
	})
	if err != nil {
		logger := n.Logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("Failed to publish build notification", logfields.BuildID(r.BuildID), logfields.Error(err))
	}
}
