package metrics

import "time"

// DocumentResult enumerates per-document outcomes for counters.
type DocumentResult string

const (
	DocumentRendered DocumentResult = "rendered"
	DocumentFresh    DocumentResult = "fresh"
	DocumentFailed   DocumentResult = "failed"
)

// Stage names used with ObserveStageDuration.
const (
	StageScan    = "scan"
	StageProcess = "process"
	StageLedger  = "ledger"
	StageIndex   = "index"
)

// Recorder defines observability hooks for builds. Implementations must be
// safe for concurrent use; document hooks are called from worker goroutines.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	ObserveRenderDuration(d time.Duration)
	IncDocumentResult(result DocumentResult)
	IncBuildOutcome(outcome string) // outcome: success|warning|failed|canceled
	SetWorkers(n int)
	SetDocuments(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)         {}
func (NoopRecorder) ObserveRenderDuration(time.Duration)        {}
func (NoopRecorder) IncDocumentResult(DocumentResult)           {}
func (NoopRecorder) IncBuildOutcome(string)                     {}
func (NoopRecorder) SetWorkers(int)                             {}
func (NoopRecorder) SetDocuments(int)                           {}
