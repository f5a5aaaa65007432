package build

import (
	"fmt"
	"sort"
	"time"
)

// Outcome is the final status of a build.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeWarning  Outcome = "warning" // documents failed or the index could not be written
	OutcomeFailed   Outcome = "failed"
	OutcomeCanceled Outcome = "canceled"
)

// DocumentFailure records a document that produced no output.
type DocumentFailure struct {
	SourcePath string // as discovered
	Err        error
}

// Report describes one orchestrated build.
type Report struct {
	BuildID   string
	Input     string
	Output    string
	Start     time.Time
	End       time.Time
	Workers   int
	Documents int

	// Outputs lists every successfully processed document, sorted by Path.
	Outputs  []OutputDocument
	Failures []DocumentFailure
	Rendered int
	Fresh    int
	// Undispatched counts documents skipped because the build was canceled.
	Undispatched int

	// LedgerSkipped lists sources whose path cannot be stored in the ledger.
	LedgerSkipped []string
	IndexCreated  bool
	IndexErr      error

	Outcome        Outcome
	Err            error
	StageDurations map[string]time.Duration
}

func newReport(buildID, input, output string) *Report {
	return &Report{
		BuildID:        buildID,
		Input:          input,
		Output:         output,
		Start:          time.Now(),
		StageDurations: make(map[string]time.Duration),
	}
}

// Duration returns the wall time of the build.
func (r *Report) Duration() time.Duration {
	if r.End.IsZero() {
		return time.Since(r.Start)
	}
	return r.End.Sub(r.Start)
}

// OutputPaths returns the output-root-relative paths of all successful documents.
func (r *Report) OutputPaths() []string {
	paths := make([]string, len(r.Outputs))
	for i, o := range r.Outputs {
		paths[i] = o.Path
	}
	return paths
}

// FailedPaths returns the source paths of failed documents, sorted.
func (r *Report) FailedPaths() []string {
	paths := make([]string, len(r.Failures))
	for i, f := range r.Failures {
		paths[i] = f.SourcePath
	}
	sort.Strings(paths)
	return paths
}

// Summary returns a one-line human readable description.
func (r *Report) Summary() string {
	return fmt.Sprintf("%s: %d documents, %d rendered, %d fresh, %d failed in %s",
		r.Outcome, r.Documents, r.Rendered, r.Fresh, len(r.Failures), r.Duration().Round(time.Millisecond))
}

func (r *Report) finish(err error, canceled bool) {
	r.End = time.Now()
	r.Err = err
	switch {
	case canceled:
		r.Outcome = OutcomeCanceled
	case err != nil:
		r.Outcome = OutcomeFailed
	case len(r.Failures) > 0 || r.IndexErr != nil:
		r.Outcome = OutcomeWarning
	default:
		r.Outcome = OutcomeSuccess
	}
}

func sortOutputs(outputs []OutputDocument) {
	sort.Slice(outputs, func(i, j int) bool { return outputs[i].Path < outputs[j].Path })
}
