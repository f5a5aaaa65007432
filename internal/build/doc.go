// Package build runs the incremental markdown to HTML pipeline.
//
// An Orchestrator scans the input tree, fans every document out to a
// Dispatcher on a bounded worker pool and merges the per-document results at
// a single barrier. Only then is the content hash ledger written, once, and
// the fallback index generated from the successful outputs.
//
// The Dispatcher decides per document whether the stored hash still matches
// the source bytes (FRESH, skipped) or not (STALE, rendered and written).
package build
