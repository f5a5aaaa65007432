// Package metrics provides build observability for mdwiki.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so the pipeline never checks for nil:
//
//	orch := build.NewOrchestrator(build.Options{Recorder: metrics.NoopRecorder{}})
//
// When the file server runs, a PrometheusRecorder backed by a private registry
// is injected instead and HTTPHandler exposes it on /metrics.
package metrics
