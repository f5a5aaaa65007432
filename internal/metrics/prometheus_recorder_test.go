package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration(StageProcess, 150*time.Millisecond)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.ObserveRenderDuration(2 * time.Millisecond)
	pr.IncDocumentResult(DocumentRendered)
	pr.IncDocumentResult(DocumentRendered)
	pr.IncDocumentResult(DocumentFresh)
	pr.IncBuildOutcome("success")
	pr.SetWorkers(4)
	pr.SetDocuments(3)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)

	values := map[string]float64{}
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			name := mf.GetName()
			for _, l := range m.GetLabel() {
				name += "/" + l.GetValue()
			}
			switch {
			case m.GetCounter() != nil:
				values[name] = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				values[name] = m.GetGauge().GetValue()
			}
		}
	}

	assert.InDelta(t, 2, values["mdwiki_document_results_total/rendered"], 0)
	assert.InDelta(t, 1, values["mdwiki_document_results_total/fresh"], 0)
	assert.InDelta(t, 1, values["mdwiki_build_outcomes_total/success"], 0)
	assert.InDelta(t, 4, values["mdwiki_build_workers"], 0)
	assert.InDelta(t, 3, values["mdwiki_documents_discovered"], 0)
}

func TestPrometheusRecorder_NilSafe(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.IncDocumentResult(DocumentFailed)
		pr.ObserveBuildDuration(time.Second)
		pr.SetWorkers(1)
	})
}

func TestHTTPHandler(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncBuildOutcome("failed")

	srv := httptest.NewServer(HTTPHandler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), `mdwiki_build_outcomes_total{outcome="failed"} 1`))
}
