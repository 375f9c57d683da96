package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopRecorder_SatisfiesInterface(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveBuildDuration(PipelineSite, time.Second)
	r.IncBuildOutcome(PipelineSite, OutcomeSuccess)
	r.IncDocuments(PipelineMacro)
}

func TestOutcomeOf(t *testing.T) {
	assert.Equal(t, OutcomeSuccess, OutcomeOf(nil))
	assert.Equal(t, OutcomeFailed, OutcomeOf(errors.New("x")))
}

func TestPrometheusRecorder_Counts(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.IncDocuments(PipelineSite)
	pr.IncDocuments(PipelineSite)
	pr.IncBuildOutcome(PipelineSite, OutcomeFailed)
	pr.ObserveBuildDuration(PipelineSite, 20*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(pr.documents.WithLabelValues(PipelineSite)))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.buildOutcome.WithLabelValues(PipelineSite, string(OutcomeFailed))))
	assert.Equal(t, 1, testutil.CollectAndCount(pr.buildDuration))
}

func TestPrometheusRecorder_NilSafe(t *testing.T) {
	var pr *PrometheusRecorder
	pr.IncDocuments(PipelineSite)
	pr.IncBuildOutcome(PipelineSite, OutcomeSuccess)
	pr.ObserveBuildDuration(PipelineSite, time.Second)
}

func TestHTTPHandler_ExposesMetrics(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg).IncDocuments(PipelineMacro)

	rec := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `tinyssg_documents_written_total{pipeline="macro"} 1`)
}
