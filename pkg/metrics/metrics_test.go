package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	rerrors "github.com/vango-dev/batchdom/internal/errors"
)

func newTestMetrics(t *testing.T) *Metrics {
	t.Helper()
	return New(WithRegistry(prometheus.NewRegistry()), WithNamespace("test"))
}

func TestObserveBatch(t *testing.T) {
	m := newTestMetrics(t)
	m.ObserveBatch(0.01, BatchStats{UpdatedComponents: 2, Edits: 5, DisposedComponents: 1, DisposedEventHandlers: 3}, nil)
	m.ObserveBatch(0.02, BatchStats{Edits: 1}, rerrors.New(rerrors.CodeUnknownComponent))
	m.ObserveBatch(0.02, BatchStats{}, errors.New("plain"))

	if got := testutil.ToFloat64(m.batchesTotal.WithLabelValues("success", "")); got != 1 {
		t.Errorf("success batches = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.batchesTotal.WithLabelValues("error", "E201")); got != 1 {
		t.Errorf("error batches = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.batchesTotal.WithLabelValues("error", "unknown")); got != 1 {
		t.Errorf("uncoded error batches = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.editsApplied); got != 6 {
		t.Errorf("edits = %v, want 6", got)
	}
	if got := testutil.ToFloat64(m.componentsUpdated); got != 2 {
		t.Errorf("components updated = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.handlersDisposed); got != 3 {
		t.Errorf("handlers disposed = %v, want 3", got)
	}
}

func TestObserveAttachAndRenderers(t *testing.T) {
	m := newTestMetrics(t)
	m.ObserveAttach(nil)
	m.ObserveAttach(errors.New("boom"))
	m.SetRenderers(3)

	if got := testutil.ToFloat64(m.attachTotal.WithLabelValues("error")); got != 1 {
		t.Errorf("attach errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.renderers); got != 3 {
		t.Errorf("renderers = %v, want 3", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveBatch(1, BatchStats{Edits: 1}, nil)
	m.ObserveAttach(nil)
	m.SetRenderers(1)
}
