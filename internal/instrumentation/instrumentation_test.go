package instrumentation

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveGroup(t *testing.T) {
	i := NewTestInstrumentation()

	i.ObserveGroup("fatigue", 2*time.Millisecond, nil)
	i.ObserveGroup("fatigue", time.Millisecond, errors.New("boom"))
	i.ObserveGroup("body", time.Millisecond, nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(i.CounterGroupFailures.WithLabelValues("fatigue")))
	assert.Equal(t, 0.0, testutil.ToFloat64(i.CounterGroupFailures.WithLabelValues("body")))
	assert.Equal(t, 2, testutil.CollectAndCount(i.HistGroupDuration))
}

func TestObserveImport(t *testing.T) {
	i := NewTestInstrumentation()

	i.ObserveImport(nil)
	i.ObserveImport(nil)
	i.ObserveImport(errors.New("unresolved"))

	assert.Equal(t, 2.0, testutil.ToFloat64(i.CounterImports.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(i.CounterImports.WithLabelValues("error")))
}

func TestTestInstrumentationIsolated(t *testing.T) {
	a, b := NewTestInstrumentation(), NewTestInstrumentation()
	a.CounterCacheHits.Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(a.CounterCacheHits))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.CounterCacheHits))
}
