package prometheus

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistersAllCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	require.NotNil(t, m)

	m.PagesFetched.Inc()
	m.RecordsNormalized.Add(25)
	m.RecordsSkipped.Inc()
	m.PatentsUpserted.Add(25)
	m.BatchDuration.Observe(0.2)
	m.SearchRequests.WithLabelValues("ok").Inc()
	m.SearchCacheHits.Inc()
	m.SearchDuration.Observe(0.01)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.PagesFetched))
	assert.Equal(t, 25.0, testutil.ToFloat64(m.RecordsNormalized))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SearchRequests.WithLabelValues("ok")))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNewUnregisteredIsIsolated(t *testing.T) {
	a := NewUnregistered()
	b := NewUnregistered()
	a.PatentsUpserted.Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(a.PatentsUpserted))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.PatentsUpserted))
}
