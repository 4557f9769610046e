package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics(t *testing.T) {
	// 各テストで新しいレジストリを使用
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	require.NotNil(t, m)
	assert.NotNil(t, m.HTTPRequestsTotal)
	assert.NotNil(t, m.HTTPRequestDuration)
	assert.NotNil(t, m.StoreOperationsTotal)
	assert.NotNil(t, m.CacheLookupsTotal)
	assert.NotNil(t, m.LockDuration)
	assert.NotNil(t, m.SnapshotDuration)
}

func TestHTTPRequestsTotal(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	m.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/venues", "200").Inc()
	m.HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/timeslots", "201").Inc()
	m.HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/timeslots", "409").Inc()

	assert.Equal(t, 3, testutil.CollectAndCount(m.HTTPRequestsTotal))
}

func TestObserveStoreOperation(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	m.ObserveStoreOperation("venue", "create", ResultSuccess)
	m.ObserveStoreOperation("venue", "create", ResultSuccess)
	m.ObserveStoreOperation("venue", "get", ResultNotFound)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.StoreOperationsTotal.WithLabelValues("venue", "create", ResultSuccess)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.StoreOperationsTotal.WithLabelValues("venue", "get", ResultNotFound)))
}

func TestObserveCacheLookup(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	m.ObserveCacheLookup("hit")
	m.ObserveCacheLookup("miss")
	m.ObserveCacheLookup("hit")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.CacheLookupsTotal.WithLabelValues("hit")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.CacheLookupsTotal))
}

func TestObserveLockAndSnapshot(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	start := time.Now()
	m.ObserveLock("acquire", start, nil)
	m.ObserveLock("acquire", start, errors.New("timeout"))
	m.ObserveSnapshot(start, nil)

	assert.Equal(t, 2, testutil.CollectAndCount(m.LockDuration))
	assert.Equal(t, 1, testutil.CollectAndCount(m.SnapshotDuration))
}

func TestRegisterStoredRecords(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	n := 3
	require.NoError(t, m.RegisterStoredRecords("venue", func() int { return n }))
	require.NoError(t, m.RegisterStoredRecords("timeslot", func() int { return 1 }))

	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, f := range families {
		if f.GetName() == "stored_records" {
			found = true
			require.Len(t, f.GetMetric(), 2)
		}
	}
	assert.True(t, found, "stored_records metric not found")

	// 同じ entity を二重に登録するとエラー
	assert.Error(t, m.RegisterStoredRecords("venue", func() int { return 0 }))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics

	// nil でもパニックしない
	assert.NotPanics(t, func() {
		m.ObserveStoreOperation("venue", "get", ResultSuccess)
		m.ObserveCacheLookup("hit")
		m.ObserveLock("acquire", time.Now(), nil)
		m.ObserveSnapshot(time.Now(), nil)
		_ = m.RegisterStoredRecords("venue", func() int { return 0 })
	})
}

func TestInit_CreatesDefaultMetrics(t *testing.T) {
	oldMetrics := defaultMetrics
	defer func() { defaultMetrics = oldMetrics }()

	// Initはデフォルトレジストリに登録するため、テストでは直接セット
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)
	defaultMetrics = m

	assert.Equal(t, m, Get())
}
