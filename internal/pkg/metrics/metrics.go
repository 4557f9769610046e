package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// 操作結果のラベル値
const (
	ResultSuccess  = "success"
	ResultNotFound = "not_found"
	ResultInvalid  = "invalid"
	ResultConflict = "conflict"
	ResultError    = "error"
)

// Metrics はアプリケーションのメトリクスを管理する
type Metrics struct {
	reg prometheus.Registerer

	// HTTPリクエストの総数（method, path, status_code）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPリクエストのレイテンシ（method, path）
	HTTPRequestDuration *prometheus.HistogramVec

	// レコードストアへの操作数（entity, operation, result）
	StoreOperationsTotal *prometheus.CounterVec

	// 会場キャッシュの参照結果（result: hit, miss, error）
	CacheLookupsTotal *prometheus.CounterVec

	// 分散ロックの操作時間（operation: acquire/release, status: success/failed）
	LockDuration *prometheus.HistogramVec

	// スナップショット保存にかかった時間（status: success/failed）
	SnapshotDuration *prometheus.HistogramVec
}

// New は新しいMetricsインスタンスを作成し、デフォルトレジストリに登録する
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry は指定したレジストリにメトリクスを登録する
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		reg: reg,
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		StoreOperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "store_operations_total",
				Help: "Total number of record store operations",
			},
			[]string{"entity", "operation", "result"},
		),
		CacheLookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "venue_cache_lookups_total",
				Help: "Total number of venue cache lookups",
			},
			[]string{"result"},
		),
		LockDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "venue_lock_duration_seconds",
				Help:    "Time spent on per-venue lock operations",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"operation", "status"},
		),
		SnapshotDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "snapshot_save_duration_seconds",
				Help:    "Time spent writing in-memory store snapshots",
				Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
			},
			[]string{"status"},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.StoreOperationsTotal,
		m.CacheLookupsTotal,
		m.LockDuration,
		m.SnapshotDuration,
	)

	return m
}

// RegisterStoredRecords は entity ごとの保持レコード数をゲージとして公開する。
// count はスクレイプのたびに呼ばれる。
func (m *Metrics) RegisterStoredRecords(entity string, count func() int) error {
	if m == nil {
		return nil
	}
	return m.reg.Register(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name:        "stored_records",
			Help:        "Current number of records held by the in-memory store",
			ConstLabels: prometheus.Labels{"entity": entity},
		},
		func() float64 { return float64(count()) },
	))
}

// ObserveStoreOperation はストア操作の結果を記録する。nil の場合は何もしない
func (m *Metrics) ObserveStoreOperation(entity, operation, result string) {
	if m == nil {
		return
	}
	m.StoreOperationsTotal.WithLabelValues(entity, operation, result).Inc()
}

// ObserveCacheLookup はキャッシュ参照の結果を記録する
func (m *Metrics) ObserveCacheLookup(result string) {
	if m == nil {
		return
	}
	m.CacheLookupsTotal.WithLabelValues(result).Inc()
}

// ObserveLock はロック操作の所要時間を記録する
func (m *Metrics) ObserveLock(operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.LockDuration.WithLabelValues(operation, statusOf(err)).Observe(time.Since(start).Seconds())
}

// ObserveSnapshot はスナップショット保存の所要時間を記録する
func (m *Metrics) ObserveSnapshot(start time.Time, err error) {
	if m == nil {
		return
	}
	m.SnapshotDuration.WithLabelValues(statusOf(err)).Observe(time.Since(start).Seconds())
}

func statusOf(err error) string {
	if err != nil {
		return "failed"
	}
	return "success"
}

// デフォルトのメトリクスインスタンス
var defaultMetrics *Metrics

// Init はデフォルトのメトリクスインスタンスを初期化する
func Init() *Metrics {
	defaultMetrics = New()
	return defaultMetrics
}

// Get はデフォルトのメトリクスインスタンスを返す
func Get() *Metrics {
	return defaultMetrics
}
