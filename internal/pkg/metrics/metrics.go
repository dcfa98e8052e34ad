package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics はアプリケーションのメトリクスを管理する
type Metrics struct {
	// HTTPリクエストの総数（method, path, status_code）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPリクエストのレイテンシ（method, path）
	HTTPRequestDuration *prometheus.HistogramVec

	// 座席割当の総数（status: booked, capacity_rejected, validation_rejected, conflict, error）
	AllocationsTotal *prometheus.CounterVec

	// 競合検出後に再試行された割当の総数
	AllocationRetriesTotal prometheus.Counter

	// 取消の総数（status: canceled, mismatch, not_found, validation_rejected, error）
	CancellationsTotal *prometheus.CounterVec

	// カタログ再投入の総数
	CatalogReseedsTotal prometheus.Counter

	// 現在の空席数（監査ワーカーが更新）
	AvailableSeats prometheus.Gauge

	// availableフラグと予約の有無が矛盾している座席数（監査ワーカーが更新）
	AuditInconsistencies prometheus.Gauge
}

// New は新しいMetricsインスタンスを作成し、デフォルトレジストリに登録する
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry は指定したレジストリにメトリクスを登録する
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
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
		AllocationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "seat_allocations_total",
				Help: "Total number of seat allocation attempts",
			},
			[]string{"status"},
		),
		AllocationRetriesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "seat_allocation_retries_total",
				Help: "Total number of allocation attempts retried after contention",
			},
		),
		CancellationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "booking_cancellations_total",
				Help: "Total number of booking cancellation attempts",
			},
			[]string{"status"},
		),
		CatalogReseedsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "catalog_reseeds_total",
				Help: "Total number of catalog reseeds",
			},
		),
		AvailableSeats: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "available_seats",
				Help: "Current number of available seats",
			},
		),
		AuditInconsistencies: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "seat_audit_inconsistencies",
				Help: "Seats whose available flag disagrees with booking presence",
			},
		),
	}

	// レジストリに登録
	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.AllocationsTotal,
		m.AllocationRetriesTotal,
		m.CancellationsTotal,
		m.CatalogReseedsTotal,
		m.AvailableSeats,
		m.AuditInconsistencies,
	)

	return m
}

// デフォルトのメトリクスインスタンス
var defaultMetrics *Metrics

// Init はデフォルトのメトリクスインスタンスを初期化する
func Init() *Metrics {
	defaultMetrics = New()
	return defaultMetrics
}

// Get はデフォルトのメトリクスインスタンスを返す
// Initが呼ばれていない場合はnilを返すため、呼び出し側でガードする
func Get() *Metrics {
	return defaultMetrics
}
