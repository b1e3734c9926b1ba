// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// HTTPミドルウェアから利用する。
type MetricsCollector interface {
	RecordRequest(method, route string, statusCode int)
	RecordLatency(method, route string, duration time.Duration)
	IncInFlight()
	DecInFlight()
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	inFlight prometheus.Gauge
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "monotodo_http_requests_total",
			Help: "HTTPリクエストの合計数（メソッド・ルート・ステータス別）",
		}, []string{"method", "route", "status_code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "monotodo_http_request_duration_seconds",
			Help:    "HTTPリクエストのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "monotodo_http_requests_in_flight",
			Help: "処理中のHTTPリクエスト数",
		}),
	}

	reg.MustRegister(
		c.requests,
		c.latency,
		c.inFlight,
	)

	return c
}

// RecordRequest はリクエストの完了を記録する。
func (c *Collector) RecordRequest(method, route string, statusCode int) {
	c.requests.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
}

// RecordLatency はリクエストのレイテンシを記録する。
func (c *Collector) RecordLatency(method, route string, duration time.Duration) {
	c.latency.WithLabelValues(method, route).Observe(duration.Seconds())
}

// IncInFlight は処理中リクエスト数を加算する。
func (c *Collector) IncInFlight() {
	c.inFlight.Inc()
}

// DecInFlight は処理中リクエスト数を減算する。
func (c *Collector) DecInFlight() {
	c.inFlight.Dec()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
