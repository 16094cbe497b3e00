// Package metrics exposes client-side Prometheus collectors for REST and
// stream traffic. Collectors are registered on a caller supplied registerer,
// never on the global default.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "nakula"

type Metrics struct {
	requestLatency   *prometheus.HistogramVec
	requestTotal     *prometheus.CounterVec
	apiErrors        *prometheus.CounterVec
	usedWeight       *prometheus.GaugeVec
	orderCount       *prometheus.GaugeVec
	breakerState     *prometheus.GaugeVec
	streamMessages   *prometheus.CounterVec
	streamReconnects *prometheus.CounterVec
}

// New creates the collectors and registers them on reg. A nil reg yields
// unregistered collectors, which is handy in tests.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requestLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_milliseconds",
				Help:      "REST request latency in milliseconds",
				Buckets:   prometheus.ExponentialBuckets(20, 2, 9), // 20ms to 5120ms
			}, []string{"family", "path"},
		),
		requestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "REST requests by family, method and HTTP status",
			}, []string{"family", "method", "status_code"},
		),
		apiErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "api_errors_total",
				Help:      "Binance error codes returned by the REST API",
			}, []string{"family", "code"},
		),
		usedWeight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "used_weight",
				Help:      "Request weight used in the current window as reported by the server",
			}, []string{"family", "interval"},
		),
		orderCount: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "order_count",
				Help:      "Order count in the current window as reported by the server",
			}, []string{"family", "interval"},
		),
		breakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "circuit_breaker_state",
				Help:      "Circuit breaker state: 0 closed, 1 open, 2 half-open",
			}, []string{"family"},
		),
		streamMessages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stream_messages_total",
				Help:      "Websocket messages received by event type",
			}, []string{"event"},
		),
		streamReconnects: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stream_reconnects_total",
				Help:      "Websocket reconnect attempts",
			}, []string{"url"},
		),
	}

	if reg == nil {
		return m, nil
	}
	for _, c := range m.collectors() {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.requestLatency,
		m.requestTotal,
		m.apiErrors,
		m.usedWeight,
		m.orderCount,
		m.breakerState,
		m.streamMessages,
		m.streamReconnects,
	}
}

// ObserveRequest records one completed REST round trip. status is 0 when
// the request never got a response.
func (m *Metrics) ObserveRequest(family, method, path string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requestLatency.WithLabelValues(family, path).Observe(float64(elapsed) / float64(time.Millisecond))
	m.requestTotal.WithLabelValues(family, method, strconv.Itoa(status)).Inc()
}

func (m *Metrics) ObserveAPIError(family string, code int) {
	if m == nil {
		return
	}
	m.apiErrors.WithLabelValues(family, strconv.Itoa(code)).Inc()
}

func (m *Metrics) SetUsedWeight(family, interval string, weight int64) {
	if m == nil {
		return
	}
	m.usedWeight.WithLabelValues(family, interval).Set(float64(weight))
}

func (m *Metrics) SetOrderCount(family, interval string, count int64) {
	if m == nil {
		return
	}
	m.orderCount.WithLabelValues(family, interval).Set(float64(count))
}

func (m *Metrics) SetBreakerState(family string, state int) {
	if m == nil {
		return
	}
	m.breakerState.WithLabelValues(family).Set(float64(state))
}

func (m *Metrics) ObserveStreamMessage(event string) {
	if m == nil {
		return
	}
	m.streamMessages.WithLabelValues(event).Inc()
}

func (m *Metrics) ObserveReconnect(url string) {
	if m == nil {
		return
	}
	m.streamReconnects.WithLabelValues(url).Inc()
}
