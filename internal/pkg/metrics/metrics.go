package metrics

import (
	"strconv"
	"time"

	"veena-assistant-be/pkg/ai/backend"
	"veena-assistant-be/pkg/ai/pipeline"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the service's Prometheus metrics on a private registry.
type Collector struct {
	registry *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	Turns        *prometheus.CounterVec
	TurnDuration *prometheus.HistogramVec

	BackendFailures *prometheus.CounterVec
	BreakerState    *prometheus.GaugeVec
}

func NewCollector(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		Turns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "turns_total",
				Help:      "Completed conversation turns by path and reply language",
			},
			[]string{"path", "lang"},
		),
		TurnDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "turn_duration_seconds",
				Help:      "End to end turn latency in seconds",
				Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
			},
			[]string{"path"},
		),
		BackendFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "backend_failures_total",
				Help:      "Failed backend calls by operation and failure kind",
			},
			[]string{"op", "kind"},
		),
		BreakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "breaker_open",
				Help:      "1 while a backend circuit breaker is open",
			},
			[]string{"backend"},
		),
	}

	c.registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.Turns,
		c.TurnDuration,
		c.BackendFailures,
		c.BreakerState,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) TurnCompleted(path pipeline.Path, lang string, elapsed time.Duration) {
	c.Turns.WithLabelValues(string(path), lang).Inc()
	c.TurnDuration.WithLabelValues(string(path)).Observe(elapsed.Seconds())
}

func (c *Collector) RequestCompleted(method, route string, status int, elapsed time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// BackendFailed matches backend.Observer.
func (c *Collector) BackendFailed(op string, kind backend.Kind) {
	c.BackendFailures.WithLabelValues(op, kind.String()).Inc()
}

// BreakerChanged matches GuardConfig.OnStateChange.
func (c *Collector) BreakerChanged(name, _, to string) {
	open := 0.0
	if to == "open" {
		open = 1
	}
	c.BreakerState.WithLabelValues(name).Set(open)
}

func (c *Collector) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{}))
}

var (
	_ pipeline.Observer = (*Collector)(nil)
	_ backend.Observer  = (*Collector)(nil).BackendFailed
)
