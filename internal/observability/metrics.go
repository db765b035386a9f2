// Package observability expone las métricas Prometheus del servicio.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

var _ inventory.Recorder = (*Metrics)(nil)

// Metrics registry propio con las métricas HTTP y del ledger.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	committed       *prometheus.CounterVec
	rejected        *prometheus.CounterVec
	replayed        *prometheus.HistogramVec
}

// NewMetrics inicializa el registry. prefix antecede cada nombre (ej. "stock_ledger").
func NewMetrics(prefix string) *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: prefix + "_http_requests_total",
		Help: "Peticiones HTTP por método, ruta y status.",
	}, []string{"method", "route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    prefix + "_http_request_duration_seconds",
		Help:    "Duración de las peticiones HTTP por ruta.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	committed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: prefix + "_movements_committed_total",
		Help: "Movimientos confirmados por clase y origen.",
	}, []string{"class", "source"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: prefix + "_rejected_total",
		Help: "Operaciones rechazadas por operación y motivo.",
	}, []string{"op", "reason"})
	replayed := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    prefix + "_replayed_rows",
		Help:    "Saldos reescritos por cada reproducción de la cadena.",
		Buckets: []float64{0, 1, 5, 10, 50, 100, 500, 1000},
	}, []string{"class"})
	registry.MustRegister(requests, duration, committed, rejected, replayed)
	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:   requests,
		requestDuration: duration,
		committed:       committed,
		rejected:        rejected,
		replayed:        replayed,
	}
}

// Handler http.Handler para /metrics.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveRequest registra una petición HTTP terminada.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unknown"
	}
	m.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

func (m *Metrics) MovementsCommitted(class entity.ItemClass, source string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.committed.WithLabelValues(string(class), source).Add(float64(n))
}

func (m *Metrics) Rejected(op, reason string) {
	if m == nil {
		return
	}
	m.rejected.WithLabelValues(op, reason).Inc()
}

func (m *Metrics) Replayed(class entity.ItemClass, changed int) {
	if m == nil {
		return
	}
	m.replayed.WithLabelValues(string(class)).Observe(float64(changed))
}

// Registerer expone el registry para métricas adicionales.
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.DefaultRegisterer
	}
	return m.registry
}
