// Package metrics exposes Prometheus collectors for attendance activity and
// HTTP traffic.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/frahmantamala/intern-attendance/internal/core/events"
	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "intern_attendance"

type Metrics struct {
	registry     *prometheus.Registry
	CheckIns     *prometheus.CounterVec
	CheckOuts    *prometheus.CounterVec
	UsersCreated *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// New registers the collectors on a private registry together with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		CheckIns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "check_ins_total",
			Help:      "Check-ins recorded, by status and whether an earlier check-in was overwritten.",
		}, []string{"status", "repeat"}),
		CheckOuts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "check_outs_total",
			Help:      "Check-out attempts, by whether a check-in existed to attach them to.",
		}, []string{"result"}),
		UsersCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "users_created_total",
			Help:      "Accounts created, by role.",
		}, []string{"role"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "code"}),
	}
	m.registry.MustRegister(
		m.CheckIns,
		m.CheckOuts,
		m.UsersCreated,
		m.HTTPDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Subscribe counts domain events published on the bus.
func (m *Metrics) Subscribe(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeCheckedIn, func(_ context.Context, e events.Event) error {
		if ev, ok := e.(events.CheckedInEvent); ok {
			m.CheckIns.WithLabelValues(ev.Status, strconv.FormatBool(ev.Repeat)).Inc()
		}
		return nil
	})
	bus.Subscribe(events.EventTypeCheckedOut, func(_ context.Context, e events.Event) error {
		if ev, ok := e.(events.CheckedOutEvent); ok {
			result := "recorded"
			if !ev.Recorded {
				result = "missing_check_in"
			}
			m.CheckOuts.WithLabelValues(result).Inc()
		}
		return nil
	})
	bus.Subscribe(events.EventTypeUserCreated, func(_ context.Context, e events.Event) error {
		if ev, ok := e.(events.UserCreatedEvent); ok {
			m.UsersCreated.WithLabelValues(ev.Role).Inc()
		}
		return nil
	})
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware observes request durations labelled by the matched chi route
// pattern, so path parameters do not explode cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		m.HTTPDuration.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).
			Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
