package metrics_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/frahmantamala/intern-attendance/internal/core/events"
	"github.com/frahmantamala/intern-attendance/internal/transport/metrics"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Metrics Suite")
}

var _ = Describe("Metrics", func() {
	var (
		m   *metrics.Metrics
		bus *events.EventBus
		ctx context.Context
	)

	BeforeEach(func() {
		m = metrics.New()
		bus = events.NewEventBus(slog.New(slog.NewTextHandler(io.Discard, nil)))
		m.Subscribe(bus)
		ctx = context.Background()
	})

	It("counts attendance events from the bus", func() {
		date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		Expect(bus.Publish(ctx, events.NewCheckedInEvent(1, date, "Late", false))).To(Succeed())
		Expect(bus.Publish(ctx, events.NewCheckedInEvent(1, date, "Late", true))).To(Succeed())
		Expect(bus.Publish(ctx, events.NewCheckedOutEvent(1, date, true))).To(Succeed())
		Expect(bus.Publish(ctx, events.NewCheckedOutEvent(2, date, false))).To(Succeed())
		Expect(bus.Publish(ctx, events.NewUserCreatedEvent(2, "intern"))).To(Succeed())

		Expect(testutil.ToFloat64(m.CheckIns.WithLabelValues("Late", "false"))).To(Equal(1.0))
		Expect(testutil.ToFloat64(m.CheckIns.WithLabelValues("Late", "true"))).To(Equal(1.0))
		Expect(testutil.ToFloat64(m.CheckOuts.WithLabelValues("recorded"))).To(Equal(1.0))
		Expect(testutil.ToFloat64(m.CheckOuts.WithLabelValues("missing_check_in"))).To(Equal(1.0))
		Expect(testutil.ToFloat64(m.UsersCreated.WithLabelValues("intern"))).To(Equal(1.0))
	})

	It("labels request durations by route pattern and serves the registry", func() {
		r := chi.NewRouter()
		r.Use(m.Middleware)
		r.Get("/interns/{id}", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
		r.Handle("/metrics", m.Handler())

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/interns/7", nil))
		Expect(rec.Code).To(Equal(http.StatusNoContent))

		Expect(testutil.CollectAndCount(m.HTTPDuration)).To(Equal(1))

		rec = httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring(`intern_attendance_http_request_duration_seconds_count{code="204",method="GET",route="/interns/{id}"} 1`))
	})
})
