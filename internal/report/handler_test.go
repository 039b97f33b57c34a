package report_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/frahmantamala/intern-attendance/internal/attendance"
	"github.com/frahmantamala/intern-attendance/internal/clock"
	"github.com/frahmantamala/intern-attendance/internal/report"
	"github.com/frahmantamala/intern-attendance/internal/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Details struct {
			Errors []struct {
				Field string `json:"field"`
				Code  string `json:"code"`
			} `json:"errors"`
		} `json:"details"`
	} `json:"error"`
}

var _ = Describe("Report Handler", func() {
	var handler *report.Handler

	BeforeEach(func() {
		alice := report.Intern{ID: 1, Username: "alice", Name: "Alice", Department: dept("IT")}
		repo := &mockRepository{
			interns: []report.Intern{alice},
			rows:    []report.Row{row(alice, "2024-03-01", "09:45", attendance.StatusLate)},
		}
		lg := slog.New(slog.NewTextHandler(io.Discard, nil))
		svc := report.NewService(repo, clock.Fixed(time.Date(2024, 3, 3, 12, 0, 0, 0, ist)), 31, lg)
		handler = report.NewHandler(transport.NewBaseHandler(lg), svc, time.Second)
	})

	get := func(h http.HandlerFunc, target string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, target, nil))
		return rec
	}

	rangeError := func(rec *httptest.ResponseRecorder, field string) {
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		var body errorBody
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		Expect(body.Error.Details.Errors).To(HaveLen(1))
		Expect(body.Error.Details.Errors[0].Field).To(Equal(field))
		Expect(body.Error.Details.Errors[0].Code).To(Equal("INVALID_RANGE"))
	}

	It("serves a calendar inside the limit", func() {
		rec := get(handler.GetCalendar, "/admin/reports/calendar?start=2024-02-01&end=2024-03-02")
		Expect(rec.Code).To(Equal(http.StatusOK))

		var cal report.Calendar
		Expect(json.Unmarshal(rec.Body.Bytes(), &cal)).To(Succeed())
		Expect(cal.Days).To(HaveLen(31))
	})

	It("rejects a calendar one day over the limit", func() {
		rangeError(get(handler.GetCalendar, "/admin/reports/calendar?start=2024-02-01&end=2024-03-03"), "end")
	})

	It("rejects a range spanning the whole calendar before touching the data", func() {
		rangeError(get(handler.GetCalendar, "/admin/reports/calendar?start=0001-01-01&end=9999-12-31"), "end")
		rangeError(get(handler.Export, "/admin/reports/export?start=0001-01-01&end=9999-12-31&format=xlsx"), "end")
		rangeError(get(handler.GetSummary, "/admin/reports/summary?start=0001-01-01&end=9999-12-31"), "end")
	})

	It("rejects an inverted range", func() {
		rangeError(get(handler.GetSummary, "/admin/reports/summary?start=2024-03-02&end=2024-03-01"), "start")
	})
})
