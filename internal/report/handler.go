package report

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/frahmantamala/intern-attendance/internal"
	"github.com/frahmantamala/intern-attendance/internal/attendance"
	"github.com/frahmantamala/intern-attendance/internal/clock"
	"github.com/frahmantamala/intern-attendance/internal/export"
	"github.com/frahmantamala/intern-attendance/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	DefaultRange() Range
	CheckRange(r Range) error
	Summary(ctx context.Context, r Range, department string) (*Summary, error)
	Calendar(ctx context.Context, r Range, department string) (*Calendar, error)
	InternReport(ctx context.Context, userID int64, r Range) (*InternReport, error)
	Rows(ctx context.Context, r Range, department string) ([]Row, error)
	UserRows(ctx context.Context, userID int64, r Range) ([]Row, error)
	Table(rows []Row) export.Table
	InternTable(userID int64, rows []Row) export.Table
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
	Timeout time.Duration
}

func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI, timeout time.Duration) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     svc,
		Timeout:     timeout,
	}
}

// GetSummary handles GET /admin/reports/summary
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	rng, ok := h.parseRange(w, r)
	if !ok {
		return
	}
	ctx, cancel := internal.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	sum, err := h.Service.Summary(ctx, rng, r.URL.Query().Get("department"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, sum)
}

// GetCalendar handles GET /admin/reports/calendar
func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	rng, ok := h.parseRange(w, r)
	if !ok {
		return
	}
	ctx, cancel := internal.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	cal, err := h.Service.Calendar(ctx, rng, r.URL.Query().Get("department"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, cal)
}

// GetInternReport handles GET /admin/reports/interns/{id}
func (h *Handler) GetInternReport(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.pathID(w, r)
	if !ok {
		return
	}
	rng, ok := h.parseRange(w, r)
	if !ok {
		return
	}
	ctx, cancel := internal.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	rep, err := h.Service.InternReport(ctx, userID, rng)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, rep)
}

// Export handles GET /admin/reports/export?format=csv|xlsx
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	format, ok := h.parseFormat(w, r)
	if !ok {
		return
	}
	rng, ok := h.parseRange(w, r)
	if !ok {
		return
	}
	ctx, cancel := internal.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	rows, err := h.Service.Rows(ctx, rng, r.URL.Query().Get("department"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	name := fmt.Sprintf("attendance_report_%s_%s", clock.FormatDate(rng.Start), clock.FormatDate(rng.End))
	if err := export.Serve(w, format, name, h.Service.Table(rows)); err != nil {
		h.Logger.Error("Export: failed to write export", "error", err)
	}
}

// ExportIntern handles GET /admin/reports/interns/{id}/export
func (h *Handler) ExportIntern(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.pathID(w, r)
	if !ok {
		return
	}
	format, ok := h.parseFormat(w, r)
	if !ok {
		return
	}
	rng, ok := h.parseRange(w, r)
	if !ok {
		return
	}
	ctx, cancel := internal.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	rows, err := h.Service.UserRows(ctx, userID, rng)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	name := fmt.Sprintf("attendance_report_%d", userID)
	if err := export.Serve(w, format, name, h.Service.InternTable(userID, rows)); err != nil {
		h.Logger.Error("ExportIntern: failed to write export", "error", err)
	}
}

// parseRange reads start/end, filling a missing bound from the default
// 30 day window.
func (h *Handler) parseRange(w http.ResponseWriter, r *http.Request) (Range, bool) {
	q := r.URL.Query()
	start, end, err := attendance.ParseRange(q.Get("start"), q.Get("end"))
	if err != nil {
		h.HandleServiceError(w, err)
		return Range{}, false
	}

	rng := h.Service.DefaultRange()
	if end != nil {
		rng.End = *end
		if start == nil {
			rng.Start = end.AddDate(0, 0, -29)
		}
	}
	if start != nil {
		rng.Start = *start
	}
	if err := h.Service.CheckRange(rng); err != nil {
		h.HandleServiceError(w, err)
		return Range{}, false
	}
	return rng, true
}

func (h *Handler) parseFormat(w http.ResponseWriter, r *http.Request) (export.Format, bool) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.HandleServiceError(w, internal.NewValidationFieldError("format", err.Error(), internal.ErrCodeValidationFailed))
		return "", false
	}
	return format, true
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.HandleServiceError(w, internal.NewValidationFieldError("id", "id must be a positive integer", internal.ErrCodeValidationFailed))
		return 0, false
	}
	return id, true
}
