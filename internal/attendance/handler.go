package attendance

import (
	"context"
	"net/http"
	"time"

	"github.com/frahmantamala/intern-attendance/internal"
	"github.com/frahmantamala/intern-attendance/internal/clock"
	"github.com/frahmantamala/intern-attendance/internal/transport"
)

type ServiceAPI interface {
	CheckIn(ctx context.Context, userID int64, date, at *time.Time) (*Record, error)
	CheckOut(ctx context.Context, userID int64, date, at *time.Time) (bool, error)
	GetAttendance(ctx context.Context, userID int64, start, end *time.Time) ([]*Record, error)
	GetAllAttendance(ctx context.Context, filter Filter) ([]*RecordWithUser, error)
	Today(ctx context.Context, userID int64) (*Record, error)
	RequireUser(ctx context.Context, userID int64) error
	Clock() clock.Clock
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
	Timeout time.Duration
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI, timeout time.Duration) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
		Timeout:     timeout,
	}
}

func (h *Handler) identity(w http.ResponseWriter, r *http.Request) (internal.Identity, bool) {
	id, ok := internal.IdentityFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.ErrInvalidToken)
	}
	return id, ok
}

// CheckIn handles POST /attendance/check-in for the calling intern.
func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	id, ok := h.identity(w, r)
	if !ok {
		return
	}
	ctx, cancel := internal.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	record, err := h.Service.CheckIn(ctx, id.UserID, nil, nil)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, record.ToResponse())
}

// CheckOut handles POST /attendance/check-out for the calling intern.
func (h *Handler) CheckOut(w http.ResponseWriter, r *http.Request) {
	id, ok := h.identity(w, r)
	if !ok {
		return
	}
	ctx, cancel := internal.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	h.checkOut(ctx, w, id.UserID, nil, nil)
}

func (h *Handler) checkOut(ctx context.Context, w http.ResponseWriter, userID int64, date, at *time.Time) {
	updated, err := h.Service.CheckOut(ctx, userID, date, at)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if !updated {
		h.HandleServiceError(w, internal.ErrCheckInRequired)
		return
	}

	day := clock.Today(h.Service.Clock())
	if date != nil {
		day = clock.CivilDate(*date)
	} else if at != nil {
		day = clock.CivilDate(at.In(h.Service.Clock().Location()))
	}
	records, err := h.Service.GetAttendance(ctx, userID, &day, &day)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if len(records) == 0 {
		h.HandleServiceError(w, internal.ErrCheckInRequired)
		return
	}
	h.WriteJSON(w, http.StatusOK, records[0].ToResponse())
}

// ListOwn handles GET /attendance?start=&end=.
func (h *Handler) ListOwn(w http.ResponseWriter, r *http.Request) {
	id, ok := h.identity(w, r)
	if !ok {
		return
	}
	start, end, err := ParseRange(r.URL.Query().Get("start"), r.URL.Query().Get("end"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	ctx, cancel := internal.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	records, err := h.Service.GetAttendance(ctx, id.UserID, start, end)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	resp := RecordsResponse{Records: make([]RecordResponse, 0, len(records))}
	for _, rec := range records {
		resp.Records = append(resp.Records, rec.ToResponse())
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

// Today handles GET /attendance/today.
func (h *Handler) Today(w http.ResponseWriter, r *http.Request) {
	id, ok := h.identity(w, r)
	if !ok {
		return
	}
	ctx, cancel := internal.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	record, err := h.Service.Today(ctx, id.UserID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	resp := TodayResponse{Date: clock.FormatDate(clock.Today(h.Service.Clock()))}
	if record != nil {
		rr := record.ToResponse()
		resp.Record = &rr
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

// ListAll handles GET /admin/attendance?start=&end=&department=.
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, end, err := ParseRange(q.Get("start"), q.Get("end"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	ctx, cancel := internal.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	records, err := h.Service.GetAllAttendance(ctx, Filter{Start: start, End: end, Department: q.Get("department")})
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	resp := RecordsWithUserResponse{Records: make([]RecordWithUserResponse, 0, len(records))}
	for _, rec := range records {
		resp.Records = append(resp.Records, rec.ToResponse())
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

// AdminCheckIn handles POST /admin/attendance/check-in.
func (h *Handler) AdminCheckIn(w http.ResponseWriter, r *http.Request) {
	var dto ManualEntryDTO
	date, at, ok := h.decodeManualEntry(w, r, &dto)
	if !ok {
		return
	}
	ctx, cancel := internal.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	if err := h.Service.RequireUser(ctx, dto.UserID); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	record, err := h.Service.CheckIn(ctx, dto.UserID, date, at)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, record.ToResponse())
}

// AdminCheckOut handles POST /admin/attendance/check-out.
func (h *Handler) AdminCheckOut(w http.ResponseWriter, r *http.Request) {
	var dto ManualEntryDTO
	date, at, ok := h.decodeManualEntry(w, r, &dto)
	if !ok {
		return
	}
	ctx, cancel := internal.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	if err := h.Service.RequireUser(ctx, dto.UserID); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.checkOut(ctx, w, dto.UserID, date, at)
}

func (h *Handler) decodeManualEntry(w http.ResponseWriter, r *http.Request, dto *ManualEntryDTO) (*time.Time, *time.Time, bool) {
	if err := h.DecodeJSON(r, dto); err != nil {
		h.HandleServiceError(w, err)
		return nil, nil, false
	}
	if err := dto.Validate(); err != nil {
		h.HandleServiceError(w, err)
		return nil, nil, false
	}
	date, at, err := dto.Resolve(h.Service.Clock())
	if err != nil {
		h.HandleServiceError(w, err)
		return nil, nil, false
	}
	return date, at, true
}
