package user

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/frahmantamala/intern-attendance/internal"
	"github.com/frahmantamala/intern-attendance/internal/export"
	"github.com/frahmantamala/intern-attendance/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Create(ctx context.Context, dto CreateUserDTO) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	List(ctx context.Context, role string) ([]*User, error)
	UpdateProfile(ctx context.Context, id int64, dto UpdateUserDTO) (*User, error)
	ChangePassword(ctx context.Context, id int64, newPassword string) error
	ChangeOwnPassword(ctx context.Context, id int64, currentPassword, newPassword string) error
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

// GetCurrentUser handles GET /users/me
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	id, ok := internal.IdentityFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.ErrInvalidToken)
		return
	}
	ctx, cancel := internal.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	u, err := h.Service.GetByID(ctx, id.UserID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, u)
}

// UpdateCurrentUser handles PUT /users/me
func (h *Handler) UpdateCurrentUser(w http.ResponseWriter, r *http.Request) {
	id, ok := internal.IdentityFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.ErrInvalidToken)
		return
	}
	h.updateProfile(w, r, id.UserID)
}

// ChangeOwnPassword handles PUT /users/me/password
func (h *Handler) ChangeOwnPassword(w http.ResponseWriter, r *http.Request) {
	id, ok := internal.IdentityFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.ErrInvalidToken)
		return
	}
	var dto ChangePasswordDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	ctx, cancel := internal.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	if err := h.Service.ChangeOwnPassword(ctx, id.UserID, dto.CurrentPassword, dto.NewPassword); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListInterns handles GET /admin/interns
func (h *Handler) ListInterns(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := internal.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	users, err := h.Service.List(ctx, internal.RoleIntern)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, UsersResponse{Users: users})
}

// CreateIntern handles POST /admin/interns. The role may be overridden to
// create further admins.
func (h *Handler) CreateIntern(w http.ResponseWriter, r *http.Request) {
	var dto CreateUserDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	ctx, cancel := internal.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	u, err := h.Service.Create(ctx, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, u)
}

// UpdateIntern handles PUT /admin/interns/{id}
func (h *Handler) UpdateIntern(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.pathID(w, r)
	if !ok {
		return
	}
	h.updateProfile(w, r, userID)
}

// ResetPassword handles PUT /admin/interns/{id}/password
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var dto ChangePasswordDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	ctx, cancel := internal.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	if err := h.Service.ChangePassword(ctx, userID, dto.NewPassword); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExportInterns handles GET /admin/interns/export?format=csv|xlsx
func (h *Handler) ExportInterns(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.HandleServiceError(w, internal.NewValidationFieldError("format", err.Error(), internal.ErrCodeValidationFailed))
		return
	}
	ctx, cancel := internal.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	users, err := h.Service.List(ctx, internal.RoleIntern)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	if err := export.Serve(w, format, "interns", InternTable(users)); err != nil {
		h.Logger.Error("ExportInterns: failed to write export", "error", err)
	}
}

// InternTable is the tabular form of the intern directory.
func InternTable(users []*User) export.Table {
	t := export.Table{
		Sheet:   "Interns",
		Headers: []string{"ID", "Username", "Name", "Email", "Department", "Created At"},
	}
	for _, u := range users {
		t.Rows = append(t.Rows, []string{
			strconv.FormatInt(u.ID, 10),
			u.Username,
			u.Name,
			u.Email,
			u.Department,
			u.CreatedAt.Format("2006-01-02"),
		})
	}
	return t
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request, userID int64) {
	var dto UpdateUserDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	ctx, cancel := internal.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	u, err := h.Service.UpdateProfile(ctx, userID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.HandleServiceError(w, internal.NewValidationFieldError("id", "id must be a positive integer", internal.ErrCodeValidationFailed))
		return 0, false
	}
	return id, true
}
