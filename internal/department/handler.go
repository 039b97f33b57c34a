package department

import (
	"context"
	"net/http"
	"time"

	"github.com/frahmantamala/intern-attendance/internal"
	"github.com/frahmantamala/intern-attendance/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context) ([]*Department, error)
	Create(ctx context.Context, name string) (*Department, error)
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

func (h *Handler) GetDepartments(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := internal.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	departments, err := h.Service.List(ctx)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, DepartmentsResponse{Departments: departments})
}

func (h *Handler) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	var dto CreateDepartmentDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	ctx, cancel := internal.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	d, err := h.Service.Create(ctx, dto.Name)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, d)
}
