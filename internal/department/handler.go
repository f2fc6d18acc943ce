package department

import (
	"net/http"

	"github.com/frahmantamala/org-portal/internal/auth"
	"github.com/frahmantamala/org-portal/internal/core/datamodel/document"
	"github.com/frahmantamala/org-portal/internal/transport"
)

type ServiceAPI interface {
	List(actor auth.Session) ([]document.Department, error)
	Upsert(actor auth.Session, index *int, dto DepartmentDTO) (document.Department, error)
	Remove(actor auth.Session, index int) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
	Session func() auth.Session
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI, session func() auth.Session) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
		Session:     session,
	}
}

type DepartmentsResponse struct {
	Departments []document.Department `json:"departments"`
}

func (h *Handler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.Service.List(h.Session())
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, DepartmentsResponse{Departments: departments})
}

func (h *Handler) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	var dto DepartmentDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	dep, err := h.Service.Upsert(h.Session(), nil, dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, dep)
}

func (h *Handler) UpdateDepartment(w http.ResponseWriter, r *http.Request) {
	index, ok := h.IndexParam(w, r)
	if !ok {
		return
	}
	var dto DepartmentDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	dep, err := h.Service.Upsert(h.Session(), &index, dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, dep)
}

func (h *Handler) DeleteDepartment(w http.ResponseWriter, r *http.Request) {
	index, ok := h.IndexParam(w, r)
	if !ok {
		return
	}
	if err := h.Service.Remove(h.Session(), index); err != nil {
		h.WriteAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
