package employee

import (
	"net/http"

	"github.com/frahmantamala/org-portal/internal/auth"
	"github.com/frahmantamala/org-portal/internal/core/datamodel/document"
	"github.com/frahmantamala/org-portal/internal/transport"
)

type ServiceAPI interface {
	List(actor auth.Session) ([]document.Employee, error)
	Upsert(actor auth.Session, index *int, dto EmployeeDTO) (document.Employee, error)
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

type EmployeesResponse struct {
	Employees []document.Employee `json:"employees"`
}

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Service.List(h.Session())
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, EmployeesResponse{Employees: employees})
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var dto EmployeeDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	emp, err := h.Service.Upsert(h.Session(), nil, dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, emp)
}

func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	index, ok := h.IndexParam(w, r)
	if !ok {
		return
	}
	var dto EmployeeDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	emp, err := h.Service.Upsert(h.Session(), &index, dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, emp)
}

func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
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
