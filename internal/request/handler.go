package request

import (
	"net/http"

	"github.com/frahmantamala/org-portal/internal/auth"
	"github.com/frahmantamala/org-portal/internal/core/datamodel/document"
	"github.com/frahmantamala/org-portal/internal/transport"
)

type ServiceAPI interface {
	List(actor auth.Session) ([]document.Request, error)
	Create(actor auth.Session, dto RequestDTO) (document.Request, error)
	Upsert(actor auth.Session, index *int, dto RequestDTO) (document.Request, error)
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

type RequestsResponse struct {
	Requests []document.Request `json:"requests"`
}

// ListRequests returns only the caller's requests; there is no admin view.
func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.Service.List(h.Session())
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, RequestsResponse{Requests: requests})
}

func (h *Handler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var dto RequestDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	req, err := h.Service.Create(h.Session(), dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, req)
}

func (h *Handler) UpdateRequest(w http.ResponseWriter, r *http.Request) {
	index, ok := h.IndexParam(w, r)
	if !ok {
		return
	}
	var dto RequestDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	req, err := h.Service.Upsert(h.Session(), &index, dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, req)
}

func (h *Handler) DeleteRequest(w http.ResponseWriter, r *http.Request) {
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
