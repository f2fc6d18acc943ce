package account

import (
	"net/http"

	"github.com/frahmantamala/org-portal/internal/auth"
	"github.com/frahmantamala/org-portal/internal/core/datamodel/document"
	"github.com/frahmantamala/org-portal/internal/transport"
)

type ServiceAPI interface {
	List(actor auth.Session) ([]document.Account, error)
	Upsert(actor auth.Session, index *int, dto AccountDTO) (document.Account, error)
	ResetPassword(actor auth.Session, index int, password string) error
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

type AccountsResponse struct {
	Accounts []AccountView `json:"accounts"`
}

func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.Service.List(h.Session())
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	views := make([]AccountView, len(accounts))
	for i, a := range accounts {
		views[i] = NewAccountView(a)
	}
	h.WriteJSON(w, http.StatusOK, AccountsResponse{Accounts: views})
}

func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var dto AccountDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	acc, err := h.Service.Upsert(h.Session(), nil, dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, NewAccountView(acc))
}

func (h *Handler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	index, ok := h.IndexParam(w, r)
	if !ok {
		return
	}
	var dto AccountDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	acc, err := h.Service.Upsert(h.Session(), &index, dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, NewAccountView(acc))
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	index, ok := h.IndexParam(w, r)
	if !ok {
		return
	}
	var dto PasswordDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	if err := h.Service.ResetPassword(h.Session(), index, dto.Password); err != nil {
		h.WriteAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
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
