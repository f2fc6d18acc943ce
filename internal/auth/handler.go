package auth

import (
	"net/http"

	"github.com/frahmantamala/org-portal/internal/core/datamodel/document"
	"github.com/frahmantamala/org-portal/internal/router"
	"github.com/frahmantamala/org-portal/internal/transport"
)

type ServiceAPI interface {
	Current() Session
	Register(dto RegisterDTO) error
	Verify(email string) error
	Login(dto LoginDTO) (document.Account, error)
	Logout()
	EditProfile(dto ProfileDTO) error
}

// Navigator moves the router after a command, the way the pages chain
// register -> verify-email -> login -> profile.
type Navigator interface {
	Navigate(fragment string) (router.View, error)
	Refresh() (router.View, error)
}

type Handler struct {
	*transport.BaseHandler
	Service   ServiceAPI
	Navigator Navigator
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI, navigator Navigator) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
		Navigator:   navigator,
	}
}

// CommandResponse pairs the session after a command with the page the
// router landed on.
type CommandResponse struct {
	Session SessionView `json:"session"`
	View    router.View `json:"view"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var dto RegisterDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	if err := h.Service.Register(dto); err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.respond(w, http.StatusCreated, router.PageVerifyEmail.Fragment())
}

func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	var dto VerifyDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	if err := h.Service.Verify(dto.Email); err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.respond(w, http.StatusOK, router.PageLogin.Fragment())
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	if _, err := h.Service.Login(dto); err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.respond(w, http.StatusOK, router.PageProfile.Fragment())
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Service.Logout()
	h.respond(w, http.StatusOK, router.PageHome.Fragment())
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, NewSessionView(h.Service.Current()))
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var dto ProfileDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	if err := h.Service.EditProfile(dto); err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.respond(w, http.StatusOK, "")
}

// respond navigates to fragment, or re-resolves the current location when
// fragment is empty, and writes the resulting session and view.
func (h *Handler) respond(w http.ResponseWriter, status int, fragment string) {
	var (
		view router.View
		err  error
	)
	if fragment == "" {
		view, err = h.Navigator.Refresh()
	} else {
		view, err = h.Navigator.Navigate(fragment)
	}
	if err != nil {
		h.Logger.Error("navigation after command failed", "fragment", fragment, "error", err)
		h.WriteError(w, http.StatusInternalServerError, "navigation failed")
		return
	}
	h.WriteJSON(w, status, CommandResponse{
		Session: NewSessionView(h.Service.Current()),
		View:    view,
	})
}
