package rest

import (
	"net/http"

	"github.com/frahmantamala/org-portal/internal/auth"
	"github.com/frahmantamala/org-portal/internal/router"
	"github.com/frahmantamala/org-portal/internal/transport"
)

type NavigateRequest struct {
	Fragment string `json:"fragment"`
}

type PageResponse struct {
	Location string           `json:"location"`
	Session  auth.SessionView `json:"session"`
	View     router.View      `json:"view"`
}

type NavigationHandler struct {
	*transport.BaseHandler
	router  *router.Router
	session func() auth.Session
}

func NewNavigationHandler(base *transport.BaseHandler, r *router.Router, session func() auth.Session) *NavigationHandler {
	return &NavigationHandler{
		BaseHandler: base,
		router:      r,
		session:     session,
	}
}

func (h *NavigationHandler) Navigate(w http.ResponseWriter, r *http.Request) {
	var req NavigateRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}
	view, err := h.router.Navigate(req.Fragment)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.write(w, view)
}

// Page re-resolves the current location, so a page the session may no
// longer see redirects here as well.
func (h *NavigationHandler) Page(w http.ResponseWriter, r *http.Request) {
	view, err := h.router.Refresh()
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.write(w, view)
}

func (h *NavigationHandler) write(w http.ResponseWriter, view router.View) {
	h.WriteJSON(w, http.StatusOK, PageResponse{
		Location: h.router.Location(),
		Session:  auth.NewSessionView(h.session()),
		View:     view,
	})
}
