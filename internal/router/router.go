package router

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/org-portal/internal/core/events"
)

// maxRedirects bounds the redirect chain. Guards only ever redirect to
// public pages, so real chains have length two at most.
const maxRedirects = 4

// SessionState is the part of the session the guards look at.
type SessionState interface {
	IsAuthenticated() bool
	IsAdmin() bool
}

// Markers supplies page context kept outside the document.
type Markers interface {
	PendingVerification() string
	ConsumeJustVerified() bool
}

// Resolution is the outcome of resolving one fragment.
type Resolution struct {
	Page Page
	// Redirect is set when a guard rejected Page; the router continues at
	// the redirect target and Page is not shown.
	Redirect *Page
}

// Resolve applies the guards to fragment for the given session. It has no
// side effects.
func Resolve(fragment string, session SessionState) Resolution {
	page := ParseFragment(fragment)

	switch page.Access() {
	case AccessPrivate:
		if !session.IsAuthenticated() {
			return redirect(page, PageLogin)
		}
	case AccessAdmin:
		if !session.IsAuthenticated() {
			return redirect(page, PageLogin)
		}
		if !session.IsAdmin() {
			return redirect(page, PageHome)
		}
	}
	return Resolution{Page: page}
}

func redirect(from, to Page) Resolution {
	return Resolution{Page: from, Redirect: &to}
}

// View is what the presentation layer renders after navigation.
type View struct {
	Page     string                 `json:"page"`
	Fragment string                 `json:"fragment"`
	Context  map[string]interface{} `json:"context,omitempty"`
}

// Router tracks the location and the last page it activated.
type Router struct {
	session func() SessionState
	markers Markers
	bus     *events.EventBus
	logger  *slog.Logger

	location string
	current  Page
}

func New(session func() SessionState, markers Markers, bus *events.EventBus, logger *slog.Logger) *Router {
	return &Router{
		session:  session,
		markers:  markers,
		bus:      bus,
		logger:   logger,
		location: PageHome.Fragment(),
		current:  PageHome,
	}
}

func (r *Router) Location() string {
	return r.location
}

// Current is the last page activated.
func (r *Router) Current() Page {
	return r.current
}

// Navigate moves to fragment. A guard redirect rewrites the location and
// resolves again.
func (r *Router) Navigate(fragment string) (View, error) {
	r.location = fragment
	return r.Refresh()
}

// Refresh resolves the current location again. Call it after every session
// transition, since login and logout do not necessarily change the location.
func (r *Router) Refresh() (View, error) {
	session := r.session()

	for i := 0; i <= maxRedirects; i++ {
		res := Resolve(r.location, session)
		if res.Redirect == nil {
			return r.activate(res.Page)
		}
		r.logger.Debug("route guard redirect",
			"from", res.Page.String(),
			"to", res.Redirect.String())
		r.location = res.Redirect.Fragment()
	}
	return View{}, fmt.Errorf("router: redirect loop at %s", r.location)
}

func (r *Router) activate(page Page) (View, error) {
	r.current = page
	view := View{
		Page:     page.String(),
		Fragment: page.Fragment(),
		Context:  r.pageContext(page),
	}

	event := events.NewPageActivatedEvent(view.Page, view.Fragment, view.Context)
	if err := r.bus.Publish(context.Background(), event); err != nil {
		r.logger.Warn("page activation notification failed", "page", view.Page, "error", err)
	}
	return view, nil
}

func (r *Router) pageContext(page Page) map[string]interface{} {
	if r.markers == nil {
		return nil
	}
	switch page {
	case PageVerifyEmail:
		return map[string]interface{}{"pendingEmail": r.markers.PendingVerification()}
	case PageLogin:
		return map[string]interface{}{"justVerified": r.markers.ConsumeJustVerified()}
	}
	return nil
}
