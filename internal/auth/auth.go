package auth

import (
	"github.com/frahmantamala/org-portal/internal/core/datamodel/document"
)

// Session is the authentication state: anonymous, or authenticated as a
// copy of one account. The zero value is anonymous.
type Session struct {
	account *document.Account
}

func Anonymous() Session {
	return Session{}
}

func Authenticated(account document.Account) Session {
	return Session{account: &account}
}

func (s Session) IsAuthenticated() bool {
	return s.account != nil
}

func (s Session) IsAdmin() bool {
	return s.account != nil && s.account.IsAdmin()
}

// Account returns a copy of the signed-in account.
func (s Session) Account() (document.Account, bool) {
	if s.account == nil {
		return document.Account{}, false
	}
	return *s.account, true
}

func (s Session) Email() string {
	if s.account == nil {
		return ""
	}
	return s.account.Email
}

func (s Session) Role() string {
	if s.account == nil {
		return ""
	}
	return s.account.Role
}

// DisplayName is the navigation label: "Admin" for admins, otherwise the
// first name.
func (s Session) DisplayName() string {
	switch {
	case s.account == nil:
		return ""
	case s.account.IsAdmin():
		return "Admin"
	default:
		return s.account.FirstName
	}
}
