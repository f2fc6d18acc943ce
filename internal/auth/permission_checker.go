package auth

import (
	errors "github.com/frahmantamala/org-portal/internal"
)

// RequireAuthenticated guards commands that need any signed-in account.
func RequireAuthenticated(s Session) error {
	if !s.IsAuthenticated() {
		return errors.ErrNotAuthenticated
	}
	return nil
}

// RequireAdmin guards admin-only commands. The router keeps users away from
// admin pages; commands still check in case they are called directly.
func RequireAdmin(s Session) error {
	if !s.IsAuthenticated() {
		return errors.ErrNotAuthenticated
	}
	if !s.IsAdmin() {
		return errors.ErrAdminRequired
	}
	return nil
}
