package auth

import (
	"strings"

	"github.com/frahmantamala/org-portal/internal/core/common/validation"
)

type RegisterDTO struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// Normalize trims names and email. Passwords are kept as typed.
func (d RegisterDTO) Normalize() RegisterDTO {
	d.FirstName = strings.TrimSpace(d.FirstName)
	d.LastName = strings.TrimSpace(d.LastName)
	d.Email = strings.TrimSpace(d.Email)
	return d
}

func (d RegisterDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("firstName", d.FirstName).Required()
	v.Field("lastName", d.LastName).Required()
	v.Field("email", d.Email).Required()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type VerifyDTO struct {
	Email string `json:"email"`
}

type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ProfileDTO struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

func (d ProfileDTO) Normalize() ProfileDTO {
	d.FirstName = strings.TrimSpace(d.FirstName)
	d.LastName = strings.TrimSpace(d.LastName)
	d.Email = strings.TrimSpace(d.Email)
	return d
}

func (d ProfileDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("firstName", d.FirstName).Required()
	v.Field("lastName", d.LastName).Required()
	v.Field("email", d.Email).Required()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// SessionView is what the presentation layer needs to render the navbar and
// the profile page.
type SessionView struct {
	Authenticated bool   `json:"authenticated"`
	DisplayName   string `json:"displayName,omitempty"`
	FirstName     string `json:"firstName,omitempty"`
	LastName      string `json:"lastName,omitempty"`
	Email         string `json:"email,omitempty"`
	Role          string `json:"role,omitempty"`
}

func NewSessionView(s Session) SessionView {
	a, ok := s.Account()
	if !ok {
		return SessionView{}
	}
	return SessionView{
		Authenticated: true,
		DisplayName:   s.DisplayName(),
		FirstName:     a.FirstName,
		LastName:      a.LastName,
		Email:         a.Email,
		Role:          a.Role,
	}
}
