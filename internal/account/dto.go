package account

import (
	"strings"

	errors "github.com/frahmantamala/org-portal/internal"
	"github.com/frahmantamala/org-portal/internal/core/common/validation"
	"github.com/frahmantamala/org-portal/internal/core/datamodel/document"
)

type AccountDTO struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	Verified  bool   `json:"verified"`
}

func (d AccountDTO) Normalize() AccountDTO {
	d.FirstName = strings.TrimSpace(d.FirstName)
	d.LastName = strings.TrimSpace(d.LastName)
	d.Email = strings.TrimSpace(d.Email)
	d.Role = strings.TrimSpace(d.Role)
	if d.Role == "" {
		d.Role = document.RoleUser
	}
	return d
}

// Validate checks the fields that do not depend on the document. An empty
// password is allowed on edit, where it keeps the stored one.
func (d AccountDTO) Validate(creating bool) error {
	v := validation.NewValidator()
	v.Field("firstName", d.FirstName).Required()
	v.Field("lastName", d.LastName).Required()
	v.Field("email", d.Email).Required()
	v.Field("role", d.Role).OneOf(errors.ErrCodeInvalidRole, document.RoleUser, document.RoleAdmin)
	if creating {
		v.Field("password", d.Password).Required()
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type PasswordDTO struct {
	Password string `json:"password"`
}

// AccountView hides the stored password.
type AccountView struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Verified  bool   `json:"verified"`
}

func NewAccountView(a document.Account) AccountView {
	return AccountView{
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Email:     a.Email,
		Role:      a.Role,
		Verified:  a.Verified,
	}
}
