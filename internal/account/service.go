package account

import (
	"log/slog"

	errors "github.com/frahmantamala/org-portal/internal"
	"github.com/frahmantamala/org-portal/internal/auth"
	"github.com/frahmantamala/org-portal/internal/core/common/validation"
	"github.com/frahmantamala/org-portal/internal/core/datamodel/document"
	"github.com/frahmantamala/org-portal/internal/store"
)

// SessionBinder follows email changes of the signed-in account.
type SessionBinder interface {
	Rebind(oldEmail, newEmail string) error
}

type Service struct {
	store    *store.Store
	sessions SessionBinder
	logger   *slog.Logger
}

func NewService(st *store.Store, sessions SessionBinder, logger *slog.Logger) *Service {
	return &Service{
		store:    st,
		sessions: sessions,
		logger:   logger,
	}
}

func (s *Service) List(actor auth.Session) ([]document.Account, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return nil, err
	}
	return append([]document.Account{}, s.store.Document().Accounts...), nil
}

// Upsert creates an account when index is nil and edits the one at *index
// otherwise.
func (s *Service) Upsert(actor auth.Session, index *int, dto AccountDTO) (document.Account, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return document.Account{}, err
	}
	dto = dto.Normalize()
	if err := dto.Validate(index == nil); err != nil {
		return document.Account{}, err
	}

	var (
		saved    document.Account
		oldEmail string
	)
	_, err := s.store.Mutate(func(doc *document.Document) error {
		skip := -1
		if index != nil {
			if *index < 0 || *index >= len(doc.Accounts) {
				return errors.ErrRecordNotFound
			}
			skip = *index
		}
		if doc.EmailTaken(dto.Email, skip) {
			return errors.ErrDuplicateEmail
		}
		if dto.Password != "" {
			if err := validation.ValidatePassword(dto.Password); err != nil {
				return err
			}
		}

		if index == nil {
			saved = document.Account{
				FirstName: dto.FirstName,
				LastName:  dto.LastName,
				Email:     dto.Email,
				Password:  dto.Password,
				Role:      dto.Role,
				Verified:  dto.Verified,
			}
			doc.Accounts = append(doc.Accounts, saved)
			return nil
		}

		acc := &doc.Accounts[*index]
		oldEmail = acc.Email
		acc.FirstName = dto.FirstName
		acc.LastName = dto.LastName
		acc.Email = dto.Email
		acc.Role = dto.Role
		acc.Verified = dto.Verified
		if dto.Password != "" {
			acc.Password = dto.Password
		}
		saved = *acc
		return nil
	})
	if err != nil {
		s.logger.Warn("account upsert rejected", "email", dto.Email, "error", err)
		return document.Account{}, err
	}

	if oldEmail != "" && oldEmail == actor.Email() {
		if err := s.sessions.Rebind(oldEmail, saved.Email); err != nil {
			return document.Account{}, err
		}
	}

	s.logger.Info("account saved", "email", saved.Email, "role", saved.Role)
	return saved, nil
}

func (s *Service) ResetPassword(actor auth.Session, index int, password string) error {
	if err := auth.RequireAdmin(actor); err != nil {
		return err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return err
	}

	var email string
	_, err := s.store.Mutate(func(doc *document.Document) error {
		if index < 0 || index >= len(doc.Accounts) {
			return errors.ErrRecordNotFound
		}
		doc.Accounts[index].Password = password
		email = doc.Accounts[index].Email
		return nil
	})
	if err != nil {
		s.logger.Warn("password reset rejected", "index", index, "error", err)
		return err
	}

	s.logger.Info("password reset", "email", email)
	return nil
}

// Remove deletes the account at index. Admins cannot delete themselves.
// Employees and requests that reference the email are left in place.
func (s *Service) Remove(actor auth.Session, index int) error {
	if err := auth.RequireAdmin(actor); err != nil {
		return err
	}

	var email string
	_, err := s.store.Mutate(func(doc *document.Document) error {
		if index < 0 || index >= len(doc.Accounts) {
			return errors.ErrRecordNotFound
		}
		email = doc.Accounts[index].Email
		if email == actor.Email() {
			return errors.ErrSelfDeleteForbidden
		}
		doc.Accounts = append(doc.Accounts[:index], doc.Accounts[index+1:]...)
		return nil
	})
	if err != nil {
		s.logger.Warn("account remove rejected", "index", index, "error", err)
		return err
	}

	s.logger.Info("account removed", "email", email)
	return nil
}
