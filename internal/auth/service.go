package auth

import (
	"context"
	"log/slog"
	"strings"

	errors "github.com/frahmantamala/org-portal/internal"
	"github.com/frahmantamala/org-portal/internal/core/common/validation"
	"github.com/frahmantamala/org-portal/internal/core/datamodel/document"
	"github.com/frahmantamala/org-portal/internal/core/events"
	"github.com/frahmantamala/org-portal/internal/store"
)

// Service is the session manager. It owns the signed-in identity and the
// persisted token; account changes go through the store.
type Service struct {
	store  *store.Store
	bus    *events.EventBus
	logger *slog.Logger

	// email of the signed-in account, empty when anonymous
	email string
}

func NewService(st *store.Store, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		store:  st,
		bus:    bus,
		logger: logger,
	}
}

// Current resolves the signed-in email against the live document.
func (s *Service) Current() Session {
	if s.email == "" {
		return Anonymous()
	}
	account, ok := s.store.Document().FindAccount(s.email)
	if !ok {
		return Anonymous()
	}
	return Authenticated(*account)
}

// RestoreSession resolves the persisted token. An absent token or one that
// matches no account leaves the session anonymous.
func (s *Service) RestoreSession() Session {
	token, err := s.store.Value(store.KeySessionToken)
	if err != nil {
		s.logger.Warn("failed to read session token", "error", err)
		s.email = ""
		return Anonymous()
	}

	if _, ok := s.store.Document().FindAccount(token); token == "" || !ok {
		s.email = ""
		return Anonymous()
	}

	s.email = token
	session := s.Current()
	s.logger.Info("session restored", "email", session.Email(), "role", session.Role())
	s.publish(session)
	return session
}

// Register appends an unverified account and marks its email as pending
// verification. The new account is an admin only when an admin is the one
// registering it.
func (s *Service) Register(dto RegisterDTO) error {
	dto = dto.Normalize()
	if err := dto.Validate(); err != nil {
		return err
	}

	role := document.RoleUser
	if s.Current().IsAdmin() {
		role = document.RoleAdmin
	}

	_, err := s.store.Mutate(func(doc *document.Document) error {
		if doc.EmailTaken(dto.Email, -1) {
			return errors.ErrDuplicateEmail
		}
		if err := validation.ValidatePassword(dto.Password); err != nil {
			return err
		}
		doc.Accounts = append(doc.Accounts, document.Account{
			FirstName: dto.FirstName,
			LastName:  dto.LastName,
			Email:     dto.Email,
			Password:  dto.Password,
			Role:      role,
			Verified:  false,
		})
		return nil
	})
	if err != nil {
		s.logger.Warn("registration rejected", "email", dto.Email, "error", err)
		return err
	}

	// the account is stored; without the marker Verify needs the email
	if err := s.store.SetValue(store.KeyPendingVerification, dto.Email); err != nil {
		s.logger.Warn("failed to mark pending verification", "email", dto.Email, "error", err)
	}

	s.logger.Info("account registered", "email", dto.Email, "role", role)
	return nil
}

// PendingVerification is the email shown on the verify page.
func (s *Service) PendingVerification() string {
	email, err := s.store.Value(store.KeyPendingVerification)
	if err != nil {
		s.logger.Warn("failed to read pending verification", "error", err)
		return ""
	}
	return email
}

// Verify marks the account verified. An empty email verifies the pending
// registration.
func (s *Service) Verify(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		email = s.PendingVerification()
	}

	_, err := s.store.Mutate(func(doc *document.Document) error {
		account, ok := doc.FindAccount(email)
		if !ok {
			return errors.ErrUnknownEmail
		}
		account.Verified = true
		return nil
	})
	if err != nil {
		s.logger.Warn("verification rejected", "email", email, "error", err)
		return err
	}

	if err := s.store.ClearValue(store.KeyPendingVerification); err != nil {
		return err
	}
	if err := s.store.SetValue(store.KeyJustVerified, "true"); err != nil {
		return err
	}

	s.logger.Info("account verified", "email", email)
	return nil
}

// ConsumeJustVerified reports and clears the one-shot marker set by Verify.
func (s *Service) ConsumeJustVerified() bool {
	v, err := s.store.ConsumeValue(store.KeyJustVerified)
	if err != nil {
		s.logger.Warn("failed to consume verification marker", "error", err)
		return false
	}
	return v != ""
}

// Login succeeds only when exactly one verified account matches both email
// and password. A failed attempt leaves the session as it was.
func (s *Service) Login(dto LoginDTO) (document.Account, error) {
	email := strings.TrimSpace(dto.Email)

	var match *document.Account
	matches := 0
	doc := s.store.Document()
	for i := range doc.Accounts {
		a := &doc.Accounts[i]
		if a.Email == email && a.Password == dto.Password && a.Verified {
			match = a
			matches++
		}
	}
	if matches != 1 {
		s.logger.Warn("login failed", "email", email)
		return document.Account{}, errors.ErrInvalidCredentials
	}

	if err := s.store.SetValue(store.KeySessionToken, match.Email); err != nil {
		return document.Account{}, err
	}
	s.email = match.Email

	s.logger.Info("login succeeded", "email", match.Email, "role", match.Role)
	s.publish(s.Current())
	return *match, nil
}

// Logout always succeeds; a failure to clear the stored token is logged.
func (s *Service) Logout() {
	if err := s.store.ClearValue(store.KeySessionToken); err != nil {
		s.logger.Error("failed to clear session token", "error", err)
	}
	previous := s.email
	s.email = ""

	s.logger.Info("logged out", "email", previous)
	s.publish(Anonymous())
}

// EditProfile updates the signed-in account. Changing the email moves the
// session token along with it.
func (s *Service) EditProfile(dto ProfileDTO) error {
	current := s.Current()
	if err := RequireAuthenticated(current); err != nil {
		return err
	}

	dto = dto.Normalize()
	if err := dto.Validate(); err != nil {
		return err
	}

	oldEmail := current.Email()
	_, err := s.store.Mutate(func(doc *document.Document) error {
		idx := doc.AccountIndex(oldEmail)
		if idx < 0 {
			return errors.ErrNotAuthenticated
		}
		if doc.EmailTaken(dto.Email, idx) {
			return errors.ErrDuplicateEmail
		}
		account := &doc.Accounts[idx]
		account.FirstName = dto.FirstName
		account.LastName = dto.LastName
		account.Email = dto.Email
		return nil
	})
	if err != nil {
		s.logger.Warn("profile update rejected", "email", oldEmail, "error", err)
		return err
	}

	if err := s.Rebind(oldEmail, dto.Email); err != nil {
		return err
	}

	s.logger.Info("profile updated", "email", dto.Email)
	return nil
}

// Rebind follows an email change of the signed-in account.
func (s *Service) Rebind(oldEmail, newEmail string) error {
	if s.email == "" || s.email != oldEmail {
		return nil
	}
	if oldEmail != newEmail {
		if err := s.store.SetValue(store.KeySessionToken, newEmail); err != nil {
			return err
		}
		s.email = newEmail
	}
	s.publish(s.Current())
	return nil
}

func (s *Service) publish(session Session) {
	event := events.NewSessionChangedEvent(session.IsAuthenticated(), session.Email(), session.Role())
	if err := s.bus.Publish(context.Background(), event); err != nil {
		s.logger.Warn("session change notification failed", "error", err)
	}
}
