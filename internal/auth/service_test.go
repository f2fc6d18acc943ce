package auth_test

import (
	"context"
	goerrors "errors"
	"math/rand"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	errors "github.com/frahmantamala/org-portal/internal"
	"github.com/frahmantamala/org-portal/internal/auth"
	"github.com/frahmantamala/org-portal/internal/core/datamodel/document"
	"github.com/frahmantamala/org-portal/internal/core/events"
	"github.com/frahmantamala/org-portal/internal/store"
	"github.com/frahmantamala/org-portal/pkg/logger"
)

// keyFailingBackend rejects writes to a single key.
type keyFailingBackend struct {
	*store.MemoryBackend
	key string
}

func (b *keyFailingBackend) Set(key, value string) error {
	if key == b.key {
		return goerrors.New("quota exceeded")
	}
	return b.MemoryBackend.Set(key, value)
}

const (
	adminEmail    = "admin@example.com"
	adminPassword = "Password123!"
)

var _ = ginkgo.Describe("Session Manager", func() {
	var (
		backend *store.MemoryBackend
		bus     *events.EventBus
		st      *store.Store
		service *auth.Service
		changes []*events.SessionChangedEvent
	)

	register := func(first, last, email, password string) error {
		return service.Register(auth.RegisterDTO{FirstName: first, LastName: last, Email: email, Password: password})
	}

	ginkgo.BeforeEach(func() {
		backend = store.NewMemoryBackend()
		bus = events.NewEventBus(logger.Discard())
		st = store.New(backend, "", bus, logger.Discard())
		_, err := st.Load()
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		service = auth.NewService(st, bus, logger.Discard())

		changes = nil
		bus.Subscribe(events.EventTypeSessionChanged, func(ctx context.Context, event events.Event) error {
			changes = append(changes, event.(*events.SessionChangedEvent))
			return nil
		})
	})

	ginkgo.Describe("Register", func() {
		ginkgo.It("rejects an email that is already taken and adds nothing", func() {
			err := register("Other", "Admin", adminEmail, "abcdef")
			gomega.Expect(err).To(gomega.MatchError(errors.ErrDuplicateEmail))
			gomega.Expect(st.Document().Accounts).To(gomega.HaveLen(1))
		})

		ginkgo.It("rejects a password shorter than six characters", func() {
			err := register("Jane", "Doe", "jane@x.com", "abc")
			gomega.Expect(err).To(gomega.MatchError(errors.ErrWeakPassword))
			gomega.Expect(st.Document().Accounts).To(gomega.HaveLen(1))
		})

		ginkgo.It("counts password length in characters, not bytes", func() {
			err := register("Jane", "Doe", "jane@x.com", "ééé")
			gomega.Expect(err).To(gomega.MatchError(errors.ErrWeakPassword))
			gomega.Expect(st.Document().Accounts).To(gomega.HaveLen(1))

			gomega.Expect(register("Jane", "Doe", "jane@x.com", "éééééé")).To(gomega.Succeed())
		})

		ginkgo.It("succeeds once the account is stored even if the pending marker cannot be written", func() {
			failing := &keyFailingBackend{MemoryBackend: store.NewMemoryBackend(), key: store.KeyPendingVerification}
			st = store.New(failing, "", bus, logger.Discard())
			_, err := st.Load()
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			service = auth.NewService(st, bus, logger.Discard())

			gomega.Expect(register("Jane", "Doe", "jane@x.com", "abcdef")).To(gomega.Succeed())
			_, found := st.Document().FindAccount("jane@x.com")
			gomega.Expect(found).To(gomega.BeTrue())
			gomega.Expect(service.PendingVerification()).To(gomega.BeEmpty())
			gomega.Expect(service.Verify("jane@x.com")).To(gomega.Succeed())
		})

		ginkgo.It("reports a blank name before anything else", func() {
			err := register("  ", "Doe", adminEmail, "abc")
			appErr, ok := errors.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(errors.ErrCodeRequiredField))
		})

		ginkgo.It("keeps the first account when the same email registers twice", func() {
			gomega.Expect(register("A", "B", "a@x.com", "secret1")).To(gomega.Succeed())
			err := register("C", "D", "a@x.com", "secret2")
			gomega.Expect(err).To(gomega.MatchError(errors.ErrDuplicateEmail))

			var named []string
			for _, a := range st.Document().Accounts {
				if a.Email == "a@x.com" {
					named = append(named, a.FullName())
				}
			}
			gomega.Expect(named).To(gomega.Equal([]string{"A B"}))
		})

		ginkgo.It("never lets two accounts share an email", func() {
			rng := rand.New(rand.NewSource(ginkgo.GinkgoRandomSeed()))
			emails := []string{adminEmail, "a@x.com", "b@x.com", "c@x.com"}
			for i := 0; i < 50; i++ {
				_ = register("F", "L", emails[rng.Intn(len(emails))], "secret1")

				seen := map[string]bool{}
				for _, a := range st.Document().Accounts {
					gomega.Expect(seen[a.Email]).To(gomega.BeFalse(), "duplicate %s", a.Email)
					seen[a.Email] = true
				}
			}
			gomega.Expect(len(st.Document().Accounts)).To(gomega.BeNumerically("<=", len(emails)))
		})

		ginkgo.It("checks duplicates before password strength", func() {
			err := register("Jane", "Doe", adminEmail, "abc")
			gomega.Expect(err).To(gomega.MatchError(errors.ErrDuplicateEmail))
		})

		ginkgo.It("adds an unverified user and remembers it for verification", func() {
			gomega.Expect(register(" Jane ", "Doe", " jane@x.com ", "abcdef")).To(gomega.Succeed())

			account, ok := st.Document().FindAccount("jane@x.com")
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(account.FirstName).To(gomega.Equal("Jane"))
			gomega.Expect(account.Role).To(gomega.Equal(document.RoleUser))
			gomega.Expect(account.Verified).To(gomega.BeFalse())
			gomega.Expect(service.PendingVerification()).To(gomega.Equal("jane@x.com"))
		})

		ginkgo.It("creates admins when an admin registers the account", func() {
			_, err := service.Login(auth.LoginDTO{Email: adminEmail, Password: adminPassword})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			gomega.Expect(register("Ann", "Ops", "ann@x.com", "abcdef")).To(gomega.Succeed())
			account, _ := st.Document().FindAccount("ann@x.com")
			gomega.Expect(account.Role).To(gomega.Equal(document.RoleAdmin))
		})
	})

	ginkgo.Describe("Verify and Login", func() {
		ginkgo.BeforeEach(func() {
			gomega.Expect(register("Jane", "Doe", "jane@x.com", "abcdef")).To(gomega.Succeed())
		})

		ginkgo.It("refuses to log in before verification", func() {
			_, err := service.Login(auth.LoginDTO{Email: "jane@x.com", Password: "abcdef"})
			gomega.Expect(err).To(gomega.MatchError(errors.ErrInvalidCredentials))
			gomega.Expect(service.Current().IsAuthenticated()).To(gomega.BeFalse())
		})

		ginkgo.It("walks register, verify, login", func() {
			gomega.Expect(service.Verify("")).To(gomega.Succeed())
			gomega.Expect(service.PendingVerification()).To(gomega.BeEmpty())
			gomega.Expect(service.ConsumeJustVerified()).To(gomega.BeTrue())
			gomega.Expect(service.ConsumeJustVerified()).To(gomega.BeFalse())

			account, err := service.Login(auth.LoginDTO{Email: " jane@x.com ", Password: "abcdef"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(account.Email).To(gomega.Equal("jane@x.com"))

			session := service.Current()
			gomega.Expect(session.IsAuthenticated()).To(gomega.BeTrue())
			gomega.Expect(session.IsAdmin()).To(gomega.BeFalse())
			gomega.Expect(session.DisplayName()).To(gomega.Equal("Jane"))

			token, err := st.Value(store.KeySessionToken)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(token).To(gomega.Equal("jane@x.com"))

			gomega.Expect(changes).NotTo(gomega.BeEmpty())
			last := changes[len(changes)-1]
			gomega.Expect(last.Authenticated).To(gomega.BeTrue())
			gomega.Expect(last.Email).To(gomega.Equal("jane@x.com"))
		})

		ginkgo.It("rejects verification of an unknown email", func() {
			gomega.Expect(service.Verify("ghost@x.com")).To(gomega.MatchError(errors.ErrUnknownEmail))
			gomega.Expect(service.PendingVerification()).To(gomega.Equal("jane@x.com"))
		})

		ginkgo.DescribeTable("login only succeeds for a verified account with the right password",
			func(email, password string, succeeds bool) {
				gomega.Expect(service.Verify("jane@x.com")).To(gomega.Succeed())

				_, err := service.Login(auth.LoginDTO{Email: email, Password: password})
				if succeeds {
					gomega.Expect(err).NotTo(gomega.HaveOccurred())
					gomega.Expect(service.Current().Email()).To(gomega.Equal(email))
					return
				}
				gomega.Expect(err).To(gomega.MatchError(errors.ErrInvalidCredentials))
				gomega.Expect(service.Current().IsAuthenticated()).To(gomega.BeFalse())
			},
			ginkgo.Entry("correct credentials", "jane@x.com", "abcdef", true),
			ginkgo.Entry("wrong password", "jane@x.com", "abcdeg", false),
			ginkgo.Entry("unknown email", "john@x.com", "abcdef", false),
			ginkgo.Entry("password is case sensitive", "jane@x.com", "ABCDEF", false),
			ginkgo.Entry("seeded admin", adminEmail, adminPassword, true),
		)

		ginkgo.It("keeps the current session when a later login fails", func() {
			_, err := service.Login(auth.LoginDTO{Email: adminEmail, Password: adminPassword})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			_, err = service.Login(auth.LoginDTO{Email: adminEmail, Password: "nope"})
			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(service.Current().Email()).To(gomega.Equal(adminEmail))
		})
	})

	ginkgo.Describe("Logout and RestoreSession", func() {
		ginkgo.It("clears the token and goes anonymous", func() {
			_, err := service.Login(auth.LoginDTO{Email: adminEmail, Password: adminPassword})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			service.Logout()
			gomega.Expect(service.Current().IsAuthenticated()).To(gomega.BeFalse())
			token, _ := st.Value(store.KeySessionToken)
			gomega.Expect(token).To(gomega.BeEmpty())
			gomega.Expect(changes[len(changes)-1].Authenticated).To(gomega.BeFalse())
		})

		ginkgo.It("restores a persisted token in a new service", func() {
			_, err := service.Login(auth.LoginDTO{Email: adminEmail, Password: adminPassword})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			restarted := auth.NewService(st, bus, logger.Discard())
			gomega.Expect(restarted.Current().IsAuthenticated()).To(gomega.BeFalse())

			session := restarted.RestoreSession()
			gomega.Expect(session.IsAdmin()).To(gomega.BeTrue())
			gomega.Expect(session.DisplayName()).To(gomega.Equal("Admin"))
		})

		ginkgo.It("stays anonymous when the token matches no account", func() {
			gomega.Expect(st.SetValue(store.KeySessionToken, "gone@x.com")).To(gomega.Succeed())
			gomega.Expect(service.RestoreSession().IsAuthenticated()).To(gomega.BeFalse())
		})
	})

	ginkgo.Describe("EditProfile", func() {
		ginkgo.BeforeEach(func() {
			gomega.Expect(register("Jane", "Doe", "jane@x.com", "abcdef")).To(gomega.Succeed())
			gomega.Expect(service.Verify("jane@x.com")).To(gomega.Succeed())
		})

		ginkgo.It("requires a signed-in account", func() {
			err := service.EditProfile(auth.ProfileDTO{FirstName: "A", LastName: "B", Email: "a@x.com"})
			gomega.Expect(err).To(gomega.MatchError(errors.ErrNotAuthenticated))
		})

		ginkgo.It("rejects an email owned by another account", func() {
			_, err := service.Login(auth.LoginDTO{Email: adminEmail, Password: adminPassword})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			err = service.EditProfile(auth.ProfileDTO{FirstName: "Admin", LastName: "User", Email: "jane@x.com"})
			gomega.Expect(err).To(gomega.MatchError(errors.ErrDuplicateEmail))

			gomega.Expect(service.Current().Email()).To(gomega.Equal(adminEmail))
			_, ok := st.Document().FindAccount(adminEmail)
			gomega.Expect(ok).To(gomega.BeTrue())
		})

		ginkgo.It("moves the session along with an email change", func() {
			_, err := service.Login(auth.LoginDTO{Email: "jane@x.com", Password: "abcdef"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			err = service.EditProfile(auth.ProfileDTO{FirstName: "Janet", LastName: "Doe", Email: "janet@x.com"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			session := service.Current()
			gomega.Expect(session.Email()).To(gomega.Equal("janet@x.com"))
			gomega.Expect(session.DisplayName()).To(gomega.Equal("Janet"))
			token, _ := st.Value(store.KeySessionToken)
			gomega.Expect(token).To(gomega.Equal("janet@x.com"))
			gomega.Expect(st.Document().Accounts).To(gomega.HaveLen(2))
		})

		ginkgo.It("keeps its own email without tripping the duplicate check", func() {
			_, err := service.Login(auth.LoginDTO{Email: "jane@x.com", Password: "abcdef"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			err = service.EditProfile(auth.ProfileDTO{FirstName: "J", LastName: "D", Email: "jane@x.com"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("guards", func() {
		ginkgo.It("distinguishes anonymous callers from non-admins", func() {
			gomega.Expect(auth.RequireAdmin(auth.Anonymous())).To(gomega.MatchError(errors.ErrNotAuthenticated))
			user := auth.Authenticated(document.Account{Email: "u@x.com", Role: document.RoleUser})
			gomega.Expect(auth.RequireAdmin(user)).To(gomega.MatchError(errors.ErrAdminRequired))
			gomega.Expect(auth.RequireAuthenticated(user)).To(gomega.Succeed())
		})
	})
})
