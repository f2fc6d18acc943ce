package rest

import (
	"log/slog"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/frahmantamala/org-portal/internal/account"
	"github.com/frahmantamala/org-portal/internal/auth"
	"github.com/frahmantamala/org-portal/internal/department"
	"github.com/frahmantamala/org-portal/internal/employee"
	"github.com/frahmantamala/org-portal/internal/request"
	"github.com/frahmantamala/org-portal/internal/transport"
	"github.com/frahmantamala/org-portal/internal/transport/middleware"
)

// Handlers groups everything mounted under /api/v1.
type Handlers struct {
	Base       *transport.BaseHandler
	Session    func() auth.Session
	Health     *HealthHandler
	Navigation *NavigationHandler
	Auth       *auth.Handler
	Account    *account.Handler
	Department *department.Handler
	Employee   *employee.Handler
	Request    *request.Handler
}

func RegisterAllRoutes(router chi.Router, h Handlers, logger *slog.Logger) {
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.Health.healthCheckHandler)
		r.Get("/ping", h.Health.pingHandler)

		// everything below reads or changes the single session
		r.Group(func(sr chi.Router) {
			sr.Use(middleware.Serialize())
			sr.Use(middleware.SessionContext(h.Session))

			sr.Post("/navigate", h.Navigation.Navigate)
			sr.Get("/page", h.Navigation.Page)

			sr.Route("/auth", func(ar chi.Router) {
				ar.Post("/register", h.Auth.Register)
				ar.Post("/verify", h.Auth.Verify)
				ar.Post("/login", h.Auth.Login)
				ar.Post("/logout", h.Auth.Logout)
				ar.Get("/profile", h.Auth.GetProfile)
				ar.Put("/profile", h.Auth.UpdateProfile)
			})

			sr.Group(func(pr chi.Router) {
				pr.Use(middleware.RequireAuthenticated(h.Base, h.Session))
				pr.Route("/requests", func(rr chi.Router) {
					rr.Get("/", h.Request.ListRequests)
					rr.Post("/", h.Request.CreateRequest)
					rr.Put("/{index}", h.Request.UpdateRequest)
					rr.Delete("/{index}", h.Request.DeleteRequest)
				})
			})

			sr.Group(func(adm chi.Router) {
				adm.Use(middleware.RequireAdmin(h.Base, h.Session))

				adm.Route("/accounts", func(ar chi.Router) {
					ar.Get("/", h.Account.ListAccounts)
					ar.Post("/", h.Account.CreateAccount)
					ar.Put("/{index}", h.Account.UpdateAccount)
					ar.Delete("/{index}", h.Account.DeleteAccount)
					ar.Post("/{index}/password", h.Account.ResetPassword)
				})

				adm.Route("/departments", func(dr chi.Router) {
					dr.Get("/", h.Department.ListDepartments)
					dr.Post("/", h.Department.CreateDepartment)
					dr.Put("/{index}", h.Department.UpdateDepartment)
					dr.Delete("/{index}", h.Department.DeleteDepartment)
				})

				adm.Route("/employees", func(er chi.Router) {
					er.Get("/", h.Employee.ListEmployees)
					er.Post("/", h.Employee.CreateEmployee)
					er.Put("/{index}", h.Employee.UpdateEmployee)
					er.Delete("/{index}", h.Employee.DeleteEmployee)
				})
			})
		})
	})
}
