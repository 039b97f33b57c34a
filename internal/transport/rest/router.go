package rest

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/frahmantamala/intern-attendance/api"
	"github.com/frahmantamala/intern-attendance/internal/attendance"
	"github.com/frahmantamala/intern-attendance/internal/auth"
	"github.com/frahmantamala/intern-attendance/internal/department"
	"github.com/frahmantamala/intern-attendance/internal/report"
	"github.com/frahmantamala/intern-attendance/internal/transport/metrics"
	"github.com/frahmantamala/intern-attendance/internal/transport/middleware"
	"github.com/frahmantamala/intern-attendance/internal/transport/swagger"
	"github.com/frahmantamala/intern-attendance/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// Routes bundles everything the router mounts. Metrics may be nil.
type Routes struct {
	DB             *sql.DB
	DBComponent    string
	Auth           *auth.Handler
	RBAC           *auth.RBACAuthorization
	User           *user.Handler
	Attendance     *attendance.Handler
	Department     *department.Handler
	Report         *report.Handler
	Metrics        *metrics.Metrics
	MetricsPath    string
	AllowedOrigins []string
}

// RegisterAllRoutes mounts the API under /api/v1. It fails when the embedded
// OpenAPI document does not validate.
func RegisterAllRoutes(router *chi.Mux, rt Routes, logger *slog.Logger) error {
	if _, err := api.Load(context.Background()); err != nil {
		return err
	}
	healthHandler := NewHealthHandler(rt.DB, rt.DBComponent)

	router.Use(middleware.CORS(rt.AllowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.TraceID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))
	if rt.Metrics != nil {
		router.Use(rt.Metrics.Middleware)
		path := rt.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		router.Handle(path, rt.Metrics.Handler())
	}

	router.Get(swagger.SpecPath, swagger.SpecHandler)
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", rt.Auth.Login)
			sr.Post("/refresh", rt.Auth.RefreshToken)
			sr.Post("/logout", rt.Auth.Logout)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(rt.Auth.AuthMiddleware)

			pr.Get("/users/me", rt.User.GetCurrentUser)
			pr.Put("/users/me", rt.User.UpdateCurrentUser)
			pr.Put("/users/me/password", rt.User.ChangeOwnPassword)
			pr.Get("/departments", rt.Department.GetDepartments)

			// interns act for themselves
			pr.Group(func(ir chi.Router) {
				ir.Use(rt.RBAC.RequireIntern())
				ir.Route("/attendance", func(ar chi.Router) {
					ar.Get("/", rt.Attendance.ListOwn)
					ar.Get("/today", rt.Attendance.Today)
					ar.Post("/check-in", rt.Attendance.CheckIn)
					ar.Post("/check-out", rt.Attendance.CheckOut)
				})
			})

			pr.Route("/admin", func(ad chi.Router) {
				ad.Use(rt.RBAC.RequireAdmin())

				ad.Get("/attendance", rt.Attendance.ListAll)
				ad.Post("/attendance/check-in", rt.Attendance.AdminCheckIn)
				ad.Post("/attendance/check-out", rt.Attendance.AdminCheckOut)

				ad.Get("/interns", rt.User.ListInterns)
				ad.Post("/interns", rt.User.CreateIntern)
				ad.Get("/interns/export", rt.User.ExportInterns)
				ad.Put("/interns/{id}", rt.User.UpdateIntern)
				ad.Put("/interns/{id}/password", rt.User.ResetPassword)

				ad.Post("/departments", rt.Department.CreateDepartment)

				ad.Route("/reports", func(rr chi.Router) {
					rr.Get("/summary", rt.Report.GetSummary)
					rr.Get("/calendar", rt.Report.GetCalendar)
					rr.Get("/export", rt.Report.Export)
					rr.Get("/interns/{id}", rt.Report.GetInternReport)
					rr.Get("/interns/{id}/export", rt.Report.ExportIntern)
				})
			})
		})
	})
	return nil
}
