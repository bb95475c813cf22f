package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/anshumat/payroll-management/internal/expense"
	"github.com/anshumat/payroll-management/internal/identity"
	"github.com/anshumat/payroll-management/internal/payroll"
	"github.com/anshumat/payroll-management/internal/report"
	"github.com/anshumat/payroll-management/internal/transport/middleware"
	"github.com/anshumat/payroll-management/internal/transport/swagger"
	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterAllRoutes mounts the payroll API at the root paths the dashboard
// consumes.
func RegisterAllRoutes(
	router *chi.Mux,
	db *sql.DB,
	identityHandler *identity.Handler,
	gate *identity.RoleGate,
	payrollHandler *payroll.Handler,
	expenseHandler *expense.Handler,
	reportHandler *report.Handler,
	allowedOrigins []string,
	metricsPath string,
	logger *slog.Logger,
) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(middleware.NewCORS(allowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.MetricsMiddleware)

	// Serve OpenAPI spec at root
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	// Operational endpoints
	router.Get("/health", healthHandler.healthCheckHandler)
	router.Get("/ping", healthHandler.pingHandler)
	if metricsPath != "" {
		router.Handle(metricsPath, promhttp.Handler())
	}

	// Auth routes (no credential required)
	router.Route("/auth", func(ar chi.Router) {
		ar.Post("/signup", identityHandler.Signup)
		ar.Post("/login", identityHandler.Login)
	})

	// Protected routes that require a bearer credential
	router.Group(func(pr chi.Router) {
		pr.Use(identityHandler.AuthMiddleware)

		pr.Get("/auth/me", identityHandler.Me)

		// Admin directory
		pr.Group(func(admin chi.Router) {
			admin.Use(gate.RequireAdmin())
			admin.Get("/users", identityHandler.ListUsers)
		})

		// Salary ledger
		pr.Get("/salary-slip", payrollHandler.ListSlips)
		pr.Group(func(admin chi.Router) {
			admin.Use(gate.RequireAdmin())
			admin.Post("/salary-slip", payrollHandler.CreateSlip)
			admin.Put("/salary-slip/{id}", payrollHandler.UpdateSlip)
			admin.Get("/salary-slip-all", payrollHandler.ListAllSlips)
		})

		// Expense ledger
		pr.Post("/expense", expenseHandler.SubmitExpense)
		pr.Get("/expense", expenseHandler.ListOwnExpenses)
		pr.Group(func(admin chi.Router) {
			admin.Use(gate.RequireAdmin())
			admin.Get("/expenses-all", expenseHandler.ListAllExpenses)
			admin.Put("/expense/{id}/status", expenseHandler.DecideExpense)
		})

		// Reporting views
		pr.Get("/reports/salary", reportHandler.SalaryReport)
		pr.Get("/reports/expense", reportHandler.ExpenseReport)
	})
}
