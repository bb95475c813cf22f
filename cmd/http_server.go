package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anshumat/payroll-management/internal"
	"github.com/anshumat/payroll-management/internal/expense"
	expensePostgres "github.com/anshumat/payroll-management/internal/expense/postgres"
	"github.com/anshumat/payroll-management/internal/identity"
	identityPostgres "github.com/anshumat/payroll-management/internal/identity/postgres"
	"github.com/anshumat/payroll-management/internal/payroll"
	payrollPostgres "github.com/anshumat/payroll-management/internal/payroll/postgres"
	"github.com/anshumat/payroll-management/internal/report"
	transportMiddleware "github.com/anshumat/payroll-management/internal/transport/middleware"
	"github.com/anshumat/payroll-management/internal/transport/rest"
	"github.com/anshumat/payroll-management/pkg/logger"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Gorm   *gorm.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) {
	deps.Router.Use(chiMiddleware.RequestID)
	deps.Router.Use(transportMiddleware.LoggingMiddleware(deps.Logger))

	identityRepo := identityPostgres.NewUserRepository(deps.Gorm)
	tokenGen := identity.NewJWTTokenGenerator(
		deps.Config.Security.TokenSecret,
		deps.Config.Security.AccessTokenDuration,
	)
	identityService := identity.NewService(identityRepo, tokenGen, deps.Config.Security.BCryptCost, deps.Logger)
	identityHandler := identity.NewHandler(identityService)
	gate := identity.NewRoleGate(deps.Logger)

	payrollRepo := payrollPostgres.NewSlipRepository(deps.Gorm)
	payrollService := payroll.NewService(payrollRepo, identityRepo, deps.Logger)
	payrollHandler := payroll.NewHandler(payrollService)

	expenseRepo := expensePostgres.NewExpenseRepository(deps.Gorm)
	expenseService := expense.NewService(expenseRepo, deps.Logger)
	expenseHandler := expense.NewHandler(expenseService)

	reportHandler := report.NewHandler(payrollService, expenseService)

	metricsPath := ""
	if deps.Config.Observability.Metrics.Enabled {
		metricsPath = deps.Config.Observability.Metrics.Path
	}

	rest.RegisterAllRoutes(
		deps.Router,
		deps.DB.DB,
		identityHandler,
		gate,
		payrollHandler,
		expenseHandler,
		reportHandler,
		deps.Config.Server.Origins(),
		metricsPath,
		deps.Logger,
	)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(loggingEnv(config))

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	return &Dependencies{
		Config: config,
		Logger: logger.L(),
		DB:     db,
		Gorm:   gormDB,
		Router: chi.NewRouter(),
	}, nil
}

func loggingEnv(cfg *internal.Config) string {
	if cfg.Observability.Logging.Format == "json" {
		return "production"
	}
	return "development"
}

// initDB opens the raw connection used for health checks.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm opens the ORM connection the repositories run on.
func initGorm(cfg internal.DatabaseConfig) (*gorm.DB, error) {
	gormDB, err := gorm.Open(gormPostgres.Open(cfg.Source), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open orm connection: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access underlying connection: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return gormDB, nil
}
