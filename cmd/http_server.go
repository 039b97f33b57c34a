package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/intern-attendance/db/migrations"
	"github.com/frahmantamala/intern-attendance/internal"
	"github.com/frahmantamala/intern-attendance/internal/attendance"
	attendancePostgres "github.com/frahmantamala/intern-attendance/internal/attendance/postgres"
	"github.com/frahmantamala/intern-attendance/internal/auth"
	authPostgres "github.com/frahmantamala/intern-attendance/internal/auth/postgres"
	"github.com/frahmantamala/intern-attendance/internal/bootstrap"
	"github.com/frahmantamala/intern-attendance/internal/clock"
	"github.com/frahmantamala/intern-attendance/internal/core/common/database"
	"github.com/frahmantamala/intern-attendance/internal/core/events"
	"github.com/frahmantamala/intern-attendance/internal/department"
	departmentPostgres "github.com/frahmantamala/intern-attendance/internal/department/postgres"
	"github.com/frahmantamala/intern-attendance/internal/report"
	reportPostgres "github.com/frahmantamala/intern-attendance/internal/report/postgres"
	"github.com/frahmantamala/intern-attendance/internal/transport"
	"github.com/frahmantamala/intern-attendance/internal/transport/metrics"
	"github.com/frahmantamala/intern-attendance/internal/transport/rest"
	"github.com/frahmantamala/intern-attendance/internal/user"
	userPostgres "github.com/frahmantamala/intern-attendance/internal/user/postgres"
	"github.com/frahmantamala/intern-attendance/pkg/logger"

	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
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
	DB     *gorm.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr, "driver", deps.Config.Database.Driver)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		if sqlDB, err := deps.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				deps.Logger.Error("Database close error", "error", err)
			}
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func initializeDependencies(ctx context.Context) (*Dependencies, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(cfg.Observability.Logging.Format, cfg.Observability.Logging.Level)
	lg := logger.LoggerWrapper()

	db, err := openDB(ctx, cfg, lg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	loc, err := clock.Load(cfg.Attendance.Timezone)
	if err != nil {
		return nil, err
	}
	clk := clock.New(loc)

	rules, err := attendance.NewRules(cfg.Attendance.WorkStartTime, cfg.Attendance.WorkEndTime, cfg.Attendance.LateThresholdMinutes)
	if err != nil {
		return nil, fmt.Errorf("invalid attendance rules: %w", err)
	}

	bus := events.NewEventBus(lg)
	var m *metrics.Metrics
	if cfg.Observability.Metrics.Enabled {
		m = metrics.New()
		m.Subscribe(bus)
	}

	tokenGen := auth.NewJWTTokenGenerator(
		cfg.Security.JWTAccessSecret,
		cfg.Security.JWTRefreshSecret,
		cfg.Security.AccessTokenDuration,
		cfg.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authPostgres.NewRepository(db), tokenGen, cfg.Security.BCryptCost, lg)

	if cfg.Bootstrap.Enabled {
		res, err := bootstrap.NewSeeder(db, authService, lg).Seed(ctx, bootstrap.FromConfig(cfg.Bootstrap))
		if err != nil {
			return nil, fmt.Errorf("failed to seed database: %w", err)
		}
		lg.Info("bootstrap finished", "admin_created", res.AdminCreated, "departments_created", len(res.DepartmentsCreated))
	}

	userService := user.NewService(userPostgres.NewUserRepository(db), authService, bus, lg)
	attendanceService := attendance.NewService(attendancePostgres.NewAttendanceRepository(db), clk, rules, bus, lg)
	departmentService := department.NewService(departmentPostgres.NewDepartmentRepository(db), lg)
	reportRepo := reportPostgres.NewReportRepository(sqlx.NewDb(sqlDB, database.SQLDriverName(cfg.Database.Driver)))
	reportService := report.NewService(reportRepo, clk, cfg.Attendance.MaxReportDays, lg)

	base := transport.NewBaseHandler(lg)
	timeout := cfg.Server.RequestTimeout

	router := chi.NewRouter()
	routes := rest.Routes{
		DB:             sqlDB,
		DBComponent:    cfg.Database.Driver,
		Auth:           auth.NewHandler(base, authService),
		RBAC:           auth.NewRBACAuthorization(lg),
		User:           user.NewHandler(base, userService, timeout),
		Attendance:     attendance.NewHandler(base, attendanceService, timeout),
		Department:     department.NewHandler(base, departmentService, timeout),
		Report:         report.NewHandler(base, reportService, timeout),
		Metrics:        m,
		MetricsPath:    cfg.Observability.Metrics.Path,
		AllowedOrigins: cfg.Server.Origins(),
	}
	if err := rest.RegisterAllRoutes(router, routes, lg); err != nil {
		return nil, fmt.Errorf("failed to register routes: %w", err)
	}

	return &Dependencies{
		Config: cfg,
		DB:     db,
		Router: router,
		Logger: lg,
	}, nil
}

// openDB connects and, when auto_migrate is set, applies pending migrations.
func openDB(ctx context.Context, cfg *internal.Config, lg *slog.Logger) (*gorm.DB, error) {
	db, err := database.Open(cfg.Database, database.NewGormLogger(lg, cfg.Observability.Logging.Level))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if !cfg.Database.AutoMigrate {
		return db, nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if err := migrations.Up(ctx, sqlDB, cfg.Database.Driver); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}
