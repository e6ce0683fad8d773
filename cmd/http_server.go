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

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/satriadw/hrm-portal/internal"
	"github.com/satriadw/hrm-portal/internal/attendance"
	"github.com/satriadw/hrm-portal/internal/dashboard"
	"github.com/satriadw/hrm-portal/internal/department"
	"github.com/satriadw/hrm-portal/internal/employee"
	"github.com/satriadw/hrm-portal/internal/face"
	"github.com/satriadw/hrm-portal/internal/hrmapi"
	"github.com/satriadw/hrm-portal/internal/leave"
	"github.com/satriadw/hrm-portal/internal/notification"
	"github.com/satriadw/hrm-portal/internal/payroll"
	"github.com/satriadw/hrm-portal/internal/portal"
	"github.com/satriadw/hrm-portal/internal/session"
	sessionpg "github.com/satriadw/hrm-portal/internal/session/postgres"
	"github.com/satriadw/hrm-portal/internal/transport/middleware"
	"github.com/satriadw/hrm-portal/internal/transport/rest"
	"github.com/satriadw/hrm-portal/internal/transport/swagger"
	"github.com/satriadw/hrm-portal/internal/user"
	"github.com/satriadw/hrm-portal/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the portal gateway and serve all screens`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config        *internal.Config
	DB            *sqlx.DB
	Router        *chi.Mux
	Store         *session.Store
	Notifications *notification.Service
	Guard         *middleware.Guard
	Handlers      rest.Handlers
	Logger        *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, deps.Guard, deps.Handlers, deps.Config.Server.AllowedOrigins, deps.Logger)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

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
		deps.Notifications.Shutdown()
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

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Format, config.Observability.Logging.Level)
	lg := logger.LoggerWrapper()

	if err := swagger.ValidateSpec("./api/openapi.yml"); err != nil {
		return nil, err
	}

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	apiClient := hrmapi.NewClient(hrmapi.Config{
		APIBaseURL:     config.Upstream.APIBaseURL,
		FaceAPIBaseURL: config.Upstream.FaceAPIBaseURL,
		PhotoBaseURL:   config.Upstream.PhotoBaseURL,
		RequestTimeout: config.Upstream.RequestTimeout,
	}, lg)

	store := session.NewStore(
		sessionpg.NewSessionRepository(gormDB),
		apiClient,
		session.NewTokenIssuer(config.Security.SessionSecret, config.Security.SessionTTL),
		session.NewCipher(config.Security.SessionSecret),
		lg,
	)
	if err := store.Initialize(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to initialize session store: %w", err)
	}

	portalService := portal.NewService(apiClient, lg)
	notificationService := notification.NewService(
		apiClient,
		notification.NewManager(config.Notifications.PollIntervalOrDefault(), lg),
		lg,
	)

	handlers := rest.Handlers{
		Session:      session.NewHandler(store, portalService.Forget, notificationService.Unsubscribe),
		Portal:       portal.NewHandler(portalService),
		Notification: notification.NewHandler(notificationService),
		Employee:     employee.NewHandler(employee.NewService(apiClient, portalService, lg)),
		User:         user.NewHandler(user.NewService(apiClient, lg)),
		Department:   department.NewHandler(department.NewService(apiClient, lg)),
		Attendance:   attendance.NewHandler(attendance.NewService(apiClient, portalService, lg)),
		Leave:        leave.NewHandler(leave.NewService(apiClient, portalService, lg)),
		Payroll:      payroll.NewHandler(payroll.NewService(apiClient, lg)),
		Dashboard:    dashboard.NewHandler(dashboard.NewService(apiClient, lg)),
		Face:         face.NewHandler(face.NewService(apiClient, lg)),
	}

	return &Dependencies{
		Config:        config,
		Logger:        lg,
		DB:            db,
		Router:        chi.NewRouter(),
		Store:         store,
		Notifications: notificationService,
		Guard:         middleware.NewGuard(store, lg),
		Handlers:      handlers,
	}, nil
}

// initDB opens the session database through the pgx stdlib driver.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
