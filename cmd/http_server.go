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

	"github.com/hrplatform/employee-directory/internal"
	"github.com/hrplatform/employee-directory/internal/auth"
	authPostgres "github.com/hrplatform/employee-directory/internal/auth/postgres"
	"github.com/hrplatform/employee-directory/internal/core/events"
	"github.com/hrplatform/employee-directory/internal/directory"
	"github.com/hrplatform/employee-directory/internal/employee"
	employeePostgres "github.com/hrplatform/employee-directory/internal/employee/postgres"
	"github.com/hrplatform/employee-directory/internal/transfer"
	transferPostgres "github.com/hrplatform/employee-directory/internal/transfer/postgres"
	"github.com/hrplatform/employee-directory/internal/transport/rest"
	"github.com/hrplatform/employee-directory/pkg/logger"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
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
	DB     *sqlx.DB
	GormDB *gorm.DB
	Router *chi.Mux
	Logger *slog.Logger

	AuthHandler     *auth.Handler
	EmployeeHandler *employee.Handler
	TransferHandler *transfer.Handler
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, deps.AuthHandler, deps.EmployeeHandler, deps.TransferHandler, deps.Logger)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

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
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)
	appLogger := logger.LoggerWrapper()

	if err := validateAPISpec("./api/openapi.yml"); err != nil {
		return nil, fmt.Errorf("openapi spec invalid: %w", err)
	}

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	bus := events.NewEventBus(appLogger)
	registerEventSubscribers(bus, appLogger)

	directoryClient := directory.NewClient(config.Directory, appLogger)

	tokenGenerator := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)

	authRepo := authPostgres.NewRepository(gormDB)
	authService := auth.NewService(directoryClient, authRepo, tokenGenerator, appLogger)
	authHandler := auth.NewHandler(authService)

	employeeRepo := employeePostgres.NewEmployeeRepository(gormDB)
	employeeService := employee.NewService(employeeRepo, directoryClient, bus, config.Directory.SyncWorkers, appLogger)
	employeeHandler := employee.NewHandler(employeeService)

	transferRepo := transferPostgres.NewTransferRepository(gormDB)
	transferService := transfer.NewService(directoryClient, transferRepo, employeeService, bus, appLogger)
	transferHandler := transfer.NewHandler(transferService)

	return &Dependencies{
		Config:          config,
		Logger:          appLogger,
		DB:              db,
		GormDB:          gormDB,
		Router:          chi.NewRouter(),
		AuthHandler:     authHandler,
		EmployeeHandler: employeeHandler,
		TransferHandler: transferHandler,
	}, nil
}

// registerEventSubscribers attaches the logging subscribers that turn domain
// events into structured audit log lines.
func registerEventSubscribers(bus *events.EventBus, appLogger *slog.Logger) {
	bus.Subscribe(events.EventTypeTransferAttempted, func(ctx context.Context, event events.Event) error {
		appLogger.Info("transfer attempted",
			"event_id", event.EventID(),
			"occurred_at", event.OccurredAt(),
			"payload", event.Payload(),
		)
		return nil
	})

	bus.Subscribe(events.EventTypeDirectorySynced, func(ctx context.Context, event events.Event) error {
		appLogger.Info("directory sync completed",
			"event_id", event.EventID(),
			"occurred_at", event.OccurredAt(),
			"payload", event.Payload(),
		)
		return nil
	})
}

// validateAPISpec loads and validates the published OpenAPI document so a
// broken spec fails the boot instead of serving garbage to clients.
func validateAPISpec(path string) error {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return err
	}
	return doc.Validate(loader.Context)
}

// initDB initializes the database connection
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
