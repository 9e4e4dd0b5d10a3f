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
	gormlogger "gorm.io/gorm/logger"

	"hsaledger/internal"
	"hsaledger/internal/auth"
	"hsaledger/internal/category"
	categoryRepo "hsaledger/internal/category/postgres"
	"hsaledger/internal/core/events"
	"hsaledger/internal/expense"
	expenseRepo "hsaledger/internal/expense/postgres"
	"hsaledger/internal/image"
	imageRepo "hsaledger/internal/image/postgres"
	"hsaledger/internal/image/storage"
	"hsaledger/internal/reimbursement"
	reimbursementRepo "hsaledger/internal/reimbursement/postgres"
	"hsaledger/internal/transport"
	"hsaledger/internal/transport/rest"
	"hsaledger/pkg/logger"
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
	Config   *internal.Config
	DB       *sqlx.DB
	Router   *chi.Mux
	Handlers rest.Handlers
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, deps.Handlers, deps.Config.Server.AllowedOrigins, deps.Logger)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
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
		deps.Logger.Info("received signal, shutting down", "signal", sig.String())
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

	logger.Init(config.Logging.Format, config.Logging.Level)
	lg := logger.L()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// GORM rides on the same pgx pool sqlx opened, so health checks and
	// repositories see the same connection limits.
	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	store, err := storage.NewDiskStore(config.Storage.ReceiptDir, config.Storage.PublicBaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize receipt storage: %w", err)
	}

	bus := events.NewEventBus(lg)
	for _, eventType := range events.MutationTypes() {
		bus.Subscribe(eventType, logMutation(lg))
	}

	expenses := expenseRepo.NewExpenseRepository(gormDB)
	categories := categoryRepo.NewCategoryRepository(gormDB)
	reimbursements := reimbursementRepo.NewReimbursementRepository(gormDB)
	images := imageRepo.NewImageRepository(gormDB)

	categoryService := category.NewService(categories, lg)
	imageService := image.NewService(images, expenses, store, bus, lg)
	expenseService := expense.NewService(expenses, categoryService, imageService, bus, lg)
	reimbursementService := reimbursement.NewService(reimbursements, bus, lg)

	base := transport.NewBaseHandler(lg)
	verifier := auth.NewJWTVerifier(config.Auth.JWTSecret, config.Auth.Issuer)

	handlers := rest.Handlers{
		Base:          base,
		Verifier:      verifier,
		Expense:       expense.NewHandler(base, expenseService),
		Category:      category.NewHandler(base, categoryService),
		Reimbursement: reimbursement.NewHandler(base, reimbursementService),
		Image:         image.NewHandler(base, imageService, config.Storage.MaxUploadMB),
		ReceiptDir:    store.Dir(),
	}

	return &Dependencies{
		Config:   config,
		Logger:   lg,
		DB:       db,
		Router:   chi.NewRouter(),
		Handlers: handlers,
	}, nil
}

// logMutation is the default bus subscriber: it records every mutation and
// the read keys it invalidates.
func logMutation(lg *slog.Logger) events.Handler {
	return func(ctx context.Context, event events.Event) error {
		lg.Debug("mutation published",
			"event_type", event.EventType(),
			"event_id", event.EventID(),
			"payload", event.Payload())
		return nil
	}
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

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
