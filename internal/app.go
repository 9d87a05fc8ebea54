// internal/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	router "prosperity-bank/internal/api"
	"prosperity-bank/internal/api/handler"
	"prosperity-bank/internal/config"
	"prosperity-bank/internal/domain"
	"prosperity-bank/internal/service"
	"prosperity-bank/internal/store"
	"prosperity-bank/internal/util"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger

	// Record stores, one per flat file
	Users         *store.Store[domain.User]
	Verifications *store.Store[domain.VerificationSubmission]
	Audit         *store.Store[domain.AuditEntry]

	// Services
	Ledger     service.LedgerService
	Transfers  service.TransferService
	Compliance service.ComplianceService

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{}
}

// Initialize initializes all application components.
func (app *Application) Initialize(ctx context.Context) error {
	// 1. Initialize Logger
	util.InitLogger()
	app.Logger = util.GetLogger()

	// 2. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.Config = cfg
	app.Logger.Info("Application configuration loaded successfully.")

	// 3. Initialize record stores
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory %s: %w", cfg.DataDir, err)
	}
	app.Users = store.New[domain.User](filepath.Join(cfg.DataDir, "users.json"), cfg.LockWait, app.Logger)
	app.Verifications = store.New[domain.VerificationSubmission](filepath.Join(cfg.DataDir, "verifications.json"), cfg.LockWait, app.Logger)
	app.Audit = store.New[domain.AuditEntry](filepath.Join(cfg.DataDir, "audit.json"), cfg.LockWait, app.Logger)
	app.Logger.Info("Record stores initialized.", "dataDir", cfg.DataDir)

	// 4. Initialize Services
	app.Ledger = service.NewLedgerService(app.Users, cfg.OpeningBalance, app.Logger)
	app.Transfers = service.NewTransferService(app.Users, app.Logger)
	app.Compliance = service.NewComplianceService(app.Verifications, app.Audit, cfg.AuditLimit, app.Logger)
	app.Logger.Info("Services initialized.")

	// 5. Initialize HTTP Handlers and Router
	bankHandler := handler.NewBankHandler(app.Ledger, app.Transfers, app.Compliance, app.Logger)
	app.HTTPHandler = router.NewRouter(bankHandler, app.Logger)
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

// Shutdown gracefully shuts down application resources. The stores hold no
// open handles between scopes, so there is nothing to flush.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Application shut down gracefully.")
	return nil
}
