// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// AppConfig holds all application-wide configurations.
type AppConfig struct {
	ServerPort     string
	DataDir        string          // directory holding the flat record files
	OpeningBalance decimal.Decimal // balance seeded into every new checking account
	LockWait       time.Duration   // how long an operation waits for the store before failing busy
	AuditLimit     int             // most recent audit entries kept; older ones are evicted
}

// LoadConfig loads configuration from environment variables.
// It returns an AppConfig instance or an error if any variable is invalid.
func LoadConfig() (*AppConfig, error) {
	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}

	openingStr := os.Getenv("OPENING_BALANCE")
	if openingStr == "" {
		openingStr = "500.00"
	}
	openingBalance, err := decimal.NewFromString(openingStr)
	if err != nil {
		return nil, fmt.Errorf("invalid OPENING_BALANCE: %w", err)
	}

	lockWaitStr := os.Getenv("LOCK_WAIT_MS")
	if lockWaitStr == "" {
		lockWaitStr = "5000"
	}
	lockWaitMS, err := strconv.Atoi(lockWaitStr)
	if err != nil {
		return nil, fmt.Errorf("invalid LOCK_WAIT_MS: %w", err)
	}

	auditLimitStr := os.Getenv("AUDIT_LIMIT")
	if auditLimitStr == "" {
		auditLimitStr = "100"
	}
	auditLimit, err := strconv.Atoi(auditLimitStr)
	if err != nil {
		return nil, fmt.Errorf("invalid AUDIT_LIMIT: %w", err)
	}

	return &AppConfig{
		ServerPort:     serverPort,
		DataDir:        dataDir,
		OpeningBalance: openingBalance,
		LockWait:       time.Duration(lockWaitMS) * time.Millisecond,
		AuditLimit:     auditLimit,
	}, nil
}
