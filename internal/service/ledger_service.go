// internal/service/ledger_service.go
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"prosperity-bank/internal/domain"
	"prosperity-bank/internal/store"
	"prosperity-bank/internal/util"
)

const welcomeCreditDescription = "New Account Welcome Credit"

// LedgerService defines per-user record operations against the user store.
// All returned users are sanitized copies; the stored credential never
// leaves this package.
type LedgerService interface {
	Register(ctx context.Context, username, password, email string, profile domain.Profile) (*domain.User, error)
	Authenticate(ctx context.Context, identifier, password string) (*domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	UpdateProfile(ctx context.Context, userID int64, profile domain.Profile) (*domain.User, error)
	SetAccountBalance(ctx context.Context, userID int64, accountType string, newBalance decimal.Decimal) (*domain.Account, error)
	AppendTransaction(ctx context.Context, userID int64, tx domain.Transaction) (*domain.Transaction, error)
}

// ledgerService implements the LedgerService interface.
type ledgerService struct {
	users          *store.Store[domain.User]
	openingBalance decimal.Decimal
	logger         *slog.Logger
}

// NewLedgerService creates a new instance of LedgerService.
func NewLedgerService(users *store.Store[domain.User], openingBalance decimal.Decimal, logger *slog.Logger) LedgerService {
	return &ledgerService{
		users:          users,
		openingBalance: openingBalance,
		logger:         logger,
	}
}

// Register creates a user with a seeded checking account and a welcome
// credit transaction. Username and email must be unique (case-sensitive
// exact match) across all users.
func (s *ledgerService) Register(ctx context.Context, username, password, email string, profile domain.Profile) (*domain.User, error) {
	if username == "" || password == "" || email == "" {
		return nil, fmt.Errorf("%w: username, password and email are required", util.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("register: failed to hash password: %w", err)
	}

	var created domain.User
	err = s.users.Update(ctx, func(snap *store.Snapshot[domain.User]) error {
		for i := range snap.Records {
			if snap.Records[i].Username == username || snap.Records[i].Email == email {
				return util.ErrDuplicateIdentity
			}
		}

		user := domain.NewUser(username, email, string(hash), profile)
		user.ID = snap.IssueID()
		user.Accounts = []domain.Account{
			domain.NewCheckingAccount("Prosperity Checking", s.openingBalance),
		}
		user.Transactions = []domain.Transaction{
			domain.NewTransaction(domain.TransactionTypeDeposit, s.openingBalance, welcomeCreditDescription),
		}

		snap.Records = append(snap.Records, *user)
		created = *user
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	s.logger.Info("user registered", "userID", created.ID, "username", created.Username)
	sanitized := created.Sanitized()
	return &sanitized, nil
}

// Authenticate verifies a claimed password against the stored hash. The
// identifier matches either username or email, exactly. On success
// LastLoginAt is updated and persisted.
func (s *ledgerService) Authenticate(ctx context.Context, identifier, password string) (*domain.User, error) {
	var authenticated domain.User
	err := s.users.Update(ctx, func(snap *store.Snapshot[domain.User]) error {
		for i := range snap.Records {
			u := &snap.Records[i]
			if u.Username != identifier && u.Email != identifier {
				continue
			}
			if bcrypt.CompareHashAndPassword([]byte(u.Credential), []byte(password)) != nil {
				return util.ErrInvalidCredentials
			}
			now := time.Now().UTC()
			u.LastLoginAt = &now
			authenticated = *u
			return nil
		}
		return util.ErrInvalidCredentials
	})
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	s.logger.Info("user authenticated", "userID", authenticated.ID)
	sanitized := authenticated.Sanitized()
	return &sanitized, nil
}

// GetUser returns the user with the given id, sanitized.
func (s *ledgerService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	var found *domain.User
	err := s.users.View(ctx, func(snap store.Snapshot[domain.User]) error {
		for i := range snap.Records {
			if snap.Records[i].ID == id {
				sanitized := snap.Records[i].Sanitized()
				found = &sanitized
				return nil
			}
		}
		return util.ErrNotFound
	})
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return found, nil
}

// ListUsers returns all users in insertion order, sanitized.
func (s *ledgerService) ListUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := s.users.View(ctx, func(snap store.Snapshot[domain.User]) error {
		users = make([]domain.User, 0, len(snap.Records))
		for i := range snap.Records {
			users = append(users, snap.Records[i].Sanitized())
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// UpdateProfile overwrites the user's profile fields.
func (s *ledgerService) UpdateProfile(ctx context.Context, userID int64, profile domain.Profile) (*domain.User, error) {
	var updated domain.User
	err := s.users.Update(ctx, func(snap *store.Snapshot[domain.User]) error {
		for i := range snap.Records {
			if snap.Records[i].ID == userID {
				snap.Records[i].Profile = profile
				updated = snap.Records[i]
				return nil
			}
		}
		return util.ErrNotFound
	})
	if err != nil {
		return nil, fmt.Errorf("update profile for user %d: %w", userID, err)
	}
	sanitized := updated.Sanitized()
	return &sanitized, nil
}

// SetAccountBalance overwrites the named account's balance unconditionally.
// No sign or magnitude validation is applied, matching the source system.
// This does not record a transaction; Transfer is the only operation that
// moves a balance and writes history together.
func (s *ledgerService) SetAccountBalance(ctx context.Context, userID int64, accountType string, newBalance decimal.Decimal) (*domain.Account, error) {
	var updated domain.Account
	err := s.users.Update(ctx, func(snap *store.Snapshot[domain.User]) error {
		for i := range snap.Records {
			if snap.Records[i].ID != userID {
				continue
			}
			account := snap.Records[i].Account(accountType)
			if account == nil {
				return util.ErrNotFound
			}
			account.Balance = newBalance
			updated = *account
			return nil
		}
		return util.ErrNotFound
	})
	if err != nil {
		return nil, fmt.Errorf("set balance for user %d account %q: %w", userID, accountType, err)
	}

	s.logger.Info("account balance set", "userID", userID, "accountType", accountType, "balance", updated.Balance)
	return &updated, nil
}

// AppendTransaction prepends tx to the user's history (newest first).
// Missing id, date or status are filled in; amounts and balances are the
// caller's responsibility.
func (s *ledgerService) AppendTransaction(ctx context.Context, userID int64, tx domain.Transaction) (*domain.Transaction, error) {
	normalized := domain.NewTransaction(tx.Type, tx.Amount, tx.Description)
	if tx.ID != "" {
		normalized.ID = tx.ID
	}
	if tx.Date != "" {
		normalized.Date = tx.Date
	}
	if tx.Status != "" {
		normalized.Status = tx.Status
	}
	normalized.CorrelationID = tx.CorrelationID

	err := s.users.Update(ctx, func(snap *store.Snapshot[domain.User]) error {
		for i := range snap.Records {
			if snap.Records[i].ID == userID {
				snap.Records[i].PrependTransaction(normalized)
				return nil
			}
		}
		return util.ErrNotFound
	})
	if err != nil {
		return nil, fmt.Errorf("append transaction for user %d: %w", userID, err)
	}
	return &normalized, nil
}
