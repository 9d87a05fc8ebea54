// internal/service/transfer_service.go
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"prosperity-bank/internal/domain"
	"prosperity-bank/internal/store"
	"prosperity-bank/internal/util"
)

// TransferResult reports a completed transfer: the correlation id shared
// by the two history entries and both post-transfer balances.
type TransferResult struct {
	CorrelationID string          `json:"correlationId"`
	Timestamp     time.Time       `json:"timestamp"`
	FromBalance   decimal.Decimal `json:"fromBalance"`
	ToBalance     decimal.Decimal `json:"toBalance"`
}

// TransferService composes a debit and a credit into one atomic unit.
type TransferService interface {
	Transfer(ctx context.Context, fromUserID int64, fromAccountType string, toUserID int64, toAccountType string, amount decimal.Decimal) (*TransferResult, error)
}

// transferService implements the TransferService interface.
type transferService struct {
	users  *store.Store[domain.User]
	logger *slog.Logger
}

// NewTransferService creates a new instance of TransferService.
func NewTransferService(users *store.Store[domain.User], logger *slog.Logger) TransferService {
	return &transferService{users: users, logger: logger}
}

// Transfer debits the source account, credits the destination account and
// appends a history entry to both users, all inside one store scope. Either
// all four effects are persisted or none: the snapshot is written once,
// after every mutation has succeeded in memory.
func (s *transferService) Transfer(ctx context.Context, fromUserID int64, fromAccountType string, toUserID int64, toAccountType string, amount decimal.Decimal) (*TransferResult, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("transfer: %w: amount must be positive", util.ErrInvalidAmount)
	}
	if fromUserID == toUserID && fromAccountType == toAccountType {
		return nil, fmt.Errorf("transfer: %w: source and destination are the same account", util.ErrInvalidAmount)
	}

	result := &TransferResult{
		CorrelationID: uuid.NewString(),
		Timestamp:     time.Now().UTC(),
	}

	err := s.users.Update(ctx, func(snap *store.Snapshot[domain.User]) error {
		fromUser := findUser(snap, fromUserID)
		toUser := findUser(snap, toUserID)
		if fromUser == nil || toUser == nil {
			return util.ErrNotFound
		}

		fromAccount := fromUser.Account(fromAccountType)
		toAccount := toUser.Account(toAccountType)
		if fromAccount == nil || toAccount == nil {
			return util.ErrNotFound
		}

		if fromAccount.Balance.LessThan(amount) {
			return util.ErrInsufficientFunds
		}

		fromAccount.Balance = fromAccount.Balance.Sub(amount)
		toAccount.Balance = toAccount.Balance.Add(amount)

		date := result.Timestamp.Format("2006-01-02")

		debit := domain.NewTransaction(domain.TransactionTypeTransfer, amount.Neg(),
			fmt.Sprintf("Transfer to %s", toUser.Username))
		debit.Date = date
		debit.CorrelationID = result.CorrelationID
		fromUser.PrependTransaction(debit)

		credit := domain.NewTransaction(domain.TransactionTypeTransfer, amount,
			fmt.Sprintf("Transfer from %s", fromUser.Username))
		credit.Date = date
		credit.CorrelationID = result.CorrelationID
		toUser.PrependTransaction(credit)

		result.FromBalance = fromAccount.Balance
		result.ToBalance = toAccount.Balance
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("transfer: %w", err)
	}

	s.logger.Info("transfer completed",
		"correlationId", result.CorrelationID,
		"fromUserID", fromUserID,
		"toUserID", toUserID,
		"amount", amount)
	return result, nil
}

// findUser returns a pointer into the snapshot's records, so mutations
// through it are persisted when the scope commits.
func findUser(snap *store.Snapshot[domain.User], id int64) *domain.User {
	for i := range snap.Records {
		if snap.Records[i].ID == id {
			return &snap.Records[i]
		}
	}
	return nil
}
