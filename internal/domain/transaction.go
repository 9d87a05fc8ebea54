// internal/domain/transaction.go
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType defines the type of a financial transaction.
type TransactionType string

const (
	TransactionTypeDeposit  TransactionType = "Deposit"
	TransactionTypeTransfer TransactionType = "Transfer"
	TransactionTypePayment  TransactionType = "Payment"
)

// TransactionStatus defines the status of a financial transaction.
type TransactionStatus string

const (
	TransactionStatusSuccess TransactionStatus = "status-success"
	TransactionStatusPending TransactionStatus = "status-pending"
	TransactionStatusFailed  TransactionStatus = "status-failed"
)

// Transaction is one immutable entry in a user's history.
// Amount is signed: negative means a debit. A transfer produces two
// entries, one per endpoint, sharing a CorrelationID.
type Transaction struct {
	ID            string            `json:"id"`
	Date          string            `json:"date"` // calendar date, YYYY-MM-DD
	Type          TransactionType   `json:"type"`
	Amount        decimal.Decimal   `json:"amount"`
	Description   string            `json:"desc"`
	Status        TransactionStatus `json:"status"`
	CorrelationID string            `json:"correlationId,omitempty"`
}

// NewTransaction creates a new Transaction instance dated now.
func NewTransaction(txType TransactionType, amount decimal.Decimal, description string) Transaction {
	return Transaction{
		ID:          "tx_" + uuid.NewString(),
		Date:        time.Now().UTC().Format("2006-01-02"),
		Type:        txType,
		Amount:      amount,
		Description: description,
		Status:      TransactionStatusSuccess,
	}
}
