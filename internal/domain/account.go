// internal/domain/account.go
package domain

import (
	"fmt"
	"math/rand"

	"github.com/shopspring/decimal"
)

// AccountTypeChecking is the account type seeded at registration.
// A user holds at most one account per type.
const AccountTypeChecking = "checking"

// Account is a named balance owned by exactly one user.
type Account struct {
	Type    string          `json:"type"`
	Name    string          `json:"name"`
	Number  string          `json:"number"` // masked, e.g. "****4821"
	Balance decimal.Decimal `json:"balance"`
}

// NewCheckingAccount creates the seeded checking account for a new user.
func NewCheckingAccount(name string, openingBalance decimal.Decimal) Account {
	return Account{
		Type:    AccountTypeChecking,
		Name:    name,
		Number:  fmt.Sprintf("****%d", 1000+rand.Intn(9000)),
		Balance: openingBalance,
	}
}
