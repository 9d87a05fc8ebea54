// internal/domain/user.go
package domain

import "time"

// Profile holds a user's mutable display and contact fields.
type Profile struct {
	FullName string `json:"fullName"`
	Address  string `json:"address,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// User represents a customer record: identity plus financial state.
// Credential is a bcrypt hash of the password; it never leaves the
// process in a sanitized representation.
type User struct {
	ID           int64         `json:"id"`
	Username     string        `json:"username"`
	Email        string        `json:"email"`
	Credential   string        `json:"credential,omitempty"`
	Profile      Profile       `json:"profile"`
	Accounts     []Account     `json:"accounts"`
	Transactions []Transaction `json:"transactions"` // newest first
	LastLoginAt  *time.Time    `json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
}

// NewUser creates a new User instance. The id is assigned by the store.
func NewUser(username, email, credential string, profile Profile) *User {
	return &User{
		Username:   username,
		Email:      email,
		Credential: credential,
		Profile:    profile,
		CreatedAt:  time.Now().UTC(),
	}
}

// Sanitized returns a copy of the user with the credential cleared.
// Every externally-returned User must go through this.
func (u User) Sanitized() User {
	u.Credential = ""
	return u
}

// Account returns a pointer to the account with the given type, or nil.
// The pointer aliases the user's slice, so callers inside a store scope
// may mutate the balance through it.
func (u *User) Account(accountType string) *Account {
	for i := range u.Accounts {
		if u.Accounts[i].Type == accountType {
			return &u.Accounts[i]
		}
	}
	return nil
}

// PrependTransaction inserts tx at the head of the history (newest first).
func (u *User) PrependTransaction(tx Transaction) {
	u.Transactions = append([]Transaction{tx}, u.Transactions...)
}
