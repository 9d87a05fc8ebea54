// internal/domain/compliance.go
package domain

import "time"

// VerificationSubmission is an out-of-band identity verification (KYC)
// form submitted by a user. Stored as-is; review happens elsewhere.
type VerificationSubmission struct {
	ID            string    `json:"id"`
	UserID        int64     `json:"userId"`
	FullName      string    `json:"fullName"`
	DateOfBirth   string    `json:"dob,omitempty"`
	PlaceOfBirth  string    `json:"pob,omitempty"`
	SSN           string    `json:"ssn,omitempty"`
	Address       string    `json:"address,omitempty"`
	Contact       string    `json:"contact,omitempty"`
	Documents     string    `json:"documents,omitempty"`
	EmployerName  string    `json:"employerName,omitempty"`
	JobTitle      string    `json:"jobTitle,omitempty"`
	WorkAddress   string    `json:"workAddress,omitempty"`
	WorkPhone     string    `json:"workPhone,omitempty"`
	BankName      string    `json:"bankName,omitempty"`
	BankAccount   string    `json:"bankAccountNumber,omitempty"`
	TermsAccepted bool      `json:"termsAccepted"`
	ReceivedAt    time.Time `json:"receivedAt"`
}

// AuditEntry is one line of the bounded audit trail.
type AuditEntry struct {
	ID      string    `json:"id"`
	Actor   string    `json:"actor"`
	Action  string    `json:"action"`
	Details string    `json:"details,omitempty"`
	At      time.Time `json:"at"`
}
