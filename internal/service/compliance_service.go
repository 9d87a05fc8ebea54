// internal/service/compliance_service.go
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"prosperity-bank/internal/domain"
	"prosperity-bank/internal/store"
	"prosperity-bank/internal/util"
)

// ComplianceService handles the two auxiliary record collections: identity
// verification submissions and the bounded audit trail. Both follow the
// same store discipline as the user collection, each over its own file.
type ComplianceService interface {
	SubmitVerification(ctx context.Context, submission domain.VerificationSubmission) (*domain.VerificationSubmission, error)
	LatestVerification(ctx context.Context, userID int64) (*domain.VerificationSubmission, error)
	AppendAuditEntry(ctx context.Context, entry domain.AuditEntry) (*domain.AuditEntry, error)
	ListAuditEntries(ctx context.Context, limit int) ([]domain.AuditEntry, error)
}

// complianceService implements the ComplianceService interface.
type complianceService struct {
	verifications *store.Store[domain.VerificationSubmission]
	audit         *store.Store[domain.AuditEntry]
	auditLimit    int
	logger        *slog.Logger
}

// NewComplianceService creates a new instance of ComplianceService.
// auditLimit bounds the audit trail to that many most recent entries.
func NewComplianceService(
	verifications *store.Store[domain.VerificationSubmission],
	audit *store.Store[domain.AuditEntry],
	auditLimit int,
	logger *slog.Logger,
) ComplianceService {
	return &complianceService{
		verifications: verifications,
		audit:         audit,
		auditLimit:    auditLimit,
		logger:        logger,
	}
}

// SubmitVerification records an identity verification submission. The
// submission is stored as received; no review or validation happens here.
func (s *complianceService) SubmitVerification(ctx context.Context, submission domain.VerificationSubmission) (*domain.VerificationSubmission, error) {
	submission.ID = "kyc_" + uuid.NewString()
	submission.ReceivedAt = time.Now().UTC()

	err := s.verifications.Update(ctx, func(snap *store.Snapshot[domain.VerificationSubmission]) error {
		snap.Records = append(snap.Records, submission)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("submit verification: %w", err)
	}

	s.logger.Info("verification submitted", "id", submission.ID, "userID", submission.UserID)
	return &submission, nil
}

// LatestVerification returns the most recent submission for the user.
func (s *complianceService) LatestVerification(ctx context.Context, userID int64) (*domain.VerificationSubmission, error) {
	var latest *domain.VerificationSubmission
	err := s.verifications.View(ctx, func(snap store.Snapshot[domain.VerificationSubmission]) error {
		for i := len(snap.Records) - 1; i >= 0; i-- {
			if snap.Records[i].UserID == userID {
				found := snap.Records[i]
				latest = &found
				return nil
			}
		}
		return util.ErrNotFound
	})
	if err != nil {
		return nil, fmt.Errorf("latest verification for user %d: %w", userID, err)
	}
	return latest, nil
}

// AppendAuditEntry adds an entry to the trail, evicting the oldest entries
// beyond the configured bound. Entries are kept newest first.
func (s *complianceService) AppendAuditEntry(ctx context.Context, entry domain.AuditEntry) (*domain.AuditEntry, error) {
	entry.ID = "audit_" + uuid.NewString()
	entry.At = time.Now().UTC()

	err := s.audit.Update(ctx, func(snap *store.Snapshot[domain.AuditEntry]) error {
		snap.Records = append([]domain.AuditEntry{entry}, snap.Records...)
		if len(snap.Records) > s.auditLimit {
			snap.Records = snap.Records[:s.auditLimit]
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("append audit entry: %w", err)
	}
	return &entry, nil
}

// ListAuditEntries returns at most limit entries, newest first. A limit of
// zero or less means the full retained trail.
func (s *complianceService) ListAuditEntries(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	var entries []domain.AuditEntry
	err := s.audit.View(ctx, func(snap store.Snapshot[domain.AuditEntry]) error {
		n := len(snap.Records)
		if limit > 0 && limit < n {
			n = limit
		}
		entries = make([]domain.AuditEntry, n)
		copy(entries, snap.Records[:n])
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	return entries, nil
}
