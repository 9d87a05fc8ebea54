// internal/api/handler/bank.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"prosperity-bank/internal/api/types"
	"prosperity-bank/internal/domain"
	"prosperity-bank/internal/service"
	"prosperity-bank/internal/util"
)

// DefaultTimeout is applied to every request by the router middleware.
const DefaultTimeout = 30 * time.Second

// BankHandler handles HTTP requests against the core services. Its only
// job is translating request shapes and error kinds; all invariants live
// in the services below.
type BankHandler struct {
	ledger     service.LedgerService
	transfers  service.TransferService
	compliance service.ComplianceService
	logger     *slog.Logger
}

// NewBankHandler creates a new BankHandler.
func NewBankHandler(ledger service.LedgerService, transfers service.TransferService, compliance service.ComplianceService, logger *slog.Logger) *BankHandler {
	return &BankHandler{
		ledger:     ledger,
		transfers:  transfers,
		compliance: compliance,
		logger:     logger,
	}
}

// Helper function to send JSON responses.
func (h *BankHandler) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// Helper function to send error responses. Every error kind maps to a
// stable, distinct message; there is no generic fallback for known kinds.
func (h *BankHandler) respondWithError(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case util.IsError(err, util.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		message = "Invalid input provided"
	case util.IsError(err, util.ErrInvalidAmount):
		statusCode = http.StatusBadRequest
		message = "Invalid amount"
	case util.IsError(err, util.ErrDuplicateIdentity):
		statusCode = http.StatusConflict
		message = "Username or email already exists"
	case util.IsError(err, util.ErrInvalidCredentials):
		statusCode = http.StatusUnauthorized
		message = "Invalid credentials"
	case util.IsError(err, util.ErrNotFound):
		statusCode = http.StatusNotFound
		message = "Resource not found"
	case util.IsError(err, util.ErrInsufficientFunds):
		statusCode = http.StatusPaymentRequired // 402 Payment Required
		message = "Insufficient funds"
	case util.IsError(err, util.ErrBusy):
		statusCode = http.StatusServiceUnavailable
		message = "Store busy, try again"
	case util.IsError(err, util.ErrCorruptStore):
		message = "Record store is corrupt"
		h.logger.Error("Corrupt store", "error", err)
	case util.IsError(err, util.ErrIOFailure):
		message = "Storage failure"
		h.logger.Error("Storage failure", "error", err)
	default:
		h.logger.Error("Unhandled service error", "error", err)
	}

	h.respondWithJSON(w, statusCode, map[string]string{"error": message})
}

func (h *BankHandler) userIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	return id, err == nil
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
}

// Register handles new user enrollment.
// POST /api/register
func (h *BankHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	profile := domain.Profile{FullName: req.FullName, Address: req.Address, Phone: req.Phone}
	user, err := h.ledger.Register(r.Context(), req.Username, req.Password, req.Email, profile)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"user":    user,
	})
}

// LoginRequest represents the request body for authentication.
type LoginRequest struct {
	Identifier string `json:"identifier"` // username or email
	Password   string `json:"password"`
}

// Login handles authentication.
// POST /api/login
func (h *BankHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	user, err := h.ledger.Authenticate(r.Context(), req.Identifier, req.Password)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user,
	})
}

// ListUsers returns all users, sanitized.
// GET /api/users
func (h *BankHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.ledger.ListUsers(r.Context())
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, users)
}

// GetUser returns one user by id, sanitized.
// GET /api/users/{userID}
func (h *BankHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userIDParam(r)
	if !ok {
		h.respondWithError(w, util.ErrNotFound)
		return
	}

	user, err := h.ledger.GetUser(r.Context(), id)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, user)
}

// UpdateProfileRequest represents the request body for profile updates.
type UpdateProfileRequest struct {
	FullName string `json:"fullName"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
}

// UpdateProfile overwrites a user's profile fields.
// PUT /api/users/{userID}/profile
func (h *BankHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userIDParam(r)
	if !ok {
		h.respondWithError(w, util.ErrNotFound)
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	user, err := h.ledger.UpdateProfile(r.Context(), id, domain.Profile{
		FullName: req.FullName,
		Address:  req.Address,
		Phone:    req.Phone,
	})
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{"success": true, "user": user})
}

// SetBalanceRequest represents the request body for balance overwrite.
type SetBalanceRequest struct {
	AccountType string          `json:"accountType"`
	NewBalance  decimal.Decimal `json:"newBalance"`
}

// SetBalance overwrites one account's balance.
// PUT /api/users/{userID}/balance
func (h *BankHandler) SetBalance(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userIDParam(r)
	if !ok {
		h.respondWithError(w, util.ErrNotFound)
		return
	}

	var req SetBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}
	if req.AccountType == "" {
		req.AccountType = domain.AccountTypeChecking
	}

	account, err := h.ledger.SetAccountBalance(r.Context(), id, req.AccountType, req.NewBalance)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"balance": account.Balance,
	})
}

// AppendTransactionRequest represents the request body for history appends.
type AppendTransactionRequest struct {
	Type        domain.TransactionType   `json:"type"`
	Amount      decimal.Decimal          `json:"amount"`
	Description string                   `json:"desc"`
	Status      domain.TransactionStatus `json:"status"`
}

// AppendTransaction appends one history entry to a user.
// POST /api/users/{userID}/transactions
func (h *BankHandler) AppendTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userIDParam(r)
	if !ok {
		h.respondWithError(w, util.ErrNotFound)
		return
	}

	var req AppendTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	tx, err := h.ledger.AppendTransaction(r.Context(), id, domain.Transaction{
		Type:        req.Type,
		Amount:      req.Amount,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusCreated, tx)
}

// TransferRequest represents the request body for transfers.
type TransferRequest struct {
	FromUserID      int64           `json:"fromUserId"`
	FromAccountType string          `json:"fromAccountType"`
	ToUserID        int64           `json:"toUserId"`
	ToAccountType   string          `json:"toAccountType"`
	Amount          decimal.Decimal `json:"amount"`
}

// Transfer moves money between two accounts atomically.
// POST /api/transfers
func (h *BankHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}
	if req.FromAccountType == "" {
		req.FromAccountType = domain.AccountTypeChecking
	}
	if req.ToAccountType == "" {
		req.ToAccountType = domain.AccountTypeChecking
	}

	result, err := h.transfers.Transfer(r.Context(), req.FromUserID, req.FromAccountType, req.ToUserID, req.ToAccountType, req.Amount)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Transfer successful",
		"result":  result,
	})
}

// SubmitVerification records a KYC submission.
// POST /api/kyc
func (h *BankHandler) SubmitVerification(w http.ResponseWriter, r *http.Request) {
	var submission domain.VerificationSubmission
	if err := json.NewDecoder(r.Body).Decode(&submission); err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	stored, err := h.compliance.SubmitVerification(r.Context(), submission)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusCreated, map[string]interface{}{"success": true, "submission": stored})
}

// LatestVerification returns the newest KYC submission for a user.
// GET /api/kyc/latest?userId=N
func (h *BankHandler) LatestVerification(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.URL.Query().Get("userId"), 10, 64)
	if err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	submission, err := h.compliance.LatestVerification(r.Context(), userID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, submission)
}

// AppendAuditRequest represents the request body for audit appends.
type AppendAuditRequest struct {
	Actor   string `json:"actor"`
	Action  string `json:"action"`
	Details string `json:"details"`
}

// AppendAudit adds an audit trail entry.
// POST /api/audit
func (h *BankHandler) AppendAudit(w http.ResponseWriter, r *http.Request) {
	var req AppendAuditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	entry, err := h.compliance.AppendAuditEntry(r.Context(), domain.AuditEntry{
		Actor:   req.Actor,
		Action:  req.Action,
		Details: req.Details,
	})
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusCreated, entry)
}

// ListAudit returns the retained audit trail, newest first.
// GET /api/audit?limit=N
func (h *BankHandler) ListAudit(w http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 0 // full retained trail
	}

	entries, err := h.compliance.ListAuditEntries(r.Context(), limit)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, types.PaginatedResponse[domain.AuditEntry]{
		Data:       entries,
		Limit:      limit,
		TotalCount: int64(len(entries)),
	})
}
