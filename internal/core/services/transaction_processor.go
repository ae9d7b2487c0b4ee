package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/ledger_txn_processor/internal/apperrors"
	"github.com/SscSPs/ledger_txn_processor/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_txn_processor/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_txn_processor/internal/core/ports/services"
	"github.com/SscSPs/ledger_txn_processor/internal/platform/metrics"
	"github.com/google/uuid"
)

const resultCommitted = "COMMITTED"

// transactionService runs the transaction workflow and exposes request registration and
// outcome lookup.
type transactionService struct {
	BaseService
	txManager    portsrepo.TransactionManager
	accounts     portsrepo.AccountTransactionSupport
	transactions portsrepo.TransactionRepositoryFacade
	fraudCases   portsrepo.FraudCaseRepository
	audit        portsrepo.AuditRepository
	detector     portssvc.FraudDetector
	metrics      metrics.Recorder

	now               func() time.Time
	newID             func() string
	creditDestination bool
}

// TransactionServiceOption is a functional option for configuring the transaction service
type TransactionServiceOption func(*transactionService)

// WithClock overrides the time source used for outcome, fraud case and audit timestamps.
func WithClock(now func() time.Time) TransactionServiceOption {
	return func(s *transactionService) {
		s.now = now
	}
}

// WithIDGenerator overrides how fraud case and audit entry IDs are generated.
func WithIDGenerator(newID func() string) TransactionServiceOption {
	return func(s *transactionService) {
		s.newID = newID
	}
}

// WithFraudDetector replaces the default fraud detector.
func WithFraudDetector(detector portssvc.FraudDetector) TransactionServiceOption {
	return func(s *transactionService) {
		s.detector = detector
	}
}

// WithMetrics sets the recorder for processing results.
func WithMetrics(recorder metrics.Recorder) TransactionServiceOption {
	return func(s *transactionService) {
		if recorder != nil {
			s.metrics = recorder
		}
	}
}

// WithDestinationCrediting makes TRANSFER credit the destination account in the same unit of
// work. Off by default: a TRANSFER then only debits the source.
func WithDestinationCrediting(enabled bool) TransactionServiceOption {
	return func(s *transactionService) {
		s.creditDestination = enabled
	}
}

// NewTransactionService creates the transaction service over the given repositories.
func NewTransactionService(repos portsrepo.RepositoryProvider, options ...TransactionServiceOption) portssvc.TransactionSvcFacade {
	svc := &transactionService{
		txManager:    repos.TxManager,
		accounts:     repos.AccountRepo,
		transactions: repos.TransactionRepo,
		fraudCases:   repos.FraudCaseRepo,
		audit:        repos.AuditRepo,
		metrics:      metrics.Noop{},
		now:          func() time.Time { return time.Now().UTC() },
		newID:        uuid.NewString,
	}
	for _, option := range options {
		option(svc)
	}
	if svc.detector == nil {
		svc.detector = NewFraudDetector(repos.FraudCaseRepo)
	}
	return svc
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// ProcessTransaction applies the request identified by transactionID to the ledger. All writes
// happen in one unit of work; any error rolls back everything and is returned as is.
func (s *transactionService) ProcessTransaction(ctx context.Context, transactionID string) (outcome *domain.TransactionOutcome, err error) {
	start := time.Now()
	txnType := "UNKNOWN"
	logger := s.GetLogger(ctx).With(slog.String("transaction_id", transactionID))

	defer func() {
		result := resultCommitted
		if err != nil {
			result = apperrors.KindName(err)
			if apperrors.IsBusinessRejection(err) {
				logger.Warn("Transaction rejected", slog.String("kind", result), slog.String("error", err.Error()))
			} else {
				logger.Error("Transaction failed", slog.String("kind", result), slog.String("error", err.Error()))
			}
		}
		s.metrics.ObserveOutcome(txnType, result, time.Since(start).Seconds())
	}()

	// 1. Load the request.
	req, err := s.transactions.FindRequestByID(ctx, transactionID)
	if err != nil {
		return nil, storeError(err, fmt.Sprintf("failed to load transaction request %s", transactionID))
	}
	txnType = string(req.Type)
	if err := req.Validate(); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrInvalidData, fmt.Sprintf("transaction request %s is malformed", transactionID), err)
	}

	// 2. Open the unit of work. Rollback is a no-op once committed.
	uow, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, storeError(err, "failed to begin unit of work")
	}
	defer func() {
		if rbErr := uow.Rollback(context.WithoutCancel(ctx)); rbErr != nil {
			logger.Error("Failed to roll back unit of work", slog.String("error", rbErr.Error()))
		}
	}()

	source, dest, err := s.lockAccounts(ctx, uow, req)
	if err != nil {
		return nil, err
	}

	// A replay is a duplicate whatever the account looks like now. The source lock serializes
	// replays of the same request; InsertOutcome still enforces uniqueness.
	processed, err := s.transactions.OutcomeExists(ctx, uow, req.TransactionID)
	if err != nil {
		return nil, storeError(err, fmt.Sprintf("failed to check outcome of transaction %s", req.TransactionID))
	}
	if processed {
		return nil, apperrors.NewAppError(apperrors.ErrDuplicateTransaction,
			fmt.Sprintf("transaction %s was already processed", req.TransactionID), nil)
	}

	// 3. Status check.
	if !source.IsActive() {
		return nil, apperrors.NewAppError(apperrors.ErrAccountInactive,
			fmt.Sprintf("account %s is %s", source.AccountID, source.Status), nil)
	}
	if dest != nil && !dest.IsActive() {
		return nil, apperrors.NewAppError(apperrors.ErrAccountInactive,
			fmt.Sprintf("destination account %s is %s", dest.AccountID, dest.Status), nil)
	}

	// 4. Balance check against the locked balance.
	if req.Type.Debits() && !source.CanCover(req.Amount) {
		return nil, apperrors.NewAppError(apperrors.ErrInsufficientFunds,
			fmt.Sprintf("account %s balance %s does not cover %s", source.AccountID, source.Balance, req.Amount), nil)
	}

	now := s.now()

	// 5. Fraud evaluation.
	flagged, err := s.detector.Evaluate(ctx, uow, source.AccountID, req.Amount, now)
	if err != nil {
		return nil, storeError(err, "failed to evaluate fraud rule")
	}

	// 6. Provisional outcome.
	pending := domain.NewPendingOutcome(*req, now)
	pending.FraudFlagged = flagged
	if err := s.transactions.InsertOutcome(ctx, uow, pending); err != nil {
		return nil, storeError(err, "failed to record transaction outcome")
	}

	if err := s.applyProvisional(ctx, uow, req, source, dest, pending, now); err != nil {
		pending.Status = domain.StatusFailed
		logger.Warn("Provisional outcome discarded",
			slog.String("status", string(pending.Status)))
		return nil, err
	}

	// 10. Publish.
	if err := s.transactions.UpdateOutcomeStatus(ctx, uow, req.TransactionID, domain.StatusCommitted); err != nil {
		pending.Status = domain.StatusFailed
		return nil, storeError(err, "failed to finalize transaction outcome")
	}
	if err := uow.Commit(ctx); err != nil {
		pending.Status = domain.StatusFailed
		return nil, storeError(err, "failed to commit unit of work")
	}

	pending.Status = domain.StatusCommitted
	if flagged {
		s.metrics.IncFraudFlag()
	}
	logger.Info("Transaction committed",
		slog.String("account_id", source.AccountID),
		slog.String("type", txnType),
		slog.String("amount", req.Amount.String()),
		slog.Bool("fraud_flagged", flagged))

	return &pending, nil
}

// lockAccounts locks the source account, and the destination when it is credited. Both are
// locked in ascending ID order so concurrent opposite transfers cannot deadlock.
func (s *transactionService) lockAccounts(ctx context.Context, uow portsrepo.UnitOfWork, req *domain.TransactionRequest) (*domain.Account, *domain.Account, error) {
	if !s.creditsDestination(req) {
		source, err := s.accounts.GetForUpdate(ctx, uow, req.SourceAccountID)
		if err != nil {
			return nil, nil, storeError(err, fmt.Sprintf("failed to lock account %s", req.SourceAccountID))
		}
		return source, nil, nil
	}

	ids := []string{req.SourceAccountID, req.DestAccountID}
	if ids[1] < ids[0] {
		ids[0], ids[1] = ids[1], ids[0]
	}
	locked := make(map[string]*domain.Account, 2)
	for _, id := range ids {
		acc, err := s.accounts.GetForUpdate(ctx, uow, id)
		if err != nil {
			return nil, nil, storeError(err, fmt.Sprintf("failed to lock account %s", id))
		}
		locked[id] = acc
	}
	return locked[req.SourceAccountID], locked[req.DestAccountID], nil
}

// applyProvisional runs steps 7 to 9: balance mutation, fraud case and audit entry.
func (s *transactionService) applyProvisional(ctx context.Context, uow portsrepo.UnitOfWork, req *domain.TransactionRequest, source, dest *domain.Account, outcome domain.TransactionOutcome, now time.Time) error {
	newBalance := source.Balance.Add(req.SignedDelta())
	if err := s.accounts.UpdateBalance(ctx, uow, source.AccountID, newBalance); err != nil {
		return storeError(err, fmt.Sprintf("failed to update balance of account %s", source.AccountID))
	}
	if dest != nil {
		if err := s.accounts.UpdateBalance(ctx, uow, dest.AccountID, dest.Balance.Add(req.Amount)); err != nil {
			return storeError(err, fmt.Sprintf("failed to update balance of account %s", dest.AccountID))
		}
	}

	if outcome.FraudFlagged {
		fraudCase := domain.FraudCase{
			FraudCaseID:   s.newID(),
			AccountID:     source.AccountID,
			TransactionID: req.TransactionID,
			CaseType:      domain.FraudCaseTypePossibleFraud,
			DetectedAt:    now,
		}
		if err := s.fraudCases.InsertFraudCase(ctx, uow, fraudCase); err != nil {
			return storeError(err, "failed to record fraud case")
		}
	}

	entry := domain.AuditEntry{
		AuditID:       s.newID(),
		AccountID:     source.AccountID,
		TransactionID: req.TransactionID,
		Action:        domain.AuditAction(outcome),
		Timestamp:     now,
	}
	if err := s.audit.InsertAuditEntry(ctx, uow, entry); err != nil {
		return storeError(err, "failed to write audit entry")
	}
	return nil
}

func (s *transactionService) creditsDestination(req *domain.TransactionRequest) bool {
	return s.creditDestination && req.Type == domain.Transfer && req.DestAccountID != ""
}

// storeError keeps errors that already carry a kind and classifies the rest as persistence
// failures.
func storeError(err error, msg string) error {
	if apperrors.KindOf(err) != nil {
		return fmt.Errorf("%s: %w", msg, err)
	}
	return apperrors.NewAppError(apperrors.ErrPersistence, msg, err)
}
