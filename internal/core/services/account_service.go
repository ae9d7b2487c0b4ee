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
	"github.com/SscSPs/ledger_txn_processor/internal/dto"
	"github.com/google/uuid"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new account service.
func NewAccountService(repo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: repo}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	if req.OpeningBalance.IsNegative() {
		return nil, apperrors.NewAppError(apperrors.ErrInvalidData, "opening balance cannot be negative", nil)
	}
	if !domain.FitsMoneyScale(req.OpeningBalance) {
		return nil, apperrors.NewAppError(apperrors.ErrInvalidData,
			fmt.Sprintf("opening balance %s has more than %d decimal places", req.OpeningBalance, domain.MoneyScale), nil)
	}

	status := req.Status
	if status == "" {
		status = domain.AccountActive
	}
	if !status.IsValid() {
		return nil, apperrors.NewAppError(apperrors.ErrInvalidData, fmt.Sprintf("unknown account status %q", status), nil)
	}

	accountID := req.AccountID
	if accountID == "" {
		accountID = uuid.NewString()
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID: accountID,
		Balance:   req.OpeningBalance,
		Status:    status,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	s.LogInfo(ctx, "Account created",
		slog.String("account_id", accountID),
		slog.String("status", string(status)))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", accountID, err)
	}
	return account, nil
}
