package services

import (
	"context"
	"fmt"
	"log/slog"

	portsrepo "github.com/SscSPs/ledger_txn_processor/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_txn_processor/internal/core/ports/services"
	"github.com/SscSPs/ledger_txn_processor/internal/dto"
)

const defaultFraudCasePageSize = 20

type fraudCaseService struct {
	BaseService
	accountRepo   portsrepo.AccountReader
	fraudCaseRepo portsrepo.FraudCaseRepository
}

// NewFraudCaseService creates the read side over recorded fraud cases.
func NewFraudCaseService(accounts portsrepo.AccountReader, cases portsrepo.FraudCaseRepository) portssvc.FraudCaseReaderSvc {
	return &fraudCaseService{accountRepo: accounts, fraudCaseRepo: cases}
}

var _ portssvc.FraudCaseReaderSvc = (*fraudCaseService)(nil)

func (s *fraudCaseService) ListFraudCasesByAccount(ctx context.Context, accountID string, params dto.ListFraudCasesParams) (*dto.ListFraudCasesResponse, error) {
	// Unknown accounts are reported as such rather than as an empty page.
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", accountID, err)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultFraudCasePageSize
	}

	cases, nextToken, err := s.fraudCaseRepo.ListFraudCasesByAccount(ctx, accountID, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list fraud cases", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to retrieve fraud cases: %w", err)
	}

	s.LogDebug(ctx, "Fraud cases listed", slog.String("account_id", accountID), slog.Int("count", len(cases)))
	return &dto.ListFraudCasesResponse{
		FraudCases: dto.ToFraudCaseResponses(cases),
		NextToken:  nextToken,
	}, nil
}
