package services

import (
	portsrepo "github.com/SscSPs/ledger_txn_processor/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_txn_processor/internal/core/ports/services"
	"github.com/SscSPs/ledger_txn_processor/internal/platform/config"
	"github.com/SscSPs/ledger_txn_processor/internal/platform/metrics"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, recorder metrics.Recorder) *portssvc.ServiceContainer {
	detector := NewFraudDetector(
		repos.FraudCaseRepo,
		WithFraudThreshold(cfg.FraudAmountThreshold),
		WithFraudLookbackMonths(cfg.FraudLookbackMonths),
	)

	return &portssvc.ServiceContainer{
		Account: NewAccountService(repos.AccountRepo),
		Transaction: NewTransactionService(
			repos,
			WithFraudDetector(detector),
			WithMetrics(recorder),
			WithDestinationCrediting(cfg.CreditTransferDestination),
		),
		FraudCase: NewFraudCaseService(repos.AccountRepo, repos.FraudCaseRepo),
	}
}
