package pgsql

import (
	"time"

	portsrepo "github.com/SscSPs/ledger_txn_processor/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every repository port to the pool. Units of work wait at most
// lockTimeout for a row lock.
func NewRepositoryProvider(dbPool *pgxpool.Pool, lockTimeout time.Duration) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:       newPgxTransactionManager(dbPool, lockTimeout),
		AccountRepo:     newPgxAccountRepository(dbPool),
		TransactionRepo: newPgxTransactionRepository(dbPool),
		FraudCaseRepo:   newPgxFraudCaseRepository(dbPool),
		AuditRepo:       newPgxAuditRepository(dbPool),
	}
}
