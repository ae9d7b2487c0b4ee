package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/ledger_txn_processor/internal/apperrors"
	"github.com/SscSPs/ledger_txn_processor/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_txn_processor/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_txn_processor/internal/models"
	"github.com/SscSPs/ledger_txn_processor/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const accountColumns = `account_id, balance, status, created_at, last_updated_at`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	// NUMERIC(20,4) would round silently.
	if !domain.FitsMoneyScale(account.Balance) {
		return apperrors.NewAppError(apperrors.ErrInvalidData, fmt.Sprintf("account %s balance %s exceeds the stored scale", account.AccountID, account.Balance), nil)
	}
	modelAcc := mapping.ToModelAccount(account)

	query := `
		INSERT INTO accounts (account_id, balance, status, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelAcc.AccountID,
		modelAcc.Balance,
		modelAcc.Status,
		modelAcc.CreatedAt,
		modelAcc.LastUpdatedAt,
	)
	if err != nil {
		return mapPgError(err, fmt.Sprintf("failed to save account %s", modelAcc.AccountID), apperrors.ErrInvalidData)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID without locking it.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`
	rows, err := r.Pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, mapPgError(err, fmt.Sprintf("failed to query account %s", accountID), nil)
	}
	return collectSingleAccount(rows, accountID)
}

// GetForUpdate reads the account with SELECT ... FOR UPDATE inside uow. The row lock is held
// until the database transaction ends.
func (r *PgxAccountRepository) GetForUpdate(ctx context.Context, uow portsrepo.UnitOfWork, accountID string) (*domain.Account, error) {
	tx, err := txFrom(uow)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1 FOR UPDATE;`
	rows, err := tx.Query(ctx, query, accountID)
	if err != nil {
		return nil, mapPgError(err, fmt.Sprintf("failed to lock account %s", accountID), nil)
	}
	return collectSingleAccount(rows, accountID)
}

// UpdateBalance sets the balance of an account locked in uow.
func (r *PgxAccountRepository) UpdateBalance(ctx context.Context, uow portsrepo.UnitOfWork, accountID string, newBalance decimal.Decimal) error {
	tx, err := txFrom(uow)
	if err != nil {
		return err
	}

	query := `UPDATE accounts SET balance = $2, last_updated_at = NOW() WHERE account_id = $1;`
	tag, err := tx.Exec(ctx, query, accountID, newBalance)
	if err != nil {
		return mapPgError(err, fmt.Sprintf("failed to update balance of account %s", accountID), nil)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewAppError(apperrors.ErrNotFound, fmt.Sprintf("account %s", accountID), nil)
	}
	return nil
}

// collectSingleAccount reads every returned row so that duplicates are detected rather than
// silently picking the first one.
func collectSingleAccount(rows pgx.Rows, accountID string) (*domain.Account, error) {
	defer rows.Close()

	var found []models.Account
	for rows.Next() {
		var m models.Account
		if err := rows.Scan(&m.AccountID, &m.Balance, &m.Status, &m.CreatedAt, &m.LastUpdatedAt); err != nil {
			return nil, mapPgError(err, fmt.Sprintf("failed to scan account %s", accountID), nil)
		}
		found = append(found, m)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, fmt.Sprintf("failed to read account %s", accountID), nil)
	}

	switch len(found) {
	case 0:
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, fmt.Sprintf("account %s", accountID), nil)
	case 1:
		acc := mapping.ToDomainAccount(found[0])
		return &acc, nil
	default:
		return nil, apperrors.NewAppError(apperrors.ErrDataIntegrity, fmt.Sprintf("%d rows share account id %s", len(found), accountID), nil)
	}
}
