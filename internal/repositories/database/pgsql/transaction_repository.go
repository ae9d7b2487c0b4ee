package pgsql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/SscSPs/ledger_txn_processor/internal/apperrors"
	"github.com/SscSPs/ledger_txn_processor/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_txn_processor/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_txn_processor/internal/models"
	"github.com/SscSPs/ledger_txn_processor/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for transaction requests and outcomes.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxTransactionRepository implements portsrepo.TransactionRepositoryFacade
var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// SaveRequest stores a new pending request.
func (r *PgxTransactionRepository) SaveRequest(ctx context.Context, req domain.TransactionRequest) error {
	if !domain.FitsMoneyScale(req.Amount) {
		return apperrors.NewAppError(apperrors.ErrInvalidData, fmt.Sprintf("transaction request %s amount %s exceeds the stored scale", req.TransactionID, req.Amount), nil)
	}
	m := mapping.ToModelTransactionRequest(req)
	query := `
		INSERT INTO transaction_requests (transaction_id, source_account_id, dest_account_id, transaction_type, amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.TransactionID,
		m.SourceAccountID,
		nullableString(m.DestAccountID),
		m.TransactionType,
		m.Amount,
		m.CreatedAt,
	)
	if err != nil {
		return mapPgError(err, fmt.Sprintf("failed to save transaction request %s", m.TransactionID), apperrors.ErrDuplicateTransaction)
	}
	return nil
}

// FindRequestByID loads a request. All matching rows are read so duplicates surface as
// ErrDataIntegrity.
func (r *PgxTransactionRepository) FindRequestByID(ctx context.Context, transactionID string) (*domain.TransactionRequest, error) {
	query := `
		SELECT transaction_id, source_account_id, dest_account_id, transaction_type, amount, created_at
		FROM transaction_requests
		WHERE transaction_id = $1;
	`
	rows, err := r.Pool.Query(ctx, query, transactionID)
	if err != nil {
		return nil, mapPgError(err, fmt.Sprintf("failed to query transaction request %s", transactionID), nil)
	}
	defer rows.Close()

	var found []models.TransactionRequest
	for rows.Next() {
		var m models.TransactionRequest
		var dest sql.NullString
		if err := rows.Scan(&m.TransactionID, &m.SourceAccountID, &dest, &m.TransactionType, &m.Amount, &m.CreatedAt); err != nil {
			return nil, mapPgError(err, fmt.Sprintf("failed to scan transaction request %s", transactionID), nil)
		}
		m.DestAccountID = dest.String
		found = append(found, m)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, fmt.Sprintf("failed to read transaction request %s", transactionID), nil)
	}

	switch len(found) {
	case 0:
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, fmt.Sprintf("transaction request %s", transactionID), nil)
	case 1:
		req := mapping.ToDomainTransactionRequest(found[0])
		return &req, nil
	default:
		return nil, apperrors.NewAppError(apperrors.ErrDataIntegrity, fmt.Sprintf("%d rows share transaction id %s", len(found), transactionID), nil)
	}
}

// InsertOutcome writes the provisional outcome inside uow.
func (r *PgxTransactionRepository) InsertOutcome(ctx context.Context, uow portsrepo.UnitOfWork, outcome domain.TransactionOutcome) error {
	tx, err := txFrom(uow)
	if err != nil {
		return err
	}

	m := mapping.ToModelTransaction(outcome)
	query := `
		INSERT INTO transactions (transaction_id, account_id, dest_account_id, transaction_type, amount, processed_at, status, fraud_flagged)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err = tx.Exec(ctx, query,
		m.TransactionID,
		m.AccountID,
		nullableString(m.DestAccountID),
		m.TransactionType,
		m.Amount,
		m.Timestamp,
		m.Status,
		m.FraudFlagged,
	)
	if err != nil {
		return mapPgError(err, fmt.Sprintf("failed to insert outcome of transaction %s", m.TransactionID), apperrors.ErrDuplicateTransaction)
	}
	return nil
}

// OutcomeExists checks for an outcome row visible to uow: committed by others or written in uow.
func (r *PgxTransactionRepository) OutcomeExists(ctx context.Context, uow portsrepo.UnitOfWork, transactionID string) (bool, error) {
	tx, err := txFrom(uow)
	if err != nil {
		return false, err
	}

	var exists bool
	err = tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM transactions WHERE transaction_id = $1);`, transactionID).Scan(&exists)
	if err != nil {
		return false, mapPgError(err, fmt.Sprintf("failed to check outcome of transaction %s", transactionID), nil)
	}
	return exists, nil
}

// UpdateOutcomeStatus moves an outcome written in uow to status. Terminal outcomes are final.
func (r *PgxTransactionRepository) UpdateOutcomeStatus(ctx context.Context, uow portsrepo.UnitOfWork, transactionID string, status domain.TransactionStatus) error {
	tx, err := txFrom(uow)
	if err != nil {
		return err
	}

	var stored string
	err = tx.QueryRow(ctx, `SELECT status FROM transactions WHERE transaction_id = $1 FOR UPDATE;`, transactionID).Scan(&stored)
	if err != nil {
		if isNoRows(err) {
			return apperrors.NewAppError(apperrors.ErrNotFound, fmt.Sprintf("transaction %s has no outcome", transactionID), nil)
		}
		return mapPgError(err, fmt.Sprintf("failed to read status of transaction %s", transactionID), nil)
	}
	if current := domain.TransactionStatus(stored); current.IsTerminal() {
		return apperrors.NewAppError(apperrors.ErrDataIntegrity,
			fmt.Sprintf("transaction %s is already %s", transactionID, current), nil)
	}

	if _, err := tx.Exec(ctx, `UPDATE transactions SET status = $2 WHERE transaction_id = $1;`, transactionID, status); err != nil {
		return mapPgError(err, fmt.Sprintf("failed to update status of transaction %s", transactionID), nil)
	}
	return nil
}

// FindOutcomeByID loads a committed outcome.
func (r *PgxTransactionRepository) FindOutcomeByID(ctx context.Context, transactionID string) (*domain.TransactionOutcome, error) {
	query := `
		SELECT transaction_id, account_id, dest_account_id, transaction_type, amount, processed_at, status, fraud_flagged
		FROM transactions
		WHERE transaction_id = $1;
	`
	var m models.Transaction
	var dest sql.NullString
	err := r.Pool.QueryRow(ctx, query, transactionID).Scan(
		&m.TransactionID, &m.AccountID, &dest, &m.TransactionType, &m.Amount, &m.Timestamp, &m.Status, &m.FraudFlagged,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NewAppError(apperrors.ErrNotFound, fmt.Sprintf("transaction %s", transactionID), nil)
		}
		return nil, mapPgError(err, fmt.Sprintf("failed to query transaction %s", transactionID), nil)
	}
	m.DestAccountID = dest.String

	outcome := mapping.ToDomainTransaction(m)
	return &outcome, nil
}
