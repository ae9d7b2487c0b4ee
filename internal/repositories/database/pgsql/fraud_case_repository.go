package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/SscSPs/ledger_txn_processor/internal/apperrors"
	"github.com/SscSPs/ledger_txn_processor/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_txn_processor/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_txn_processor/internal/models"
	"github.com/SscSPs/ledger_txn_processor/internal/utils/mapping"
	"github.com/SscSPs/ledger_txn_processor/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxFraudCaseRepository struct {
	BaseRepository
}

func newPgxFraudCaseRepository(pool *pgxpool.Pool) portsrepo.FraudCaseRepository {
	return &PgxFraudCaseRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.FraudCaseRepository = (*PgxFraudCaseRepository)(nil)

// CountRecent counts the account's fraud cases detected at or after since.
func (r *PgxFraudCaseRepository) CountRecent(ctx context.Context, uow portsrepo.UnitOfWork, accountID string, since time.Time) (int, error) {
	tx, err := txFrom(uow)
	if err != nil {
		return 0, err
	}

	var count int
	query := `SELECT COUNT(*) FROM fraud_cases WHERE account_id = $1 AND detected_at >= $2;`
	if err := tx.QueryRow(ctx, query, accountID, since).Scan(&count); err != nil {
		return 0, mapPgError(err, fmt.Sprintf("failed to count fraud cases of account %s", accountID), nil)
	}
	return count, nil
}

// InsertFraudCase records a new case inside uow.
func (r *PgxFraudCaseRepository) InsertFraudCase(ctx context.Context, uow portsrepo.UnitOfWork, fraudCase domain.FraudCase) error {
	tx, err := txFrom(uow)
	if err != nil {
		return err
	}

	m := mapping.ToModelFraudCase(fraudCase)
	query := `
		INSERT INTO fraud_cases (fraud_case_id, account_id, transaction_id, case_type, detected_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err = tx.Exec(ctx, query, m.FraudCaseID, m.AccountID, m.TransactionID, m.CaseType, m.DetectedAt)
	if err != nil {
		return mapPgError(err, fmt.Sprintf("failed to insert fraud case for transaction %s", m.TransactionID), apperrors.ErrDuplicateFraudCase)
	}
	return nil
}

// ListFraudCasesByAccount pages through the account's cases, newest first.
func (r *PgxFraudCaseRepository) ListFraudCasesByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.FraudCase, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// One extra row tells whether another page exists.
	fetchLimit := limit + 1

	query := `
		SELECT fraud_case_id, account_id, transaction_id, case_type, detected_at
		FROM fraud_cases
		WHERE account_id = $1
	`
	args := []any{accountID}
	if nextToken != nil && *nextToken != "" {
		lastDetectedAt, lastID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(apperrors.ErrInvalidData, "invalid nextToken", err)
		}
		query += ` AND (detected_at, fraud_case_id) < ($2, $3)`
		args = append(args, lastDetectedAt, lastID)
	}
	query += ` ORDER BY detected_at DESC, fraud_case_id DESC LIMIT $` + strconv.Itoa(len(args)+1) + `;`
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, mapPgError(err, fmt.Sprintf("failed to query fraud cases of account %s", accountID), nil)
	}
	defer rows.Close()

	cases := make([]models.FraudCase, 0, fetchLimit)
	for rows.Next() {
		var m models.FraudCase
		if err := rows.Scan(&m.FraudCaseID, &m.AccountID, &m.TransactionID, &m.CaseType, &m.DetectedAt); err != nil {
			return nil, nil, mapPgError(err, fmt.Sprintf("failed to scan fraud case of account %s", accountID), nil)
		}
		cases = append(cases, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, mapPgError(err, fmt.Sprintf("error iterating fraud cases of account %s", accountID), nil)
	}

	var next *string
	if len(cases) > limit {
		cases = cases[:limit]
		last := cases[limit-1]
		token := pagination.EncodeToken(last.DetectedAt, last.FraudCaseID)
		next = &token
	}
	return mapping.ToDomainFraudCases(cases), next, nil
}

// PgxAuditRepository appends audit entries.
type PgxAuditRepository struct {
	BaseRepository
}

func newPgxAuditRepository(pool *pgxpool.Pool) portsrepo.AuditRepository {
	return &PgxAuditRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AuditRepository = (*PgxAuditRepository)(nil)

// InsertAuditEntry appends an entry inside uow.
func (r *PgxAuditRepository) InsertAuditEntry(ctx context.Context, uow portsrepo.UnitOfWork, entry domain.AuditEntry) error {
	tx, err := txFrom(uow)
	if err != nil {
		return err
	}

	m := mapping.ToModelAuditEntry(entry)
	query := `
		INSERT INTO audit_entries (audit_id, account_id, transaction_id, action, logged_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	if _, err := tx.Exec(ctx, query, m.AuditID, m.AccountID, m.TransactionID, m.Action, m.Timestamp); err != nil {
		return mapPgError(err, fmt.Sprintf("failed to insert audit entry for transaction %s", m.TransactionID), nil)
	}
	return nil
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
