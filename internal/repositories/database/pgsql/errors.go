package pgsql

import (
	"context"
	"errors"

	"github.com/SscSPs/ledger_txn_processor/internal/apperrors"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the repositories translate into error kinds.
const (
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgNotNullViolation     = "23502"
	pgCheckViolation       = "23514"
	pgInvalidTextRepr      = "22P02"
	pgNumericOutOfRange    = "22003"
	pgLockNotAvailable     = "55P03"
	pgDeadlockDetected     = "40P01"
	pgSerializationFailure = "40001"
	pgQueryCanceled        = "57014"
)

// mapPgError wraps err in the matching AppError kind. onUnique is the kind reported for a
// unique violation; nil selects ErrInvalidData.
func mapPgError(err error, msg string, onUnique error) error {
	if err == nil {
		return nil
	}
	if apperrors.KindOf(err) != nil {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			if onUnique == nil {
				onUnique = apperrors.ErrInvalidData
			}
			return apperrors.NewAppError(onUnique, msg, err)
		case pgForeignKeyViolation, pgNotNullViolation, pgCheckViolation, pgInvalidTextRepr, pgNumericOutOfRange:
			return apperrors.NewAppError(apperrors.ErrInvalidData, msg, err)
		case pgLockNotAvailable, pgDeadlockDetected, pgSerializationFailure, pgQueryCanceled:
			return apperrors.NewAppError(apperrors.ErrResourceBusy, msg, err)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return apperrors.NewAppError(apperrors.ErrResourceBusy, msg, err)
	}
	return apperrors.NewAppError(apperrors.ErrPersistence, msg, err)
}
