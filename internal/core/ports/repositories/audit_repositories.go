package repositories

import (
	"context"

	"github.com/SscSPs/ledger_txn_processor/internal/core/domain"
)

// AuditRepository appends audit entries. Entries are never updated or deleted.
type AuditRepository interface {
	InsertAuditEntry(ctx context.Context, uow UnitOfWork, entry domain.AuditEntry) error
}
