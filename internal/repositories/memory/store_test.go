package memory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/ledger_txn_processor/internal/apperrors"
	"github.com/SscSPs/ledger_txn_processor/internal/core/domain"
	"github.com/SscSPs/ledger_txn_processor/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedAccount(t *testing.T, store *memory.Store, id string, balance int64) {
	t.Helper()
	require.NoError(t, store.SaveAccount(context.Background(), domain.Account{
		AccountID: id,
		Balance:   decimal.NewFromInt(balance),
		Status:    domain.AccountActive,
	}))
}

func seedRequest(t *testing.T, store *memory.Store, id, accountID string) {
	t.Helper()
	require.NoError(t, store.SaveRequest(context.Background(), domain.TransactionRequest{
		TransactionID:   id,
		SourceAccountID: accountID,
		Type:            domain.Withdrawal,
		Amount:          decimal.NewFromInt(10),
	}))
}

func TestStore_CommitPublishesAllWrites(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(time.Second)
	seedAccount(t, store, "acc_1", 100)
	seedRequest(t, store, "txn_1", "acc_1")

	uow, err := store.Begin(ctx)
	require.NoError(t, err)

	acc, err := store.GetForUpdate(ctx, uow, "acc_1")
	require.NoError(t, err)
	require.NoError(t, store.UpdateBalance(ctx, uow, "acc_1", acc.Balance.Sub(decimal.NewFromInt(10))))
	require.NoError(t, store.InsertOutcome(ctx, uow, domain.TransactionOutcome{
		TransactionID: "txn_1", AccountID: "acc_1", Type: domain.Withdrawal,
		Amount: decimal.NewFromInt(10), Status: domain.StatusPending,
	}))
	require.NoError(t, store.InsertAuditEntry(ctx, uow, domain.AuditEntry{AuditID: "a1", AccountID: "acc_1", TransactionID: "txn_1", Action: "WITHDRAWAL"}))
	require.NoError(t, store.UpdateOutcomeStatus(ctx, uow, "txn_1", domain.StatusCommitted))

	// Nothing visible before commit.
	before, err := store.FindAccountByID(ctx, "acc_1")
	require.NoError(t, err)
	assert.True(t, before.Balance.Equal(decimal.NewFromInt(100)))
	_, err = store.FindOutcomeByID(ctx, "txn_1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	require.NoError(t, uow.Commit(ctx))
	require.NoError(t, uow.Rollback(ctx), "rollback after commit is a no-op")

	after, err := store.FindAccountByID(ctx, "acc_1")
	require.NoError(t, err)
	assert.True(t, after.Balance.Equal(decimal.NewFromInt(90)))

	outcome, err := store.FindOutcomeByID(ctx, "txn_1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCommitted, outcome.Status)
	assert.Len(t, store.AuditEntries("txn_1"), 1)
}

func TestStore_RollbackDiscardsWrites(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(time.Second)
	seedAccount(t, store, "acc_1", 100)

	uow, err := store.Begin(ctx)
	require.NoError(t, err)
	_, err = store.GetForUpdate(ctx, uow, "acc_1")
	require.NoError(t, err)
	require.NoError(t, store.UpdateBalance(ctx, uow, "acc_1", decimal.NewFromInt(1)))
	require.NoError(t, store.InsertFraudCase(ctx, uow, domain.FraudCase{FraudCaseID: "f1", AccountID: "acc_1", TransactionID: "txn_1", DetectedAt: time.Now()}))
	require.NoError(t, uow.Rollback(ctx))

	acc, err := store.FindAccountByID(ctx, "acc_1")
	require.NoError(t, err)
	assert.True(t, acc.Balance.Equal(decimal.NewFromInt(100)))
	assert.Empty(t, store.FraudCases("acc_1"))

	// The lock was released.
	next, err := store.Begin(ctx)
	require.NoError(t, err)
	_, err = store.GetForUpdate(ctx, next, "acc_1")
	require.NoError(t, err)
	require.NoError(t, next.Rollback(ctx))

	// A finished unit of work cannot be reused.
	_, err = store.GetForUpdate(ctx, uow, "acc_1")
	assert.ErrorIs(t, err, apperrors.ErrPersistence)
}

func TestStore_GetForUpdate_NotFound(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(time.Second)
	uow, err := store.Begin(ctx)
	require.NoError(t, err)
	defer uow.Rollback(ctx)

	_, err = store.GetForUpdate(ctx, uow, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestStore_LockTimeoutIsResourceBusy(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(20 * time.Millisecond)
	seedAccount(t, store, "acc_1", 100)

	holder, err := store.Begin(ctx)
	require.NoError(t, err)
	_, err = store.GetForUpdate(ctx, holder, "acc_1")
	require.NoError(t, err)

	waiter, err := store.Begin(ctx)
	require.NoError(t, err)
	_, err = store.GetForUpdate(ctx, waiter, "acc_1")
	assert.ErrorIs(t, err, apperrors.ErrResourceBusy)
	assert.True(t, apperrors.IsRetryable(err))

	// Re-locking through the holder does not block.
	_, err = store.GetForUpdate(ctx, holder, "acc_1")
	assert.NoError(t, err)

	require.NoError(t, holder.Rollback(ctx))
	require.NoError(t, waiter.Rollback(ctx))
}

func TestStore_LockWaitHonoursCancellation(t *testing.T) {
	store := memory.NewStore(time.Minute)
	seedAccount(t, store, "acc_1", 100)

	holder, err := store.Begin(context.Background())
	require.NoError(t, err)
	_, err = store.GetForUpdate(context.Background(), holder, "acc_1")
	require.NoError(t, err)
	defer holder.Rollback(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	waiter, err := store.Begin(ctx)
	require.NoError(t, err)
	_, err = store.GetForUpdate(ctx, waiter, "acc_1")
	assert.ErrorIs(t, err, apperrors.ErrResourceBusy)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStore_WaiterSeesCommittedBalance(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(time.Second)
	seedAccount(t, store, "acc_1", 100)

	holder, err := store.Begin(ctx)
	require.NoError(t, err)
	_, err = store.GetForUpdate(ctx, holder, "acc_1")
	require.NoError(t, err)

	got := make(chan decimal.Decimal, 1)
	go func() {
		waiter, err := store.Begin(ctx)
		if err != nil {
			return
		}
		defer waiter.Rollback(ctx)
		acc, err := store.GetForUpdate(ctx, waiter, "acc_1")
		if err != nil {
			return
		}
		got <- acc.Balance
	}()

	require.NoError(t, store.UpdateBalance(ctx, holder, "acc_1", decimal.NewFromInt(40)))
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, holder.Commit(ctx))

	select {
	case balance := <-got:
		assert.True(t, balance.Equal(decimal.NewFromInt(40)), "waiter must read the balance committed by the holder")
	case <-time.After(time.Second):
		t.Fatal("waiter never acquired the lock")
	}
}

func TestStore_Duplicates(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(time.Second)
	seedAccount(t, store, "acc_1", 100)
	seedRequest(t, store, "txn_1", "acc_1")

	err := store.SaveRequest(ctx, domain.TransactionRequest{TransactionID: "txn_1"})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateTransaction)

	err = store.SaveAccount(ctx, domain.Account{AccountID: "acc_1"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidData)

	uow, err := store.Begin(ctx)
	require.NoError(t, err)
	outcome := domain.TransactionOutcome{TransactionID: "txn_1", AccountID: "acc_1", Amount: decimal.NewFromInt(10)}
	require.NoError(t, store.InsertOutcome(ctx, uow, outcome))
	assert.ErrorIs(t, store.InsertOutcome(ctx, uow, outcome), apperrors.ErrDuplicateTransaction)

	fc := domain.FraudCase{FraudCaseID: "f1", AccountID: "acc_1", TransactionID: "txn_1", DetectedAt: time.Now()}
	require.NoError(t, store.InsertFraudCase(ctx, uow, fc))
	fc.FraudCaseID = "f2"
	assert.ErrorIs(t, store.InsertFraudCase(ctx, uow, fc), apperrors.ErrDuplicateFraudCase)
	require.NoError(t, uow.Commit(ctx))

	again, err := store.Begin(ctx)
	require.NoError(t, err)
	defer again.Rollback(ctx)
	assert.ErrorIs(t, store.InsertOutcome(ctx, again, outcome), apperrors.ErrDuplicateTransaction)
	assert.ErrorIs(t, store.InsertFraudCase(ctx, again, fc), apperrors.ErrDuplicateFraudCase)
}

func TestStore_InvalidData(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(time.Second)
	seedAccount(t, store, "acc_1", 100)

	uow, err := store.Begin(ctx)
	require.NoError(t, err)
	defer uow.Rollback(ctx)

	err = store.InsertOutcome(ctx, uow, domain.TransactionOutcome{TransactionID: "no_request", Amount: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, apperrors.ErrInvalidData)

	// Balance updates require the lock.
	err = store.UpdateBalance(ctx, uow, "acc_1", decimal.NewFromInt(5))
	assert.ErrorIs(t, err, apperrors.ErrPersistence)

	_, err = store.GetForUpdate(ctx, uow, "acc_1")
	require.NoError(t, err)
	err = store.UpdateBalance(ctx, uow, "acc_1", decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, apperrors.ErrInvalidData)

	err = store.UpdateOutcomeStatus(ctx, uow, "unknown", domain.StatusCommitted)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestStore_CountRecent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(time.Second)
	now := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

	uow, err := store.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, store.InsertFraudCase(ctx, uow, domain.FraudCase{FraudCaseID: "old", AccountID: "acc_1", TransactionID: "t_old", DetectedAt: now.AddDate(0, -4, 0)}))
	require.NoError(t, store.InsertFraudCase(ctx, uow, domain.FraudCase{FraudCaseID: "edge", AccountID: "acc_1", TransactionID: "t_edge", DetectedAt: now.AddDate(0, -3, 0)}))
	require.NoError(t, store.InsertFraudCase(ctx, uow, domain.FraudCase{FraudCaseID: "other", AccountID: "acc_2", TransactionID: "t_other", DetectedAt: now}))
	require.NoError(t, uow.Commit(ctx))

	reader, err := store.Begin(ctx)
	require.NoError(t, err)
	defer reader.Rollback(ctx)

	count, err := store.CountRecent(ctx, reader, "acc_1", now.AddDate(0, -3, 0))
	require.NoError(t, err)
	assert.Equal(t, 1, count, "cases exactly at the window start count")

	require.NoError(t, store.InsertFraudCase(ctx, reader, domain.FraudCase{FraudCaseID: "staged", AccountID: "acc_1", TransactionID: "t_new", DetectedAt: now}))
	count, err = store.CountRecent(ctx, reader, "acc_1", now.AddDate(0, -3, 0))
	require.NoError(t, err)
	assert.Equal(t, 2, count, "writes staged in the same unit of work are visible to it")
}

func TestStore_ListFraudCasesByAccount(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(time.Second)
	now := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

	uow, err := store.Begin(ctx)
	require.NoError(t, err)
	for _, fc := range []domain.FraudCase{
		{FraudCaseID: "fc_a", AccountID: "acc_1", TransactionID: "t1", DetectedAt: now.Add(-2 * time.Hour)},
		{FraudCaseID: "fc_b", AccountID: "acc_1", TransactionID: "t2", DetectedAt: now},
		{FraudCaseID: "fc_c", AccountID: "acc_1", TransactionID: "t3", DetectedAt: now},
		{FraudCaseID: "fc_d", AccountID: "acc_1", TransactionID: "t4", DetectedAt: now.Add(-time.Hour)},
		{FraudCaseID: "fc_x", AccountID: "acc_2", TransactionID: "t5", DetectedAt: now},
	} {
		require.NoError(t, store.InsertFraudCase(ctx, uow, fc))
	}
	require.NoError(t, uow.Commit(ctx))

	var ids []string
	var token *string
	for page := 0; page < 5; page++ {
		cases, next, err := store.ListFraudCasesByAccount(ctx, "acc_1", 3, token)
		require.NoError(t, err)
		for _, fc := range cases {
			ids = append(ids, fc.FraudCaseID)
		}
		if next == nil {
			break
		}
		token = next
	}
	assert.Equal(t, []string{"fc_c", "fc_b", "fc_d", "fc_a"}, ids)

	bad := "%%%"
	_, _, err = store.ListFraudCasesByAccount(ctx, "acc_1", 3, &bad)
	assert.ErrorIs(t, err, apperrors.ErrInvalidData)
}

func TestStore_ConcurrentUpdatesAreNotLost(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(5 * time.Second)
	seedAccount(t, store, "acc_1", 0)

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			uow, err := store.Begin(ctx)
			if !assert.NoError(t, err) {
				return
			}
			defer uow.Rollback(ctx)
			acc, err := store.GetForUpdate(ctx, uow, "acc_1")
			if !assert.NoError(t, err) {
				return
			}
			assert.NoError(t, store.UpdateBalance(ctx, uow, "acc_1", acc.Balance.Add(decimal.NewFromInt(1))))
			assert.NoError(t, uow.Commit(ctx))
		}()
	}
	wg.Wait()

	acc, err := store.FindAccountByID(ctx, "acc_1")
	require.NoError(t, err)
	assert.True(t, acc.Balance.Equal(decimal.NewFromInt(workers)), "got %s", acc.Balance)
}

func TestStore_OutcomeExistsSeesStagedAndCommitted(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(time.Second)
	seedAccount(t, store, "acc_1", 100)
	seedRequest(t, store, "txn_1", "acc_1")

	uow, err := store.Begin(ctx)
	require.NoError(t, err)
	exists, err := store.OutcomeExists(ctx, uow, "txn_1")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, store.InsertOutcome(ctx, uow, domain.TransactionOutcome{
		TransactionID: "txn_1", AccountID: "acc_1", Type: domain.Withdrawal,
		Amount: decimal.NewFromInt(10), Status: domain.StatusPending,
	}))
	exists, err = store.OutcomeExists(ctx, uow, "txn_1")
	require.NoError(t, err)
	assert.True(t, exists, "staged in the same unit of work")

	other, err := store.Begin(ctx)
	require.NoError(t, err)
	defer other.Rollback(ctx)
	exists, err = store.OutcomeExists(ctx, other, "txn_1")
	require.NoError(t, err)
	assert.False(t, exists, "uncommitted writes are private")

	require.NoError(t, store.UpdateOutcomeStatus(ctx, uow, "txn_1", domain.StatusCommitted))
	require.NoError(t, uow.Commit(ctx))

	exists, err = store.OutcomeExists(ctx, other, "txn_1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestStore_UpdateOutcomeStatusRejectsTerminalTransition(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(time.Second)
	seedAccount(t, store, "acc_1", 100)
	seedRequest(t, store, "txn_1", "acc_1")

	uow, err := store.Begin(ctx)
	require.NoError(t, err)
	defer uow.Rollback(ctx)
	require.NoError(t, store.InsertOutcome(ctx, uow, domain.TransactionOutcome{
		TransactionID: "txn_1", AccountID: "acc_1", Type: domain.Withdrawal,
		Amount: decimal.NewFromInt(10), Status: domain.StatusPending,
	}))
	require.NoError(t, store.UpdateOutcomeStatus(ctx, uow, "txn_1", domain.StatusCommitted))

	for _, next := range []domain.TransactionStatus{domain.StatusPending, domain.StatusFailed, domain.StatusRejected} {
		err = store.UpdateOutcomeStatus(ctx, uow, "txn_1", next)
		assert.ErrorIs(t, err, apperrors.ErrDataIntegrity, string(next))
	}
}

func TestStore_SetAccountStatus(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(time.Second)
	seedAccount(t, store, "acc_1", 100)

	require.NoError(t, store.SetAccountStatus(ctx, "acc_1", domain.AccountFrozen))
	acc, err := store.FindAccountByID(ctx, "acc_1")
	require.NoError(t, err)
	assert.Equal(t, domain.AccountFrozen, acc.Status)
	assert.True(t, acc.Balance.Equal(decimal.NewFromInt(100)))

	assert.ErrorIs(t, store.SetAccountStatus(ctx, "missing", domain.AccountActive), apperrors.ErrNotFound)
	assert.ErrorIs(t, store.SetAccountStatus(ctx, "acc_1", "CLOSED"), apperrors.ErrInvalidData)
}

func TestStore_RejectsValuesBeyondStoredScale(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(time.Second)

	err := store.SaveAccount(ctx, domain.Account{AccountID: "acc_1", Balance: decimal.RequireFromString("1.00005"), Status: domain.AccountActive})
	assert.ErrorIs(t, err, apperrors.ErrInvalidData)

	seedAccount(t, store, "acc_2", 100)
	err = store.SaveRequest(ctx, domain.TransactionRequest{
		TransactionID: "txn_1", SourceAccountID: "acc_2", Type: domain.Withdrawal,
		Amount: decimal.RequireFromString("0.00004"),
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidData)
	_, err = store.FindRequestByID(ctx, "txn_1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
