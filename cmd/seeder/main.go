package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/SscSPs/ledger_txn_processor/internal/core/domain"
	"github.com/SscSPs/ledger_txn_processor/internal/platform/config"
	"github.com/SscSPs/ledger_txn_processor/internal/platform/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

func main() {
	total := flag.Int("accounts", 1000, "number of accounts to create")
	balance := flag.String("balance", "100.00", "opening balance of every account")
	prefix := flag.String("prefix", "acc_", "account id prefix")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	opening, err := decimal.NewFromString(*balance)
	if err != nil || opening.IsNegative() {
		log.Error("Invalid opening balance", slog.String("balance", *balance))
		os.Exit(1)
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("Unable to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer conn.Close(ctx)

	var count int
	if err := conn.QueryRow(ctx, "SELECT COUNT(*) FROM accounts WHERE account_id LIKE $1", *prefix+"%").Scan(&count); err != nil {
		log.Error("Failed to count accounts", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if count >= *total {
		log.Info("Accounts already seeded, skipping", slog.Int("existing", count))
		return
	}

	seeded, err := seedAccounts(ctx, conn, *prefix, count, *total, opening)
	if err != nil {
		log.Error("Bulk insert failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log.Info("Seeded accounts", slog.Int64("created", seeded), slog.String("opening_balance", opening.String()))
}

// seedAccounts bulk-inserts ACTIVE accounts numbered from start (inclusive) to end (exclusive).
func seedAccounts(ctx context.Context, conn *pgx.Conn, prefix string, start, end int, opening decimal.Decimal) (int64, error) {
	now := time.Now().UTC()
	amount := pgtype.Numeric{Int: opening.Coefficient(), Exp: opening.Exponent(), Valid: true}

	rows := make([][]any, 0, end-start)
	for i := start; i < end; i++ {
		rows = append(rows, []any{fmt.Sprintf("%s%06d", prefix, i), amount, string(domain.AccountActive), now, now})
	}

	return conn.CopyFrom(
		ctx,
		pgx.Identifier{"accounts"},
		[]string{"account_id", "balance", "status", "created_at", "last_updated_at"},
		pgx.CopyFromRows(rows),
	)
}
