package services

import (
	"context"
	"log/slog"
	"time"

	portsrepo "github.com/SscSPs/ledger_txn_processor/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_txn_processor/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// Default fraud rule parameters.
var (
	DefaultFraudAmountThreshold = decimal.NewFromInt(10000)
	DefaultFraudLookbackMonths  = 3
)

// FraudCaseCounter is the part of the fraud case store the detector reads.
type FraudCaseCounter interface {
	CountRecent(ctx context.Context, uow portsrepo.UnitOfWork, accountID string, since time.Time) (int, error)
}

// fraudDetector flags large transactions on accounts with recent fraud history.
type fraudDetector struct {
	BaseService
	cases          FraudCaseCounter
	threshold      decimal.Decimal
	lookbackMonths int
}

// FraudDetectorOption configures the fraud detector.
type FraudDetectorOption func(*fraudDetector)

// WithFraudThreshold sets the amount above which a transaction is considered large.
func WithFraudThreshold(threshold decimal.Decimal) FraudDetectorOption {
	return func(d *fraudDetector) {
		d.threshold = threshold
	}
}

// WithFraudLookbackMonths sets the fraud history window in calendar months.
func WithFraudLookbackMonths(months int) FraudDetectorOption {
	return func(d *fraudDetector) {
		if months > 0 {
			d.lookbackMonths = months
		}
	}
}

// NewFraudDetector creates a fraud detector reading history from cases.
func NewFraudDetector(cases FraudCaseCounter, options ...FraudDetectorOption) portssvc.FraudDetector {
	d := &fraudDetector{
		cases:          cases,
		threshold:      DefaultFraudAmountThreshold,
		lookbackMonths: DefaultFraudLookbackMonths,
	}
	for _, option := range options {
		option(d)
	}
	return d
}

var _ portssvc.FraudDetector = (*fraudDetector)(nil)

// Evaluate flags iff amount is strictly above the threshold and the account has at least one
// fraud case detected at or after now minus the lookback window. The history is only queried
// for large amounts.
func (d *fraudDetector) Evaluate(ctx context.Context, uow portsrepo.UnitOfWork, accountID string, amount decimal.Decimal, now time.Time) (bool, error) {
	if !amount.GreaterThan(d.threshold) {
		return false, nil
	}

	since := now.AddDate(0, -d.lookbackMonths, 0)
	count, err := d.cases.CountRecent(ctx, uow, accountID, since)
	if err != nil {
		return false, err
	}

	if count > 0 {
		d.LogDebug(ctx, "Transaction flagged by fraud rule",
			slog.String("account_id", accountID),
			slog.String("amount", amount.String()),
			slog.Int("recent_cases", count))
		return true, nil
	}
	return false, nil
}
