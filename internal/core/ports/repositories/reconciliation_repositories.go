package repositories

import (
	"context"
	"time"

	"github.com/retailsuite/ledger-engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReconciliationRepositoryFacade owns reconciliation report persistence and
// the ledger aggregate reads that feed book balances.
type ReconciliationRepositoryFacade interface {
	// SaveReport persists a new report, allocating its year-scoped report
	// number inside the transaction. The allocated number is returned.
	SaveReport(ctx context.Context, report domain.ReconciliationReport) (string, error)

	FindReportByID(ctx context.Context, reportID string) (*domain.ReconciliationReport, error)
	FindItemsByReportID(ctx context.Context, reportID string) ([]domain.ReconciliationItem, error)
	FindAdjustmentsByReportID(ctx context.Context, reportID string) ([]domain.ReconciliationAdjustment, error)
	ListReports(ctx context.Context, filter domain.ReconciliationFilter) ([]domain.ReconciliationReport, int64, error)

	// SumApprovedLineMovement computes SUM(debit - credit) over the lines of
	// APPROVED entries for one account within [from, to], as a single
	// snapshot query. Draft, rejected, and reversed entries never contribute.
	SumApprovedLineMovement(ctx context.Context, accountID string, from, to time.Time) (decimal.Decimal, error)

	// SaveItem inserts a reconciling item and updates the report's balances
	// and status in one transaction.
	SaveItem(ctx context.Context, item domain.ReconciliationItem, report domain.ReconciliationReport) error

	FindItemByID(ctx context.Context, itemID string) (*domain.ReconciliationItem, error)

	// MarkItemReconciled flips is_reconciled one-way (CAS on the flag) and
	// updates the report's balances in the same transaction.
	MarkItemReconciled(ctx context.Context, itemID string, at time.Time, report domain.ReconciliationReport) error

	// SaveAdjustmentWithEntry persists, in one transaction: the backing
	// journal entry (already APPROVED) with its two lines, the adjustment row
	// linking to it, and the report's recomputed balances. The entry's
	// allocated number is returned. Any failure rolls back everything.
	SaveAdjustmentWithEntry(ctx context.Context, adjustment domain.ReconciliationAdjustment, entry domain.JournalEntry, lines []domain.JournalLine, report domain.ReconciliationReport) (string, error)

	// MarkReportCompleted CAS-transitions DRAFT/IN_PROGRESS -> COMPLETED.
	MarkReportCompleted(ctx context.Context, reportID string, reconciler string, at time.Time) error

	// MarkReportReviewed CAS-transitions COMPLETED -> REVIEWED.
	MarkReportReviewed(ctx context.Context, reportID string, reviewer string, at time.Time) error
}
