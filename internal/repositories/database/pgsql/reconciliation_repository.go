package pgsql

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/retailsuite/ledger-engine/internal/apperrors"
	"github.com/retailsuite/ledger-engine/internal/core/domain"
	portsrepo "github.com/retailsuite/ledger-engine/internal/core/ports/repositories"
	"github.com/retailsuite/ledger-engine/internal/models"
	"github.com/retailsuite/ledger-engine/internal/utils/mapping"
)

const reportColumns = `report_id, report_number, account_id, period_start, period_end,
	fiscal_year, book_balance, statement_balance, reconciled_balance, variance,
	status, reconciled_by, reconciled_at, reviewed_by, reviewed_at, notes,
	created_at, created_by, last_updated_at, last_updated_by`

const itemColumns = `item_id, report_id, item_type, amount, is_reconciled,
	reconciled_at, notes, source_entry_id,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxReconciliationRepository struct {
	BaseRepository
}

// newPgxReconciliationRepository creates a new repository for reconciliation
// report data.
func newPgxReconciliationRepository(pool *pgxpool.Pool) portsrepo.ReconciliationRepositoryFacade {
	return &PgxReconciliationRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReconciliationRepositoryFacade = (*PgxReconciliationRepository)(nil)

// SaveReport persists a new report, allocating its year-scoped report number
// inside the transaction.
func (r *PgxReconciliationRepository) SaveReport(ctx context.Context, report domain.ReconciliationReport) (string, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer r.Rollback(ctx, tx)

	reportNumber, err := nextNumber(ctx, tx, sequenceScopeReport, reportNumberPrefix, report.FiscalYear)
	if err != nil {
		return "", err
	}
	report.ReportNumber = reportNumber

	m := mapping.ToModelReconciliationReport(report)
	query := `
		INSERT INTO reconciliation_reports (
			report_id, report_number, account_id, period_start, period_end,
			fiscal_year, book_balance, statement_balance, reconciled_balance, variance,
			status, reconciled_by, reconciled_at, reviewed_by, reviewed_at, notes,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20);
	`
	_, err = tx.Exec(ctx, query,
		m.ReportID,
		m.ReportNumber,
		m.AccountID,
		m.PeriodStart,
		m.PeriodEnd,
		m.FiscalYear,
		m.BookBalance,
		m.StatementBalance,
		m.ReconciledBalance,
		m.Variance,
		m.Status,
		m.ReconciledBy,
		m.ReconciledAt,
		m.ReviewedBy,
		m.ReviewedAt,
		m.Notes,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return "", apperrors.NewAppError(500, "failed to insert reconciliation report "+m.ReportID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return "", err
	}
	return reportNumber, nil
}

func scanReport(row pgx.Row) (models.ReconciliationReport, error) {
	var m models.ReconciliationReport
	err := row.Scan(
		&m.ReportID,
		&m.ReportNumber,
		&m.AccountID,
		&m.PeriodStart,
		&m.PeriodEnd,
		&m.FiscalYear,
		&m.BookBalance,
		&m.StatementBalance,
		&m.ReconciledBalance,
		&m.Variance,
		&m.Status,
		&m.ReconciledBy,
		&m.ReconciledAt,
		&m.ReviewedBy,
		&m.ReviewedAt,
		&m.Notes,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindReportByID retrieves a report header by its ID.
func (r *PgxReconciliationRepository) FindReportByID(ctx context.Context, reportID string) (*domain.ReconciliationReport, error) {
	query := `SELECT ` + reportColumns + ` FROM reconciliation_reports WHERE report_id = $1;`
	m, err := scanReport(r.Pool.QueryRow(ctx, query, reportID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find reconciliation report by ID "+reportID, err)
	}
	report := mapping.ToDomainReconciliationReport(m)
	return &report, nil
}

func scanItem(row pgx.Row) (models.ReconciliationItem, error) {
	var m models.ReconciliationItem
	err := row.Scan(
		&m.ItemID,
		&m.ReportID,
		&m.ItemType,
		&m.Amount,
		&m.IsReconciled,
		&m.ReconciledAt,
		&m.Notes,
		&m.SourceEntryID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindItemsByReportID retrieves a report's items in insertion order.
func (r *PgxReconciliationRepository) FindItemsByReportID(ctx context.Context, reportID string) ([]domain.ReconciliationItem, error) {
	query := `SELECT ` + itemColumns + ` FROM reconciliation_items WHERE report_id = $1 ORDER BY created_at, item_id;`
	rows, err := r.Pool.Query(ctx, query, reportID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query items for report "+reportID, err)
	}
	defer rows.Close()

	items := []models.ReconciliationItem{}
	for rows.Next() {
		m, err := scanItem(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan item row for report "+reportID, err)
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed iterating item rows for report "+reportID, err)
	}
	return mapping.ToDomainReconciliationItemSlice(items), nil
}

// FindAdjustmentsByReportID retrieves a report's adjustments in insertion order.
func (r *PgxReconciliationRepository) FindAdjustmentsByReportID(ctx context.Context, reportID string) ([]domain.ReconciliationAdjustment, error) {
	query := `
		SELECT adjustment_id, report_id, amount, adjustment_type, reason, entry_id,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM reconciliation_adjustments
		WHERE report_id = $1
		ORDER BY created_at, adjustment_id;
	`
	rows, err := r.Pool.Query(ctx, query, reportID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query adjustments for report "+reportID, err)
	}
	defer rows.Close()

	adjustments := []models.ReconciliationAdjustment{}
	for rows.Next() {
		var m models.ReconciliationAdjustment
		err := rows.Scan(
			&m.AdjustmentID,
			&m.ReportID,
			&m.Amount,
			&m.AdjustmentType,
			&m.Reason,
			&m.EntryID,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan adjustment row for report "+reportID, err)
		}
		adjustments = append(adjustments, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed iterating adjustment rows for report "+reportID, err)
	}
	return mapping.ToDomainReconciliationAdjustmentSlice(adjustments), nil
}

// ListReports returns one page of report headers plus the total count
// matching the filter.
func (r *PgxReconciliationRepository) ListReports(ctx context.Context, filter domain.ReconciliationFilter) ([]domain.ReconciliationReport, int64, error) {
	conditions := []string{}
	args := []any{}

	addCondition := func(expr string, value any) {
		args = append(args, value)
		conditions = append(conditions, strings.ReplaceAll(expr, "?", "$"+strconv.Itoa(len(args))))
	}

	if filter.AccountID != "" {
		addCondition("account_id = ?", filter.AccountID)
	}
	if filter.Status != "" {
		addCondition("status = ?", string(filter.Status))
	}
	if filter.FiscalYear != 0 {
		addCondition("fiscal_year = ?", filter.FiscalYear)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM reconciliation_reports` + where + `;`
	if err := r.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to count reconciliation reports", err)
	}

	args = append(args, filter.Limit)
	limitPos := strconv.Itoa(len(args))
	args = append(args, filter.Offset)
	offsetPos := strconv.Itoa(len(args))

	query := `SELECT ` + reportColumns + ` FROM reconciliation_reports` + where +
		` ORDER BY period_end DESC, report_number DESC LIMIT $` + limitPos + ` OFFSET $` + offsetPos + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to query reconciliation reports", err)
	}
	defer rows.Close()

	reports := []domain.ReconciliationReport{}
	for rows.Next() {
		m, err := scanReport(rows)
		if err != nil {
			return nil, 0, apperrors.NewAppError(500, "failed to scan reconciliation report row", err)
		}
		reports = append(reports, mapping.ToDomainReconciliationReport(m))
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed iterating reconciliation report rows", err)
	}

	return reports, total, nil
}

// SumApprovedLineMovement computes SUM(debit - credit) over the lines of
// APPROVED entries for one account within [from, to]. One aggregate query,
// one snapshot.
func (r *PgxReconciliationRepository) SumApprovedLineMovement(ctx context.Context, accountID string, from, to time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(l.debit - l.credit), 0)
		FROM journal_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE l.account_id = $1
		  AND e.status = $2
		  AND e.entry_date >= $3
		  AND e.entry_date <= $4;
	`
	var sum decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, accountID, models.Approved, from, to).Scan(&sum); err != nil {
		return decimal.Zero, apperrors.NewAppError(500, "failed to sum approved line movement for account "+accountID, err)
	}
	return sum, nil
}

// updateReportInTx writes a report's recomputed balances, status, and audit
// columns inside an open transaction.
func updateReportInTx(ctx context.Context, tx pgx.Tx, report domain.ReconciliationReport) error {
	m := mapping.ToModelReconciliationReport(report)
	query := `
		UPDATE reconciliation_reports
		SET reconciled_balance = $1, variance = $2, status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE report_id = $6;
	`
	tag, err := tx.Exec(ctx, query,
		m.ReconciledBalance,
		m.Variance,
		m.Status,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.ReportID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update reconciliation report "+m.ReportID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SaveItem inserts a reconciling item and updates the report's balances and
// status in one transaction.
func (r *PgxReconciliationRepository) SaveItem(ctx context.Context, item domain.ReconciliationItem, report domain.ReconciliationReport) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelReconciliationItem(item)
	query := `
		INSERT INTO reconciliation_items (
			item_id, report_id, item_type, amount, is_reconciled,
			reconciled_at, notes, source_entry_id,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err = tx.Exec(ctx, query,
		m.ItemID,
		m.ReportID,
		m.ItemType,
		m.Amount,
		m.IsReconciled,
		m.ReconciledAt,
		m.Notes,
		m.SourceEntryID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert reconciliation item "+m.ItemID, err)
	}

	if err := updateReportInTx(ctx, tx, report); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// FindItemByID retrieves a reconciling item by its ID.
func (r *PgxReconciliationRepository) FindItemByID(ctx context.Context, itemID string) (*domain.ReconciliationItem, error) {
	query := `SELECT ` + itemColumns + ` FROM reconciliation_items WHERE item_id = $1;`
	m, err := scanItem(r.Pool.QueryRow(ctx, query, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find reconciliation item by ID "+itemID, err)
	}
	item := mapping.ToDomainReconciliationItem(m)
	return &item, nil
}

// MarkItemReconciled flips is_reconciled one-way with a CAS on the flag and
// updates the report's balances in the same transaction.
func (r *PgxReconciliationRepository) MarkItemReconciled(ctx context.Context, itemID string, at time.Time, report domain.ReconciliationReport) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE reconciliation_items
		SET is_reconciled = TRUE, reconciled_at = $1, last_updated_at = $1, last_updated_by = $2
		WHERE item_id = $3 AND is_reconciled = FALSE;
	`
	tag, err := tx.Exec(ctx, query, at, report.LastUpdatedBy, itemID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark item "+itemID+" reconciled", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}

	if err := updateReportInTx(ctx, tx, report); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// SaveAdjustmentWithEntry persists, in one transaction: the backing journal
// entry (already APPROVED) with its lines, the adjustment row linking to it,
// and the report's recomputed balances. Any failure rolls back everything.
func (r *PgxReconciliationRepository) SaveAdjustmentWithEntry(ctx context.Context, adjustment domain.ReconciliationAdjustment, entry domain.JournalEntry, lines []domain.JournalLine, report domain.ReconciliationReport) (string, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer r.Rollback(ctx, tx)

	entryNumber, err := nextNumber(ctx, tx, sequenceScopeEntry, entryNumberPrefix, entry.EntryDate.UTC().Year())
	if err != nil {
		return "", err
	}
	entry.EntryNumber = entryNumber

	if err := insertEntryInTx(ctx, tx, mapping.ToModelJournalEntry(entry)); err != nil {
		return "", err
	}
	if err := insertLinesInTx(ctx, tx, lines); err != nil {
		return "", err
	}

	m := mapping.ToModelReconciliationAdjustment(adjustment)
	query := `
		INSERT INTO reconciliation_adjustments (
			adjustment_id, report_id, amount, adjustment_type, reason, entry_id,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err = tx.Exec(ctx, query,
		m.AdjustmentID,
		m.ReportID,
		m.Amount,
		m.AdjustmentType,
		m.Reason,
		m.EntryID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return "", apperrors.NewAppError(500, "failed to insert reconciliation adjustment "+m.AdjustmentID, err)
	}

	if err := updateReportInTx(ctx, tx, report); err != nil {
		return "", err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return "", err
	}
	return entryNumber, nil
}

// markReportStatus runs a CAS status update and classifies a zero-row result
// as missing report vs lost race.
func (r *PgxReconciliationRepository) markReportStatus(ctx context.Context, reportID string, query string, args ...any) error {
	tag, err := r.Pool.Exec(ctx, query, args...)
	if err != nil {
		return apperrors.NewAppError(500, "failed to transition reconciliation report "+reportID, err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		err := r.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM reconciliation_reports WHERE report_id = $1);`, reportID).Scan(&exists)
		if err != nil {
			return apperrors.NewAppError(500, "failed to check reconciliation report "+reportID, err)
		}
		if !exists {
			return apperrors.ErrNotFound
		}
		return apperrors.ErrConflict
	}
	return nil
}

// MarkReportCompleted CAS-transitions DRAFT/IN_PROGRESS -> COMPLETED.
func (r *PgxReconciliationRepository) MarkReportCompleted(ctx context.Context, reportID string, reconciler string, at time.Time) error {
	query := `
		UPDATE reconciliation_reports
		SET status = $1, reconciled_by = $2, reconciled_at = $3, last_updated_at = $3, last_updated_by = $2
		WHERE report_id = $4 AND status IN ($5, $6);
	`
	return r.markReportStatus(ctx, reportID, query,
		string(domain.ReconciliationCompleted), reconciler, at, reportID,
		string(domain.ReconciliationDraft), string(domain.ReconciliationInProgress))
}

// MarkReportReviewed CAS-transitions COMPLETED -> REVIEWED.
func (r *PgxReconciliationRepository) MarkReportReviewed(ctx context.Context, reportID string, reviewer string, at time.Time) error {
	query := `
		UPDATE reconciliation_reports
		SET status = $1, reviewed_by = $2, reviewed_at = $3, last_updated_at = $3, last_updated_by = $2
		WHERE report_id = $4 AND status = $5;
	`
	return r.markReportStatus(ctx, reportID, query,
		string(domain.ReconciliationReviewed), reviewer, at, reportID,
		string(domain.ReconciliationCompleted))
}
