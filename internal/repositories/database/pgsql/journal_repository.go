package pgsql

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/retailsuite/ledger-engine/internal/apperrors"
	"github.com/retailsuite/ledger-engine/internal/core/domain"
	portsrepo "github.com/retailsuite/ledger-engine/internal/core/ports/repositories"
	"github.com/retailsuite/ledger-engine/internal/models"
	"github.com/retailsuite/ledger-engine/internal/utils/mapping"
)

const (
	sequenceScopeEntry  = "journal_entry"
	entryNumberPrefix   = "JE"
	sequenceScopeReport = "reconciliation_report"
	reportNumberPrefix  = "RR"
)

const entryColumns = `entry_id, entry_number, entry_date, description, reference,
	total_debit, total_credit, status, source_type, source_id,
	approved_by, approved_at, original_entry_id, reversing_entry_id,
	created_at, created_by, last_updated_at, last_updated_by`

const insertEntryQuery = `
	INSERT INTO journal_entries (
		entry_id, entry_number, entry_date, description, reference,
		total_debit, total_credit, status, source_type, source_id,
		approved_by, approved_at, original_entry_id, reversing_entry_id,
		created_at, created_by, last_updated_at, last_updated_by
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
`

const insertLineQuery = `
	INSERT INTO journal_lines (
		line_id, entry_id, account_id, description, debit, credit, reference,
		created_at, created_by, last_updated_at, last_updated_by
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
`

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entry data.
func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

// insertEntryInTx writes an entry header inside an open transaction.
func insertEntryInTx(ctx context.Context, tx pgx.Tx, m models.JournalEntry) error {
	_, err := tx.Exec(ctx, insertEntryQuery,
		m.EntryID,
		m.EntryNumber,
		m.EntryDate,
		m.Description,
		m.Reference,
		m.TotalDebit,
		m.TotalCredit,
		m.Status,
		m.SourceType,
		m.SourceID,
		m.ApprovedBy,
		m.ApprovedAt,
		m.OriginalEntryID,
		m.ReversingEntryID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert journal entry "+m.EntryID, err)
	}
	return nil
}

// insertLinesInTx batch-inserts entry lines inside an open transaction.
func insertLinesInTx(ctx context.Context, tx pgx.Tx, lines []domain.JournalLine) error {
	batch := &pgx.Batch{}
	for _, line := range lines {
		m := mapping.ToModelJournalLine(line)
		batch.Queue(insertLineQuery,
			m.LineID,
			m.EntryID,
			m.AccountID,
			m.Description,
			m.Debit,
			m.Credit,
			m.Reference,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute line insert batch", err)
	}
	return nil
}

// SaveEntry persists a draft entry and its lines atomically, allocating the
// year-scoped entry number inside the same transaction.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) (string, error) {
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

	if err := r.Commit(ctx, tx); err != nil {
		return "", err
	}
	return entryNumber, nil
}

func scanEntry(row pgx.Row) (models.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.EntryID,
		&m.EntryNumber,
		&m.EntryDate,
		&m.Description,
		&m.Reference,
		&m.TotalDebit,
		&m.TotalCredit,
		&m.Status,
		&m.SourceType,
		&m.SourceID,
		&m.ApprovedBy,
		&m.ApprovedAt,
		&m.OriginalEntryID,
		&m.ReversingEntryID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindEntryByID retrieves an entry header by its ID.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1;`
	m, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find journal entry by ID "+entryID, err)
	}
	entry := mapping.ToDomainJournalEntry(m)
	return &entry, nil
}

// FindLinesByEntryID retrieves all lines of an entry in insertion order.
func (r *PgxJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	query := `
		SELECT line_id, entry_id, account_id, description, debit, credit, reference,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM journal_lines
		WHERE entry_id = $1
		ORDER BY created_at, line_id;
	`
	rows, err := r.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for entry "+entryID, err)
	}
	defer rows.Close()

	lines := []models.JournalLine{}
	for rows.Next() {
		var l models.JournalLine
		err := rows.Scan(
			&l.LineID,
			&l.EntryID,
			&l.AccountID,
			&l.Description,
			&l.Debit,
			&l.Credit,
			&l.Reference,
			&l.CreatedAt,
			&l.CreatedBy,
			&l.LastUpdatedAt,
			&l.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line row for entry "+entryID, err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed iterating line rows for entry "+entryID, err)
	}

	return mapping.ToDomainJournalLineSlice(lines), nil
}

// ListEntries returns one page of entry headers plus the total count matching
// the filter independent of the page window.
func (r *PgxJournalRepository) ListEntries(ctx context.Context, filter domain.EntryFilter) ([]domain.JournalEntry, int64, error) {
	conditions := []string{}
	args := []any{}

	addCondition := func(expr string, value any) {
		args = append(args, value)
		conditions = append(conditions, strings.ReplaceAll(expr, "?", "$"+strconv.Itoa(len(args))))
	}

	if filter.Status != "" {
		addCondition("e.status = ?", string(filter.Status))
	}
	if filter.SourceType != "" {
		addCondition("e.source_type = ?", filter.SourceType)
	}
	if filter.CreatedBy != "" {
		addCondition("e.created_by = ?", filter.CreatedBy)
	}
	if filter.DateFrom != nil {
		addCondition("e.entry_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		addCondition("e.entry_date <= ?", *filter.DateTo)
	}
	if filter.AccountID != "" {
		addCondition("EXISTS (SELECT 1 FROM journal_lines l WHERE l.entry_id = e.entry_id AND l.account_id = ?)", filter.AccountID)
	}
	if filter.Search != "" {
		// One pattern argument feeds all three placeholders.
		addCondition("(e.description ILIKE ? OR e.entry_number ILIKE ? OR e.reference ILIKE ?)", "%"+filter.Search+"%")
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM journal_entries e` + where + `;`
	if err := r.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to count journal entries", err)
	}

	args = append(args, filter.Limit)
	limitPos := strconv.Itoa(len(args))
	args = append(args, filter.Offset)
	offsetPos := strconv.Itoa(len(args))

	query := `SELECT ` + entryColumns + ` FROM journal_entries e` + where +
		` ORDER BY e.entry_date DESC, e.entry_number DESC LIMIT $` + limitPos + ` OFFSET $` + offsetPos + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to query journal entries", err)
	}
	defer rows.Close()

	entries := []domain.JournalEntry{}
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, 0, apperrors.NewAppError(500, "failed to scan journal entry row", err)
		}
		entries = append(entries, mapping.ToDomainJournalEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed iterating journal entry rows", err)
	}

	return entries, total, nil
}

// MarkEntryApproved transitions DRAFT -> APPROVED with a compare-and-swap on
// status. A lost race or wrong state surfaces as ErrConflict.
func (r *PgxJournalRepository) MarkEntryApproved(ctx context.Context, entryID string, approver string, at time.Time) error {
	query := `
		UPDATE journal_entries
		SET status = $1, approved_by = $2, approved_at = $3, last_updated_at = $3, last_updated_by = $2
		WHERE entry_id = $4 AND status = $5;
	`
	tag, err := r.Pool.Exec(ctx, query, models.Approved, approver, at, entryID, models.Draft)
	if err != nil {
		return apperrors.NewAppError(500, "failed to approve journal entry "+entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return r.classifyMissedUpdate(ctx, entryID)
	}
	return nil
}

// classifyMissedUpdate distinguishes a missing entry from a CAS miss after an
// UPDATE touched zero rows.
func (r *PgxJournalRepository) classifyMissedUpdate(ctx context.Context, entryID string) error {
	var exists bool
	err := r.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM journal_entries WHERE entry_id = $1);`, entryID).Scan(&exists)
	if err != nil {
		return apperrors.NewAppError(500, "failed to check journal entry "+entryID, err)
	}
	if !exists {
		return apperrors.ErrNotFound
	}
	return apperrors.ErrConflict
}

// SaveReversal atomically inserts the already-approved reversing entry with
// its lines and CAS-flips the original from APPROVED to REVERSED, linking the
// two. A concurrent reversal loses on the CAS and rolls back its insert.
func (r *PgxJournalRepository) SaveReversal(ctx context.Context, reversal domain.JournalEntry, lines []domain.JournalLine, originalEntryID string) (string, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer r.Rollback(ctx, tx)

	entryNumber, err := nextNumber(ctx, tx, sequenceScopeEntry, entryNumberPrefix, reversal.EntryDate.UTC().Year())
	if err != nil {
		return "", err
	}
	reversal.EntryNumber = entryNumber

	if err := insertEntryInTx(ctx, tx, mapping.ToModelJournalEntry(reversal)); err != nil {
		return "", err
	}
	if err := insertLinesInTx(ctx, tx, lines); err != nil {
		return "", err
	}

	casQuery := `
		UPDATE journal_entries
		SET status = $1, reversing_entry_id = $2, last_updated_at = $3, last_updated_by = $4
		WHERE entry_id = $5 AND status = $6;
	`
	tag, err := tx.Exec(ctx, casQuery,
		models.Reversed,
		reversal.EntryID,
		reversal.LastUpdatedAt,
		reversal.LastUpdatedBy,
		originalEntryID,
		models.Approved,
	)
	if err != nil {
		return "", apperrors.NewAppError(500, "failed to mark entry "+originalEntryID+" reversed", err)
	}
	if tag.RowsAffected() == 0 {
		return "", apperrors.ErrConflict
	}

	if err := r.Commit(ctx, tx); err != nil {
		return "", err
	}
	return entryNumber, nil
}
