package repositories

import (
	"context"
	"time"

	"github.com/retailsuite/ledger-engine/internal/core/domain"
)

// JournalRepositoryFacade owns journal entry persistence. Every mutating
// method runs as a single database transaction: header and lines are written
// together or not at all.
type JournalRepositoryFacade interface {
	// SaveEntry persists a draft entry and its lines atomically, allocating
	// the year-scoped entry number inside the same transaction. The allocated
	// number is returned.
	SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) (string, error)

	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error)

	// ListEntries returns one page of entries plus the total count matching
	// the filter independent of the page window.
	ListEntries(ctx context.Context, filter domain.EntryFilter) ([]domain.JournalEntry, int64, error)

	// MarkEntryApproved transitions DRAFT -> APPROVED with a compare-and-swap
	// on status. Returns apperrors.ErrConflict when the entry is not in DRAFT
	// and apperrors.ErrNotFound when it does not exist.
	MarkEntryApproved(ctx context.Context, entryID string, approver string, at time.Time) error

	// SaveReversal atomically inserts the already-approved reversing entry
	// with its lines and CAS-flips the original from APPROVED to REVERSED,
	// linking the two. Returns the reversing entry's allocated number.
	SaveReversal(ctx context.Context, reversal domain.JournalEntry, lines []domain.JournalLine, originalEntryID string) (string, error)
}
