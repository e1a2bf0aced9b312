package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the state of a journal entry. Rejected and Reversed
// are deliberately distinct states: a rejected draft never affected balances,
// a reversed entry did and was cancelled by a reversing entry.
type EntryStatus string

const (
	Draft    EntryStatus = "DRAFT"
	Approved EntryStatus = "APPROVED"
	Rejected EntryStatus = "REJECTED"
	Reversed EntryStatus = "REVERSED"
)

// LineSide indicates whether a journal line is a debit or a credit.
type LineSide string

const (
	Debit  LineSide = "DEBIT"
	Credit LineSide = "CREDIT"
)

// JournalEntry represents a single balanced financial event composed of two
// or more lines. TotalDebit always equals TotalCredit once the entry exists.
type JournalEntry struct {
	EntryID          string          `json:"entryID"`     // Primary key (UUID)
	EntryNumber      string          `json:"entryNumber"` // Year-scoped sequence, e.g. "JE-2026-000042"
	EntryDate        time.Time       `json:"entryDate"`   // Date the event occurred
	Description      string          `json:"description"`
	Reference        string          `json:"reference"` // Optional external reference
	TotalDebit       decimal.Decimal `json:"totalDebit"`
	TotalCredit      decimal.Decimal `json:"totalCredit"`
	Status           EntryStatus     `json:"status"`
	SourceType       string          `json:"sourceType"` // Optional originating business event type
	SourceID         string          `json:"sourceID"`   // Optional originating business event id
	ApprovedBy       *string         `json:"approvedBy"`
	ApprovedAt       *time.Time      `json:"approvedAt"`
	// Reversal audit trail. A reversing entry points back at its original;
	// the original points forward once reversed.
	OriginalEntryID  *string       `json:"originalEntryID"`
	ReversingEntryID *string       `json:"reversingEntryID"`
	Lines            []JournalLine `json:"lines,omitempty"`
	AuditFields
}

// IsReversal reports whether this entry was created to cancel another.
func (e JournalEntry) IsReversal() bool {
	return e.OriginalEntryID != nil
}

// JournalLine is a single line within an entry, affecting one account.
// Exactly one of Debit and Credit is positive, never both, never neither.
type JournalLine struct {
	LineID      string          `json:"lineID"`  // Primary key (UUID)
	EntryID     string          `json:"entryID"` // Owning entry
	AccountID   string          `json:"accountID"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Reference   string          `json:"reference"`
	AuditFields
}

// Side returns which side of the ledger this line sits on.
func (l JournalLine) Side() LineSide {
	if l.Debit.IsPositive() {
		return Debit
	}
	return Credit
}

// Amount returns the positive amount of the line regardless of side.
func (l JournalLine) Amount() decimal.Decimal {
	if l.Debit.IsPositive() {
		return l.Debit
	}
	return l.Credit
}

// Swapped returns a copy of the line with debit and credit exchanged.
// Used when building reversing entries.
func (l JournalLine) Swapped() JournalLine {
	swapped := l
	swapped.Debit = l.Credit
	swapped.Credit = l.Debit
	return swapped
}

// EntryFilter narrows ListEntries results. Zero values mean "no filter".
type EntryFilter struct {
	Status     EntryStatus
	AccountID  string
	SourceType string
	CreatedBy  string
	DateFrom   *time.Time
	DateTo     *time.Time
	Search     string // Matches description, entry number, reference
	Limit      int
	Offset     int
}
