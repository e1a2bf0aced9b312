package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus mirrors domain.EntryStatus at the persistence boundary.
type EntryStatus string

const (
	Draft    EntryStatus = "DRAFT"
	Approved EntryStatus = "APPROVED"
	Rejected EntryStatus = "REJECTED"
	Reversed EntryStatus = "REVERSED"
)

// JournalEntry is the database representation of a journal entry header.
type JournalEntry struct {
	EntryID          string
	EntryNumber      string
	EntryDate        time.Time
	Description      string
	Reference        string
	TotalDebit       decimal.Decimal
	TotalCredit      decimal.Decimal
	Status           EntryStatus
	SourceType       string
	SourceID         string
	ApprovedBy       *string
	ApprovedAt       *time.Time
	OriginalEntryID  *string
	ReversingEntryID *string
	AuditFields
}

// JournalLine is the database representation of one entry line.
type JournalLine struct {
	LineID      string
	EntryID     string
	AccountID   string
	Description string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Reference   string
	AuditFields
}
