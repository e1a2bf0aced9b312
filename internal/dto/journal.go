package dto

import (
	"time"

	"github.com/retailsuite/ledger-engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateJournalLineRequest is one line of a new journal entry. Exactly one of
// debit and credit must be positive; the service validates the pairing.
type CreateJournalLineRequest struct {
	AccountID   string          `json:"accountID" binding:"required"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Reference   string          `json:"reference"`
}

// CreateJournalEntryRequest creates a draft journal entry.
type CreateJournalEntryRequest struct {
	EntryDate   time.Time                  `json:"entryDate" binding:"required"`
	Description string                     `json:"description" binding:"required"`
	Reference   string                     `json:"reference"`
	SourceType  string                     `json:"sourceType"`
	SourceID    string                     `json:"sourceID"`
	Lines       []CreateJournalLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// ReverseJournalEntryRequest reverses an approved entry.
type ReverseJournalEntryRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ListJournalEntriesParams narrows and pages ListEntries.
type ListJournalEntriesParams struct {
	Status     string     `form:"status"`
	AccountID  string     `form:"accountID"`
	SourceType string     `form:"sourceType"`
	CreatedBy  string     `form:"createdBy"`
	DateFrom   *time.Time `form:"dateFrom" time_format:"2006-01-02"`
	DateTo     *time.Time `form:"dateTo" time_format:"2006-01-02"`
	Search     string     `form:"search"`
	Limit      int        `form:"limit"`
	Offset     int        `form:"offset"`
}

// JournalLineResponse is the API shape of one entry line.
type JournalLineResponse struct {
	LineID      string          `json:"lineID"`
	AccountID   string          `json:"accountID"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Reference   string          `json:"reference"`
}

// JournalEntryResponse is the API shape of an entry header with lines.
type JournalEntryResponse struct {
	EntryID          string                `json:"entryID"`
	EntryNumber      string                `json:"entryNumber"`
	EntryDate        time.Time             `json:"entryDate"`
	Description      string                `json:"description"`
	Reference        string                `json:"reference,omitempty"`
	TotalDebit       decimal.Decimal       `json:"totalDebit"`
	TotalCredit      decimal.Decimal       `json:"totalCredit"`
	Status           string                `json:"status"`
	SourceType       string                `json:"sourceType,omitempty"`
	SourceID         string                `json:"sourceID,omitempty"`
	ApprovedBy       *string               `json:"approvedBy,omitempty"`
	ApprovedAt       *time.Time            `json:"approvedAt,omitempty"`
	OriginalEntryID  *string               `json:"originalEntryID,omitempty"`
	ReversingEntryID *string               `json:"reversingEntryID,omitempty"`
	CreatedAt        time.Time             `json:"createdAt"`
	CreatedBy        string                `json:"createdBy"`
	Lines            []JournalLineResponse `json:"lines,omitempty"`
}

// ListJournalEntriesResponse is a page of entries plus the total count
// independent of the page window.
type ListJournalEntriesResponse struct {
	Entries []JournalEntryResponse `json:"entries"`
	Total   int64                  `json:"total"`
	Limit   int                    `json:"limit"`
	Offset  int                    `json:"offset"`
}

// ToJournalLineResponse converts a domain line to its API shape.
func ToJournalLineResponse(l domain.JournalLine) JournalLineResponse {
	return JournalLineResponse{
		LineID:      l.LineID,
		AccountID:   l.AccountID,
		Description: l.Description,
		Debit:       l.Debit,
		Credit:      l.Credit,
		Reference:   l.Reference,
	}
}

// ToJournalEntryResponse converts a domain entry to its API shape.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	resp := JournalEntryResponse{
		EntryID:          e.EntryID,
		EntryNumber:      e.EntryNumber,
		EntryDate:        e.EntryDate,
		Description:      e.Description,
		Reference:        e.Reference,
		TotalDebit:       e.TotalDebit,
		TotalCredit:      e.TotalCredit,
		Status:           string(e.Status),
		SourceType:       e.SourceType,
		SourceID:         e.SourceID,
		ApprovedBy:       e.ApprovedBy,
		ApprovedAt:       e.ApprovedAt,
		OriginalEntryID:  e.OriginalEntryID,
		ReversingEntryID: e.ReversingEntryID,
		CreatedAt:        e.CreatedAt,
		CreatedBy:        e.CreatedBy,
	}
	if len(e.Lines) > 0 {
		resp.Lines = make([]JournalLineResponse, len(e.Lines))
		for i, l := range e.Lines {
			resp.Lines[i] = ToJournalLineResponse(l)
		}
	}
	return resp
}
