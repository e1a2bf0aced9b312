package mapping

import (
	"github.com/retailsuite/ledger-engine/internal/core/domain"
	"github.com/retailsuite/ledger-engine/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry to a model JournalEntry.
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:          d.EntryID,
		EntryNumber:      d.EntryNumber,
		EntryDate:        d.EntryDate,
		Description:      d.Description,
		Reference:        d.Reference,
		TotalDebit:       d.TotalDebit,
		TotalCredit:      d.TotalCredit,
		Status:           models.EntryStatus(d.Status),
		SourceType:       d.SourceType,
		SourceID:         d.SourceID,
		ApprovedBy:       d.ApprovedBy,
		ApprovedAt:       d.ApprovedAt,
		OriginalEntryID:  d.OriginalEntryID,
		ReversingEntryID: d.ReversingEntryID,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalEntry converts a model JournalEntry to a domain JournalEntry.
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:          m.EntryID,
		EntryNumber:      m.EntryNumber,
		EntryDate:        m.EntryDate,
		Description:      m.Description,
		Reference:        m.Reference,
		TotalDebit:       m.TotalDebit,
		TotalCredit:      m.TotalCredit,
		Status:           domain.EntryStatus(m.Status),
		SourceType:       m.SourceType,
		SourceID:         m.SourceID,
		ApprovedBy:       m.ApprovedBy,
		ApprovedAt:       m.ApprovedAt,
		OriginalEntryID:  m.OriginalEntryID,
		ReversingEntryID: m.ReversingEntryID,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelJournalLine converts a domain JournalLine to a model JournalLine.
func ToModelJournalLine(d domain.JournalLine) models.JournalLine {
	return models.JournalLine{
		LineID:      d.LineID,
		EntryID:     d.EntryID,
		AccountID:   d.AccountID,
		Description: d.Description,
		Debit:       d.Debit,
		Credit:      d.Credit,
		Reference:   d.Reference,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalLine converts a model JournalLine to a domain JournalLine.
func ToDomainJournalLine(m models.JournalLine) domain.JournalLine {
	return domain.JournalLine{
		LineID:      m.LineID,
		EntryID:     m.EntryID,
		AccountID:   m.AccountID,
		Description: m.Description,
		Debit:       m.Debit,
		Credit:      m.Credit,
		Reference:   m.Reference,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainJournalLineSlice converts a slice of model JournalLines.
func ToDomainJournalLineSlice(ms []models.JournalLine) []domain.JournalLine {
	ds := make([]domain.JournalLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournalLine(m)
	}
	return ds
}
