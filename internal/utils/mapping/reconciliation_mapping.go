package mapping

import (
	"github.com/retailsuite/ledger-engine/internal/core/domain"
	"github.com/retailsuite/ledger-engine/internal/models"
)

// ToModelReconciliationReport converts a domain report to its model form.
func ToModelReconciliationReport(d domain.ReconciliationReport) models.ReconciliationReport {
	return models.ReconciliationReport{
		ReportID:          d.ReportID,
		ReportNumber:      d.ReportNumber,
		AccountID:         d.AccountID,
		PeriodStart:       d.PeriodStart,
		PeriodEnd:         d.PeriodEnd,
		FiscalYear:        d.FiscalYear,
		BookBalance:       d.BookBalance,
		StatementBalance:  d.StatementBalance,
		ReconciledBalance: d.ReconciledBalance,
		Variance:          d.Variance,
		Status:            string(d.Status),
		ReconciledBy:      d.ReconciledBy,
		ReconciledAt:      d.ReconciledAt,
		ReviewedBy:        d.ReviewedBy,
		ReviewedAt:        d.ReviewedAt,
		Notes:             d.Notes,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainReconciliationReport converts a model report to its domain form.
func ToDomainReconciliationReport(m models.ReconciliationReport) domain.ReconciliationReport {
	return domain.ReconciliationReport{
		ReportID:          m.ReportID,
		ReportNumber:      m.ReportNumber,
		AccountID:         m.AccountID,
		PeriodStart:       m.PeriodStart,
		PeriodEnd:         m.PeriodEnd,
		FiscalYear:        m.FiscalYear,
		BookBalance:       m.BookBalance,
		StatementBalance:  m.StatementBalance,
		ReconciledBalance: m.ReconciledBalance,
		Variance:          m.Variance,
		Status:            domain.ReconciliationStatus(m.Status),
		ReconciledBy:      m.ReconciledBy,
		ReconciledAt:      m.ReconciledAt,
		ReviewedBy:        m.ReviewedBy,
		ReviewedAt:        m.ReviewedAt,
		Notes:             m.Notes,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelReconciliationItem converts a domain item to its model form.
func ToModelReconciliationItem(d domain.ReconciliationItem) models.ReconciliationItem {
	return models.ReconciliationItem{
		ItemID:        d.ItemID,
		ReportID:      d.ReportID,
		ItemType:      string(d.ItemType),
		Amount:        d.Amount,
		IsReconciled:  d.IsReconciled,
		ReconciledAt:  d.ReconciledAt,
		Notes:         d.Notes,
		SourceEntryID: d.SourceEntryID,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainReconciliationItem converts a model item to its domain form.
func ToDomainReconciliationItem(m models.ReconciliationItem) domain.ReconciliationItem {
	return domain.ReconciliationItem{
		ItemID:        m.ItemID,
		ReportID:      m.ReportID,
		ItemType:      domain.ReconciliationItemType(m.ItemType),
		Amount:        m.Amount,
		IsReconciled:  m.IsReconciled,
		ReconciledAt:  m.ReconciledAt,
		Notes:         m.Notes,
		SourceEntryID: m.SourceEntryID,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainReconciliationItemSlice converts a slice of model items.
func ToDomainReconciliationItemSlice(ms []models.ReconciliationItem) []domain.ReconciliationItem {
	ds := make([]domain.ReconciliationItem, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainReconciliationItem(m)
	}
	return ds
}

// ToModelReconciliationAdjustment converts a domain adjustment to its model form.
func ToModelReconciliationAdjustment(d domain.ReconciliationAdjustment) models.ReconciliationAdjustment {
	return models.ReconciliationAdjustment{
		AdjustmentID:   d.AdjustmentID,
		ReportID:       d.ReportID,
		Amount:         d.Amount,
		AdjustmentType: string(d.AdjustmentType),
		Reason:         d.Reason,
		EntryID:        d.EntryID,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainReconciliationAdjustment converts a model adjustment to its domain form.
func ToDomainReconciliationAdjustment(m models.ReconciliationAdjustment) domain.ReconciliationAdjustment {
	return domain.ReconciliationAdjustment{
		AdjustmentID:   m.AdjustmentID,
		ReportID:       m.ReportID,
		Amount:         m.Amount,
		AdjustmentType: domain.LineSide(m.AdjustmentType),
		Reason:         m.Reason,
		EntryID:        m.EntryID,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainReconciliationAdjustmentSlice converts a slice of model adjustments.
func ToDomainReconciliationAdjustmentSlice(ms []models.ReconciliationAdjustment) []domain.ReconciliationAdjustment {
	ds := make([]domain.ReconciliationAdjustment, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainReconciliationAdjustment(m)
	}
	return ds
}
