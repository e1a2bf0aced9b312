package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReconciliationReport is the database representation of a report header.
type ReconciliationReport struct {
	ReportID          string
	ReportNumber      string
	AccountID         string
	PeriodStart       time.Time
	PeriodEnd         time.Time
	FiscalYear        int
	BookBalance       decimal.Decimal
	StatementBalance  decimal.Decimal
	ReconciledBalance decimal.Decimal
	Variance          decimal.Decimal
	Status            string
	ReconciledBy      *string
	ReconciledAt      *time.Time
	ReviewedBy        *string
	ReviewedAt        *time.Time
	Notes             string
	AuditFields
}

// ReconciliationItem is the database representation of a reconciling item.
type ReconciliationItem struct {
	ItemID        string
	ReportID      string
	ItemType      string
	Amount        decimal.Decimal
	IsReconciled  bool
	ReconciledAt  *time.Time
	Notes         string
	SourceEntryID *string
	AuditFields
}

// ReconciliationAdjustment is the database representation of a manual
// adjustment and its link to the backing journal entry.
type ReconciliationAdjustment struct {
	AdjustmentID   string
	ReportID       string
	Amount         decimal.Decimal
	AdjustmentType string
	Reason         string
	EntryID        string
	AuditFields
}
