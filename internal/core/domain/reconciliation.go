package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReconciliationStatus is the state machine of a reconciliation report.
// DRAFT -> IN_PROGRESS (implicit on first item activity) -> COMPLETED ->
// REVIEWED. COMPLETED reports are terminal for routine edits; corrections
// require a new report.
type ReconciliationStatus string

const (
	ReconciliationDraft      ReconciliationStatus = "DRAFT"
	ReconciliationInProgress ReconciliationStatus = "IN_PROGRESS"
	ReconciliationCompleted  ReconciliationStatus = "COMPLETED"
	ReconciliationReviewed   ReconciliationStatus = "REVIEWED"
)

// ReconciliationItemType classifies a known reconciling difference.
type ReconciliationItemType string

const (
	ItemOutstandingCheck ReconciliationItemType = "outstanding_check"
	ItemDepositInTransit ReconciliationItemType = "deposit_in_transit"
	ItemBankCharge       ReconciliationItemType = "bank_charge"
	ItemInterestEarned   ReconciliationItemType = "interest_earned"
	ItemErrorCorrection  ReconciliationItemType = "error_correction"
)

// Subtracts reports whether this item type reduces the book balance when
// reconciled. Outstanding checks and bank charges subtract, everything else
// adds.
func (t ReconciliationItemType) Subtracts() bool {
	return t == ItemOutstandingCheck || t == ItemBankCharge
}

// ValidItemType reports whether t is one of the known item types.
func ValidItemType(t ReconciliationItemType) bool {
	switch t {
	case ItemOutstandingCheck, ItemDepositInTransit, ItemBankCharge, ItemInterestEarned, ItemErrorCorrection:
		return true
	}
	return false
}

// ReconciliationReport matches a ledger-derived book balance for one account
// over a period against an externally supplied statement balance.
// BookBalance is computed at creation from APPROVED lines only and never
// hand-edited; Variance is always recomputed.
type ReconciliationReport struct {
	ReportID          string                     `json:"reportID"`     // Primary key (UUID)
	ReportNumber      string                     `json:"reportNumber"` // Year-scoped sequence, e.g. "RR-2026-000007"
	AccountID         string                     `json:"accountID"`
	PeriodStart       time.Time                  `json:"periodStart"`
	PeriodEnd         time.Time                  `json:"periodEnd"`
	FiscalYear        int                        `json:"fiscalYear"`
	BookBalance       decimal.Decimal            `json:"bookBalance"`
	StatementBalance  decimal.Decimal            `json:"statementBalance"`
	ReconciledBalance decimal.Decimal            `json:"reconciledBalance"`
	Variance          decimal.Decimal            `json:"variance"`
	Status            ReconciliationStatus       `json:"status"`
	ReconciledBy      *string                    `json:"reconciledBy"`
	ReconciledAt      *time.Time                 `json:"reconciledAt"`
	ReviewedBy        *string                    `json:"reviewedBy"`
	ReviewedAt        *time.Time                 `json:"reviewedAt"`
	Notes             string                     `json:"notes"`
	Items             []ReconciliationItem       `json:"items,omitempty"`
	Adjustments       []ReconciliationAdjustment `json:"adjustments,omitempty"`
	AuditFields
}

// IsClosed reports whether the report no longer accepts items or adjustments.
func (r ReconciliationReport) IsClosed() bool {
	return r.Status == ReconciliationCompleted || r.Status == ReconciliationReviewed
}

// ReconciliationItem is a known reconciling difference tracked on a report.
// Marking an item reconciled is a one-way transition.
type ReconciliationItem struct {
	ItemID        string                 `json:"itemID"` // Primary key (UUID)
	ReportID      string                 `json:"reportID"`
	ItemType      ReconciliationItemType `json:"itemType"`
	Amount        decimal.Decimal        `json:"amount"`
	IsReconciled  bool                   `json:"isReconciled"`
	ReconciledAt  *time.Time             `json:"reconciledAt"`
	Notes         string                 `json:"notes"`
	SourceEntryID *string                `json:"sourceEntryID"` // Optional link back to a ledger entry
	AuditFields
}

// ReconciliationAdjustment is a manual correction on a report. Every
// adjustment is backed by exactly one posted two-line journal entry; an
// adjustment row without its entry must never exist.
type ReconciliationAdjustment struct {
	AdjustmentID   string          `json:"adjustmentID"` // Primary key (UUID)
	ReportID       string          `json:"reportID"`
	Amount         decimal.Decimal `json:"amount"`
	AdjustmentType LineSide        `json:"adjustmentType"` // DEBIT or CREDIT against the reconciled account
	Reason         string          `json:"reason"`         // Mandatory, auditable
	EntryID        string          `json:"entryID"`        // Backing posted journal entry
	AuditFields
}

// ReconciliationFilter narrows ListReconciliations results.
type ReconciliationFilter struct {
	AccountID  string
	Status     ReconciliationStatus
	FiscalYear int
	Limit      int
	Offset     int
}
