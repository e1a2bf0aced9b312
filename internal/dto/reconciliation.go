package dto

import (
	"time"

	"github.com/retailsuite/ledger-engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateReconciliationRequest opens a reconciliation report for one account
// and period against an externally supplied statement balance.
type CreateReconciliationRequest struct {
	AccountID        string          `json:"accountID" binding:"required"`
	PeriodStart      time.Time       `json:"periodStart" binding:"required"`
	PeriodEnd        time.Time       `json:"periodEnd" binding:"required"`
	FiscalYear       int             `json:"fiscalYear" binding:"required"`
	StatementBalance decimal.Decimal `json:"statementBalance"`
	Notes            string          `json:"notes"`
}

// AddReconciliationItemRequest records a known reconciling difference.
type AddReconciliationItemRequest struct {
	ItemType      string          `json:"itemType" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Notes         string          `json:"notes"`
	SourceEntryID *string         `json:"sourceEntryID"`
}

// AddReconciliationAdjustmentRequest records a manual correction. The engine
// creates and posts the backing journal entry before the adjustment exists.
type AddReconciliationAdjustmentRequest struct {
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	AdjustmentType string          `json:"adjustmentType" binding:"required,oneof=DEBIT CREDIT"`
	Reason         string          `json:"reason" binding:"required"`
}

// ListReconciliationsParams pages and filters report listings.
type ListReconciliationsParams struct {
	AccountID  string `form:"accountID"`
	Status     string `form:"status"`
	FiscalYear int    `form:"fiscalYear"`
	Limit      int    `form:"limit"`
	Offset     int    `form:"offset"`
}

// ReconciliationItemResponse is the API shape of a reconciling item.
type ReconciliationItemResponse struct {
	ItemID        string          `json:"itemID"`
	ItemType      string          `json:"itemType"`
	Amount        decimal.Decimal `json:"amount"`
	IsReconciled  bool            `json:"isReconciled"`
	ReconciledAt  *time.Time      `json:"reconciledAt,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	SourceEntryID *string         `json:"sourceEntryID,omitempty"`
}

// ReconciliationAdjustmentResponse is the API shape of a manual adjustment.
type ReconciliationAdjustmentResponse struct {
	AdjustmentID   string          `json:"adjustmentID"`
	Amount         decimal.Decimal `json:"amount"`
	AdjustmentType string          `json:"adjustmentType"`
	Reason         string          `json:"reason"`
	EntryID        string          `json:"entryID"`
	CreatedBy      string          `json:"createdBy"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// ReconciliationReportResponse is the API shape of a report with its items
// and adjustments.
type ReconciliationReportResponse struct {
	ReportID          string                             `json:"reportID"`
	ReportNumber      string                             `json:"reportNumber"`
	AccountID         string                             `json:"accountID"`
	PeriodStart       time.Time                          `json:"periodStart"`
	PeriodEnd         time.Time                          `json:"periodEnd"`
	FiscalYear        int                                `json:"fiscalYear"`
	BookBalance       decimal.Decimal                    `json:"bookBalance"`
	StatementBalance  decimal.Decimal                    `json:"statementBalance"`
	ReconciledBalance decimal.Decimal                    `json:"reconciledBalance"`
	Variance          decimal.Decimal                    `json:"variance"`
	Status            string                             `json:"status"`
	ReconciledBy      *string                            `json:"reconciledBy,omitempty"`
	ReconciledAt      *time.Time                         `json:"reconciledAt,omitempty"`
	ReviewedBy        *string                            `json:"reviewedBy,omitempty"`
	ReviewedAt        *time.Time                         `json:"reviewedAt,omitempty"`
	Notes             string                             `json:"notes,omitempty"`
	Items             []ReconciliationItemResponse       `json:"items,omitempty"`
	Adjustments       []ReconciliationAdjustmentResponse `json:"adjustments,omitempty"`
	CreatedAt         time.Time                          `json:"createdAt"`
	CreatedBy         string                             `json:"createdBy"`
}

// ListReconciliationsResponse is a page of reports plus the total count.
type ListReconciliationsResponse struct {
	Reports []ReconciliationReportResponse `json:"reports"`
	Total   int64                          `json:"total"`
	Limit   int                            `json:"limit"`
	Offset  int                            `json:"offset"`
}

// ToReconciliationItemResponse converts a domain item to its API shape.
func ToReconciliationItemResponse(item domain.ReconciliationItem) ReconciliationItemResponse {
	return ReconciliationItemResponse{
		ItemID:        item.ItemID,
		ItemType:      string(item.ItemType),
		Amount:        item.Amount,
		IsReconciled:  item.IsReconciled,
		ReconciledAt:  item.ReconciledAt,
		Notes:         item.Notes,
		SourceEntryID: item.SourceEntryID,
	}
}

// ToReconciliationAdjustmentResponse converts a domain adjustment to its API shape.
func ToReconciliationAdjustmentResponse(adj domain.ReconciliationAdjustment) ReconciliationAdjustmentResponse {
	return ReconciliationAdjustmentResponse{
		AdjustmentID:   adj.AdjustmentID,
		Amount:         adj.Amount,
		AdjustmentType: string(adj.AdjustmentType),
		Reason:         adj.Reason,
		EntryID:        adj.EntryID,
		CreatedBy:      adj.CreatedBy,
		CreatedAt:      adj.CreatedAt,
	}
}

// ToReconciliationReportResponse converts a domain report to its API shape.
func ToReconciliationReportResponse(r *domain.ReconciliationReport) ReconciliationReportResponse {
	resp := ReconciliationReportResponse{
		ReportID:          r.ReportID,
		ReportNumber:      r.ReportNumber,
		AccountID:         r.AccountID,
		PeriodStart:       r.PeriodStart,
		PeriodEnd:         r.PeriodEnd,
		FiscalYear:        r.FiscalYear,
		BookBalance:       r.BookBalance,
		StatementBalance:  r.StatementBalance,
		ReconciledBalance: r.ReconciledBalance,
		Variance:          r.Variance,
		Status:            string(r.Status),
		ReconciledBy:      r.ReconciledBy,
		ReconciledAt:      r.ReconciledAt,
		ReviewedBy:        r.ReviewedBy,
		ReviewedAt:        r.ReviewedAt,
		Notes:             r.Notes,
		CreatedAt:         r.CreatedAt,
		CreatedBy:         r.CreatedBy,
	}
	if len(r.Items) > 0 {
		resp.Items = make([]ReconciliationItemResponse, len(r.Items))
		for i, item := range r.Items {
			resp.Items[i] = ToReconciliationItemResponse(item)
		}
	}
	if len(r.Adjustments) > 0 {
		resp.Adjustments = make([]ReconciliationAdjustmentResponse, len(r.Adjustments))
		for i, adj := range r.Adjustments {
			resp.Adjustments[i] = ToReconciliationAdjustmentResponse(adj)
		}
	}
	return resp
}
