package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailsuite/ledger-engine/internal/apperrors"
	"github.com/retailsuite/ledger-engine/internal/core/domain"
	portsrepo "github.com/retailsuite/ledger-engine/internal/core/ports/repositories"
	portssvc "github.com/retailsuite/ledger-engine/internal/core/ports/services"
	"github.com/retailsuite/ledger-engine/internal/dto"
	"github.com/retailsuite/ledger-engine/internal/middleware"
)

// reconciliationService matches ledger-derived book balances against
// externally supplied statement balances and tracks the items and manual
// adjustments that explain the difference.
type reconciliationService struct {
	reconRepo  portsrepo.ReconciliationRepositoryFacade
	accountSvc portssvc.AccountSvcFacade
	// threshold is the maximum variance at which a report may complete.
	threshold decimal.Decimal
	// offsetCode is the account code debited/credited opposite the
	// reconciled account on every manual adjustment entry.
	offsetCode string
}

// NewReconciliationService creates a new ReconciliationService.
func NewReconciliationService(reconRepo portsrepo.ReconciliationRepositoryFacade, accountSvc portssvc.AccountSvcFacade, threshold decimal.Decimal, offsetCode string) portssvc.ReconciliationSvcFacade {
	return &reconciliationService{
		reconRepo:  reconRepo,
		accountSvc: accountSvc,
		threshold:  threshold,
		offsetCode: offsetCode,
	}
}

var _ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)

// recomputeBalances derives the reconciled balance and variance from first
// principles: book balance, plus every reconciled item with its type sign,
// plus every adjustment netted debit-positive. Variance is never hand-edited.
func recomputeBalances(report *domain.ReconciliationReport, items []domain.ReconciliationItem, adjustments []domain.ReconciliationAdjustment) {
	reconciled := report.BookBalance
	for _, item := range items {
		if !item.IsReconciled {
			continue
		}
		if item.ItemType.Subtracts() {
			reconciled = reconciled.Sub(item.Amount)
		} else {
			reconciled = reconciled.Add(item.Amount)
		}
	}
	for _, adj := range adjustments {
		if adj.AdjustmentType == domain.Debit {
			reconciled = reconciled.Add(adj.Amount)
		} else {
			reconciled = reconciled.Sub(adj.Amount)
		}
	}
	report.ReconciledBalance = reconciled
	report.Variance = reconciled.Sub(report.StatementBalance).Abs()
}

// loadReportWithChildren fetches a report plus its items and adjustments.
func (s *reconciliationService) loadReportWithChildren(ctx context.Context, reportID string) (*domain.ReconciliationReport, error) {
	report, err := s.reconRepo.FindReportByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewReconciliationError(reportID, "report not found", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find reconciliation %s: %w", reportID, err)
	}

	items, err := s.reconRepo.FindItemsByReportID(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("failed to load items for reconciliation %s: %w", reportID, err)
	}
	adjustments, err := s.reconRepo.FindAdjustmentsByReportID(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("failed to load adjustments for reconciliation %s: %w", reportID, err)
	}
	report.Items = items
	report.Adjustments = adjustments
	return report, nil
}

// CreateReconciliation opens a report, deriving the book balance from
// APPROVED ledger lines only — drafts never move a book balance.
func (s *reconciliationService) CreateReconciliation(ctx context.Context, req dto.CreateReconciliationRequest, creator string) (*domain.ReconciliationReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.PeriodEnd.After(req.PeriodStart) && !req.PeriodEnd.Equal(req.PeriodStart) {
		return nil, apperrors.NewValidationError("period end must not precede period start")
	}

	account, err := s.accountSvc.GetAccountByID(ctx, req.AccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewReconciliationError("", fmt.Sprintf("account %s not found", req.AccountID), apperrors.ErrNotFound)
		}
		return nil, err
	}

	bookBalance, err := s.reconRepo.SumApprovedLineMovement(ctx, account.AccountID, req.PeriodStart, req.PeriodEnd)
	if err != nil {
		logger.Error("Failed to derive book balance", slog.String("account_id", account.AccountID), slog.String("error", err.Error()))
		return nil, apperrors.NewReconciliationError("", "book balance calculation failed", err)
	}

	now := time.Now().UTC()
	report := domain.ReconciliationReport{
		ReportID:          uuid.NewString(),
		AccountID:         account.AccountID,
		PeriodStart:       req.PeriodStart,
		PeriodEnd:         req.PeriodEnd,
		FiscalYear:        req.FiscalYear,
		BookBalance:       bookBalance,
		StatementBalance:  req.StatementBalance,
		ReconciledBalance: bookBalance,
		Variance:          bookBalance.Sub(req.StatementBalance).Abs(),
		Status:            domain.ReconciliationDraft,
		Notes:             req.Notes,
		AuditFields:       domain.NewAuditFields(creator, now),
	}

	reportNumber, err := s.reconRepo.SaveReport(ctx, report)
	if err != nil {
		logger.Error("Failed to save reconciliation report", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save reconciliation report: %w", err)
	}
	report.ReportNumber = reportNumber

	logger.Info("Reconciliation report created",
		slog.String("report_id", report.ReportID),
		slog.String("report_number", report.ReportNumber),
		slog.String("account_id", report.AccountID),
		slog.String("book_balance", report.BookBalance.String()),
		slog.String("variance", report.Variance.String()))
	return &report, nil
}

// GetReconciliation retrieves a report with its items and adjustments.
func (s *reconciliationService) GetReconciliation(ctx context.Context, reportID string) (*domain.ReconciliationReport, error) {
	return s.loadReportWithChildren(ctx, reportID)
}

// ListReconciliations returns one page of reports plus the total count.
func (s *reconciliationService) ListReconciliations(ctx context.Context, params dto.ListReconciliationsParams) (*dto.ListReconciliationsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	filter := domain.ReconciliationFilter{
		AccountID:  params.AccountID,
		Status:     domain.ReconciliationStatus(params.Status),
		FiscalYear: params.FiscalYear,
		Limit:      limit,
		Offset:     offset,
	}

	reports, total, err := s.reconRepo.ListReports(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list reconciliations: %w", err)
	}

	responses := make([]dto.ReconciliationReportResponse, len(reports))
	for i := range reports {
		responses[i] = dto.ToReconciliationReportResponse(&reports[i])
	}

	return &dto.ListReconciliationsResponse{
		Reports: responses,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
	}, nil
}

// AddItem records a known reconciling difference. The report moves to
// IN_PROGRESS on first item activity; balances only change once the item is
// marked reconciled.
func (s *reconciliationService) AddItem(ctx context.Context, reportID string, req dto.AddReconciliationItemRequest, creator string) (*domain.ReconciliationItem, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	itemType := domain.ReconciliationItemType(req.ItemType)
	if !domain.ValidItemType(itemType) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown item type %q", req.ItemType))
	}
	if !req.Amount.IsPositive() {
		return nil, apperrors.NewValidationError("item amount must be positive")
	}

	report, err := s.loadReportWithChildren(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.IsClosed() {
		return nil, apperrors.NewReconciliationError(reportID, fmt.Sprintf("report is %s and no longer accepts items", report.Status), apperrors.ErrConflict)
	}

	now := time.Now().UTC()
	item := domain.ReconciliationItem{
		ItemID:        uuid.NewString(),
		ReportID:      reportID,
		ItemType:      itemType,
		Amount:        req.Amount,
		IsReconciled:  false,
		Notes:         req.Notes,
		SourceEntryID: req.SourceEntryID,
		AuditFields:   domain.NewAuditFields(creator, now),
	}

	if report.Status == domain.ReconciliationDraft {
		report.Status = domain.ReconciliationInProgress
	}
	recomputeBalances(report, append(report.Items, item), report.Adjustments)
	report.LastUpdatedAt = now
	report.LastUpdatedBy = creator

	if err := s.reconRepo.SaveItem(ctx, item, *report); err != nil {
		logger.Error("Failed to save reconciliation item", slog.String("report_id", reportID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save reconciliation item: %w", err)
	}

	logger.Info("Reconciliation item added",
		slog.String("report_id", reportID),
		slog.String("item_id", item.ItemID),
		slog.String("item_type", string(item.ItemType)))
	return &item, nil
}

// ReconcileItem marks an item reconciled. The transition is one-way and
// timestamped at the moment of the call; there is no un-reconcile path.
func (s *reconciliationService) ReconcileItem(ctx context.Context, reportID string, itemID string, userID string) (*domain.ReconciliationItem, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	report, err := s.loadReportWithChildren(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.IsClosed() {
		return nil, apperrors.NewReconciliationError(reportID, fmt.Sprintf("report is %s and no longer accepts changes", report.Status), apperrors.ErrConflict)
	}

	var target *domain.ReconciliationItem
	for i := range report.Items {
		if report.Items[i].ItemID == itemID {
			target = &report.Items[i]
			break
		}
	}
	if target == nil {
		return nil, apperrors.NewReconciliationError(reportID, fmt.Sprintf("item %s not found on report", itemID), apperrors.ErrNotFound)
	}
	if target.IsReconciled {
		return nil, apperrors.NewReconciliationError(reportID, fmt.Sprintf("item %s is already reconciled", itemID), apperrors.ErrConflict)
	}

	now := time.Now().UTC()
	target.IsReconciled = true
	target.ReconciledAt = &now
	target.LastUpdatedAt = now
	target.LastUpdatedBy = userID

	if report.Status == domain.ReconciliationDraft {
		report.Status = domain.ReconciliationInProgress
	}
	recomputeBalances(report, report.Items, report.Adjustments)
	report.LastUpdatedAt = now
	report.LastUpdatedBy = userID

	if err := s.reconRepo.MarkItemReconciled(ctx, itemID, now, *report); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, apperrors.NewReconciliationError(reportID, fmt.Sprintf("item %s is already reconciled", itemID), apperrors.ErrConflict)
		}
		logger.Error("Failed to mark item reconciled", slog.String("item_id", itemID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to mark item reconciled: %w", err)
	}

	logger.Info("Reconciliation item reconciled",
		slog.String("report_id", reportID),
		slog.String("item_id", itemID),
		slog.String("variance", report.Variance.String()))
	return target, nil
}

// AddManualAdjustment records a manual correction. The backing journal entry
// — two balanced lines against the configured offset account, posted
// immediately — and the adjustment row are written in one transaction: an
// adjustment without its entry can never exist, and a failed entry aborts
// the whole operation.
func (s *reconciliationService) AddManualAdjustment(ctx context.Context, reportID string, req dto.AddReconciliationAdjustmentRequest, creator string) (*domain.ReconciliationAdjustment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, apperrors.NewValidationError("adjustment amount must be positive")
	}
	adjustmentType := domain.LineSide(req.AdjustmentType)
	if adjustmentType != domain.Debit && adjustmentType != domain.Credit {
		return nil, apperrors.NewValidationError(fmt.Sprintf("adjustment type must be %s or %s", domain.Debit, domain.Credit))
	}
	if req.Reason == "" {
		return nil, apperrors.NewValidationError("adjustment reason is required")
	}

	report, err := s.loadReportWithChildren(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.IsClosed() {
		return nil, apperrors.NewReconciliationError(reportID, fmt.Sprintf("report is %s and no longer accepts adjustments", report.Status), apperrors.ErrConflict)
	}

	// Resolve both legs before anything is written; an unresolved offset
	// account is a configuration problem surfaced as AccountMappingError.
	reconciledAccount, err := s.accountSvc.GetAccountByID(ctx, report.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve reconciled account: %w", err)
	}
	offsetAccount, err := s.accountSvc.GetAccountByCode(ctx, s.offsetCode)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entryID := uuid.NewString()
	description := fmt.Sprintf("Reconciliation adjustment for %s: %s", report.ReportNumber, req.Reason)

	targetLine := domain.JournalLine{
		LineID:      uuid.NewString(),
		EntryID:     entryID,
		AccountID:   reconciledAccount.AccountID,
		Description: description,
		Reference:   report.ReportNumber,
		AuditFields: domain.NewAuditFields(creator, now),
	}
	offsetLine := domain.JournalLine{
		LineID:      uuid.NewString(),
		EntryID:     entryID,
		AccountID:   offsetAccount.AccountID,
		Description: description,
		Reference:   report.ReportNumber,
		AuditFields: domain.NewAuditFields(creator, now),
	}
	if adjustmentType == domain.Debit {
		targetLine.Debit = req.Amount
		offsetLine.Credit = req.Amount
	} else {
		targetLine.Credit = req.Amount
		offsetLine.Debit = req.Amount
	}

	entry := domain.JournalEntry{
		EntryID:     entryID,
		EntryDate:   now,
		Description: description,
		Reference:   report.ReportNumber,
		TotalDebit:  req.Amount,
		TotalCredit: req.Amount,
		Status:      domain.Approved,
		SourceType:  "reconciliation_adjustment",
		SourceID:    report.ReportID,
		ApprovedBy:  &creator,
		ApprovedAt:  &now,
		AuditFields: domain.NewAuditFields(creator, now),
	}

	adjustment := domain.ReconciliationAdjustment{
		AdjustmentID:   uuid.NewString(),
		ReportID:       reportID,
		Amount:         req.Amount,
		AdjustmentType: adjustmentType,
		Reason:         req.Reason,
		EntryID:        entryID,
		AuditFields:    domain.NewAuditFields(creator, now),
	}

	if report.Status == domain.ReconciliationDraft {
		report.Status = domain.ReconciliationInProgress
	}
	recomputeBalances(report, report.Items, append(report.Adjustments, adjustment))
	report.LastUpdatedAt = now
	report.LastUpdatedBy = creator

	entryNumber, err := s.reconRepo.SaveAdjustmentWithEntry(ctx, adjustment, entry, []domain.JournalLine{targetLine, offsetLine}, *report)
	if err != nil {
		logger.Error("Failed to save adjustment with backing entry",
			slog.String("report_id", reportID),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save adjustment: %w", err)
	}

	logger.Info("Manual adjustment recorded",
		slog.String("report_id", reportID),
		slog.String("adjustment_id", adjustment.AdjustmentID),
		slog.String("entry_number", entryNumber),
		slog.String("variance", report.Variance.String()))
	return &adjustment, nil
}

// CompleteReconciliation closes the report. Completion is gated on variance:
// a report may only complete when variance is within the configured
// threshold (boundary inclusive).
func (s *reconciliationService) CompleteReconciliation(ctx context.Context, reportID string, reconciler string) (*domain.ReconciliationReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	report, err := s.loadReportWithChildren(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.IsClosed() {
		return nil, apperrors.NewReconciliationError(reportID, fmt.Sprintf("report is already %s", report.Status), apperrors.ErrConflict)
	}

	if report.Variance.GreaterThan(s.threshold) {
		return nil, apperrors.NewReconciliationError(reportID,
			fmt.Sprintf("variance %s exceeds completion threshold %s", report.Variance.String(), s.threshold.String()),
			apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	if err := s.reconRepo.MarkReportCompleted(ctx, reportID, reconciler, now); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, apperrors.NewReconciliationError(reportID, "report was completed concurrently", apperrors.ErrConflict)
		}
		logger.Error("Failed to complete reconciliation", slog.String("report_id", reportID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to complete reconciliation: %w", err)
	}

	report.Status = domain.ReconciliationCompleted
	report.ReconciledBy = &reconciler
	report.ReconciledAt = &now
	report.LastUpdatedAt = now
	report.LastUpdatedBy = reconciler

	logger.Info("Reconciliation completed",
		slog.String("report_id", reportID),
		slog.String("reconciler", reconciler),
		slog.String("variance", report.Variance.String()))
	return report, nil
}

// ReviewReconciliation is the optional sign-off on a completed report.
func (s *reconciliationService) ReviewReconciliation(ctx context.Context, reportID string, reviewer string) (*domain.ReconciliationReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	report, err := s.loadReportWithChildren(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.Status != domain.ReconciliationCompleted {
		return nil, apperrors.NewReconciliationError(reportID, fmt.Sprintf("only %s reports can be reviewed, report is %s", domain.ReconciliationCompleted, report.Status), apperrors.ErrConflict)
	}

	now := time.Now().UTC()
	if err := s.reconRepo.MarkReportReviewed(ctx, reportID, reviewer, now); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, apperrors.NewReconciliationError(reportID, "report is not in a reviewable state", apperrors.ErrConflict)
		}
		logger.Error("Failed to review reconciliation", slog.String("report_id", reportID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to review reconciliation: %w", err)
	}

	report.Status = domain.ReconciliationReviewed
	report.ReviewedBy = &reviewer
	report.ReviewedAt = &now
	report.LastUpdatedAt = now
	report.LastUpdatedBy = reviewer

	logger.Info("Reconciliation reviewed", slog.String("report_id", reportID), slog.String("reviewer", reviewer))
	return report, nil
}
