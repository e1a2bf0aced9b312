package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/retailsuite/ledger-engine/internal/apperrors"
	"github.com/retailsuite/ledger-engine/internal/core/domain"
	portsrepo "github.com/retailsuite/ledger-engine/internal/core/ports/repositories"
	portssvc "github.com/retailsuite/ledger-engine/internal/core/ports/services"
	"github.com/retailsuite/ledger-engine/internal/core/services"
	"github.com/retailsuite/ledger-engine/internal/dto"
)

// --- Mock ReconciliationRepository ---
type MockReconciliationRepository struct {
	mock.Mock
}

var _ portsrepo.ReconciliationRepositoryFacade = (*MockReconciliationRepository)(nil)

func (m *MockReconciliationRepository) SaveReport(ctx context.Context, report domain.ReconciliationReport) (string, error) {
	args := m.Called(ctx, report)
	return args.String(0), args.Error(1)
}

func (m *MockReconciliationRepository) FindReportByID(ctx context.Context, reportID string) (*domain.ReconciliationReport, error) {
	args := m.Called(ctx, reportID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationReport), args.Error(1)
}

func (m *MockReconciliationRepository) FindItemsByReportID(ctx context.Context, reportID string) ([]domain.ReconciliationItem, error) {
	args := m.Called(ctx, reportID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReconciliationItem), args.Error(1)
}

func (m *MockReconciliationRepository) FindAdjustmentsByReportID(ctx context.Context, reportID string) ([]domain.ReconciliationAdjustment, error) {
	args := m.Called(ctx, reportID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReconciliationAdjustment), args.Error(1)
}

func (m *MockReconciliationRepository) ListReports(ctx context.Context, filter domain.ReconciliationFilter) ([]domain.ReconciliationReport, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.ReconciliationReport), args.Get(1).(int64), args.Error(2)
}

func (m *MockReconciliationRepository) SumApprovedLineMovement(ctx context.Context, accountID string, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockReconciliationRepository) SaveItem(ctx context.Context, item domain.ReconciliationItem, report domain.ReconciliationReport) error {
	args := m.Called(ctx, item, report)
	return args.Error(0)
}

func (m *MockReconciliationRepository) FindItemByID(ctx context.Context, itemID string) (*domain.ReconciliationItem, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationItem), args.Error(1)
}

func (m *MockReconciliationRepository) MarkItemReconciled(ctx context.Context, itemID string, at time.Time, report domain.ReconciliationReport) error {
	args := m.Called(ctx, itemID, at, report)
	return args.Error(0)
}

func (m *MockReconciliationRepository) SaveAdjustmentWithEntry(ctx context.Context, adjustment domain.ReconciliationAdjustment, entry domain.JournalEntry, lines []domain.JournalLine, report domain.ReconciliationReport) (string, error) {
	args := m.Called(ctx, adjustment, entry, lines, report)
	return args.String(0), args.Error(1)
}

func (m *MockReconciliationRepository) MarkReportCompleted(ctx context.Context, reportID string, reconciler string, at time.Time) error {
	args := m.Called(ctx, reportID, reconciler, at)
	return args.Error(0)
}

func (m *MockReconciliationRepository) MarkReportReviewed(ctx context.Context, reportID string, reviewer string, at time.Time) error {
	args := m.Called(ctx, reportID, reviewer, at)
	return args.Error(0)
}

// --- Test Suite Setup ---
type ReconciliationServiceTestSuite struct {
	suite.Suite
	mockReconRepo  *MockReconciliationRepository
	mockAccountSvc *MockAccountService
	service        portssvc.ReconciliationSvcFacade
	bankAccount    domain.Account
	offsetAccount  domain.Account
	userID         string
}

const testOffsetCode = "3900"

func (suite *ReconciliationServiceTestSuite) SetupTest() {
	suite.mockReconRepo = new(MockReconciliationRepository)
	suite.mockAccountSvc = new(MockAccountService)
	suite.service = services.NewReconciliationService(
		suite.mockReconRepo,
		suite.mockAccountSvc,
		decimal.RequireFromString("0.01"),
		testOffsetCode,
	)

	suite.userID = uuid.NewString()
	suite.bankAccount = domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "1010",
		Name:        "Bank Account",
		AccountType: domain.Asset,
		IsActive:    true,
	}
	suite.offsetAccount = domain.Account{
		AccountID:   uuid.NewString(),
		Code:        testOffsetCode,
		Name:        "Reconciliation Offset",
		AccountType: domain.Equity,
		IsActive:    true,
	}
}

func (suite *ReconciliationServiceTestSuite) openReport(status domain.ReconciliationStatus, book, statement string) *domain.ReconciliationReport {
	bookBalance := decimal.RequireFromString(book)
	statementBalance := decimal.RequireFromString(statement)
	return &domain.ReconciliationReport{
		ReportID:          uuid.NewString(),
		ReportNumber:      "RR-2026-000007",
		AccountID:         suite.bankAccount.AccountID,
		PeriodStart:       time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:         time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
		FiscalYear:        2026,
		BookBalance:       bookBalance,
		StatementBalance:  statementBalance,
		ReconciledBalance: bookBalance,
		Variance:          bookBalance.Sub(statementBalance).Abs(),
		Status:            status,
	}
}

func (suite *ReconciliationServiceTestSuite) mockLoadReport(ctx context.Context, report *domain.ReconciliationReport, items []domain.ReconciliationItem, adjustments []domain.ReconciliationAdjustment) {
	suite.mockReconRepo.On("FindReportByID", ctx, report.ReportID).Return(report, nil).Once()
	suite.mockReconRepo.On("FindItemsByReportID", ctx, report.ReportID).Return(items, nil).Once()
	suite.mockReconRepo.On("FindAdjustmentsByReportID", ctx, report.ReportID).Return(adjustments, nil).Once()
}

// --- CreateReconciliation ---

func (suite *ReconciliationServiceTestSuite) TestCreateReconciliation_BookBalanceFromApprovedLines() {
	ctx := context.Background()
	req := dto.CreateReconciliationRequest{
		AccountID:        suite.bankAccount.AccountID,
		PeriodStart:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:        time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
		FiscalYear:       2026,
		StatementBalance: decimal.RequireFromString("300.00"),
	}

	suite.mockAccountSvc.On("GetAccountByID", ctx, suite.bankAccount.AccountID).Return(&suite.bankAccount, nil).Once()
	suite.mockReconRepo.On("SumApprovedLineMovement", ctx, suite.bankAccount.AccountID, req.PeriodStart, req.PeriodEnd).
		Return(decimal.RequireFromString("300.00"), nil).Once()
	suite.mockReconRepo.On("SaveReport", ctx, mock.AnythingOfType("domain.ReconciliationReport")).
		Return("RR-2026-000001", nil).Once()

	report, err := suite.service.CreateReconciliation(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.ReconciliationDraft, report.Status)
	suite.Equal("RR-2026-000001", report.ReportNumber)
	suite.True(report.BookBalance.Equal(decimal.RequireFromString("300.00")))
	suite.True(report.ReconciledBalance.Equal(report.BookBalance))
	suite.True(report.Variance.IsZero())
	suite.mockReconRepo.AssertExpectations(suite.T())
}

func (suite *ReconciliationServiceTestSuite) TestCreateReconciliation_UnknownAccount() {
	ctx := context.Background()
	req := dto.CreateReconciliationRequest{
		AccountID:   uuid.NewString(),
		PeriodStart: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
		FiscalYear:  2026,
	}

	suite.mockAccountSvc.On("GetAccountByID", ctx, req.AccountID).Return(nil, apperrors.ErrNotFound).Once()

	report, err := suite.service.CreateReconciliation(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(report)
	suite.True(errors.Is(err, apperrors.ErrNotFound))
	suite.mockReconRepo.AssertNotCalled(suite.T(), "SaveReport", mock.Anything, mock.Anything)
}

// --- AddItem / ReconcileItem ---

func (suite *ReconciliationServiceTestSuite) TestAddItem_MovesDraftToInProgress() {
	ctx := context.Background()
	report := suite.openReport(domain.ReconciliationDraft, "100.00", "100.00")
	suite.mockLoadReport(ctx, report, []domain.ReconciliationItem{}, []domain.ReconciliationAdjustment{})

	var capturedReport domain.ReconciliationReport
	suite.mockReconRepo.On("SaveItem", ctx, mock.AnythingOfType("domain.ReconciliationItem"), mock.AnythingOfType("domain.ReconciliationReport")).
		Run(func(args mock.Arguments) {
			capturedReport = args.Get(2).(domain.ReconciliationReport)
		}).
		Return(nil).Once()

	item, err := suite.service.AddItem(ctx, report.ReportID, dto.AddReconciliationItemRequest{
		ItemType: string(domain.ItemOutstandingCheck),
		Amount:   decimal.RequireFromString("25.00"),
	}, suite.userID)

	suite.Require().NoError(err)
	suite.False(item.IsReconciled)
	suite.Equal(domain.ReconciliationInProgress, capturedReport.Status)
	// Unreconciled items do not move the balance yet.
	suite.True(capturedReport.ReconciledBalance.Equal(report.BookBalance))
}

func (suite *ReconciliationServiceTestSuite) TestAddItem_UnknownType() {
	ctx := context.Background()
	report := suite.openReport(domain.ReconciliationDraft, "100.00", "100.00")

	item, err := suite.service.AddItem(ctx, report.ReportID, dto.AddReconciliationItemRequest{
		ItemType: "petty_cash",
		Amount:   decimal.RequireFromString("25.00"),
	}, suite.userID)

	suite.Require().Error(err)
	suite.Nil(item)
	suite.True(errors.Is(err, apperrors.ErrValidation))
	suite.mockReconRepo.AssertNotCalled(suite.T(), "SaveItem", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestAddItem_ClosedReport() {
	ctx := context.Background()
	report := suite.openReport(domain.ReconciliationCompleted, "100.00", "100.00")
	suite.mockLoadReport(ctx, report, []domain.ReconciliationItem{}, []domain.ReconciliationAdjustment{})

	item, err := suite.service.AddItem(ctx, report.ReportID, dto.AddReconciliationItemRequest{
		ItemType: string(domain.ItemBankCharge),
		Amount:   decimal.RequireFromString("5.00"),
	}, suite.userID)

	suite.Require().Error(err)
	suite.Nil(item)
	suite.True(errors.Is(err, apperrors.ErrConflict))
}

func (suite *ReconciliationServiceTestSuite) TestReconcileItem_SubtractingTypeReducesBalance() {
	ctx := context.Background()
	report := suite.openReport(domain.ReconciliationInProgress, "300.00", "250.00")
	item := domain.ReconciliationItem{
		ItemID:   uuid.NewString(),
		ReportID: report.ReportID,
		ItemType: domain.ItemOutstandingCheck,
		Amount:   decimal.RequireFromString("50.00"),
	}
	suite.mockLoadReport(ctx, report, []domain.ReconciliationItem{item}, []domain.ReconciliationAdjustment{})

	var capturedReport domain.ReconciliationReport
	suite.mockReconRepo.On("MarkItemReconciled", ctx, item.ItemID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("domain.ReconciliationReport")).
		Run(func(args mock.Arguments) {
			capturedReport = args.Get(3).(domain.ReconciliationReport)
		}).
		Return(nil).Once()

	got, err := suite.service.ReconcileItem(ctx, report.ReportID, item.ItemID, suite.userID)

	suite.Require().NoError(err)
	suite.True(got.IsReconciled)
	suite.NotNil(got.ReconciledAt)
	// 300 book - 50 outstanding check = 250 = statement.
	suite.True(capturedReport.ReconciledBalance.Equal(decimal.RequireFromString("250.00")))
	suite.True(capturedReport.Variance.IsZero())
}

func (suite *ReconciliationServiceTestSuite) TestReconcileItem_AddingTypeRaisesBalance() {
	ctx := context.Background()
	report := suite.openReport(domain.ReconciliationInProgress, "300.00", "310.00")
	item := domain.ReconciliationItem{
		ItemID:   uuid.NewString(),
		ReportID: report.ReportID,
		ItemType: domain.ItemInterestEarned,
		Amount:   decimal.RequireFromString("10.00"),
	}
	suite.mockLoadReport(ctx, report, []domain.ReconciliationItem{item}, []domain.ReconciliationAdjustment{})

	var capturedReport domain.ReconciliationReport
	suite.mockReconRepo.On("MarkItemReconciled", ctx, item.ItemID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("domain.ReconciliationReport")).
		Run(func(args mock.Arguments) {
			capturedReport = args.Get(3).(domain.ReconciliationReport)
		}).
		Return(nil).Once()

	_, err := suite.service.ReconcileItem(ctx, report.ReportID, item.ItemID, suite.userID)

	suite.Require().NoError(err)
	suite.True(capturedReport.ReconciledBalance.Equal(decimal.RequireFromString("310.00")))
	suite.True(capturedReport.Variance.IsZero())
}

func (suite *ReconciliationServiceTestSuite) TestReconcileItem_OneWay() {
	ctx := context.Background()
	report := suite.openReport(domain.ReconciliationInProgress, "300.00", "250.00")
	at := time.Now().UTC()
	item := domain.ReconciliationItem{
		ItemID:       uuid.NewString(),
		ReportID:     report.ReportID,
		ItemType:     domain.ItemOutstandingCheck,
		Amount:       decimal.RequireFromString("50.00"),
		IsReconciled: true,
		ReconciledAt: &at,
	}
	suite.mockLoadReport(ctx, report, []domain.ReconciliationItem{item}, []domain.ReconciliationAdjustment{})

	got, err := suite.service.ReconcileItem(ctx, report.ReportID, item.ItemID, suite.userID)

	suite.Require().Error(err)
	suite.Nil(got)
	suite.True(errors.Is(err, apperrors.ErrConflict))
	suite.mockReconRepo.AssertNotCalled(suite.T(), "MarkItemReconciled", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- AddManualAdjustment ---

func (suite *ReconciliationServiceTestSuite) TestAddManualAdjustment_BuildsBalancedPostedEntry() {
	ctx := context.Background()
	report := suite.openReport(domain.ReconciliationInProgress, "100.00", "115.00")
	suite.mockLoadReport(ctx, report, []domain.ReconciliationItem{}, []domain.ReconciliationAdjustment{})

	suite.mockAccountSvc.On("GetAccountByID", ctx, suite.bankAccount.AccountID).Return(&suite.bankAccount, nil).Once()
	suite.mockAccountSvc.On("GetAccountByCode", ctx, testOffsetCode).Return(&suite.offsetAccount, nil).Once()

	var capturedEntry domain.JournalEntry
	var capturedLines []domain.JournalLine
	var capturedReport domain.ReconciliationReport
	suite.mockReconRepo.On("SaveAdjustmentWithEntry", ctx,
		mock.AnythingOfType("domain.ReconciliationAdjustment"),
		mock.AnythingOfType("domain.JournalEntry"),
		mock.AnythingOfType("[]domain.JournalLine"),
		mock.AnythingOfType("domain.ReconciliationReport")).
		Run(func(args mock.Arguments) {
			capturedEntry = args.Get(2).(domain.JournalEntry)
			capturedLines = args.Get(3).([]domain.JournalLine)
			capturedReport = args.Get(4).(domain.ReconciliationReport)
		}).
		Return("JE-2026-000099", nil).Once()

	adjustment, err := suite.service.AddManualAdjustment(ctx, report.ReportID, dto.AddReconciliationAdjustmentRequest{
		Amount:         decimal.RequireFromString("15.00"),
		AdjustmentType: string(domain.Debit),
		Reason:         "bank recorded interest we missed",
	}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(capturedEntry.EntryID, adjustment.EntryID)

	// The backing entry posts immediately and balances.
	suite.Equal(domain.Approved, capturedEntry.Status)
	suite.Require().Len(capturedLines, 2)
	suite.Equal(suite.bankAccount.AccountID, capturedLines[0].AccountID)
	suite.True(capturedLines[0].Debit.Equal(decimal.RequireFromString("15.00")))
	suite.Equal(suite.offsetAccount.AccountID, capturedLines[1].AccountID)
	suite.True(capturedLines[1].Credit.Equal(decimal.RequireFromString("15.00")))

	// 100 book + 15 debit adjustment = 115 = statement.
	suite.True(capturedReport.ReconciledBalance.Equal(decimal.RequireFromString("115.00")))
	suite.True(capturedReport.Variance.IsZero())
}

func (suite *ReconciliationServiceTestSuite) TestAddManualAdjustment_CreditSide() {
	ctx := context.Background()
	report := suite.openReport(domain.ReconciliationInProgress, "100.00", "80.00")
	suite.mockLoadReport(ctx, report, []domain.ReconciliationItem{}, []domain.ReconciliationAdjustment{})

	suite.mockAccountSvc.On("GetAccountByID", ctx, suite.bankAccount.AccountID).Return(&suite.bankAccount, nil).Once()
	suite.mockAccountSvc.On("GetAccountByCode", ctx, testOffsetCode).Return(&suite.offsetAccount, nil).Once()

	var capturedLines []domain.JournalLine
	var capturedReport domain.ReconciliationReport
	suite.mockReconRepo.On("SaveAdjustmentWithEntry", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			capturedLines = args.Get(3).([]domain.JournalLine)
			capturedReport = args.Get(4).(domain.ReconciliationReport)
		}).
		Return("JE-2026-000100", nil).Once()

	_, err := suite.service.AddManualAdjustment(ctx, report.ReportID, dto.AddReconciliationAdjustmentRequest{
		Amount:         decimal.RequireFromString("20.00"),
		AdjustmentType: string(domain.Credit),
		Reason:         "duplicate deposit recorded in books",
	}, suite.userID)

	suite.Require().NoError(err)
	suite.True(capturedLines[0].Credit.Equal(decimal.RequireFromString("20.00")))
	suite.True(capturedLines[1].Debit.Equal(decimal.RequireFromString("20.00")))
	suite.True(capturedReport.ReconciledBalance.Equal(decimal.RequireFromString("80.00")))
}

func (suite *ReconciliationServiceTestSuite) TestAddManualAdjustment_OffsetAccountUnmapped() {
	ctx := context.Background()
	report := suite.openReport(domain.ReconciliationInProgress, "100.00", "115.00")
	suite.mockLoadReport(ctx, report, []domain.ReconciliationItem{}, []domain.ReconciliationAdjustment{})

	suite.mockAccountSvc.On("GetAccountByID", ctx, suite.bankAccount.AccountID).Return(&suite.bankAccount, nil).Once()
	suite.mockAccountSvc.On("GetAccountByCode", ctx, testOffsetCode).
		Return(nil, apperrors.NewAccountMappingError(testOffsetCode)).Once()

	adjustment, err := suite.service.AddManualAdjustment(ctx, report.ReportID, dto.AddReconciliationAdjustmentRequest{
		Amount:         decimal.RequireFromString("15.00"),
		AdjustmentType: string(domain.Debit),
		Reason:         "interest",
	}, suite.userID)

	suite.Require().Error(err)
	suite.Nil(adjustment)
	var mErr *apperrors.AccountMappingError
	suite.True(errors.As(err, &mErr))
	suite.mockReconRepo.AssertNotCalled(suite.T(), "SaveAdjustmentWithEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestAddManualAdjustment_AtomicFailure() {
	ctx := context.Background()
	report := suite.openReport(domain.ReconciliationInProgress, "100.00", "115.00")
	suite.mockLoadReport(ctx, report, []domain.ReconciliationItem{}, []domain.ReconciliationAdjustment{})

	suite.mockAccountSvc.On("GetAccountByID", ctx, suite.bankAccount.AccountID).Return(&suite.bankAccount, nil).Once()
	suite.mockAccountSvc.On("GetAccountByCode", ctx, testOffsetCode).Return(&suite.offsetAccount, nil).Once()
	suite.mockReconRepo.On("SaveAdjustmentWithEntry", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", apperrors.ErrInternal).Once()

	adjustment, err := suite.service.AddManualAdjustment(ctx, report.ReportID, dto.AddReconciliationAdjustmentRequest{
		Amount:         decimal.RequireFromString("15.00"),
		AdjustmentType: string(domain.Debit),
		Reason:         "interest",
	}, suite.userID)

	suite.Require().Error(err)
	suite.Nil(adjustment)
	suite.True(errors.Is(err, apperrors.ErrInternal))
}

// --- CompleteReconciliation ---

func (suite *ReconciliationServiceTestSuite) TestComplete_VarianceWithinThreshold() {
	ctx := context.Background()
	report := suite.openReport(domain.ReconciliationInProgress, "300.00", "300.00")
	suite.mockLoadReport(ctx, report, []domain.ReconciliationItem{}, []domain.ReconciliationAdjustment{})
	suite.mockReconRepo.On("MarkReportCompleted", ctx, report.ReportID, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	completed, err := suite.service.CompleteReconciliation(ctx, report.ReportID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.ReconciliationCompleted, completed.Status)
	suite.Require().NotNil(completed.ReconciledBy)
	suite.Equal(suite.userID, *completed.ReconciledBy)
}

func (suite *ReconciliationServiceTestSuite) TestComplete_VarianceAtThresholdBoundary() {
	ctx := context.Background()
	// Variance of exactly 0.01 equals the threshold and passes.
	report := suite.openReport(domain.ReconciliationInProgress, "300.01", "300.00")
	suite.mockLoadReport(ctx, report, []domain.ReconciliationItem{}, []domain.ReconciliationAdjustment{})
	suite.mockReconRepo.On("MarkReportCompleted", ctx, report.ReportID, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	completed, err := suite.service.CompleteReconciliation(ctx, report.ReportID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.ReconciliationCompleted, completed.Status)
}

func (suite *ReconciliationServiceTestSuite) TestComplete_VarianceAboveThreshold() {
	ctx := context.Background()
	report := suite.openReport(domain.ReconciliationInProgress, "300.02", "300.00")
	suite.mockLoadReport(ctx, report, []domain.ReconciliationItem{}, []domain.ReconciliationAdjustment{})

	completed, err := suite.service.CompleteReconciliation(ctx, report.ReportID, suite.userID)

	suite.Require().Error(err)
	suite.Nil(completed)
	var rErr *apperrors.ReconciliationError
	suite.Require().True(errors.As(err, &rErr))
	suite.mockReconRepo.AssertNotCalled(suite.T(), "MarkReportCompleted", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- ReviewReconciliation ---

func (suite *ReconciliationServiceTestSuite) TestReview_RequiresCompleted() {
	ctx := context.Background()
	report := suite.openReport(domain.ReconciliationInProgress, "300.00", "300.00")
	suite.mockLoadReport(ctx, report, []domain.ReconciliationItem{}, []domain.ReconciliationAdjustment{})

	reviewed, err := suite.service.ReviewReconciliation(ctx, report.ReportID, suite.userID)

	suite.Require().Error(err)
	suite.Nil(reviewed)
	suite.True(errors.Is(err, apperrors.ErrConflict))
}

func (suite *ReconciliationServiceTestSuite) TestReview_Success() {
	ctx := context.Background()
	report := suite.openReport(domain.ReconciliationCompleted, "300.00", "300.00")
	suite.mockLoadReport(ctx, report, []domain.ReconciliationItem{}, []domain.ReconciliationAdjustment{})
	suite.mockReconRepo.On("MarkReportReviewed", ctx, report.ReportID, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	reviewed, err := suite.service.ReviewReconciliation(ctx, report.ReportID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.ReconciliationReviewed, reviewed.Status)
	suite.Require().NotNil(reviewed.ReviewedBy)
	suite.Equal(suite.userID, *reviewed.ReviewedBy)
}

// --- End-to-end balance walk at service level ---

// A bank reconciliation: book balance 300, statement 250, one outstanding
// check for 50. After reconciling the item the variance is zero and the
// report completes.
func (suite *ReconciliationServiceTestSuite) TestFullReconciliationWalk() {
	ctx := context.Background()
	report := suite.openReport(domain.ReconciliationDraft, "300.00", "250.00")

	// Add the outstanding check.
	suite.mockLoadReport(ctx, report, []domain.ReconciliationItem{}, []domain.ReconciliationAdjustment{})
	var savedItem domain.ReconciliationItem
	suite.mockReconRepo.On("SaveItem", ctx, mock.AnythingOfType("domain.ReconciliationItem"), mock.AnythingOfType("domain.ReconciliationReport")).
		Run(func(args mock.Arguments) {
			savedItem = args.Get(1).(domain.ReconciliationItem)
		}).
		Return(nil).Once()

	item, err := suite.service.AddItem(ctx, report.ReportID, dto.AddReconciliationItemRequest{
		ItemType: string(domain.ItemOutstandingCheck),
		Amount:   decimal.RequireFromString("50.00"),
	}, suite.userID)
	suite.Require().NoError(err)

	// Reconcile it.
	inProgress := *report
	inProgress.Status = domain.ReconciliationInProgress
	suite.mockLoadReport(ctx, &inProgress, []domain.ReconciliationItem{savedItem}, []domain.ReconciliationAdjustment{})
	var afterReconcile domain.ReconciliationReport
	suite.mockReconRepo.On("MarkItemReconciled", ctx, item.ItemID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("domain.ReconciliationReport")).
		Run(func(args mock.Arguments) {
			afterReconcile = args.Get(3).(domain.ReconciliationReport)
		}).
		Return(nil).Once()

	_, err = suite.service.ReconcileItem(ctx, report.ReportID, item.ItemID, suite.userID)
	suite.Require().NoError(err)
	suite.True(afterReconcile.Variance.IsZero())

	// Complete with the recomputed balances in place.
	suite.mockLoadReport(ctx, &afterReconcile, []domain.ReconciliationItem{}, []domain.ReconciliationAdjustment{})
	suite.mockReconRepo.On("MarkReportCompleted", ctx, report.ReportID, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	completed, err := suite.service.CompleteReconciliation(ctx, report.ReportID, suite.userID)
	suite.Require().NoError(err)
	suite.Equal(domain.ReconciliationCompleted, completed.Status)
}

func TestReconciliationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReconciliationServiceTestSuite))
}
