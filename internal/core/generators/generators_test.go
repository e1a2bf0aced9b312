package generators_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/retailsuite/ledger-engine/internal/apperrors"
	"github.com/retailsuite/ledger-engine/internal/core/domain"
	"github.com/retailsuite/ledger-engine/internal/core/generators"
	"github.com/retailsuite/ledger-engine/internal/dto"
	"github.com/retailsuite/ledger-engine/internal/platform/config"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountService) IsActive(ctx context.Context, accountID string) (bool, error) {
	args := m.Called(ctx, accountID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, int64, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Account), args.Get(1).(int64), args.Error(2)
}

// --- Test Suite Setup ---
type GeneratorsTestSuite struct {
	suite.Suite
	mockAccountSvc *MockAccountService
	codes          config.AccountCodes
	accountsByCode map[string]*domain.Account
}

func (suite *GeneratorsTestSuite) SetupTest() {
	suite.mockAccountSvc = new(MockAccountService)
	suite.codes = config.AccountCodes{
		Inventory:             "1300",
		VATInput:              "1400",
		AccountsPayable:       "2100",
		Cash:                  "1000",
		Bank:                  "1010",
		InstallmentReceivable: "1200",
		LateFeeIncome:         "4200",
		ReconciliationOffset:  "3900",
	}

	suite.accountsByCode = make(map[string]*domain.Account)
	for code, name := range map[string]string{
		"1000": "Cash on Hand",
		"1010": "Bank Account",
		"1200": "Installment Receivable",
		"1300": "Inventory",
		"1400": "VAT Input",
		"2100": "Accounts Payable",
		"4200": "Late Fee Income",
	} {
		suite.accountsByCode[code] = &domain.Account{
			AccountID: uuid.NewString(),
			Code:      code,
			Name:      name,
			IsActive:  true,
		}
	}
}

func (suite *GeneratorsTestSuite) mapCode(ctx context.Context, code string) {
	suite.mockAccountSvc.On("GetAccountByCode", ctx, code).Return(suite.accountsByCode[code], nil)
}

func (suite *GeneratorsTestSuite) accountID(code string) string {
	return suite.accountsByCode[code].AccountID
}

// assertBalanced sums the request's lines and checks debits equal credits.
func (suite *GeneratorsTestSuite) assertBalanced(req dto.CreateJournalEntryRequest) {
	totalDebit, totalCredit := decimal.Zero, decimal.Zero
	for _, line := range req.Lines {
		totalDebit = totalDebit.Add(line.Debit)
		totalCredit = totalCredit.Add(line.Credit)
	}
	suite.True(totalDebit.Equal(totalCredit), "lines must balance: debit %s credit %s", totalDebit, totalCredit)
}

// --- Registry ---

func (suite *GeneratorsTestSuite) TestRegistry_Dispatch() {
	cfg := &config.Config{
		AccountCodes:   suite.codes,
		LateFeePercent: decimal.RequireFromString("2"),
	}
	registry := generators.NewDefaultRegistry(cfg, suite.mockAccountSvc)

	gen, ok := registry.Lookup(generators.SourceTypeSupplierInvoice)
	suite.True(ok)
	suite.Equal(generators.SourceTypeSupplierInvoice, gen.SourceType())

	_, ok = registry.Lookup("cash_register_closing")
	suite.False(ok)

	suite.Equal([]string{
		generators.SourceTypeInstallmentPayment,
		generators.SourceTypeSupplierInvoice,
		generators.SourceTypeSupplierPayment,
	}, registry.SourceTypes())
}

// --- Supplier invoice ---

func (suite *GeneratorsTestSuite) supplierInvoicePayload(subtotal, vat, total string) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(`{
		"invoiceID": "inv-001",
		"supplierID": "sup-042",
		"invoiceNumber": "INV-2026-0117",
		"invoiceDate": "2026-02-10T00:00:00Z",
		"subtotal": "%s",
		"vatAmount": "%s",
		"total": "%s"
	}`, subtotal, vat, total))
}

func (suite *GeneratorsTestSuite) TestSupplierInvoice_WithVAT() {
	ctx := context.Background()
	suite.mapCode(ctx, suite.codes.Inventory)
	suite.mapCode(ctx, suite.codes.VATInput)
	suite.mapCode(ctx, suite.codes.AccountsPayable)
	gen := generators.NewSupplierInvoiceGenerator(suite.mockAccountSvc, suite.codes)

	req, err := gen.Generate(ctx, suite.supplierInvoicePayload("200.00", "30.00", "230.00"))

	suite.Require().NoError(err)
	suite.Equal(generators.SourceTypeSupplierInvoice, req.SourceType)
	suite.Equal("inv-001", req.SourceID)
	suite.Equal("INV-2026-0117", req.Reference)

	suite.Require().Len(req.Lines, 3)
	suite.Equal(suite.accountID("1300"), req.Lines[0].AccountID)
	suite.True(req.Lines[0].Debit.Equal(decimal.RequireFromString("200.00")))
	suite.Equal(suite.accountID("1400"), req.Lines[1].AccountID)
	suite.True(req.Lines[1].Debit.Equal(decimal.RequireFromString("30.00")))
	suite.Equal(suite.accountID("2100"), req.Lines[2].AccountID)
	suite.True(req.Lines[2].Credit.Equal(decimal.RequireFromString("230.00")))
	suite.assertBalanced(req)
}

func (suite *GeneratorsTestSuite) TestSupplierInvoice_ZeroVATSkipsTaxLine() {
	ctx := context.Background()
	suite.mapCode(ctx, suite.codes.Inventory)
	suite.mapCode(ctx, suite.codes.AccountsPayable)
	gen := generators.NewSupplierInvoiceGenerator(suite.mockAccountSvc, suite.codes)

	req, err := gen.Generate(ctx, suite.supplierInvoicePayload("200.00", "0", "200.00"))

	suite.Require().NoError(err)
	suite.Require().Len(req.Lines, 2)
	suite.assertBalanced(req)
	suite.mockAccountSvc.AssertNotCalled(suite.T(), "GetAccountByCode", ctx, suite.codes.VATInput)
}

func (suite *GeneratorsTestSuite) TestSupplierInvoice_TotalMismatch() {
	ctx := context.Background()
	gen := generators.NewSupplierInvoiceGenerator(suite.mockAccountSvc, suite.codes)

	_, err := gen.Generate(ctx, suite.supplierInvoicePayload("200.00", "30.00", "235.00"))

	var vErr *apperrors.ValidationError
	suite.Require().True(errors.As(err, &vErr))
	suite.Contains(vErr.Error(), "total must equal subtotal plus vatAmount")
	suite.mockAccountSvc.AssertNotCalled(suite.T(), "GetAccountByCode", mock.Anything, mock.Anything)
}

func (suite *GeneratorsTestSuite) TestSupplierInvoice_CollectsAllViolations() {
	ctx := context.Background()
	gen := generators.NewSupplierInvoiceGenerator(suite.mockAccountSvc, suite.codes)

	_, err := gen.Generate(ctx, json.RawMessage(`{"subtotal": "-5", "total": "10"}`))

	var vErr *apperrors.ValidationError
	suite.Require().True(errors.As(err, &vErr))
	// Missing identifiers, missing date, negative subtotal and the total
	// mismatch must all be reported at once.
	suite.GreaterOrEqual(len(vErr.Messages), 5)
}

func (suite *GeneratorsTestSuite) TestSupplierInvoice_UnmappedAccountFailsClosed() {
	ctx := context.Background()
	suite.mockAccountSvc.On("GetAccountByCode", ctx, suite.codes.Inventory).
		Return(nil, apperrors.NewAccountMappingError(suite.codes.Inventory)).Once()
	gen := generators.NewSupplierInvoiceGenerator(suite.mockAccountSvc, suite.codes)

	_, err := gen.Generate(ctx, suite.supplierInvoicePayload("200.00", "30.00", "230.00"))

	var mErr *apperrors.AccountMappingError
	suite.Require().True(errors.As(err, &mErr))
	suite.Equal(suite.codes.Inventory, mErr.Code)
}

// --- Supplier payment ---

func (suite *GeneratorsTestSuite) supplierPaymentPayload(method string) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(`{
		"paymentID": "pay-007",
		"supplierID": "sup-042",
		"invoiceID": "INV-2026-0117",
		"paymentDate": "2026-02-20T00:00:00Z",
		"amount": "230.00",
		"paymentMethod": "%s"
	}`, method))
}

func (suite *GeneratorsTestSuite) TestSupplierPayment_BankMethod() {
	ctx := context.Background()
	suite.mapCode(ctx, suite.codes.AccountsPayable)
	suite.mapCode(ctx, suite.codes.Bank)
	gen := generators.NewSupplierPaymentGenerator(suite.mockAccountSvc, suite.codes)

	req, err := gen.Generate(ctx, suite.supplierPaymentPayload("BANK"))

	suite.Require().NoError(err)
	suite.Require().Len(req.Lines, 2)
	suite.Equal(suite.accountID("2100"), req.Lines[0].AccountID)
	suite.True(req.Lines[0].Debit.Equal(decimal.RequireFromString("230.00")))
	suite.Equal(suite.accountID("1010"), req.Lines[1].AccountID)
	suite.True(req.Lines[1].Credit.Equal(decimal.RequireFromString("230.00")))
	suite.assertBalanced(req)
}

func (suite *GeneratorsTestSuite) TestSupplierPayment_CashMethod() {
	ctx := context.Background()
	suite.mapCode(ctx, suite.codes.AccountsPayable)
	suite.mapCode(ctx, suite.codes.Cash)
	gen := generators.NewSupplierPaymentGenerator(suite.mockAccountSvc, suite.codes)

	req, err := gen.Generate(ctx, suite.supplierPaymentPayload("CASH"))

	suite.Require().NoError(err)
	suite.Equal(suite.accountID("1000"), req.Lines[1].AccountID)
	suite.mockAccountSvc.AssertNotCalled(suite.T(), "GetAccountByCode", ctx, suite.codes.Bank)
}

func (suite *GeneratorsTestSuite) TestSupplierPayment_UnknownMethod() {
	ctx := context.Background()
	gen := generators.NewSupplierPaymentGenerator(suite.mockAccountSvc, suite.codes)

	_, err := gen.Generate(ctx, suite.supplierPaymentPayload("CHECK"))

	var vErr *apperrors.ValidationError
	suite.Require().True(errors.As(err, &vErr))
	suite.Contains(vErr.Error(), "paymentMethod")
}

// --- Installment payment ---

func (suite *GeneratorsTestSuite) installmentPayload(dueDate, paymentDate time.Time) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(`{
		"paymentID": "ip-031",
		"contractID": "ct-090",
		"dueDate": "%s",
		"paymentDate": "%s",
		"amount": "250.00",
		"paymentMethod": "BANK"
	}`, dueDate.Format(time.RFC3339), paymentDate.Format(time.RFC3339)))
}

func (suite *GeneratorsTestSuite) TestInstallmentPayment_OnTime() {
	ctx := context.Background()
	suite.mapCode(ctx, suite.codes.Bank)
	suite.mapCode(ctx, suite.codes.InstallmentReceivable)
	gen := generators.NewInstallmentPaymentGenerator(suite.mockAccountSvc, suite.codes, decimal.RequireFromString("2"))

	due := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	req, err := gen.Generate(ctx, suite.installmentPayload(due, due))

	suite.Require().NoError(err)
	suite.Require().Len(req.Lines, 2)
	suite.True(req.Lines[0].Debit.Equal(decimal.RequireFromString("250.00")))
	suite.True(req.Lines[1].Credit.Equal(decimal.RequireFromString("250.00")))
	suite.assertBalanced(req)
	suite.mockAccountSvc.AssertNotCalled(suite.T(), "GetAccountByCode", ctx, suite.codes.LateFeeIncome)
}

func (suite *GeneratorsTestSuite) TestInstallmentPayment_LateAddsFee() {
	ctx := context.Background()
	suite.mapCode(ctx, suite.codes.Bank)
	suite.mapCode(ctx, suite.codes.InstallmentReceivable)
	suite.mapCode(ctx, suite.codes.LateFeeIncome)
	gen := generators.NewInstallmentPaymentGenerator(suite.mockAccountSvc, suite.codes, decimal.RequireFromString("2"))

	due := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	paid := due.AddDate(0, 0, 9)
	req, err := gen.Generate(ctx, suite.installmentPayload(due, paid))

	suite.Require().NoError(err)
	suite.Require().Len(req.Lines, 3)
	// 2% of 250.00 is a 5.00 fee; cash receives principal plus fee.
	suite.True(req.Lines[0].Debit.Equal(decimal.RequireFromString("255.00")))
	suite.True(req.Lines[1].Credit.Equal(decimal.RequireFromString("250.00")))
	suite.Equal(suite.accountID("4200"), req.Lines[2].AccountID)
	suite.True(req.Lines[2].Credit.Equal(decimal.RequireFromString("5.00")))
	suite.assertBalanced(req)
}

func (suite *GeneratorsTestSuite) TestInstallmentPayment_FeeRoundsToCents() {
	ctx := context.Background()
	suite.mapCode(ctx, suite.codes.Bank)
	suite.mapCode(ctx, suite.codes.InstallmentReceivable)
	suite.mapCode(ctx, suite.codes.LateFeeIncome)
	gen := generators.NewInstallmentPaymentGenerator(suite.mockAccountSvc, suite.codes, decimal.RequireFromString("1.5"))

	due := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	payload := json.RawMessage(fmt.Sprintf(`{
		"paymentID": "ip-032",
		"contractID": "ct-091",
		"dueDate": "%s",
		"paymentDate": "%s",
		"amount": "99.99",
		"paymentMethod": "CASH"
	}`, due.Format(time.RFC3339), due.AddDate(0, 0, 3).Format(time.RFC3339)))
	suite.mapCode(ctx, suite.codes.Cash)

	req, err := gen.Generate(ctx, payload)

	suite.Require().NoError(err)
	// 1.5% of 99.99 is 1.49985, rounded to 1.50.
	suite.Require().Len(req.Lines, 3)
	suite.True(req.Lines[2].Credit.Equal(decimal.RequireFromString("1.50")))
	suite.assertBalanced(req)
}

func (suite *GeneratorsTestSuite) TestInstallmentPayment_MalformedPayload() {
	ctx := context.Background()
	gen := generators.NewInstallmentPaymentGenerator(suite.mockAccountSvc, suite.codes, decimal.RequireFromString("2"))

	_, err := gen.Generate(ctx, json.RawMessage(`{"amount": "not a number"}`))

	suite.Require().Error(err)
	suite.True(errors.Is(err, apperrors.ErrValidation))
}

func TestGeneratorsTestSuite(t *testing.T) {
	suite.Run(t, new(GeneratorsTestSuite))
}
