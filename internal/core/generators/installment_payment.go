package generators

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/retailsuite/ledger-engine/internal/apperrors"
	"github.com/retailsuite/ledger-engine/internal/core/domain"
	portssvc "github.com/retailsuite/ledger-engine/internal/core/ports/services"
	"github.com/retailsuite/ledger-engine/internal/dto"
	"github.com/retailsuite/ledger-engine/internal/platform/config"
)

// SourceTypeInstallmentPayment is the dispatch key for installment payment
// events.
const SourceTypeInstallmentPayment = "installment_payment"

var oneHundred = decimal.NewFromInt(100)

// installmentPaymentGenerator books a customer installment: debit cash or
// bank for the total received, credit installment receivable for the
// principal, and credit late-fee income when the payment arrived after its
// due date. The late fee is the configured percent of the principal, rounded
// to cents.
type installmentPaymentGenerator struct {
	accountSvc     portssvc.AccountSvcFacade
	codes          config.AccountCodes
	lateFeePercent decimal.Decimal
}

// NewInstallmentPaymentGenerator creates the installment payment generator.
func NewInstallmentPaymentGenerator(accountSvc portssvc.AccountSvcFacade, codes config.AccountCodes, lateFeePercent decimal.Decimal) EntryGenerator {
	return &installmentPaymentGenerator{
		accountSvc:     accountSvc,
		codes:          codes,
		lateFeePercent: lateFeePercent,
	}
}

func (g *installmentPaymentGenerator) SourceType() string {
	return SourceTypeInstallmentPayment
}

func (g *installmentPaymentGenerator) Generate(ctx context.Context, payload json.RawMessage) (dto.CreateJournalEntryRequest, error) {
	var event dto.InstallmentPaymentEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return dto.CreateJournalEntryRequest{}, apperrors.NewValidationError(fmt.Sprintf("invalid installment payment payload: %v", err))
	}

	vErr := &apperrors.ValidationError{}
	if event.PaymentID == "" {
		vErr.Add("paymentID is required")
	}
	if event.ContractID == "" {
		vErr.Add("contractID is required")
	}
	if event.DueDate.IsZero() {
		vErr.Add("dueDate is required")
	}
	if event.PaymentDate.IsZero() {
		vErr.Add("paymentDate is required")
	}
	if !event.Amount.IsPositive() {
		vErr.Add("amount must be positive")
	}
	cashCode, ok := cashAccountCode(g.codes, domain.PaymentMethod(event.PaymentMethod))
	if !ok {
		vErr.Add("paymentMethod must be %s or %s", domain.PaymentCash, domain.PaymentBank)
	}
	if vErr.HasErrors() {
		return dto.CreateJournalEntryRequest{}, vErr
	}

	payment := domain.InstallmentPayment{
		PaymentID:     event.PaymentID,
		ContractID:    event.ContractID,
		DueDate:       event.DueDate,
		PaymentDate:   event.PaymentDate,
		Amount:        event.Amount,
		PaymentMethod: domain.PaymentMethod(event.PaymentMethod),
	}

	lateFee := decimal.Zero
	if payment.IsLate() {
		lateFee = payment.Amount.Mul(g.lateFeePercent).Div(oneHundred).Round(2)
	}
	received := payment.Amount.Add(lateFee)

	cashAccount, err := g.accountSvc.GetAccountByCode(ctx, cashCode)
	if err != nil {
		return dto.CreateJournalEntryRequest{}, err
	}
	receivable, err := g.accountSvc.GetAccountByCode(ctx, g.codes.InstallmentReceivable)
	if err != nil {
		return dto.CreateJournalEntryRequest{}, err
	}

	description := fmt.Sprintf("Installment payment for contract %s", payment.ContractID)
	lines := []dto.CreateJournalLineRequest{
		{
			AccountID:   cashAccount.AccountID,
			Description: fmt.Sprintf("Received via %s", event.PaymentMethod),
			Debit:       received,
			Reference:   payment.ContractID,
		},
		{
			AccountID:   receivable.AccountID,
			Description: "Installment principal",
			Credit:      payment.Amount,
			Reference:   payment.ContractID,
		},
	}
	if lateFee.IsPositive() {
		lateFeeAccount, err := g.accountSvc.GetAccountByCode(ctx, g.codes.LateFeeIncome)
		if err != nil {
			return dto.CreateJournalEntryRequest{}, err
		}
		lines = append(lines, dto.CreateJournalLineRequest{
			AccountID:   lateFeeAccount.AccountID,
			Description: fmt.Sprintf("Late fee (%s%%)", g.lateFeePercent.String()),
			Credit:      lateFee,
			Reference:   payment.ContractID,
		})
	}

	return dto.CreateJournalEntryRequest{
		EntryDate:   payment.PaymentDate,
		Description: description,
		Reference:   payment.ContractID,
		SourceType:  SourceTypeInstallmentPayment,
		SourceID:    payment.PaymentID,
		Lines:       lines,
	}, nil
}
