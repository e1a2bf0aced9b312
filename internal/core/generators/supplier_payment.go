package generators

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/retailsuite/ledger-engine/internal/apperrors"
	"github.com/retailsuite/ledger-engine/internal/core/domain"
	portssvc "github.com/retailsuite/ledger-engine/internal/core/ports/services"
	"github.com/retailsuite/ledger-engine/internal/dto"
	"github.com/retailsuite/ledger-engine/internal/platform/config"
)

// SourceTypeSupplierPayment is the dispatch key for supplier payment events.
const SourceTypeSupplierPayment = "supplier_payment"

// supplierPaymentGenerator books settlement of payables: debit accounts
// payable, credit cash or bank depending on the payment method.
type supplierPaymentGenerator struct {
	accountSvc portssvc.AccountSvcFacade
	codes      config.AccountCodes
}

// NewSupplierPaymentGenerator creates the supplier payment generator.
func NewSupplierPaymentGenerator(accountSvc portssvc.AccountSvcFacade, codes config.AccountCodes) EntryGenerator {
	return &supplierPaymentGenerator{accountSvc: accountSvc, codes: codes}
}

func (g *supplierPaymentGenerator) SourceType() string {
	return SourceTypeSupplierPayment
}

// cashAccountCode selects the cash-equivalent account code for a payment
// method. Unknown methods are a validation failure at the call site.
func cashAccountCode(codes config.AccountCodes, method domain.PaymentMethod) (string, bool) {
	switch method {
	case domain.PaymentCash:
		return codes.Cash, true
	case domain.PaymentBank:
		return codes.Bank, true
	default:
		return "", false
	}
}

func (g *supplierPaymentGenerator) Generate(ctx context.Context, payload json.RawMessage) (dto.CreateJournalEntryRequest, error) {
	var event dto.SupplierPaymentEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return dto.CreateJournalEntryRequest{}, apperrors.NewValidationError(fmt.Sprintf("invalid supplier payment payload: %v", err))
	}

	vErr := &apperrors.ValidationError{}
	if event.PaymentID == "" {
		vErr.Add("paymentID is required")
	}
	if event.SupplierID == "" {
		vErr.Add("supplierID is required")
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

	payable, err := g.accountSvc.GetAccountByCode(ctx, g.codes.AccountsPayable)
	if err != nil {
		return dto.CreateJournalEntryRequest{}, err
	}
	cashAccount, err := g.accountSvc.GetAccountByCode(ctx, cashCode)
	if err != nil {
		return dto.CreateJournalEntryRequest{}, err
	}

	description := fmt.Sprintf("Payment to supplier %s", event.SupplierID)
	return dto.CreateJournalEntryRequest{
		EntryDate:   event.PaymentDate,
		Description: description,
		Reference:   event.InvoiceID,
		SourceType:  SourceTypeSupplierPayment,
		SourceID:    event.PaymentID,
		Lines: []dto.CreateJournalLineRequest{
			{
				AccountID:   payable.AccountID,
				Description: "Payable settled",
				Debit:       event.Amount,
				Reference:   event.InvoiceID,
			},
			{
				AccountID:   cashAccount.AccountID,
				Description: fmt.Sprintf("Paid via %s", event.PaymentMethod),
				Credit:      event.Amount,
				Reference:   event.InvoiceID,
			},
		},
	}, nil
}
