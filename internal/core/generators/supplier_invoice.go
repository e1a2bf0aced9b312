package generators

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/retailsuite/ledger-engine/internal/apperrors"
	portssvc "github.com/retailsuite/ledger-engine/internal/core/ports/services"
	"github.com/retailsuite/ledger-engine/internal/dto"
	"github.com/retailsuite/ledger-engine/internal/platform/config"
)

// SourceTypeSupplierInvoice is the dispatch key for supplier invoice events.
const SourceTypeSupplierInvoice = "supplier_invoice"

// supplierInvoiceGenerator books goods received on credit: debit inventory
// for the goods value, debit VAT input for the recoverable tax, credit
// accounts payable for the invoice total.
type supplierInvoiceGenerator struct {
	accountSvc portssvc.AccountSvcFacade
	codes      config.AccountCodes
}

// NewSupplierInvoiceGenerator creates the supplier invoice generator.
func NewSupplierInvoiceGenerator(accountSvc portssvc.AccountSvcFacade, codes config.AccountCodes) EntryGenerator {
	return &supplierInvoiceGenerator{accountSvc: accountSvc, codes: codes}
}

func (g *supplierInvoiceGenerator) SourceType() string {
	return SourceTypeSupplierInvoice
}

func (g *supplierInvoiceGenerator) Generate(ctx context.Context, payload json.RawMessage) (dto.CreateJournalEntryRequest, error) {
	var event dto.SupplierInvoiceEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return dto.CreateJournalEntryRequest{}, apperrors.NewValidationError(fmt.Sprintf("invalid supplier invoice payload: %v", err))
	}

	vErr := &apperrors.ValidationError{}
	if event.InvoiceID == "" {
		vErr.Add("invoiceID is required")
	}
	if event.SupplierID == "" {
		vErr.Add("supplierID is required")
	}
	if event.InvoiceNumber == "" {
		vErr.Add("invoiceNumber is required")
	}
	if event.InvoiceDate.IsZero() {
		vErr.Add("invoiceDate is required")
	}
	if !event.Subtotal.IsPositive() {
		vErr.Add("subtotal must be positive")
	}
	if event.VATAmount.IsNegative() {
		vErr.Add("vatAmount must not be negative")
	}
	if !event.Total.Equal(event.Subtotal.Add(event.VATAmount)) {
		vErr.Add("total must equal subtotal plus vatAmount")
	}
	if vErr.HasErrors() {
		return dto.CreateJournalEntryRequest{}, vErr
	}

	inventory, err := g.accountSvc.GetAccountByCode(ctx, g.codes.Inventory)
	if err != nil {
		return dto.CreateJournalEntryRequest{}, err
	}
	payable, err := g.accountSvc.GetAccountByCode(ctx, g.codes.AccountsPayable)
	if err != nil {
		return dto.CreateJournalEntryRequest{}, err
	}

	description := fmt.Sprintf("Supplier invoice %s from supplier %s", event.InvoiceNumber, event.SupplierID)
	lines := []dto.CreateJournalLineRequest{
		{
			AccountID:   inventory.AccountID,
			Description: "Goods received",
			Debit:       event.Subtotal,
			Reference:   event.InvoiceNumber,
		},
	}
	if event.VATAmount.IsPositive() {
		vatInput, err := g.accountSvc.GetAccountByCode(ctx, g.codes.VATInput)
		if err != nil {
			return dto.CreateJournalEntryRequest{}, err
		}
		lines = append(lines, dto.CreateJournalLineRequest{
			AccountID:   vatInput.AccountID,
			Description: "Recoverable VAT",
			Debit:       event.VATAmount,
			Reference:   event.InvoiceNumber,
		})
	}
	lines = append(lines, dto.CreateJournalLineRequest{
		AccountID:   payable.AccountID,
		Description: "Amount owed to supplier",
		Credit:      event.Total,
		Reference:   event.InvoiceNumber,
	})

	return dto.CreateJournalEntryRequest{
		EntryDate:   event.InvoiceDate,
		Description: description,
		Reference:   event.InvoiceNumber,
		SourceType:  SourceTypeSupplierInvoice,
		SourceID:    event.InvoiceID,
		Lines:       lines,
	}, nil
}
