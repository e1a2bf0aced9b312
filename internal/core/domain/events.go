package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Business events translated into balanced journal lines by the derived-entry
// generators. The ledger itself never sees these types; generators map them
// to CreateJournalEntryRequest payloads and fail closed on any unresolved
// account code.

// PaymentMethod selects which cash-equivalent account a payment touches.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "CASH"
	PaymentBank PaymentMethod = "BANK"
)

// SupplierInvoice records goods received on credit from a supplier.
type SupplierInvoice struct {
	InvoiceID     string
	SupplierID    string
	InvoiceNumber string
	InvoiceDate   time.Time
	Subtotal      decimal.Decimal // Goods value excluding tax
	VATAmount     decimal.Decimal
	Total         decimal.Decimal // Subtotal + VATAmount
}

// SupplierPayment settles outstanding payables with a supplier.
type SupplierPayment struct {
	PaymentID     string
	SupplierID    string
	InvoiceID     string // Optional link to the invoice being settled
	PaymentDate   time.Time
	Amount        decimal.Decimal
	PaymentMethod PaymentMethod
}

// InstallmentPayment records a customer installment received against a
// contract, optionally carrying a late fee.
type InstallmentPayment struct {
	PaymentID     string
	ContractID    string
	DueDate       time.Time
	PaymentDate   time.Time
	Amount        decimal.Decimal // Principal portion
	PaymentMethod PaymentMethod
}

// IsLate reports whether the installment arrived after its due date.
func (p InstallmentPayment) IsLate() bool {
	return p.PaymentDate.After(p.DueDate)
}
