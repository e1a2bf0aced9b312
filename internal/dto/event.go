package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SupplierInvoiceEvent is the wire shape of a supplier invoice business event.
type SupplierInvoiceEvent struct {
	InvoiceID     string          `json:"invoiceID" binding:"required"`
	SupplierID    string          `json:"supplierID" binding:"required"`
	InvoiceNumber string          `json:"invoiceNumber" binding:"required"`
	InvoiceDate   time.Time       `json:"invoiceDate" binding:"required"`
	Subtotal      decimal.Decimal `json:"subtotal" binding:"required"`
	VATAmount     decimal.Decimal `json:"vatAmount"`
	Total         decimal.Decimal `json:"total" binding:"required"`
}

// SupplierPaymentEvent is the wire shape of a supplier payment business event.
type SupplierPaymentEvent struct {
	PaymentID     string          `json:"paymentID" binding:"required"`
	SupplierID    string          `json:"supplierID" binding:"required"`
	InvoiceID     string          `json:"invoiceID"`
	PaymentDate   time.Time       `json:"paymentDate" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	PaymentMethod string          `json:"paymentMethod" binding:"required,oneof=CASH BANK"`
}

// InstallmentPaymentEvent is the wire shape of an installment payment event.
type InstallmentPaymentEvent struct {
	PaymentID     string          `json:"paymentID" binding:"required"`
	ContractID    string          `json:"contractID" binding:"required"`
	DueDate       time.Time       `json:"dueDate" binding:"required"`
	PaymentDate   time.Time       `json:"paymentDate" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	PaymentMethod string          `json:"paymentMethod" binding:"required,oneof=CASH BANK"`
}
