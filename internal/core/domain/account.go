package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// Account is one node of the chart of accounts. The engine treats accounts as
// read-only reference data: they are created by chart-of-accounts setup and
// the persisted balance is derived from posted entries, never authoritative.
type Account struct {
	AccountID       string          `json:"accountID"`       // Primary key (UUID)
	Code            string          `json:"code"`            // Unique human-meaningful code, e.g. "1000"
	Name            string          `json:"name"`            // Display name
	AccountType     AccountType     `json:"accountType"`     // ASSET, LIABILITY, etc.
	Category        string          `json:"category"`        // Free-form grouping, e.g. "current_asset"
	ParentAccountID string          `json:"parentAccountID"` // Nullable self-reference for rollup hierarchy
	IsActive        bool            `json:"isActive"`        // Deactivation never deletes history
	Balance         decimal.Decimal `json:"balance"`         // Derived running balance
	AuditFields
}

// IsDebitNormal reports whether debits increase this account's balance.
func (a Account) IsDebitNormal() bool {
	return a.AccountType == Asset || a.AccountType == Expense
}

// AccountFilter narrows ListAccounts results. Zero values mean "no filter".
type AccountFilter struct {
	IncludeInactive bool
	AccountType     AccountType
	Limit           int
	Offset          int
}
