package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType mirrors domain.AccountType at the persistence boundary.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// Account is the database representation of a chart-of-accounts node.
type Account struct {
	AccountID       string
	Code            string
	Name            string
	AccountType     AccountType
	Category        string
	ParentAccountID string
	IsActive        bool
	Balance         decimal.Decimal
	AuditFields
}

// AuditFields holds the audit columns shared by every table.
type AuditFields struct {
	CreatedAt     time.Time
	CreatedBy     string
	LastUpdatedAt time.Time
	LastUpdatedBy string
}
