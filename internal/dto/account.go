package dto

import (
	"github.com/retailsuite/ledger-engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountResponse is the API shape of a chart-of-accounts node.
type AccountResponse struct {
	AccountID       string          `json:"accountID"`
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	AccountType     string          `json:"accountType"`
	Category        string          `json:"category,omitempty"`
	ParentAccountID string          `json:"parentAccountID,omitempty"`
	IsActive        bool            `json:"isActive"`
	Balance         decimal.Decimal `json:"balance"`
}

// ListAccountsParams pages and filters account listings.
type ListAccountsParams struct {
	IncludeInactive bool   `form:"includeInactive"`
	AccountType     string `form:"accountType"`
	Limit           int    `form:"limit"`
	Offset          int    `form:"offset"`
}

// ToAccountResponse converts a domain Account to its API shape.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:       a.AccountID,
		Code:            a.Code,
		Name:            a.Name,
		AccountType:     string(a.AccountType),
		Category:        a.Category,
		ParentAccountID: a.ParentAccountID,
		IsActive:        a.IsActive,
		Balance:         a.Balance,
	}
}

// ToAccountResponses converts a slice of domain Accounts.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses
}
