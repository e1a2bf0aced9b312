package mapping

import (
	"github.com/retailsuite/ledger-engine/internal/core/domain"
	"github.com/retailsuite/ledger-engine/internal/models"
)

// ToDomainAccount converts a model Account to a domain Account.
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:       m.AccountID,
		Code:            m.Code,
		Name:            m.Name,
		AccountType:     domain.AccountType(m.AccountType),
		Category:        m.Category,
		ParentAccountID: m.ParentAccountID,
		IsActive:        m.IsActive,
		Balance:         m.Balance,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of model Accounts.
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}
