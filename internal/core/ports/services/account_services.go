package services

import (
	"context"

	"github.com/retailsuite/ledger-engine/internal/core/domain"
	"github.com/retailsuite/ledger-engine/internal/dto"
)

// AccountSvcFacade is the account directory: read-only resolution of chart
// of accounts entries by id and by code.
type AccountSvcFacade interface {
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	// GetAccountByCode resolves active accounts only.
	GetAccountByCode(ctx context.Context, code string) (*domain.Account, error)
	GetAccountByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)
	IsActive(ctx context.Context, accountID string) (bool, error)
	ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, int64, error)
}
