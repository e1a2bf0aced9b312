package repositories

import (
	"context"

	"github.com/retailsuite/ledger-engine/internal/core/domain"
)

// AccountRepositoryFacade is the read-only chart-of-accounts store. The
// engine never mutates accounts; chart setup is an external concern.
type AccountRepositoryFacade interface {
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	// FindAccountByCode resolves an account by its human-meaningful code.
	// Inactive accounts are excluded unless includeInactive is set.
	FindAccountByCode(ctx context.Context, code string, includeInactive bool) (*domain.Account, error)
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)
	ListAccounts(ctx context.Context, params domain.AccountFilter) ([]domain.Account, int64, error)
}
