package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/retailsuite/ledger-engine/internal/apperrors"
	"github.com/retailsuite/ledger-engine/internal/core/domain"
	portsrepo "github.com/retailsuite/ledger-engine/internal/core/ports/repositories"
	portssvc "github.com/retailsuite/ledger-engine/internal/core/ports/services"
	"github.com/retailsuite/ledger-engine/internal/dto"
)

// accountService is the account directory: read-only lookups over the chart
// of accounts. Balances here are derived data; the ledger is the source of
// truth.
type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	return account, nil
}

// GetAccountByCode resolves an active account by its code. Inactive accounts
// are treated as not found: new entries must not be generated against them.
func (s *accountService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, code, false)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewAccountMappingError(code)
		}
		return nil, fmt.Errorf("failed to find account with code %s: %w", code, err)
	}
	return account, nil
}

func (s *accountService) GetAccountByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to find accounts by ids: %w", err)
	}
	return accounts, nil
}

func (s *accountService) IsActive(ctx context.Context, accountID string) (bool, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return false, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	return account.IsActive, nil
}

func (s *accountService) ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, int64, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	filter := domain.AccountFilter{
		IncludeInactive: params.IncludeInactive,
		AccountType:     domain.AccountType(params.AccountType),
		Limit:           limit,
		Offset:          offset,
	}

	accounts, total, err := s.accountRepo.ListAccounts(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, total, nil
}
