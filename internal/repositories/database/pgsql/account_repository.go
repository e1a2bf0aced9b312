package pgsql

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/retailsuite/ledger-engine/internal/apperrors"
	"github.com/retailsuite/ledger-engine/internal/core/domain"
	portsrepo "github.com/retailsuite/ledger-engine/internal/core/ports/repositories"
	"github.com/retailsuite/ledger-engine/internal/models"
	"github.com/retailsuite/ledger-engine/internal/utils/mapping"
)

const accountColumns = `account_id, code, name, account_type, category,
	COALESCE(parent_account_id, ''), is_active, balance,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for chart-of-accounts data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.Code,
		&m.Name,
		&m.AccountType,
		&m.Category,
		&m.ParentAccountID,
		&m.IsActive,
		&m.Balance,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`
	m, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find account by ID "+accountID, err)
	}
	account := mapping.ToDomainAccount(m)
	return &account, nil
}

// FindAccountByCode retrieves an account by its code, excluding inactive
// accounts unless includeInactive is set.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, code string, includeInactive bool) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE code = $1`
	if !includeInactive {
		query += ` AND is_active = TRUE`
	}
	query += `;`

	m, err := scanAccount(r.Pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find account by code "+code, err)
	}
	account := mapping.ToDomainAccount(m)
	return &account, nil
}

// FindAccountsByIDs retrieves multiple accounts keyed by ID. IDs with no
// matching account are simply absent from the result; the caller decides
// whether that is an error.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1);`
	rows, err := r.Pool.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query accounts by IDs", err)
	}
	defer rows.Close()

	accounts := make(map[string]domain.Account, len(accountIDs))
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account row", err)
		}
		accounts[m.AccountID] = mapping.ToDomainAccount(m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed iterating account rows", err)
	}
	return accounts, nil
}

// ListAccounts returns one page of the chart of accounts plus the total count
// matching the filter.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, int64, error) {
	conditions := []string{}
	args := []any{}

	if !filter.IncludeInactive {
		conditions = append(conditions, "is_active = TRUE")
	}
	if filter.AccountType != "" {
		args = append(args, string(filter.AccountType))
		conditions = append(conditions, "account_type = $"+strconv.Itoa(len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM accounts` + where + `;`
	if err := r.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to count accounts", err)
	}

	args = append(args, filter.Limit)
	limitPos := strconv.Itoa(len(args))
	args = append(args, filter.Offset)
	offsetPos := strconv.Itoa(len(args))

	query := `SELECT ` + accountColumns + ` FROM accounts` + where +
		` ORDER BY code LIMIT $` + limitPos + ` OFFSET $` + offsetPos + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to query accounts", err)
	}
	defer rows.Close()

	modelAccounts := []models.Account{}
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, 0, apperrors.NewAppError(500, "failed to scan account row", err)
		}
		modelAccounts = append(modelAccounts, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed iterating account rows", err)
	}

	return mapping.ToDomainAccountSlice(modelAccounts), total, nil
}
