package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/retailsuite/ledger-engine/internal/core/ports/repositories"
)

// NewRepositoryProvider wires the pgx-backed repositories over one shared
// connection pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		AccountRepo:        newPgxAccountRepository(dbPool),
		JournalRepo:        newPgxJournalRepository(dbPool),
		ReconciliationRepo: newPgxReconciliationRepository(dbPool),
	}
}
