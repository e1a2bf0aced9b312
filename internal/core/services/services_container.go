package services

import (
	portsrepo "github.com/retailsuite/ledger-engine/internal/core/ports/repositories"
	portssvc "github.com/retailsuite/ledger-engine/internal/core/ports/services"
	"github.com/retailsuite/ledger-engine/internal/platform/config"
)

// NewServiceContainer wires the engine's services against one repository
// provider and the loaded configuration.
func NewServiceContainer(cfg *config.Config, repos *portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	accountSvc := NewAccountService(repos.AccountRepo)
	journalSvc := NewJournalService(repos.JournalRepo, accountSvc, cfg.BalanceEpsilon)
	reconciliationSvc := NewReconciliationService(repos.ReconciliationRepo, accountSvc, cfg.VarianceThreshold, cfg.AccountCodes.ReconciliationOffset)

	return &portssvc.ServiceContainer{
		Account:        accountSvc,
		Journal:        journalSvc,
		Reconciliation: reconciliationSvc,
	}
}
