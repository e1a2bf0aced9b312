package services

// ServiceContainer bundles the engine's services for handler registration.
type ServiceContainer struct {
	Account        AccountSvcFacade
	Journal        JournalSvcFacade
	Reconciliation ReconciliationSvcFacade
}
