package generators

import (
	"context"
	"encoding/json"
	"sort"

	portssvc "github.com/retailsuite/ledger-engine/internal/core/ports/services"
	"github.com/retailsuite/ledger-engine/internal/dto"
	"github.com/retailsuite/ledger-engine/internal/platform/config"
)

// EntryGenerator maps one kind of business event to a balanced journal entry
// request. Generators are pure with respect to the ledger: they resolve
// accounts and build lines, they never write.
type EntryGenerator interface {
	// SourceType identifies the event kind this generator handles. It becomes
	// the entry's SourceType.
	SourceType() string
	// Generate parses and validates the raw event payload and returns the
	// entry request it maps to. An unresolvable account code fails with
	// *apperrors.AccountMappingError before any ledger call.
	Generate(ctx context.Context, payload json.RawMessage) (dto.CreateJournalEntryRequest, error)
}

// Registry dispatches event payloads to the generator registered for their
// source type. Adding a new event kind means registering a new generator;
// the ledger service is never touched.
type Registry struct {
	generators map[string]EntryGenerator
}

// NewRegistry builds a registry over the given generators. A duplicate source
// type keeps the last registration.
func NewRegistry(gens ...EntryGenerator) *Registry {
	r := &Registry{generators: make(map[string]EntryGenerator, len(gens))}
	for _, g := range gens {
		r.generators[g.SourceType()] = g
	}
	return r
}

// NewDefaultRegistry registers the standard retail event generators.
func NewDefaultRegistry(cfg *config.Config, accountSvc portssvc.AccountSvcFacade) *Registry {
	return NewRegistry(
		NewSupplierInvoiceGenerator(accountSvc, cfg.AccountCodes),
		NewSupplierPaymentGenerator(accountSvc, cfg.AccountCodes),
		NewInstallmentPaymentGenerator(accountSvc, cfg.AccountCodes, cfg.LateFeePercent),
	)
}

// Lookup returns the generator for a source type.
func (r *Registry) Lookup(sourceType string) (EntryGenerator, bool) {
	g, ok := r.generators[sourceType]
	return g, ok
}

// SourceTypes lists the registered source types, sorted for stable output.
func (r *Registry) SourceTypes() []string {
	types := make([]string, 0, len(r.generators))
	for t := range r.generators {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
