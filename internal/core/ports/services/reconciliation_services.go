package services

import (
	"context"

	"github.com/retailsuite/ledger-engine/internal/core/domain"
	"github.com/retailsuite/ledger-engine/internal/dto"
)

// ReconciliationSvcFacade owns the reconciliation report state machine and
// the balance recomputation that accompanies every item and adjustment.
type ReconciliationSvcFacade interface {
	CreateReconciliation(ctx context.Context, req dto.CreateReconciliationRequest, creator string) (*domain.ReconciliationReport, error)
	GetReconciliation(ctx context.Context, reportID string) (*domain.ReconciliationReport, error)
	ListReconciliations(ctx context.Context, params dto.ListReconciliationsParams) (*dto.ListReconciliationsResponse, error)
	AddItem(ctx context.Context, reportID string, req dto.AddReconciliationItemRequest, creator string) (*domain.ReconciliationItem, error)
	ReconcileItem(ctx context.Context, reportID string, itemID string, userID string) (*domain.ReconciliationItem, error)
	AddManualAdjustment(ctx context.Context, reportID string, req dto.AddReconciliationAdjustmentRequest, creator string) (*domain.ReconciliationAdjustment, error)
	CompleteReconciliation(ctx context.Context, reportID string, reconciler string) (*domain.ReconciliationReport, error)
	ReviewReconciliation(ctx context.Context, reportID string, reviewer string) (*domain.ReconciliationReport, error)
}
