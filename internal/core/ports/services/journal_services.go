package services

import (
	"context"

	"github.com/retailsuite/ledger-engine/internal/core/domain"
	"github.com/retailsuite/ledger-engine/internal/dto"
)

// JournalSvcFacade owns creation, posting, reversal, and read paths for
// journal entries. Creator/approver identity is always an explicit parameter,
// never ambient state.
type JournalSvcFacade interface {
	CreateEntry(ctx context.Context, req dto.CreateJournalEntryRequest, creator string) (*domain.JournalEntry, error)
	PostEntry(ctx context.Context, entryID string, approver string) (*domain.JournalEntry, error)
	ReverseEntry(ctx context.Context, entryID string, reason string, reverser string) (*domain.JournalEntry, error)
	GetEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error)
	ListEntries(ctx context.Context, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error)
}
