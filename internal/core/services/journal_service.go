package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailsuite/ledger-engine/internal/apperrors"
	"github.com/retailsuite/ledger-engine/internal/core/domain"
	portsrepo "github.com/retailsuite/ledger-engine/internal/core/ports/repositories"
	portssvc "github.com/retailsuite/ledger-engine/internal/core/ports/services"
	"github.com/retailsuite/ledger-engine/internal/dto"
	"github.com/retailsuite/ledger-engine/internal/middleware"
	"github.com/retailsuite/ledger-engine/internal/utils/accounting"
)

const defaultListLimit = 20
const maxListLimit = 100

// journalService provides journal entry creation, posting, and reversal.
type journalService struct {
	accountSvc  portssvc.AccountSvcFacade
	journalRepo portsrepo.JournalRepositoryFacade
	epsilon     decimal.Decimal
}

// NewJournalService creates a new JournalService. epsilon is the tolerated
// debit/credit difference when validating balance.
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade, accountSvc portssvc.AccountSvcFacade, epsilon decimal.Decimal) portssvc.JournalSvcFacade {
	return &journalService{
		accountSvc:  accountSvc,
		journalRepo: journalRepo,
		epsilon:     epsilon,
	}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// validateLines performs structural validation of a line set and collects
// every violation rather than stopping at the first.
func (s *journalService) validateLines(lines []dto.CreateJournalLineRequest) *apperrors.ValidationError {
	verr := apperrors.NewValidationError()

	if len(lines) < 2 {
		verr.Add("entry must have at least two lines, got %d", len(lines))
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for i, line := range lines {
		if line.AccountID == "" {
			verr.Add("line %d: account id is required", i+1)
		}
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			verr.Add("line %d: debit and credit must be non-negative", i+1)
			continue
		}
		debitSet := line.Debit.IsPositive()
		creditSet := line.Credit.IsPositive()
		if debitSet && creditSet {
			verr.Add("line %d: debit and credit are mutually exclusive", i+1)
		}
		if !debitSet && !creditSet {
			verr.Add("line %d: exactly one of debit and credit must be positive", i+1)
		}
		totalDebit = totalDebit.Add(line.Debit)
		totalCredit = totalCredit.Add(line.Credit)
	}

	if diff := totalDebit.Sub(totalCredit).Abs(); diff.GreaterThan(s.epsilon) {
		verr.Add("entry does not balance: total debit %s, total credit %s", totalDebit.String(), totalCredit.String())
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}

// resolveAccounts fetches the referenced accounts and appends validation
// messages for any that are missing. Inactive accounts are allowed but
// warn-logged: deactivation must not block corrections against history.
func (s *journalService) resolveAccounts(ctx context.Context, accountIDs []string, verr *apperrors.ValidationError) (map[string]domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	accountsMap, err := s.accountSvc.GetAccountByIDs(ctx, uniqueStrings(accountIDs))
	if err != nil {
		logger.Error("Failed to fetch accounts for entry validation", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}

	for _, id := range uniqueStrings(accountIDs) {
		acc, found := accountsMap[id]
		if !found {
			verr.Add("account %s not found", id)
			continue
		}
		if !acc.IsActive {
			logger.Warn("Entry references inactive account", slog.String("account_id", id), slog.String("account_code", acc.Code))
		}
	}
	return accountsMap, nil
}

// CreateEntry validates and persists a new journal entry in DRAFT status.
// The entry header and all lines are written as one atomic unit; on any
// validation failure nothing is written and the returned ValidationError
// carries every per-line and aggregate message.
func (s *journalService) CreateEntry(ctx context.Context, req dto.CreateJournalEntryRequest, creator string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	verr := s.validateLines(req.Lines)
	if verr == nil {
		verr = apperrors.NewValidationError()
	}
	if req.Description == "" {
		verr.Add("description is required")
	}

	accountIDs := make([]string, 0, len(req.Lines))
	for _, line := range req.Lines {
		if line.AccountID != "" {
			accountIDs = append(accountIDs, line.AccountID)
		}
	}
	if len(accountIDs) > 0 {
		if _, err := s.resolveAccounts(ctx, accountIDs, verr); err != nil {
			return nil, err
		}
	}

	if verr.HasErrors() {
		return nil, verr
	}

	now := time.Now().UTC()
	entryID := uuid.NewString()

	lines := make([]domain.JournalLine, len(req.Lines))
	for i, lineReq := range req.Lines {
		lines[i] = domain.JournalLine{
			LineID:      uuid.NewString(),
			EntryID:     entryID,
			AccountID:   lineReq.AccountID,
			Description: lineReq.Description,
			Debit:       lineReq.Debit,
			Credit:      lineReq.Credit,
			Reference:   lineReq.Reference,
			AuditFields: domain.NewAuditFields(creator, now),
		}
	}
	totalDebit, totalCredit := accounting.Totals(lines)

	entry := domain.JournalEntry{
		EntryID:     entryID,
		EntryDate:   req.EntryDate,
		Description: req.Description,
		Reference:   req.Reference,
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
		Status:      domain.Draft,
		SourceType:  req.SourceType,
		SourceID:    req.SourceID,
		AuditFields: domain.NewAuditFields(creator, now),
	}

	entryNumber, err := s.journalRepo.SaveEntry(ctx, entry, lines)
	if err != nil {
		logger.Error("Failed to save journal entry", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save journal entry: %w", err)
	}
	entry.EntryNumber = entryNumber
	entry.Lines = lines

	logger.Info("Journal entry created",
		slog.String("entry_id", entry.EntryID),
		slog.String("entry_number", entry.EntryNumber),
		slog.String("status", string(entry.Status)))
	return &entry, nil
}

// PostEntry transitions a draft entry to APPROVED. Balance and line
// integrity are re-checked before the status flips; the flip is a
// compare-and-swap so a concurrent posting loses cleanly.
func (s *journalService) PostEntry(ctx context.Context, entryID string, approver string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewPostingError(entryID, "entry not found")
		}
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}

	if entry.Status != domain.Draft {
		return nil, apperrors.NewPostingError(entryID, fmt.Sprintf("entry is %s, expected %s", entry.Status, domain.Draft))
	}

	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lines for entry %s: %w", entryID, err)
	}
	if !accounting.IsBalanced(lines, s.epsilon) {
		// Stored data is out of balance; this should be impossible after
		// CreateEntry validation and means someone tampered below the API.
		logger.Error("Entry failed balance re-check at posting time", slog.String("entry_id", entryID))
		return nil, apperrors.NewPostingError(entryID, "entry failed balance re-validation")
	}
	for _, line := range lines {
		if line.Debit.IsPositive() == line.Credit.IsPositive() {
			return nil, apperrors.NewPostingError(entryID, fmt.Sprintf("line %s failed integrity re-validation", line.LineID))
		}
	}

	now := time.Now().UTC()
	if err := s.journalRepo.MarkEntryApproved(ctx, entryID, approver, now); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, apperrors.NewPostingError(entryID, "entry is no longer in draft status")
		}
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewPostingError(entryID, "entry not found")
		}
		logger.Error("Failed to approve entry", slog.String("entry_id", entryID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to approve entry %s: %w", entryID, err)
	}

	entry.Status = domain.Approved
	entry.ApprovedBy = &approver
	entry.ApprovedAt = &now
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = approver
	entry.Lines = lines

	logger.Info("Journal entry posted",
		slog.String("entry_id", entryID),
		slog.String("entry_number", entry.EntryNumber),
		slog.String("approver", approver))
	return entry, nil
}

// ReverseEntry cancels an approved entry by creating a new, immediately
// approved entry with debit and credit swapped on every line, and flipping
// the original to the terminal REVERSED state. Original amounts are never
// edited; the audit trail is two balanced immutable entries.
func (s *journalService) ReverseEntry(ctx context.Context, entryID string, reason string, reverser string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	original, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewPostingError(entryID, "entry not found")
		}
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}

	if original.Status != domain.Approved {
		return nil, apperrors.NewPostingError(entryID, fmt.Sprintf("only %s entries can be reversed, entry is %s", domain.Approved, original.Status))
	}
	if original.IsReversal() {
		return nil, apperrors.NewPostingError(entryID, "cannot reverse a reversing entry")
	}

	originalLines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lines for entry %s: %w", entryID, err)
	}

	now := time.Now().UTC()
	reversalID := uuid.NewString()

	reversalLines := make([]domain.JournalLine, len(originalLines))
	for i, origLine := range originalLines {
		swapped := origLine.Swapped()
		swapped.LineID = uuid.NewString()
		swapped.EntryID = reversalID
		swapped.AuditFields = domain.NewAuditFields(reverser, now)
		reversalLines[i] = swapped
	}

	reversal := domain.JournalEntry{
		EntryID:         reversalID,
		EntryDate:       now,
		Description:     fmt.Sprintf("Reversal of %s: %s", original.EntryNumber, reason),
		Reference:       original.EntryNumber,
		TotalDebit:      original.TotalCredit,
		TotalCredit:     original.TotalDebit,
		Status:          domain.Approved,
		SourceType:      original.SourceType,
		SourceID:        original.SourceID,
		ApprovedBy:      &reverser,
		ApprovedAt:      &now,
		OriginalEntryID: &original.EntryID,
		AuditFields:     domain.NewAuditFields(reverser, now),
	}

	entryNumber, err := s.journalRepo.SaveReversal(ctx, reversal, reversalLines, original.EntryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			// Lost the race against another reversal of the same entry.
			return nil, apperrors.NewPostingError(entryID, "entry was already reversed")
		}
		logger.Error("Failed to save reversing entry", slog.String("entry_id", entryID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save reversing entry: %w", err)
	}
	reversal.EntryNumber = entryNumber
	reversal.Lines = reversalLines

	logger.Info("Journal entry reversed",
		slog.String("original_entry_id", original.EntryID),
		slog.String("reversing_entry_id", reversalID),
		slog.String("reverser", reverser))
	return &reversal, nil
}

// GetEntry retrieves an entry header with its lines.
func (s *journalService) GetEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}

	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lines for entry %s: %w", entryID, err)
	}
	entry.Lines = lines
	return entry, nil
}

// ListEntries returns one page of entries matching the filters plus the
// total count independent of the page window.
func (s *journalService) ListEntries(ctx context.Context, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error) {
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

	filter := domain.EntryFilter{
		Status:     domain.EntryStatus(params.Status),
		AccountID:  params.AccountID,
		SourceType: params.SourceType,
		CreatedBy:  params.CreatedBy,
		DateFrom:   params.DateFrom,
		DateTo:     params.DateTo,
		Search:     params.Search,
		Limit:      limit,
		Offset:     offset,
	}

	entries, total, err := s.journalRepo.ListEntries(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	responses := make([]dto.JournalEntryResponse, len(entries))
	for i := range entries {
		responses[i] = dto.ToJournalEntryResponse(&entries[i])
	}

	return &dto.ListJournalEntriesResponse{
		Entries: responses,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
	}, nil
}

// uniqueStrings returns a slice containing only the unique strings from the input.
func uniqueStrings(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	result := make([]string, 0, len(input))
	for _, str := range input {
		if _, ok := seen[str]; !ok {
			seen[str] = struct{}{}
			result = append(result, str)
		}
	}
	return result
}
