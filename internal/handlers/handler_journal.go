package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/retailsuite/ledger-engine/internal/core/ports/services"
	"github.com/retailsuite/ledger-engine/internal/dto"
	"github.com/retailsuite/ledger-engine/internal/middleware"
)

// journalHandler handles HTTP requests for journal entries.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(journalService portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{journalService: journalService}
}

func (h *journalHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	creator, ok := requireActor(c, logger)
	if !ok {
		return
	}

	entry, err := h.journalService.CreateEntry(c.Request.Context(), req, creator)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	logger.Info("Journal entry created",
		slog.String("entry_id", entry.EntryID),
		slog.String("entry_number", entry.EntryNumber))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

func (h *journalHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

	entry, err := h.journalService.GetEntry(c.Request.Context(), entryID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

func (h *journalHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListJournalEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListEntries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	resp, err := h.journalService.ListEntries(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *journalHandler) postEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

	approver, ok := requireActor(c, logger)
	if !ok {
		return
	}

	entry, err := h.journalService.PostEntry(c.Request.Context(), entryID, approver)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	logger.Info("Journal entry posted",
		slog.String("entry_id", entry.EntryID),
		slog.String("approver", approver))
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

func (h *journalHandler) reverseEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

	var req dto.ReverseJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ReverseEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	reverser, ok := requireActor(c, logger)
	if !ok {
		return
	}

	reversal, err := h.journalService.ReverseEntry(c.Request.Context(), entryID, req.Reason, reverser)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	logger.Info("Journal entry reversed",
		slog.String("original_entry_id", entryID),
		slog.String("reversing_entry_id", reversal.EntryID))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(reversal))
}

// registerJournalRoutes registers journal ledger routes.
func registerJournalRoutes(group *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	handler := newJournalHandler(journalService)

	entries := group.Group("/journal-entries")
	{
		entries.POST("", handler.createEntry)
		entries.GET("", handler.listEntries)
		entries.GET("/:entryID", handler.getEntry)
		entries.POST("/:entryID/post", handler.postEntry)
		entries.POST("/:entryID/reverse", handler.reverseEntry)
	}
}
