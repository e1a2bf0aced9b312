package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/retailsuite/ledger-engine/internal/core/generators"
	portssvc "github.com/retailsuite/ledger-engine/internal/core/ports/services"
	"github.com/retailsuite/ledger-engine/internal/dto"
	"github.com/retailsuite/ledger-engine/internal/middleware"
)

// eventHandler translates business events into draft journal entries through
// the generator registry. The ledger's own validation still runs on whatever
// a generator produces.
type eventHandler struct {
	registry       *generators.Registry
	journalService portssvc.JournalSvcFacade
}

// newEventHandler creates a new eventHandler.
func newEventHandler(registry *generators.Registry, journalService portssvc.JournalSvcFacade) *eventHandler {
	return &eventHandler{registry: registry, journalService: journalService}
}

func (h *eventHandler) dispatchEvent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sourceType := c.Param("sourceType")

	generator, ok := h.registry.Lookup(sourceType)
	if !ok {
		logger.Warn("No generator registered for source type", slog.String("source_type", sourceType))
		c.JSON(http.StatusNotFound, gin.H{
			"error":       "unknown event source type",
			"sourceTypes": h.registry.SourceTypes(),
		})
		return
	}

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		logger.Warn("Failed to read event payload", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	creator, ok := requireActor(c, logger)
	if !ok {
		return
	}

	req, err := generator.Generate(c.Request.Context(), json.RawMessage(payload))
	if err != nil {
		respondError(c, logger, err)
		return
	}

	entry, err := h.journalService.CreateEntry(c.Request.Context(), req, creator)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	logger.Info("Event translated to draft entry",
		slog.String("source_type", sourceType),
		slog.String("source_id", entry.SourceID),
		slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

// registerEventRoutes registers the business event dispatch route.
func registerEventRoutes(group *gin.RouterGroup, registry *generators.Registry, journalService portssvc.JournalSvcFacade) {
	handler := newEventHandler(registry, journalService)
	group.POST("/events/:sourceType", handler.dispatchEvent)
}
