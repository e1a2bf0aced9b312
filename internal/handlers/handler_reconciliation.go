package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/retailsuite/ledger-engine/internal/core/ports/services"
	"github.com/retailsuite/ledger-engine/internal/dto"
	"github.com/retailsuite/ledger-engine/internal/middleware"
)

// reconciliationHandler handles HTTP requests for reconciliation reports.
type reconciliationHandler struct {
	reconciliationService portssvc.ReconciliationSvcFacade
}

// newReconciliationHandler creates a new reconciliationHandler.
func newReconciliationHandler(reconciliationService portssvc.ReconciliationSvcFacade) *reconciliationHandler {
	return &reconciliationHandler{reconciliationService: reconciliationService}
}

func (h *reconciliationHandler) createReconciliation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateReconciliationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateReconciliation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	creator, ok := requireActor(c, logger)
	if !ok {
		return
	}

	report, err := h.reconciliationService.CreateReconciliation(c.Request.Context(), req, creator)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToReconciliationReportResponse(report))
}

func (h *reconciliationHandler) getReconciliation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reportID := c.Param("reportID")

	report, err := h.reconciliationService.GetReconciliation(c.Request.Context(), reportID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToReconciliationReportResponse(report))
}

func (h *reconciliationHandler) listReconciliations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListReconciliationsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListReconciliations", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	resp, err := h.reconciliationService.ListReconciliations(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *reconciliationHandler) addItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reportID := c.Param("reportID")

	var req dto.AddReconciliationItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddItem", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	creator, ok := requireActor(c, logger)
	if !ok {
		return
	}

	item, err := h.reconciliationService.AddItem(c.Request.Context(), reportID, req, creator)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToReconciliationItemResponse(*item))
}

func (h *reconciliationHandler) reconcileItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reportID := c.Param("reportID")
	itemID := c.Param("itemID")

	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	item, err := h.reconciliationService.ReconcileItem(c.Request.Context(), reportID, itemID, actor)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToReconciliationItemResponse(*item))
}

func (h *reconciliationHandler) addAdjustment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reportID := c.Param("reportID")

	var req dto.AddReconciliationAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddAdjustment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	creator, ok := requireActor(c, logger)
	if !ok {
		return
	}

	adjustment, err := h.reconciliationService.AddManualAdjustment(c.Request.Context(), reportID, req, creator)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToReconciliationAdjustmentResponse(*adjustment))
}

func (h *reconciliationHandler) completeReconciliation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reportID := c.Param("reportID")

	reconciler, ok := requireActor(c, logger)
	if !ok {
		return
	}

	report, err := h.reconciliationService.CompleteReconciliation(c.Request.Context(), reportID, reconciler)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToReconciliationReportResponse(report))
}

func (h *reconciliationHandler) reviewReconciliation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reportID := c.Param("reportID")

	reviewer, ok := requireActor(c, logger)
	if !ok {
		return
	}

	report, err := h.reconciliationService.ReviewReconciliation(c.Request.Context(), reportID, reviewer)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToReconciliationReportResponse(report))
}

// registerReconciliationRoutes registers reconciliation engine routes.
func registerReconciliationRoutes(group *gin.RouterGroup, reconciliationService portssvc.ReconciliationSvcFacade) {
	handler := newReconciliationHandler(reconciliationService)

	reports := group.Group("/reconciliations")
	{
		reports.POST("", handler.createReconciliation)
		reports.GET("", handler.listReconciliations)
		reports.GET("/:reportID", handler.getReconciliation)
		reports.POST("/:reportID/items", handler.addItem)
		reports.POST("/:reportID/items/:itemID/reconcile", handler.reconcileItem)
		reports.POST("/:reportID/adjustments", handler.addAdjustment)
		reports.POST("/:reportID/complete", handler.completeReconciliation)
		reports.POST("/:reportID/review", handler.reviewReconciliation)
	}
}
