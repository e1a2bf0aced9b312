package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/retailsuite/ledger-engine/internal/core/ports/services"
	"github.com/retailsuite/ledger-engine/internal/dto"
	"github.com/retailsuite/ledger-engine/internal/middleware"
)

// accountHandler handles HTTP requests for the chart of accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(accountService portssvc.AccountSvcFacade) *accountHandler {
	return &accountHandler{accountService: accountService}
}

func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListAccounts", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	accounts, total, err := h.accountService.ListAccounts(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accounts": dto.ToAccountResponses(accounts),
		"total":    total,
	})
}

func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	account, err := h.accountService.GetAccountByID(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

func (h *accountHandler) getAccountByCode(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	code := c.Param("code")

	account, err := h.accountService.GetAccountByCode(c.Request.Context(), code)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// registerAccountRoutes registers account directory routes.
func registerAccountRoutes(group *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	handler := newAccountHandler(accountService)

	accounts := group.Group("/accounts")
	{
		accounts.GET("", handler.listAccounts)
		accounts.GET("/:accountID", handler.getAccount)
		accounts.GET("/code/:code", handler.getAccountByCode)
	}
}
