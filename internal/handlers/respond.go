package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/retailsuite/ledger-engine/internal/apperrors"
	"github.com/retailsuite/ledger-engine/internal/middleware"
)

// respondError maps service errors onto HTTP status codes. Validation
// failures carry their per-line messages; conflicts and not-founds keep the
// service message; everything else is a 500 with a generic body so internals
// never leak.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	var vErr *apperrors.ValidationError
	if errors.As(err, &vErr) {
		logger.Warn("Validation failure", slog.String("error", vErr.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "messages": vErr.Messages})
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation failure", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict):
		logger.Warn("Conflicting state", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Duplicate resource", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error("Internal error", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// requireActor pulls the acting user from the request context, aborting with
// 400 when the identity middleware did not run.
func requireActor(c *gin.Context, logger *slog.Logger) (string, bool) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing actor identity"})
		return "", false
	}
	return actor, true
}
