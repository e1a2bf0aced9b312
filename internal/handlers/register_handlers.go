package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/retailsuite/ledger-engine/internal/core/generators"
	portssvc "github.com/retailsuite/ledger-engine/internal/core/ports/services"
	"github.com/retailsuite/ledger-engine/internal/middleware"
	"github.com/retailsuite/ledger-engine/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies
// through the service interfaces.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	registry *generators.Registry,
) {
	// Health check stays outside the actor requirement.
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, cfg, services, registry)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to the entity
// route registrations. Every v1 mutation requires an explicit actor identity.
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	registry *generators.Registry,
) {
	v1 := r.Group("/api/v1", middleware.RequireActor())

	registerAccountRoutes(v1, services.Account)
	registerJournalRoutes(v1, services.Journal)
	registerEventRoutes(v1, registry, services.Journal)
	registerReconciliationRoutes(v1, services.Reconciliation)
}
