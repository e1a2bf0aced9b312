package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// actorHeader carries the identity of the user performing the call. The
// surrounding application authenticates; the engine only requires that every
// mutation names its actor explicitly.
const actorHeader = "X-Actor-ID"

const actorKey = contextKey("actorID")

// RequireActor rejects requests that do not identify their actor.
func RequireActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := c.GetHeader(actorHeader)
		if actor == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing " + actorHeader + " header"})
			return
		}
		c.Set(string(actorKey), actor)
		c.Next()
	}
}

// GetActorFromContext retrieves the acting user's ID from the Gin context.
func GetActorFromContext(c *gin.Context) (string, bool) {
	actorVal, exists := c.Get(string(actorKey))
	if !exists {
		return "", false
	}
	actor, ok := actorVal.(string)
	if !ok || actor == "" {
		return "", false
	}
	return actor, true
}
