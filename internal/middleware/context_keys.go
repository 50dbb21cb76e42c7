package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// actorIDKey is the key used to store the acting user's ID in the context.
// Using a custom type prevents collisions.
const actorIDKey = contextKey("actorID")

// DefaultActorID is recorded in audit fields when no actor header is present.
const DefaultActorID = "system"

// ActorMiddleware reads the X-Actor-ID header and stores it in the request
// context for audit fields. Requests without the header act as "system".
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID := c.GetHeader("X-Actor-ID")
		if actorID == "" {
			actorID = DefaultActorID
		}
		c.Set(string(actorIDKey), actorID)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), actorIDKey, actorID))
		c.Next()
	}
}

// GetActorIDFromContext retrieves the acting user ID from the Gin context.
// It returns the actor ID and a boolean indicating if it was found.
func GetActorIDFromContext(c *gin.Context) (string, bool) {
	actorIDVal, exists := c.Get(string(actorIDKey))
	if !exists {
		// check in the request context as well
		ctxVal := c.Request.Context().Value(actorIDKey)
		if ctxVal != nil {
			return ctxVal.(string), true
		}
		return "", false
	}

	actorID, ok := actorIDVal.(string)
	if !ok {
		return "", false
	}

	return actorID, true
}
