package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"depot_tracker/internal/auth"
	"depot_tracker/internal/models"
)

const actorKey = "actor"

// authenticate validates the bearer token and returns the rebuilt Actor.
// On failure it aborts the request and returns false.
func authenticate(c *gin.Context) (auth.Actor, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
		return auth.Actor{}, false
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	actor, err := auth.ParseAccessToken(tokenString)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return auth.Actor{}, false
	}
	return actor, true
}

// RequireAuth ensures a valid bearer access token is present and stores the
// rebuilt Actor on the gin context for downstream handlers.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := authenticate(c)
		if !ok {
			return
		}
		c.Set(actorKey, actor)
		c.Next()
	}
}

// RequireRoles ensures the JWT is valid and the caller holds one of the
// allow-listed roles.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := authenticate(c)
		if !ok {
			return
		}
		for _, role := range roles {
			if actor.Role == role {
				c.Set(actorKey, actor)
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
	}
}

// CurrentActor returns the authenticated caller stored by RequireAuth.
func CurrentActor(c *gin.Context) auth.Actor {
	return c.MustGet(actorKey).(auth.Actor)
}
