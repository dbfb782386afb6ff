package middleware

import (
	"net/http"
	"strings"

	"caretrust/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by JWTAuthMiddleware.
const (
	ActorIDKey   = "actorId"
	ActorNameKey = "actorName"
	ActorRoleKey = "actorRole"
)

// JWTAuthMiddleware accepts HS256 bearer tokens whose role claim is one of roles.
func JWTAuthMiddleware(secret []byte, roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := utils.ParseClaims(secret, tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		if !allowed[claims.Role] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient role"})
			return
		}

		c.Set(ActorIDKey, claims.Subject)
		c.Set(ActorNameKey, claims.Name)
		c.Set(ActorRoleKey, claims.Role)
		c.Next()
	}
}

// JWTAuthAdminMiddleware restricts a route group to admins.
func JWTAuthAdminMiddleware(secret []byte) gin.HandlerFunc {
	return JWTAuthMiddleware(secret, "admin")
}
