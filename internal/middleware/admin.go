package middleware

import (
	"context"  // Context for the role lookup
	"net/http" // HTTP status codes

	"invest_platform/internal/i18n"    // Localized messages
	"invest_platform/internal/service" // Identity

	"github.com/gin-gonic/gin" // Gin web framework
)

// AdminChecker answers whether an identity currently holds the admin role
type AdminChecker interface {
	IsAdmin(ctx context.Context, actor *service.Identity) bool
}

// AdminOnlyMiddleware checks the user's role from the database on each request
func AdminOnlyMiddleware(checker AdminChecker, loc *i18n.Localizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := CurrentIdentity(c) // Set by JWTAuthMiddleware
		// Check if identity exists in context
		if identity == nil {
			abortUnauthenticated(c, loc)
			return
		}
		// Lookup failures count as not admin
		if !checker.IsAdmin(c.Request.Context(), identity) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": loc.T(Lang(c), i18n.AccessDenied),
				"code":  i18n.AccessDenied,
			})
			return
		}
		// If admin, proceed to the next handler
		c.Next()
	}
}
