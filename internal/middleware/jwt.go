package middleware

import (
	"context"  // Context for the denylist lookup
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"invest_platform/internal/i18n"    // Localized messages
	"invest_platform/internal/service" // Identity passed to services
	"invest_platform/internal/utils"   // JWT claims

	"github.com/gin-gonic/gin" // Gin web framework
)

// Context keys set by the middleware in this package
const (
	IdentityKey = "identity"
	ClaimsKey   = "claims"
	LangKey     = "lang"
)

// LoginPath is where clients send users whose session is missing or expired
const LoginPath = "/login"

// Authenticator validates bearer tokens
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*utils.Claims, error)
}

// JWTAuthMiddleware validates the bearer token, rejects signed-out tokens and stores the caller's identity
func JWTAuthMiddleware(auth Authenticator, loc *i18n.Localizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		// Check if the Authorization header is present and properly formatted
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			abortUnauthenticated(c, loc)
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")           // Extract the token string
		claims, err := auth.Authenticate(c.Request.Context(), tokenStr) // Parse and check the denylist
		if err != nil {
			abortUnauthenticated(c, loc)
			return
		}
		c.Set(ClaimsKey, claims) // Kept for sign-out
		c.Set(IdentityKey, &service.Identity{UserID: claims.UserID, Email: claims.Email})
		c.Next() // Proceed to the next handler
	}
}

func abortUnauthenticated(c *gin.Context, loc *i18n.Localizer) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":    loc.T(Lang(c), i18n.AuthRequired),
		"code":     i18n.AuthRequired,
		"redirect": LoginPath, // Clients navigate to sign-in
	})
}

// CurrentIdentity returns the authenticated caller, or nil on public routes
func CurrentIdentity(c *gin.Context) *service.Identity {
	v, ok := c.Get(IdentityKey)
	if !ok {
		return nil
	}
	id, _ := v.(*service.Identity)
	return id
}

// CurrentClaims returns the parsed session token, or nil on public routes
func CurrentClaims(c *gin.Context) *utils.Claims {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*utils.Claims)
	return claims
}
