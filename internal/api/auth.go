package api

import (
	"net/http" // HTTP status codes

	"invest_platform/internal/i18n"       // Localized messages
	"invest_platform/internal/middleware" // Request identity and language
	"invest_platform/internal/service"    // Auth service

	"github.com/gin-gonic/gin" // Gin web framework
)

// SignUpRequest is the registration body
type SignUpRequest struct {
	Email        string `json:"email" binding:"required"`    // Email must be provided
	Password     string `json:"password" binding:"required"` // Password must be provided
	DisplayName  string `json:"display_name"`                // Defaults to the email's local part
	ReferralCode string `json:"referral_code"`               // From /register?ref=
}

// SignInRequest is the login body
type SignInRequest struct {
	Email    string `json:"email" binding:"required"`    // Email must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// SignUpHandler registers a user and returns a session
func SignUpHandler(auth *service.Auth, loc *i18n.Localizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SignUpRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			respondInvalidRequest(c, loc)
			return
		}
		// Referral code may also arrive as ?ref=
		if req.ReferralCode == "" {
			req.ReferralCode = c.Query("ref")
		}
		session, err := auth.SignUp(c.Request.Context(), service.SignUpRequest{
			Email:        req.Email,
			Password:     req.Password,
			DisplayName:  req.DisplayName,
			ReferralCode: req.ReferralCode,
		})
		if err != nil {
			respondError(c, loc, err, i18n.RegisterError)
			return
		}
		c.JSON(http.StatusCreated, session)
	}
}

// SignInHandler authenticates a user and returns a session
func SignInHandler(auth *service.Auth, loc *i18n.Localizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SignInRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			respondInvalidRequest(c, loc)
			return
		}
		session, err := auth.SignIn(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respondError(c, loc, err, i18n.InvalidLogin)
			return
		}
		c.JSON(http.StatusOK, session)
	}
}

// SignOutHandler revokes the caller's token
func SignOutHandler(auth *service.Auth, loc *i18n.Localizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := auth.SignOut(c.Request.Context(), middleware.CurrentClaims(c)); err != nil {
			respondError(c, loc, err, i18n.FormError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": loc.T(middleware.Lang(c), i18n.SignedOut)})
	}
}

// MeHandler returns the caller's profile and whether the admin screen should be offered
func MeHandler(auth *service.Auth, review *service.Review, loc *i18n.Localizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := middleware.CurrentIdentity(c)
		profile, err := auth.CurrentUser(c.Request.Context(), identity)
		if err != nil {
			respondError(c, loc, err, i18n.FormError)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"user_id":  identity.UserID,
			"email":    identity.Email,
			"profile":  profile,
			"is_admin": review.IsAdmin(c.Request.Context(), identity), // Display hint only, routes re-check
		})
	}
}
