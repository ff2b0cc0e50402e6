package api

import (
	"errors"   // Sentinel comparison
	"net/http" // HTTP status codes

	"invest_platform/internal/i18n"       // Localized messages
	"invest_platform/internal/market"     // Market errors
	"invest_platform/internal/middleware" // Request language
	"invest_platform/internal/repository" // Store errors
	"invest_platform/internal/service"    // Service errors

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging of unexpected errors
)

// errorMapping pairs a sentinel with its HTTP status and message key
type errorMapping struct {
	err    error
	status int
	key    string
}

var errorMappings = []errorMapping{
	{service.ErrInvalidAmount, http.StatusBadRequest, i18n.InvalidAmount},
	{service.ErrBelowMinimum, http.StatusBadRequest, i18n.BelowMinimum},
	{service.ErrWalletRequired, http.StatusBadRequest, i18n.WalletRequired},
	{service.ErrUnknownNetwork, http.StatusBadRequest, i18n.UnknownNetwork},
	{service.ErrPasswordShort, http.StatusBadRequest, i18n.PasswordShort},
	{service.ErrInvalidEmail, http.StatusBadRequest, i18n.InvalidEmail},
	{service.ErrEmailTaken, http.StatusConflict, i18n.EmailTaken},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, i18n.InvalidLogin},
	{service.ErrForbidden, http.StatusForbidden, i18n.AccessDenied},
	{service.ErrTransactionNotFound, http.StatusNotFound, i18n.NotFound},
	{service.ErrNotPending, http.StatusConflict, i18n.NotPending},
	{repository.ErrNotFound, http.StatusNotFound, i18n.NotFound},
	{market.ErrUnknownSymbol, http.StatusNotFound, i18n.UnknownSymbol},
	{market.ErrInvalidQuantity, http.StatusBadRequest, i18n.InvalidAmount},
	{market.ErrInvalidSide, http.StatusBadRequest, i18n.InvalidRequest},
}

// respondError writes {error, code} for err. Unknown errors are logged and answered
// with fallbackKey as a 500.
func respondError(c *gin.Context, loc *i18n.Localizer, err error, fallbackKey string) {
	lang := middleware.Lang(c)
	if errors.Is(err, service.ErrUnauthenticated) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":    loc.T(lang, i18n.AuthRequired),
			"code":     i18n.AuthRequired,
			"redirect": middleware.LoginPath,
		})
		return
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			c.JSON(m.status, gin.H{"error": loc.T(lang, m.key), "code": m.key})
			return
		}
	}
	logrus.WithFields(logrus.Fields{
		"route": c.FullPath(),
		"error": err.Error(),
	}).Error("Request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": loc.T(lang, fallbackKey), "code": fallbackKey})
}

// respondInvalidRequest answers a body that could not be bound
func respondInvalidRequest(c *gin.Context, loc *i18n.Localizer) {
	c.JSON(http.StatusBadRequest, gin.H{"error": loc.T(middleware.Lang(c), i18n.InvalidRequest), "code": i18n.InvalidRequest})
}
