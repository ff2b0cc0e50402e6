package api

import (
	"net/http" // HTTP status codes

	"invest_platform/internal/i18n"       // Localized messages
	"invest_platform/internal/market"     // Market table
	"invest_platform/internal/middleware" // Request identity and language

	"github.com/gin-gonic/gin" // Gin web framework
)

// QuoteRequest prices a hypothetical order
type QuoteRequest struct {
	Symbol   string `json:"symbol" binding:"required"` // Symbol must be provided
	Side     string `json:"side" binding:"required"`   // buy or sell
	Quantity Amount `json:"quantity"`                  // Number or string
}

// MarketHandler returns the instrument table, ?sort=mcap|price|change
func MarketHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		sortBy := c.DefaultQuery("sort", market.SortMarketCap)
		c.JSON(http.StatusOK, gin.H{"sort": sortBy, "coins": market.Sorted(sortBy)})
	}
}

// QuoteHandler returns quantity × price for one instrument
func QuoteHandler(loc *i18n.Localizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req QuoteRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			respondInvalidRequest(c, loc)
			return
		}
		quote, err := market.NewQuote(req.Symbol, req.Side, string(req.Quantity))
		if err != nil {
			respondError(c, loc, err, i18n.FormError)
			return
		}
		c.JSON(http.StatusOK, quote)
	}
}

// FavoritesHandler lists the caller's starred symbols
func FavoritesHandler(fav *market.Favorites, loc *i18n.Localizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		symbols, err := fav.List(c.Request.Context(), middleware.CurrentIdentity(c).UserID)
		if err != nil {
			respondError(c, loc, err, i18n.FormError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"favorites": symbols})
	}
}

// ToggleFavoriteHandler stars or unstars one symbol for the caller
func ToggleFavoriteHandler(fav *market.Favorites, loc *i18n.Localizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		symbol, starred, err := fav.Toggle(c.Request.Context(), middleware.CurrentIdentity(c).UserID, c.Param("symbol"))
		if err != nil {
			respondError(c, loc, err, i18n.FormError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"symbol": symbol, "favorite": starred})
	}
}
