package api

import (
	"net/http" // HTTP status codes

	"invest_platform/internal/domain"     // Transaction statuses
	"invest_platform/internal/i18n"       // Localized messages
	"invest_platform/internal/middleware" // Request identity and language
	"invest_platform/internal/service"    // Review service

	"github.com/gin-gonic/gin" // Gin web framework
)

// ListTransactionsHandler returns every transaction with owner details and stats, optionally filtered by status
func ListTransactionsHandler(review *service.Review, loc *i18n.Localizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter service.ListFilter // Empty filter lists everything
		if s := c.Query("status"); s != "" && s != "all" {
			status, ok := domain.ParseStatus(s)
			if !ok {
				respondInvalidRequest(c, loc)
				return
			}
			filter.Status = status
		}
		list, err := review.ListTransactions(c.Request.Context(), middleware.CurrentIdentity(c), filter)
		if err != nil {
			respondError(c, loc, err, i18n.AdminError)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// ApproveHandler marks a pending transaction completed
func ApproveHandler(review *service.Review, loc *i18n.Localizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tx, err := review.Approve(c.Request.Context(), middleware.CurrentIdentity(c), c.Param("id"))
		if err != nil {
			respondError(c, loc, err, i18n.AdminError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": loc.T(middleware.Lang(c), i18n.Approved), "transaction": tx})
	}
}

// RejectHandler marks a pending transaction rejected
func RejectHandler(review *service.Review, loc *i18n.Localizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tx, err := review.Reject(c.Request.Context(), middleware.CurrentIdentity(c), c.Param("id"))
		if err != nil {
			respondError(c, loc, err, i18n.AdminError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": loc.T(middleware.Lang(c), i18n.RejectedMsg), "transaction": tx})
	}
}
