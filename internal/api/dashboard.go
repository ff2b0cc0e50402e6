package api

import (
	"net/http"

	"invest_platform/internal/i18n"
	"invest_platform/internal/middleware"
	"invest_platform/internal/service"

	"github.com/gin-gonic/gin"
)

// DashboardHandler returns the caller's profile, latest transactions and referral link
func DashboardHandler(dash *service.Dashboard, loc *i18n.Localizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := dash.Dashboard(c.Request.Context(), middleware.CurrentIdentity(c))
		if err != nil {
			respondError(c, loc, err, i18n.FormError)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}
