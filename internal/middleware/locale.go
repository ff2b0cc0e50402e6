package middleware

import (
	"invest_platform/internal/i18n"

	"github.com/gin-gonic/gin"
)

// LocaleMiddleware picks the response language from ?lang= or Accept-Language
func LocaleMiddleware(loc *i18n.Localizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := loc.Resolve(c.Query("lang"), c.GetHeader("Accept-Language"))
		c.Set(LangKey, lang)
		c.Header("Content-Language", string(lang))
		c.Next()
	}
}

// Lang returns the language chosen for this request, RU when the middleware did not run
func Lang(c *gin.Context) i18n.Lang {
	if v, ok := c.Get(LangKey); ok {
		if lang, ok := v.(i18n.Lang); ok {
			return lang
		}
	}
	return i18n.RU
}
