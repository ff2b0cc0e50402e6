package api

import (
	"context"      // Context for the send
	"errors"       // Sentinel comparison
	"io"           // Body reading
	"net/http"     // HTTP status codes
	"unicode/utf8" // Text length in characters

	"invest_platform/internal/metrics" // Relay counters
	"invest_platform/internal/notify"  // Telegram sender

	"github.com/gin-contrib/cors" // CORS middleware
	"github.com/gin-gonic/gin"    // Gin web framework
	"github.com/sirupsen/logrus"  // Structured logging
	"github.com/tidwall/gjson"    // Body inspection
)

// RelayPath is the route of the notification relay
const RelayPath = "/functions/v1/send-telegram"

// maxRelayBody bounds the request body the relay reads
const maxRelayBody = 64 << 10

// TelegramRelay is the chat sender behind the relay endpoint
type TelegramRelay interface {
	Configured() bool
	Notify(ctx context.Context, text string) error
}

// RelayCORS allows any origin, as browsers call the relay directly
func RelayCORS() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{
			"Authorization", "X-Client-Info", "Apikey", "Content-Type",
			"X-Supabase-Client-Platform", "X-Supabase-Client-Platform-Version",
			"X-Supabase-Client-Runtime", "X-Supabase-Client-Runtime-Version",
		},
	})
}

// RelayHandler forwards {"text": ...} to the operators' chat. m may be nil.
func RelayHandler(relay TelegramRelay, m *metrics.Metrics) gin.HandlerFunc {
	count := func(result string) {
		if m != nil {
			m.RelayRequests.WithLabelValues(result).Inc()
		}
	}
	return func(c *gin.Context) {
		raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxRelayBody))
		// Unreadable, malformed or non-object bodies are internal errors, not validation errors
		if err != nil || !gjson.ValidBytes(raw) || !gjson.ParseBytes(raw).IsObject() {
			count("internal_error")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
			return
		}
		text := gjson.GetBytes(raw, "text")
		if text.Type != gjson.String || text.Str == "" || utf8.RuneCountInString(text.Str) > notify.MaxTextLength {
			count("invalid")
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid text"})
			return
		}
		if !relay.Configured() {
			count("not_configured")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Telegram not configured"})
			return
		}
		if err := relay.Notify(c.Request.Context(), text.Str); err != nil {
			if errors.Is(err, notify.ErrNotConfigured) {
				count("not_configured")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Telegram not configured"})
				return
			}
			count("send_failed")
			logrus.WithError(err).Error("Telegram relay send failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Telegram send failed"})
			return
		}
		count("relayed")
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
