package notify

import (
	"context"
	"errors"
	"net/http"
	"time"

	"invest_platform/internal/config"

	"github.com/sirupsen/logrus"
)

// MaxTextLength is the longest message the relay forwards, in characters
const MaxTextLength = 2000

var (
	// ErrNotConfigured is returned when the bot token or chat id is missing
	ErrNotConfigured = errors.New("telegram not configured")
	// ErrSendFailed is returned when the chat service refuses or fails the message
	ErrSendFailed = errors.New("telegram send failed")
)

// Notifier delivers a text blob to the operators' chat
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

type noopNotifier struct{}

func (noopNotifier) Notify(ctx context.Context, text string) error {
	logrus.WithField("length", len(text)).Debug("Notification dropped, no relay configured")
	return nil
}

// TelegramFromConfig builds the sender behind the relay endpoint. Missing secrets are allowed;
// the endpoint then answers "Telegram not configured".
func TelegramFromConfig(cfg *config.Config) *TelegramSender {
	return NewTelegramSender(cfg.TelegramBotToken, cfg.TelegramChatID, &http.Client{Timeout: 15 * time.Second})
}

// NewFromConfig picks the remote relay when RELAY_URL is set, otherwise the Bot API when
// both secrets are set, otherwise a notifier that drops messages.
func NewFromConfig(cfg *config.Config) Notifier {
	client := &http.Client{Timeout: 15 * time.Second}
	switch {
	case cfg.RelayURL != "":
		return NewRelayClient(cfg.RelayURL, client)
	case cfg.TelegramBotToken != "" && cfg.TelegramChatID != "":
		return NewTelegramSender(cfg.TelegramBotToken, cfg.TelegramChatID, client)
	default:
		logrus.Warn("Neither RELAY_URL nor Telegram secrets are set, operator notifications are disabled")
		return noopNotifier{}
	}
}
