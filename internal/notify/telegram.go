package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

// DefaultTelegramAPI is the Bot API base URL
const DefaultTelegramAPI = "https://api.telegram.org"

// TelegramSender posts messages to one chat through the Bot API
type TelegramSender struct {
	token   string
	chatID  string
	apiBase string
	client  *http.Client
}

// NewTelegramSender creates a sender. Empty secrets are allowed; Notify then returns ErrNotConfigured.
func NewTelegramSender(token, chatID string, client *http.Client) *TelegramSender {
	if client == nil {
		client = http.DefaultClient
	}
	return &TelegramSender{token: token, chatID: chatID, apiBase: DefaultTelegramAPI, client: client}
}

// WithAPIBase points the sender at another Bot API host
func (s *TelegramSender) WithAPIBase(base string) *TelegramSender {
	s.apiBase = strings.TrimRight(base, "/")
	return s
}

// Configured reports whether both secrets are present
func (s *TelegramSender) Configured() bool {
	return s.token != "" && s.chatID != ""
}

// Notify sends text with HTML parse mode
func (s *TelegramSender) Notify(ctx context.Context, text string) error {
	if !s.Configured() {
		return ErrNotConfigured
	}
	body, err := json.Marshal(map[string]string{
		"chat_id":    s.chatID,
		"text":       text,
		"parse_mode": "HTML",
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiBase+"/bot"+s.token+"/sendMessage", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		// The URL carries the token, keep it out of the error
		return fmt.Errorf("%w: request failed", ErrSendFailed)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrSendFailed, err)
	}
	result := gjson.ParseBytes(raw)
	if !result.Get("ok").Bool() {
		logrus.WithFields(logrus.Fields{
			"status":      resp.StatusCode,
			"error_code":  result.Get("error_code").Int(),
			"description": result.Get("description").String(),
		}).Error("Telegram error")
		return fmt.Errorf("%w: %s", ErrSendFailed, result.Get("description").String())
	}
	return nil
}
