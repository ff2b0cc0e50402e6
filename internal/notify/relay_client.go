package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/tidwall/gjson"
)

// RelayClient forwards messages to a remote relay endpoint that holds the chat secrets
type RelayClient struct {
	url    string
	client *http.Client
}

// NewRelayClient creates a RelayClient for the endpoint at url
func NewRelayClient(url string, client *http.Client) *RelayClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &RelayClient{url: url, client: client}
}

// Notify posts {"text": text}; any non-2xx answer is an error carrying the relay's message
func (r *RelayClient) Notify(ctx context.Context, text string) error {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("relay request: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := gjson.GetBytes(raw, "error").String()
		if msg == "" {
			msg = resp.Status
		}
		return fmt.Errorf("relay answered %d: %s", resp.StatusCode, msg)
	}
	return nil
}
