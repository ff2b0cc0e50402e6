package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"invest_platform/internal/config"
	"invest_platform/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeTelegram(t *testing.T, ok bool) (*httptest.Server, *map[string]string) {
	t.Helper()
	got := map[string]string{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		if ok {
			_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":7}}`))
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`))
	}))
	t.Cleanup(srv.Close)
	return srv, &got
}

func TestTelegramSenderSuccess(t *testing.T) {
	srv, got := fakeTelegram(t, true)
	sender := NewTelegramSender("TOKEN", "42", srv.Client()).WithAPIBase(srv.URL)

	require.NoError(t, sender.Notify(context.Background(), "<b>hi</b>"))
	assert.Equal(t, "42", (*got)["chat_id"])
	assert.Equal(t, "<b>hi</b>", (*got)["text"])
	assert.Equal(t, "HTML", (*got)["parse_mode"])
}

func TestTelegramSenderRefused(t *testing.T) {
	srv, _ := fakeTelegram(t, false)
	sender := NewTelegramSender("TOKEN", "42", srv.Client()).WithAPIBase(srv.URL)

	err := sender.Notify(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrSendFailed)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestTelegramSenderNotConfigured(t *testing.T) {
	assert.ErrorIs(t, NewTelegramSender("", "42", nil).Notify(context.Background(), "hi"), ErrNotConfigured)
	assert.ErrorIs(t, NewTelegramSender("TOKEN", "", nil).Notify(context.Background(), "hi"), ErrNotConfigured)
}

func TestRelayClient(t *testing.T) {
	status := http.StatusOK
	var text string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		text = body["text"]
		w.WriteHeader(status)
		if status == http.StatusOK {
			_, _ = w.Write([]byte(`{"success":true}`))
			return
		}
		_, _ = w.Write([]byte(`{"error":"Telegram not configured"}`))
	}))
	defer srv.Close()

	client := NewRelayClient(srv.URL, srv.Client())
	require.NoError(t, client.Notify(context.Background(), "new deposit"))
	assert.Equal(t, "new deposit", text)

	status = http.StatusInternalServerError
	err := client.Notify(context.Background(), "new deposit")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Telegram not configured")
}

type stubNotifier struct {
	calls atomic.Int32
	err   error
	delay time.Duration
}

func (s *stubNotifier) Notify(ctx context.Context, text string) error {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	s.calls.Add(1)
	return s.err
}

func TestDispatcherDoesNotBlock(t *testing.T) {
	stub := &stubNotifier{delay: 100 * time.Millisecond}
	m := metrics.New(prometheus.NewRegistry())
	d := NewDispatcher(stub, time.Second, m)

	start := time.Now()
	d.Dispatch("one")
	assert.Less(t, time.Since(start), 50*time.Millisecond)

	d.Wait()
	assert.Equal(t, int32(1), stub.calls.Load())
	assert.Equal(t, 1.0, promtest.ToFloat64(m.Notifications.WithLabelValues("ok")))
}

func TestDispatcherCountsFailures(t *testing.T) {
	stub := &stubNotifier{err: errors.New("boom")}
	m := metrics.New(prometheus.NewRegistry())
	d := NewDispatcher(stub, time.Second, m)

	d.Dispatch("one")
	d.Dispatch("two")
	d.Wait()
	assert.Equal(t, 2.0, promtest.ToFloat64(m.Notifications.WithLabelValues("error")))
}

func TestNewFromConfig(t *testing.T) {
	assert.IsType(t, &RelayClient{}, NewFromConfig(&config.Config{RelayURL: "http://relay"}))
	assert.IsType(t, &TelegramSender{}, NewFromConfig(&config.Config{TelegramBotToken: "t", TelegramChatID: "c"}))
	assert.IsType(t, noopNotifier{}, NewFromConfig(&config.Config{TelegramBotToken: "t"}))
}
