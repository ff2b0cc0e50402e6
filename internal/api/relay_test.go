package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"invest_platform/internal/config"
	"invest_platform/internal/i18n"
	"invest_platform/internal/metrics"
	"invest_platform/internal/notify"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRelay struct {
	configured bool
	err        error
	sent       []string
}

func (f *fakeRelay) Configured() bool { return f.configured }

func (f *fakeRelay) Notify(_ context.Context, text string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, text)
	return nil
}

func relayRouter(relay TelegramRelay, m *metrics.Metrics) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	MountRelay(r, relay, m)
	return r
}

func postRelay(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, RelayPath, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "https://invest.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRelay(t *testing.T) {
	tests := []struct {
		name       string
		relay      *fakeRelay
		body       string
		wantStatus int
		wantBody   string
	}{
		{"success", &fakeRelay{configured: true}, `{"text":"<b>New deposit</b>"}`, http.StatusOK, `{"success":true}`},
		{"missing text", &fakeRelay{configured: true}, `{}`, http.StatusBadRequest, `{"error":"Invalid text"}`},
		{"empty text", &fakeRelay{configured: true}, `{"text":""}`, http.StatusBadRequest, `{"error":"Invalid text"}`},
		{"non-string text", &fakeRelay{configured: true}, `{"text":42}`, http.StatusBadRequest, `{"error":"Invalid text"}`},
		{"too long", &fakeRelay{configured: true}, fmt.Sprintf(`{"text":%q}`, strings.Repeat("a", 2001)), http.StatusBadRequest, `{"error":"Invalid text"}`},
		{"malformed json", &fakeRelay{configured: true}, `{"text":`, http.StatusInternalServerError, `{"error":"Internal error"}`},
		{"null body", &fakeRelay{configured: true}, `null`, http.StatusInternalServerError, `{"error":"Internal error"}`},
		{"string body", &fakeRelay{configured: true}, `"hi"`, http.StatusInternalServerError, `{"error":"Internal error"}`},
		{"array body", &fakeRelay{configured: true}, `[{"text":"hi"}]`, http.StatusInternalServerError, `{"error":"Internal error"}`},
		{"not configured", &fakeRelay{}, `{"text":"hi"}`, http.StatusInternalServerError, `{"error":"Telegram not configured"}`},
		{"send failed", &fakeRelay{configured: true, err: notify.ErrSendFailed}, `{"text":"hi"}`, http.StatusInternalServerError, `{"error":"Telegram send failed"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postRelay(relayRouter(tt.relay, nil), tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestRelayValidatesBeforeConfig(t *testing.T) {
	w := postRelay(relayRouter(&fakeRelay{}, nil), `{"text":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRelayCountsCharactersNotBytes(t *testing.T) {
	relay := &fakeRelay{configured: true}
	text := strings.Repeat("ж", notify.MaxTextLength)
	w := postRelay(relayRouter(relay, nil), fmt.Sprintf(`{"text":%q}`, text))
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, relay.sent, 1)
	assert.Equal(t, text, relay.sent[0])
}

func TestRelayPreflight(t *testing.T) {
	r := relayRouter(&fakeRelay{configured: true}, nil)
	req := httptest.NewRequest(http.MethodOptions, RelayPath, nil)
	req.Header.Set("Origin", "https://invest.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "content-type,apikey")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Contains(t, []int{http.StatusOK, http.StatusNoContent}, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRelayWithTelegramSender(t *testing.T) {
	var got string
	tg := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Path
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer tg.Close()
	m := metrics.New(prometheus.NewRegistry())
	sender := notify.NewTelegramSender("TOKEN", "42", tg.Client()).WithAPIBase(tg.URL)

	w := postRelay(relayRouter(sender, m), `{"text":"hello"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/botTOKEN/sendMessage", got)
	assert.Equal(t, 1.0, promtest.ToFloat64(m.RelayRequests.WithLabelValues("relayed")))
	assert.Equal(t, 0, promtest.CollectAndCount(m.Notifications))
}

func TestRouterServesRelayWithoutSecrets(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r, err := NewRouter(Deps{
		Relay:     notify.TelegramFromConfig(&config.Config{}),
		Localizer: i18n.New("ru"),
	})
	require.NoError(t, err)

	w := postRelay(r, `{"text":"hi"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Telegram not configured"}`, w.Body.String())
}
