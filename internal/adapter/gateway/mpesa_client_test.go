package gateway

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ezra-kip/farmlink-api/internal/usecase"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassword(t *testing.T) {
	ts := time.Date(2026, 8, 31, 14, 5, 9, 0, time.UTC)
	password, timestamp := Password("174379", "passkey123", ts)

	assert.Equal(t, "20260831140509", timestamp)
	want := base64.StdEncoding.EncodeToString([]byte("174379passkey12320260831140509"))
	assert.Equal(t, want, password)
}

func newTestServer(t *testing.T, tokenCalls *int32, stkStatus int, stkBody string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth/v1/generate":
			atomic.AddInt32(tokenCalls, 1)
			user, pass, ok := r.BasicAuth()
			require.True(t, ok)
			assert.Equal(t, "key", user)
			assert.Equal(t, "secret", pass)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"access_token": "tok-1",
				"expires_in":   "3599",
			})
		case "/mpesa/stkpush/v1/processrequest":
			assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
			w.WriteHeader(stkStatus)
			_, _ = w.Write([]byte(stkBody))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
}

func TestSTKPush_AcceptedAndTokenCached(t *testing.T) {
	var tokenCalls int32
	srv := newTestServer(t, &tokenCalls, http.StatusOK, `{
		"MerchantRequestID": "mr-1",
		"CheckoutRequestID": "ws_CO_abc",
		"ResponseCode": "0",
		"ResponseDescription": "Success. Request accepted for processing",
		"CustomerMessage": "Success. Request accepted for processing"
	}`)
	defer srv.Close()

	c := NewMpesaClient(Config{
		BaseURL:        srv.URL,
		ConsumerKey:    "key",
		ConsumerSecret: "secret",
		Shortcode:      "174379",
		Passkey:        "passkey123",
		CallbackURL:    "https://example.com/api/mpesa/callback/",
	})

	resp, err := c.STKPush(context.Background(), "254712345678", decimal.RequireFromString("336.40"))
	require.NoError(t, err)
	assert.Equal(t, "ws_CO_abc", resp.CheckoutRequestID)
	assert.Equal(t, "0", resp.ResponseCode)

	// Second push reuses the cached token.
	_, err = c.STKPush(context.Background(), "254712345678", decimal.RequireFromString("100"))
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&tokenCalls))
}

func TestSTKPush_AmountSentAsWholeUnits(t *testing.T) {
	var gotAmount int64 = -1
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth/v1/generate":
			_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-1", "expires_in": "3599"})
		case "/mpesa/stkpush/v1/processrequest":
			var req map[string]any
			_ = json.NewDecoder(r.Body).Decode(&req)
			gotAmount = int64(req["Amount"].(float64))
			_, _ = w.Write([]byte(`{"CheckoutRequestID":"ws_CO_abc"}`))
		}
	}))
	defer srv.Close()

	c := NewMpesaClient(Config{BaseURL: srv.URL, ConsumerKey: "key", ConsumerSecret: "secret"})
	_, err := c.STKPush(context.Background(), "254712345678", decimal.RequireFromString("336.40"))
	require.NoError(t, err)
	assert.Equal(t, int64(336), gotAmount)
}

func TestSTKPush_GatewayRejection(t *testing.T) {
	var tokenCalls int32
	srv := newTestServer(t, &tokenCalls, http.StatusInternalServerError, `{"errorMessage":"Spike arrest violation"}`)
	defer srv.Close()

	c := NewMpesaClient(Config{BaseURL: srv.URL, ConsumerKey: "key", ConsumerSecret: "secret"})
	_, err := c.STKPush(context.Background(), "254712345678", decimal.RequireFromString("100"))

	var gerr *usecase.GatewayError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, "stkpush", gerr.Op)
}

func TestToken_RefreshedNearExpiry(t *testing.T) {
	var tokenCalls int32
	srv := newTestServer(t, &tokenCalls, http.StatusOK, `{"CheckoutRequestID":"ws_CO_abc"}`)
	defer srv.Close()

	c := NewMpesaClient(Config{BaseURL: srv.URL, ConsumerKey: "key", ConsumerSecret: "secret"})
	now := time.Now()
	c.now = func() time.Time { return now }

	_, err := c.STKPush(context.Background(), "254712345678", decimal.RequireFromString("100"))
	require.NoError(t, err)
	require.Equal(t, int32(1), atomic.LoadInt32(&tokenCalls))

	// Jump to within a minute of expiry; the next call must re-authenticate.
	now = now.Add(3599*time.Second - 30*time.Second)
	_, err = c.STKPush(context.Background(), "254712345678", decimal.RequireFromString("100"))
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&tokenCalls))
}
