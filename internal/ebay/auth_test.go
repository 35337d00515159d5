package ebay_test

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradyserv/marketsync/internal/ebay"
)

func TestOAuthTokenProvider_Token(t *testing.T) {
	t.Parallel()

	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		assert.Contains(t, r.PostForm.Get("scope"), "sell.inventory")

		creds := base64.StdEncoding.EncodeToString([]byte("app-id:cert-id"))
		assert.Equal(t, "Basic "+creds, r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"tok-1","expires_in":7200,"token_type":"Application Access Token"}`))
	}))
	t.Cleanup(srv.Close)

	provider := ebay.NewOAuthTokenProvider("app-id", "cert-id", ebay.WithTokenURL(srv.URL))

	token, err := provider.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)

	// Second call is served from the cache.
	token, err = provider.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
	assert.Equal(t, int64(1), requests.Load())
}

func TestOAuthTokenProvider_RefreshNearExpiry(t *testing.T) {
	t.Parallel()

	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"tok","expires_in":7200}`))
	}))
	t.Cleanup(srv.Close)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	current := now
	provider := ebay.NewOAuthTokenProvider("app-id", "cert-id",
		ebay.WithTokenURL(srv.URL),
		ebay.WithNowFunc(func() time.Time { return current }),
	)

	_, err := provider.Token(context.Background())
	require.NoError(t, err)

	// Within 60 seconds of expiry the provider refreshes early.
	current = now.Add(7200*time.Second - 30*time.Second)
	_, err = provider.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), requests.Load())
}

func TestOAuthTokenProvider_RemoteError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid_client","error_description":"client authentication failed"}`))
	}))
	t.Cleanup(srv.Close)

	provider := ebay.NewOAuthTokenProvider("app-id", "bad-cert", ebay.WithTokenURL(srv.URL))

	_, err := provider.Token(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
	assert.Contains(t, err.Error(), "invalid_client")
}
