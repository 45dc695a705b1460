package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"iol_dashboard/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var t0 = time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)

func TestGetTokenReturnsCachedTokenWithoutNetwork(t *testing.T) {
	tr := newFakeTransport()
	store := &fakeStore{}
	store.Set(entity.TokenState{AccessToken: "cached", ExpiresAt: t0.Add(time.Minute)})
	m := NewTokenManager(testIOLConfig(), tr, store, &fakeClock{now: t0}, zap.NewNop())

	tok, err := m.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "cached", tok)
	assert.Zero(t, tr.callCount())
}

func TestGetTokenRefreshesWhenAbsent(t *testing.T) {
	tr := newFakeTransport().on("/token", http.StatusOK, `{"access_token":"fresh","expires_in":900}`)
	store := &fakeStore{}
	m := NewTokenManager(testIOLConfig(), tr, store, &fakeClock{now: t0}, zap.NewNop())

	tok, err := m.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh", tok)

	calls := tr.callsTo("/token")
	require.Len(t, calls, 1)
	assert.Equal(t, "POST", calls[0].Method)
	assert.Equal(t, "alice", calls[0].Form.Get("username"))
	assert.Equal(t, "s3cret", calls[0].Form.Get("password"))
	assert.Equal(t, "password", calls[0].Form.Get("grant_type"))
	assert.NotContains(t, calls[0].Headers, "Authorization")

	state, ok := store.Get()
	require.True(t, ok)
	assert.True(t, state.ExpiresAt.Equal(t0.Add(900*time.Second)))
	assert.Equal(t, 1, store.sets)
}

func TestGetTokenRefreshesWhenExpired(t *testing.T) {
	tr := newFakeTransport().on("/token", http.StatusOK, `{"access_token":"second","expires_in":60}`)
	store := &fakeStore{}
	store.Set(entity.TokenState{AccessToken: "first", ExpiresAt: t0})
	clock := &fakeClock{now: t0}
	m := NewTokenManager(testIOLConfig(), tr, store, clock, zap.NewNop())

	// now == expiresAt counts as expired.
	tok, err := m.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "second", tok)
	assert.Len(t, tr.callsTo("/token"), 1)

	clock.Advance(59 * time.Second)
	tok, err = m.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "second", tok)
	assert.Len(t, tr.callsTo("/token"), 1)

	clock.Advance(time.Second)
	_, err = m.GetToken(context.Background())
	require.NoError(t, err)
	assert.Len(t, tr.callsTo("/token"), 2)
}

func TestGetTokenMissingCredentials(t *testing.T) {
	tr := newFakeTransport()
	cfg := testIOLConfig()
	cfg.Credentials.Username = ""
	m := NewTokenManager(cfg, tr, &fakeStore{}, &fakeClock{now: t0}, zap.NewNop())

	_, err := m.GetToken(context.Background())
	var cfgErr *entity.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, []string{"IOL_USER"}, cfgErr.Missing)
	assert.Contains(t, err.Error(), "IOL_USER")
	assert.Zero(t, tr.callCount())
}

func TestGetTokenRequiresClientCredentialsWhenConfigured(t *testing.T) {
	tr := newFakeTransport()
	cfg := testIOLConfig()
	cfg.RequireClientCredentials = true
	cfg.Credentials.ClientID = "client"
	m := NewTokenManager(cfg, tr, &fakeStore{}, &fakeClock{now: t0}, zap.NewNop())

	_, err := m.GetToken(context.Background())
	var cfgErr *entity.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, []string{"IOL_CLIENT_SECRET"}, cfgErr.Missing)
	assert.Zero(t, tr.callCount())
}

func TestGetTokenSendsBasicAuthWithClientCredentials(t *testing.T) {
	tr := newFakeTransport().on("/token", http.StatusOK, `{"access_token":"x","expires_in":10}`)
	cfg := testIOLConfig()
	cfg.Credentials.ClientID = "client"
	cfg.Credentials.ClientSecret = "secret"
	m := NewTokenManager(cfg, tr, &fakeStore{}, &fakeClock{now: t0}, zap.NewNop())

	_, err := m.GetToken(context.Background())
	require.NoError(t, err)

	req, _ := http.NewRequest(http.MethodPost, "/", nil)
	req.SetBasicAuth("client", "secret")
	assert.Equal(t, req.Header.Get("Authorization"), tr.callsTo("/token")[0].Headers["Authorization"])
}

func TestGetTokenUpstreamRejection(t *testing.T) {
	tr := newFakeTransport().on("/token", http.StatusBadRequest, `{"error":"invalid_grant"}`)
	store := &fakeStore{}
	m := NewTokenManager(testIOLConfig(), tr, store, &fakeClock{now: t0}, zap.NewNop())

	_, err := m.GetToken(context.Background())
	var authErr *entity.UpstreamAuthError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, http.StatusBadRequest, authErr.Status)
	assert.Equal(t, `{"error":"invalid_grant"}`, authErr.Body)
	assert.Zero(t, store.sets)
}

func TestGetTokenNetworkFault(t *testing.T) {
	tr := newFakeTransport().fail("/token", errors.New("connection refused"))
	m := NewTokenManager(testIOLConfig(), tr, &fakeStore{}, &fakeClock{now: t0}, zap.NewNop())

	_, err := m.GetToken(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestGetTokenMissingExpiresInExpiresImmediately(t *testing.T) {
	tr := newFakeTransport().on("/token", http.StatusOK, `{"access_token":"once"}`)
	m := NewTokenManager(testIOLConfig(), tr, &fakeStore{}, &fakeClock{now: t0}, zap.NewNop())

	for i := 0; i < 2; i++ {
		tok, err := m.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "once", tok)
	}
	assert.Len(t, tr.callsTo("/token"), 2)
}
