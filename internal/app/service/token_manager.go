package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"time"

	"iol_dashboard/internal/app/port"
	"iol_dashboard/internal/domain/entity"
	"iol_dashboard/internal/infrastructure/configloader"
	"iol_dashboard/internal/pkg/metrics"

	"go.uber.org/zap"
)

// tokenManager implements port.TokenSource with the OAuth password grant.
//
// Refreshes are not serialized: callers that find the store empty or expired
// at the same time each request a token, and the last response written wins.
// Every issued token is usable, so this costs upstream calls, not correctness.
type tokenManager struct {
	tokenURL    string
	creds       configloader.Credentials
	requireCred bool
	transport   port.HTTPTransport
	store       port.TokenStore
	clock       port.Clock
	logger      *zap.Logger
}

// NewTokenManager creates a token source backed by store.
func NewTokenManager(
	cfg configloader.IOLConfig,
	transport port.HTTPTransport,
	store port.TokenStore,
	clock port.Clock,
	logger *zap.Logger,
) port.TokenSource {
	if clock == nil {
		clock = port.SystemClock{}
	}
	return &tokenManager{
		tokenURL:    cfg.TokenURL(),
		creds:       cfg.Credentials,
		requireCred: cfg.RequireClientCredentials,
		transport:   transport,
		store:       store,
		clock:       clock,
		logger:      logger.Named("TokenManager"),
	}
}

// GetToken implements port.TokenSource.
func (m *tokenManager) GetToken(ctx context.Context) (string, error) {
	if state, ok := m.store.Get(); ok && state.ValidAt(m.clock.Now()) {
		return state.AccessToken, nil
	}

	if err := m.checkCredentials(); err != nil {
		metrics.TokenRefreshes.WithLabelValues("config_error").Inc()
		return "", err
	}

	form := url.Values{
		"username":   {m.creds.Username},
		"password":   {m.creds.Password},
		"grant_type": {"password"},
	}
	headers := map[string]string{"Accept": "application/json"}
	if m.creds.ClientID != "" && m.creds.ClientSecret != "" {
		headers["Authorization"] = "Basic " + basicAuth(m.creds.ClientID, m.creds.ClientSecret)
	}

	requestTime := m.clock.Now()
	m.logger.Debug("Requesting access token", zap.String("url", m.tokenURL))
	resp, err := m.transport.PostForm(ctx, m.tokenURL, form, headers)
	if err != nil {
		metrics.TokenRefreshes.WithLabelValues("error").Inc()
		return "", fmt.Errorf("token request: %w", err)
	}
	if !resp.IsSuccess() {
		metrics.TokenRefreshes.WithLabelValues("rejected").Inc()
		m.logger.Error("Token endpoint rejected the request", zap.Int("statusCode", resp.StatusCode))
		return "", &entity.UpstreamAuthError{Status: resp.StatusCode, Body: string(resp.Body)}
	}

	var tr entity.TokenResponse
	if err := json.Unmarshal(resp.Body, &tr); err != nil {
		metrics.TokenRefreshes.WithLabelValues("error").Inc()
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if tr.AccessToken == "" {
		metrics.TokenRefreshes.WithLabelValues("error").Inc()
		return "", fmt.Errorf("token response has no access_token")
	}

	state := entity.TokenState{
		AccessToken: tr.AccessToken,
		ExpiresAt:   requestTime.Add(time.Duration(tr.ExpiresIn * float64(time.Second))),
	}
	m.store.Set(state)
	metrics.TokenRefreshes.WithLabelValues("ok").Inc()
	m.logger.Info("Access token refreshed", zap.Time("expiresAt", state.ExpiresAt))
	return state.AccessToken, nil
}

func (m *tokenManager) checkCredentials() error {
	var missing []string
	if m.creds.Username == "" {
		missing = append(missing, "IOL_USER")
	}
	if m.creds.Password == "" {
		missing = append(missing, "IOL_PASS")
	}
	if m.requireCred {
		if m.creds.ClientID == "" {
			missing = append(missing, "IOL_CLIENT_ID")
		}
		if m.creds.ClientSecret == "" {
			missing = append(missing, "IOL_CLIENT_SECRET")
		}
	}
	if len(missing) > 0 {
		return &entity.ConfigError{Missing: missing}
	}
	return nil
}

func basicAuth(user, pass string) string {
	return base64.StdEncoding.EncodeToString([]byte(user + ":" + pass))
}
