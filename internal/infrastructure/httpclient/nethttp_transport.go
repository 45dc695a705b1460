package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"iol_dashboard/internal/app/port"
	"iol_dashboard/internal/domain/entity"

	"go.uber.org/zap"
)

// netHTTPTransport implements port.HTTPTransport with the standard library client.
type netHTTPTransport struct {
	client *http.Client
	logger *zap.Logger
}

// NewNetHTTPTransport creates a net/http-backed transport. A zero timeout
// leaves requests bounded only by the caller's context.
func NewNetHTTPTransport(timeout time.Duration, logger *zap.Logger) port.HTTPTransport {
	return &netHTTPTransport{
		client: &http.Client{Timeout: timeout},
		logger: logger.Named("NetHTTPTransport"),
	}
}

// PostForm implements port.HTTPTransport.
func (t *netHTTPTransport) PostForm(ctx context.Context, rawURL string, form url.Values, headers map[string]string) (entity.HTTPResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return entity.HTTPResponse{}, fmt.Errorf("failed to build request to %s: %w", rawURL, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return t.do(req)
}

// Get implements port.HTTPTransport.
func (t *netHTTPTransport) Get(ctx context.Context, rawURL string, headers map[string]string) (entity.HTTPResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return entity.HTTPResponse{}, fmt.Errorf("failed to build request to %s: %w", rawURL, err)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return t.do(req)
}

func (t *netHTTPTransport) do(req *http.Request) (entity.HTTPResponse, error) {
	requestURL := req.URL.String()
	t.logger.Debug("Sending upstream request", zap.String("method", req.Method), zap.String("url", requestURL))

	resp, err := t.client.Do(req)
	if err != nil {
		t.logger.Error("Failed to execute upstream request", zap.String("url", requestURL), zap.Error(err))
		return entity.HTTPResponse{}, fmt.Errorf("failed to execute request to %s: %w", requestURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return entity.HTTPResponse{}, fmt.Errorf("failed to read response body from %s: %w", requestURL, err)
	}
	return entity.HTTPResponse{StatusCode: resp.StatusCode, Body: body}, nil
}
