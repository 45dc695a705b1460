package service

import (
	"context"
	"fmt"
	"time"

	"iol_dashboard/internal/app/port"
	"iol_dashboard/internal/domain/entity"
	"iol_dashboard/internal/infrastructure/configloader"
	"iol_dashboard/internal/pkg/metrics"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// upstreamFetcher implements port.UpstreamFetcher.
type upstreamFetcher struct {
	baseURL   string
	tokens    port.TokenSource
	transport port.HTTPTransport
	limiter   *rate.Limiter
	logger    *zap.Logger
}

// NewUpstreamFetcher creates a fetcher for the configured API. Outbound calls
// are rate limited only when iol.rateLimitPerSecond is set.
func NewUpstreamFetcher(cfg configloader.IOLConfig, tokens port.TokenSource, transport port.HTTPTransport, logger *zap.Logger) port.UpstreamFetcher {
	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimitPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitPerSecond), cfg.RateBurst)
	}
	return &upstreamFetcher{
		baseURL:   cfg.BaseURL,
		tokens:    tokens,
		transport: transport,
		limiter:   limiter,
		logger:    logger.Named("UpstreamFetcher"),
	}
}

// Fetch implements port.UpstreamFetcher.
func (f *upstreamFetcher) Fetch(ctx context.Context, path string) (entity.FetchResult, error) {
	token, err := f.tokens.GetToken(ctx)
	if err != nil {
		return entity.FetchResult{}, err
	}
	return f.FetchWithToken(ctx, path, token)
}

// FetchWithToken implements port.UpstreamFetcher.
func (f *upstreamFetcher) FetchWithToken(ctx context.Context, path, token string) (entity.FetchResult, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return entity.FetchResult{}, fmt.Errorf("rate limiter: %w", err)
	}

	start := time.Now()
	resp, err := f.transport.Get(ctx, f.baseURL+path, map[string]string{"Authorization": "Bearer " + token})
	metrics.UpstreamLatency.WithLabelValues(path).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(path, "error").Inc()
		return entity.FetchResult{}, fmt.Errorf("GET %s: %w", path, err)
	}
	metrics.UpstreamRequests.WithLabelValues(path, metrics.StatusLabel(resp.StatusCode)).Inc()

	if !resp.IsSuccess() {
		f.logger.Warn("Upstream request failed",
			zap.String("path", path),
			zap.Int("statusCode", resp.StatusCode),
			zap.ByteString("responseBody", resp.Body))
		return entity.FetchResult{OK: false, Status: resp.StatusCode, Body: resp.Body}, nil
	}
	return entity.FetchResult{OK: true, Status: resp.StatusCode, Body: resp.Body}, nil
}
