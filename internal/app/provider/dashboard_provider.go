package provider

import (
	"fmt"

	"iol_dashboard/internal/app/port"
	"iol_dashboard/internal/app/service"
	"iol_dashboard/internal/infrastructure/configloader"
	"iol_dashboard/internal/infrastructure/httpclient"
	"iol_dashboard/internal/infrastructure/tokenstore"

	"go.uber.org/zap"
)

// Services bundles the wired application services.
type Services struct {
	Tokens    port.TokenSource
	Fetcher   port.UpstreamFetcher
	Dashboard port.DashboardService
	Portfolio port.PortfolioService
}

// NewServices wires transport, token store and services from cfg. The token
// store lives as long as the returned Services, so callers keep one instance
// per process to reuse tokens across requests.
func NewServices(cfg *configloader.Config, logger *zap.Logger) (*Services, error) {
	transport, err := httpclient.New(cfg.IOL, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create transport: %w", err)
	}

	tokens := service.NewTokenManager(cfg.IOL, transport, tokenstore.NewMemoryStore(), port.SystemClock{}, logger)
	fetcher := service.NewUpstreamFetcher(cfg.IOL, tokens, transport, logger)

	logger.Info("IOL services initialized",
		zap.String("baseURL", cfg.IOL.BaseURL),
		zap.String("transport", cfg.IOL.Transport))

	return &Services{
		Tokens:    tokens,
		Fetcher:   fetcher,
		Dashboard: service.NewDashboardService(cfg.IOL, tokens, fetcher, logger),
		Portfolio: service.NewPortfolioService(cfg.IOL, fetcher, logger),
	}, nil
}
