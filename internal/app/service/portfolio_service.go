package service

import (
	"context"
	stdjson "encoding/json"
	"fmt"
	"net/http"

	"iol_dashboard/internal/app/port"
	"iol_dashboard/internal/domain/entity"
	"iol_dashboard/internal/infrastructure/configloader"

	"go.uber.org/zap"
)

// portfolioService implements port.PortfolioService: the portfolio endpoint
// proxied on its own, with the upstream status preserved on failure.
type portfolioService struct {
	fetcher       port.UpstreamFetcher
	portfolioPath string
	logger        *zap.Logger
}

// NewPortfolioService creates the single-endpoint portfolio proxy.
func NewPortfolioService(cfg configloader.IOLConfig, fetcher port.UpstreamFetcher, logger *zap.Logger) port.PortfolioService {
	return &portfolioService{
		fetcher:       fetcher,
		portfolioPath: cfg.PortfolioPath,
		logger:        logger.Named("PortfolioService"),
	}
}

// Handle implements port.PortfolioService.
func (s *portfolioService) Handle(ctx context.Context) entity.APIResponse {
	return guard(ctx, "portfolio", s.logger, s.handle)
}

func (s *portfolioService) handle(ctx context.Context) entity.APIResponse {
	res, err := s.fetcher.Fetch(ctx, s.portfolioPath)
	if err != nil {
		s.logger.Error("Portfolio fetch failed", zap.Error(err))
		return serverError(err)
	}
	if !res.OK {
		return entity.APIResponse{
			StatusCode: res.Status,
			Body:       entity.ErrorBody{Error: upstreamErrorMessage, Detail: string(res.Body)},
		}
	}
	if !json.Valid(res.Body) {
		return serverError(fmt.Errorf("portfolio response is not valid JSON"))
	}
	return entity.APIResponse{StatusCode: http.StatusOK, Body: stdjson.RawMessage(res.Body)}
}
