package service

import (
	"context"
	"net/http"

	"iol_dashboard/internal/app/port"
	"iol_dashboard/internal/domain/entity"
	"iol_dashboard/internal/infrastructure/configloader"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// dashboardService implements port.DashboardService.
type dashboardService struct {
	tokens            port.TokenSource
	fetcher           port.UpstreamFetcher
	portfolioPath     string
	accountStatusPath string
	logger            *zap.Logger
}

// NewDashboardService creates the portfolio + account status aggregator.
func NewDashboardService(cfg configloader.IOLConfig, tokens port.TokenSource, fetcher port.UpstreamFetcher, logger *zap.Logger) port.DashboardService {
	return &dashboardService{
		tokens:            tokens,
		fetcher:           fetcher,
		portfolioPath:     cfg.PortfolioPath,
		accountStatusPath: cfg.AccountStatusPath,
		logger:            logger.Named("DashboardService"),
	}
}

// Handle implements port.DashboardService.
func (s *dashboardService) Handle(ctx context.Context) entity.APIResponse {
	return guard(ctx, "dashboard", s.logger, s.handle)
}

func (s *dashboardService) handle(ctx context.Context) entity.APIResponse {
	token, err := s.tokens.GetToken(ctx)
	if err != nil {
		s.logger.Error("Failed to obtain access token", zap.Error(err))
		return serverError(err)
	}

	// Both calls always run to completion; the outcome is decided after the join.
	var portfolioRes, accountRes entity.FetchResult
	var g errgroup.Group
	g.Go(func() (err error) {
		defer recoverInto(&err)
		portfolioRes, err = s.fetcher.FetchWithToken(ctx, s.portfolioPath, token)
		return err
	})
	g.Go(func() (err error) {
		defer recoverInto(&err)
		accountRes, err = s.fetcher.FetchWithToken(ctx, s.accountStatusPath, token)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("Upstream fetch failed", zap.Error(err))
		return serverError(err)
	}

	if !portfolioRes.OK || !accountRes.OK {
		body := entity.UpstreamErrorBody{Error: upstreamErrorMessage}
		if !portfolioRes.OK {
			body.Portfolio = &entity.CallFailure{Status: portfolioRes.Status, Detail: string(portfolioRes.Body)}
			s.logger.Warn("Portfolio call failed", zap.Error(portfolioRes.Err(s.portfolioPath)))
		}
		if !accountRes.OK {
			body.EstadoCuenta = &entity.CallFailure{Status: accountRes.Status, Detail: string(accountRes.Body)}
			s.logger.Warn("Account status call failed", zap.Error(accountRes.Err(s.accountStatusPath)))
		}
		return entity.APIResponse{StatusCode: http.StatusBadGateway, Body: body}
	}

	payload, err := BuildAggregate(portfolioRes.Body, accountRes.Body)
	if err != nil {
		s.logger.Error("Failed to build dashboard payload", zap.Error(err))
		return serverError(err)
	}

	s.logger.Debug("Dashboard payload built", zap.Int("holdings", len(payload.Distribucion)))
	return entity.APIResponse{StatusCode: http.StatusOK, Body: payload}
}
