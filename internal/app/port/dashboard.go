package port

import (
	"context"

	"iol_dashboard/internal/domain/entity"
)

// UpstreamFetcher performs authenticated GETs against the brokerage API.
type UpstreamFetcher interface {
	// Fetch never returns an error for a non-success HTTP status; those are
	// reported through FetchResult. Errors mean the token could not be
	// obtained or the request did not complete.
	Fetch(ctx context.Context, path string) (entity.FetchResult, error)

	// FetchWithToken is Fetch with a bearer token the caller already holds.
	FetchWithToken(ctx context.Context, path, token string) (entity.FetchResult, error)
}

// DashboardService builds the aggregated dashboard answer.
type DashboardService interface {
	Handle(ctx context.Context) entity.APIResponse
}

// PortfolioService proxies the portfolio endpoint alone.
type PortfolioService interface {
	Handle(ctx context.Context) entity.APIResponse
}
