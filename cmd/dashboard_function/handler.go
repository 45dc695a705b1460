package main

import (
	"context"
	"strings"

	"iol_dashboard/internal/app/port"
	"iol_dashboard/internal/app/provider"
	"iol_dashboard/internal/infrastructure/restapi"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"
)

type functionHandler struct {
	dashboard port.DashboardService
	portfolio port.PortfolioService
	logger    *zap.Logger
}

func newFunctionHandler(svcs *provider.Services, logger *zap.Logger) *functionHandler {
	return &functionHandler{
		dashboard: svcs.Dashboard,
		portfolio: svcs.Portfolio,
		logger:    logger.Named("FunctionHandler"),
	}
}

// Handle serves the portfolio passthrough for paths ending in "portfolio" and
// the aggregated dashboard for everything else.
func (h *functionHandler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	svc := h.dashboard.Handle
	if strings.HasSuffix(strings.TrimRight(req.Path, "/"), "portfolio") {
		svc = h.portfolio.Handle
	}

	resp := svc(ctx)
	body, err := restapi.EncodeResponse(resp)
	if err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
		return jsonResponse(500, `{"error":"Server error","detail":"failed to encode response"}`), nil
	}
	return jsonResponse(resp.StatusCode, string(body)), nil
}

func jsonResponse(status int, body string) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       body,
	}
}
