package restapi

import (
	"net/http"

	"iol_dashboard/internal/app/port"
	"iol_dashboard/internal/domain/entity"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DashboardHandler exposes the dashboard and portfolio services over HTTP.
type DashboardHandler struct {
	dashboard port.DashboardService
	portfolio port.PortfolioService
	logger    *zap.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(ds port.DashboardService, ps port.PortfolioService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboard: ds,
		portfolio: ps,
		logger:    logger.Named("DashboardHandler"),
	}
}

// GetDashboard returns the portfolio, the account status and their derived totals.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	h.write(c, h.dashboard.Handle(c.Request.Context()))
}

// GetPortfolio proxies the portfolio endpoint.
func (h *DashboardHandler) GetPortfolio(c *gin.Context) {
	h.write(c, h.portfolio.Handle(c.Request.Context()))
}

func (h *DashboardHandler) write(c *gin.Context, resp entity.APIResponse) {
	body, err := EncodeResponse(resp)
	if err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
		c.Data(http.StatusInternalServerError, "application/json", fallbackErrorBody)
		return
	}
	c.Data(resp.StatusCode, "application/json", body)
}

var fallbackErrorBody = []byte(`{"error":"Server error","detail":"failed to encode response"}`)

// EncodeResponse renders the body of resp as JSON.
func EncodeResponse(resp entity.APIResponse) ([]byte, error) {
	return json.Marshal(resp.Body)
}
