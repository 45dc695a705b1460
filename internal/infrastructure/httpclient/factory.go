package httpclient

import (
	"fmt"
	"time"

	"iol_dashboard/internal/app/port"
	"iol_dashboard/internal/infrastructure/configloader"

	"go.uber.org/zap"
)

// New picks the transport named by the configuration.
func New(cfg configloader.IOLConfig, logger *zap.Logger) (port.HTTPTransport, error) {
	timeout := time.Duration(cfg.RequestTimeoutMillis) * time.Millisecond
	switch cfg.Transport {
	case configloader.TransportFastHTTP:
		return NewFastHTTPTransport(timeout, logger), nil
	case configloader.TransportNetHTTP:
		return NewNetHTTPTransport(timeout, logger), nil
	default:
		return nil, fmt.Errorf("unknown transport %q", cfg.Transport)
	}
}
