package port

import (
	"context"
	"net/url"

	"iol_dashboard/internal/domain/entity"
)

// HTTPTransport is the outbound HTTP capability the upstream clients are built on.
// Implementations return an error only for network-level faults; any completed
// exchange, whatever its status, comes back as an entity.HTTPResponse.
type HTTPTransport interface {
	// PostForm sends form as an application/x-www-form-urlencoded body.
	PostForm(ctx context.Context, rawURL string, form url.Values, headers map[string]string) (entity.HTTPResponse, error)

	// Get issues a GET request with the given headers.
	Get(ctx context.Context, rawURL string, headers map[string]string) (entity.HTTPResponse, error)
}
