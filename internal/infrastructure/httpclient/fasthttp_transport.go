package httpclient

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"iol_dashboard/internal/app/port"
	"iol_dashboard/internal/domain/entity"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// fastHTTPTransport implements port.HTTPTransport on top of fasthttp.
type fastHTTPTransport struct {
	client  *fasthttp.Client
	timeout time.Duration
	logger  *zap.Logger
}

// NewFastHTTPTransport creates a fasthttp-backed transport. A zero timeout
// leaves requests bounded only by the caller's context deadline.
func NewFastHTTPTransport(timeout time.Duration, logger *zap.Logger) port.HTTPTransport {
	return &fastHTTPTransport{
		client:  &fasthttp.Client{Name: "iol-dashboard"},
		timeout: timeout,
		logger:  logger.Named("FastHTTPTransport"),
	}
}

// PostForm implements port.HTTPTransport.
func (t *fastHTTPTransport) PostForm(ctx context.Context, rawURL string, form url.Values, headers map[string]string) (entity.HTTPResponse, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(rawURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/x-www-form-urlencoded")
	req.SetBodyString(form.Encode())
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return t.do(ctx, req)
}

// Get implements port.HTTPTransport.
func (t *fastHTTPTransport) Get(ctx context.Context, rawURL string, headers map[string]string) (entity.HTTPResponse, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(rawURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return t.do(ctx, req)
}

func (t *fastHTTPTransport) do(ctx context.Context, req *fasthttp.Request) (entity.HTTPResponse, error) {
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if err := ctx.Err(); err != nil {
		return entity.HTTPResponse{}, err
	}

	requestURL := string(req.URI().FullURI())
	t.logger.Debug("Sending upstream request",
		zap.ByteString("method", req.Header.Method()),
		zap.String("url", requestURL))

	var err error
	deadline, hasDeadline := ctx.Deadline()
	switch {
	case hasDeadline && (t.timeout <= 0 || time.Until(deadline) < t.timeout):
		err = t.client.DoDeadline(req, resp, deadline)
	case t.timeout > 0:
		err = t.client.DoTimeout(req, resp, t.timeout)
	default:
		err = t.client.Do(req, resp)
	}
	if err != nil {
		t.logger.Error("Failed to execute upstream request", zap.String("url", requestURL), zap.Error(err))
		return entity.HTTPResponse{}, fmt.Errorf("failed to execute request to %s: %w", requestURL, err)
	}

	// resp.Body() is only valid until the response is released.
	body := append([]byte(nil), resp.Body()...)
	return entity.HTTPResponse{StatusCode: resp.StatusCode(), Body: body}, nil
}
