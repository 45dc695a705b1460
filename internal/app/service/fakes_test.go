package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"time"

	"iol_dashboard/internal/domain/entity"
	"iol_dashboard/internal/infrastructure/configloader"
)

const testBaseURL = "https://iol.test"

type recordedCall struct {
	Method  string
	URL     string
	Form    url.Values
	Headers map[string]string
}

// fakeTransport answers by request path and records every call.
type fakeTransport struct {
	mu     sync.Mutex
	calls  []recordedCall
	routes map[string]func() (entity.HTTPResponse, error)
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{routes: make(map[string]func() (entity.HTTPResponse, error))}
}

func (f *fakeTransport) on(path string, status int, body string) *fakeTransport {
	f.routes[path] = func() (entity.HTTPResponse, error) {
		return entity.HTTPResponse{StatusCode: status, Body: []byte(body)}, nil
	}
	return f
}

func (f *fakeTransport) onFunc(path string, fn func() (entity.HTTPResponse, error)) *fakeTransport {
	f.routes[path] = fn
	return f
}

func (f *fakeTransport) fail(path string, err error) *fakeTransport {
	f.routes[path] = func() (entity.HTTPResponse, error) { return entity.HTTPResponse{}, err }
	return f
}

func (f *fakeTransport) PostForm(_ context.Context, rawURL string, form url.Values, headers map[string]string) (entity.HTTPResponse, error) {
	return f.serve(recordedCall{Method: "POST", URL: rawURL, Form: form, Headers: headers})
}

func (f *fakeTransport) Get(_ context.Context, rawURL string, headers map[string]string) (entity.HTTPResponse, error) {
	return f.serve(recordedCall{Method: "GET", URL: rawURL, Headers: headers})
}

func (f *fakeTransport) serve(c recordedCall) (entity.HTTPResponse, error) {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	route, ok := f.routes[strings.TrimPrefix(c.URL, testBaseURL)]
	f.mu.Unlock()
	if !ok {
		return entity.HTTPResponse{}, errors.New("no route for " + c.URL)
	}
	return route()
}

func (f *fakeTransport) callsTo(path string) []recordedCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []recordedCall
	for _, c := range f.calls {
		if c.URL == testBaseURL+path {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeTransport) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fakeStore struct {
	mu    sync.Mutex
	state *entity.TokenState
	sets  int
}

func (s *fakeStore) Get() (entity.TokenState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return entity.TokenState{}, false
	}
	return *s.state, true
}

func (s *fakeStore) Set(state entity.TokenState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = &state
	s.sets++
}

func testIOLConfig() configloader.IOLConfig {
	return configloader.IOLConfig{
		BaseURL:           testBaseURL,
		TokenPath:         "/token",
		PortfolioPath:     "/api/v2/portafolio/argentina",
		AccountStatusPath: "/api/v2/estadocuenta",
		Credentials: configloader.Credentials{
			Username: "alice",
			Password: "s3cret",
		},
	}
}
