package entity

import "fmt"

// ConfigError is returned when required configuration, usually credentials, is missing.
type ConfigError struct {
	Missing []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("missing configuration: %v", e.Missing)
}

// UpstreamAuthError is returned when the token endpoint answers with a non-success status.
type UpstreamAuthError struct {
	Status int
	Body   string
}

func (e *UpstreamAuthError) Error() string {
	return fmt.Sprintf("token request failed (%d): %s", e.Status, e.Body)
}

// UpstreamDataError is a non-success answer from a data endpoint.
type UpstreamDataError struct {
	Path   string
	Status int
	Body   string
}

func (e *UpstreamDataError) Error() string {
	return fmt.Sprintf("upstream request %s failed (%d): %s", e.Path, e.Status, e.Body)
}
