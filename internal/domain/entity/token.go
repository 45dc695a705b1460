package entity

import "time"

// TokenState is the bearer token currently held for the upstream API.
type TokenState struct {
	AccessToken string
	ExpiresAt   time.Time
}

// ValidAt reports whether the token can still be used at the given instant.
func (s TokenState) ValidAt(now time.Time) bool {
	return s.AccessToken != "" && now.Before(s.ExpiresAt)
}

// TokenResponse is the body returned by the password-grant token endpoint.
type TokenResponse struct {
	AccessToken string  `json:"access_token"`
	TokenType   string  `json:"token_type,omitempty"`
	ExpiresIn   float64 `json:"expires_in"`
}
