package port

import (
	"context"
	"time"

	"iol_dashboard/internal/domain/entity"
)

// TokenStore holds the current upstream bearer token.
type TokenStore interface {
	// Get returns the stored state and whether anything has been stored yet.
	Get() (entity.TokenState, bool)
	Set(state entity.TokenState)
}

// TokenSource hands out a valid bearer token, refreshing it when needed.
type TokenSource interface {
	GetToken(ctx context.Context) (string, error)
}

// Clock abstracts time.Now so expiry can be tested.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }
