package tokenstore

import (
	"iol_dashboard/internal/app/port"
	"iol_dashboard/internal/domain/entity"

	"github.com/patrickmn/go-cache"
)

const tokenKey = "iol_access_token"

// memoryStore keeps the token in process memory only. Expiry is judged by the
// token manager against its own clock, so entries are stored without a cache TTL.
type memoryStore struct {
	cache *cache.Cache
}

// NewMemoryStore creates an empty in-process token store.
func NewMemoryStore() port.TokenStore {
	return &memoryStore{cache: cache.New(cache.NoExpiration, 0)}
}

// Get implements port.TokenStore.
func (s *memoryStore) Get() (entity.TokenState, bool) {
	v, ok := s.cache.Get(tokenKey)
	if !ok {
		return entity.TokenState{}, false
	}
	state, ok := v.(entity.TokenState)
	return state, ok
}

// Set implements port.TokenStore.
func (s *memoryStore) Set(state entity.TokenState) {
	s.cache.Set(tokenKey, state, cache.NoExpiration)
}
