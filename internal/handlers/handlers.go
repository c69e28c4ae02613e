package handlers

import (
	"github.com/atelierhq/atelier/internal/auth"
	"github.com/atelierhq/atelier/internal/cache"
	"github.com/atelierhq/atelier/internal/search"
)

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	search *search.Service
	cache  *cache.RedisClient
	auth   *auth.Service
}

// NewHandlers creates a new handlers instance
func NewHandlers(searchService *search.Service) *Handlers {
	return &Handlers{
		search: searchService,
	}
}

// SetCache sets the Redis cache client; without one, responses are always
// served from the database.
func (h *Handlers) SetCache(c *cache.RedisClient) {
	h.cache = c
}

// SetAuthService sets the admin authentication service
func (h *Handlers) SetAuthService(a *auth.Service) {
	h.auth = a
}
