package places

import (
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/localwander/go-walk-itineraries/internal/types"
)

// ResultCache keeps resolved search results around so refresh operations
// can reuse them without hitting the provider again. Keys combine the
// normalized location and the search radius; the core stays stateless.
type ResultCache struct {
	cache *gocache.Cache
}

func NewResultCache(ttl, cleanupInterval time.Duration) *ResultCache {
	return &ResultCache{cache: gocache.New(ttl, cleanupInterval)}
}

func cacheKey(location string, radiusMiles float64) string {
	return fmt.Sprintf("%s|%.2f", strings.ToLower(strings.TrimSpace(location)), radiusMiles)
}

func (rc *ResultCache) Get(location string, radiusMiles float64) (*types.SearchResults, bool) {
	if cached, found := rc.cache.Get(cacheKey(location, radiusMiles)); found {
		return cached.(*types.SearchResults), true
	}
	return nil, false
}

// GetAnyRadius returns the most recently cached results for a location
// regardless of radius. Refresh operations carry no radius, so they accept
// whatever search produced the itinerary being refreshed.
func (rc *ResultCache) GetAnyRadius(location string) (*types.SearchResults, bool) {
	prefix := strings.ToLower(strings.TrimSpace(location)) + "|"
	for key, item := range rc.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			return item.Object.(*types.SearchResults), true
		}
	}
	return nil, false
}

func (rc *ResultCache) Set(location string, radiusMiles float64, results *types.SearchResults) {
	rc.cache.Set(cacheKey(location, radiusMiles), results, gocache.DefaultExpiration)
}
