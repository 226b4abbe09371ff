package manager

import (
	"context"
	"log/slog"
	"strings"

	"stratos/cache"
)

// MaxCandidates caps the number of places a search returns.
const MaxCandidates = 5

// Resolver is the search-as-you-type front of a Geocoding service. It never
// reports errors: failures and short queries yield an empty list.
type Resolver struct {
	geocoding Geocoding
	cache     *cache.Cache[[]Location]
	logger    *slog.Logger
}

// NewResolver builds a resolver. cache may be nil.
func NewResolver(geocoding Geocoding, cache *cache.Cache[[]Location], logger *slog.Logger) *Resolver {
	return &Resolver{geocoding: geocoding, cache: cache, logger: logger}
}

func (r *Resolver) Search(ctx context.Context, query string) []Location {
	if QueryTooShort(query) {
		return []Location{}
	}

	key := strings.ToLower(strings.TrimSpace(query))
	if r.cache != nil {
		if locations, ok := r.cache.Get(key); ok {
			return locations
		}
	}

	locations, err := r.geocoding.Search(ctx, query)
	if err != nil {
		r.logger.Warn("search_failed", "query", query, "error", err.Error())
		return []Location{}
	}
	if len(locations) > MaxCandidates {
		locations = locations[:MaxCandidates]
	}
	if locations == nil {
		locations = []Location{}
	}

	if r.cache != nil {
		r.cache.Set(key, locations)
	}
	return locations
}
