package manager

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimitedGeocoding holds geocoding calls to a request rate.
type RateLimitedGeocoding struct {
	geocoding Geocoding
	limiter   *rate.Limiter
}

// NewRateLimitedGeocoding wraps g. A non-positive rps returns g unchanged.
func NewRateLimitedGeocoding(g Geocoding, rps float64, burst int) Geocoding {
	if rps <= 0 {
		return g
	}
	return &RateLimitedGeocoding{geocoding: g, limiter: rate.NewLimiter(rate.Limit(rps), max(burst, 1))}
}

func (r *RateLimitedGeocoding) Search(ctx context.Context, query string) ([]Location, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limit wait canceled: %v", ErrTransport, err)
	}
	return r.geocoding.Search(ctx, query)
}

// RateLimitedGenerator holds generative calls to a request rate.
type RateLimitedGenerator struct {
	generator Generator
	limiter   *rate.Limiter
}

// NewRateLimitedGenerator wraps g. A non-positive rps returns g unchanged.
func NewRateLimitedGenerator(g Generator, rps float64, burst int) Generator {
	if rps <= 0 {
		return g
	}
	return &RateLimitedGenerator{generator: g, limiter: rate.NewLimiter(rate.Limit(rps), max(burst, 1))}
}

func (r *RateLimitedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: rate limit wait canceled: %v", ErrTransport, err)
	}
	return r.generator.Generate(ctx, prompt)
}

var (
	_ Geocoding = (*RateLimitedGeocoding)(nil)
	_ Generator = (*RateLimitedGenerator)(nil)
)
