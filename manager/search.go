package manager

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// SearchResult is one delivered set of candidates for a query.
type SearchResult struct {
	Query     string
	Locations []Location
}

// Search debounces query edits into resolver lookups. Each edit supersedes the
// previous one; a lookup that resolves after a newer edit is discarded.
type Search struct {
	ctx      context.Context
	resolver *Resolver
	delay    time.Duration
	deliver  func(SearchResult)
	logger   *slog.Logger

	mu    sync.Mutex
	seq   uint64
	timer *time.Timer

	// serializes deliveries so a stale result can never land after a fresher one
	deliverMu sync.Mutex
}

// NewSearch builds a debouncer. deliver is called from timer goroutines and
// must not call Input.
func NewSearch(ctx context.Context, resolver *Resolver, delay time.Duration, deliver func(SearchResult), logger *slog.Logger) *Search {
	return &Search{ctx: ctx, resolver: resolver, delay: delay, deliver: deliver, logger: logger}
}

// Input records an edit of the query text. Queries shorter than
// MinQueryLength deliver an empty result immediately and never reach the
// resolver.
func (s *Search) Input(query string) {
	s.mu.Lock()
	s.seq++
	token := s.seq
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	short := QueryTooShort(query)
	if !short {
		s.timer = time.AfterFunc(s.delay, func() { s.run(token, query) })
	}
	s.mu.Unlock()

	if short {
		s.deliverMu.Lock()
		s.deliver(SearchResult{Query: query, Locations: []Location{}})
		s.deliverMu.Unlock()
	}
}

// Stop cancels a pending lookup and discards any in flight.
func (s *Search) Stop() {
	s.mu.Lock()
	s.seq++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()
}

func (s *Search) current(token uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return token == s.seq
}

func (s *Search) run(token uint64, query string) {
	if !s.current(token) {
		return
	}

	locations := s.resolver.Search(s.ctx, query)

	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()
	if !s.current(token) {
		s.logger.Debug("search_stale_discarded", "query", query)
		return
	}
	s.deliver(SearchResult{Query: query, Locations: locations})
}
