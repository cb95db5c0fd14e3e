package domain

import "context"

type searchStatsKey struct{}

// SearchStats collects per-request search figures for a single HTTP request.
// The handler puts a mutable pointer into the context before calling the service;
// the service fills it; the handler reads it for response headers.
type SearchStats struct {
	Candidates     int
	Results        int
	QuotaRemaining int64 // -1 when unlimited
	Used           bool  // true once the search ran past the quota gate
}

// NewContextWithSearchStats returns a context with an embedded stats collector.
func NewContextWithSearchStats(ctx context.Context) (context.Context, *SearchStats) {
	s := &SearchStats{QuotaRemaining: -1}
	return context.WithValue(ctx, searchStatsKey{}, s), s
}

// SearchStatsFromContext extracts the stats collector from context. Returns nil if not set.
func SearchStatsFromContext(ctx context.Context) *SearchStats {
	s, _ := ctx.Value(searchStatsKey{}).(*SearchStats)
	return s
}

// Record stores candidate and result counts.
func (s *SearchStats) Record(candidates, results int) {
	if s != nil {
		s.Candidates = candidates
		s.Results = results
		s.Used = true
	}
}

// SetQuotaRemaining stores the remaining quota after the search was counted.
func (s *SearchStats) SetQuotaRemaining(n int64) {
	if s != nil {
		s.QuotaRemaining = n
	}
}
