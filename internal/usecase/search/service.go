package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/AndiJegeni/cuemusic/internal/domain"
	"github.com/AndiJegeni/cuemusic/internal/domain/identity"
	"github.com/AndiJegeni/cuemusic/internal/domain/search/query"
	"github.com/AndiJegeni/cuemusic/internal/domain/search/result"
	"github.com/AndiJegeni/cuemusic/internal/logger"
	"github.com/AndiJegeni/cuemusic/internal/metrics"
)

// Service runs quota-gated sound searches.
type Service struct {
	repo         Repository
	gate         QuotaGate
	bpmTolerance int
}

// New creates a search service. gate can be nil (unlimited mode).
// A non-positive bpmTolerance falls back to DefaultBPMTolerance.
func New(repo Repository, gate QuotaGate, bpmTolerance int) *Service {
	if bpmTolerance <= 0 {
		bpmTolerance = DefaultBPMTolerance
	}
	return &Service{repo: repo, gate: gate, bpmTolerance: bpmTolerance}
}

// Search checks the caller's quota, ranks every stored sound against q and counts the search.
// A denied quota returns an error wrapping domain.ErrSearchQuotaExceeded and runs nothing.
func (s *Service) Search(ctx context.Context, q query.Query) ([]result.Hit, error) {
	id, ok := identity.FromContext(ctx)
	if !ok {
		id = identity.Anonymous
	}
	log := logger.FromContext(ctx)

	if s.gate != nil {
		if _, err := s.gate.Allow(ctx, id); err != nil {
			outcome := metrics.OutcomeError
			if errors.Is(err, domain.ErrSearchQuotaExceeded) {
				outcome = metrics.OutcomeQuotaDenied
			}
			metrics.SearchRequestsTotal.WithLabelValues(outcome).Inc()
			return nil, fmt.Errorf("quota check: %w", err)
		}
	}

	start := time.Now()
	candidates, err := s.repo.ListAll(ctx)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("list sounds: %w", err)
	}

	hits := RankWithTolerance(candidates, q, s.bpmTolerance)

	remaining := int64(-1)
	if s.gate != nil {
		remaining = s.gate.Record(id)
	}

	stats := domain.SearchStatsFromContext(ctx)
	stats.Record(len(candidates), len(hits))
	stats.SetQuotaRemaining(remaining)

	metrics.SearchRequestsTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	metrics.SearchCandidates.Observe(float64(len(candidates)))
	metrics.SearchResults.Observe(float64(len(hits)))

	log.Debug("Search completed",
		zap.String("user_id", id.UserID()),
		zap.Bool("scored", q.HasText()),
		zap.Int("candidates", len(candidates)),
		zap.Int("results", len(hits)),
		zap.Int64("quota_remaining", remaining),
		zap.Duration("duration", time.Since(start)),
	)

	return hits, nil
}
