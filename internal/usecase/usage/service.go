package usage

import (
	"context"
	"time"

	"github.com/AndiJegeni/cuemusic/internal/domain/identity"
	domquota "github.com/AndiJegeni/cuemusic/internal/domain/quota"
	domusage "github.com/AndiJegeni/cuemusic/internal/domain/usage"
	"github.com/AndiJegeni/cuemusic/internal/domain/usage/budget"
	"github.com/AndiJegeni/cuemusic/internal/domain/usage/metrics"
)

// Service handles usage reporting.
type Service struct {
	sr  StatusReader
	now func() time.Time
}

// New creates a Service. sr can be nil (unlimited mode).
func New(sr StatusReader) *Service {
	return &Service{sr: sr, now: func() time.Time { return time.Now().UTC() }}
}

// GetReport builds the caller's search usage report for the given period.
// Counters are kept per day and per month; "total" reports the monthly window without bounds.
func (s *Service) GetReport(ctx context.Context, id identity.Identity, period domusage.Period) domusage.Report {
	now := s.now()
	st := domquota.Status{Premium: id.IsPremium()}
	if s.sr != nil {
		st = s.sr.Status(ctx, id)
	}

	var start, end, limit, used, remaining int64

	switch period {
	case domusage.PeriodDay:
		start = domquota.StartOfDay(now).UnixMilli()
		end = domquota.NextDay(now).UnixMilli()
		limit, used, remaining = st.DailyLimit, st.DailyUsed, st.RemainingDaily()
	case domusage.PeriodMonth:
		start = domquota.StartOfMonth(now).UnixMilli()
		end = domquota.NextMonth(now).UnixMilli()
		limit, used, remaining = st.MonthlyLimit, st.MonthlyUsed, st.RemainingMonthly()
	default:
		limit, used, remaining = st.MonthlyLimit, st.MonthlyUsed, st.RemainingMonthly()
	}

	if st.Premium || s.sr == nil {
		limit, remaining = 0, -1
	}
	exhausted := limit > 0 && remaining == 0

	resetsAt := end
	if period == domusage.PeriodTotal {
		resetsAt = domquota.NextMonth(now).UnixMilli()
	}

	b := budget.New(limit, remaining, exhausted, resetsAt)
	m := metrics.New(used)

	return domusage.NewReport(period, start, end, id.UserID(), st.Premium, m, b)
}

// SearchCount returns the caller's searches this month (0 for unknown users).
func (s *Service) SearchCount(ctx context.Context, id identity.Identity) int64 {
	if s.sr == nil {
		return 0
	}
	return s.sr.Status(ctx, id).MonthlyUsed
}
