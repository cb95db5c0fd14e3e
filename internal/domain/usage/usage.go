package usage

import (
	"github.com/AndiJegeni/cuemusic/internal/domain/usage/budget"
	"github.com/AndiJegeni/cuemusic/internal/domain/usage/metrics"
)

// Period is the aggregation granularity.
type Period string

// Aggregation period constants.
const (
	PeriodDay   Period = "day"
	PeriodMonth Period = "month"
	PeriodTotal Period = "total"
)

// IsValid reports whether p is a known period.
func (p Period) IsValid() bool {
	switch p {
	case PeriodDay, PeriodMonth, PeriodTotal:
		return true
	}
	return false
}

// Report is a per-user search usage report for a time period.
type Report struct {
	period      Period
	periodStart int64
	periodEnd   int64
	userID      string
	premium     bool
	metrics     metrics.Metrics
	budget      budget.Budget
}

// NewReport creates a usage report.
func NewReport(
	period Period, start, end int64, userID string, premium bool,
	m metrics.Metrics, b budget.Budget,
) Report {
	return Report{
		period:      period,
		periodStart: start,
		periodEnd:   end,
		userID:      userID,
		premium:     premium,
		metrics:     m,
		budget:      b,
	}
}

// Period returns the aggregation granularity.
func (r *Report) Period() Period { return r.period }

// PeriodStart returns the period start timestamp (unix millis, 0 for total).
func (r *Report) PeriodStart() int64 { return r.periodStart }

// PeriodEnd returns the period end timestamp (unix millis, 0 for total).
func (r *Report) PeriodEnd() int64 { return r.periodEnd }

// UserID returns the user the report is for.
func (r *Report) UserID() string { return r.userID }

// Premium reports whether the user bypasses the search quota.
func (r *Report) Premium() bool { return r.premium }

// Metrics returns the usage metrics.
func (r *Report) Metrics() metrics.Metrics { return r.metrics }

// Budget returns the quota status.
func (r *Report) Budget() budget.Budget { return r.budget }
