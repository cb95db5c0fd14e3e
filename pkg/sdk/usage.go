package cuemusic

import (
	"context"
	"time"

	domusage "github.com/AndiJegeni/cuemusic/internal/domain/usage"
)

// UsagePeriod is the aggregation granularity for usage reports.
type UsagePeriod string

// UsagePeriod constants.
const (
	PeriodDay   UsagePeriod = "day"
	PeriodMonth UsagePeriod = "month"
	PeriodTotal UsagePeriod = "total"
)

// UsageReport contains the context user's search usage for a period.
type UsageReport struct {
	Period      UsagePeriod
	PeriodStart time.Time // zero for PeriodTotal
	PeriodEnd   time.Time // zero for PeriodTotal
	UserID      string
	Premium     bool
	Searches    int64
	Budget      BudgetStatus
}

// BudgetStatus tracks search quota state. Remaining is -1 when unlimited.
type BudgetStatus struct {
	Limit       int64
	Remaining   int64
	IsExhausted bool
	ResetsAt    time.Time
}

// Usage returns the context user's search usage for the given period.
// Observer always records success: counter read errors degrade to zero inside the gate.
func (c *Client) Usage(ctx context.Context, period UsagePeriod) UsageReport {
	start := time.Now()
	defer func() { c.obs.observe(ctx, "usage", start, nil) }()

	report := c.usageSvc.GetReport(ctx, userFromContext(ctx), domusage.Period(period))
	b := report.Budget()

	return UsageReport{
		Period:      UsagePeriod(report.Period()),
		PeriodStart: millisOrZero(report.PeriodStart()),
		PeriodEnd:   millisOrZero(report.PeriodEnd()),
		UserID:      report.UserID(),
		Premium:     report.Premium(),
		Searches:    report.Metrics().Searches(),
		Budget: BudgetStatus{
			Limit:       b.SearchesLimit(),
			Remaining:   b.SearchesRemaining(),
			IsExhausted: b.IsExhausted(),
			ResetsAt:    millisOrZero(b.ResetsAt()),
		},
	}
}

// SearchCount returns the context user's searches this month.
func (c *Client) SearchCount(ctx context.Context) int64 {
	start := time.Now()
	defer func() { c.obs.observe(ctx, "search_count", start, nil) }()

	return c.usageSvc.SearchCount(ctx, userFromContext(ctx))
}

func millisOrZero(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
