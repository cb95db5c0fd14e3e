package cuemusic

import (
	"context"
)

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok", "degraded" or "error"
	Checks map[string]string // component → "ok"/"error"
}

// Healthy reports whether every component passed.
func (h HealthStatus) Healthy() bool { return h.Status == "ok" }

// Health checks the health of all system components.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}
