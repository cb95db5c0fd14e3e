package health

import (
	"context"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates an auxiliary component failed; search and catalogue reads still work.
	Degraded Status = "degraded"
	// Unhealthy indicates the database is unreachable; nothing can be served.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// DefaultTimeout bounds a single health probe.
const DefaultTimeout = 2 * time.Second

// Report aggregates health check results.
type Report struct {
	Status  Status
	Checks  map[string]CheckResult
	Latency time.Duration
}

type namedProbe struct {
	name  string
	probe Probe
}

// Service coordinates health checks.
type Service struct {
	db      Pinger
	probes  []namedProbe
	timeout time.Duration
}

// New creates a Service. A non-positive timeout falls back to DefaultTimeout.
func New(db Pinger, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{db: db, timeout: timeout}
}

// WithProbe adds an auxiliary check reported under name.
func (s *Service) WithProbe(name string, p Probe) *Service {
	s.probes = append(s.probes, namedProbe{name: name, probe: p})
	return s
}

// Check pings the database, where sounds, libraries and quota counters live,
// then runs the auxiliary probes. All checks share one deadline.
func (s *Service) Check(ctx context.Context) Report {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	checks := make(map[string]CheckResult, 1+len(s.probes))
	status := Healthy

	checks["database"] = CheckOK
	if err := s.db.Ping(ctx); err != nil {
		checks["database"] = CheckError
		status = Unhealthy
	}

	for _, p := range s.probes {
		checks[p.name] = CheckOK
		if err := p.probe(ctx); err != nil {
			checks[p.name] = CheckError
			if status == Healthy {
				status = Degraded
			}
		}
	}

	return Report{Status: status, Checks: checks, Latency: time.Since(start)}
}
