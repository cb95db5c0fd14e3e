package health

import "context"

// Pinger is the database probe; its failure makes the service unhealthy.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Probe checks an auxiliary component; its failure only degrades the service.
type Probe func(ctx context.Context) error
