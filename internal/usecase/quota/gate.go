package quota

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/AndiJegeni/cuemusic/internal/domain"
	"github.com/AndiJegeni/cuemusic/internal/domain/identity"
	domquota "github.com/AndiJegeni/cuemusic/internal/domain/quota"
	"github.com/AndiJegeni/cuemusic/internal/metrics"
)

// persistTimeout bounds each write-behind call to the store.
const persistTimeout = 2 * time.Second

// counters are one user's in-memory search counts.
type counters struct {
	dailyUsed   int64
	monthlyUsed int64
	day         time.Time
	month       time.Time
}

// Gate is the per-user search quota with optional persistence.
// Hot path (Allow) is in memory once a user's counters are hydrated.
// Record updates memory first, then writes behind to the store.
type Gate struct {
	mu           sync.Mutex
	users        map[string]*counters
	dailyLimit   int64
	monthlyLimit int64
	action       domquota.Action
	store        Store
	logger       *zap.Logger
	now          func() time.Time
}

// NewGate creates a quota gate. A zero limit disables that window.
func NewGate(dailyLimit, monthlyLimit int64, action domquota.Action, logger *zap.Logger) *Gate {
	if !action.IsValid() {
		action = domquota.ActionReject
	}
	return &Gate{
		users:        make(map[string]*counters),
		dailyLimit:   dailyLimit,
		monthlyLimit: monthlyLimit,
		action:       action,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// WithStore attaches a persistence store. Counters are loaded lazily per user.
func (g *Gate) WithStore(store Store) *Gate {
	g.store = store
	return g
}

// Allow decides whether the user may search now.
// On an exhausted quota it returns a *domain.QuotaExceededError (action reject)
// or logs a warning and allows the search (action warn).
func (g *Gate) Allow(ctx context.Context, id identity.Identity) (domquota.Decision, error) {
	st := g.Status(ctx, id)
	d := st.Decide(g.now())

	switch {
	case d.Premium:
		metrics.QuotaDecisionsTotal.WithLabelValues("premium").Inc()
		return d, nil
	case d.Allowed:
		metrics.QuotaDecisionsTotal.WithLabelValues("allowed").Inc()
		return d, nil
	case g.action == domquota.ActionWarn:
		metrics.QuotaDecisionsTotal.WithLabelValues("warned").Inc()
		g.logger.Warn("Search quota exceeded",
			zap.String("user_id", id.UserID()),
			zap.Int64("used", d.Used),
			zap.Int64("limit", d.Limit),
		)
		d.Allowed = true
		return d, nil
	}

	metrics.QuotaDecisionsTotal.WithLabelValues("denied").Inc()
	return d, &domain.QuotaExceededError{
		UserID:   id.UserID(),
		Used:     d.Used,
		Limit:    d.Limit,
		ResetsAt: d.ResetsAt,
	}
}

// Record counts one search for the user and returns the searches left (-1 if unlimited).
// Premium users are counted too, so their usage report stays accurate.
func (g *Gate) Record(id identity.Identity) int64 {
	userID := id.UserID()
	now := g.now()

	g.mu.Lock()
	c := g.users[userID]
	if c == nil {
		// Not hydrated: Record without Allow. Start from zero, the store still gets the increment.
		c = &counters{day: domquota.StartOfDay(now), month: domquota.StartOfMonth(now)}
		g.users[userID] = c
	}
	c.resetIfNeeded(now)
	c.dailyUsed++
	c.monthlyUsed++
	st := g.statusLocked(c, id.IsPremium())
	store := g.store
	g.mu.Unlock()

	if store != nil {
		// Write-behind under a background context so the caller's cancellation does not drop the count.
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()

		if err := store.IncrBy(ctx, userID, domquota.WindowDaily, now, 1); err != nil {
			g.logger.Warn("Failed to persist daily search count", zap.String("user_id", userID), zap.Error(err))
		}
		if err := store.IncrBy(ctx, userID, domquota.WindowMonthly, now, 1); err != nil {
			g.logger.Warn("Failed to persist monthly search count", zap.String("user_id", userID), zap.Error(err))
		}
	}

	return tightest(st.RemainingDaily(), st.RemainingMonthly())
}

// Status returns the user's counters, hydrating them from the store on first sight.
func (g *Gate) Status(ctx context.Context, id identity.Identity) domquota.Status {
	userID := id.UserID()
	now := g.now()

	g.mu.Lock()
	c, ok := g.users[userID]
	g.mu.Unlock()

	if !ok {
		loaded := g.load(ctx, userID, now)

		g.mu.Lock()
		if c, ok = g.users[userID]; !ok {
			c = loaded
			g.users[userID] = c
		}
		g.mu.Unlock()
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	c.resetIfNeeded(now)
	return g.statusLocked(c, id.IsPremium())
}

// SearchCount returns the user's searches this month.
func (g *Gate) SearchCount(ctx context.Context, id identity.Identity) int64 {
	return g.Status(ctx, id).MonthlyUsed
}

// DailyLimit returns the daily search cap (0 = unlimited).
func (g *Gate) DailyLimit() int64 { return g.dailyLimit }

// MonthlyLimit returns the monthly search cap (0 = unlimited).
func (g *Gate) MonthlyLimit() int64 { return g.monthlyLimit }

func (g *Gate) statusLocked(c *counters, premium bool) domquota.Status {
	return domquota.Status{
		Premium:      premium,
		DailyUsed:    c.dailyUsed,
		DailyLimit:   g.dailyLimit,
		MonthlyUsed:  c.monthlyUsed,
		MonthlyLimit: g.monthlyLimit,
	}
}

func (g *Gate) load(ctx context.Context, userID string, now time.Time) *counters {
	c := &counters{day: domquota.StartOfDay(now), month: domquota.StartOfMonth(now)}
	if g.store == nil {
		return c
	}

	if val, err := g.store.Get(ctx, userID, domquota.WindowDaily, now); err == nil {
		c.dailyUsed = val
	} else {
		g.logger.Warn("Failed to load daily search count", zap.String("user_id", userID), zap.Error(err))
	}
	if val, err := g.store.Get(ctx, userID, domquota.WindowMonthly, now); err == nil {
		c.monthlyUsed = val
	} else {
		g.logger.Warn("Failed to load monthly search count", zap.String("user_id", userID), zap.Error(err))
	}

	g.logger.Debug("Search counters loaded",
		zap.String("user_id", userID),
		zap.Int64("daily_used", c.dailyUsed),
		zap.Int64("monthly_used", c.monthlyUsed),
	)
	return c
}

// resetIfNeeded zeroes counters when the day or month rolls over.
func (c *counters) resetIfNeeded(now time.Time) {
	today := domquota.StartOfDay(now)
	thisMonth := domquota.StartOfMonth(now)

	if today.After(c.day) {
		c.dailyUsed = 0
		c.day = today
	}
	if thisMonth.After(c.month) {
		c.monthlyUsed = 0
		c.month = thisMonth
	}
}

// tightest returns the smaller remaining count, treating -1 as unlimited.
func tightest(a, b int64) int64 {
	switch {
	case a < 0:
		return b
	case b < 0:
		return a
	default:
		return min(a, b)
	}
}
