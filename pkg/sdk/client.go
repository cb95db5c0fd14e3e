package cuemusic

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/AndiJegeni/cuemusic/internal/db"
	dbRedis "github.com/AndiJegeni/cuemusic/internal/db/redis"
	"github.com/AndiJegeni/cuemusic/internal/domain/identity"
	domlib "github.com/AndiJegeni/cuemusic/internal/domain/library"
	domquota "github.com/AndiJegeni/cuemusic/internal/domain/quota"
	"github.com/AndiJegeni/cuemusic/internal/domain/search/query"
	"github.com/AndiJegeni/cuemusic/internal/domain/search/result"
	domsound "github.com/AndiJegeni/cuemusic/internal/domain/sound"
	domusage "github.com/AndiJegeni/cuemusic/internal/domain/usage"
	libraryrepo "github.com/AndiJegeni/cuemusic/internal/repository/library"
	quotarepo "github.com/AndiJegeni/cuemusic/internal/repository/quota"
	soundrepo "github.com/AndiJegeni/cuemusic/internal/repository/sound"
	"github.com/AndiJegeni/cuemusic/internal/transport/audiotag"
	healthuc "github.com/AndiJegeni/cuemusic/internal/usecase/health"
	libraryuc "github.com/AndiJegeni/cuemusic/internal/usecase/library"
	quotauc "github.com/AndiJegeni/cuemusic/internal/usecase/quota"
	searchuc "github.com/AndiJegeni/cuemusic/internal/usecase/search"
	sounduc "github.com/AndiJegeni/cuemusic/internal/usecase/sound"
	usageuc "github.com/AndiJegeni/cuemusic/internal/usecase/usage"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultKeyPrefix        = "cuemusic:"
	defaultMonthlySearches  = 15
	dailyCounterTTL         = 48 * time.Hour
	monthlyCounterTTL       = 62 * 24 * time.Hour
)

// Internal interfaces for substitution in tests.
type searchUseCase interface {
	Search(ctx context.Context, q query.Query) ([]result.Hit, error)
}

type soundUseCase interface {
	Create(ctx context.Context, in sounduc.CreateInput) (domsound.Sound, error)
	Import(ctx context.Context, r io.Reader, in sounduc.ImportInput) (domsound.Sound, error)
	Get(ctx context.Context, id string) (domsound.Sound, error)
	List(ctx context.Context, userID, cursor string, limit int) ([]domsound.Sound, string, error)
	Delete(ctx context.Context, userID, id string) error
}

type libraryUseCase interface {
	GetOrCreateDefault(ctx context.Context, userID string) (domlib.Library, error)
	Create(ctx context.Context, userID, name string) (domlib.Library, error)
	Get(ctx context.Context, id string) (domlib.Library, error)
	List(ctx context.Context, userID string) ([]domlib.Library, error)
}

type usageUseCase interface {
	GetReport(ctx context.Context, id identity.Identity, period domusage.Period) domusage.Report
	SearchCount(ctx context.Context, id identity.Identity) int64
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the cuemusic SDK entry point. It is safe for concurrent use.
type Client struct {
	store     db.Store
	searchSvc searchUseCase
	soundSvc  soundUseCase
	libSvc    libraryUseCase
	usageSvc  usageUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client and connects to the database.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		keyPrefix:        defaultKeyPrefix,
		monthlySearches:  defaultMonthlySearches,
		readinessTimeout: defaultReadinessTimeout,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("cuemusic: database address required (use WithRedis or WithValkey)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(ctx, cfg.readinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("cuemusic: database not ready: %w", err)
	}

	return wireClient(store, cfg, obs), nil
}

// createStore opens the rueidis store. Redis and Valkey share the commands the
// repositories use, so the driver only selects a name for errors.
func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "redis", "valkey":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Username: cfg.username,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("cuemusic: create %s store: %w", cfg.driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("cuemusic: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) *Client {
	soundRepo := soundrepo.New(store, cfg.keyPrefix)
	libRepo := libraryrepo.New(store, cfg.keyPrefix)
	counters := quotarepo.New(store, cfg.keyPrefix, dailyCounterTTL, monthlyCounterTTL)

	action := domquota.ActionReject
	if cfg.warnOnly {
		action = domquota.ActionWarn
	}
	gate := quotauc.NewGate(cfg.dailySearches, cfg.monthlySearches, action, zap.NewNop()).
		WithStore(counters)

	healthSvc := healthuc.New(store, healthuc.DefaultTimeout)

	var tags sounduc.TagReader
	if cfg.importEnabled {
		reader := audiotag.New(cfg.importDir, cfg.importMaxBytes)
		healthSvc = healthSvc.WithProbe("import_spool", reader.Probe)
		tags = reader
	}

	libSvc := libraryuc.New(libRepo)
	soundSvc := sounduc.New(soundRepo, libSvc, tags).
		WithPagination(cfg.defaultPageSize, cfg.maxPageSize)

	return &Client{
		store:     store,
		searchSvc: searchuc.New(soundRepo, gate, cfg.bpmTolerance),
		soundSvc:  soundSvc,
		libSvc:    libSvc,
		usageSvc:  usageuc.New(gate),
		healthSvc: healthSvc,
		obs:       obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe(ctx, "ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Search ranks the catalogue against q on behalf of the context's user.
// Each successful search counts against the user's quota.
func (c *Client) Search(ctx context.Context, q Query) (hits []Hit, err error) {
	start := time.Now()
	defer func() { c.obs.observe(ctx, "search", start, err) }()

	dq, err := query.New(q.Text, q.BPM, q.Key)
	if err != nil {
		return nil, fmt.Errorf("search: %w: %w", ErrInvalidInput, err)
	}
	res, err := c.searchSvc.Search(ctx, dq)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return fromInternalHits(res), nil
}

// Sounds returns the sound service.
func (c *Client) Sounds() *SoundService {
	return &SoundService{svc: c.soundSvc, obs: c.obs}
}

// Libraries returns the library service.
func (c *Client) Libraries() *LibraryService {
	return &LibraryService{svc: c.libSvc, obs: c.obs}
}
