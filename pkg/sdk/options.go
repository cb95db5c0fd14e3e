package cuemusic

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver   string // "valkey" or "redis"
	addrs    []string
	username string
	password string

	keyPrefix string

	dailySearches   int64
	monthlySearches int64
	warnOnly        bool
	bpmTolerance    int

	importDir      string
	importMaxBytes int64
	importEnabled  bool

	defaultPageSize int
	maxPageSize     int

	readinessTimeout time.Duration

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithValkey configures the client to connect to a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithUsername sets the ACL username used for AUTH.
func WithUsername(username string) Option {
	return optionFunc(func(c *clientConfig) {
		c.username = username
	})
}

// WithKeyPrefix sets the prefix of every key the client touches.
// Default: "cuemusic:", the same as the server.
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithSearchQuota caps free searches per day and per month. Zero disables a cap.
// Default: no daily cap, 15 per month.
func WithSearchQuota(daily, monthly int64) Option {
	return optionFunc(func(c *clientConfig) {
		c.dailySearches = daily
		c.monthlySearches = monthly
	})
}

// WithQuotaWarnOnly lets searches past the quota through; they are still counted.
func WithQuotaWarnOnly() Option {
	return optionFunc(func(c *clientConfig) {
		c.warnOnly = true
	})
}

// WithBPMTolerance sets how far a sound's BPM may be from the requested one. Default: 5.
func WithBPMTolerance(tolerance int) Option {
	return optionFunc(func(c *clientConfig) {
		c.bpmTolerance = tolerance
	})
}

// WithAudioImport enables Sounds().Import. Uploads are spooled to dir
// (os.TempDir when empty) and rejected above maxBytes.
func WithAudioImport(dir string, maxBytes int64) Option {
	return optionFunc(func(c *clientConfig) {
		c.importEnabled = true
		c.importDir = dir
		c.importMaxBytes = maxBytes
	})
}

// WithPageSize sets the default and maximum page size of Sounds().List.
func WithPageSize(defaultSize, maxSize int) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultPageSize = defaultSize
		c.maxPageSize = maxSize
	})
}

// WithReadinessTimeout bounds the initial wait for the database. Default: 10s.
func WithReadinessTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.readinessTimeout = d
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
