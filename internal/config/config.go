package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/AndiJegeni/cuemusic/internal/domain/search/query"
)

// Config holds the cuemusic API configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Quota    QuotaConfig    `yaml:"quota"`
	Search   SearchConfig   `yaml:"search"`
	Sounds   SoundsConfig   `yaml:"sounds"`
	Import   ImportConfig   `yaml:"import"`
	Storage  StorageConfig  `yaml:"storage"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds bearer token authentication settings.
// No tokens means authentication is disabled.
type AuthConfig struct {
	Tokens      []TokenConfig `yaml:"tokens"`
	AdminEmails []string      `yaml:"admin_emails"`
}

// TokenConfig binds a bearer token to a user.
type TokenConfig struct {
	Token   string `yaml:"token"`
	UserID  string `yaml:"user_id"`
	Email   string `yaml:"email"`
	Premium bool   `yaml:"premium"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // redis, valkey (default: redis)
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// QuotaConfig holds the free-tier search limits.
type QuotaConfig struct {
	FreeDailySearches   int64  `yaml:"free_daily_searches"`   // 0 = no daily cap
	FreeMonthlySearches int64  `yaml:"free_monthly_searches"` // default 15
	Action              string `yaml:"action"`                // "reject" (default) | "warn"
	UpgradeURL          string `yaml:"upgrade_url"`
	DailyTTLHours       int    `yaml:"daily_ttl_hours"`
	MonthlyTTLDays      int    `yaml:"monthly_ttl_days"`
}

// SearchConfig holds ranking settings.
type SearchConfig struct {
	BPMTolerance   int `yaml:"bpm_tolerance"`
	MaxQueryLength int `yaml:"max_query_length"`
}

// SoundsConfig holds listing settings.
type SoundsConfig struct {
	DefaultPageSize int `yaml:"default_page_size"`
	MaxPageSize     int `yaml:"max_page_size"`
}

// ImportConfig holds audio import settings.
type ImportConfig struct {
	MaxUploadMB int    `yaml:"max_upload_mb"`
	SpoolDir    string `yaml:"spool_dir"` // "" = os.TempDir()
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes YAML, expands ${VAR} references, applies defaults and validates.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "redis"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Quota.FreeMonthlySearches <= 0 {
		c.Quota.FreeMonthlySearches = 15
	}
	if c.Quota.Action == "" {
		c.Quota.Action = "reject"
	}
	if c.Quota.DailyTTLHours <= 0 {
		c.Quota.DailyTTLHours = 48
	}
	if c.Quota.MonthlyTTLDays <= 0 {
		c.Quota.MonthlyTTLDays = 62
	}
	if c.Search.BPMTolerance <= 0 {
		c.Search.BPMTolerance = 5
	}
	if c.Search.MaxQueryLength <= 0 {
		c.Search.MaxQueryLength = 256
	}
	if c.Sounds.DefaultPageSize <= 0 {
		c.Sounds.DefaultPageSize = 20
	}
	if c.Sounds.MaxPageSize <= 0 {
		c.Sounds.MaxPageSize = 100
	}
	if c.Import.MaxUploadMB <= 0 {
		c.Import.MaxUploadMB = 32
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "cuemusic:"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Database.Driver {
	case "redis", "valkey":
	default:
		return fmt.Errorf("database.driver must be \"redis\" or \"valkey\", got %q", c.Database.Driver)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	switch c.Quota.Action {
	case "warn", "reject":
	default:
		return fmt.Errorf("quota.action must be \"warn\" or \"reject\", got %q", c.Quota.Action)
	}
	if c.Quota.FreeDailySearches < 0 {
		return fmt.Errorf("quota.free_daily_searches must not be negative, got %d", c.Quota.FreeDailySearches)
	}
	if c.Search.MaxQueryLength > query.MaxQueryLength {
		return fmt.Errorf("search.max_query_length must not exceed %d, got %d",
			query.MaxQueryLength, c.Search.MaxQueryLength)
	}
	if c.Sounds.DefaultPageSize > c.Sounds.MaxPageSize {
		return fmt.Errorf("sounds.default_page_size (%d) exceeds sounds.max_page_size (%d)",
			c.Sounds.DefaultPageSize, c.Sounds.MaxPageSize)
	}

	seen := make(map[string]struct{}, len(c.Auth.Tokens))
	for i, t := range c.Auth.Tokens {
		if t.Token == "" {
			continue
		}
		if t.UserID == "" {
			return fmt.Errorf("auth.tokens[%d].user_id is required", i)
		}
		if _, dup := seen[t.Token]; dup {
			return fmt.Errorf("auth.tokens[%d]: duplicate token", i)
		}
		seen[t.Token] = struct{}{}
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
