package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type Config struct {
	//===============
	// Agent identity
	//===============
	// User agent used in the request header of robots.txt fetches. In raw string
	userAgent string
	// Agent names the parsed rules are resolved against, in order of preference.
	// Usually the product token(s) of the crawler, most specific first.
	agentNames []string

	//===============
	// Policy
	//===============
	// Whether HTTP 403 on robots.txt is treated as "no rules" rather than
	// "forbid all"
	allowForbidden bool

	//===============
	// Fetch
	//===============
	// Maximum time of a single robots.txt fetch request
	timeout time.Duration

	//===============
	// Caching
	//===============
	// Maximum number of entries in the success cache
	successCacheCapacity int
	// Time-to-live of a success cache entry, fixed at insertion
	successCacheTTL time.Duration
	// Maximum number of entries in the error cache
	errorCacheCapacity int
	// Time-to-live of an error cache entry; conventionally much shorter than
	// the success TTL so transient failures are retried sooner
	errorCacheTTL time.Duration
	// Optional address of a Redis server backing both cache tiers.
	// Empty means in-memory caches
	redisAddr string
}

type configDTO struct {
	UserAgent            string        `json:"userAgent,omitempty"`
	AgentNames           []string      `json:"agentNames,omitempty"`
	AllowForbidden       *bool         `json:"allowForbidden,omitempty"`
	Timeout              time.Duration `json:"timeout,omitempty"`
	SuccessCacheCapacity int           `json:"successCacheCapacity,omitempty"`
	SuccessCacheTTL      time.Duration `json:"successCacheTtl,omitempty"`
	ErrorCacheCapacity   int           `json:"errorCacheCapacity,omitempty"`
	ErrorCacheTTL        time.Duration `json:"errorCacheTtl,omitempty"`
	RedisAddr            string        `json:"redisAddr,omitempty"`
}

func newConfigFromDTO(dto configDTO) (Config, error) {
	// Start with default config
	cfg, err := WithDefault().Build()
	if err != nil {
		return Config{}, err
	}

	if dto.UserAgent != "" {
		cfg.userAgent = dto.UserAgent
		cfg.agentNames = []string{dto.UserAgent}
	}
	if len(dto.AgentNames) > 0 {
		cfg.agentNames = dto.AgentNames
	}
	// AllowForbidden defaults to true, so a bare bool cannot express
	// "explicitly false"; the DTO uses a pointer instead
	if dto.AllowForbidden != nil {
		cfg.allowForbidden = *dto.AllowForbidden
	}
	if dto.Timeout != 0 {
		cfg.timeout = dto.Timeout
	}
	if dto.SuccessCacheCapacity != 0 {
		cfg.successCacheCapacity = dto.SuccessCacheCapacity
	}
	if dto.SuccessCacheTTL != 0 {
		cfg.successCacheTTL = dto.SuccessCacheTTL
	}
	if dto.ErrorCacheCapacity != 0 {
		cfg.errorCacheCapacity = dto.ErrorCacheCapacity
	}
	if dto.ErrorCacheTTL != 0 {
		cfg.errorCacheTTL = dto.ErrorCacheTTL
	}
	if dto.RedisAddr != "" {
		cfg.redisAddr = dto.RedisAddr
	}

	return cfg, nil
}

func WithConfigFile(path string) (Config, error) {
	_, err := os.Stat(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrFileDoesNotExist, err.Error())
	}
	configContent, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrReadConfigFail, err.Error())
	}
	cfgDTO := configDTO{}

	err = json.Unmarshal(configContent, &cfgDTO)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrConfigParsingFail, err.Error())
	}

	cfg, err := newConfigFromDTO(cfgDTO)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// WithDefault creates a new Config with default values for all fields.
func WithDefault() *Config {
	defaultConfig := Config{
		userAgent:            "robots-resolver/1.0",
		agentNames:           []string{"robots-resolver"},
		allowForbidden:       true,
		timeout:              time.Second * 10,
		successCacheCapacity: 10_000,
		successCacheTTL:      6 * time.Hour,
		errorCacheCapacity:   2_000,
		errorCacheTTL:        15 * time.Minute,
		redisAddr:            "",
	}
	return &defaultConfig
}

func (c *Config) WithUserAgent(agent string) *Config {
	c.userAgent = agent
	return c
}

func (c *Config) WithAgentNames(names []string) *Config {
	c.agentNames = names
	return c
}

func (c *Config) WithAllowForbidden(allow bool) *Config {
	c.allowForbidden = allow
	return c
}

func (c *Config) WithTimeout(timeout time.Duration) *Config {
	c.timeout = timeout
	return c
}

func (c *Config) WithSuccessCacheCapacity(capacity int) *Config {
	c.successCacheCapacity = capacity
	return c
}

func (c *Config) WithSuccessCacheTTL(ttl time.Duration) *Config {
	c.successCacheTTL = ttl
	return c
}

func (c *Config) WithErrorCacheCapacity(capacity int) *Config {
	c.errorCacheCapacity = capacity
	return c
}

func (c *Config) WithErrorCacheTTL(ttl time.Duration) *Config {
	c.errorCacheTTL = ttl
	return c
}

func (c *Config) WithRedisAddr(addr string) *Config {
	c.redisAddr = addr
	return c
}

func (c *Config) Build() (Config, error) {
	if c.userAgent == "" {
		return Config{}, fmt.Errorf("%w: userAgent cannot be empty", ErrInvalidConfig)
	}
	// Agent names default to the user agent so rule matching always has a
	// name to resolve against
	if len(c.agentNames) == 0 {
		c.agentNames = []string{c.userAgent}
	}
	if c.successCacheCapacity < 1 {
		return Config{}, fmt.Errorf("%w: successCacheCapacity must be positive", ErrInvalidConfig)
	}
	if c.errorCacheCapacity < 1 {
		return Config{}, fmt.Errorf("%w: errorCacheCapacity must be positive", ErrInvalidConfig)
	}
	if c.successCacheTTL <= 0 {
		return Config{}, fmt.Errorf("%w: successCacheTtl must be positive", ErrInvalidConfig)
	}
	if c.errorCacheTTL <= 0 {
		return Config{}, fmt.Errorf("%w: errorCacheTtl must be positive", ErrInvalidConfig)
	}
	if c.timeout <= 0 {
		return Config{}, fmt.Errorf("%w: timeout must be positive", ErrInvalidConfig)
	}

	return *c, nil
}

func (c Config) UserAgent() string {
	return c.userAgent
}

func (c Config) AgentNames() []string {
	names := make([]string, len(c.agentNames))
	copy(names, c.agentNames)
	return names
}

func (c Config) AllowForbidden() bool {
	return c.allowForbidden
}

func (c Config) Timeout() time.Duration {
	return c.timeout
}

func (c Config) SuccessCacheCapacity() int {
	return c.successCacheCapacity
}

func (c Config) SuccessCacheTTL() time.Duration {
	return c.successCacheTTL
}

func (c Config) ErrorCacheCapacity() int {
	return c.errorCacheCapacity
}

func (c Config) ErrorCacheTTL() time.Duration {
	return c.errorCacheTTL
}

func (c Config) RedisAddr() string {
	return c.redisAddr
}
