package cmd

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/rohmanhakim/robots-resolver/internal/build"
	"github.com/rohmanhakim/robots-resolver/internal/config"
	"github.com/rohmanhakim/robots-resolver/internal/fetcher"
	"github.com/rohmanhakim/robots-resolver/internal/metadata"
	"github.com/rohmanhakim/robots-resolver/internal/robots"
	"github.com/rohmanhakim/robots-resolver/internal/robots/cache"
)

var (
	cfgFile              string
	targetURLs           []string
	checkPaths           []string
	userAgent            string
	agentNames           []string
	allowForbidden       bool
	timeout              time.Duration
	successCacheCapacity int
	successCacheTTL      time.Duration
	errorCacheCapacity   int
	errorCacheTTL        time.Duration
	redisAddr            string
)

// parseTargetURLs converts a string slice of URLs to []url.URL
func parseTargetURLs(urlStrings []string) ([]url.URL, error) {
	if len(urlStrings) == 0 {
		return nil, fmt.Errorf("target URLs cannot be empty")
	}

	var urls []url.URL
	for _, urlStr := range urlStrings {
		parsedURL, err := url.Parse(urlStr)
		if err != nil {
			return nil, fmt.Errorf("error parsing target URL %s: %w", urlStr, err)
		}
		if parsedURL.Scheme == "" || parsedURL.Host == "" {
			return nil, fmt.Errorf("target URL %s must be absolute (scheme and host)", urlStr)
		}
		urls = append(urls, *parsedURL)
	}
	return urls, nil
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "robots-resolver",
	Version: build.FullVersion(),
	Short:   "Resolve and cache robots.txt crawl-permission policies.",
	Long: `robots-resolver fetches, classifies, and caches the robots.txt policy
of one or more origins, then reports whether given paths may be crawled.

Resolutions are cached in two tiers: confirmed policies live in a long-TTL
success cache, transient failures in a short-TTL error cache, so a broken
origin is retried sooner than a healthy one is re-fetched.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(targetURLs) == 0 {
			fmt.Fprintf(os.Stderr, "Error: --url is required. Please provide at least one URL to resolve.\n")
			cmd.Usage()
			os.Exit(1)
		}

		parsedURLs, err := parseTargetURLs(targetURLs)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}

		cfg := InitConfig()

		recorder := metadata.NewRecorder(uuid.NewString())
		resolver := newResolver(cfg, &recorder)
		httpFetcher := fetcher.NewHTTPFetcher(cfg.UserAgent(), cfg.Timeout())

		paths := checkPaths
		if len(paths) == 0 {
			paths = []string{"/"}
		}

		ctx := context.Background()
		for _, target := range parsedURLs {
			ruleSet := resolver.Resolve(ctx, httpFetcher, target)

			source := "fetched"
			if ruleSet.FromCache() {
				source = "cached"
			}
			fmt.Printf("%s (key %s, %s)\n", target.String(), robots.OriginKey(target), source)
			if delay := ruleSet.Policy().CrawlDelay(); delay != nil {
				fmt.Printf("  crawl-delay: %v\n", *delay)
			}
			for _, sitemap := range ruleSet.Policy().Sitemaps() {
				fmt.Printf("  sitemap: %s\n", sitemap)
			}
			for _, path := range paths {
				verdict := "disallowed"
				if ruleSet.IsAllowed(path) {
					verdict = "allowed"
				}
				fmt.Printf("  %-12s %s\n", verdict, path)
			}
		}
	},
}

// newResolver wires the configured cache tiers (in-memory by default, Redis
// when an address is configured) into a Resolver.
func newResolver(cfg config.Config, sink metadata.MetadataSink) *robots.Resolver {
	var successCache, errorCache cache.Cache
	if cfg.RedisAddr() != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr()})
		successCache = cache.NewRedisCache(client, "robots:success:", cfg.SuccessCacheTTL())
		errorCache = cache.NewRedisCache(client, "robots:error:", cfg.ErrorCacheTTL())
	} else {
		successCache = cache.NewMemoryCache(cfg.SuccessCacheCapacity(), cfg.SuccessCacheTTL())
		errorCache = cache.NewMemoryCache(cfg.ErrorCacheCapacity(), cfg.ErrorCacheTTL())
	}

	return robots.NewResolver(
		successCache,
		errorCache,
		robots.NewRobotsTxtParser(),
		cfg.AgentNames(),
		cfg.AllowForbidden(),
		sink,
	)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "config file path (e.g., /home/myuser/config.json)")
	rootCmd.PersistentFlags().StringArrayVar(&targetURLs, "url", []string{}, "one or more URLs whose robots policy to resolve (can be repeated)")
	rootCmd.PersistentFlags().StringArrayVar(&checkPaths, "check-path", []string{}, "paths to test against the resolved policy, like `/private`")
	rootCmd.PersistentFlags().StringVar(&userAgent, "user-agent", "", "user agent string for HTTP requests")
	rootCmd.PersistentFlags().StringArrayVar(&agentNames, "agent-name", []string{}, "agent names to match rules against, most specific first")
	rootCmd.PersistentFlags().BoolVar(&allowForbidden, "allow-forbidden", true, "treat HTTP 403 on robots.txt as \"no rules\" instead of \"forbid all\"")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "timeout for a single robots.txt fetch")
	rootCmd.PersistentFlags().IntVar(&successCacheCapacity, "success-cache-capacity", 0, "max entries in the success cache")
	rootCmd.PersistentFlags().DurationVar(&successCacheTTL, "success-cache-ttl", 0, "time-to-live of success cache entries")
	rootCmd.PersistentFlags().IntVar(&errorCacheCapacity, "error-cache-capacity", 0, "max entries in the error cache")
	rootCmd.PersistentFlags().DurationVar(&errorCacheTTL, "error-cache-ttl", 0, "time-to-live of error cache entries")
	rootCmd.PersistentFlags().StringVar(&redisAddr, "redis-addr", "", "Redis address backing the caches (empty for in-memory)")
}

// InitConfig reads in config file and flag values.
func InitConfig() config.Config {
	cfg, err := InitConfigWithError()
	if err != nil {
		fmt.Printf("Error: %s\n", err)
		os.Exit(1)
	}
	return cfg
}

// InitConfigWithError reads in config file and flag values, returning any
// errors. This makes it easier to test error cases.
func InitConfigWithError() (config.Config, error) {
	if cfgFile != "" {
		fmt.Printf("Initializing config from file: %s\n", cfgFile)
		cfg, err := config.WithConfigFile(cfgFile)
		if err != nil {
			return cfg, fmt.Errorf("error initializing config from file: %w", err)
		}
		return cfg, nil
	}

	// Build config from CLI flags using the With... functions with method chaining
	configBuilder := config.WithDefault()

	if userAgent != "" {
		configBuilder = configBuilder.WithUserAgent(userAgent).WithAgentNames([]string{userAgent})
	}

	if len(agentNames) > 0 {
		configBuilder = configBuilder.WithAgentNames(agentNames)
	}

	configBuilder = configBuilder.WithAllowForbidden(allowForbidden)

	if timeout > 0 {
		configBuilder = configBuilder.WithTimeout(timeout)
	}

	if successCacheCapacity > 0 {
		configBuilder = configBuilder.WithSuccessCacheCapacity(successCacheCapacity)
	}

	if successCacheTTL > 0 {
		configBuilder = configBuilder.WithSuccessCacheTTL(successCacheTTL)
	}

	if errorCacheCapacity > 0 {
		configBuilder = configBuilder.WithErrorCacheCapacity(errorCacheCapacity)
	}

	if errorCacheTTL > 0 {
		configBuilder = configBuilder.WithErrorCacheTTL(errorCacheTTL)
	}

	if redisAddr != "" {
		configBuilder = configBuilder.WithRedisAddr(redisAddr)
	}

	cfg, err := configBuilder.Build()
	if err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func ResetFlags() {
	cfgFile = ""
	targetURLs = []string{}
	checkPaths = []string{}
	userAgent = ""
	agentNames = []string{}
	allowForbidden = true
	timeout = 0
	successCacheCapacity = 0
	successCacheTTL = 0
	errorCacheCapacity = 0
	errorCacheTTL = 0
	redisAddr = ""
}

// Test helper functions to set flag values from tests
func SetConfigFileForTest(path string) {
	cfgFile = path
}

func SetUserAgentForTest(agent string) {
	userAgent = agent
}

func SetAgentNamesForTest(names []string) {
	agentNames = names
}

func SetAllowForbiddenForTest(allow bool) {
	allowForbidden = allow
}

func SetTimeoutForTest(t time.Duration) {
	timeout = t
}

func SetSuccessCacheCapacityForTest(capacity int) {
	successCacheCapacity = capacity
}

func SetSuccessCacheTTLForTest(ttl time.Duration) {
	successCacheTTL = ttl
}

func SetErrorCacheCapacityForTest(capacity int) {
	errorCacheCapacity = capacity
}

func SetErrorCacheTTLForTest(ttl time.Duration) {
	errorCacheTTL = ttl
}

func SetRedisAddrForTest(addr string) {
	redisAddr = addr
}
