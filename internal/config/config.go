package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Local HTTP server
	Port string

	// Remote expense API
	APIBaseURL            string
	AuthorizeCategoryList bool

	// Token persistence
	TokenDBPath string

	// Summary cache
	CacheTTL       time.Duration
	CacheSize      int
	CleanupEvery   time.Duration
	RequestTimeout time.Duration

	// Backend selection
	DataBackend string
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8099"),

		APIBaseURL:            getEnv("API_BASE_URL", ""),
		AuthorizeCategoryList: getEnvBool("API_AUTH_CATEGORY_LIST", true),

		TokenDBPath: getEnv("TOKEN_DB_PATH", "./data/gider.db"),

		CacheTTL:       getEnvDuration("CACHE_TTL", 2*time.Minute),
		CacheSize:      getEnvInt("CACHE_SIZE", 64),
		CleanupEvery:   getEnvDuration("CACHE_CLEANUP_INTERVAL", time.Minute),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),

		DataBackend: getEnv("DATA_BACKEND", "remote"),
	}
}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.DataBackend {
	case "remote":
		if c.APIBaseURL == "" {
			errs = append(errs, "API_BASE_URL is required when using the remote backend")
		} else if u, err := url.Parse(c.APIBaseURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid API base URL '%s': %v", c.APIBaseURL, err))
		} else if u.Scheme != "http" && u.Scheme != "https" {
			errs = append(errs, fmt.Sprintf("invalid API base URL scheme '%s': must be 'http' or 'https'", u.Scheme))
		}
	case "memory":
	default:
		errs = append(errs, fmt.Sprintf("invalid data backend '%s': must be one of [remote memory]", c.DataBackend))
	}

	if c.TokenDBPath == "" {
		errs = append(errs, "token database path cannot be empty")
	}

	if c.CacheTTL < time.Second {
		errs = append(errs, fmt.Sprintf("invalid cache TTL %v: must be at least 1 second", c.CacheTTL))
	}
	if c.CacheSize < 1 {
		errs = append(errs, fmt.Sprintf("invalid cache size %d: must be at least 1", c.CacheSize))
	}
	if c.CleanupEvery < time.Second {
		errs = append(errs, fmt.Sprintf("invalid cache cleanup interval %v: must be at least 1 second", c.CleanupEvery))
	}
	if c.RequestTimeout < time.Second || c.RequestTimeout > 5*time.Minute {
		errs = append(errs, fmt.Sprintf("invalid request timeout %v: must be between 1 second and 5 minutes", c.RequestTimeout))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
