package config

import (
	"fmt"
	"net/netip"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Session store backends.
const (
	StoreCookie   = "cookie"
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// Config holds the application configuration
type Config struct {
	Addr string
	Env  string

	// Bookstore API
	APIURL        string
	AuthHeader    string
	APITimeout    time.Duration
	APIRPS        float64
	APIMaxRetries int

	// Session persistence
	SessionStore  string
	SessionTTL    time.Duration
	CookieSecure  bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	DatabaseURL   string

	// Login/register throttling, per client IP
	LoginRPS   float64
	LoginBurst int
	// Proxies allowed to name the client in X-Forwarded-For
	TrustedProxies []netip.Prefix

	LogLevel string
}

func (c *Config) Development() bool { return c.Env == "development" }

// LoadEnvFiles loads .env then .env.local. Variables already set in the
// process environment win.
func LoadEnvFiles() {
	for _, f := range []string{".env", ".env.local"} {
		_ = godotenv.Load(f)
	}
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	config := &Config{
		Addr:         getEnv("APP_ADDR", ":8080"),
		Env:          getEnv("APP_ENV", "production"),
		APIURL:       strings.TrimRight(getEnv("API_URL", "http://localhost:3000"), "/"),
		AuthHeader:   getEnv("AUTH_HEADER", "x-auth-token"),
		SessionStore: strings.ToLower(getEnv("SESSION_STORE", StoreCookie)),
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		// Password is optional, can be empty
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		DatabaseURL:   os.Getenv("DB_DSN"),
		LogLevel:      strings.ToLower(getEnv("LOG_LEVEL", "info")),
	}

	u, err := url.Parse(config.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid API_URL: %q", config.APIURL)
	}

	if config.APITimeout, err = durationEnv("API_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if config.SessionTTL, err = durationEnv("SESSION_TTL", 720*time.Hour); err != nil {
		return nil, err
	}
	if config.APIRPS, err = floatEnv("API_RPS", 20); err != nil {
		return nil, err
	}
	if config.LoginRPS, err = floatEnv("LOGIN_RPS", 1); err != nil {
		return nil, err
	}
	if config.LoginRPS == 0 {
		return nil, fmt.Errorf("invalid LOGIN_RPS: must be greater than 0")
	}
	if config.APIMaxRetries, err = intEnv("API_MAX_RETRIES", 2); err != nil {
		return nil, err
	}
	if config.LoginBurst, err = intEnv("LOGIN_BURST", 5); err != nil {
		return nil, err
	}
	if config.RedisDB, err = intEnv("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if config.CookieSecure, err = boolEnv("COOKIE_SECURE", false); err != nil {
		return nil, err
	}
	if config.TrustedProxies, err = prefixesEnv("TRUSTED_PROXIES"); err != nil {
		return nil, err
	}

	switch config.SessionStore {
	case StoreCookie, StoreMemory, StoreRedis:
	case StorePostgres:
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DB_DSN is required when SESSION_STORE is postgres")
		}
	default:
		return nil, fmt.Errorf("invalid SESSION_STORE: %q", config.SessionStore)
	}

	switch config.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid LOG_LEVEL: %q", config.LogLevel)
	}

	return config, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return d, nil
}

func floatEnv(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return f, nil
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return n, nil
}

// prefixesEnv parses a comma-separated list of CIDRs or single addresses.
func prefixesEnv(key string) ([]netip.Prefix, error) {
	var out []netip.Prefix
	for _, item := range strings.Split(os.Getenv(key), ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if p, err := netip.ParsePrefix(item); err == nil {
			out = append(out, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(item)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %q", key, item)
		}
		addr = addr.Unmap()
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}

func boolEnv(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %q", key, v)
	}
	return b, nil
}
