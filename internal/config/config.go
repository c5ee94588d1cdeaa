package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	StoreBackend string         // memory | file | redis | postgres
	DataDir      string         // directory of the file backend
	StorageKey   string         // key the state document is stored under
	Timezone     string         // IANA zone name or "Local"
	Location     *time.Location // parsed Timezone
	MidnightSkew time.Duration  // delay after local midnight before the rollover check
	DrinkCatalog string         // optional YAML catalog, empty = built-in

	// Redis (only when StoreBackend == "redis")
	RedisAddr           string        // ex: "localhost:6379"
	RedisUser           string        // optional
	RedisPassword       string        // optional
	RedisDB             int           // Redis DB number
	RedisDT             time.Duration // Redis dial timeout (ex: 5s)
	RedisRT             time.Duration // Redis read timeout (ex: 3s)
	RedisWT             time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait        time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout    time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize       int           // Redis connection pool size
	RedisConnectTimeout time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval  time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold  int           // warn after this many attempts

	// Postgres (only when StoreBackend == "postgres")
	PostgresDSN string

	CORSOrigins  []string // optional, enables CORS on the JSON API
	AllowedCIDRS []string // optional, restrict probes to specific IPs (e.g. "1.2.3.4, 10.0.0.0/8")
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
	RateBurst    int      // API token bucket size per client IP
	RatePerMin   int      // API refill per client IP per minute
}

func Load() *Config {
	// A missing .env file is fine, the environment wins anyway.
	_ = godotenv.Load()

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("SIP_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("SIP_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("SIP_LOG_LEVEL", "info"),
		PrettyLog: mustBool("SIP_PRETTY_LOG", true),

		// Tracker
		StoreBackend: strings.ToLower(getenv("SIP_STORE_BACKEND", BackendFile)),
		DataDir:      getenv("SIP_DATA_DIR", "./data"),
		StorageKey:   getenv("SIP_STORAGE_KEY", "drinkTracker.v1"),
		Timezone:     getenv("SIP_TIMEZONE", "Local"),
		MidnightSkew: mustDuration("SIP_MIDNIGHT_SKEW", 50*time.Millisecond),
		DrinkCatalog: getenv("SIP_DRINK_CATALOG", ""),

		// Redis settings
		RedisAddr:           getenv("SIP_REDIS_ADDR", ""),
		RedisUser:           getenv("SIP_REDIS_USERNAME", ""),
		RedisPassword:       getenv("SIP_REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("SIP_REDIS_DB", 0),
		RedisDT:             mustDuration("SIP_REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:             mustDuration("SIP_REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:             mustDuration("SIP_REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:        mustDuration("SIP_REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("SIP_REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:       getenvInt("SIP_REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("SIP_REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("SIP_REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:  getenvInt("SIP_REDIS_WARN_THRESHOLD", 3),

		PostgresDSN: getenv("SIP_POSTGRES_DSN", ""),

		// Access restrictions
		CORSOrigins:  splitAndTrim(getenv("SIP_CORS_ORIGINS", "")),
		AllowedCIDRS: parseAllowedIPs(getenv("SIP_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("SIP_TRUST_PROXY", false),
		RateBurst:    getenvInt("SIP_RATE_BURST", 30),
		RatePerMin:   getenvInt("SIP_RATE_PER_MIN", 120),
	}

	switch cfg.StoreBackend {
	case BackendMemory, BackendFile:
	case BackendRedis:
		cfg.RedisAddr = requireEnv("SIP_REDIS_ADDR")
	case BackendPostgres:
		cfg.PostgresDSN = requireEnv("SIP_POSTGRES_DSN")
	default:
		panic(fmt.Sprintf("❌ FATAL: Unknown SIP_STORE_BACKEND %q (memory, file, redis, postgres)", cfg.StoreBackend))
	}

	loc, err := parseLocation(cfg.Timezone)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid SIP_TIMEZONE %q: %v", cfg.Timezone, err))
	}
	cfg.Location = loc

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		if cfg.RedisPassword != "" {
			cfgCopy.RedisPassword = "***REDACTED***"
		}
		if cfg.PostgresDSN != "" {
			cfgCopy.PostgresDSN = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

// parseLocation accepts "", "Local", "UTC" or any IANA zone name.
func parseLocation(name string) (*time.Location, error) {
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
