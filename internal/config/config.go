package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	DBPath   string
	CacheDir string

	GeocoderURL       string
	GeocoderUserAgent string

	// RateLimitWindow throttles repeat submissions from this client. The
	// default mirrors the original behavior; it is a tunable heuristic.
	RateLimitWindow time.Duration

	Verbose bool
}

// Load reads the .env file and returns a populated Config struct.
// A missing .env file is fine; system env vars still apply.
func Load() *Config {
	godotenv.Load()

	return &Config{
		DBPath:   getEnv("TRAILHEAD_DB", defaultDBPath()),
		CacheDir: getEnv("TRAILHEAD_CACHE_DIR", ""),

		GeocoderURL:       getEnv("TRAILHEAD_GEOCODER_URL", ""),
		GeocoderUserAgent: getEnv("TRAILHEAD_GEOCODER_UA", ""),

		RateLimitWindow: getEnvDuration("TRAILHEAD_RATE_LIMIT", 30*time.Second),

		Verbose: getEnvBool("TRAILHEAD_VERBOSE", false),
	}
}

func defaultDBPath() string {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "trailhead.db"
	}
	return filepath.Join(cfg, "trailhead", "trailhead.db")
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		d, err := time.ParseDuration(val)
		if err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
