package config

import (
	"errors"
	"net"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// ReferenceNow is the REFERENCE_TIME value that makes time windows end at
// the current wall-clock time instead of a fixed instant.
const ReferenceNow = "now"

// Config holds all service settings, populated from environment variables.
type Config struct {
	Host            string
	Port            string
	HTTPAddr        string
	Debug           bool
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Dataset and dashboard configuration.
	DataPath      string
	ReferenceTime time.Time // zero when LiveReference is set
	LiveReference bool
	HistogramBins int
	ViewCacheSize int // 0 disables the rendered-view cache

	// API rate limiting. RateLimitRPS <= 0 disables the limiter.
	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	debug, err := parseBool("DEBUG", sharedcfg.EnvOrDefault("DEBUG", "false"))
	if err != nil {
		return nil, err
	}

	refStr := strings.TrimSpace(sharedcfg.EnvOrDefault("REFERENCE_TIME", "2025-05-29T00:00:00Z"))
	var refTime time.Time
	live := strings.EqualFold(refStr, ReferenceNow)
	if !live {
		refTime, err = time.Parse(time.RFC3339, refStr)
		if err != nil {
			return nil, errors.New("invalid REFERENCE_TIME: want RFC 3339 or \"now\"")
		}
		refTime = refTime.UTC()
	}

	bins, err := strconv.Atoi(sharedcfg.EnvOrDefault("HISTOGRAM_BINS", "20"))
	if err != nil || bins <= 0 || bins > 200 {
		return nil, errors.New("invalid HISTOGRAM_BINS: want an integer in 1..200")
	}

	cacheSize, err := strconv.Atoi(sharedcfg.EnvOrDefault("VIEW_CACHE_SIZE", "64"))
	if err != nil || cacheSize < 0 {
		return nil, errors.New("invalid VIEW_CACHE_SIZE")
	}

	rps, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("RATE_LIMIT_RPS", "20"), 64)
	if err != nil || rps < 0 {
		return nil, errors.New("invalid RATE_LIMIT_RPS")
	}

	burst, err := strconv.Atoi(sharedcfg.EnvOrDefault("RATE_LIMIT_BURST", "40"))
	if err != nil || burst < 0 {
		return nil, errors.New("invalid RATE_LIMIT_BURST")
	}

	cfg := &Config{
		Host:            sharedcfg.EnvOrDefault("HOST", "0.0.0.0"),
		Port:            sharedcfg.EnvOrDefault("PORT", "8080"),
		Debug:           debug,
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		DataPath:      sharedcfg.EnvOrDefault("DATA_PATH", "earthquakes_last30d.csv"),
		ReferenceTime: refTime,
		LiveReference: live,
		HistogramBins: bins,
		ViewCacheSize: cacheSize,

		RateLimitRPS:   rps,
		RateLimitBurst: burst,
	}

	if cfg.Debug {
		cfg.LogLevel = "debug"
	}
	if _, err := strconv.ParseUint(cfg.Port, 10, 16); err != nil {
		return nil, errors.New("invalid PORT")
	}
	if cfg.DataPath == "" {
		return nil, errors.New("DATA_PATH is required")
	}
	if cfg.RateLimitRPS > 0 && cfg.RateLimitBurst == 0 {
		return nil, errors.New("RATE_LIMIT_BURST must be positive when RATE_LIMIT_RPS is set")
	}
	cfg.HTTPAddr = net.JoinHostPort(cfg.Host, cfg.Port)

	return cfg, nil
}

func parseBool(name, value string) (bool, error) {
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false, errors.New("invalid " + name)
	}
	return b, nil
}
