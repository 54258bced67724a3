package config

import (
	"errors"
	"net/url"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"

	"github.com/couchcryptid/cme-arrival-service/internal/domain"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// OMNI solar-wind archive.
	OMNIBaseURL           string
	OMNIFetchTimeout      time.Duration
	OMNICacheSize         int
	OMNIRequestsPerSecond float64
	AveragingHours        int

	// Training and features.
	CatalogSource      string
	EnginePath         string
	FeatureProfilePath string
	FeatureProfile     string
	Features           domain.FeatureRequest

	// Optional Kafka publishing of predictions.
	KafkaBrokers         []string
	KafkaPredictionTopic string
	PublishEnabled       bool
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	fetchTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("OMNI_FETCH_TIMEOUT", "30s"))
	if err != nil || fetchTimeout <= 0 {
		return nil, errors.New("invalid OMNI_FETCH_TIMEOUT")
	}

	cacheSize, err := strconv.Atoi(sharedcfg.EnvOrDefault("OMNI_CACHE_SIZE", "8"))
	if err != nil || cacheSize < 1 {
		return nil, errors.New("invalid OMNI_CACHE_SIZE: must be a positive integer")
	}

	rps, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("OMNI_REQUESTS_PER_SECOND", "2"), 64)
	if err != nil || rps <= 0 {
		return nil, errors.New("invalid OMNI_REQUESTS_PER_SECOND: must be positive")
	}

	averagingHours, err := strconv.Atoi(sharedcfg.EnvOrDefault("AVERAGING_HOURS", strconv.Itoa(domain.DefaultAveragingHours)))
	if err != nil || averagingHours < 1 || averagingHours > 48 {
		return nil, errors.New("invalid AVERAGING_HOURS: must be 1-48")
	}

	baseURL := sharedcfg.EnvOrDefault("OMNI_BASE_URL", "https://spdf.gsfc.nasa.gov/pub/data/omni/low_res_omni")
	if !validBaseURL(baseURL) {
		return nil, errors.New("invalid OMNI_BASE_URL: want an http(s) or file URL")
	}

	brokers := sharedcfg.ParseBrokers(os.Getenv("KAFKA_BROKERS"))

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		OMNIBaseURL:           baseURL,
		OMNIFetchTimeout:      fetchTimeout,
		OMNICacheSize:         cacheSize,
		OMNIRequestsPerSecond: rps,
		AveragingHours:        averagingHours,

		CatalogSource:      os.Getenv("CME_CATALOG_SOURCE"),
		EnginePath:         os.Getenv("ENGINE_PATH"),
		FeatureProfilePath: os.Getenv("FEATURE_PROFILE_PATH"),
		FeatureProfile:     sharedcfg.EnvOrDefault("FEATURE_PROFILE", DefaultProfileName),

		KafkaBrokers:         brokers,
		KafkaPredictionTopic: sharedcfg.EnvOrDefault("KAFKA_PREDICTION_TOPIC", "cme-arrival-predictions"),
		PublishEnabled:       len(brokers) > 0,
	}

	features, err := ResolveFeatures(cfg.FeatureProfilePath, cfg.FeatureProfile)
	if err != nil {
		return nil, err
	}
	cfg.Features = features

	return cfg, nil
}

func validBaseURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	switch u.Scheme {
	case "http", "https":
		return u.Host != ""
	case "file":
		return u.Path != ""
	default:
		return false
	}
}
