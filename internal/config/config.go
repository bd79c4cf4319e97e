package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config contains all runtime settings for the screening service.
type Config struct {
	BindAddr                 string
	ShutdownTimeout          time.Duration
	SessionInactivityTimeout time.Duration
	MetricsNamespace         string

	AllowAnyOrigin bool

	// ScreeningDomain is the placement vertical named in the system prompt.
	ScreeningDomain string

	CompleterMode         string
	GeminiAPIKey          string
	GeminiModel           string
	CompletionMaxAttempts int
	CompletionBackoffBase time.Duration

	ClassifierMode string
	InferenceURL   string
	InferenceToken string
	SentimentModel string
	NERModel       string

	EncryptionKeyPath string
	SQLitePath        string
	DatabaseURL       string
}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	cfg := Config{
		BindAddr:              envOrDefault("APP_BIND_ADDR", ":8080"),
		MetricsNamespace:      envOrDefault("APP_METRICS_NAMESPACE", "screener"),
		AllowAnyOrigin:        false,
		ScreeningDomain:       envOrDefault("SCREENING_DOMAIN", "technology"),
		CompleterMode:         envOrDefault("COMPLETER_MODE", "auto"),
		GeminiAPIKey:          stringsTrimSpace("GEMINI_API_KEY"),
		GeminiModel:           envOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),
		CompletionMaxAttempts: 3,
		CompletionBackoffBase: time.Second,
		ClassifierMode:        envOrDefault("CLASSIFIER_MODE", "auto"),
		InferenceURL:          stringsTrimSpace("INFERENCE_API_URL"),
		InferenceToken:        stringsTrimSpace("INFERENCE_API_TOKEN"),
		SentimentModel:        stringsTrimSpace("SENTIMENT_MODEL_ID"),
		NERModel:              stringsTrimSpace("NER_MODEL_ID"),
		EncryptionKeyPath:     envOrDefault("ENCRYPTION_KEY_PATH", "secret.key"),
		SQLitePath:            envOrDefault("SQLITE_PATH", "candidates.db"),
		DatabaseURL:           stringsTrimSpace("DATABASE_URL"),

		ShutdownTimeout:          15 * time.Second,
		SessionInactivityTimeout: 30 * time.Minute,
	}

	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.SessionInactivityTimeout, err = durationFromEnv("APP_SESSION_INACTIVITY_TIMEOUT", cfg.SessionInactivityTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.CompletionBackoffBase, err = durationFromEnv("COMPLETION_BACKOFF_BASE", cfg.CompletionBackoffBase)
	if err != nil {
		return Config{}, err
	}
	cfg.CompletionMaxAttempts, err = intFromEnv("COMPLETION_MAX_ATTEMPTS", cfg.CompletionMaxAttempts)
	if err != nil {
		return Config{}, err
	}
	cfg.AllowAnyOrigin, err = boolFromEnv("APP_ALLOW_ANY_ORIGIN", cfg.AllowAnyOrigin)
	if err != nil {
		return Config{}, err
	}

	if cfg.SessionInactivityTimeout < 5*time.Second {
		return Config{}, fmt.Errorf("APP_SESSION_INACTIVITY_TIMEOUT must be at least 5s")
	}
	if cfg.CompletionMaxAttempts <= 0 {
		return Config{}, fmt.Errorf("COMPLETION_MAX_ATTEMPTS must be positive")
	}
	if cfg.CompletionBackoffBase <= 0 {
		return Config{}, fmt.Errorf("COMPLETION_BACKOFF_BASE must be positive")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func stringsTrimSpace(key string) string {
	return trimSpace(os.Getenv(key))
}

func trimSpace(v string) string {
	for len(v) > 0 && (v[0] == ' ' || v[0] == '\n' || v[0] == '\t' || v[0] == '\r') {
		v = v[1:]
	}
	for len(v) > 0 {
		c := v[len(v)-1]
		if c == ' ' || c == '\n' || c == '\t' || c == '\r' {
			v = v[:len(v)-1]
			continue
		}
		break
	}
	return v
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s parse error: %w", key, err)
	}
	return b, nil
}
