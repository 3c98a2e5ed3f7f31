package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	APIPort  string
	LogLevel string

	TemplateDir string
	RiskDataDir string
	OutputDir   string

	UploadMaxMB       int
	APIRateLimitRPS   float64
	APIRateLimitBurst int
	APIMaxInFlight    int
	APIMaxConnections int

	ConventionShowSummer         bool
	ConventionShareRateWeighting bool

	SessionTTLMinutes int

	StorageRetryAttempts  int
	StorageBreakerEnabled bool
}

// Load reads settings from the environment. When CONFIG_FILE names a YAML
// file of KEY: value pairs, its values are used for keys the environment
// leaves unset.
func Load() (Config, error) {
	src := source{}
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		overlay, err := readOverlay(path)
		if err != nil {
			return Config{}, err
		}
		src.overlay = overlay
	}

	return Config{
		APIPort:  src.mustEnv("API_PORT", "8080"),
		LogLevel: src.mustEnv("LOG_LEVEL", "info"),

		TemplateDir: src.mustEnv("TEMPLATE_DIR", "./data/templates"),
		RiskDataDir: src.mustEnv("RISK_DATA_DIR", "./data/risk"),
		OutputDir:   src.mustEnv("OUTPUT_DIR", "./data/out"),

		UploadMaxMB:       src.mustEnvInt("UPLOAD_MAX_MB", 20),
		APIRateLimitRPS:   src.mustEnvFloat("API_RATE_LIMIT_RPS", 20),
		APIRateLimitBurst: src.mustEnvInt("API_RATE_LIMIT_BURST", 40),
		APIMaxInFlight:    src.mustEnvInt("API_MAX_IN_FLIGHT", 16),
		APIMaxConnections: src.mustEnvInt("API_MAX_CONNECTIONS", 256),

		ConventionShowSummer:         src.mustEnvBool("CONVENTION_SHOW_SUMMER", true),
		ConventionShareRateWeighting: src.mustEnvBool("CONVENTION_SHARE_RATE_WEIGHTING", false),

		SessionTTLMinutes: src.mustEnvInt("SESSION_TTL_MINUTES", 120),

		StorageRetryAttempts:  src.mustEnvInt("STORAGE_RETRY_ATTEMPTS", 3),
		StorageBreakerEnabled: src.mustEnvBool("STORAGE_BREAKER_ENABLED", true),
	}, nil
}

func readOverlay(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if v != nil {
			out[k] = fmt.Sprint(v)
		}
	}
	return out, nil
}

type source struct {
	overlay map[string]string
}

func (s source) lookup(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return s.overlay[key]
}

func (s source) mustEnv(key, fallback string) string {
	v := s.lookup(key)
	if v == "" {
		return fallback
	}
	return v
}

func (s source) mustEnvInt(key string, fallback int) int {
	v := s.lookup(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func (s source) mustEnvFloat(key string, fallback float64) float64 {
	v := s.lookup(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func (s source) mustEnvBool(key string, fallback bool) bool {
	v := s.lookup(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}
