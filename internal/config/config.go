// Package config loads and validates process config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"

	"loggov/internal/governance/domain"
	"loggov/internal/governance/profile"
)

// Config holds process configuration loaded from the environment.
// Profile documents are not read through Viper: it lowercases keys and topics are case-sensitive.
type Config struct {
	// Env is the application environment (e.g. "development", "production"). Development selects console output.
	Env string `mapstructure:"APP_ENV"`
	// LogLevel is the minimum level the console sink forwards (trace, debug, info, warn, error, critical).
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// GovernanceConfigPath is the profile document (JSON or YAML).
	GovernanceConfigPath string `mapstructure:"GOVERNANCE_CONFIG_PATH"`
	// GovernanceEnabled is the master switch; AND-ed with the document's enabled flag.
	GovernanceEnabled bool `mapstructure:"GOVERNANCE_ENABLED"`
	// GovernanceProfile is the fallback topic for unbound callers. Overrides the document's fallbackTopic when set.
	GovernanceProfile string `mapstructure:"GOVERNANCE_PROFILE"`
	// GovernanceSuppressOnViolation drops violating events; OR-ed with the document's suppressOnViolation.
	GovernanceSuppressOnViolation bool `mapstructure:"GOVERNANCE_SUPPRESS_ON_VIOLATION"`
	// GovernanceHookTimeout bounds each violation-hook invocation (e.g. "5s").
	GovernanceHookTimeout string `mapstructure:"GOVERNANCE_HOOK_TIMEOUT"`

	// OTLPEndpoint is the OTLP gRPC collector (e.g. http://localhost:4317). Empty keeps telemetry in-process.
	OTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	// OTLPInsecure forces plaintext for https endpoints.
	OTLPInsecure bool `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`
	// ServiceName is the OTel service.name resource attribute.
	ServiceName string `mapstructure:"OTEL_SERVICE_NAME"`

	// LokiURL is the Loki base URL (e.g. http://localhost:3100). When set, records are also pushed to Loki.
	LokiURL string `mapstructure:"LOKI_URL"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("GOVERNANCE_CONFIG_PATH", "governance.yaml")
	v.SetDefault("GOVERNANCE_ENABLED", true)
	v.SetDefault("GOVERNANCE_PROFILE", "")
	v.SetDefault("GOVERNANCE_SUPPRESS_ON_VIOLATION", false)
	v.SetDefault("GOVERNANCE_HOOK_TIMEOUT", "5s")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", false)
	v.SetDefault("OTEL_SERVICE_NAME", "loggov")
	v.SetDefault("LOKI_URL", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.GovernanceConfigPath = strings.TrimSpace(cfg.GovernanceConfigPath)
	if cfg.GovernanceConfigPath == "" {
		return nil, errors.New("config: GOVERNANCE_CONFIG_PATH must be set")
	}
	if _, ok := domain.ParseLevel(cfg.LogLevel); !ok {
		return nil, errors.New("config: LOG_LEVEL must be one of trace, debug, info, warn, error, critical")
	}
	d, err := time.ParseDuration(cfg.GovernanceHookTimeout)
	if err != nil || d <= 0 {
		return nil, errors.New("config: GOVERNANCE_HOOK_TIMEOUT must be a positive duration")
	}

	return &cfg, nil
}

// HookTimeout parses GovernanceHookTimeout. Returns 5s if unset or invalid.
func (c *Config) HookTimeout() time.Duration {
	d, err := time.ParseDuration(c.GovernanceHookTimeout)
	if err != nil || d <= 0 {
		return 5 * time.Second
	}
	return d
}

// MinLevel parses LogLevel. Returns info if unset or invalid.
func (c *Config) MinLevel() domain.Level {
	l, _ := domain.ParseLevel(c.LogLevel)
	return l
}

// Settings merges process config with the loaded document's globals: enabled requires both,
// a non-empty GOVERNANCE_PROFILE wins over fallbackTopic, suppression is on if either asks for it.
func (c *Config) Settings(g profile.Globals) domain.Settings {
	fallback := strings.TrimSpace(c.GovernanceProfile)
	if fallback == "" {
		fallback = g.FallbackTopic
	}
	return domain.Settings{
		Enabled:             c.GovernanceEnabled && g.Enabled,
		Profile:             fallback,
		ConfigPath:          c.GovernanceConfigPath,
		SuppressOnViolation: c.GovernanceSuppressOnViolation || g.SuppressOnViolation,
	}
}
