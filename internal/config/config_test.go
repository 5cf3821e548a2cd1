package config

import (
	"os"
	"testing"
	"time"

	"loggov/internal/governance/domain"
	"loggov/internal/governance/profile"
)

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg == nil {
		t.Fatal("Load returned nil config")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.GovernanceConfigPath != "governance.yaml" {
		t.Errorf("GovernanceConfigPath = %q, want %q", cfg.GovernanceConfigPath, "governance.yaml")
	}
	if !cfg.GovernanceEnabled {
		t.Error("GovernanceEnabled should default to true")
	}
	if cfg.GovernanceProfile != "" {
		t.Errorf("GovernanceProfile = %q, want empty", cfg.GovernanceProfile)
	}
	if cfg.GovernanceSuppressOnViolation {
		t.Error("GovernanceSuppressOnViolation should default to false")
	}
	if cfg.HookTimeout() != 5*time.Second {
		t.Errorf("HookTimeout = %v, want 5s", cfg.HookTimeout())
	}
	if cfg.ServiceName != "loggov" {
		t.Errorf("ServiceName = %q, want %q", cfg.ServiceName, "loggov")
	}
	if cfg.OTLPEndpoint != "" || cfg.LokiURL != "" {
		t.Errorf("exporters should be off by default, got otlp=%q loki=%q", cfg.OTLPEndpoint, cfg.LokiURL)
	}
}

func TestLoad_EnvVarOverride(t *testing.T) {
	os.Clearenv()
	os.Setenv("GOVERNANCE_CONFIG_PATH", "/etc/loggov/profiles.json")
	os.Setenv("GOVERNANCE_ENABLED", "false")
	os.Setenv("GOVERNANCE_PROFILE", "Orders")
	os.Setenv("GOVERNANCE_SUPPRESS_ON_VIOLATION", "true")
	os.Setenv("GOVERNANCE_HOOK_TIMEOUT", "250ms")
	os.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GovernanceConfigPath != "/etc/loggov/profiles.json" {
		t.Errorf("GovernanceConfigPath = %q", cfg.GovernanceConfigPath)
	}
	if cfg.GovernanceEnabled {
		t.Error("GovernanceEnabled should be false")
	}
	if cfg.GovernanceProfile != "Orders" {
		t.Errorf("GovernanceProfile = %q, want %q", cfg.GovernanceProfile, "Orders")
	}
	if !cfg.GovernanceSuppressOnViolation {
		t.Error("GovernanceSuppressOnViolation should be true")
	}
	if cfg.HookTimeout() != 250*time.Millisecond {
		t.Errorf("HookTimeout = %v, want 250ms", cfg.HookTimeout())
	}
	if cfg.MinLevel() != domain.LevelDebug {
		t.Errorf("MinLevel = %v, want debug", cfg.MinLevel())
	}
}

func TestLoad_Validation(t *testing.T) {
	testCases := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"unknown level", "LOG_LEVEL", "verbose", "config: LOG_LEVEL must be one of trace, debug, info, warn, error, critical"},
		{"zero timeout", "GOVERNANCE_HOOK_TIMEOUT", "0s", "config: GOVERNANCE_HOOK_TIMEOUT must be a positive duration"},
		{"negative timeout", "GOVERNANCE_HOOK_TIMEOUT", "-1s", "config: GOVERNANCE_HOOK_TIMEOUT must be a positive duration"},
		{"unparsable timeout", "GOVERNANCE_HOOK_TIMEOUT", "soon", "config: GOVERNANCE_HOOK_TIMEOUT must be a positive duration"},
		{"blank path", "GOVERNANCE_CONFIG_PATH", "   ", "config: GOVERNANCE_CONFIG_PATH must be set"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			os.Clearenv()
			os.Setenv(tc.key, tc.value)

			cfg, err := Load()
			if err == nil {
				t.Fatal("Load should return error")
			}
			if cfg != nil {
				t.Error("Load should return nil config on error")
			}
			if err.Error() != tc.wantErr {
				t.Errorf("error = %q, want %q", err.Error(), tc.wantErr)
			}
		})
	}
}

func TestHookTimeout_InvalidFallsBack(t *testing.T) {
	cfg := &Config{GovernanceHookTimeout: "invalid"}
	if got := cfg.HookTimeout(); got != 5*time.Second {
		t.Errorf("HookTimeout = %v, want 5s (default)", got)
	}
}

func TestMinLevel_InvalidFallsBack(t *testing.T) {
	cfg := &Config{LogLevel: "nope"}
	if got := cfg.MinLevel(); got != domain.LevelInfo {
		t.Errorf("MinLevel = %v, want info", got)
	}
}

func TestSettings_Merge(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     Config
		globals profile.Globals
		want    domain.Settings
	}{
		{
			name:    "document fallback used when env unset",
			cfg:     Config{GovernanceEnabled: true, GovernanceConfigPath: "g.yaml"},
			globals: profile.Globals{Enabled: true, FallbackTopic: "Orders"},
			want:    domain.Settings{Enabled: true, Profile: "Orders", ConfigPath: "g.yaml"},
		},
		{
			name:    "env profile overrides document",
			cfg:     Config{GovernanceEnabled: true, GovernanceProfile: "Payments"},
			globals: profile.Globals{Enabled: true, FallbackTopic: "Orders"},
			want:    domain.Settings{Enabled: true, Profile: "Payments"},
		},
		{
			name:    "document can disable",
			cfg:     Config{GovernanceEnabled: true},
			globals: profile.Globals{Enabled: false},
			want:    domain.Settings{Enabled: false},
		},
		{
			name:    "env can disable",
			cfg:     Config{GovernanceEnabled: false},
			globals: profile.Globals{Enabled: true},
			want:    domain.Settings{Enabled: false},
		},
		{
			name:    "suppression from either side",
			cfg:     Config{GovernanceEnabled: true},
			globals: profile.Globals{Enabled: true, SuppressOnViolation: true},
			want:    domain.Settings{Enabled: true, SuppressOnViolation: true},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.cfg.Settings(tc.globals); got != tc.want {
				t.Errorf("Settings = %+v, want %+v", got, tc.want)
			}
		})
	}
}
