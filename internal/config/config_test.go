package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"GEMINI_API_KEY", "NETRA_LLM_BACKEND", "NETRA_LLM_MODEL", "OLLAMA_HOST",
		"ESA_USERNAME", "ESA_PASSWORD",
		"EODAG__COPERNICUS_DATASPACE__AUTH__CREDENTIALS__USERNAME",
		"EODAG__COPERNICUS_DATASPACE__AUTH__CREDENTIALS__PASSWORD",
		"BHOONIDHI_USER", "BHOONIDHI_PASS", "BHOONIDHI_SIMULATION",
		"NETRA_PROVIDER_PRIORITY", "NETRA_ESA_RESULT_LIMIT",
		"NETRA_LLM_TIMEOUT_SECS", "ESA_TIMEOUT_SECS", "ESA_BASE_URL", "ESA_AUTH_URL",
		"ESA_PRODUCT_TYPE", "BHOONIDHI_BASE_URL",
		"BHOONIDHI_LOGIN_TIMEOUT_SECS", "BHOONIDHI_SEARCH_TIMEOUT_SECS",
	} {
		t.Setenv(k, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg := FromEnv()
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("empty environment should give defaults (-want +got):\n%s", diff)
	}
	if cfg.ESA.ResultLimit != 3 {
		t.Errorf("ESA result limit = %d, want 3", cfg.ESA.ResultLimit)
	}
	if !cfg.Bhoonidhi.Simulation {
		t.Error("Bhoonidhi should default to simulation mode")
	}
}

func TestFromEnvCredentials(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "key-123")
	t.Setenv("EODAG__COPERNICUS_DATASPACE__AUTH__CREDENTIALS__USERNAME", "esa@example.com")
	t.Setenv("EODAG__COPERNICUS_DATASPACE__AUTH__CREDENTIALS__PASSWORD", "secret")
	t.Setenv("BHOONIDHI_USER", "isro")
	t.Setenv("BHOONIDHI_PASS", "pw")
	t.Setenv("BHOONIDHI_SIMULATION", "false")
	t.Setenv("NETRA_PROVIDER_PRIORITY", "ISRO, esa")

	cfg := FromEnv()
	if cfg.LLM.APIKey != "key-123" {
		t.Errorf("APIKey = %q", cfg.LLM.APIKey)
	}
	if cfg.ESA.Username != "esa@example.com" || cfg.ESA.Password != "secret" {
		t.Errorf("ESA credentials not taken from eodag-style keys: %+v", cfg.ESA)
	}
	if cfg.Bhoonidhi.Username != "isro" || cfg.Bhoonidhi.Password != "pw" || cfg.Bhoonidhi.Simulation {
		t.Errorf("unexpected Bhoonidhi config: %+v", cfg.Bhoonidhi)
	}
	if diff := cmp.Diff([]string{"isro", "esa"}, cfg.ProviderPriority); diff != "" {
		t.Errorf("priority (-want +got):\n%s", diff)
	}
}

func TestBhoonidhiTimeouts(t *testing.T) {
	clearEnv(t)
	t.Setenv("BHOONIDHI_LOGIN_TIMEOUT_SECS", "3")
	t.Setenv("BHOONIDHI_SEARCH_TIMEOUT_SECS", "45")

	cfg := FromEnv()
	if cfg.Bhoonidhi.LoginTimeout != 3*time.Second || cfg.Bhoonidhi.SearchTimeout != 45*time.Second {
		t.Errorf("env timeouts not applied: %+v", cfg.Bhoonidhi)
	}

	path := filepath.Join(t.TempDir(), "netra.toml")
	content := `
[bhoonidhi]
login_timeout_secs = 7
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Bhoonidhi.LoginTimeout != 7*time.Second {
		t.Errorf("login timeout = %v, want 7s", cfg.Bhoonidhi.LoginTimeout)
	}
	if cfg.Bhoonidhi.SearchTimeout != 45*time.Second {
		t.Errorf("search timeout = %v, want env value 45s", cfg.Bhoonidhi.SearchTimeout)
	}
}

func TestLoadOverlaysFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "netra.toml")
	content := `
provider_priority = ["esa"]

[llm]
backend = "ollama"
model = "llama3"

[esa]
result_limit = 5

[bhoonidhi]
simulated_delay_ms = 0
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LLM.Backend != "ollama" || cfg.LLM.Model != "llama3" {
		t.Errorf("llm overlay not applied: %+v", cfg.LLM)
	}
	if cfg.ESA.ResultLimit != 5 {
		t.Errorf("result limit = %d, want 5", cfg.ESA.ResultLimit)
	}
	if cfg.Bhoonidhi.SimulatedDelay != 0 {
		t.Errorf("simulated delay = %v, want 0", cfg.Bhoonidhi.SimulatedDelay)
	}
	// Keys absent from the file keep their defaults.
	if cfg.ESA.ProductType != "S2MSI1C" || cfg.LLM.Timeout != 20*time.Second {
		t.Errorf("defaults overwritten: %+v %+v", cfg.ESA, cfg.LLM)
	}
	if diff := cmp.Diff([]string{"esa"}, cfg.ProviderPriority); diff != "" {
		t.Errorf("priority (-want +got):\n%s", diff)
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{name: "Defaults", mutate: func(*Config) {}},
		{name: "Unknown backend", mutate: func(c *Config) { c.LLM.Backend = "gpt" }, expectError: true},
		{name: "Negative limit", mutate: func(c *Config) { c.ESA.ResultLimit = -1 }, expectError: true},
		{name: "Unknown provider", mutate: func(c *Config) { c.ProviderPriority = []string{"usgs"} }, expectError: true},
		{name: "Duplicate provider", mutate: func(c *Config) { c.ProviderPriority = []string{"esa", "esa"} }, expectError: true},
		{name: "No providers", mutate: func(c *Config) { c.ProviderPriority = nil }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.expectError && err == nil {
				t.Error("Expected an error, but got nil")
			}
			if !tc.expectError && err != nil {
				t.Errorf("Did not expect an error, but got: %v", err)
			}
		})
	}
}
