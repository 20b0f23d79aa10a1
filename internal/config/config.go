package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	ProviderESA  = "esa"
	ProviderISRO = "isro"
)

// Config is built once per mission and handed to every stage; nothing
// downstream reads the process environment.
type Config struct {
	LLM       LLMConfig
	ESA       ESAConfig
	Bhoonidhi BhoonidhiConfig
	// Order in which provider stages run after the interpreter.
	ProviderPriority []string
}

type LLMConfig struct {
	Backend    string
	Model      string
	APIKey     string // GEMINI_API_KEY
	OllamaHost string
	Timeout    time.Duration
}

type ESAConfig struct {
	Username    string
	Password    string
	BaseURL     string
	AuthURL     string
	ProductType string
	ResultLimit int // 0 keeps everything
	Timeout     time.Duration
}

type BhoonidhiConfig struct {
	Username       string
	Password       string
	BaseURL        string
	Simulation     bool
	SimulatedDelay time.Duration
	LoginTimeout   time.Duration
	SearchTimeout  time.Duration
}

func Default() Config {
	return Config{
		LLM: LLMConfig{
			Backend: "gemini",
			Timeout: 20 * time.Second,
		},
		ESA: ESAConfig{
			BaseURL:     "https://catalogue.dataspace.copernicus.eu",
			AuthURL:     "https://identity.dataspace.copernicus.eu/auth/realms/CDSE/protocol/openid-connect/token",
			ProductType: "S2MSI1C",
			ResultLimit: 3,
			Timeout:     20 * time.Second,
		},
		Bhoonidhi: BhoonidhiConfig{
			BaseURL:        "https://bhoonidhi-api.nrsc.gov.in",
			Simulation:     true,
			SimulatedDelay: 1500 * time.Millisecond,
			LoginTimeout:   10 * time.Second,
			SearchTimeout:  20 * time.Second,
		},
		ProviderPriority: []string{ProviderESA, ProviderISRO},
	}
}

// Load reads the environment, then overlays the TOML file at path if one
// is given.
func Load(path string) (Config, error) {
	cfg := FromEnv()
	if strings.TrimSpace(path) != "" {
		if err := overlayFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func FromEnv() Config {
	cfg := Default()

	cfg.LLM.Backend = getEnv("NETRA_LLM_BACKEND", cfg.LLM.Backend)
	cfg.LLM.Model = getEnv("NETRA_LLM_MODEL", cfg.LLM.Model)
	cfg.LLM.APIKey = getEnv("GEMINI_API_KEY", "")
	cfg.LLM.OllamaHost = getEnv("OLLAMA_HOST", "")
	cfg.LLM.Timeout = getEnvSeconds("NETRA_LLM_TIMEOUT_SECS", cfg.LLM.Timeout)

	cfg.ESA.Username = getEnv("ESA_USERNAME", getEnv("EODAG__COPERNICUS_DATASPACE__AUTH__CREDENTIALS__USERNAME", ""))
	cfg.ESA.Password = getEnv("ESA_PASSWORD", getEnv("EODAG__COPERNICUS_DATASPACE__AUTH__CREDENTIALS__PASSWORD", ""))
	cfg.ESA.BaseURL = getEnv("ESA_BASE_URL", cfg.ESA.BaseURL)
	cfg.ESA.AuthURL = getEnv("ESA_AUTH_URL", cfg.ESA.AuthURL)
	cfg.ESA.ProductType = getEnv("ESA_PRODUCT_TYPE", cfg.ESA.ProductType)
	cfg.ESA.ResultLimit = getEnvInt("NETRA_ESA_RESULT_LIMIT", cfg.ESA.ResultLimit)
	cfg.ESA.Timeout = getEnvSeconds("ESA_TIMEOUT_SECS", cfg.ESA.Timeout)

	cfg.Bhoonidhi.Username = getEnv("BHOONIDHI_USER", "")
	cfg.Bhoonidhi.Password = getEnv("BHOONIDHI_PASS", "")
	cfg.Bhoonidhi.BaseURL = getEnv("BHOONIDHI_BASE_URL", cfg.Bhoonidhi.BaseURL)
	cfg.Bhoonidhi.Simulation = getEnvBool("BHOONIDHI_SIMULATION", cfg.Bhoonidhi.Simulation)
	cfg.Bhoonidhi.LoginTimeout = getEnvSeconds("BHOONIDHI_LOGIN_TIMEOUT_SECS", cfg.Bhoonidhi.LoginTimeout)
	cfg.Bhoonidhi.SearchTimeout = getEnvSeconds("BHOONIDHI_SEARCH_TIMEOUT_SECS", cfg.Bhoonidhi.SearchTimeout)

	if v := getEnv("NETRA_PROVIDER_PRIORITY", ""); v != "" {
		cfg.ProviderPriority = splitList(v)
	}
	return cfg
}

func (c Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.LLM.Backend)) {
	case "gemini", "ollama":
	default:
		return fmt.Errorf("unsupported LLM backend: %s", c.LLM.Backend)
	}
	if c.ESA.ResultLimit < 0 {
		return fmt.Errorf("esa result limit must be >= 0, got %d", c.ESA.ResultLimit)
	}
	seen := map[string]bool{}
	for _, p := range c.ProviderPriority {
		if p != ProviderESA && p != ProviderISRO {
			return fmt.Errorf("unknown provider in priority list: %q", p)
		}
		if seen[p] {
			return fmt.Errorf("provider %q listed twice in priority list", p)
		}
		seen[p] = true
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvSeconds(key string, fallback time.Duration) time.Duration {
	n := getEnvInt(key, -1)
	if n <= 0 {
		return fallback
	}
	return time.Duration(n) * time.Second
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// netra.toml key mapping. Only keys present in the file override.
type fileConfig struct {
	ProviderPriority []string `toml:"provider_priority"`
	LLM              struct {
		Backend     string `toml:"backend"`
		Model       string `toml:"model"`
		OllamaHost  string `toml:"ollama_host"`
		TimeoutSecs int    `toml:"timeout_secs"`
	} `toml:"llm"`
	ESA struct {
		BaseURL     string `toml:"base_url"`
		AuthURL     string `toml:"auth_url"`
		ProductType string `toml:"product_type"`
		ResultLimit int    `toml:"result_limit"`
		TimeoutSecs int    `toml:"timeout_secs"`
	} `toml:"esa"`
	Bhoonidhi struct {
		BaseURL           string `toml:"base_url"`
		Simulation        bool   `toml:"simulation"`
		SimulatedDelayMs  int    `toml:"simulated_delay_ms"`
		LoginTimeoutSecs  int    `toml:"login_timeout_secs"`
		SearchTimeoutSecs int    `toml:"search_timeout_secs"`
	} `toml:"bhoonidhi"`
}

func overlayFile(cfg *Config, path string) error {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return fmt.Errorf("load netra config: %w", err)
	}

	if meta.IsDefined("provider_priority") {
		cfg.ProviderPriority = splitList(strings.Join(raw.ProviderPriority, ","))
	}
	if meta.IsDefined("llm", "backend") {
		cfg.LLM.Backend = strings.TrimSpace(raw.LLM.Backend)
	}
	if meta.IsDefined("llm", "model") {
		cfg.LLM.Model = strings.TrimSpace(raw.LLM.Model)
	}
	if meta.IsDefined("llm", "ollama_host") {
		cfg.LLM.OllamaHost = strings.TrimSpace(raw.LLM.OllamaHost)
	}
	if meta.IsDefined("llm", "timeout_secs") && raw.LLM.TimeoutSecs > 0 {
		cfg.LLM.Timeout = time.Duration(raw.LLM.TimeoutSecs) * time.Second
	}
	if meta.IsDefined("esa", "base_url") {
		cfg.ESA.BaseURL = strings.TrimSpace(raw.ESA.BaseURL)
	}
	if meta.IsDefined("esa", "auth_url") {
		cfg.ESA.AuthURL = strings.TrimSpace(raw.ESA.AuthURL)
	}
	if meta.IsDefined("esa", "product_type") {
		cfg.ESA.ProductType = strings.TrimSpace(raw.ESA.ProductType)
	}
	if meta.IsDefined("esa", "result_limit") {
		cfg.ESA.ResultLimit = raw.ESA.ResultLimit
	}
	if meta.IsDefined("esa", "timeout_secs") && raw.ESA.TimeoutSecs > 0 {
		cfg.ESA.Timeout = time.Duration(raw.ESA.TimeoutSecs) * time.Second
	}
	if meta.IsDefined("bhoonidhi", "base_url") {
		cfg.Bhoonidhi.BaseURL = strings.TrimSpace(raw.Bhoonidhi.BaseURL)
	}
	if meta.IsDefined("bhoonidhi", "simulation") {
		cfg.Bhoonidhi.Simulation = raw.Bhoonidhi.Simulation
	}
	if meta.IsDefined("bhoonidhi", "simulated_delay_ms") && raw.Bhoonidhi.SimulatedDelayMs >= 0 {
		cfg.Bhoonidhi.SimulatedDelay = time.Duration(raw.Bhoonidhi.SimulatedDelayMs) * time.Millisecond
	}
	if meta.IsDefined("bhoonidhi", "login_timeout_secs") && raw.Bhoonidhi.LoginTimeoutSecs > 0 {
		cfg.Bhoonidhi.LoginTimeout = time.Duration(raw.Bhoonidhi.LoginTimeoutSecs) * time.Second
	}
	if meta.IsDefined("bhoonidhi", "search_timeout_secs") && raw.Bhoonidhi.SearchTimeoutSecs > 0 {
		cfg.Bhoonidhi.SearchTimeout = time.Duration(raw.Bhoonidhi.SearchTimeoutSecs) * time.Second
	}
	return nil
}
