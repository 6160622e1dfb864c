package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is read from the working directory when no explicit
// path is given.
const DefaultConfigFile = "mandacaru.yaml"

const envPrefix = "MANDACARU_"

type Manager struct {
	path      string
	configPtr atomic.Pointer[Config]
}

type Config struct {
	LLM    LLMConfig    `yaml:"llm"`
	Router RouterConfig `yaml:"router"`
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
}

type LLMConfig struct {
	Provider    string          `yaml:"provider"`
	Model       string          `yaml:"model"`
	Timeout     time.Duration   `yaml:"timeout"`
	Temperature float64         `yaml:"temperature"`
	MaxTokens   int             `yaml:"max_tokens"`
	MaxRetries  int             `yaml:"max_retries"`
	OpenAI      OpenAIConfig    `yaml:"openai"`
	Anthropic   AnthropicConfig `yaml:"anthropic"`
	Google      GoogleConfig    `yaml:"google"`

	// BreakerFailures trips the circuit after this many consecutive
	// upstream failures. Zero disables it.
	BreakerFailures int           `yaml:"breaker_failures"`
	BreakerCooldown time.Duration `yaml:"breaker_cooldown"`
}

type OpenAIConfig struct {
	APIKey       string `yaml:"api_key"`
	BaseURL      string `yaml:"base_url"`
	Organization string `yaml:"organization"`
	Project      string `yaml:"project"`
}

type AnthropicConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

type GoogleConfig struct {
	APIKey      string `yaml:"api_key"`
	ProjectID   string `yaml:"project_id"`
	Location    string `yaml:"location"`
	UseVertexAI bool   `yaml:"use_vertex_ai"`
}

type RouterConfig struct {
	// HistoryWindow is how many trailing messages the router reads.
	HistoryWindow int `yaml:"history_window"`
	// CacheSize enables decision caching when positive.
	CacheSize int           `yaml:"cache_size"`
	CacheTTL  time.Duration `yaml:"cache_ttl"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func NewManager(path string) *Manager {
	m := &Manager{path: path}
	m.configPtr.Store(DefaultConfig())
	return m
}

func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:    "openai",
			Timeout:     2 * time.Minute,
			Temperature: 0.7,
			MaxTokens:   2048,
			MaxRetries:  2,
			Google: GoogleConfig{
				Location: "us-central1",
			},

			BreakerFailures: 5,
			BreakerCooldown: 30 * time.Second,
		},
		Router: RouterConfig{
			HistoryWindow: 5,
			CacheTTL:      10 * time.Minute,
		},
		Server: ServerConfig{
			Addr:            ":8000",
			AllowedOrigins:  []string{"http://localhost:3000"},
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    5 * time.Minute,
			ShutdownTimeout: 15 * time.Second,
			MaxBodyBytes:    1 << 20,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func (m *Manager) Get() *Config {
	return m.configPtr.Load()
}

// Load rebuilds the configuration from defaults, the YAML file and the
// environment, in that order, and publishes it only if it validates.
func (m *Manager) Load() error {
	cfg := DefaultConfig()

	if err := m.loadYAMLFile(cfg); err != nil {
		return fmt.Errorf("config file: %w", err)
	}

	applyEnvironment(cfg)

	if err := cfg.Validate(); err != nil {
		return err
	}

	m.configPtr.Store(cfg)
	return nil
}

func (m *Manager) loadYAMLFile(cfg *Config) error {
	path := m.path
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		return nil
	}
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, cfg)
}

func applyEnvironment(cfg *Config) {
	if v := getenv("LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := getenv("LLM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.LLM.Timeout = d
		}
	}
	if v := getenv("LLM_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.LLM.Temperature = f
		}
	}
	if v := getenv("LLM_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.LLM.MaxRetries = n
		}
	}
	if v := getenv("LLM_BREAKER_FAILURES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.LLM.BreakerFailures = n
		}
	}
	if v := getenv("ROUTER_CACHE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Router.CacheSize = n
		}
	}
	if v := getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := getenv("SERVER_ALLOWED_ORIGINS"); v != "" {
		cfg.Server.AllowedOrigins = splitList(v)
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}

	// Provider keys use the variable names the vendors document.
	if v := os.Getenv("OPENAI_API_KEY"); v != "" && cfg.LLM.OpenAI.APIKey == "" {
		cfg.LLM.OpenAI.APIKey = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" && cfg.LLM.Anthropic.APIKey == "" {
		cfg.LLM.Anthropic.APIKey = v
	}
	if cfg.LLM.Google.APIKey == "" {
		cfg.LLM.Google.APIKey = firstNonEmpty(os.Getenv("GEMINI_API_KEY"), os.Getenv("GOOGLE_API_KEY"))
	}
}

// Validate rejects values no component can run with. Provider credentials
// are checked when the provider is built.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "openai", "anthropic", "google":
	default:
		return fmt.Errorf("llm.provider: unknown provider %q", c.LLM.Provider)
	}
	if c.LLM.Timeout < 0 {
		return fmt.Errorf("llm.timeout must not be negative")
	}
	if c.LLM.BreakerFailures < 0 {
		return fmt.Errorf("llm.breaker_failures must not be negative")
	}
	if c.Router.HistoryWindow <= 0 || c.Router.HistoryWindow > 5 {
		return fmt.Errorf("router.history_window must be between 1 and 5")
	}
	if c.Router.CacheSize < 0 {
		return fmt.Errorf("router.cache_size must not be negative")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server.max_body_bytes must be positive")
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json")
	}
	return nil
}

func getenv(key string) string {
	return os.Getenv(envPrefix + key)
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
