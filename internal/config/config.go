// Package config loads the link suggester's service configuration from an
// optional YAML file, .env files and environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Supported LLM providers.
const (
	ProviderGroq      = "groq"
	ProviderAnthropic = "anthropic"
)

const (
	defaultServerPort      = 8501
	defaultServerTimeout   = 30 * time.Second
	defaultWriteTimeout    = 5 * time.Minute
	defaultSitemapTimeout  = 15 * time.Second
	defaultPageTimeout     = 5 * time.Second
	defaultLLMTimeout      = 2 * time.Minute
	defaultMaxSitemapBytes = 20 << 20
	defaultMaxPageBytes    = 5 << 20
	defaultTemperature     = 0.1
	defaultMaxTokens       = 4096
	defaultGroqModel       = "llama-3.3-70b-versatile"
	defaultAnthropicModel  = "claude-sonnet-4-5"
	defaultMetadataWorkers = 1
	maxMetadataWorkers     = 32
	maxPort                = 65535
	maxTemperature         = 2.0
	defaultPprofPort       = 6060
	defaultPyroscopeURL    = "http://pyroscope:4040"
)

// DefaultUserAgent is the desktop-browser agent sent with every fetch.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// Config is the root service configuration.
type Config struct {
	Debug     bool            `env:"APP_DEBUG" yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	Sitemap   SitemapConfig   `yaml:"sitemap"`
	Metadata  MetadataConfig  `yaml:"metadata"`
	LLM       LLMConfig       `yaml:"llm"`
	Profiling ProfilingConfig `yaml:"profiling"`
}

type ServerConfig struct {
	Host         string        `env:"SERVER_HOST" yaml:"host"`
	Port         int           `env:"SERVER_PORT" yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// Address returns the listen address in host:port form.
func (c *ServerConfig) Address() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

type LoggingConfig struct {
	Level string `env:"LOG_LEVEL" yaml:"level"`
}

// SitemapConfig controls the sitemap fetch.
type SitemapConfig struct {
	Timeout   time.Duration `env:"SITEMAP_TIMEOUT"   yaml:"timeout"`
	UserAgent string        `env:"FETCH_USER_AGENT"  yaml:"user_agent"`
	// SiteRoot is the bare root URL excluded from candidates. When empty it
	// is derived from the sitemap URL's scheme and host.
	SiteRoot     string `env:"SITEMAP_SITE_ROOT" yaml:"site_root"`
	MaxBodyBytes int64  `yaml:"max_body_bytes"`
}

// MetadataConfig controls per-page enrichment.
type MetadataConfig struct {
	Timeout      time.Duration `env:"PAGE_TIMEOUT"         yaml:"timeout"`
	Concurrency  int           `env:"METADATA_CONCURRENCY" yaml:"concurrency"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
}

// LLMConfig selects and configures the chat-completion provider.
type LLMConfig struct {
	Provider string `env:"LLM_PROVIDER" yaml:"provider"`
	Model    string `env:"LLM_MODEL"    yaml:"model"`
	// APIKey falls back to the provider's own variable (GROQ_API_KEY or
	// ANTHROPIC_API_KEY) once the provider is known.
	APIKey      string        `env:"LLM_API_KEY"     yaml:"api_key"`
	BaseURL     string        `env:"LLM_BASE_URL"    yaml:"base_url"`
	Temperature float64       `env:"LLM_TEMPERATURE" yaml:"temperature"`
	MaxTokens   int64         `env:"LLM_MAX_TOKENS"  yaml:"max_tokens"`
	Timeout     time.Duration `env:"LLM_TIMEOUT"     yaml:"timeout"`
}

// ProfilingConfig enables the local pprof listener and Pyroscope
// continuous profiling.
type ProfilingConfig struct {
	Pprof        bool   `env:"ENABLE_PROFILING"            yaml:"pprof"`
	PprofPort    int    `env:"PPROF_PORT"                  yaml:"pprof_port"`
	Continuous   bool   `env:"ENABLE_CONTINUOUS_PROFILING" yaml:"continuous"`
	PyroscopeURL string `env:"PYROSCOPE_SERVER_URL"        yaml:"pyroscope_url"`
	Environment  string `env:"PYROSCOPE_ENVIRONMENT"       yaml:"environment"`
}

// Load reads path (if present), applies defaults and environment overrides,
// and validates the result.
func Load(path string) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, fmt.Errorf("load environment files: %w", err)
	}

	cfg := &Config{}
	if err := readYAML(path, cfg); err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)
	setDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for values the service cannot run with.
// The API key is optional here since it can be entered per run.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(&c.Server,
		validation.Field(&c.Server.Port, validation.Required, validation.Min(1), validation.Max(maxPort)),
	); err != nil {
		return fmt.Errorf("server: %w", err)
	}

	if err := validation.ValidateStruct(&c.Sitemap,
		validation.Field(&c.Sitemap.Timeout, validation.Required),
		validation.Field(&c.Sitemap.UserAgent, validation.Required),
		validation.Field(&c.Sitemap.SiteRoot, is.URL),
	); err != nil {
		return fmt.Errorf("sitemap: %w", err)
	}

	if err := validation.ValidateStruct(&c.Metadata,
		validation.Field(&c.Metadata.Timeout, validation.Required),
		validation.Field(&c.Metadata.Concurrency, validation.Min(1), validation.Max(maxMetadataWorkers)),
	); err != nil {
		return fmt.Errorf("metadata: %w", err)
	}

	if err := validation.ValidateStruct(&c.LLM,
		validation.Field(&c.LLM.Provider, validation.Required, validation.In(ProviderGroq, ProviderAnthropic)),
		validation.Field(&c.LLM.Model, validation.Required),
		validation.Field(&c.LLM.BaseURL, is.URL),
		validation.Field(&c.LLM.Temperature, validation.Min(0.0), validation.Max(maxTemperature)),
		validation.Field(&c.LLM.MaxTokens, validation.Min(int64(1))),
	); err != nil {
		return fmt.Errorf("llm: %w", err)
	}

	if err := validation.ValidateStruct(&c.Profiling,
		validation.Field(&c.Profiling.PprofPort, validation.Min(1), validation.Max(maxPort)),
	); err != nil {
		return fmt.Errorf("profiling: %w", err)
	}

	return nil
}

func setDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaultServerPort
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = defaultServerTimeout
	}
	// A run fetches every page of the sitemap before answering.
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = defaultWriteTimeout
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	if cfg.Sitemap.Timeout == 0 {
		cfg.Sitemap.Timeout = defaultSitemapTimeout
	}
	if cfg.Sitemap.UserAgent == "" {
		cfg.Sitemap.UserAgent = DefaultUserAgent
	}
	if cfg.Sitemap.MaxBodyBytes == 0 {
		cfg.Sitemap.MaxBodyBytes = defaultMaxSitemapBytes
	}

	if cfg.Metadata.Timeout == 0 {
		cfg.Metadata.Timeout = defaultPageTimeout
	}
	if cfg.Metadata.Concurrency == 0 {
		cfg.Metadata.Concurrency = defaultMetadataWorkers
	}
	if cfg.Metadata.MaxBodyBytes == 0 {
		cfg.Metadata.MaxBodyBytes = defaultMaxPageBytes
	}

	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = ProviderGroq
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = defaultModel(cfg.LLM.Provider)
	}
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv(providerKeyEnv(cfg.LLM.Provider))
	}
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = defaultTemperature
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = defaultMaxTokens
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = defaultLLMTimeout
	}

	if cfg.Profiling.PprofPort == 0 {
		cfg.Profiling.PprofPort = defaultPprofPort
	}
	if cfg.Profiling.PyroscopeURL == "" {
		cfg.Profiling.PyroscopeURL = defaultPyroscopeURL
	}
	if cfg.Profiling.Environment == "" {
		cfg.Profiling.Environment = "development"
	}
}

// providerKeyEnv names the environment variable holding the key for provider.
func providerKeyEnv(provider string) string {
	if provider == ProviderAnthropic {
		return "ANTHROPIC_API_KEY"
	}
	return "GROQ_API_KEY"
}

func defaultModel(provider string) string {
	if provider == ProviderAnthropic {
		return defaultAnthropicModel
	}
	return defaultGroqModel
}
