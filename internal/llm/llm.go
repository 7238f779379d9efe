// Package llm provides the chat-completion providers that turn a prompt
// into raw model text.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sohaib12raza2-cpu/SEO-Sitemap/internal/domain"
	"github.com/sohaib12raza2-cpu/SEO-Sitemap/internal/logger"
)

// Provider names.
const (
	ProviderGroq      = "groq"
	ProviderAnthropic = "anthropic"
)

// ErrMissingAPIKey is returned when a provider is built without a key.
var ErrMissingAPIKey = errors.New("api key is required")

// errEmptyCompletion is returned when the provider answered without text.
var errEmptyCompletion = errors.New("empty completion")

// Completer sends one user message and returns the model's raw text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Config configures a provider. APIKey may be left empty and supplied per
// run through Factory.New.
type Config struct {
	Provider    string
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float64
	MaxTokens   int64
	Timeout     time.Duration
	Transport   http.RoundTripper
}

// Factory builds Completers that share one configuration but may use
// different API keys.
type Factory struct {
	cfg Config
	log logger.Logger
}

// NewFactory creates a Factory.
func NewFactory(cfg Config, log logger.Logger) *Factory {
	return &Factory{cfg: cfg, log: log}
}

// HasDefaultKey reports whether a key was configured for the process.
func (f *Factory) HasDefaultKey() bool {
	return strings.TrimSpace(f.cfg.APIKey) != ""
}

// Provider returns the configured provider name.
func (f *Factory) Provider() string {
	return f.cfg.Provider
}

// New returns a Completer for apiKey, falling back to the configured key
// when apiKey is blank.
func (f *Factory) New(apiKey string) (Completer, error) {
	cfg := f.cfg
	if key := strings.TrimSpace(apiKey); key != "" {
		cfg.APIKey = key
	}
	return New(cfg, f.log)
}

// New creates the Completer for cfg.Provider.
func New(cfg Config, log logger.Logger) (Completer, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}

	switch cfg.Provider {
	case ProviderGroq, "":
		return newGroq(cfg, log), nil
	case ProviderAnthropic:
		return newAnthropic(cfg, log), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
}

func providerError(provider string, err error) error {
	return &domain.ProviderError{Provider: provider, Err: err}
}
