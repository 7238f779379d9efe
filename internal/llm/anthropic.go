package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/sohaib12raza2-cpu/SEO-Sitemap/internal/logger"
)

// anthropicCompleter calls the Anthropic Messages API.
type anthropicCompleter struct {
	client      anthropic.Client
	model       string
	temperature float64
	maxTokens   int64
	log         logger.Logger
}

func newAnthropic(cfg Config, log logger.Logger) *anthropicCompleter {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	if cfg.Transport != nil {
		opts = append(opts, option.WithHTTPClient(&http.Client{Transport: cfg.Transport}))
	}

	return &anthropicCompleter{
		client:      anthropic.NewClient(opts...),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		log:         log,
	}
}

func (a *anthropicCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	start := time.Now()

	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(a.model),
		MaxTokens:   a.maxTokens,
		Temperature: anthropic.Float(a.temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", providerError(ProviderAnthropic, fmt.Errorf("create message: %w", err))
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	if strings.TrimSpace(text.String()) == "" {
		return "", providerError(ProviderAnthropic, errEmptyCompletion)
	}

	a.log.Debug("Chat completion received",
		logger.String("provider", ProviderAnthropic),
		logger.String("model", a.model),
		logger.Int("input_tokens", int(msg.Usage.InputTokens)),
		logger.Int("output_tokens", int(msg.Usage.OutputTokens)),
		logger.Duration("duration", time.Since(start)),
	)

	return text.String(), nil
}
