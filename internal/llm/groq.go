package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sohaib12raza2-cpu/SEO-Sitemap/internal/httpclient"
	"github.com/sohaib12raza2-cpu/SEO-Sitemap/internal/logger"
)

// DefaultGroqBaseURL is Groq's OpenAI-compatible API root.
const DefaultGroqBaseURL = "https://api.groq.com/openai/v1"

const maxErrorBodyBytes = 64 << 10

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int64         `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

type apiErrorBody struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// groqCompleter talks to an OpenAI-compatible chat completions endpoint.
type groqCompleter struct {
	client      *http.Client
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	maxTokens   int64
	log         logger.Logger
}

func newGroq(cfg Config, log logger.Logger) *groqCompleter {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultGroqBaseURL
	}

	return &groqCompleter{
		client:      httpclient.New(httpclient.Config{Timeout: cfg.Timeout, Transport: cfg.Transport}),
		baseURL:     baseURL,
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		log:         log,
	}
}

func (g *groqCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       g.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
	})
	if err != nil {
		return "", providerError(ProviderGroq, fmt.Errorf("marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", providerError(ProviderGroq, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		return "", providerError(ProviderGroq, fmt.Errorf("http request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", providerError(ProviderGroq, statusError(resp))
	}

	var decoded chatResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&decoded); decodeErr != nil {
		return "", providerError(ProviderGroq, fmt.Errorf("decode response: %w", decodeErr))
	}

	if len(decoded.Choices) == 0 || strings.TrimSpace(decoded.Choices[0].Message.Content) == "" {
		return "", providerError(ProviderGroq, errEmptyCompletion)
	}

	g.log.Debug("Chat completion received",
		logger.String("provider", ProviderGroq),
		logger.String("model", g.model),
		logger.Int("prompt_tokens", decoded.Usage.PromptTokens),
		logger.Int("completion_tokens", decoded.Usage.CompletionTokens),
		logger.Duration("duration", time.Since(start)),
	)

	return decoded.Choices[0].Message.Content, nil
}

// statusError describes a non-OK response, using the API's error message
// when the body carries one.
func statusError(resp *http.Response) error {
	data, _ := httpclient.ReadAll(resp.Body, maxErrorBodyBytes)

	var apiErr apiErrorBody
	if json.Unmarshal(data, &apiErr) == nil && apiErr.Error.Message != "" {
		return fmt.Errorf("status %d: %s", resp.StatusCode, apiErr.Error.Message)
	}
	return fmt.Errorf("status %d", resp.StatusCode)
}
