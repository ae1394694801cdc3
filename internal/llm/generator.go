// Package llm turns review context into model-generated text: commit
// messages, pull request descriptions and quality verdicts.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/sevigo/goframe/llms/gemini"
	"github.com/sevigo/goframe/llms/ollama"

	"github.com/sevigo/code-inspector/internal/config"
)

// FallbackText is returned for every prompt when no backend credential is
// configured.
const FallbackText = "feat(demo): this is a generated commit message\n\n- Added new feature\n- Fixed bug"

// ErrorMarker prefixes the text returned when a live backend call fails.
const ErrorMarker = "Error generating content: "

const (
	defaultAnthropicModel = "claude-haiku-4-5-20251001"
	anthropicMaxTokens    = 2048
)

// Generator produces text for a prompt. Generate never fails: backend errors
// come back as text starting with ErrorMarker.
//
//go:generate mockgen -destination=../../mocks/mock_generator.go -package=mocks . Generator
type Generator interface {
	Generate(ctx context.Context, prompt string) string
	Live() bool
}

// IsGenerationError reports whether text is the in-band report of a failed
// backend call.
func IsGenerationError(text string) bool {
	return strings.HasPrefix(text, ErrorMarker)
}

func errorText(err error) string {
	return ErrorMarker + err.Error()
}

type fallbackGenerator struct{}

// NewFallbackGenerator returns the generator used when no credential exists.
func NewFallbackGenerator() Generator { return fallbackGenerator{} }

func (fallbackGenerator) Generate(context.Context, string) string { return FallbackText }
func (fallbackGenerator) Live() bool                             { return false }

// modelGenerator drives a goframe model.
type modelGenerator struct {
	name string
	call func(ctx context.Context, prompt string) (string, error)
}

func (g *modelGenerator) Generate(ctx context.Context, prompt string) string {
	resp, err := g.call(ctx, prompt)
	if err != nil {
		return errorText(fmt.Errorf("%s: %w", g.name, err))
	}
	return resp
}

func (g *modelGenerator) Live() bool { return true }

type anthropicGenerator struct {
	client anthropic.Client
	model  anthropic.Model
}

func newAnthropicGenerator(apiKey, model string, opts ...option.RequestOption) *anthropicGenerator {
	if model == "" || strings.HasPrefix(model, "gemini") {
		model = defaultAnthropicModel
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &anthropicGenerator{
		client: anthropic.NewClient(opts...),
		model:  anthropic.Model(model),
	}
}

func (g *anthropicGenerator) Generate(ctx context.Context, prompt string) string {
	msg, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     g.model,
		MaxTokens: anthropicMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return errorText(fmt.Errorf("anthropic: %w", err))
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return errorText(errors.New("anthropic: no text content in response"))
	}
	return sb.String()
}

func (g *anthropicGenerator) Live() bool { return true }

// NewGenerator selects the generation backend once. For gemini and anthropic
// the credential comes from explicitKey when set, otherwise from cfg, which already layers the
// environment over the config file. Without a credential the fallback
// generator is returned.
func NewGenerator(ctx context.Context, cfg config.AIConfig, explicitKey string, logger *slog.Logger) (Generator, error) {
	switch cfg.LLMProvider {
	case config.ProviderGemini, "":
		key := firstNonEmpty(explicitKey, cfg.GoogleAPIKey)
		if key == "" {
			logger.Warn("no Google API key configured, generation runs in fallback mode")
			return NewFallbackGenerator(), nil
		}
		model, err := gemini.New(ctx, gemini.WithModel(cfg.Model), gemini.WithAPIKey(key))
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini model: %w", err)
		}
		return &modelGenerator{name: "gemini", call: func(ctx context.Context, prompt string) (string, error) {
			return model.Call(ctx, prompt)
		}}, nil

	case config.ProviderAnthropic:
		key := firstNonEmpty(explicitKey, cfg.AnthropicAPIKey)
		if key == "" {
			logger.Warn("no Anthropic API key configured, generation runs in fallback mode")
			return NewFallbackGenerator(), nil
		}
		return newAnthropicGenerator(key, cfg.Model), nil

	case config.ProviderOllama:
		// ollama takes no credential; explicitKey is not a server URL
		host := cfg.OllamaHost
		if host == "" {
			logger.Warn("no Ollama host configured, generation runs in fallback mode")
			return NewFallbackGenerator(), nil
		}
		model, err := ollama.New(
			ollama.WithServerURL(host),
			ollama.WithModel(cfg.Model),
			ollama.WithHTTPClient(newOllamaHTTPClient()),
			ollama.WithLogger(logger),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create ollama model: %w", err)
		}
		return &modelGenerator{name: "ollama", call: func(ctx context.Context, prompt string) (string, error) {
			return model.Call(ctx, prompt)
		}}, nil

	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.LLMProvider)
	}
}

func newOllamaHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        100,
			MaxConnsPerHost:     10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		},
		Timeout: 15 * time.Minute,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
