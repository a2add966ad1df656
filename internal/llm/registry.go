package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Aloklok/rss-daily-sub001/internal/config"
	"golang.org/x/time/rate"
)

// context budgets: how many articles the answering provider accepts
const (
	geminiArticleBudget = 30
	openaiArticleBudget = 10
)

// Registry resolves model ids to provider adapters and credentials. It is
// built once at startup and read-only afterwards.
type Registry struct {
	cfg        *config.Config
	httpClient *http.Client
	limiter    *rate.Limiter
	gemini     map[string]*Gemini // keyed by credential alias, "" = default
}

func NewRegistry(ctx context.Context, cfg *config.Config) (*Registry, error) {
	// no total timeout: answer streams stay open for minutes and are bounded
	// by caller cancellation instead
	httpClient := &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: 30 * time.Second,
		},
	}

	geminiClients := make(map[string]*Gemini, len(cfg.GeminiKeyAliases)+1)

	defaultClient, err := NewGemini(ctx, cfg.GeminiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create default gemini client: %w", err)
	}

	geminiClients[""] = defaultClient

	for alias, key := range cfg.GeminiKeyAliases {
		client, err := NewGemini(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client for alias %q: %w", alias, err)
		}

		geminiClients[alias] = client
	}

	return &Registry{
		cfg:        cfg,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(50, 10),
		gemini:     geminiClients,
	}, nil
}

// ParseModel splits "modelId@keyAlias". The alias selects which provider
// credential to use; it carries no other semantics.
func ParseModel(raw string) (model, alias string) {
	model, alias, _ = strings.Cut(raw, "@")
	return model, alias
}

// IsOpenAIStyle reports whether a model id names an OpenAI-style backend.
// Router-style ids carry a path separator ("vendor/model").
func IsOpenAIStyle(model string) bool {
	return strings.Contains(model, "/")
}

// ContextBudget returns the article budget for the provider that will answer
func ContextBudget(model string) int {
	if IsOpenAIStyle(model) {
		return openaiArticleBudget
	}

	return geminiArticleBudget
}

// ProviderFor resolves a raw model id (possibly carrying a key alias) to an
// adapter and the bare model id to send upstream.
func (r *Registry) ProviderFor(raw string) (Provider, string, error) {
	model, alias := ParseModel(raw)
	if model == "" {
		return nil, "", fmt.Errorf("empty model id")
	}

	if IsOpenAIStyle(model) {
		key := r.cfg.OpenAIKey

		if alias != "" {
			aliased, ok := r.cfg.OpenAIKeyAliases[alias]
			if !ok {
				return nil, "", fmt.Errorf("unknown credential alias %q", alias)
			}

			key = aliased
		}

		return NewOpenAICompatible(key, r.cfg.OpenAIBase, r.httpClient, r.limiter), model, nil
	}

	client, ok := r.gemini[alias]
	if !ok {
		return nil, "", fmt.Errorf("unknown credential alias %q", alias)
	}

	return client, model, nil
}
