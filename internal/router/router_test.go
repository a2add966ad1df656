package router

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/Aloklok/rss-daily-sub001/internal/llm"
)

// implements llm.Provider for testing
type mockProvider struct {
	completeFunc func(ctx context.Context, messages []llm.Message, opts llm.Options) (string, error)
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) Stream(_ context.Context, _ []llm.Message, _ llm.Options) (<-chan llm.RawEvent, error) {
	return nil, fmt.Errorf("not implemented")
}

func (m *mockProvider) Complete(ctx context.Context, messages []llm.Message, opts llm.Options) (string, error) {
	if m.completeFunc != nil {
		return m.completeFunc(ctx, messages, opts)
	}

	return `{"intent": "RAG_LOCAL", "reasoning": "default", "modified_query": ""}`, nil
}

// implements ProviderResolver for testing
type mockResolver struct {
	provider   llm.Provider
	resolveErr error
	called     bool
}

func (m *mockResolver) ProviderFor(model string) (llm.Provider, string, error) {
	m.called = true

	if m.resolveErr != nil {
		return nil, "", m.resolveErr
	}

	return m.provider, model, nil
}

func TestClassifyShortQuerySkipsModel(t *testing.T) {
	resolver := &mockResolver{provider: &mockProvider{
		completeFunc: func(_ context.Context, _ []llm.Message, _ llm.Options) (string, error) {
			t.Fatal("classification model must not be called for short queries")
			return "", nil
		},
	}}

	r := New(resolver, "gemini-2.5-flash-lite", false)

	// 2 runes even though it is 6 bytes
	result := r.Classify(context.Background(), "你好", nil)

	if result.Intent != IntentDirect {
		t.Errorf("expected DIRECT, got %s", result.Intent)
	}

	if result.Reasoning != "Short query heuristic" {
		t.Errorf("unexpected reasoning: %q", result.Reasoning)
	}

	if resolver.called {
		t.Error("expected resolver to be bypassed for short queries")
	}
}

func TestClassifyDisabledRouter(t *testing.T) {
	resolver := &mockResolver{provider: &mockProvider{}}

	r := New(resolver, "gemini-2.5-flash-lite", true)

	result := r.Classify(context.Background(), "what happened with the chip export rules", nil)

	if result.Intent != IntentRAGLocal {
		t.Errorf("expected RAG_LOCAL, got %s", result.Intent)
	}

	if result.Reasoning != "Router disabled" {
		t.Errorf("unexpected reasoning: %q", result.Reasoning)
	}

	if resolver.called {
		t.Error("disabled router must not resolve a provider")
	}
}

func TestClassifyModelDecision(t *testing.T) {
	var capturedPrompt string

	resolver := &mockResolver{provider: &mockProvider{
		completeFunc: func(_ context.Context, messages []llm.Message, _ llm.Options) (string, error) {
			capturedPrompt = messages[0].Content
			return `{"intent": "SEARCH_WEB", "reasoning": "needs live data", "modified_query": "NVDA stock price today"}`, nil
		},
	}}

	r := New(resolver, "gemini-2.5-flash-lite", false)

	history := []llm.Message{
		{Role: llm.RoleUser, Content: "tell me about nvidia"},
		{Role: llm.RoleAssistant, Content: "nvidia designs GPUs"},
	}

	result := r.Classify(context.Background(), "what is the stock price right now", history)

	if result.Intent != IntentSearchWeb {
		t.Errorf("expected SEARCH_WEB, got %s", result.Intent)
	}

	if result.ModifiedQuery != "NVDA stock price today" {
		t.Errorf("unexpected modified query: %q", result.ModifiedQuery)
	}

	if !strings.Contains(capturedPrompt, "tell me about nvidia") {
		t.Error("expected history to appear in the classification prompt")
	}

	if !strings.Contains(capturedPrompt, "what is the stock price right now") {
		t.Error("expected query to appear in the classification prompt")
	}
}

func TestClassifyFallsBackOnModelError(t *testing.T) {
	resolver := &mockResolver{provider: &mockProvider{
		completeFunc: func(_ context.Context, _ []llm.Message, _ llm.Options) (string, error) {
			return "", fmt.Errorf("upstream timeout")
		},
	}}

	r := New(resolver, "gemini-2.5-flash-lite", false)

	result := r.Classify(context.Background(), "a query long enough to reach the model", nil)

	if result.Intent != IntentRAGLocal {
		t.Errorf("expected RAG_LOCAL fallback, got %s", result.Intent)
	}

	if result.Reasoning != "Fallback on Error" {
		t.Errorf("unexpected reasoning: %q", result.Reasoning)
	}
}

func TestClassifyFallsBackOnResolverError(t *testing.T) {
	resolver := &mockResolver{resolveErr: fmt.Errorf("unknown alias")}

	r := New(resolver, "gemini-2.5-flash-lite@missing", false)

	result := r.Classify(context.Background(), "a query long enough to reach the model", nil)

	if result.Intent != IntentRAGLocal {
		t.Errorf("expected RAG_LOCAL fallback, got %s", result.Intent)
	}
}

func TestClassifyFallsBackOnMalformedResponse(t *testing.T) {
	resolver := &mockResolver{provider: &mockProvider{
		completeFunc: func(_ context.Context, _ []llm.Message, _ llm.Options) (string, error) {
			return "I think this needs local retrieval", nil
		},
	}}

	r := New(resolver, "gemini-2.5-flash-lite", false)

	result := r.Classify(context.Background(), "a query long enough to reach the model", nil)

	if result.Intent != IntentRAGLocal {
		t.Errorf("expected RAG_LOCAL fallback, got %s", result.Intent)
	}

	if result.Reasoning != "Fallback on Error" {
		t.Errorf("unexpected reasoning: %q", result.Reasoning)
	}
}

func TestBuildClassificationPromptWindowsHistory(t *testing.T) {
	history := make([]llm.Message, 10)
	for i := range history {
		history[i] = llm.Message{Role: llm.RoleUser, Content: fmt.Sprintf("turn-%d", i)}
	}

	prompt := buildClassificationPrompt("latest question", history)

	if strings.Contains(prompt, "turn-5") {
		t.Error("expected older turns to be dropped from the prompt")
	}

	for i := 6; i < 10; i++ {
		if !strings.Contains(prompt, fmt.Sprintf("turn-%d", i)) {
			t.Errorf("expected turn-%d in the prompt", i)
		}
	}
}
