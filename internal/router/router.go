package router

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Aloklok/rss-daily-sub001/internal/llm"
	"github.com/Aloklok/rss-daily-sub001/internal/logger"
)

const (
	// queries shorter than this are assumed conversational
	shortQueryRuneLimit = 5

	// prior messages included as disambiguation context
	historyWindow = 4
)

// New creates an intent router backed by a low-cost classification model.
// When disabled, every call routes to RAG_LOCAL without a model call.
func New(providers ProviderResolver, model string, disabled bool) *Router {
	return &Router{
		providers: providers,
		model:     model,
		disabled:  disabled,
	}
}

// Classify decides how a query should be answered. It never fails the chat
// turn: classification errors of any kind degrade to RAG_LOCAL, the safest
// default because it gracefully becomes "no local match" rather than
// silently skipping retrieval or issuing unnecessary external calls.
func (r *Router) Classify(ctx context.Context, query string, history []llm.Message) Result {
	if r.disabled {
		return Result{Intent: IntentRAGLocal, Reasoning: "Router disabled"}
	}

	trimmed := strings.TrimSpace(query)

	// greetings and other short inputs are conversational, skip the model
	if utf8.RuneCountInString(trimmed) < shortQueryRuneLimit {
		return Result{Intent: IntentDirect, Reasoning: "Short query heuristic"}
	}

	result, err := r.classifyWithModel(ctx, trimmed, history)
	if err != nil {
		logger.Warn("intent classification failed, defaulting to local retrieval", "error", err)
		return Result{Intent: IntentRAGLocal, Reasoning: "Fallback on Error"}
	}

	return result
}

func (r *Router) classifyWithModel(ctx context.Context, query string, history []llm.Message) (Result, error) {
	provider, bareModel, err := r.providers.ProviderFor(r.model)
	if err != nil {
		return Result{}, fmt.Errorf("failed to resolve classification model: %w", err)
	}

	prompt := buildClassificationPrompt(query, history)

	raw, err := provider.Complete(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, llm.Options{
		Model:     bareModel,
		MaxTokens: 512,
	})
	if err != nil {
		return Result{}, fmt.Errorf("classification call failed: %w", err)
	}

	return parseClassification(raw)
}

func buildClassificationPrompt(query string, history []llm.Message) string {
	var builder strings.Builder

	builder.WriteString(`You are an intent classifier for a news-corpus chat assistant.

Classify the user's query into exactly one intent:

DIRECT - conversational or general questions needing no evidence.
  Examples: "hello", "who are you", "translate this sentence"
RAG_LOCAL - questions answerable from the local corpus of summarized news articles.
  Examples: "what happened with the chip export rules", "summarize this week's AI news"
SEARCH_WEB - questions needing live facts newer than the corpus or outside it.
  Examples: "what is the stock price right now", "what did the fed announce today"

Return ONLY a JSON object:
{"intent": "DIRECT|RAG_LOCAL|SEARCH_WEB", "reasoning": "one short sentence", "modified_query": "retrieval-optimized rewrite"}

Rules for modified_query:
- Keep the same language as the input
- Never translate proper nouns unless explicitly requested
- Expand vague references using the conversation context
`)

	recent := history
	if len(recent) > historyWindow {
		recent = recent[len(recent)-historyWindow:]
	}

	if len(recent) > 0 {
		builder.WriteString("\nRecent conversation:\n")

		for _, msg := range recent {
			builder.WriteString(fmt.Sprintf("%s: %s\n", msg.Role, msg.Content))
		}
	}

	builder.WriteString(fmt.Sprintf("\nUser query: %s\n", query))

	return builder.String()
}
