package chat

import (
	"context"

	"github.com/Aloklok/rss-daily-sub001/internal/llm"
	"github.com/Aloklok/rss-daily-sub001/internal/retriever"
	"github.com/Aloklok/rss-daily-sub001/internal/router"
)

// IntentClassifier decides how a query should be answered
type IntentClassifier interface {
	Classify(ctx context.Context, query string, history []llm.Message) router.Result
}

// Retriever runs the two-stage retrieval pipeline against the corpus
type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int) ([]retriever.Article, error)
}

// ProviderResolver maps a model id to the adapter that serves it
type ProviderResolver interface {
	ProviderFor(model string) (llm.Provider, string, error)
}

// TemplateStore looks up named system-prompt templates
type TemplateStore interface {
	GetPromptTemplate(ctx context.Context, name string) (string, error)
}

// Service composes routing, retrieval, prompt assembly, and provider
// streaming into one request-scoped pipeline. It owns no persisted state.
type Service struct {
	router    IntentClassifier
	retriever Retriever
	providers ProviderResolver
	templates TemplateStore
}

// Request is one chat turn. Messages must end with the active user query.
type Request struct {
	Messages      []llm.Message
	UseSearch     bool
	Model         string
	SmallTalkMode bool
}

// Result carries the normalized answer stream and turn metadata
type Result struct {
	Stream        <-chan llm.StreamChunk
	Intent        router.Intent
	FinalArticles []retriever.Article
	Model         string
	IsProviderB   bool
}
