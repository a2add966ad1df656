package router

import (
	"fmt"

	"github.com/Aloklok/rss-daily-sub001/internal/llm"
)

// Intent classifies what kind of answer a query needs
type Intent string

const (
	// answer from the model alone, no retrieval
	IntentDirect Intent = "DIRECT"

	// answer grounded in the local summarized corpus
	IntentRAGLocal Intent = "RAG_LOCAL"

	// answer using live web facts via the provider's search tool
	IntentSearchWeb Intent = "SEARCH_WEB"
)

// ParseIntent validates a raw intent value from model output
func ParseIntent(s string) (Intent, error) {
	switch Intent(s) {
	case IntentDirect, IntentRAGLocal, IntentSearchWeb:
		return Intent(s), nil
	default:
		return "", fmt.Errorf("unknown intent %q", s)
	}
}

// Result is the routing decision for one chat turn
type Result struct {
	Intent    Intent
	Reasoning string

	// retrieval-optimized rewrite of the user's text, same language as the
	// input; empty when the original query is already suitable
	ModifiedQuery string
}

// ProviderResolver maps a model id to the adapter that serves it
type ProviderResolver interface {
	ProviderFor(model string) (llm.Provider, string, error)
}

type Router struct {
	providers ProviderResolver
	model     string
	disabled  bool
}
