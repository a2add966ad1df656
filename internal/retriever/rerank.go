package retriever

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Aloklok/rss-daily-sub001/internal/llm"
	"github.com/Aloklok/rss-daily-sub001/internal/logger"
)

// ProviderResolver maps a model id to the adapter that serves it
type ProviderResolver interface {
	ProviderFor(model string) (llm.Provider, string, error)
}

// Reranker asks a model to pick the most relevant, diverse subset of
// candidates when the hybrid search returned more than the context budget.
type Reranker struct {
	providers     ProviderResolver
	model         string
	fallbackModel string
}

func NewReranker(providers ProviderResolver, model, fallbackModel string) *Reranker {
	return &Reranker{
		providers:     providers,
		model:         model,
		fallbackModel: fallbackModel,
	}
}

// Rerank returns up to topK candidate IDs. It never fails the chat turn:
// quota exhaustion retries once on the cheaper fallback model, and any
// unrecoverable error (or a selection that misses the candidate set entirely)
// degrades to naive truncation in hybrid-search order.
func (r *Reranker) Rerank(ctx context.Context, candidates []Article, query string, topK int) []string {
	selected, err := r.selectIDs(ctx, candidates, query, topK, r.model)

	if err != nil && llm.IsQuotaError(err) {
		logger.Warn("rerank quota exhausted, retrying with fallback model",
			"model", r.model,
			"fallback", r.fallbackModel,
		)

		selected, err = r.selectIDs(ctx, candidates, query, topK, r.fallbackModel)
	}

	if err != nil {
		logger.ErrorErr(err, "rerank failed, falling back to truncation", "top_k", topK)
		return truncateIDs(candidates, topK)
	}

	// models hallucinate ids; keep only those present in the candidate set
	known := make(map[string]bool, len(candidates))
	for _, article := range candidates {
		known[article.ID] = true
	}

	valid := make([]string, 0, len(selected))

	for _, id := range selected {
		if known[id] {
			valid = append(valid, id)
		}
	}

	if len(valid) == 0 {
		logger.Warn("rerank returned no known ids, falling back to truncation")
		return truncateIDs(candidates, topK)
	}

	if len(valid) > topK {
		valid = valid[:topK]
	}

	return valid
}

func (r *Reranker) selectIDs(ctx context.Context, candidates []Article, query string, topK int, model string) ([]string, error) {
	provider, bareModel, err := r.providers.ProviderFor(model)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve rerank model: %w", err)
	}

	prompt := buildRerankPrompt(candidates, query, topK)

	raw, err := provider.Complete(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, llm.Options{
		Model:       bareModel,
		MaxTokens:   1024,
		Temperature: 0.1,
	})
	if err != nil {
		return nil, err
	}

	jsonStr, err := llm.ExtractJSONObject(llm.StripReasoning(raw))
	if err != nil {
		return nil, fmt.Errorf("rerank response rejected: %w", err)
	}

	var selection struct {
		SelectedIDs []string `json:"selected_ids"`
	}

	if err := json.Unmarshal([]byte(jsonStr), &selection); err != nil {
		return nil, fmt.Errorf("failed to parse rerank selection: %w", err)
	}

	return selection.SelectedIDs, nil
}

// truncateIDs returns the first topK ids in hybrid-search order
func truncateIDs(candidates []Article, topK int) []string {
	if topK > len(candidates) {
		topK = len(candidates)
	}

	ids := make([]string, 0, topK)
	for _, article := range candidates[:topK] {
		ids = append(ids, article.ID)
	}

	return ids
}

func buildRerankPrompt(candidates []Article, query string, topK int) string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf(
		"You are a news relevance ranker. From the candidate articles below, select the %d most relevant to the user's question.\n\n", topK))
	builder.WriteString("Rules:\n")
	builder.WriteString("- Deduplicate near-identical stories: keep only the most recent or highest-quality version\n")
	builder.WriteString(fmt.Sprintf("- Select at most %d ids\n", topK))
	builder.WriteString("- Prefer diverse coverage over redundant takes on the same event\n")
	builder.WriteString("- Return ONLY strict JSON: {\"selected_ids\": [\"id1\", \"id2\"]}\n\n")
	builder.WriteString(fmt.Sprintf("User question: %s\n\n", query))
	builder.WriteString("Candidate articles:\n")

	for _, article := range candidates {
		builder.WriteString(fmt.Sprintf(
			"- id: %s | date: %s | source: %s | title: %s | category: %s | keywords: %s\n  summary: %s\n",
			article.ID,
			article.Published.Format("2006-01-02"),
			article.SourceName,
			article.Title,
			article.Category,
			strings.Join(article.Keywords, ", "),
			article.Summary,
		))
	}

	return builder.String()
}
