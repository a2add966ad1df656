package retriever

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/Aloklok/rss-daily-sub001/internal/llm"
)

func TestFilterBySimilarityExcludesFloor(t *testing.T) {
	candidates := []Article{
		{ID: "a", Similarity: 0.49},
		{ID: "b", Similarity: 0.5}, // exactly at the floor is out
		{ID: "c", Similarity: 0.51},
		{ID: "d", Similarity: 0.9},
	}

	filtered := filterBySimilarity(candidates)

	if len(filtered) != 2 {
		t.Fatalf("expected 2 survivors, got %d", len(filtered))
	}

	if filtered[0].ID != "c" || filtered[1].ID != "d" {
		t.Errorf("unexpected survivors: %v, %v", filtered[0].ID, filtered[1].ID)
	}
}

func TestFilterBySimilarityKeepsOrder(t *testing.T) {
	candidates := makeCandidates(5)

	filtered := filterBySimilarity(candidates)

	if len(filtered) != 5 {
		t.Fatalf("expected all 5 candidates, got %d", len(filtered))
	}

	for i, article := range filtered {
		if article.ID != candidates[i].ID {
			t.Errorf("position %d: expected %s, got %s", i, candidates[i].ID, article.ID)
		}
	}
}

func TestSelectWithinBudgetSkipsRerankUnderBudget(t *testing.T) {
	resolver := &mockResolver{provider: &mockProvider{
		completeFunc: func(_ context.Context, _ []llm.Message, _ llm.Options) (string, error) {
			t.Fatal("rerank model must not be called when the set fits the budget")
			return "", nil
		},
	}}

	client := New(nil, nil, NewReranker(resolver, "gemini-2.5-flash", "gemini-2.5-flash-lite"))

	filtered := []Article{
		{ID: "a", Similarity: 0.51},
		{ID: "b", Similarity: 0.6},
		{ID: "c", Similarity: 0.9},
	}

	selected := client.selectWithinBudget(context.Background(), filtered, "anything", 10)

	if len(selected) != 3 {
		t.Fatalf("expected all 3 articles untouched, got %d", len(selected))
	}

	for i, article := range selected {
		if article.ID != filtered[i].ID {
			t.Errorf("position %d: expected %s, got %s", i, filtered[i].ID, article.ID)
		}
	}
}

func TestSelectWithinBudgetMapsRerankOrder(t *testing.T) {
	resolver := &mockResolver{provider: &mockProvider{
		completeFunc: func(_ context.Context, _ []llm.Message, _ llm.Options) (string, error) {
			return `{"selected_ids": ["art-03", "art-00"]}`, nil
		},
	}}

	client := New(nil, nil, NewReranker(resolver, "gemini-2.5-flash", "gemini-2.5-flash-lite"))

	selected := client.selectWithinBudget(context.Background(), makeCandidates(6), "anything", 2)

	if len(selected) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(selected))
	}

	if selected[0].ID != "art-03" || selected[1].ID != "art-00" {
		t.Errorf("expected the rerank order, got %s, %s", selected[0].ID, selected[1].ID)
	}
}

func TestRetrievePropagatesEmbedError(t *testing.T) {
	client := New(nil, embedFunc(func(_ context.Context, _, _ string) ([]float32, error) {
		return nil, fmt.Errorf("embedding backend down")
	}), nil)

	if _, err := client.Retrieve(context.Background(), "anything", 10); err == nil {
		t.Error("expected an embedding error to fail the call")
	}
}

// adapts a func to the Embedder interface
type embedFunc func(ctx context.Context, text, purpose string) ([]float32, error)

func (f embedFunc) Embed(ctx context.Context, text, purpose string) ([]float32, error) {
	return f(ctx, text, purpose)
}

func TestTruncateIDs(t *testing.T) {
	candidates := makeCandidates(5)

	ids := truncateIDs(candidates, 3)
	if len(ids) != 3 {
		t.Fatalf("expected 3 ids, got %d", len(ids))
	}

	// asking for more than exists returns everything
	ids = truncateIDs(candidates, 10)
	if len(ids) != 5 {
		t.Errorf("expected 5 ids, got %d", len(ids))
	}

	ids = truncateIDs(nil, 3)
	if len(ids) != 0 {
		t.Errorf("expected no ids for empty input, got %d", len(ids))
	}
}

func TestBuildRerankPrompt(t *testing.T) {
	candidates := makeCandidates(2)
	candidates[0].Keywords = []string{"chips", "export"}
	candidates[0].Summary = "Export controls tightened."

	prompt := buildRerankPrompt(candidates, "what changed in chip exports", 1)

	for _, fragment := range []string{
		"art-00",
		"art-01",
		"chips, export",
		"Export controls tightened.",
		"what changed in chip exports",
		`{"selected_ids"`,
	} {
		if !strings.Contains(prompt, fragment) {
			t.Errorf("expected prompt to contain %q", fragment)
		}
	}
}
