package retriever

import (
	"context"
	"fmt"

	"github.com/Aloklok/rss-daily-sub001/internal/embedder"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

const (
	// hard cap on hybrid-search candidates per call
	candidateCap = 50

	// candidates at or below this relevance score are discarded
	similarityFloor = 0.5
)

func New(pool *pgxpool.Pool, emb Embedder, reranker *Reranker) *Client {
	return &Client{
		pool:     pool,
		embedder: emb,
		reranker: reranker,
	}
}

// Retrieve runs the full two-stage retrieval pipeline: hybrid search against
// the corpus, relevance filtering, then model-driven reranking when the
// filtered set exceeds the provider's context budget.
func (c *Client) Retrieve(ctx context.Context, query string, topK int) ([]Article, error) {
	embedding, err := c.embedder.Embed(ctx, query, embedder.PurposeQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to generate query embedding: %w", err)
	}

	candidates, err := c.hybridSearch(ctx, query, embedding, candidateCap)
	if err != nil {
		return nil, fmt.Errorf("hybrid search failed: %w", err)
	}

	return c.selectWithinBudget(ctx, filterBySimilarity(candidates), query, topK), nil
}

// selectWithinBudget applies the rerank stage only when the filtered set
// exceeds the provider's context budget
func (c *Client) selectWithinBudget(ctx context.Context, filtered []Article, query string, topK int) []Article {
	if len(filtered) <= topK {
		return filtered
	}

	selectedIDs := c.reranker.Rerank(ctx, filtered, query, topK)

	byID := make(map[string]Article, len(filtered))
	for _, article := range filtered {
		byID[article.ID] = article
	}

	selected := make([]Article, 0, len(selectedIDs))

	for _, id := range selectedIDs {
		if article, ok := byID[id]; ok {
			selected = append(selected, article)
		}
	}

	return selected
}

// hybridSearch issues one server-side lexical + vector search call
func (c *Client) hybridSearch(ctx context.Context, queryText string, queryEmbedding []float32, matchCount int) ([]Article, error) {
	rows, err := c.pool.Query(ctx, hybridSearchQuery, queryText, pgvector.NewVector(queryEmbedding), matchCount)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search query: %w", err)
	}
	defer rows.Close()

	var results []Article

	for rows.Next() {
		var article Article

		err := rows.Scan(
			&article.ID,
			&article.Title,
			&article.SourceName,
			&article.Published,
			&article.Category,
			&article.Keywords,
			&article.TLDR,
			&article.Summary,
			&article.Highlights,
			&article.Critiques,
			&article.MarketTake,
			&article.Similarity,
		)

		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		results = append(results, article)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return results, nil
}

// filterBySimilarity keeps candidates strictly above the relevance floor
func filterBySimilarity(candidates []Article) []Article {
	filtered := make([]Article, 0, len(candidates))

	for _, article := range candidates {
		if article.Similarity > similarityFloor {
			filtered = append(filtered, article)
		}
	}

	return filtered
}
