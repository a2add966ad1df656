package retriever

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Embedder produces query vectors for the hybrid search
type Embedder interface {
	Embed(ctx context.Context, text, purpose string) ([]float32, error)
}

type Client struct {
	pool     *pgxpool.Pool
	embedder Embedder
	reranker *Reranker
}

// Article is one summarized corpus entry returned by the hybrid search.
// Instances live for a single chat turn and are discarded once the answer
// has streamed.
type Article struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	SourceName string    `json:"source_name"`
	Published  time.Time `json:"published"`
	Category   string    `json:"category"`
	Keywords   []string  `json:"keywords"`
	TLDR       string    `json:"tldr"`
	Summary    string    `json:"summary"`
	Highlights string    `json:"highlights"`
	Critiques  string    `json:"critiques"`
	MarketTake string    `json:"market_take"`
	Similarity float32   `json:"similarity"`
}
