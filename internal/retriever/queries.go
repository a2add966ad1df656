package retriever

const (
	hybridSearchQuery = `
		SELECT
			id::text,
			title,
			source_name,
			published_at,
			category,
			keywords,
			tldr,
			summary,
			highlights,
			critiques,
			market_take,
			similarity
		FROM hybrid_search_articles($1, $2, $3)
	`
)
