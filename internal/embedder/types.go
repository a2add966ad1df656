package embedder

const (
	embeddingsPath = "/v1/embeddings"
	defaultModel   = "text-embedding-3-small"

	// embedding purposes; asymmetric models treat queries and documents
	// differently
	PurposeQuery    = "query"
	PurposeDocument = "document"
)

type Config struct {
	APIKey  string
	Model   string
	BaseURL string

	// prepend "query: "/"passage: " task prefixes (E5-style models)
	PrefixInputs bool
}
