package config

// Config holds all process-wide settings. It is constructed once at startup
// and passed by reference into every component; nothing reads the environment
// after load.
type Config struct {
	DatabaseURL string
	Environment string

	// provider credentials
	GeminiKey  string
	OpenAIKey  string
	OpenAIBase string

	// aliased credentials, keyed by the suffix of GEMINI_API_KEY_<ALIAS> /
	// OPENAI_API_KEY_<ALIAS>. A model id like "gemini-2.5-flash@backup"
	// selects the "backup" key.
	GeminiKeyAliases map[string]string
	OpenAIKeyAliases map[string]string

	// embeddings
	EmbeddingKey   string
	EmbeddingBase  string
	EmbeddingModel string

	// auxiliary models
	RouterModel         string
	RerankModel         string
	RerankFallbackModel string

	// forces RAG_LOCAL for every call, skipping the classification model
	DisableIntentRouter bool
}
