package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultOpenAIBase     = "https://api.openai.com"
	defaultEmbeddingBase  = "https://api.openai.com"
	defaultEmbeddingModel = "text-embedding-3-small"
	defaultRouterModel    = "gemini-2.5-flash-lite"
	defaultRerankModel    = "gemini-2.5-flash"
	defaultRerankFallback = "gemini-2.5-flash-lite"
)

// loads configuration from environment variables
func LoadEnvironmentVariables() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		_ = err // not an error - production environments may not have .env file
	}

	databaseURL := os.Getenv("DATABASE_URL")
	geminiKey := os.Getenv("GEMINI_API_KEY")
	openaiKey := os.Getenv("OPENAI_API_KEY")
	environment := os.Getenv("ENVIRONMENT")

	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	if geminiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	if openaiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required")
	}

	if environment == "" {
		environment = "development"
	}

	embeddingKey := os.Getenv("EMBEDDING_API_KEY")
	if embeddingKey == "" {
		embeddingKey = openaiKey
	}

	cfg := &Config{
		DatabaseURL:         databaseURL,
		Environment:         environment,
		GeminiKey:           geminiKey,
		OpenAIKey:           openaiKey,
		OpenAIBase:          getEnvOrDefault("OPENAI_BASE_URL", defaultOpenAIBase),
		GeminiKeyAliases:    loadKeyAliases("GEMINI_API_KEY_"),
		OpenAIKeyAliases:    loadKeyAliases("OPENAI_API_KEY_"),
		EmbeddingKey:        embeddingKey,
		EmbeddingBase:       getEnvOrDefault("EMBEDDING_BASE_URL", defaultEmbeddingBase),
		EmbeddingModel:      getEnvOrDefault("EMBEDDING_MODEL", defaultEmbeddingModel),
		RouterModel:         getEnvOrDefault("ROUTER_MODEL", defaultRouterModel),
		RerankModel:         getEnvOrDefault("RERANK_MODEL", defaultRerankModel),
		RerankFallbackModel: getEnvOrDefault("RERANK_FALLBACK_MODEL", defaultRerankFallback),
		DisableIntentRouter: os.Getenv("DISABLE_INTENT_ROUTER") == "true",
	}

	return cfg, nil
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

// collects aliased credentials like GEMINI_API_KEY_BACKUP into {"backup": ...}
func loadKeyAliases(prefix string) map[string]string {
	aliases := make(map[string]string)

	for _, entry := range os.Environ() {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || !strings.HasPrefix(key, prefix) || value == "" {
			continue
		}

		alias := strings.ToLower(strings.TrimPrefix(key, prefix))
		if alias != "" {
			aliases[alias] = value
		}
	}

	return aliases
}
