package config

import "testing"

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/app")
	t.Setenv("GEMINI_API_KEY", "gem-key")
	t.Setenv("OPENAI_API_KEY", "oai-key")
}

func TestLoadEnvironmentVariablesDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadEnvironmentVariables()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Environment != "development" {
		t.Errorf("expected development default, got %q", cfg.Environment)
	}

	if cfg.OpenAIBase != defaultOpenAIBase {
		t.Errorf("unexpected OpenAI base: %q", cfg.OpenAIBase)
	}

	if cfg.EmbeddingModel != defaultEmbeddingModel {
		t.Errorf("unexpected embedding model: %q", cfg.EmbeddingModel)
	}

	// embedding key falls back to the OpenAI key
	if cfg.EmbeddingKey != "oai-key" {
		t.Errorf("unexpected embedding key: %q", cfg.EmbeddingKey)
	}

	if cfg.DisableIntentRouter {
		t.Error("expected intent router enabled by default")
	}
}

func TestLoadEnvironmentVariablesMissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("GEMINI_API_KEY", "")

	if _, err := LoadEnvironmentVariables(); err == nil {
		t.Error("expected an error when GEMINI_API_KEY is unset")
	}
}

func TestLoadEnvironmentVariablesKeyAliases(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("GEMINI_API_KEY_BACKUP", "gem-backup")
	t.Setenv("OPENAI_API_KEY_ALT", "oai-alt")

	cfg, err := LoadEnvironmentVariables()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.GeminiKeyAliases["backup"] != "gem-backup" {
		t.Errorf("expected gemini backup alias, got %v", cfg.GeminiKeyAliases)
	}

	if cfg.OpenAIKeyAliases["alt"] != "oai-alt" {
		t.Errorf("expected openai alt alias, got %v", cfg.OpenAIKeyAliases)
	}
}

func TestLoadEnvironmentVariablesDisableRouter(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DISABLE_INTENT_ROUTER", "true")

	cfg, err := LoadEnvironmentVariables()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !cfg.DisableIntentRouter {
		t.Error("expected intent router disabled")
	}
}
