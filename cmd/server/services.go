package main

import (
	"context"
	"fmt"

	"github.com/Aloklok/rss-daily-sub001/internal/chat"
	"github.com/Aloklok/rss-daily-sub001/internal/config"
	"github.com/Aloklok/rss-daily-sub001/internal/embedder"
	"github.com/Aloklok/rss-daily-sub001/internal/llm"
	"github.com/Aloklok/rss-daily-sub001/internal/retriever"
	"github.com/Aloklok/rss-daily-sub001/internal/router"
	"github.com/Aloklok/rss-daily-sub001/internal/storage"
)

// creates and configures all service clients
func InitializeServices(ctx context.Context, cfg *config.Config, db *storage.Client) (*Services, error) {
	registry, err := llm.NewRegistry(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider registry: %w", err)
	}

	embedderClient := embedder.NewClient(embedder.Config{
		APIKey:  cfg.EmbeddingKey,
		Model:   cfg.EmbeddingModel,
		BaseURL: cfg.EmbeddingBase,
	})

	reranker := retriever.NewReranker(registry, cfg.RerankModel, cfg.RerankFallbackModel)
	retrieverClient := retriever.New(db.Pool(), embedderClient, reranker)

	routerClient := router.New(registry, cfg.RouterModel, cfg.DisableIntentRouter)

	chatService := chat.NewService(routerClient, retrieverClient, registry, db)

	return &Services{
		Chat:      chatService,
		Registry:  registry,
		Retriever: retrieverClient,
		Router:    routerClient,
	}, nil
}
