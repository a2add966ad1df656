package main

import (
	"context"
	"fmt"

	"github.com/Aloklok/rss-daily-sub001/internal/config"
	"github.com/Aloklok/rss-daily-sub001/internal/storage"
	"github.com/gin-gonic/gin"
)

// creates and configures a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	ctx := context.Background()

	db, err := storage.NewClient(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	services, err := InitializeServices(ctx, cfg, db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	server := &Server{
		db:       db,
		config:   cfg,
		services: services,
		router:   router,
	}

	RegisterRoutes(router, server)

	return server, nil
}
