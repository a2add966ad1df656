package main

import (
	"github.com/Aloklok/rss-daily-sub001/internal/chat"
	"github.com/Aloklok/rss-daily-sub001/internal/config"
	"github.com/Aloklok/rss-daily-sub001/internal/llm"
	"github.com/Aloklok/rss-daily-sub001/internal/retriever"
	"github.com/Aloklok/rss-daily-sub001/internal/router"
	"github.com/Aloklok/rss-daily-sub001/internal/storage"
	"github.com/gin-gonic/gin"
)

// holds all dependencies and state for the API server
type Server struct {
	db       *storage.Client
	config   *config.Config
	services *Services
	router   *gin.Engine
}

// holds all service clients (providers, retrieval, routing, chat)
type Services struct {
	Chat      *chat.Service
	Registry  *llm.Registry
	Retriever *retriever.Client
	Router    *router.Router
}
