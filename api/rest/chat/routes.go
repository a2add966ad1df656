package chat

import (
	chatcore "github.com/Aloklok/rss-daily-sub001/internal/chat"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(router *gin.RouterGroup, chatService *chatcore.Service) {
	chatGroup := router.Group("/chat")
	{
		chatGroup.POST("", Handler(chatService))
	}
}
