package api

import (
	"github.com/gin-gonic/gin"

	"github.com/edusprout/edusprout/internal/handlers"
)

func registerNotificationRoutes(api *gin.RouterGroup, handler *handlers.NotificationHandler, streaming bool) {
	group := api.Group("/notifications")
	{
		group.GET("", handler.List)
		group.GET("/unread-count", handler.UnreadCount)
		group.POST("/:id/read", handler.MarkRead)
		group.POST("/read-all", handler.MarkAllRead)
		group.DELETE("", handler.ClearAll)
		group.DELETE("/:id", handler.Delete)

		if streaming {
			group.GET("/stream", handler.Stream)
		}
	}
}
