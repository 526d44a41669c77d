package api

import (
	"github.com/gin-gonic/gin"

	"github.com/edusprout/edusprout/internal/handlers"
)

func registerBookmarkRoutes(api *gin.RouterGroup, handler *handlers.BookmarkHandler) {
	group := api.Group("/bookmarks")
	{
		group.GET("", handler.List)
		group.GET("/check", handler.Check)
		group.POST("", handler.Save)
		group.POST("/toggle", handler.Toggle)
		group.DELETE("", handler.Remove)
	}
}
