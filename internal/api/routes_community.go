package api

import (
	"github.com/gin-gonic/gin"

	"github.com/edusprout/edusprout/internal/handlers"
)

func registerCommunityRoutes(api *gin.RouterGroup, handler *handlers.CommunityHandler) {
	group := api.Group("/community")
	{
		group.GET("/posts", handler.ListPosts)
		group.POST("/posts", handler.CreatePost)
		group.POST("/visit", handler.RecordVisit)
	}
}
