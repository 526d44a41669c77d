package api

import (
	"github.com/gin-gonic/gin"

	"github.com/edusprout/edusprout/internal/handlers"
)

func registerProgressRoutes(api *gin.RouterGroup, handler *handlers.ProgressHandler) {
	group := api.Group("/progress")
	{
		group.GET("", handler.Get)
		group.POST("/xp", handler.AddXP)
		group.POST("/actions", handler.RecordAction)
		group.GET("/badges", handler.Badges)
		group.GET("/quests", handler.Quests)
	}
}
