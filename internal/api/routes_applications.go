package api

import (
	"github.com/gin-gonic/gin"

	"github.com/edusprout/edusprout/internal/handlers"
)

func registerApplicationRoutes(api *gin.RouterGroup, handler *handlers.ApplicationHandler) {
	group := api.Group("/applications")
	{
		group.GET("", handler.List)
		group.GET("/check", handler.Check)
		group.POST("", handler.Apply)
		group.PATCH("/:id/status", handler.UpdateStatus)
	}
}
