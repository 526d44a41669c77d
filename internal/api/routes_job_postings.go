package api

import (
	"github.com/gin-gonic/gin"

	"github.com/edusprout/edusprout/internal/handlers"
)

func registerJobPostingRoutes(api *gin.RouterGroup, handler *handlers.JobPostingHandler) {
	group := api.Group("/jobs")
	{
		group.GET("", handler.List)
		group.POST("", handler.Create)
		group.DELETE("/:id", handler.Delete)
	}
}
