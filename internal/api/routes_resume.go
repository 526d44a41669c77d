package api

import (
	"github.com/gin-gonic/gin"

	"github.com/edusprout/edusprout/internal/handlers"
)

func registerResumeRoutes(api *gin.RouterGroup, handler *handlers.ResumeHandler) {
	group := api.Group("/resume")
	{
		group.POST("/score", handler.Score)
	}
}
