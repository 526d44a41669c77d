package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edusprout/edusprout/internal/cache"
	"github.com/edusprout/edusprout/internal/services"
	"github.com/edusprout/edusprout/pkg/response"
)

// ResumeHandler exposes the resume scoring endpoint.
type ResumeHandler struct {
	service *services.ResumeService
}

// NewResumeHandler constructs a resume handler.
func NewResumeHandler(store cache.Store) *ResumeHandler {
	return &ResumeHandler{service: services.NewResumeService(store)}
}

// Score analyses resume text and returns a 0-100 score with feedback.
func (h *ResumeHandler) Score(c *gin.Context) {
	var payload struct {
		Text string `json:"text" validate:"required"`
	}
	if !bindAndValidate(c, &payload) {
		return
	}

	result, err := h.service.Score(requestContext(c), payload.Text)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}
