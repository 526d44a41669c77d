package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/edusprout/edusprout/internal/services"
	"github.com/edusprout/edusprout/pkg/response"
)

// JobPostingHandler exposes HTTP endpoints for user-submitted job listings.
type JobPostingHandler struct {
	service *services.JobPostingService
}

// NewJobPostingHandler constructs a job posting handler.
func NewJobPostingHandler(db *gorm.DB) (*JobPostingHandler, error) {
	service, err := services.NewJobPostingService(db)
	if err != nil {
		return nil, err
	}
	return &JobPostingHandler{service: service}, nil
}

// List returns the posting board.
func (h *JobPostingHandler) List(c *gin.Context) {
	items, err := h.service.List(requestContext(c), currentUserID(c), parseIntQuery(c, "limit", 50))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

// Create stores a new listing.
func (h *JobPostingHandler) Create(c *gin.Context) {
	var payload struct {
		Title       string `json:"title" validate:"required,max=255"`
		Company     string `json:"company" validate:"max=255"`
		Location    string `json:"location" validate:"max=255"`
		Link        string `json:"link" validate:"max=2048"`
		Description string `json:"description" validate:"max=8192"`
	}
	if !bindAndValidate(c, &payload) {
		return
	}

	dto, err := h.service.Create(requestContext(c), services.CreateJobPostingInput{
		UserID:      currentUserID(c),
		Title:       payload.Title,
		Company:     payload.Company,
		Location:    payload.Location,
		Link:        payload.Link,
		Description: payload.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, dto)
}

// Delete removes a listing owned by the caller.
func (h *JobPostingHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(requestContext(c), currentUserID(c), strings.TrimSpace(c.Param("id"))); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
