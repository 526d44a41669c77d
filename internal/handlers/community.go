package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/edusprout/edusprout/internal/services"
	"github.com/edusprout/edusprout/pkg/response"
)

// CommunityHandler exposes HTTP endpoints for the community page.
type CommunityHandler struct {
	service *services.CommunityService
}

// NewCommunityHandler constructs a community handler.
func NewCommunityHandler(db *gorm.DB, progressService *services.ProgressService) (*CommunityHandler, error) {
	service, err := services.NewCommunityService(db, progressService)
	if err != nil {
		return nil, err
	}
	return &CommunityHandler{service: service}, nil
}

// ListPosts returns the global community feed.
func (h *CommunityHandler) ListPosts(c *gin.Context) {
	posts, err := h.service.ListPosts(requestContext(c), currentUserID(c), parseIntQuery(c, "limit", 50))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, posts)
}

// CreatePost appends a post to the feed.
func (h *CommunityHandler) CreatePost(c *gin.Context) {
	var payload struct {
		Author  string `json:"author" validate:"max=255"`
		Content string `json:"content" validate:"required,max=4096"`
	}
	if !bindAndValidate(c, &payload) {
		return
	}

	post, err := h.service.CreatePost(requestContext(c), services.CreatePostInput{
		UserID:  currentUserID(c),
		Author:  payload.Author,
		Content: payload.Content,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, post)
}

// RecordVisit reports a community page visit for progression.
func (h *CommunityHandler) RecordVisit(c *gin.Context) {
	events, err := h.service.RecordVisit(requestContext(c), currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"events": events})
}
