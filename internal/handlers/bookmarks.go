package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/edusprout/edusprout/internal/services"
	"github.com/edusprout/edusprout/pkg/response"
)

// bookmarkPayload is shared by the save and toggle endpoints.
type bookmarkPayload struct {
	ItemID   string         `json:"item_id" validate:"required,max=128"`
	ItemType string         `json:"item_type" validate:"required,oneof=job scholarship"`
	Title    string         `json:"title" validate:"required,max=255"`
	Subtitle string         `json:"subtitle" validate:"max=255"`
	Location string         `json:"location" validate:"max=255"`
	Link     string         `json:"link" validate:"max=2048"`
	Date     string         `json:"date" validate:"max=64"`
	Data     map[string]any `json:"data"`
}

// BookmarkHandler exposes HTTP endpoints for saved listings.
type BookmarkHandler struct {
	service *services.BookmarkService
}

// NewBookmarkHandler constructs a bookmark handler.
func NewBookmarkHandler(db *gorm.DB, progressService *services.ProgressService) (*BookmarkHandler, error) {
	service, err := services.NewBookmarkService(db, progressService)
	if err != nil {
		return nil, err
	}
	return &BookmarkHandler{service: service}, nil
}

// List returns the caller's bookmarks, optionally filtered by ?type=.
func (h *BookmarkHandler) List(c *gin.Context) {
	items, err := h.service.ListForUser(requestContext(c), currentUserID(c), c.Query("type"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

// Check reports whether a listing is saved.
func (h *BookmarkHandler) Check(c *gin.Context) {
	saved, err := h.service.IsBookmarked(requestContext(c), currentUserID(c),
		strings.TrimSpace(c.Query("item_id")), strings.TrimSpace(c.Query("item_type")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookmarked": saved})
}

// Save adds a listing to the registry. Saving twice is a no-op.
func (h *BookmarkHandler) Save(c *gin.Context) {
	var payload bookmarkPayload
	if !bindAndValidate(c, &payload) {
		return
	}

	dto, created, err := h.service.Add(requestContext(c), saveInput(currentUserID(c), payload))
	if err != nil {
		response.Error(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	response.Success(c, status, dto)
}

// Toggle flips the saved state of a listing.
func (h *BookmarkHandler) Toggle(c *gin.Context) {
	var payload bookmarkPayload
	if !bindAndValidate(c, &payload) {
		return
	}

	result, err := h.service.Toggle(requestContext(c), saveInput(currentUserID(c), payload))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// Remove deletes a saved listing. Removing an absent one is a no-op.
func (h *BookmarkHandler) Remove(c *gin.Context) {
	removed, err := h.service.Remove(requestContext(c), currentUserID(c),
		strings.TrimSpace(c.Query("item_id")), strings.TrimSpace(c.Query("item_type")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"removed": removed})
}

func saveInput(userID string, payload bookmarkPayload) services.SaveBookmarkInput {
	return services.SaveBookmarkInput{
		UserID:   userID,
		ItemID:   payload.ItemID,
		ItemType: payload.ItemType,
		Title:    payload.Title,
		Subtitle: payload.Subtitle,
		Location: payload.Location,
		Link:     payload.Link,
		Date:     payload.Date,
		Data:     payload.Data,
	}
}
