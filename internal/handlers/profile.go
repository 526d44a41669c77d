package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/edusprout/edusprout/internal/services"
	"github.com/edusprout/edusprout/pkg/response"
)

// ProfileHandler exposes HTTP endpoints for the student profile.
type ProfileHandler struct {
	service *services.ProfileService
}

// NewProfileHandler constructs a profile handler.
func NewProfileHandler(db *gorm.DB, progressService *services.ProgressService) (*ProfileHandler, error) {
	service, err := services.NewProfileService(db, progressService)
	if err != nil {
		return nil, err
	}
	return &ProfileHandler{service: service}, nil
}

// Get returns the caller's profile, creating defaults on first access.
func (h *ProfileHandler) Get(c *gin.Context) {
	dto, err := h.service.Get(requestContext(c), currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, dto)
}

// Update persists profile fields. Omitted fields stay unchanged.
func (h *ProfileHandler) Update(c *gin.Context) {
	var payload struct {
		Name       *string `json:"name" validate:"omitempty,max=255"`
		University *string `json:"university" validate:"omitempty,max=255"`
		Major      *string `json:"major" validate:"omitempty,max=255"`
		Semester   *string `json:"semester" validate:"omitempty,max=64"`
		Bio        *string `json:"bio" validate:"omitempty,max=4096"`
		Avatar     *string `json:"avatar" validate:"omitempty,max=65536"`
	}
	if !bindAndValidate(c, &payload) {
		return
	}

	dto, events, err := h.service.Update(requestContext(c), services.UpdateProfileInput{
		UserID:     currentUserID(c),
		Name:       payload.Name,
		University: payload.University,
		Major:      payload.Major,
		Semester:   payload.Semester,
		Bio:        payload.Bio,
		Avatar:     payload.Avatar,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"profile": dto, "events": events})
}
