package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/edusprout/edusprout/internal/progress"
	"github.com/edusprout/edusprout/internal/services"
	"github.com/edusprout/edusprout/pkg/response"
)

// ProgressHandler exposes HTTP endpoints for gamified progression.
type ProgressHandler struct {
	service *services.ProgressService
}

// NewProgressHandler constructs a progress handler.
func NewProgressHandler(db *gorm.DB, sink services.NotificationSink) (*ProgressHandler, error) {
	service, err := services.NewProgressService(db, sink)
	if err != nil {
		return nil, err
	}
	return &ProgressHandler{service: service}, nil
}

// Service exposes the underlying progress service for wiring other handlers.
func (h *ProgressHandler) Service() *services.ProgressService {
	return h.service
}

// Get returns the caller's progression snapshot.
func (h *ProgressHandler) Get(c *gin.Context) {
	dto, err := h.service.Get(requestContext(c), currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, dto)
}

// AddXP grants experience points directly.
func (h *ProgressHandler) AddXP(c *gin.Context) {
	var payload struct {
		Amount int    `json:"amount" validate:"required,gt=0"`
		Reason string `json:"reason" validate:"max=64"`
	}
	if !bindAndValidate(c, &payload) {
		return
	}

	dto, events, err := h.service.AddXP(requestContext(c), currentUserID(c), payload.Amount, payload.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"progress": dto, "events": events})
}

// RecordAction reports a user action tag, updating badge and quest
// accounting for it.
func (h *ProgressHandler) RecordAction(c *gin.Context) {
	var payload struct {
		Action string `json:"action" validate:"required,max=64"`
	}
	if !bindAndValidate(c, &payload) {
		return
	}

	dto, events, err := h.service.RecordActivity(requestContext(c), currentUserID(c), payload.Action)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"progress": dto, "events": events})
}

// Badges returns the static badge catalog.
func (h *ProgressHandler) Badges(c *gin.Context) {
	response.Success(c, http.StatusOK, progress.Catalog())
}

// Quests returns the quest catalog annotated with the caller's counters.
func (h *ProgressHandler) Quests(c *gin.Context) {
	quests, err := h.service.Quests(requestContext(c), currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, quests)
}
