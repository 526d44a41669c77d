package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/edusprout/edusprout/internal/services"
	"github.com/edusprout/edusprout/pkg/response"
)

// ApplicationHandler exposes HTTP endpoints for job applications.
type ApplicationHandler struct {
	service *services.ApplicationService
}

// NewApplicationHandler constructs an application handler.
func NewApplicationHandler(db *gorm.DB, progressService *services.ProgressService, sink services.NotificationSink, opts ...services.ApplicationOption) (*ApplicationHandler, error) {
	service, err := services.NewApplicationService(db, progressService, sink, opts...)
	if err != nil {
		return nil, err
	}
	return &ApplicationHandler{service: service}, nil
}

// List returns the caller's applications, newest first.
func (h *ApplicationHandler) List(c *gin.Context) {
	items, err := h.service.ListForUser(requestContext(c), currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

// Check reports whether the caller already applied to a job.
func (h *ApplicationHandler) Check(c *gin.Context) {
	applied, err := h.service.HasApplied(requestContext(c), currentUserID(c),
		strings.TrimSpace(c.Query("job_id")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"applied": applied})
}

// Apply submits a new application. Re-applying to the same job is a no-op
// that reports the existing record.
func (h *ApplicationHandler) Apply(c *gin.Context) {
	var payload struct {
		JobID    string `json:"job_id" validate:"required,max=128"`
		JobTitle string `json:"job_title" validate:"required,max=255"`
		Company  string `json:"company" validate:"max=255"`
		Location string `json:"location" validate:"max=255"`
	}
	if !bindAndValidate(c, &payload) {
		return
	}

	dto, events, created, err := h.service.Apply(requestContext(c), services.ApplyInput{
		UserID:   currentUserID(c),
		JobID:    payload.JobID,
		JobTitle: payload.JobTitle,
		Company:  payload.Company,
		Location: payload.Location,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	response.Success(c, status, gin.H{"application": dto, "events": events, "applied": true})
}

// UpdateStatus moves an application to a new status.
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	var payload struct {
		Status string `json:"status" validate:"required,oneof=sent viewed interview rejected"`
	}
	if !bindAndValidate(c, &payload) {
		return
	}

	dto, err := h.service.UpdateStatus(requestContext(c), currentUserID(c),
		strings.TrimSpace(c.Param("id")), payload.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, dto)
}
