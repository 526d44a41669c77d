package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/edusprout/edusprout/internal/models"
	"github.com/edusprout/edusprout/internal/progress"
	apperrors "github.com/edusprout/edusprout/pkg/errors"
	"github.com/edusprout/edusprout/pkg/logger"
	"github.com/edusprout/edusprout/pkg/metrics"
)

const (
	defaultApplyLatency = 1200 * time.Millisecond
	dashboardLink       = "/dashboard"
)

// ApplicationDTO is the API-facing job application record.
type ApplicationDTO struct {
	ID          string    `json:"id"`
	JobID       string    `json:"job_id"`
	JobTitle    string    `json:"job_title"`
	Company     string    `json:"company,omitempty"`
	Location    string    `json:"location,omitempty"`
	DateApplied string    `json:"date_applied"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ApplyInput describes the job being applied to.
type ApplyInput struct {
	UserID   string
	JobID    string
	JobTitle string
	Company  string
	Location string
}

// ApplicationOption customises an ApplicationService.
type ApplicationOption func(*ApplicationService)

// WithApplyLatency overrides the simulated submission delay. Zero disables it.
func WithApplyLatency(latency time.Duration) ApplicationOption {
	return func(s *ApplicationService) {
		s.latency = latency
	}
}

// ApplicationService manages the per-user registry of job applications.
// At most one application exists per job; the submission itself is simulated
// with a cancelable delay standing in for an external ATS round trip.
type ApplicationService struct {
	db       *gorm.DB
	progress *ProgressService
	sink     NotificationSink
	log      *zap.Logger
	latency  time.Duration
}

// NewApplicationService constructs an ApplicationService.
func NewApplicationService(db *gorm.DB, progressService *ProgressService, sink NotificationSink, opts ...ApplicationOption) (*ApplicationService, error) {
	if db == nil {
		return nil, errors.New("application service: db is required")
	}
	if sink == nil {
		sink = noopSink{}
	}

	service := &ApplicationService{
		db:       db,
		progress: progressService,
		sink:     sink,
		log:      logger.WithModule("applications"),
		latency:  defaultApplyLatency,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service, nil
}

// ListForUser returns the user's applications newest-first.
func (s *ApplicationService) ListForUser(ctx context.Context, userID string) ([]ApplicationDTO, error) {
	ctx = ensureContext(ctx)
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, errors.New("application service: user id is required")
	}

	var rows []models.Application
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("application service: list applications: %w", err)
	}

	items := make([]ApplicationDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapApplication(row))
	}
	return items, nil
}

// HasApplied reports whether an application exists for the job.
func (s *ApplicationService) HasApplied(ctx context.Context, userID, jobID string) (bool, error) {
	ctx = ensureContext(ctx)

	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("user_id = ? AND job_id = ?", userID, jobID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("application service: check application: %w", err)
	}
	return count > 0, nil
}

// Apply records a job application. The simulated submission delay is
// cancelable: if ctx is done before it elapses nothing is persisted.
// Applying twice to the same job is a registry no-op: the existing record is
// returned with created=false and no delay, XP or notification.
func (s *ApplicationService) Apply(ctx context.Context, input ApplyInput) (*ApplicationDTO, []ProgressEvent, bool, error) {
	ctx = ensureContext(ctx)

	input.UserID = strings.TrimSpace(input.UserID)
	input.JobID = strings.TrimSpace(input.JobID)
	input.JobTitle = strings.TrimSpace(input.JobTitle)
	if input.UserID == "" {
		return nil, nil, false, errors.New("application service: user id is required")
	}
	if input.JobID == "" {
		return nil, nil, false, apperrors.NewBadRequest("job_id is required")
	}
	if input.JobTitle == "" {
		return nil, nil, false, apperrors.NewBadRequest("job_title is required")
	}

	// Short-circuit duplicates before paying the simulated delay. The unique
	// index below still catches concurrent racers.
	if existing, err := s.findApplication(ctx, input.UserID, input.JobID); err != nil {
		return nil, nil, false, err
	} else if existing != nil {
		return existing, nil, false, nil
	}

	if err := s.simulateSubmission(ctx); err != nil {
		return nil, nil, false, err
	}

	now := time.Now()
	application := models.Application{
		UserID:      input.UserID,
		JobID:       input.JobID,
		JobTitle:    input.JobTitle,
		Company:     strings.TrimSpace(input.Company),
		Location:    strings.TrimSpace(input.Location),
		DateApplied: now.Format("Jan 2, 2006"),
		Status:      models.ApplicationStatusSent,
	}

	if err := s.db.WithContext(ctx).Create(&application).Error; err != nil {
		if isUniqueConstraintError(err) {
			existing, findErr := s.findApplication(ctx, input.UserID, input.JobID)
			if findErr != nil {
				return nil, nil, false, findErr
			}
			if existing != nil {
				return existing, nil, false, nil
			}
		}
		return nil, nil, false, fmt.Errorf("application service: create application: %w", err)
	}

	metrics.ApplicationsSubmitted.Inc()

	var events []ProgressEvent
	if s.progress != nil {
		var err error
		_, events, err = s.progress.RecordActivity(ctx, input.UserID, progress.ActionApplyJob)
		if err != nil {
			return nil, nil, false, fmt.Errorf("application service: record apply action: %w", err)
		}
	}

	s.notify(ctx, CreateNotificationInput{
		UserID:  input.UserID,
		Type:    NotificationTypeSuccess,
		Title:   "Application sent",
		Message: fmt.Sprintf("Your application for %s was submitted.", application.JobTitle),
		Link:    dashboardLink,
		Metadata: map[string]any{
			"job_id": application.JobID,
			"status": application.Status,
		},
	})

	dto := mapApplication(application)
	return &dto, events, true, nil
}

// findApplication loads the user's application for a job, nil when absent.
func (s *ApplicationService) findApplication(ctx context.Context, userID, jobID string) (*ApplicationDTO, error) {
	var row models.Application
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND job_id = ?", userID, jobID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("application service: load application: %w", err)
	}
	dto := mapApplication(row)
	return &dto, nil
}

func (s *ApplicationService) notify(ctx context.Context, input CreateNotificationInput) {
	if err := s.sink.Notify(ctx, input); err != nil {
		s.log.Warn("application notification delivery failed",
			zap.String("user_id", input.UserID),
			zap.String("type", input.Type),
			zap.Error(err))
	}
}

// UpdateStatus moves an application to a new status. Any known status is a
// valid target; there is no enforced ordering between them.
func (s *ApplicationService) UpdateStatus(ctx context.Context, userID, applicationID, status string) (*ApplicationDTO, error) {
	ctx = ensureContext(ctx)
	status = strings.TrimSpace(strings.ToLower(status))
	if !models.ValidApplicationStatus(status) {
		return nil, apperrors.ErrInvalidStatus
	}

	var application models.Application
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", applicationID, userID).
		First(&application).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("application service: load application: %w", err)
	}

	if application.Status != status {
		if err := s.db.WithContext(ctx).Model(&application).
			Update("status", status).Error; err != nil {
			return nil, fmt.Errorf("application service: update status: %w", err)
		}
		application.Status = status

		s.notify(ctx, CreateNotificationInput{
			UserID:  userID,
			Type:    NotificationTypeInfo,
			Title:   "Application update",
			Message: fmt.Sprintf("Your application for %s is now %q.", application.JobTitle, status),
			Metadata: map[string]any{
				"job_id": application.JobID,
				"status": status,
			},
		})
	}

	dto := mapApplication(application)
	return &dto, nil
}

// simulateSubmission waits for the configured latency or until ctx is done.
func (s *ApplicationService) simulateSubmission(ctx context.Context) error {
	if s.latency <= 0 {
		return nil
	}

	timer := time.NewTimer(s.latency)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func mapApplication(row models.Application) ApplicationDTO {
	return ApplicationDTO{
		ID:          row.ID,
		JobID:       row.JobID,
		JobTitle:    row.JobTitle,
		Company:     row.Company,
		Location:    row.Location,
		DateApplied: row.DateApplied,
		Status:      defaultIfEmpty(row.Status, models.ApplicationStatusSent),
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}
