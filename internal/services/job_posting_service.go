package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/edusprout/edusprout/internal/models"
	apperrors "github.com/edusprout/edusprout/pkg/errors"
)

// JobPostingDTO is the API-facing user-created job listing.
type JobPostingDTO struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Company     string    `json:"company,omitempty"`
	Location    string    `json:"location,omitempty"`
	Link        string    `json:"link,omitempty"`
	Description string    `json:"description,omitempty"`
	Mine        bool      `json:"mine"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateJobPostingInput describes a new listing.
type CreateJobPostingInput struct {
	UserID      string
	Title       string
	Company     string
	Location    string
	Link        string
	Description string
}

// JobPostingService manages user-submitted job listings shown alongside the
// curated catalog.
type JobPostingService struct {
	db *gorm.DB
}

// NewJobPostingService constructs a JobPostingService.
func NewJobPostingService(db *gorm.DB) (*JobPostingService, error) {
	if db == nil {
		return nil, errors.New("job posting service: db is required")
	}
	return &JobPostingService{db: db}, nil
}

// List returns postings newest-first. The listing board is global.
func (s *JobPostingService) List(ctx context.Context, viewerID string, limit int) ([]JobPostingDTO, error) {
	ctx = ensureContext(ctx)

	var rows []models.JobPosting
	if err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(clampLimit(limit, 50, 200)).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("job posting service: list postings: %w", err)
	}

	items := make([]JobPostingDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapJobPosting(row, viewerID))
	}
	return items, nil
}

// Create stores a new listing.
func (s *JobPostingService) Create(ctx context.Context, input CreateJobPostingInput) (*JobPostingDTO, error) {
	ctx = ensureContext(ctx)

	input.UserID = strings.TrimSpace(input.UserID)
	input.Title = strings.TrimSpace(input.Title)
	if input.UserID == "" {
		return nil, errors.New("job posting service: user id is required")
	}
	if input.Title == "" {
		return nil, apperrors.NewBadRequest("title is required")
	}

	posting := models.JobPosting{
		UserID:      input.UserID,
		Title:       input.Title,
		Company:     strings.TrimSpace(input.Company),
		Location:    strings.TrimSpace(input.Location),
		Link:        strings.TrimSpace(input.Link),
		Description: strings.TrimSpace(input.Description),
	}
	if err := s.db.WithContext(ctx).Create(&posting).Error; err != nil {
		return nil, fmt.Errorf("job posting service: create posting: %w", err)
	}

	dto := mapJobPosting(posting, input.UserID)
	return &dto, nil
}

// Delete removes a posting owned by the caller.
func (s *JobPostingService) Delete(ctx context.Context, userID, postingID string) error {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", postingID, userID).
		Delete(&models.JobPosting{})
	if result.Error != nil {
		return fmt.Errorf("job posting service: delete posting: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func mapJobPosting(row models.JobPosting, viewerID string) JobPostingDTO {
	return JobPostingDTO{
		ID:          row.ID,
		Title:       row.Title,
		Company:     row.Company,
		Location:    row.Location,
		Link:        row.Link,
		Description: row.Description,
		Mine:        viewerID != "" && row.UserID == viewerID,
		CreatedAt:   row.CreatedAt,
	}
}
