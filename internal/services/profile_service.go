package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/edusprout/edusprout/internal/models"
	"github.com/edusprout/edusprout/internal/progress"
)

// Profile defaults used when a user is seen for the first time.
const (
	defaultProfileName     = "Student"
	defaultProfileSemester = "1"
)

// ProfileDTO is the API-facing student profile.
type ProfileDTO struct {
	UserID     string    `json:"user_id"`
	Name       string    `json:"name"`
	University string    `json:"university,omitempty"`
	Major      string    `json:"major,omitempty"`
	Semester   string    `json:"semester,omitempty"`
	Bio        string    `json:"bio,omitempty"`
	Avatar     string    `json:"avatar,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// UpdateProfileInput carries profile fields to persist. Nil pointers leave
// the current value untouched.
type UpdateProfileInput struct {
	UserID     string
	Name       *string
	University *string
	Major      *string
	Semester   *string
	Bio        *string
	Avatar     *string
}

// ProfileService manages student profiles. Profiles are materialised with
// defaults on first access rather than requiring explicit registration.
type ProfileService struct {
	db       *gorm.DB
	progress *ProgressService
}

// NewProfileService constructs a ProfileService. The progress service may be
// nil, in which case profile updates earn no XP.
func NewProfileService(db *gorm.DB, progressService *ProgressService) (*ProfileService, error) {
	if db == nil {
		return nil, errors.New("profile service: db is required")
	}
	return &ProfileService{db: db, progress: progressService}, nil
}

// Get returns the user's profile, creating the default one on first access.
func (s *ProfileService) Get(ctx context.Context, userID string) (*ProfileDTO, error) {
	ctx = ensureContext(ctx)
	row, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	dto := mapProfile(*row)
	return &dto, nil
}

// Update persists the supplied profile fields. A successful update counts as
// a profile action for progression purposes.
func (s *ProfileService) Update(ctx context.Context, input UpdateProfileInput) (*ProfileDTO, []ProgressEvent, error) {
	ctx = ensureContext(ctx)
	row, err := s.load(ctx, input.UserID)
	if err != nil {
		return nil, nil, err
	}

	updates := map[string]any{}
	assign := func(column string, value *string, target *string) {
		if value == nil {
			return
		}
		trimmed := strings.TrimSpace(*value)
		if trimmed == *target {
			return
		}
		updates[column] = trimmed
		*target = trimmed
	}

	assign("name", input.Name, &row.Name)
	assign("university", input.University, &row.University)
	assign("major", input.Major, &row.Major)
	assign("semester", input.Semester, &row.Semester)
	assign("bio", input.Bio, &row.Bio)
	assign("avatar", input.Avatar, &row.Avatar)

	var events []ProgressEvent
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(row).Updates(updates).Error; err != nil {
			return nil, nil, fmt.Errorf("profile service: update profile: %w", err)
		}

		if s.progress != nil {
			_, events, err = s.progress.RecordActivity(ctx, row.UserID, progress.ActionUpdateProfile)
			if err != nil {
				return nil, nil, fmt.Errorf("profile service: record profile action: %w", err)
			}
		}
	}

	dto := mapProfile(*row)
	return &dto, events, nil
}

func (s *ProfileService) load(ctx context.Context, userID string) (*models.UserProfile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, errors.New("profile service: user id is required")
	}

	var row models.UserProfile
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Attrs(models.UserProfile{
			Name:     defaultProfileName,
			Semester: defaultProfileSemester,
		}).
		FirstOrCreate(&row, models.UserProfile{UserID: userID}).Error
	if err != nil {
		return nil, fmt.Errorf("profile service: load profile: %w", err)
	}
	return &row, nil
}

func mapProfile(row models.UserProfile) ProfileDTO {
	return ProfileDTO{
		UserID:     row.UserID,
		Name:       row.Name,
		University: row.University,
		Major:      row.Major,
		Semester:   row.Semester,
		Bio:        row.Bio,
		Avatar:     row.Avatar,
		UpdatedAt:  row.UpdatedAt,
	}
}
