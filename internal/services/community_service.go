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
	apperrors "github.com/edusprout/edusprout/pkg/errors"
)

// CommunityPostDTO is the API-facing community message.
type CommunityPostDTO struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	Mine      bool      `json:"mine"`
	CreatedAt time.Time `json:"created_at"`
}

// CreatePostInput describes a new community post.
type CreatePostInput struct {
	UserID  string
	Author  string
	Content string
}

// CommunityService manages the shared community page: a single global feed
// of short posts plus the visit action that feeds progression.
type CommunityService struct {
	db       *gorm.DB
	progress *ProgressService
}

// NewCommunityService constructs a CommunityService.
func NewCommunityService(db *gorm.DB, progressService *ProgressService) (*CommunityService, error) {
	if db == nil {
		return nil, errors.New("community service: db is required")
	}
	return &CommunityService{db: db, progress: progressService}, nil
}

// ListPosts returns the community feed newest-first. The feed is global;
// viewerID only marks which posts belong to the caller.
func (s *CommunityService) ListPosts(ctx context.Context, viewerID string, limit int) ([]CommunityPostDTO, error) {
	ctx = ensureContext(ctx)

	var rows []models.CommunityPost
	if err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(clampLimit(limit, 50, 200)).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("community service: list posts: %w", err)
	}

	items := make([]CommunityPostDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapCommunityPost(row, viewerID))
	}
	return items, nil
}

// CreatePost appends a post to the community feed.
func (s *CommunityService) CreatePost(ctx context.Context, input CreatePostInput) (*CommunityPostDTO, error) {
	ctx = ensureContext(ctx)

	input.UserID = strings.TrimSpace(input.UserID)
	input.Content = strings.TrimSpace(input.Content)
	if input.UserID == "" {
		return nil, errors.New("community service: user id is required")
	}
	if input.Content == "" {
		return nil, apperrors.NewBadRequest("content is required")
	}

	post := models.CommunityPost{
		UserID:  input.UserID,
		Author:  defaultIfEmpty(strings.TrimSpace(input.Author), "Anonymous"),
		Content: input.Content,
	}
	if err := s.db.WithContext(ctx).Create(&post).Error; err != nil {
		return nil, fmt.Errorf("community service: create post: %w", err)
	}

	dto := mapCommunityPost(post, input.UserID)
	return &dto, nil
}

// RecordVisit reports a community page visit for progression. The first
// visit unlocks the community badge; later visits are no-ops.
func (s *CommunityService) RecordVisit(ctx context.Context, userID string) ([]ProgressEvent, error) {
	if s.progress == nil {
		return nil, nil
	}
	_, events, err := s.progress.RecordActivity(ctx, userID, progress.ActionViewCommunity)
	if err != nil {
		return nil, fmt.Errorf("community service: record visit: %w", err)
	}
	return events, nil
}

func mapCommunityPost(row models.CommunityPost, viewerID string) CommunityPostDTO {
	return CommunityPostDTO{
		ID:        row.ID,
		Author:    row.Author,
		Content:   row.Content,
		Mine:      viewerID != "" && row.UserID == viewerID,
		CreatedAt: row.CreatedAt,
	}
}
